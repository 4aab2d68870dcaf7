package main

import "time"

// VideoRequest is the summarize endpoint's input.
type VideoRequest struct {
	URL string `json:"url" binding:"required"`
}

// SummaryResponse pairs the extracted video ID with the editor's output.
type SummaryResponse struct {
	VideoID string `json:"video_id"`
	Summary string `json:"summary"`
}

// Item is the scaffolding echo payload. Optional fields stay pointers so
// omitted values echo back as explicit nulls; required fields are pointers
// so zero values still pass validation.
type Item struct {
	Name        *string  `json:"name" binding:"required"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"required"`
	Tax         *float64 `json:"tax"`
}

// SavedSummary represents a summary written to disk with full frontmatter
type SavedSummary struct {
	VideoID   string
	SourceURL string
	Summary   string
	Model     string
	CreatedAt time.Time
}
