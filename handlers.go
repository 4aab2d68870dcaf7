package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

var debugEnabled bool

// SetDebugMode enables or disables debug logging
func SetDebugMode(enabled bool) {
	debugEnabled = enabled
}

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// TranscriptFetcher retrieves a flattened transcript for a video ID.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

// SummaryGenerator turns a transcript into the final Markdown summary.
type SummaryGenerator interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Server holds the summarization chain behind the HTTP boundary.
type Server struct {
	transcripts TranscriptFetcher
	generator   SummaryGenerator
}

// NewServer wires the HTTP boundary to its collaborators.
func NewServer(transcripts TranscriptFetcher, generator SummaryGenerator) *Server {
	return &Server{transcripts: transcripts, generator: generator}
}

// Summarize handles POST /summarize: extract the video ID, fetch the
// transcript, run the pipeline. Failures map to 400 for a bad URL, 404 for
// a missing transcript and 500 for generation, each carrying the cause.
func (s *Server) Summarize(c *gin.Context) {
	var request VideoRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	videoID, err := extractVideoID(request.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid YouTube URL"})
		return
	}

	log.Printf("→ Summarizing %s", videoID)

	transcript, err := s.transcripts.Fetch(c.Request.Context(), videoID)
	if err != nil {
		log.Printf("✗ Transcript fetch failed for %s: %v", videoID, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Transcript unavailable: " + err.Error()})
		return
	}

	summary, err := s.generator.Summarize(c.Request.Context(), transcript)
	if err != nil {
		log.Printf("✗ Generation failed for %s: %v", videoID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI Generation Error: " + err.Error()})
		return
	}

	log.Printf("✓ Summarized %s", videoID)
	c.JSON(http.StatusOK, SummaryResponse{VideoID: videoID, Summary: summary})
}

// Home is the liveness probe.
func (s *Server) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "YouTube Summarizer API is running"})
}

// CreateItem binds an item payload and echoes it back unchanged.
func (s *Server) CreateItem(c *gin.Context) {
	var item Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}
