package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// writeSummaryFile renders the summary through the file template and writes
// it to <output_directory>/<video_id>.md. Saving the same video again
// overwrites the previous file.
func writeSummaryFile(config *Config, summary SavedSummary) (string, error) {
	outputDir := config.Settings.OutputDirectory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmpl, err := template.New("summary").Parse(config.GetTemplate())
	if err != nil {
		return "", fmt.Errorf("failed to parse summary template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, summary); err != nil {
		return "", fmt.Errorf("failed to execute summary template: %w", err)
	}

	filename := filepath.Join(outputDir, summary.VideoID+".md")
	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write summary file: %w", err)
	}

	return filename, nil
}
