package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteSummaryFile(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "summaries")
	config := &Config{
		Settings: &Settings{OutputDirectory: outputDir},
	}

	summary := SavedSummary{
		VideoID:   "JDYtbVxtBhw",
		SourceURL: "https://www.youtube.com/watch?v=JDYtbVxtBhw",
		Summary:   "## TL;DR\n\nShort version.",
		Model:     "llama-3.3-70b-versatile",
		CreatedAt: time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC),
	}

	path, err := writeSummaryFile(config, summary)
	if err != nil {
		t.Fatalf("writeSummaryFile failed: %v", err)
	}

	expectedPath := filepath.Join(outputDir, "JDYtbVxtBhw.md")
	if path != expectedPath {
		t.Errorf("Expected path %s, got %s", expectedPath, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved summary: %v", err)
	}

	text := string(content)
	for _, want := range []string{
		`video_id: "JDYtbVxtBhw"`,
		`source_url: "https://www.youtube.com/watch?v=JDYtbVxtBhw"`,
		`model: "llama-3.3-70b-versatile"`,
		"created_at: 2025-03-14T09:30:00Z",
		"## TL;DR\n\nShort version.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected saved summary to contain %q, got:\n%s", want, text)
		}
	}
}

func TestWriteSummaryFileOverwrites(t *testing.T) {
	config := &Config{
		Settings: &Settings{OutputDirectory: t.TempDir()},
	}

	summary := SavedSummary{
		VideoID:   "dQw4w9WgXcQ",
		SourceURL: "https://youtu.be/dQw4w9WgXcQ",
		Summary:   "First version.",
		Model:     "llama-3.3-70b-versatile",
		CreatedAt: time.Now(),
	}

	if _, err := writeSummaryFile(config, summary); err != nil {
		t.Fatalf("First write failed: %v", err)
	}

	summary.Summary = "Second version."
	path, err := writeSummaryFile(config, summary)
	if err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved summary: %v", err)
	}
	if !strings.Contains(string(content), "Second version.") {
		t.Errorf("Expected overwritten summary, got:\n%s", content)
	}
	if strings.Contains(string(content), "First version.") {
		t.Errorf("Expected first version to be replaced, got:\n%s", content)
	}
}

func TestWriteSummaryFileCustomTemplate(t *testing.T) {
	templatePath := filepath.Join(t.TempDir(), "template.md")
	if err := os.WriteFile(templatePath, []byte("# {{.VideoID}}\n\n{{.Summary}}\n"), 0644); err != nil {
		t.Fatalf("Failed to write template: %v", err)
	}

	config := &Config{
		Settings:  &Settings{OutputDirectory: t.TempDir()},
		Overrides: &ConfigOverrides{TemplatePath: &templatePath},
	}

	summary := SavedSummary{
		VideoID:   "i0P56Pm1Q3U",
		SourceURL: "https://youtu.be/i0P56Pm1Q3U",
		Summary:   "Body text.",
		Model:     "llama-3.3-70b-versatile",
		CreatedAt: time.Now(),
	}

	path, err := writeSummaryFile(config, summary)
	if err != nil {
		t.Fatalf("writeSummaryFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved summary: %v", err)
	}

	text := string(content)
	if !strings.HasPrefix(text, "# i0P56Pm1Q3U\n") {
		t.Errorf("Expected custom template header, got:\n%s", text)
	}
	if strings.Contains(text, "source_url:") {
		t.Errorf("Expected custom template to replace frontmatter, got:\n%s", text)
	}
}

func TestWriteSummaryFileBadTemplate(t *testing.T) {
	templatePath := filepath.Join(t.TempDir(), "template.md")
	if err := os.WriteFile(templatePath, []byte("{{.Summary"), 0644); err != nil {
		t.Fatalf("Failed to write template: %v", err)
	}

	config := &Config{
		Settings:  &Settings{OutputDirectory: t.TempDir()},
		Overrides: &ConfigOverrides{TemplatePath: &templatePath},
	}

	if _, err := writeSummaryFile(config, SavedSummary{VideoID: "dQw4w9WgXcQ"}); err == nil {
		t.Fatal("Expected error for unparseable template, got nil")
	}
}
