package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	videoIDRe     = regexp.MustCompile(`video_id:\s*"([^"]*)"`)
	videoIDNameRe = regexp.MustCompile(`^[0-9A-Za-z_-]{11}\.md$`)
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: migrate <rename|remove-duplicates> <summaries-directory>")
	}

	command := os.Args[1]
	summariesDir := os.Args[2]

	switch command {
	case "rename":
		if err := renameToVideoIDs(summariesDir); err != nil {
			log.Fatal(err)
		}
	case "remove-duplicates":
		if err := removeDuplicates(summariesDir); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("Unknown command %q", command)
	}
}

// renameToVideoIDs renames legacy summary files to <video_id>.md based on
// their frontmatter.
func renameToVideoIDs(summariesDir string) error {
	return filepath.WalkDir(summariesDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Continue on errors
		}

		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			if err := renameFile(path); err != nil {
				log.Printf("Error processing %s: %v", path, err)
			}
		}

		return nil
	})
}

func renameFile(filePath string) error {
	fileName := filepath.Base(filePath)
	if videoIDNameRe.MatchString(fileName) {
		return nil
	}

	videoID, err := extractVideoIDFrontmatter(filePath)
	if err != nil {
		return err
	}
	if videoID == "" {
		log.Printf("No video_id found in %s, skipping", filePath)
		return nil
	}

	newFilePath := filepath.Join(filepath.Dir(filePath), videoID+".md")
	if _, err := os.Stat(newFilePath); err == nil {
		log.Printf("Target %s already exists, skipping %s", filepath.Base(newFilePath), fileName)
		return nil
	}

	log.Printf("Renaming %s -> %s.md", fileName, videoID)
	return os.Rename(filePath, newFilePath)
}

func extractVideoIDFrontmatter(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("reading file %s: %w", filePath, err)
	}

	matches := videoIDRe.FindSubmatch(content)
	if len(matches) >= 2 {
		return string(matches[1]), nil
	}
	return "", nil
}

// removeDuplicates finds summaries sharing a video_id, keeps the first and
// asks before deleting the rest.
func removeDuplicates(summariesDir string) error {
	idToFiles := make(map[string][]string)
	reader := bufio.NewReader(os.Stdin)

	if err := filepath.WalkDir(summariesDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Continue on errors
		}

		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			videoID, err := extractVideoIDFrontmatter(path)
			if err != nil {
				log.Printf("Error processing %s: %v", path, err)
				return nil
			}
			if videoID != "" {
				idToFiles[videoID] = append(idToFiles[videoID], path)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walking directory: %w", err)
	}

	totalRemoved := 0
	for videoID, files := range idToFiles {
		if len(files) <= 1 {
			continue
		}

		fmt.Printf("\nFound %d summaries for video %s:\n", len(files), videoID)
		for i, file := range files {
			fileName := filepath.Base(file)
			if i == 0 {
				fmt.Printf("  KEEP: %s\n", fileName)
				continue
			}

			if confirmDelete(reader, file) {
				if err := os.Remove(file); err != nil {
					log.Printf("Error removing %s: %v", file, err)
				} else {
					totalRemoved++
					fmt.Printf("  REMOVED: %s\n", fileName)
				}
			} else {
				fmt.Printf("  SKIP: %s\n", fileName)
			}
		}
	}

	fmt.Printf("\nRemoved %d duplicate summaries\n", totalRemoved)
	return nil
}

func confirmDelete(reader *bufio.Reader, path string) bool {
	for {
		fmt.Printf("  DELETE %s? [y/N]: ", filepath.Base(path))
		input, err := reader.ReadString('\n')
		if err != nil {
			log.Printf("Error reading input: %v", err)
			return false
		}
		response := strings.ToLower(strings.TrimSpace(input))
		switch response {
		case "y", "yes":
			return true
		case "", "n", "no":
			return false
		default:
			fmt.Println("  Please enter y or n.")
		}
	}
}
