package main

import (
	"errors"
	"regexp"
)

// ErrNoVideoID is returned when a URL contains no recognizable video ID.
var ErrNoVideoID = errors.New("no video ID found in URL")

// videoIDPatterns are tried in order and the first match wins. The broad
// watch/shorts pattern runs before the share-link pattern, so ambiguous
// inputs always resolve the same way.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11}).*`),
	regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})`),
}

// extractVideoID pulls the 11-character video ID out of a YouTube URL. It
// accepts watch, shorts and embed URLs as well as youtu.be share links. The
// token is not checked against YouTube; a fabricated ID fails at fetch time.
func extractVideoID(videoURL string) (string, error) {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(videoURL); m != nil {
			return m[1], nil
		}
	}
	return "", ErrNoVideoID
}
