package main

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// webshareHost is the rotating proxy gateway. The -rotate username suffix
// asks Webshare for a fresh exit IP on every connection.
const webshareHost = "p.webshare.io:80"

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// captionTracksRe locates the caption track list embedded in the watch page
// player config.
var captionTracksRe = regexp.MustCompile(`"captionTracks":(\[.*?\])`)

// HTTPError represents an HTTP error response.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// Fragment is one caption unit from the timedtext feed. Only Text survives
// flattening; Start and Duration are kept for debugging.
type Fragment struct {
	Text     string
	Start    float64
	Duration float64
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// TranscriptClient fetches YouTube caption tracks through the rotating
// proxy. Every video is queried exactly once per call: no retries, no cache.
type TranscriptClient struct {
	client    *http.Client
	watchBase string
}

// NewTranscriptClient builds a client that routes all transcript traffic
// through the Webshare gateway. Both credentials are required.
func NewTranscriptClient(username, password string, settings TranscriptSettings) (*TranscriptClient, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("proxy credentials required: set PROXY_USERNAME and PROXY_PASSWORD")
	}

	host := settings.ProxyHost
	if host == "" {
		host = webshareHost
	}

	return &TranscriptClient{
		client: &http.Client{
			Timeout:   settings.Timeout(),
			Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL(username, password, host))},
		},
		watchBase: "https://www.youtube.com",
	}, nil
}

// proxyURL assembles the Webshare proxy address with the rotating username.
func proxyURL(username, password, host string) *url.URL {
	return &url.URL{
		Scheme: "http",
		User:   url.UserPassword(username+"-rotate", password),
		Host:   host,
	}
}

// Fetch retrieves the transcript for a video ID and flattens the caption
// fragments into a single space-joined string, preserving their order.
func (tc *TranscriptClient) Fetch(ctx context.Context, videoID string) (string, error) {
	fragments, err := tc.fetchFragments(ctx, videoID)
	if err != nil {
		return "", err
	}
	return flattenFragments(fragments), nil
}

// fetchFragments scrapes the watch page for caption tracks, picks one and
// downloads its timedtext feed.
func (tc *TranscriptClient) fetchFragments(ctx context.Context, videoID string) ([]Fragment, error) {
	page, err := tc.get(ctx, fmt.Sprintf("%s/watch?v=%s", tc.watchBase, url.QueryEscape(videoID)))
	if err != nil {
		return nil, fmt.Errorf("fetching watch page: %w", err)
	}

	m := captionTracksRe.FindSubmatch(page)
	if m == nil {
		return nil, fmt.Errorf("no captions for video %s", videoID)
	}

	var tracks []captionTrack
	if err := json.Unmarshal(m[1], &tracks); err != nil {
		return nil, fmt.Errorf("parsing caption tracks: %w", err)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no captions for video %s", videoID)
	}
	debugLog("Found %d caption tracks for %s", len(tracks), videoID)

	track := pickTrack(tracks)
	feed, err := tc.get(ctx, track.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("fetching caption track: %w", err)
	}

	return parseTimedText(feed)
}

func (tc *TranscriptClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := tc.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	return io.ReadAll(resp.Body)
}

// pickTrack prefers English captions, manually created over auto-generated,
// and falls back to the first available track.
func pickTrack(tracks []captionTrack) captionTrack {
	var auto *captionTrack
	for i := range tracks {
		if !strings.HasPrefix(tracks[i].LanguageCode, "en") {
			continue
		}
		if tracks[i].Kind != "asr" {
			return tracks[i]
		}
		if auto == nil {
			auto = &tracks[i]
		}
	}
	if auto != nil {
		return *auto
	}
	return tracks[0]
}

type timedText struct {
	Texts []struct {
		Start    float64 `xml:"start,attr"`
		Duration float64 `xml:"dur,attr"`
		Body     string  `xml:",chardata"`
	} `xml:"text"`
}

// parseTimedText decodes the timedtext XML feed. Caption payloads arrive
// double-escaped ("&amp;#39;"), so entities are unescaped once more after
// XML decoding.
func parseTimedText(feed []byte) ([]Fragment, error) {
	var doc timedText
	if err := xml.Unmarshal(feed, &doc); err != nil {
		return nil, fmt.Errorf("parsing timedtext feed: %w", err)
	}

	fragments := make([]Fragment, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		text := strings.TrimSpace(html.UnescapeString(t.Body))
		if text == "" {
			continue
		}
		fragments = append(fragments, Fragment{Text: text, Start: t.Start, Duration: t.Duration})
	}
	if len(fragments) == 0 {
		return nil, fmt.Errorf("caption track is empty")
	}

	return fragments, nil
}

// flattenFragments joins fragment texts with single spaces, in feed order.
func flattenFragments(fragments []Fragment) string {
	texts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		texts = append(texts, f.Text)
	}
	return strings.Join(texts, " ")
}
