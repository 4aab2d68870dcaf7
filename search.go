package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const ddgEndpoint = "https://html.duckduckgo.com/html/"

// SearchResult is one DuckDuckGo hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchClient answers the miner's tool calls: DuckDuckGo queries and
// readable page extraction.
type SearchClient struct {
	client       *http.Client
	endpoint     string
	maxResults   int
	pageMaxRunes int
	converter    *md.Converter
}

// NewSearchClient builds a search client from settings.
func NewSearchClient(settings SearchSettings) *SearchClient {
	maxResults := settings.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	pageMaxRunes := settings.PageMaxChars
	if pageMaxRunes <= 0 {
		pageMaxRunes = defaultPageMaxChars
	}

	return &SearchClient{
		client:       &http.Client{Timeout: settings.Timeout()},
		endpoint:     ddgEndpoint,
		maxResults:   maxResults,
		pageMaxRunes: pageMaxRunes,
		converter:    md.NewConverter("", true, nil),
	}
}

// Tools returns the toolset granted to the miner stage.
func (sc *SearchClient) Tools() []Tool {
	return []Tool{&webSearchTool{client: sc}, &readPageTool{client: sc}}
}

// Search runs one query against the DuckDuckGo HTML endpoint and parses the
// result list.
func (sc *SearchClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	form := url.Values{}
	form.Set("q", query)
	form.Set("kl", "us-en")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sc.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Referer", "https://html.duckduckgo.com/")

	resp, err := sc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: sc.endpoint}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing search results: %w", err)
	}

	var results []SearchResult
	doc.Find(".result, .web-result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find("a.result__a").First()
		href, _ := link.Attr("href")
		title := strings.TrimSpace(link.Text())
		if title == "" || href == "" {
			return true
		}

		results = append(results, SearchResult{
			Title:   title,
			URL:     unwrapResultURL(href),
			Snippet: strings.TrimSpace(s.Find(".result__snippet").First().Text()),
		})
		return len(results) < sc.maxResults
	})
	debugLog("Search %q returned %d results", query, len(results))

	return results, nil
}

// unwrapResultURL strips DuckDuckGo's redirect wrapper (…/l/?uddg=<target>).
func unwrapResultURL(href string) string {
	if !strings.Contains(href, "uddg=") {
		return href
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

// ReadPage fetches a URL and returns its readable content as Markdown,
// truncated to the configured budget.
func (sc *SearchClient) ReadPage(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parsing page URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := sc.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{StatusCode: resp.StatusCode, URL: pageURL}
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("extracting article: %w", err)
	}

	markdown, err := sc.converter.ConvertString(article.Content)
	if err != nil {
		return "", fmt.Errorf("converting to markdown: %w", err)
	}
	if strings.TrimSpace(markdown) == "" {
		markdown = article.TextContent
	}
	if strings.TrimSpace(markdown) == "" {
		return "", fmt.Errorf("no readable content at %s", pageURL)
	}

	return truncateRunes(strings.TrimSpace(markdown), sc.pageMaxRunes), nil
}

// truncateRunes cuts a string to at most limit runes without splitting a
// multibyte character.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// formatResults renders hits as numbered source blocks for the model.
func formatResults(results []SearchResult) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s\nURL: %s\n%s\n\n", i+1, r.Title, r.URL, r.Snippet)
	}
	return strings.TrimSpace(b.String())
}

// webSearchTool exposes Search to the model.
type webSearchTool struct {
	client *SearchClient
}

func (t *webSearchTool) Definition() ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: FunctionSchema{
			Name:        "web_search",
			Description: "Search the web with DuckDuckGo. Returns result titles, URLs and snippets.",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"query":{"type":"string","description":"The search query."}},"required":["query"]}`),
		},
	}
}

func (t *webSearchTool) Call(ctx context.Context, arguments string) (string, error) {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("parsing web_search arguments: %w", err)
	}
	if strings.TrimSpace(args.Query) == "" {
		return "", fmt.Errorf("web_search requires a query")
	}

	results, err := t.client.Search(ctx, args.Query)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "no results found", nil
	}

	return formatResults(results), nil
}

// readPageTool exposes ReadPage to the model.
type readPageTool struct {
	client *SearchClient
}

func (t *readPageTool) Definition() ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: FunctionSchema{
			Name:        "read_page",
			Description: "Fetch a web page and return its main content as Markdown.",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"url":{"type":"string","description":"The page URL to read."}},"required":["url"]}`),
		},
	}
}

func (t *readPageTool) Call(ctx context.Context, arguments string) (string, error) {
	var args struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("parsing read_page arguments: %w", err)
	}
	if strings.TrimSpace(args.URL) == "" {
		return "", fmt.Errorf("read_page requires a url")
	}

	return t.client.ReadPage(ctx, args.URL)
}
