// Package search provides the optional web search augmenter. Whatever happens
// inside it, the result is always text: failures become a "search error: ..."
// payload so the streaming session can treat it uniformly as content.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Augmenter produces extra context for a query, e.g. web search results. It
// is stateless across calls and never returns an error: faults are folded
// into the returned text.
type Augmenter interface {
	Search(ctx context.Context, query string, maxResults int) string
}

const defaultEndpoint = "https://api.duckduckgo.com/"

// DuckDuckGo queries the DuckDuckGo instant answer API.
type DuckDuckGo struct {
	endpoint   string
	httpClient *http.Client
}

// NewDuckDuckGo instantiates an augmenter against the public endpoint.
func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type result struct {
	title   string
	content string
	source  string
}

// Search returns a formatted block of results, "No search results found." when
// the query yields nothing, or a "search error: ..." payload.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) string {
	results, err := d.fetch(ctx, query, maxResults)
	if err != nil {
		return fmt.Sprintf("search error: %v", err)
	}
	if len(results) == 0 {
		return "No search results found."
	}

	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "Title: %s\n", r.title)
		fmt.Fprintf(&b, "Content: %s\n", r.content)
		fmt.Fprintf(&b, "Source: %s\n\n", r.source)
	}
	return b.String()
}

type apiResponse struct {
	Heading       string     `json:"Heading"`
	AbstractText  string     `json:"AbstractText"`
	AbstractURL   string     `json:"AbstractURL"`
	RelatedTopics []apiTopic `json:"RelatedTopics"`
}

type apiTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Topics   []apiTopic `json:"Topics"`
}

func (d *DuckDuckGo) fetch(ctx context.Context, query string, maxResults int) ([]result, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("format", "json")
	values.Set("no_html", "1")
	values.Set("skip_disambig", "1")

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, d.endpoint+"?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}
	response, err := d.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", response.Status)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	var results []result
	if parsed.AbstractText != "" {
		results = append(results, result{
			title:   parsed.Heading,
			content: parsed.AbstractText,
			source:  parsed.AbstractURL,
		})
	}
	for _, topic := range flattenTopics(parsed.RelatedTopics) {
		if len(results) >= maxResults {
			break
		}
		if topic.Text == "" || topic.FirstURL == "" {
			continue
		}
		results = append(results, result{
			title:   topicTitle(topic.Text),
			content: topic.Text,
			source:  topic.FirstURL,
		})
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// flattenTopics unnests grouped related topics into a single list.
func flattenTopics(topics []apiTopic) []apiTopic {
	var flat []apiTopic
	for _, topic := range topics {
		if len(topic.Topics) > 0 {
			flat = append(flat, flattenTopics(topic.Topics)...)
			continue
		}
		flat = append(flat, topic)
	}
	return flat
}

// topicTitle takes the leading sentence fragment of a topic text as its title.
func topicTitle(text string) string {
	if i := strings.Index(text, " - "); i > 0 {
		return text[:i]
	}
	const maxTitle = 60
	if runes := []rune(text); len(runes) > maxTitle {
		return string(runes[:maxTitle])
	}
	return text
}
