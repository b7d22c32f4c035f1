package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAugmenter(handler http.HandlerFunc) (*DuckDuckGo, func()) {
	server := httptest.NewServer(handler)
	d := &DuckDuckGo{
		endpoint:   server.URL,
		httpClient: server.Client(),
	}
	return d, server.Close
}

func TestSearchFormatsResults(t *testing.T) {
	d, done := newTestAugmenter(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "go language", r.URL.Query().Get("q"))
		w.Write([]byte(`{
			"Heading": "Go",
			"AbstractText": "Go is a programming language.",
			"AbstractURL": "https://go.dev",
			"RelatedTopics": [
				{"Text": "Gopher - the Go mascot", "FirstURL": "https://go.dev/gopher"},
				{"Topics": [{"Text": "Modules - dependency management", "FirstURL": "https://go.dev/mod"}]}
			]
		}`))
	})
	defer done()

	out := d.Search(context.Background(), "go language", 5)
	assert.Contains(t, out, "Title: Go\n")
	assert.Contains(t, out, "Content: Go is a programming language.\n")
	assert.Contains(t, out, "Source: https://go.dev\n")
	assert.Contains(t, out, "Title: Gopher\n")
	assert.Contains(t, out, "Source: https://go.dev/mod\n")
}

func TestSearchCapsResults(t *testing.T) {
	d, done := newTestAugmenter(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"RelatedTopics": [
				{"Text": "one - first", "FirstURL": "https://example.com/1"},
				{"Text": "two - second", "FirstURL": "https://example.com/2"},
				{"Text": "three - third", "FirstURL": "https://example.com/3"}
			]
		}`))
	})
	defer done()

	out := d.Search(context.Background(), "anything", 2)
	assert.Contains(t, out, "Title: one\n")
	assert.Contains(t, out, "Title: two\n")
	assert.NotContains(t, out, "Title: three\n")
}

func TestTopicTitleTruncatesOnRuneBoundary(t *testing.T) {
	text := strings.Repeat("ü", 80)
	title := topicTitle(text)
	assert.True(t, utf8.ValidString(title))
	assert.Len(t, []rune(title), 60)
}

func TestSearchNoResults(t *testing.T) {
	d, done := newTestAugmenter(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"RelatedTopics": []}`))
	})
	defer done()

	out := d.Search(context.Background(), "gibberish", 5)
	assert.Equal(t, "No search results found.", out)
}

func TestSearchErrorsBecomeText(t *testing.T) {
	d, done := newTestAugmenter(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer done()

	out := d.Search(context.Background(), "anything", 5)
	assert.Contains(t, out, "search error:")
}

func TestSearchRespectsContext(t *testing.T) {
	d, done := newTestAugmenter(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`{}`))
	})
	defer done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.Contains(t, d.Search(ctx, "anything", 5), "search error:")
}
