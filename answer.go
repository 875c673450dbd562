package askcuny

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxSnippetLength bounds the text of each snippet handed to the answer
// synthesis collaborator.
const MaxSnippetLength = 500

// Response methods.
const (
	MethodLiveSearch = "live_search"
	MethodFallback   = "fallback"
	MethodError      = "error"
)

// Snippet is one unit of grounded context entering answer assembly,
// either an ExtractedItem or a ranked content section.
type Snippet struct {
	Text       string     `json:"text"`
	URL        string     `json:"url"`
	Title      string     `json:"title"`
	Score      float64    `json:"relevanceScore"`
	Provenance Provenance `json:"provenance"`
}

// Snippet converts an extracted item into an assembly snippet.
func (it ExtractedItem) Snippet() Snippet {
	return Snippet{
		Text:       it.Text,
		URL:        it.URL,
		Title:      it.Title,
		Score:      it.Score,
		Provenance: it.Provenance,
	}
}

// Citation identifies one distinct source URL used in an answer.
// Indices follow first-seen order among the ranked snippets, not
// relevance order.
type Citation struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Response is the structured outcome of one query.
type Response struct {
	Answer    string     `json:"answer"`
	Sources   []Citation `json:"sources"`
	Method    string     `json:"method"`
	Timestamp time.Time  `json:"timestamp"`
	Success   bool       `json:"success"`
}

// Synthesizer is the external answer-synthesis collaborator: structured
// context with [n] citation markers in, free text out. Any failure must
// surface as a recoverable error, never a crash.
type Synthesizer interface {
	Synthesize(ctx context.Context, query, context string) (answer string, err error)
}

// BuildContext formats snippets into the context block handed to the
// Synthesizer and derives the citation list. Sources are deduplicated by
// URL and numbered in first-seen order; snippet text is truncated to
// MaxSnippetLength.
func BuildContext(snippets []Snippet) (string, []Citation) {
	if len(snippets) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("LIVE CUNY WEBSITE INFORMATION:\n\n")

	index := make(map[string]int)
	var citations []Citation
	for _, sn := range snippets {
		num, ok := index[sn.URL]
		if !ok {
			num = len(citations) + 1
			index[sn.URL] = num
			citations = append(citations, Citation{Index: num, Title: sn.Title, URL: sn.URL})
		}
		text := truncate(sn.Text, MaxSnippetLength)
		fmt.Fprintf(&sb, "[%d] %s\n", num, text)
		fmt.Fprintf(&sb, "Source: %s (%s)\n\n", sn.Title, sn.URL)
	}

	return sb.String(), citations
}

// truncate cuts s to at most n bytes without splitting a UTF-8 rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// NoInformationResponse is the fixed low-information response returned
// when no snippet survived discovery and extraction. The synthesizer is
// never invoked with empty context.
func NoInformationResponse(query string, now time.Time) *Response {
	return &Response{
		Answer: fmt.Sprintf("I couldn't find current information about %q on CUNY websites. "+
			"Please try rephrasing your question or contact CUNY directly.", query),
		Sources:   []Citation{},
		Method:    MethodFallback,
		Timestamp: now,
		Success:   false,
	}
}
