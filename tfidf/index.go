// Package tfidf builds a paragraph-level TF-IDF index over cached page
// text and retrieves passages by cosine similarity.
package tfidf

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/askcuny/askcuny"
)

// Retrieval thresholds.
const (
	// MinParagraphLength drops fragments too short to carry meaning.
	MinParagraphLength = 50

	// MinSimilarity is the cosine score floor below which a passage is
	// considered irrelevant.
	MinSimilarity = 0.1
)

var (
	paragraphRE = regexp.MustCompile(`\n\n|\. `)
	tokenRE     = regexp.MustCompile(`\w\w+`)
)

// passage is one indexed paragraph with its source URL and weight
// vector.
type passage struct {
	url    string
	text   string
	vector map[string]float64
}

// Result is one retrieved passage.
type Result struct {
	URL   string
	Text  string
	Score float64
}

// Index is an immutable TF-IDF index over page paragraphs. Build once,
// query many times; safe for concurrent reads.
type Index struct {
	passages []passage
	idf      map[string]float64
}

// Build indexes the page content map. Pages are split into paragraphs,
// short fragments are dropped, and each paragraph becomes one
// retrievable unit. Iteration is in sorted URL order so the index is
// deterministic for a given snapshot.
func Build(content map[string]string) *Index {
	urls := make([]string, 0, len(content))
	for u := range content {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	var passages []passage
	for _, u := range urls {
		for _, para := range paragraphRE.Split(content[u], -1) {
			text := askcuny.CleanText(para)
			if len(text) < MinParagraphLength {
				continue
			}
			passages = append(passages, passage{url: u, text: text})
		}
	}

	// Smoothed document frequencies: idf = ln((1+n)/(1+df)) + 1.
	df := make(map[string]int)
	termCounts := make([]map[string]int, len(passages))
	for i, p := range passages {
		counts := make(map[string]int)
		for _, term := range tokenize(p.text) {
			counts[term]++
		}
		termCounts[i] = counts
		for term := range counts {
			df[term]++
		}
	}

	n := float64(len(passages))
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log((1+n)/(1+float64(count))) + 1
	}

	for i := range passages {
		passages[i].vector = normalize(weigh(termCounts[i], idf))
	}

	return &Index{passages: passages, idf: idf}
}

// Len returns the number of indexed passages.
func (ix *Index) Len() int {
	return len(ix.passages)
}

// Retrieve returns the k passages most similar to the query, best
// first. Passages scoring below MinSimilarity are excluded; fewer than
// k results (or none) is normal.
func (ix *Index) Retrieve(query string, k int) []Result {
	counts := make(map[string]int)
	for _, term := range tokenize(query) {
		counts[term]++
	}
	qv := normalize(weigh(counts, ix.idf))
	if len(qv) == 0 {
		return nil
	}

	results := make([]Result, 0, len(ix.passages))
	for _, p := range ix.passages {
		score := dot(qv, p.vector)
		if score < MinSimilarity {
			continue
		}
		results = append(results, Result{URL: p.url, Text: p.text, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results
}

// tokenize lowercases the text and extracts word tokens of two or more
// characters, excluding stopwords.
func tokenize(text string) []string {
	var terms []string
	for _, tok := range tokenRE.FindAllString(strings.ToLower(text), -1) {
		if stopwords[tok] {
			continue
		}
		terms = append(terms, tok)
	}
	return terms
}

// weigh converts raw term counts into tf-idf weights. Terms unseen at
// build time carry no weight.
func weigh(counts map[string]int, idf map[string]float64) map[string]float64 {
	v := make(map[string]float64, len(counts))
	for term, count := range counts {
		w, ok := idf[term]
		if !ok {
			continue
		}
		v[term] = float64(count) * w
	}
	return v
}

// normalize scales the vector to unit length.
func normalize(v map[string]float64) map[string]float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for term, w := range v {
		v[term] = w / norm
	}
	return v
}

// dot computes the dot product of two unit vectors, iterating the
// smaller one.
func dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for term, w := range a {
		sum += w * b[term]
	}
	return sum
}
