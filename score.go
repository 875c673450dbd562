package askcuny

import (
	"sort"
	"strings"
)

// MinRelevance is the floor below which pages and sections are dropped
// from ranked output.
const MinRelevance = 0.1

// maxPageScore caps the page-level composite score.
const maxPageScore = 2.0

// topic associates a subject area with the vocabulary that marks a page
// or section as on-topic for it.
type topic struct {
	name     string
	keywords []string
}

// topics is the fixed topic-keyword table shared by the page-level and
// section-level scorers. The two call sites weight a topic hit
// differently on purpose: +0.5 additive for page discovery, x1.3
// multiplicative for section ranking.
var topics = []topic{
	{"computer science", []string{"computer", "cs", "programming", "software", "technology"}},
	{"engineering", []string{"engineering", "engineer", "mechanical", "electrical", "civil"}},
	{"business", []string{"business", "management", "finance", "marketing", "accounting"}},
	{"nursing", []string{"nursing", "nurse", "healthcare", "medical", "clinical"}},
	{"psychology", []string{"psychology", "psych", "mental", "behavioral", "counseling"}},
	{"education", []string{"education", "teaching", "teacher", "pedagogy", "curriculum"}},
	{"law", []string{"law", "legal", "attorney", "jurisprudence", "court"}},
	{"medicine", []string{"medicine", "medical", "doctor", "physician", "healthcare"}},
	{"art", []string{"art", "design", "creative", "visual", "fine arts"}},
	{"science", []string{"science", "biology", "chemistry", "physics", "research"}},
}

// Intent-category vocabularies: a +0.4 boost applies when the query and
// the text share the corresponding vocabulary.
var (
	admissionQueryTerms = []string{"admission", "apply", "requirement"}
	admissionTextTerms  = []string{"admission", "application", "requirement", "deadline"}
	tuitionQueryTerms   = []string{"tuition", "cost", "fee", "price"}
	tuitionTextTerms    = []string{"tuition", "cost", "fee", "$", "financial"}
	rankingQueryTerms   = []string{"rank", "ranking", "rate", "statistic"}
	rankingTextTerms    = []string{"rank", "ranking", "#", "percent", "%"}
)

// errorPageMarkers flag pages that are error shells rather than content.
var errorPageMarkers = []string{"404", "not found", "page not available"}

// Off-topic vocabulary: sections carrying these markers are heavily
// penalized unless the query itself references them.
var (
	offTopicMarkers    = []string{"financial aid", "scholarship", "housing", "meal plan"}
	offTopicQueryTerms = []string{"financial", "aid", "scholarship", "housing", "meal"}
)

// queryWordSet returns the distinct lowercased terms of a query.
func queryWordSet(query string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(query)) {
		words[w] = struct{}{}
	}
	return words
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// queryMentionsTopic reports whether the query references the topic name
// or any of its keywords.
func queryMentionsTopic(queryLower string, t topic) bool {
	if strings.Contains(queryLower, t.name) {
		return true
	}
	return containsAny(queryLower, t.keywords)
}

// PageScore computes the composite relevance of a whole page for a query.
// The factor list, order of application, and thresholds are behavioral
// contract; the result is clamped to maxPageScore.
func PageScore(query, text, pageURL, title string) float64 {
	queryLower := strings.ToLower(query)
	textLower := strings.ToLower(text)
	urlLower := strings.ToLower(pageURL)
	titleLower := strings.ToLower(title)
	queryWords := queryWordSet(query)

	score := 0.0

	// Term overlap: distinct query terms present anywhere in the text.
	matches := 0
	for w := range queryWords {
		if strings.Contains(textLower, w) {
			matches++
		}
	}
	if matches > 0 {
		score += float64(matches) / float64(len(queryWords)) * 0.4
	}

	// Phrase presence: every query token longer than 3 characters found
	// verbatim as a substring contributes, repeats included.
	for _, tok := range strings.Fields(queryLower) {
		if len(tok) > 3 && strings.Contains(textLower, tok) {
			score += 0.3
		}
	}

	// Topic-keyword boost.
	for _, t := range topics {
		if queryMentionsTopic(queryLower, t) && containsAny(textLower, t.keywords) {
			score += 0.5
		}
	}

	// URL and title hits.
	for w := range queryWords {
		if strings.Contains(urlLower, w) {
			score += 0.3
			break
		}
	}
	for w := range queryWords {
		if strings.Contains(titleLower, w) {
			score += 0.2
			break
		}
	}

	// Intent-category boosts.
	if containsAny(queryLower, admissionQueryTerms) && containsAny(textLower, admissionTextTerms) {
		score += 0.4
	}
	if containsAny(queryLower, tuitionQueryTerms) && containsAny(textLower, tuitionTextTerms) {
		score += 0.4
	}
	if containsAny(queryLower, rankingQueryTerms) && containsAny(textLower, rankingTextTerms) {
		score += 0.4
	}

	// Error-page penalty.
	if containsAny(textLower, errorPageMarkers) {
		score *= 0.1
	}

	if score > maxPageScore {
		score = maxPageScore
	}
	return score
}

// SectionScore computes the relevance of a single content section for a
// query. Unlike PageScore the structural and penalty factors are
// multiplicative and no upper clamp applies.
func SectionScore(query string, section ContentSection) float64 {
	queryLower := strings.ToLower(query)
	textLower := strings.ToLower(section.Text)
	queryWords := queryWordSet(query)
	textWords := queryWordSet(section.Text)

	// Base: distinct-term overlap ratio.
	overlap := 0
	for w := range queryWords {
		if _, ok := textWords[w]; ok {
			overlap++
		}
	}
	denom := len(queryWords)
	if denom == 0 {
		denom = 1
	}
	score := float64(overlap) / float64(denom)

	// Verbatim token presence.
	for _, tok := range strings.Fields(queryLower) {
		if strings.Contains(textLower, tok) {
			score *= 1.5
			break
		}
	}

	// Topic-keyword boost, multiplicative per matched topic.
	for _, t := range topics {
		if queryMentionsTopic(queryLower, t) && containsAny(textLower, t.keywords) {
			score *= 1.3
		}
	}

	// Structural weight.
	switch section.Kind.HeadingLevel() {
	case 1, 2, 3:
		score *= 2.0
	case 4, 5, 6:
		score *= 1.5
	}

	// Length penalty.
	length := len(section.Text)
	if length < 50 {
		score *= 0.3
	} else if length > 1000 {
		score *= 0.8
	}

	// Off-topic penalty.
	if containsAny(textLower, offTopicMarkers) {
		queryOnTopic := false
		for _, w := range offTopicQueryTerms {
			if _, ok := queryWords[w]; ok {
				queryOnTopic = true
				break
			}
		}
		if !queryOnTopic {
			score *= 0.2
		}
	}

	return score
}

// RankSections scores every section against the query and returns the
// sections with score above MinRelevance in descending score order.
// Exact ties preserve first-seen order.
func RankSections(query string, sections []ContentSection) []ContentSection {
	scored := make([]ContentSection, len(sections))
	copy(scored, sections)
	for i := range scored {
		scored[i].Score = SectionScore(query, scored[i])
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	ranked := make([]ContentSection, 0, len(scored))
	for _, s := range scored {
		if s.Score > MinRelevance {
			ranked = append(ranked, s)
		}
	}
	return ranked
}
