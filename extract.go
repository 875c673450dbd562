package askcuny

import (
	"regexp"
	"strings"
)

// DataType tags an extracted item with the query intent category that
// produced it.
type DataType string

// The fixed data-type enumeration.
const (
	DataTransferCredits       DataType = "transfer_credits"
	DataAdmissionRequirements DataType = "admission_requirements"
	DataApplicationProcess    DataType = "application_process"
	DataFinancialAid          DataType = "financial_aid"
	DataProgramsMajors        DataType = "programs_majors"
	DataDeadlinesDates        DataType = "deadlines_dates"
	DataRankingStatistics     DataType = "ranking_statistics"
	DataInternationalStudents DataType = "international_students"
	DataVeteransMilitary      DataType = "veterans_military"
	DataHonorsPrograms        DataType = "honors_programs"
	DataComprehensive         DataType = "comprehensive"
	DataFallback              DataType = "fallback"
)

// Provenance records which pipeline stage produced a snippet.
type Provenance string

// Provenance values. Typed, comprehensive, and fallback mark the three
// mutually exclusive extraction passes; ranked marks snippets that enter
// answer assembly via the section ranker instead.
const (
	ProvenanceTyped         Provenance = "typed"
	ProvenanceComprehensive Provenance = "comprehensive"
	ProvenanceFallback      Provenance = "fallback"
	ProvenanceRanked        Provenance = "ranked"
)

// ExtractedItem is a structured snippet pulled from a page section.
// Every item is traceable to exactly one source URL that passed domain
// policy at fetch time.
type ExtractedItem struct {
	Text       string     `json:"text"`
	URL        string     `json:"url"`
	Title      string     `json:"title"`
	Score      float64    `json:"relevanceScore"`
	DataType   DataType   `json:"dataType"`
	Provenance Provenance `json:"provenance"`
}

// category drives the typed extraction pass: a section qualifies for a
// category when it carries a category keyword and either matches a
// pattern or is short enough to be a self-contained fact.
type category struct {
	dataType DataType
	keywords []string
	patterns []*regexp.Regexp
	boost    float64
}

func patterns(exprs ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		res[i] = regexp.MustCompile(`(?i)` + e)
	}
	return res
}

// categories is ordered; extraction scans it in order so earlier
// categories win their boost when a query spans several.
var categories = []category{
	{
		dataType: DataTransferCredits,
		keywords: []string{"transfer", "credit", "credits", "transcript", "evaluation", "articulation"},
		patterns: patterns(`\d+ credits`, `transfer.*\d+`, `credit.*transfer`, `articulation.*agreement`),
		boost:    2.5,
	},
	{
		dataType: DataAdmissionRequirements,
		keywords: []string{"requirement", "gpa", "sat", "act", "toefl", "ielts", "prerequisite"},
		patterns: patterns(`gpa.*\d+`, `sat.*\d+`, `act.*\d+`, `minimum.*\d+`, `requirement.*\d+`),
		boost:    2.3,
	},
	{
		dataType: DataApplicationProcess,
		keywords: []string{"application", "apply", "deadline", "submit", "document", "essay", "recommendation"},
		patterns: patterns(`deadline.*\d+`, `application.*fee`, `submit.*\d+`, `document.*required`),
		boost:    2.2,
	},
	{
		dataType: DataFinancialAid,
		keywords: []string{"financial", "aid", "scholarship", "grant", "loan", "fafsa", "cost"},
		patterns: patterns(`\$[\d,]+`, `scholarship.*\d+`, `aid.*\d+`, `cost.*\d+`),
		boost:    2.1,
	},
	{
		dataType: DataProgramsMajors,
		keywords: []string{"program", "major", "degree", "bachelor", "master", "doctorate", "certificate"},
		patterns: patterns(`program.*\d+`, `major.*\d+`, `degree.*\d+`, `credit.*\d+`),
		boost:    2.0,
	},
	{
		dataType: DataDeadlinesDates,
		keywords: []string{"deadline", "date", "due", "application", "priority", "regular"},
		patterns: patterns(`\d+/\d+/\d+`, `deadline.*\d+`, `due.*\d+`, `priority.*\d+`),
		boost:    2.0,
	},
	{
		dataType: DataRankingStatistics,
		keywords: []string{"rank", "ranking", "rate", "statistic", "enrollment", "graduation"},
		patterns: patterns(`#\d+`, `\d+\.?\d*%`, `ranked.*\d+`, `\d+ students`),
		boost:    2.0,
	},
	{
		dataType: DataInternationalStudents,
		keywords: []string{"international", "visa", "toefl", "ielts", "foreign", "overseas"},
		patterns: patterns(`toefl.*\d+`, `ielts.*\d+`, `visa.*requirement`, `international.*\d+`),
		boost:    2.0,
	},
	{
		dataType: DataVeteransMilitary,
		keywords: []string{"veteran", "military", "service", "gi bill", "benefits"},
		patterns: patterns(`veteran.*benefit`, `military.*credit`, `gi.*bill`, `service.*\d+`),
		boost:    2.0,
	},
	{
		dataType: DataHonorsPrograms,
		keywords: []string{"honor", "honors", "scholar", "elite", "prestigious"},
		patterns: patterns(`honor.*program`, `scholar.*\d+`, `elite.*\d+`, `prestigious.*\d+`),
		boost:    1.8,
	},
}

// Vocabulary for the comprehensive pass.
var (
	dateTerms        = []string{"2024", "2025", "deadline", "date", "due"}
	procedureTerms   = []string{"step", "process", "procedure", "how to", "follow"}
	requirementTerms = []string{"require", "need", "must", "should", "prerequisite"}
)

// ExtractTyped pulls structured snippets from a page for a query. Three
// passes are tried strictly in order and only the first pass yielding any
// item is used: a typed pass driven by the category table, a
// comprehensive pass for data-rich sections, and a final fallback pass
// keyed on bare term overlap.
func ExtractTyped(query string, page *PageSnapshot) []ExtractedItem {
	queryLower := strings.ToLower(query)
	queryWords := queryWordSet(query)

	if items := extractByCategory(queryLower, page); len(items) > 0 {
		return items
	}
	if items := extractComprehensive(queryWords, page); len(items) > 0 {
		return items
	}
	return extractFallback(queryWords, page)
}

func extractByCategory(queryLower string, page *PageSnapshot) []ExtractedItem {
	var items []ExtractedItem
	for _, cat := range categories {
		if !containsAny(queryLower, cat.keywords) {
			continue
		}
		for _, section := range page.Sections {
			textLower := strings.ToLower(section.Text)
			if !containsAny(textLower, cat.keywords) {
				continue
			}
			matched := false
			for _, re := range cat.patterns {
				if re.MatchString(section.Text) {
					matched = true
					break
				}
			}
			if matched || len(section.Text) < 300 {
				items = append(items, ExtractedItem{
					Text:       section.Text,
					URL:        page.URL,
					Title:      page.Title,
					Score:      cat.boost,
					DataType:   cat.dataType,
					Provenance: ProvenanceTyped,
				})
			}
		}
	}
	return items
}

func extractComprehensive(queryWords map[string]struct{}, page *PageSnapshot) []ExtractedItem {
	var items []ExtractedItem
	for _, section := range page.Sections {
		text := section.Text
		textLower := strings.ToLower(text)

		hasNumbers := strings.ContainsAny(text, "0123456789")
		hasPercent := strings.Contains(text, "%")
		hasMoney := strings.Contains(text, "$")
		hasDates := containsAny(textLower, dateTerms)
		hasProcedures := containsAny(textLower, procedureTerms)
		hasRequirements := containsAny(textLower, requirementTerms)

		overlap := wordOverlap(queryWords, textLower)
		if overlap == 0 {
			continue
		}
		if !(hasNumbers || hasPercent || hasMoney || hasDates || hasProcedures || hasRequirements) {
			continue
		}

		boost := 1.0
		if hasProcedures {
			boost += 0.5
		}
		if hasRequirements {
			boost += 0.5
		}
		if hasNumbers || hasPercent || hasMoney {
			boost += 0.3
		}

		// Procedural or requirement language earns a wider ceiling.
		maxLength := 400
		if hasProcedures || hasRequirements {
			maxLength = 800
		}
		if len(text) > maxLength {
			continue
		}

		items = append(items, ExtractedItem{
			Text:       text,
			URL:        page.URL,
			Title:      page.Title,
			Score:      1.5 + float64(overlap)/float64(max(len(queryWords), 1))*boost,
			DataType:   DataComprehensive,
			Provenance: ProvenanceComprehensive,
		})
	}
	return items
}

func extractFallback(queryWords map[string]struct{}, page *PageSnapshot) []ExtractedItem {
	var items []ExtractedItem
	for _, section := range page.Sections {
		text := section.Text
		overlap := wordOverlap(queryWords, strings.ToLower(text))
		if overlap == 0 || len(text) >= 600 {
			continue
		}
		items = append(items, ExtractedItem{
			Text:       text,
			URL:        page.URL,
			Title:      page.Title,
			Score:      1.0 + float64(overlap)/float64(max(len(queryWords), 1))*0.5,
			DataType:   DataFallback,
			Provenance: ProvenanceFallback,
		})
	}
	return items
}

// wordOverlap counts the query terms present as distinct words in the
// text.
func wordOverlap(queryWords map[string]struct{}, textLower string) int {
	textWords := make(map[string]struct{})
	for _, w := range strings.Fields(textLower) {
		textWords[w] = struct{}{}
	}
	overlap := 0
	for w := range queryWords {
		if _, ok := textWords[w]; ok {
			overlap++
		}
	}
	return overlap
}
