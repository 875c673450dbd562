// Package gemini implements answer synthesis using Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/askcuny/askcuny"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// systemInstruction pins the model to the retrieved context. The answer
// must cite sources by their bracketed index so the caller's citation
// list stays meaningful.
const systemInstruction = "You are a helpful CUNY admissions assistant. Answer questions using ONLY the " +
	"live website information provided. Cite sources with their bracketed numbers, " +
	"like [1] or [2], next to every fact you use. If the provided information does " +
	"not answer the question, say so plainly instead of guessing."

// Ensure Synthesizer implements askcuny.Synthesizer at compile time.
var _ askcuny.Synthesizer = (*Synthesizer)(nil)

// Synthesizer implements askcuny.Synthesizer using Google Gemini.
type Synthesizer struct {
	client *genai.Client
}

// NewSynthesizer creates a new Synthesizer.
func NewSynthesizer(client *genai.Client) *Synthesizer {
	return &Synthesizer{client: client}
}

// Synthesize produces a cited answer to the query from the assembled
// context block. API failures return EUNAVAILABLE so the caller can
// degrade to an error response instead of crashing the pipeline.
func (s *Synthesizer) Synthesize(ctx context.Context, query, contextText string) (string, error) {
	if query == "" {
		return "", askcuny.Errorf(askcuny.EINVALID, "query required")
	}
	if contextText == "" {
		return "", askcuny.Errorf(askcuny.EINVALID, "context required")
	}

	result, err := s.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildUserPrompt(query, contextText)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", askcuny.Errorf(askcuny.EUNAVAILABLE, "gemini: %v", err)
	}
	if result == nil {
		return "", askcuny.Errorf(askcuny.EINTERNAL, "gemini returned nil result")
	}

	return strings.TrimSpace(result.Text()), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.3)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt combines the retrieved context and the question.
func BuildUserPrompt(query, contextText string) string {
	var sb strings.Builder
	sb.WriteString(contextText)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Question: %s\n\n", query)
	sb.WriteString("Answer using only the information above, citing sources by their [number].")
	return sb.String()
}
