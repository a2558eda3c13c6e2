package nl2sql

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sanjeev23oct/copilotkit-chat-sub001/model"
)

// Confidence conventions. These are fixed defaults rather than
// calibrated probabilities; override them on the Converter if a
// deployment needs different ceilings.
const (
	// DefaultConfidence is assumed when a structured response omits
	// its own confidence value.
	DefaultConfidence = 0.8

	// FallbackConfidence is the degraded ceiling applied when the SQL
	// had to be recovered by pattern extraction instead of structured
	// decoding.
	FallbackConfidence = 0.6
)

const fallbackExplanation = "SQL extracted from an unstructured model response; verify before relying on it."

// sqlConversionPrompt enumerates the hard constraints on the model
// output. It deliberately supersedes the chat envelope contract the
// adapter prepends on every request.
const sqlConversionPrompt = `You translate natural-language questions into SQL. Ignore any earlier instructions about response format; for this request, respond with exactly one JSON object and nothing else:

{"sql": "<one single-line SELECT statement>", "explanation": "<short plain-text explanation>", "confidence": <number between 0 and 1>}

Hard constraints:
- Only read-only SELECT statements. Never INSERT, UPDATE, DELETE, DROP, ALTER, CREATE, TRUNCATE or GRANT.
- The SQL must be a single line with no trailing semicolon.
- Use only the tables and columns listed in the schema.
- No markdown fences, no prose outside the JSON object.`

// selectPattern recovers a SELECT statement from free text: everything
// from the first SELECT up to the first semicolon or end of text.
var selectPattern = regexp.MustCompile(`(?is)\bselect\b.*?(?:;|$)`)

// Converter runs the NL-to-SQL pipeline through a provider adapter.
// It is a pure function over its inputs apart from the outbound model
// call, so one Converter is safe for concurrent use.
type Converter struct {
	provider model.Provider

	// Temperature favors determinism; MaxTokens bounds the response.
	Temperature float64
	MaxTokens   int

	// Confidence ceilings, see the package constants.
	DefaultConfidence  float64
	FallbackConfidence float64
}

// NewConverter creates a Converter with the conventional defaults.
func NewConverter(p model.Provider) *Converter {
	return &Converter{
		provider:           p,
		Temperature:        0.1,
		MaxTokens:          600,
		DefaultConfidence:  DefaultConfidence,
		FallbackConfidence: FallbackConfidence,
	}
}

// Convert translates question into a SQL query against the given
// schema. tableHints, when non-empty, narrows the schema presented to
// the model. The result is never silently partial: when structured
// decoding fails the confidence drops to the fallback ceiling.
//
// Transport failures are wrapped in a ConversionError and not retried
// here.
func (c *Converter) Convert(ctx context.Context, question string, schema []Column, tableHints []string) (Result, error) {
	messages := []model.Message{
		{Role: model.RoleSystem, Content: sqlConversionPrompt},
		{Role: model.RoleUser, Content: c.buildUserPrompt(question, schema, tableHints)},
	}

	res, err := c.provider.Chat(ctx, messages, model.ChatOptions{
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	})
	if err != nil {
		return Result{}, &ConversionError{Err: err}
	}

	// The envelope parser hands back the raw text whenever the
	// response is not a chat envelope, which is the expected shape
	// here; when the model wrapped the SQL object in an envelope the
	// content field carries it instead.
	return c.parseResponse(res.Envelope.Content), nil
}

func (c *Converter) buildUserPrompt(question string, schema []Column, tableHints []string) string {
	var b strings.Builder
	b.WriteString("Database schema:\n")
	b.WriteString(RenderSchema(filterSchema(schema, tableHints)))
	if len(tableHints) > 0 {
		fmt.Fprintf(&b, "\nOnly these tables are relevant: %s\n", strings.Join(tableHints, ", "))
	}
	fmt.Fprintf(&b, "\nQuestion: %s", strings.TrimSpace(question))
	return b.String()
}

// parseResponse decodes the cleaned model output, falling back to
// pattern extraction with a degraded confidence when strict decoding
// fails.
func (c *Converter) parseResponse(raw string) Result {
	cleaned := stripMarkdownFence(raw)

	var decoded struct {
		SQL         string  `json:"sql"`
		Explanation string  `json:"explanation"`
		Confidence  float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(cleaned), &decoded); err == nil && strings.TrimSpace(decoded.SQL) != "" {
		confidence := decoded.Confidence
		if confidence <= 0 || confidence > 1 {
			confidence = c.DefaultConfidence
		}
		return Result{
			SQL:         singleLine(decoded.SQL),
			Explanation: decoded.Explanation,
			Confidence:  confidence,
		}
	}

	slog.Warn("structured SQL decode failed, using fallback extraction",
		"text", truncate(cleaned, 200))

	return Result{
		SQL:         extractSelect(cleaned),
		Explanation: fallbackExplanation,
		Confidence:  c.FallbackConfidence,
	}
}

// extractSelect recovers a SELECT span from free text. Returns the
// empty string when the text contains no SELECT at all; callers see
// the degraded confidence either way.
func extractSelect(text string) string {
	match := selectPattern.FindString(text)
	if match == "" {
		return ""
	}
	return singleLine(strings.TrimSuffix(strings.TrimSpace(match), ";"))
}

// stripMarkdownFence removes a surrounding ```/```json fence, which
// some providers add despite being told not to.
func stripMarkdownFence(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		return strings.TrimSpace(trimmed)
	}
	return trimmed
}

// singleLine collapses all whitespace runs, enforcing the single-line
// SQL constraint on whatever the model produced.
func singleLine(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
