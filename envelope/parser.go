// Package envelope recovers the structured response envelope from raw
// model output.
//
// Providers are instructed to reply with a single JSON object
// {"content": ..., "agui": [...]}, but the instruction is not always
// honored: responses arrive wrapped in markdown fences, surrounded by
// prose, or as plain text with no JSON at all. Parse absorbs all of
// that and always hands back a usable envelope, so callers never see a
// parse failure, only a degraded plain-text result.
package envelope

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/sanjeev23oct/copilotkit-chat-sub001/model"
)

// logSnippetLen bounds how much offending text a warning carries.
const logSnippetLen = 200

// rawEnvelope is the decode target for the provider output contract.
// AGUI stays raw so a malformed element list degrades to "no elements"
// instead of failing the whole envelope.
type rawEnvelope struct {
	Content string          `json:"content"`
	AGUI    json.RawMessage `json:"agui"`
}

// Parse extracts an Envelope from raw provider text. It is a total
// function: whatever the input, the result has non-empty Content
// (falling back to the raw text) and a non-nil Elements slice.
func Parse(raw string) model.Envelope {
	candidate := extractJSONCandidate(raw)

	var decoded rawEnvelope
	if err := json.Unmarshal([]byte(candidate), &decoded); err != nil {
		slog.Warn("envelope parse failed, returning raw text",
			"error", err,
			"text", truncate(raw, logSnippetLen))
		return model.Envelope{Content: raw, Elements: []model.UIElement{}}
	}

	env := model.Envelope{
		Content:  decoded.Content,
		Elements: decodeElements(decoded.AGUI),
	}
	// A structured response without usable content still carries the
	// answer somewhere in the raw text; never return an empty envelope.
	if strings.TrimSpace(env.Content) == "" {
		env.Content = raw
	}
	return env
}

// extractJSONCandidate takes the span between the first '{' and the
// last '}' inclusive, which strips markdown fences and surrounding
// prose. Nested braces inside string values are fine because decoding
// is attempted on the whole bounded span. When no such span exists the
// entire input is the candidate.
func extractJSONCandidate(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return raw
	}
	return raw[start : end+1]
}

// decodeElements decodes the agui field. Absent or malformed element
// lists become an empty slice; elements missing an id get a fresh one.
func decodeElements(raw json.RawMessage) []model.UIElement {
	if len(raw) == 0 {
		return []model.UIElement{}
	}

	var elements []model.UIElement
	if err := json.Unmarshal(raw, &elements); err != nil {
		slog.Warn("agui field is not an element list, dropping it",
			"error", err,
			"agui", truncate(string(raw), logSnippetLen))
		return []model.UIElement{}
	}
	// A JSON null decodes successfully into a nil slice.
	if elements == nil {
		return []model.UIElement{}
	}

	for i := range elements {
		assignIDs(&elements[i])
	}
	return elements
}

// assignIDs generates identities for el and its children recursively.
func assignIDs(el *model.UIElement) {
	if el.ID == "" {
		el.ID = model.NewElementID()
	}
	for i := range el.Children {
		assignIDs(&el.Children[i])
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
