package provider

import "github.com/sanjeev23oct/copilotkit-chat-sub001/model"

// envelopeContract is the output contract instructed on every chat
// request. Providers do not always comply, which is why the envelope
// parser is defensive regardless.
const envelopeContract = `You are a helpful assistant. Always respond with exactly one JSON object and nothing else, in this shape:

{"content": "<your answer as plain text>", "agui": [<optional UI elements>]}

Each element of "agui" is {"type": "<button|table|form|card|list|chart|text>", "id": "<optional>", "props": {<type-specific data>}}.
Include "agui" only when a structured widget (a table of rows, a chart, a card, action buttons) genuinely improves the answer; omit it otherwise.
Do not wrap the JSON in markdown fences. Do not write any text before or after the JSON object.`

// withContract prepends the envelope contract as a system message.
// Adapters call this on every request; callers never supply the
// contract themselves.
func withContract(messages []model.Message) []model.Message {
	out := make([]model.Message, 0, len(messages)+1)
	out = append(out, model.Message{Role: model.RoleSystem, Content: envelopeContract})
	return append(out, messages...)
}

// resolveSampling applies per-call overrides on top of the configured
// defaults. Zero values mean "use the default".
func resolveSampling(cfg Config, opts model.ChatOptions) (temperature float64, maxTokens int) {
	temperature = cfg.Temperature
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}
	maxTokens = cfg.MaxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}
	return temperature, maxTokens
}
