package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/sanjeev23oct/copilotkit-chat-sub001/envelope"
	"github.com/sanjeev23oct/copilotkit-chat-sub001/model"
	"github.com/sanjeev23oct/copilotkit-chat-sub001/stream"
)

// anthropicDefaultMaxTokens is used when neither configuration nor the
// call supplies a cap; the Anthropic API requires max_tokens.
const anthropicDefaultMaxTokens = 4096

// AnthropicProvider implements model.Provider on the official Anthropic
// Go SDK.
type AnthropicProvider struct {
	client *anthropic.Client
	cfg    Config
}

// NewAnthropicProvider creates an Anthropic adapter.
// Returns an error if the API key is missing.
func NewAnthropicProvider(cfg Config) (*AnthropicProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is required", cfg.name())
	}
	if cfg.Model == "" {
		cfg.Model = string(anthropic.ModelClaudeSonnet4_5_20250929)
	}

	reqOpts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
	}
	for k, v := range cfg.ExtraHeaders {
		reqOpts = append(reqOpts, option.WithHeader(k, v))
	}

	client := anthropic.NewClient(reqOpts...)
	return &AnthropicProvider{
		client: &client,
		cfg:    cfg,
	}, nil
}

// Name implements model.Provider.Name.
func (p *AnthropicProvider) Name() string {
	return p.cfg.name()
}

// Model implements model.Provider.Model.
func (p *AnthropicProvider) Model() string {
	return p.cfg.Model
}

// Chat implements the blocking call path.
func (p *AnthropicProvider) Chat(ctx context.Context, messages []model.Message, opts model.ChatOptions) (*model.ChatResult, error) {
	if len(messages) == 0 {
		return nil, model.ErrNoMessages
	}

	params := p.buildParams(messages, opts)
	start := time.Now()

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s message: %w", p.Name(), err)
	}

	// Responses arrive as content blocks; only text blocks carry the
	// envelope.
	var text string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text = tb.Text
			break
		}
	}

	return &model.ChatResult{
		Envelope:    envelope.Parse(text),
		Model:       string(msg.Model),
		TotalTokens: int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		Elapsed:     time.Since(start),
	}, nil
}

// ChatStream implements the streaming call path. Anthropic spreads
// usage across named events: input tokens on message_start, output
// tokens on message_delta; the transport goroutine carries the running
// total on each fragment and the aggregator keeps the last value.
func (p *AnthropicProvider) ChatStream(ctx context.Context, messages []model.Message, opts model.ChatOptions) (*model.Stream, error) {
	if len(messages) == 0 {
		return nil, model.ErrNoMessages
	}

	params := p.buildParams(messages, opts)

	fragments := make(chan model.Fragment)
	go func() {
		defer close(fragments)

		sse := p.client.Messages.NewStreaming(ctx, params)
		defer sse.Close()

		var inputTokens, outputTokens int64

		for sse.Next() {
			event := sse.Current()

			frag := model.Fragment{}
			switch ev := event.AsAny().(type) {
			case anthropic.MessageStartEvent:
				inputTokens = ev.Message.Usage.InputTokens
				continue
			case anthropic.ContentBlockDeltaEvent:
				if delta, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok {
					frag.Delta = delta.Text
				} else {
					continue
				}
			case anthropic.MessageDeltaEvent:
				outputTokens = ev.Usage.OutputTokens
				frag.TotalTokens = int(inputTokens + outputTokens)
			case anthropic.MessageStopEvent:
				frag.Done = true
				frag.TotalTokens = int(inputTokens + outputTokens)
			default:
				continue
			}

			select {
			case fragments <- frag:
			case <-ctx.Done():
				return
			}
		}

		if err := sse.Err(); err != nil {
			select {
			case fragments <- model.Fragment{Err: fmt.Errorf("%s stream: %w", p.Name(), err)}:
			case <-ctx.Done():
			}
		}
	}()

	return model.NewStream(stream.Aggregate(ctx, fragments)), nil
}

// Available implements model.Provider.Available. Anthropic has no
// list-models endpoint suited for probing, so a minimal one-token
// request serves as the capability check.
func (p *AnthropicProvider) Available(ctx context.Context) bool {
	_, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.cfg.Model),
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		slog.Warn("provider unavailable", "provider", p.Name(), "error", err)
		return false
	}
	return true
}

func (p *AnthropicProvider) buildParams(messages []model.Message, opts model.ChatOptions) anthropic.MessageNewParams {
	temperature, maxTokens := resolveSampling(p.cfg, opts)
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	anthropicMsgs, systemBlocks := toAnthropicMessages(withContract(messages))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.cfg.Model),
		Messages:  anthropicMsgs,
		MaxTokens: int64(maxTokens),
		System:    systemBlocks,
	}
	if temperature > 0 {
		params.Temperature = anthropic.Float(temperature)
	}
	return params
}
