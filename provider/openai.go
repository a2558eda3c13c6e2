package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/sanjeev23oct/copilotkit-chat-sub001/envelope"
	"github.com/sanjeev23oct/copilotkit-chat-sub001/model"
	"github.com/sanjeev23oct/copilotkit-chat-sub001/stream"
)

// OpenAIProvider implements model.Provider on the official OpenAI Go
// SDK. It also serves every OpenAI-compatible backend (OpenRouter,
// LM Studio, self-hosted gateways) through a base URL override.
type OpenAIProvider struct {
	client openai.Client
	cfg    Config
}

// NewOpenAIProvider creates an OpenAI (or OpenAI-compatible) adapter.
// Returns an error if the API key is missing.
func NewOpenAIProvider(cfg Config) (*OpenAIProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is required", cfg.name())
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	reqOpts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
	}
	for k, v := range cfg.ExtraHeaders {
		reqOpts = append(reqOpts, option.WithHeader(k, v))
	}

	return &OpenAIProvider{
		client: openai.NewClient(reqOpts...),
		cfg:    cfg,
	}, nil
}

// Name implements model.Provider.Name.
func (p *OpenAIProvider) Name() string {
	return p.cfg.name()
}

// Model implements model.Provider.Model.
func (p *OpenAIProvider) Model() string {
	return p.cfg.Model
}

// Chat implements the blocking call path: one request, one complete
// response, parsed into an envelope.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []model.Message, opts model.ChatOptions) (*model.ChatResult, error) {
	if len(messages) == 0 {
		return nil, model.ErrNoMessages
	}

	params := p.buildParams(messages, opts)
	start := time.Now()

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s chat completion: %w", p.Name(), err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%s chat completion: empty choices", p.Name())
	}

	return &model.ChatResult{
		Envelope:    envelope.Parse(completion.Choices[0].Message.Content),
		Model:       completion.Model,
		TotalTokens: int(completion.Usage.TotalTokens),
		Elapsed:     time.Since(start),
	}, nil
}

// ChatStream implements the streaming call path. A transport goroutine
// feeds raw fragments into the aggregator, which re-emits the
// normalized event sequence.
func (p *OpenAIProvider) ChatStream(ctx context.Context, messages []model.Message, opts model.ChatOptions) (*model.Stream, error) {
	if len(messages) == 0 {
		return nil, model.ErrNoMessages
	}

	params := p.buildParams(messages, opts)
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	fragments := make(chan model.Fragment)
	go func() {
		defer close(fragments)

		sse := p.client.Chat.Completions.NewStreaming(ctx, params)
		defer sse.Close()

		for sse.Next() {
			chunk := sse.Current()

			frag := model.Fragment{}
			if len(chunk.Choices) > 0 {
				frag.Delta = chunk.Choices[0].Delta.Content
			}
			if chunk.Usage.TotalTokens > 0 {
				frag.TotalTokens = int(chunk.Usage.TotalTokens)
			}
			if frag.Delta == "" && frag.TotalTokens == 0 {
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

// Available implements model.Provider.Available with a list-models probe.
func (p *OpenAIProvider) Available(ctx context.Context) bool {
	if _, err := p.client.Models.List(ctx); err != nil {
		slog.Warn("provider unavailable", "provider", p.Name(), "error", err)
		return false
	}
	return true
}

func (p *OpenAIProvider) buildParams(messages []model.Message, opts model.ChatOptions) openai.ChatCompletionNewParams {
	temperature, maxTokens := resolveSampling(p.cfg, opts)

	params := openai.ChatCompletionNewParams{
		Messages: toOpenAIMessages(withContract(messages)),
		Model:    openai.ChatModel(p.cfg.Model),
	}
	if temperature > 0 {
		params.Temperature = openai.Float(temperature)
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}
	return params
}
