package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/sanjeev23oct/copilotkit-chat-sub001/envelope"
	"github.com/sanjeev23oct/copilotkit-chat-sub001/model"
	"github.com/sanjeev23oct/copilotkit-chat-sub001/stream"
)

// OllamaProvider implements model.Provider against a local Ollama
// server. This is the local-model family: no credential is required.
type OllamaProvider struct {
	client *api.Client
	cfg    Config
}

// NewOllamaProvider creates an Ollama adapter.
// Returns an error if the base URL cannot be parsed.
func NewOllamaProvider(cfg Config) (*OllamaProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.1:latest"
	}

	parsedURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &OllamaProvider{
		client: api.NewClient(parsedURL, http.DefaultClient),
		cfg:    cfg,
	}, nil
}

// Name implements model.Provider.Name.
func (p *OllamaProvider) Name() string {
	return p.cfg.name()
}

// Model implements model.Provider.Model.
func (p *OllamaProvider) Model() string {
	return p.cfg.Model
}

// Chat implements the blocking call path. With streaming disabled the
// Ollama client invokes the response callback exactly once with the
// complete message.
func (p *OllamaProvider) Chat(ctx context.Context, messages []model.Message, opts model.ChatOptions) (*model.ChatResult, error) {
	if len(messages) == 0 {
		return nil, model.ErrNoMessages
	}

	req := p.buildRequest(messages, opts, false)
	start := time.Now()

	var content strings.Builder
	totalTokens := 0
	err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		if resp.Done {
			totalTokens = resp.Metrics.PromptEvalCount + resp.Metrics.EvalCount
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s chat: %w", p.Name(), err)
	}

	return &model.ChatResult{
		Envelope:    envelope.Parse(content.String()),
		Model:       p.cfg.Model,
		TotalTokens: totalTokens,
		Elapsed:     time.Since(start),
	}, nil
}

// ChatStream implements the streaming call path.
func (p *OllamaProvider) ChatStream(ctx context.Context, messages []model.Message, opts model.ChatOptions) (*model.Stream, error) {
	if len(messages) == 0 {
		return nil, model.ErrNoMessages
	}

	req := p.buildRequest(messages, opts, true)

	fragments := make(chan model.Fragment)
	go func() {
		defer close(fragments)

		err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
			frag := model.Fragment{Delta: resp.Message.Content}
			if resp.Done {
				frag.Done = true
				frag.TotalTokens = resp.Metrics.PromptEvalCount + resp.Metrics.EvalCount
			}
			select {
			case fragments <- frag:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && ctx.Err() == nil {
			select {
			case fragments <- model.Fragment{Err: fmt.Errorf("%s stream: %w", p.Name(), err)}:
			case <-ctx.Done():
			}
		}
	}()

	return model.NewStream(stream.Aggregate(ctx, fragments)), nil
}

// Available implements model.Provider.Available by listing local models.
func (p *OllamaProvider) Available(ctx context.Context) bool {
	if _, err := p.client.List(ctx); err != nil {
		slog.Warn("provider unavailable", "provider", p.Name(), "error", err)
		return false
	}
	return true
}

func (p *OllamaProvider) buildRequest(messages []model.Message, opts model.ChatOptions, streaming bool) *api.ChatRequest {
	temperature, maxTokens := resolveSampling(p.cfg, opts)

	options := map[string]any{}
	if temperature > 0 {
		options["temperature"] = temperature
	}
	if maxTokens > 0 {
		options["num_predict"] = maxTokens
	}

	return &api.ChatRequest{
		Model:    p.cfg.Model,
		Messages: toOllamaMessages(withContract(messages)),
		Stream:   &streaming,
		Options:  options,
	}
}
