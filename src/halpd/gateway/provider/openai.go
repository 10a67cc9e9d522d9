package provider

import (
	"context"
	"net/http"
	"strings"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/halpd/src/halpd/entity"
	"github.com/uber/halpd/src/halpd/internal/errors"
)

const (
	_openAIChatPath  = "/chat/completions"
	_openAIProbePath = "/models"

	_roleSystem = "system"
)

// openAIProvider talks to the hosted OpenAI chat completions API.
type openAIProvider struct {
	cfg    HostedConfig
	client *http.Client
	probe  *http.Client
	scope  tally.Scope
}

func newOpenAI(cfg Config, scope tally.Scope) *openAIProvider {
	return &openAIProvider{
		cfg:    cfg.OpenAI,
		client: completionClient(cfg),
		probe:  probeClient(cfg),
		scope:  scope,
	}
}

func (p *openAIProvider) Name() string {
	return BackendOpenAI
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *openAIProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	sw := p.scope.Timer("completion_latency").Start()
	defer sw.Stop()
	p.scope.Counter("requests").Inc(1)

	messages := make([]openAIMessage, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, openAIMessage{Role: _roleSystem, Content: req.System})
	}
	for _, t := range req.History {
		messages = append(messages, openAIMessage{Role: string(t.Role), Content: t.Text})
	}
	messages = append(messages, openAIMessage{Role: string(entity.RoleUser), Content: req.UserText})

	body := openAIRequest{
		Model:       p.cfg.Model,
		Messages:    messages,
		MaxTokens:   maxTokensFor(req.ModeHint),
		Temperature: temperatureFor(req.ModeHint),
	}

	var out openAIResponse
	if err := postJSON(ctx, p.client, p.Name(), p.cfg.BaseURL+_openAIChatPath, p.headers(), body, &out); err != nil {
		p.scope.Counter("errors").Inc(1)
		return "", err
	}

	if len(out.Choices) == 0 {
		p.scope.Counter("errors").Inc(1)
		return "", &errors.ProviderProtocolError{Backend: p.Name(), Detail: "no choices in response"}
	}
	reply := strings.TrimSpace(out.Choices[0].Message.Content)
	if reply == "" {
		p.scope.Counter("errors").Inc(1)
		return "", &errors.ProviderProtocolError{Backend: p.Name(), Detail: "empty completion"}
	}
	return reply, nil
}

func (p *openAIProvider) Probe(ctx context.Context) ProbeResult {
	return probeGET(ctx, p.probe, p.cfg.BaseURL+_openAIProbePath, p.headers())
}

func (p *openAIProvider) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + p.cfg.APIKey,
	}
}
