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
	_anthropicVersion      = "2023-06-01"
	_anthropicMessagesPath = "/v1/messages"
	_anthropicProbePath    = "/v1/models"
)

// anthropicProvider talks to the hosted Anthropic Messages API.
type anthropicProvider struct {
	cfg    HostedConfig
	client *http.Client
	probe  *http.Client
	scope  tally.Scope
}

func newAnthropic(cfg Config, scope tally.Scope) *anthropicProvider {
	return &anthropicProvider{
		cfg:    cfg.Anthropic,
		client: completionClient(cfg),
		probe:  probeClient(cfg),
		scope:  scope,
	}
}

func (p *anthropicProvider) Name() string {
	return BackendAnthropic
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *anthropicProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	sw := p.scope.Timer("completion_latency").Start()
	defer sw.Stop()
	p.scope.Counter("requests").Inc(1)

	messages := make([]anthropicMessage, 0, len(req.History)+1)
	for _, t := range req.History {
		messages = append(messages, anthropicMessage{Role: string(t.Role), Content: t.Text})
	}
	messages = append(messages, anthropicMessage{Role: string(entity.RoleUser), Content: req.UserText})

	body := anthropicRequest{
		Model:       p.cfg.Model,
		MaxTokens:   maxTokensFor(req.ModeHint),
		System:      req.System,
		Messages:    messages,
		Temperature: temperatureFor(req.ModeHint),
	}

	var out anthropicResponse
	if err := postJSON(ctx, p.client, p.Name(), p.cfg.BaseURL+_anthropicMessagesPath, p.headers(), body, &out); err != nil {
		p.scope.Counter("errors").Inc(1)
		return "", err
	}

	var text strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	reply := strings.TrimSpace(text.String())
	if reply == "" {
		p.scope.Counter("errors").Inc(1)
		return "", &errors.ProviderProtocolError{Backend: p.Name(), Detail: "empty completion"}
	}
	return reply, nil
}

func (p *anthropicProvider) Probe(ctx context.Context) ProbeResult {
	return probeGET(ctx, p.probe, p.cfg.BaseURL+_anthropicProbePath, p.headers())
}

func (p *anthropicProvider) headers() map[string]string {
	return map[string]string{
		"x-api-key":         p.cfg.APIKey,
		"anthropic-version": _anthropicVersion,
	}
}
