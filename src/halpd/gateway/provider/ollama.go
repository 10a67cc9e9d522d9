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
	_ollamaGeneratePath = "/api/generate"
	_ollamaProbePath    = "/api/tags"
)

// ollamaProvider talks to a local Ollama inference server. The generate
// endpoint takes a single flat prompt, so system text and history are folded
// into a transcript.
type ollamaProvider struct {
	cfg    OllamaConfig
	client *http.Client
	probe  *http.Client
	scope  tally.Scope
}

func newOllama(cfg Config, scope tally.Scope) *ollamaProvider {
	return &ollamaProvider{
		cfg:    cfg.Ollama,
		client: completionClient(cfg),
		probe:  probeClient(cfg),
		scope:  scope,
	}
}

func (p *ollamaProvider) Name() string {
	return BackendOllama
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options *ollamaOptions `json:"options,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func (p *ollamaProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	sw := p.scope.Timer("completion_latency").Start()
	defer sw.Stop()
	p.scope.Counter("requests").Inc(1)

	body := ollamaRequest{
		Model:  p.cfg.Model,
		Prompt: flattenPrompt(req),
		Stream: false,
	}
	if req.ModeHint == entity.ModeExec {
		body.Options = &ollamaOptions{
			Temperature: _execTemperature,
			NumPredict:  _execMaxTokens,
		}
	}

	var out ollamaResponse
	if err := postJSON(ctx, p.client, p.Name(), p.cfg.BaseURL+_ollamaGeneratePath, nil, body, &out); err != nil {
		p.scope.Counter("errors").Inc(1)
		return "", err
	}

	reply := strings.TrimSpace(out.Response)
	if reply == "" {
		p.scope.Counter("errors").Inc(1)
		return "", &errors.ProviderProtocolError{Backend: p.Name(), Detail: "empty completion"}
	}
	return reply, nil
}

func (p *ollamaProvider) Probe(ctx context.Context) ProbeResult {
	return probeGET(ctx, p.probe, p.cfg.BaseURL+_ollamaProbePath, nil)
}

// flattenPrompt renders the request as a transcript ending in an open
// assistant turn.
func flattenPrompt(req CompletionRequest) string {
	var b strings.Builder
	if req.System != "" {
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}
	for _, t := range req.History {
		switch t.Role {
		case entity.RoleAssistant:
			b.WriteString("Assistant: ")
		default:
			b.WriteString("User: ")
		}
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	b.WriteString("User: ")
	b.WriteString(req.UserText)
	b.WriteString("\nAssistant:")
	return b.String()
}
