// Package provider maps completion and probe calls onto the model backend
// selected by configuration. Exactly one backend is active per daemon
// instance; switching requires a restart with new configuration.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/halpd/src/halpd/entity"
	"github.com/uber/halpd/src/halpd/internal/clock"
	"github.com/uber/halpd/src/halpd/internal/errors"
	"github.com/uber/halpd/src/halpd/internal/executor"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=provider.go -destination=provider_mock.go -package=provider
//go:generate mockgen -source=provider.go -destination=providermock/provider_mock.go -package=providermock

const _configKeyProvider = "provider"

// Supported backend names. The name doubles as the wire value reported by
// diagnostics.
const (
	BackendAnthropic = "anthropic"
	BackendOpenAI    = "openai"
	BackendOllama    = "ollama"
)

// Generation tuning per mode hint. Suggested commands are short, so exec
// requests cap output aggressively and pin the temperature low.
const (
	_execMaxTokens   = 150
	_execTemperature = 0.1
	_chatMaxTokens   = 1024
)

// Provider generates completions against the configured model backend.
type Provider interface {
	// Name returns the active backend name.
	Name() string

	// Complete sends one completion request and returns the reply text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Probe checks backend liveness with a short timeout. It reports failure
	// in the result rather than returning an error.
	Probe(ctx context.Context) ProbeResult
}

// CompletionRequest is a single prompt for the backend.
type CompletionRequest struct {
	// System is the instruction prefix for the exchange.
	System string

	// History is the bounded context window, oldest turn first.
	History []entity.Turn

	// UserText is the new user input.
	UserText string

	// ModeHint tunes generation parameters. Exec favors short deterministic
	// output; chat uses the backend's conversational defaults.
	ModeHint entity.Mode
}

// ProbeResult reports backend liveness from a single probe call.
type ProbeResult struct {
	Reachable bool
	Detail    string
	Latency   time.Duration
}

// HostedConfig configures one hosted HTTP backend. The API key is resolved
// from the environment, never from YAML.
type HostedConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"baseURL"`
	APIKey  string `yaml:"-"`
}

// OllamaConfig configures the local inference server.
type OllamaConfig struct {
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"baseURL"`
	BinPath   string `yaml:"binPath"`
	Autostart bool   `yaml:"autostart"`
}

// Config is the fully resolved provider configuration. An empty backend
// selects one from available credentials, matching the original client
// behavior of preferring a hosted key over the local server.
type Config struct {
	Backend string `yaml:"backend"`

	TimeoutSeconds      int `yaml:"timeoutSeconds"`
	ProbeTimeoutSeconds int `yaml:"probeTimeoutSeconds"`

	Anthropic HostedConfig `yaml:"anthropic"`
	OpenAI    HostedConfig `yaml:"openai"`
	Ollama    OllamaConfig `yaml:"ollama"`
}

// providerEnv carries credential and endpoint overrides that are resolved
// from the environment before the rest of the daemon sees the configuration.
type providerEnv struct {
	AnthropicAPIKey  string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string `envconfig:"HALPD_ANTHROPIC_BASE_URL"`
	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `envconfig:"HALPD_OPENAI_BASE_URL"`
	OllamaHost       string `envconfig:"OLLAMA_HOST"`
}

// Params are the inbound parameters required to construct the Provider.
type Params struct {
	fx.In

	Config   config.Provider
	Logger   *zap.SugaredLogger
	Stats    tally.Scope
	Executor executor.Executor
	Clock    clock.Clock
}

// New selects and constructs the backend named by the configuration.
func New(p Params) (Provider, error) {
	cfg, err := processConfig(p.Config)
	if err != nil {
		return nil, err
	}

	scope := p.Stats.SubScope("provider")
	var prov Provider
	switch cfg.Backend {
	case BackendAnthropic:
		prov = newAnthropic(cfg, scope)
	case BackendOpenAI:
		prov = newOpenAI(cfg, scope)
	case BackendOllama:
		prov = newOllama(cfg, scope)
		if cfg.Ollama.Autostart && cfg.Ollama.BinPath != "" {
			prov = newAutostart(prov, cfg.Ollama.BinPath, p.Executor, p.Clock, p.Logger, scope)
		}
	}

	p.Logger.Infow("provider selected", zap.String("backend", cfg.Backend))
	return prov, nil
}

func processConfig(cfg config.Provider) (Config, error) {
	var c Config
	if err := cfg.Get(_configKeyProvider).Populate(&c); err != nil {
		return Config{}, fmt.Errorf("getting config field %q: %w", _configKeyProvider, err)
	}

	var env providerEnv
	if err := envconfig.Process("", &env); err != nil {
		return Config{}, fmt.Errorf("resolving provider environment: %w", err)
	}
	c.Anthropic.APIKey = env.AnthropicAPIKey
	c.OpenAI.APIKey = env.OpenAIAPIKey
	if env.AnthropicBaseURL != "" {
		c.Anthropic.BaseURL = env.AnthropicBaseURL
	}
	if env.OpenAIBaseURL != "" {
		c.OpenAI.BaseURL = env.OpenAIBaseURL
	}
	if env.OllamaHost != "" {
		host := env.OllamaHost
		if !strings.Contains(host, "://") {
			host = "http://" + host
		}
		c.Ollama.BaseURL = host
	}

	if c.Backend == "" {
		switch {
		case c.Anthropic.APIKey != "":
			c.Backend = BackendAnthropic
		case c.OpenAI.APIKey != "":
			c.Backend = BackendOpenAI
		default:
			c.Backend = BackendOllama
		}
	}

	var model, baseURL string
	switch c.Backend {
	case BackendAnthropic:
		model, baseURL = c.Anthropic.Model, c.Anthropic.BaseURL
	case BackendOpenAI:
		model, baseURL = c.OpenAI.Model, c.OpenAI.BaseURL
	case BackendOllama:
		model, baseURL = c.Ollama.Model, c.Ollama.BaseURL
	default:
		return Config{}, fmt.Errorf("unsupported provider backend %q", c.Backend)
	}
	if model == "" {
		return Config{}, fmt.Errorf("missing model for provider %q in config", c.Backend)
	}
	if baseURL == "" {
		return Config{}, fmt.Errorf("missing base URL for provider %q in config", c.Backend)
	}
	if c.TimeoutSeconds <= 0 {
		return Config{}, fmt.Errorf("provider timeoutSeconds must be positive")
	}
	if c.ProbeTimeoutSeconds <= 0 {
		return Config{}, fmt.Errorf("provider probeTimeoutSeconds must be positive")
	}
	return c, nil
}

func completionClient(cfg Config) *http.Client {
	return &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
}

func probeClient(cfg Config) *http.Client {
	return &http.Client{Timeout: time.Duration(cfg.ProbeTimeoutSeconds) * time.Second}
}

func maxTokensFor(mode entity.Mode) int {
	if mode == entity.ModeExec {
		return _execMaxTokens
	}
	return _chatMaxTokens
}

// temperatureFor returns 0 for chat so the field is omitted and the backend
// default applies.
func temperatureFor(mode entity.Mode) float64 {
	if mode == entity.ModeExec {
		return _execTemperature
	}
	return 0
}

// postJSON sends one completion round trip and decodes the 2xx payload into
// out. Transport failures and 5xx map to ProviderUnavailableError; 4xx and
// undecodable payloads map to ProviderProtocolError.
func postJSON(ctx context.Context, client *http.Client, backend, url string, headers map[string]string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", backend, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building %s request: %w", backend, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &errors.ProviderUnavailableError{Backend: backend, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errors.ProviderUnavailableError{Backend: backend, Err: fmt.Errorf("reading response: %w", err)}
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return &errors.ProviderUnavailableError{Backend: backend, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &errors.ProviderProtocolError{Backend: backend, Detail: fmt.Sprintf("status %d: %s", resp.StatusCode, snippet(body))}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &errors.ProviderProtocolError{Backend: backend, Detail: fmt.Sprintf("decoding response: %v", err)}
	}
	return nil
}

// probeGET checks a liveness endpoint. Any response outside 2xx counts as
// unreachable so an expired key or a misrouted URL shows up in diagnostics.
func probeGET(ctx context.Context, client *http.Client, url string, headers map[string]string) ProbeResult {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ProbeResult{Detail: fmt.Sprintf("building probe request: %v", err)}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return ProbeResult{Detail: err.Error(), Latency: latency}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return ProbeResult{Detail: fmt.Sprintf("status %d", resp.StatusCode), Latency: latency}
	}
	return ProbeResult{Reachable: true, Latency: latency}
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
