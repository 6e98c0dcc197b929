package transcribe

import (
	"context"
	"fmt"
)

// Provider identifies a speech-to-text backend. The set is closed: a model
// identifier maps to exactly one of these.
type Provider int

const (
	// ProviderTogether is the dedicated speech model service (Whisper family).
	ProviderTogether Provider = iota
	// ProviderOpenAI is the general-purpose API's transcription endpoint.
	ProviderOpenAI
)

func (p Provider) String() string {
	switch p {
	case ProviderTogether:
		return "together"
	case ProviderOpenAI:
		return "openai"
	default:
		return fmt.Sprintf("provider(%d)", int(p))
	}
}

// Options carries optional transcription hints forwarded to the provider.
type Options struct {
	// Language is an ISO 639-1 code; empty means auto-detect.
	Language string
	// Prompt biases the model towards expected vocabulary.
	Prompt string
}

// Client transcribes a single audio file.
type Client interface {
	Transcribe(ctx context.Context, path, mimeType, model string, opts Options) (string, error)
}

// Router maps a model identifier to its provider. The mapping is a static
// lookup injected at construction: the fixed set of Together-served models
// routes there, every other identifier routes to OpenAI.
type Router struct {
	together map[string]struct{}
}

func NewRouter(togetherModels []string) Router {
	set := make(map[string]struct{}, len(togetherModels))
	for _, m := range togetherModels {
		set[m] = struct{}{}
	}
	return Router{together: set}
}

func (r Router) Route(model string) Provider {
	if _, ok := r.together[model]; ok {
		return ProviderTogether
	}
	return ProviderOpenAI
}

// Dispatcher routes a transcription request to the configured backend for
// the requested model. A backend whose credential is absent is nil, and
// selecting it is a fatal configuration error.
type Dispatcher struct {
	router   Router
	together Client
	openai   Client
}

func NewDispatcher(router Router, together, openai Client) *Dispatcher {
	return &Dispatcher{router: router, together: together, openai: openai}
}

func (d *Dispatcher) Transcribe(ctx context.Context, path, mimeType, model string, opts Options) (string, error) {
	switch d.router.Route(model) {
	case ProviderTogether:
		if d.together == nil {
			return "", fmt.Errorf("%w: TOGETHERAI_API_KEY is not set", ErrMissingCredential)
		}
		return d.together.Transcribe(ctx, path, mimeType, model, opts)
	default:
		if d.openai == nil {
			return "", fmt.Errorf("%w: neither OPENAI_API_KEY_TRANSCRIBE nor OPENAI_API_KEY is set", ErrMissingCredential)
		}
		return d.openai.Transcribe(ctx, path, mimeType, model, opts)
	}
}
