package transcribe

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// audioTranscriber is the slice of *openai.Client used here, split out so
// tests can inject a fake.
type audioTranscriber interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

var _ audioTranscriber = (*openai.Client)(nil)

// OpenAIClient transcribes through the general-purpose API's transcription
// endpoint via go-openai.
type OpenAIClient struct {
	client audioTranscriber
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{client: openai.NewClient(apiKey)}
}

// NewOpenAIClientWith wraps an existing transcription client (for tests).
func NewOpenAIClientWith(client audioTranscriber) *OpenAIClient {
	return &OpenAIClient{client: client}
}

func (o *OpenAIClient) Transcribe(ctx context.Context, path, mimeType, model string, opts Options) (string, error) {
	req := openai.AudioRequest{
		Model:    model,
		FilePath: path,
		Format:   openai.AudioResponseFormatJSON,
		Language: opts.Language,
		Prompt:   opts.Prompt,
	}

	resp, err := o.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return resp.Text, nil
}
