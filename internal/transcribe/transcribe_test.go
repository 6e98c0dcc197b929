package transcribe

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

func TestRouterStaticLookup(t *testing.T) {
	r := NewRouter([]string{
		"openai/whisper-large-v3",
		"openai/whisper-large-v2",
	})

	tests := []struct {
		model string
		want  Provider
	}{
		{"openai/whisper-large-v3", ProviderTogether},
		{"openai/whisper-large-v2", ProviderTogether},
		{"gpt-4o-mini-transcribe", ProviderOpenAI},
		{"whisper-1", ProviderOpenAI},
		{"", ProviderOpenAI},
		{"openai/whisper-large-v3 ", ProviderOpenAI}, // exact match only
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, r.Route(tt.model), tt.model)
	}
}

func TestDispatcherMissingCredentialIsFatal(t *testing.T) {
	d := NewDispatcher(NewRouter([]string{"openai/whisper-large-v3"}), nil, nil)

	_, err := d.Transcribe(context.Background(), "/tmp/a.ogg", "audio/ogg", "openai/whisper-large-v3", Options{})
	require.ErrorIs(t, err, ErrMissingCredential)
	require.Contains(t, err.Error(), "TOGETHERAI_API_KEY")

	_, err = d.Transcribe(context.Background(), "/tmp/a.ogg", "audio/ogg", "whisper-1", Options{})
	require.ErrorIs(t, err, ErrMissingCredential)
	require.Contains(t, err.Error(), "OPENAI_API_KEY_TRANSCRIBE")
	require.Contains(t, err.Error(), "OPENAI_API_KEY")
}

type fakeClient struct {
	text  string
	err   error
	calls int
	model string
}

func (f *fakeClient) Transcribe(ctx context.Context, path, mimeType, model string, opts Options) (string, error) {
	f.calls++
	f.model = model
	return f.text, f.err
}

func TestDispatcherRoutesToBackend(t *testing.T) {
	together := &fakeClient{text: "from together"}
	oai := &fakeClient{text: "from openai"}
	d := NewDispatcher(NewRouter([]string{"openai/whisper-large-v3"}), together, oai)

	text, err := d.Transcribe(context.Background(), "/tmp/a.ogg", "audio/ogg", "openai/whisper-large-v3", Options{})
	require.NoError(t, err)
	require.Equal(t, "from together", text)
	require.Equal(t, 1, together.calls)
	require.Equal(t, 0, oai.calls)

	text, err = d.Transcribe(context.Background(), "/tmp/a.ogg", "audio/ogg", "gpt-4o-transcribe", Options{})
	require.NoError(t, err)
	require.Equal(t, "from openai", text)
	require.Equal(t, 1, oai.calls)
}

func TestDispatcherNoFallbackBetweenBackends(t *testing.T) {
	oai := &fakeClient{text: "unused"}
	d := NewDispatcher(NewRouter([]string{"openai/whisper-large-v3"}), nil, oai)

	_, err := d.Transcribe(context.Background(), "/tmp/a.ogg", "audio/ogg", "openai/whisper-large-v3", Options{})
	require.ErrorIs(t, err, ErrMissingCredential)
	require.Equal(t, 0, oai.calls, "a missing Together key must not fall back to OpenAI")
}

type fakeAudioTranscriber struct {
	req  openai.AudioRequest
	text string
	err  error
}

func (f *fakeAudioTranscriber) CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	f.req = req
	return openai.AudioResponse{Text: f.text}, f.err
}

func TestOpenAIClientForwardsHints(t *testing.T) {
	fake := &fakeAudioTranscriber{text: "hello"}
	c := NewOpenAIClientWith(fake)

	text, err := c.Transcribe(context.Background(), "/tmp/a.ogg", "audio/ogg", "whisper-1",
		Options{Language: "de", Prompt: "diary entry"})
	require.NoError(t, err)
	require.Equal(t, "hello", text)
	require.Equal(t, "whisper-1", fake.req.Model)
	require.Equal(t, "de", fake.req.Language)
	require.Equal(t, "diary entry", fake.req.Prompt)
}

func TestOpenAIClientWrapsProviderError(t *testing.T) {
	fake := &fakeAudioTranscriber{err: errors.New("429 rate limited")}
	c := NewOpenAIClientWith(fake)

	_, err := c.Transcribe(context.Background(), "/tmp/a.ogg", "audio/ogg", "whisper-1", Options{})
	require.ErrorIs(t, err, ErrProvider)
	require.Contains(t, err.Error(), "429 rate limited")
}

func TestMergePreservesOrder(t *testing.T) {
	got, err := Merge([]string{"first part.", "second part,", "third part."})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(got, "first part."))
	require.True(t, strings.HasSuffix(got, "third part."))
	require.Equal(t, "first part.\nsecond part,\nthird part.", got)
}

func TestMergeTrimsBoundaryWhitespace(t *testing.T) {
	got, err := Merge([]string{"  leading space", "trailing space \n", "   "})
	require.NoError(t, err)
	require.Equal(t, "leading space\ntrailing space", got)
}

func TestMergeSingleChunk(t *testing.T) {
	got, err := Merge([]string{" only one \n"})
	require.NoError(t, err)
	require.Equal(t, "only one", got)
}

func TestMergeFailsFastOnEmptyInput(t *testing.T) {
	_, err := Merge(nil)
	require.ErrorIs(t, err, ErrNoTranscripts)

	_, err = Merge([]string{})
	require.ErrorIs(t, err, ErrNoTranscripts)
}
