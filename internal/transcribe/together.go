package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const togetherTranscriptionURL = "https://api.together.xyz/v1/audio/transcriptions"

// httpDoer abstracts the HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TogetherClient calls the Together speech endpoint with a raw multipart
// request; there is no official Go SDK for it.
type TogetherClient struct {
	apiKey  string
	baseURL string
	http    httpDoer
}

type TogetherOption func(*TogetherClient)

// WithTogetherHTTPClient sets a custom HTTP client (for tests).
func WithTogetherHTTPClient(c httpDoer) TogetherOption {
	return func(t *TogetherClient) { t.http = c }
}

// WithTogetherBaseURL overrides the endpoint URL (for tests).
func WithTogetherBaseURL(url string) TogetherOption {
	return func(t *TogetherClient) { t.baseURL = url }
}

func NewTogetherClient(apiKey string, opts ...TogetherOption) *TogetherClient {
	t := &TogetherClient{
		apiKey:  apiKey,
		baseURL: togetherTranscriptionURL,
		http:    &http.Client{Timeout: 10 * time.Minute},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type togetherResponse struct {
	Text string `json:"text"`
}

func (t *TogetherClient) Transcribe(ctx context.Context, path, mimeType, model string, opts Options) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open chunk: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", model); err != nil {
		return "", err
	}
	if opts.Language != "" {
		if err := mw.WriteField("language", opts.Language); err != nil {
			return "", err
		}
	}
	if opts.Prompt != "" {
		if err := mw.WriteField("prompt", opts.Prompt); err != nil {
			return "", err
		}
	}

	fw, err := createFormFile(mw, "file", filepath.Base(path), mimeType)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := t.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: together http %d: %s", ErrProvider, resp.StatusCode, string(b))
	}

	var tr togetherResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: decode together response: %v", ErrProvider, err)
	}
	return tr.Text, nil
}

// createFormFile is multipart.Writer.CreateFormFile with an explicit content
// type instead of the default application/octet-stream.
func createFormFile(mw *multipart.Writer, field, filename, mimeType string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, escapeQuotes(filename)))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h.Set("Content-Type", mimeType)
	return mw.CreatePart(h)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
