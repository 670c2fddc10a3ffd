package assessor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"io"
	"net/http"
	"time"

	apperrors "github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/errors"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/forensics"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/raster"
)

// Client calls the external visual-reasoning service: an Azure
// OpenAI-compatible chat-completions endpoint with vision input. The
// orchestrator holds exactly one Client and passes it by interface;
// the analyzer and fusion never see it.
type Client interface {
	Assess(ctx context.Context, page *raster.Raster, metrics *forensics.Metrics, verdict forensics.Verdict) (*Assessment, error)
}

type httpClient struct {
	endpoint   string
	deployment string
	apiVersion string
	apiKey     string
	client     *http.Client
}

// NewClient builds the assessor client. The timeout covers one whole
// round trip; callers additionally pass a cancellable context.
func NewClient(endpoint, deployment, apiVersion, apiKey string, timeout time.Duration) Client {
	return &httpClient{
		endpoint:   endpoint,
		deployment: deployment,
		apiVersion: apiVersion,
		apiKey:     apiKey,
		client:     &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Messages            []chatMessage  `json:"messages"`
	Temperature         float64        `json:"temperature"`
	MaxCompletionTokens int            `json:"max_completion_tokens"`
	ResponseFormat      responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Assess sends the page image plus the forensic summary and decodes
// the structured judgment. Every failure mode maps to an error; the
// caller converts that into the degraded fusion path rather than a
// false "clean".
func (c *httpClient) Assess(ctx context.Context, page *raster.Raster, metrics *forensics.Metrics, verdict forensics.Verdict) (*Assessment, error) {
	var imgBuf bytes.Buffer
	if err := jpeg.Encode(&imgBuf, page.ToImage(), &jpeg.Options{Quality: 92}); err != nil {
		return nil, apperrors.NewProcessingError("encode page for assessor", err)
	}

	payload := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: buildUserPrompt(BuildForensicSummary(metrics, verdict))},
				{Type: "image_url", ImageURL: &imageURL{
					URL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imgBuf.Bytes()),
				}},
			}},
		},
		Temperature:         0.1,
		MaxCompletionTokens: 16000,
		ResponseFormat:      responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewInternalError("marshal assessor request", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewInternalError("build assessor request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.NewTimeoutError("assessor call cancelled", err)
		}
		return nil, apperrors.NewNetworkError("assessor call failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, apperrors.NewNetworkError("read assessor response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewNetworkError(
			fmt.Sprintf("assessor returned status %d", resp.StatusCode), nil)
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil || len(chat.Choices) == 0 {
		return nil, apperrors.NewProcessingError("assessor returned malformed envelope", err)
	}

	assessment, ok := decodeAssessment([]byte(chat.Choices[0].Message.Content))
	if !ok {
		return nil, apperrors.NewProcessingError("assessor returned unusable judgment", nil)
	}
	return assessment, nil
}
