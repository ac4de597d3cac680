// internal/styling/gateway/rest.go
package gateway

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	commonhttp "stylist-workers/internal/common/http"
)

// RESTProvider calls the platform GenAI gateway over JSON/HTTP.
type RESTProvider struct {
	http    *commonhttp.Client
	baseURL string
	apiKey  string
}

func NewRESTProvider(client *commonhttp.Client, baseURL, apiKey string) *RESTProvider {
	return &RESTProvider{http: client, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

type restRequest struct {
	Prompt   string `json:"prompt"`
	Image    string `json:"image,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
}

type restResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

func (p *RESTProvider) Name() string { return "rest" }

func (p *RESTProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	return p.post(ctx, restRequest{Prompt: prompt})
}

func (p *RESTProvider) AnalyzeImage(ctx context.Context, image Image, prompt string) (string, error) {
	return p.post(ctx, restRequest{
		Prompt:   prompt,
		Image:    base64.StdEncoding.EncodeToString(image.Data),
		MIMEType: image.MIMEType,
	})
}

func (p *RESTProvider) post(ctx context.Context, req restRequest) (string, error) {
	headers := map[string]string{}
	if p.apiKey != "" {
		headers["Authorization"] = "Bearer " + p.apiKey
	}

	var resp restResponse
	err := p.http.PostJSON(ctx, p.baseURL+"/api/ai/generate", headers, req, &resp)
	if err != nil {
		var statusErr *commonhttp.StatusError
		if errors.As(err, &statusErr) &&
			(statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode == http.StatusServiceUnavailable) {
			return "", fmt.Errorf("genai gateway overloaded: %w", err)
		}
		return "", fmt.Errorf("genai gateway: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("genai gateway: %s", resp.Error)
	}
	return resp.Text, nil
}
