package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"farmertwin/utils"

	"github.com/sashabaranov/go-openai"
)

// ChatRequest is one system+user exchange with the completion API.
type ChatRequest struct {
	System      string
	User        string
	Temperature float32
	// JSON asks the model for a JSON object reply.
	JSON bool
	// ImageDataURL attaches an image (data: URL) to the user message.
	ImageDataURL string
	MaxTokens    int
}

// Completer returns the model's reply text for a request.
type Completer interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (o *OpenAIClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if req.ImageDataURL != "" {
		user.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: req.User},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    req.ImageDataURL,
					Detail: openai.ImageURLDetailAuto,
				},
			},
		}
	} else {
		user.Content = req.User
	}

	chatReq := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			user,
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		utils.TrackUpstreamCall("openai", "failure")
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		utils.TrackUpstreamCall("openai", "failure")
		return "", fmt.Errorf("%w: completion returned no choices", utils.ErrUpstream)
	}

	utils.TrackUpstreamCall("openai", "success")
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// classifyOpenAIError wraps err with ErrQuotaExceeded when the API reports
// exhausted quota or rate limiting, and ErrUpstream otherwise.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests ||
			apiErr.Type == "insufficient_quota" ||
			strings.Contains(strings.ToLower(apiErr.Message), "quota") {
			return fmt.Errorf("%w: %s", utils.ErrQuotaExceeded, apiErr.Message)
		}
		return fmt.Errorf("%w: %s", utils.ErrUpstream, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", utils.ErrQuotaExceeded, reqErr.Err)
	}

	return fmt.Errorf("%w: %v", utils.ErrUpstream, err)
}
