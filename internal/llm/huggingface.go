package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	DefaultHuggingFaceModel    = "moonshotai/Kimi-K2-Instruct"
	DefaultHuggingFaceEndpoint = "https://router.huggingface.co/v1/chat/completions"
)

// HuggingFace calls a chat-completions endpoint on the Hugging Face
// inference router.
type HuggingFace struct {
	Token       string
	Model       string
	Endpoint    string
	Temperature float32
	HTTPClient  *http.Client
}

func NewHuggingFace(token, model, endpoint string, temperature float32) *HuggingFace {
	if model == "" {
		model = DefaultHuggingFaceModel
	}
	if endpoint == "" {
		endpoint = DefaultHuggingFaceEndpoint
	}
	return &HuggingFace{
		Token:       token,
		Model:       model,
		Endpoint:    endpoint,
		Temperature: temperature,
		HTTPClient:  &http.Client{},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (h *HuggingFace) Generate(ctx context.Context, system string, msgs []Message) (string, error) {
	all := make([]Message, 0, len(msgs)+1)
	if system != "" {
		all = append(all, Message{Role: "system", Content: system})
	}
	all = append(all, msgs...)

	jsonBody, err := json.Marshal(chatRequest{Model: h.Model, Messages: all, Temperature: h.Temperature})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+h.Token)

	resp, err := h.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("huggingface API error: %d - %s", resp.StatusCode, string(body))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return result.Choices[0].Message.Content, nil
}
