package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/medigo/orders-service/internal/logger"
)

const chatSystemPrompt = "You are a helpful assistant for a medicine delivery app."

// ChatService answers customer help messages. With an API key it proxies to
// an OpenAI-compatible chat completions endpoint; without one it falls back
// to canned keyword replies, same as the demo deployment.
type ChatService struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewChatService(apiKey, baseURL string) *ChatService {
	return &ChatService{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *ChatService) Reply(ctx context.Context, message string) (string, error) {
	if s.apiKey == "" {
		return cannedReply(message), nil
	}

	body, err := json.Marshal(map[string]any{
		"model": "gpt-4o-mini",
		"messages": []map[string]string{
			{"role": "system", "content": chatSystemPrompt},
			{"role": "user", "content": message},
		},
		"max_tokens": 300,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		logger.Warn("chat upstream failed", "err", err)
		return "", fmt.Errorf("chat upstream: %w", err)
	}
	defer resp.Body.Close()

	var out chatCompletionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) > 0 && out.Choices[0].Message.Content != "" {
		return out.Choices[0].Message.Content, nil
	}
	if out.Error != nil && out.Error.Message != "" {
		return out.Error.Message, nil
	}
	return "Sorry, I couldn't get a response.", nil
}

func cannedReply(message string) string {
	lower := strings.ToLower(message)
	reply := "I'm here to help! You can ask about order status, payments or returns."
	if strings.Contains(lower, "order") {
		reply = "To track your order, go to Orders → Track Order and enter your order id."
	}
	if strings.Contains(lower, "payment") {
		reply = "We support Razorpay. You can pay from the cart using the Pay button."
	}
	if strings.Contains(lower, "chat") {
		reply = "This chat supports basic help; provide details and we'll assist."
	}
	return reply
}
