package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"quranstudy/config"
	"quranstudy/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var ErrEmptyCompletion = errors.New("text completion returned no content")

// TextGenerator produces free text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// AIService calls an OpenAI-compatible /chat/completions endpoint.
type AIService struct {
	config config.AIConfig
	client *http.Client
	logger *zap.Logger
}

func NewAIService(cfg config.AIConfig, logger *zap.Logger) *AIService {
	return &AIService{
		config: cfg,
		client: tracing.NewHTTPClient(cfg.Timeout),
		logger: logger,
	}
}

func (s *AIService) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("quranstudy").Start(ctx, "ai.generate")
	defer span.End()
	span.SetAttributes(attribute.String("ai.model", s.config.Model))

	text, err := s.complete(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("text completion failed", zap.String("model", s.config.Model), zap.Error(err))
		return "", err
	}
	return text, nil
}

func (s *AIService) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:    s.config.Model,
		Messages: []ChatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(s.config.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode AI response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("AI API error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return out.Choices[0].Message.Content, nil
}
