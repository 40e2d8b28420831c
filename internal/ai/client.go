package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/uiforge/uiforge/internal/stream"
	"github.com/uiforge/uiforge/pkg/logger"
)

const defaultTimeout = 60 * time.Second

// Config holds the settings for the upstream completion endpoint.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client talks to an upstream completion endpoint that answers with the
// line-framed data stream consumed by the stream package. It owns prompt
// construction and stream consumption, not the model itself.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient constructs a completion client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("ai: base url is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("ai: model is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.WithModule("ai"),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// GenerateComponent asks the model for a brand new component and returns the
// reconstructed source text.
func (c *Client) GenerateComponent(ctx context.Context, description string) (string, error) {
	return c.complete(ctx, []chatMessage{
		{Role: "system", Content: generateSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Generate a React component for: %s", description)},
	})
}

// ChatMessage is one turn of an assistant conversation supplied by the caller.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat answers a platform-assistant conversation and returns the reply text.
func (c *Client) Chat(ctx context.Context, history []ChatMessage) (string, error) {
	messages := make([]chatMessage, 0, len(history)+1)
	messages = append(messages, chatMessage{Role: "system", Content: assistantSystemPrompt})
	for _, m := range history {
		messages = append(messages, chatMessage{Role: m.Role, Content: m.Content})
	}
	return c.complete(ctx, messages)
}

// ComponentSummary is the catalog view handed to the model for search ranking.
type ComponentSummary struct {
	ID          string
	Name        string
	Description string
	Category    string
}

// RankComponents asks the model which catalog entries best match a natural
// language query and returns their IDs, best match first.
func (c *Client) RankComponents(ctx context.Context, query string, components []ComponentSummary) ([]string, error) {
	var list strings.Builder
	for _, comp := range components {
		fmt.Fprintf(&list, "ID: %s, Name: %s, Desc: %s, Cat: %s\n", comp.ID, comp.Name, comp.Description, comp.Category)
	}

	text, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: fmt.Sprintf(searchSystemPrompt, query, list.String())},
		{Role: "user", Content: "Identify the best matching component IDs for the query. Return ONLY valid JSON."},
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		ComponentIDs []string `json:"componentIds"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &result); err != nil {
		return nil, fmt.Errorf("ai: decode ranking: %w", err)
	}
	return result.ComponentIDs, nil
}

// RefineComponent feeds previously generated code back with an instruction
// and returns the revised source text.
func (c *Client) RefineComponent(ctx context.Context, code, instruction string) (string, error) {
	return c.complete(ctx, []chatMessage{
		{Role: "system", Content: refineSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Current component:\n\n%s\n\nRequested change: %s", code, instruction)},
	})
}

func (c *Client) complete(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:    c.cfg.Model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return "", fmt.Errorf("ai: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", stream.ErrStream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: upstream status %d", stream.ErrStream, resp.StatusCode)
	}

	text, err := stream.Accumulate(ctx, resp.Body)
	if err != nil {
		return "", err
	}

	c.log.Debug("completion stream consumed",
		zap.Duration("duration", time.Since(started)),
		zap.Int("bytes", len(text)),
	)

	return text, nil
}
