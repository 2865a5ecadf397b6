package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mkorolev/sportmonitor/internal/pkg/config"
	"github.com/mkorolev/sportmonitor/internal/pkg/models"
)

const (
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 30 * time.Second
	maxPromptRows  = 15
)

// Client produces a short natural-language digest of the reconciled matches
// through a chat-completions style API. When the API is unconfigured or fails,
// Summarize falls back to a deterministic plain-text digest so the reporting
// path never depends on the analysis backend being up.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewClient(cfg *config.AnalysisConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Summarize returns a digest of the given matches. The slice is expected to be
// sorted by quality already; only the top rows make it into the prompt.
func (c *Client) Summarize(ctx context.Context, sport string, matches []models.ResolvedMatch) string {
	if len(matches) == 0 {
		return fmt.Sprintf("Нет live-матчей (%s).", sport)
	}
	if c.baseURL == "" || c.apiKey == "" {
		return fallbackSummary(sport, matches)
	}

	summary, err := c.complete(ctx, buildPrompt(sport, matches))
	if err != nil {
		slog.Warn("Analysis request failed, using fallback summary", "error", err)
		return fallbackSummary(sport, matches)
	}
	return summary
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "Ты спортивный аналитик. Кратко, по-русски, без воды."},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("api error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty completion")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func buildPrompt(sport string, matches []models.ResolvedMatch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Live-матчи (%s), отсортированы по полноте данных:\n", sport)
	for i, m := range matches {
		if i >= maxPromptRows {
			fmt.Fprintf(&b, "...и ещё %d матчей\n", len(matches)-maxPromptRows)
			break
		}
		fmt.Fprintf(&b, "%d. %s — %s, счёт %s, минута %s", i+1, m.Team1, m.Team2, m.Score, m.Time)
		if m.League != "" {
			fmt.Fprintf(&b, " (%s)", m.League)
		}
		b.WriteByte('\n')
	}
	b.WriteString("Выдели 2-3 самых интересных матча и объясни почему, максимум 5 предложений.")
	return b.String()
}

// fallbackSummary lists the top matches without any model involvement.
func fallbackSummary(sport string, matches []models.ResolvedMatch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Live (%s): %d матчей.\n", sport, len(matches))
	for i, m := range matches {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "• %s — %s %s (%s)\n", m.Team1, m.Team2, m.Score, m.Time)
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
