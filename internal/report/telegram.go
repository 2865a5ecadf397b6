package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mkorolev/sportmonitor/internal/pkg/config"
	"github.com/mkorolev/sportmonitor/internal/pkg/models"
)

// Min interval between any two Telegram messages to the same chat to avoid 429 Too Many Requests (~30/min limit).
const defaultSendInterval = 2 * time.Second

const maxDigestRows = 10

// TelegramReporter sends per-cycle match digests to a Telegram chat.
type TelegramReporter struct {
	bot          *tgbotapi.BotAPI
	chatID       int64
	sendInterval time.Duration

	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegramReporter creates a reporter and verifies the bot token. Returns
// nil when the token is empty or invalid; a nil reporter is safe to call and
// does nothing.
func NewTelegramReporter(cfg *config.ReportConfig) *TelegramReporter {
	if cfg.TelegramBotToken == "" || cfg.TelegramChatID == 0 {
		slog.Info("Telegram reporting disabled: no token or chat id configured")
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		slog.Error("Failed to create telegram bot", "error", err)
		return nil
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		slog.Error("Failed to get bot info", "error", err)
		return nil
	}

	interval := cfg.SendInterval
	if interval <= 0 {
		interval = defaultSendInterval
	}

	slog.Info("Telegram reporter initialized", "chat_id", cfg.TelegramChatID)

	return &TelegramReporter{
		bot:          bot,
		chatID:       cfg.TelegramChatID,
		sendInterval: interval,
	}
}

// SendDigest formats and sends one cycle's digest for a sport. Blocks until
// the rate-limit interval since the previous message has elapsed.
func (r *TelegramReporter) SendDigest(ctx context.Context, sport string, matches []models.ResolvedMatch, summary string) error {
	if r == nil || r.bot == nil {
		return nil
	}
	if len(matches) == 0 {
		return nil
	}

	text := formatDigest(sport, matches, summary)

	r.mu.Lock()
	elapsed := time.Since(r.lastSend)
	if elapsed < r.sendInterval {
		wait := r.sendInterval - elapsed
		r.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		r.mu.Lock()
	}
	r.lastSend = time.Now()
	r.mu.Unlock()

	msg := tgbotapi.NewMessage(r.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	start := time.Now()
	if _, err := r.bot.Send(msg); err != nil {
		slog.Error("Telegram send: failed", "error", err, "sport", sport, "send_duration", time.Since(start))
		return fmt.Errorf("send digest: %w", err)
	}
	slog.Info("Telegram send: success", "sport", sport, "matches", len(matches), "send_duration", time.Since(start))
	return nil
}

// formatDigest builds the Markdown digest: a quality-ranked match list with
// per-match detail lines, then the analyst summary.
func formatDigest(sport string, matches []models.ResolvedMatch, summary string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📺 *Live: %s* (%s)\n\n", sportEmojiTitle(sport), time.Now().UTC().Format("15:04 UTC")))

	for i, m := range matches {
		if i >= maxDigestRows {
			b.WriteString(fmt.Sprintf("_...и ещё %d матчей_\n", len(matches)-maxDigestRows))
			break
		}
		b.WriteString(fmt.Sprintf("*%s — %s*  %s (%s)\n", escapeMarkdown(m.Team1), escapeMarkdown(m.Team2), m.Score, m.Time))
		if m.League != "" {
			b.WriteString(fmt.Sprintf("🏆 %s\n", escapeMarkdown(m.League)))
		}
		if len(m.Odds) > 0 {
			b.WriteString("💰 " + formatOdds(m.Odds) + "\n")
		}
		b.WriteString(fmt.Sprintf("📊 quality %.1f | %s\n", m.DataQuality, strings.Join(m.Sources, ", ")))
		if m.Resolution.Degraded {
			b.WriteString("⚠️ _partial data_\n")
		}
		b.WriteByte('\n')
	}

	if summary != "" {
		b.WriteString("🧠 " + summary + "\n")
	}

	return b.String()
}

// formatOdds renders the main 1X2 line when present, otherwise the first few markets.
func formatOdds(odds map[string]string) string {
	if v1, ok := odds["П1"]; ok {
		line := "П1 " + v1
		if x, ok := odds["X"]; ok {
			line += " | X " + x
		}
		if v2, ok := odds["П2"]; ok {
			line += " | П2 " + v2
		}
		return line
	}

	parts := make([]string, 0, 3)
	for k, v := range odds {
		parts = append(parts, k+" "+v)
		if len(parts) == 3 {
			break
		}
	}
	return strings.Join(parts, " | ")
}

func sportEmojiTitle(sport string) string {
	switch sport {
	case "football":
		return "⚽ футбол"
	case "tennis":
		return "🎾 теннис"
	case "tabletennis":
		return "🏓 настольный теннис"
	case "handball":
		return "🤾 гандбол"
	default:
		return sport
	}
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return replacer.Replace(text)
}
