// Package notify sends alert messages to a Telegram chat through the Bot API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-cat-service/internal/config"
)

// Telegram posts messages to one chat. It is safe for concurrent use.
type Telegram struct {
	http    *http.Client
	apiURL  string
	token   string
	chatID  string
	headers cases.Caser
}

// NewTelegram builds a Telegram sender from cfg.
func NewTelegram(cfg config.TelegramConfig) *Telegram {
	return &Telegram{
		http:    &http.Client{Timeout: 10 * time.Second},
		apiURL:  strings.TrimRight(cfg.APIURL, "/"),
		token:   cfg.BotToken,
		chatID:  cfg.ChatID,
		headers: cases.Upper(language.English),
	}
}

type sendMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// Send posts text to the chat, with Markdown parsing when markdown is true.
// Any status other than 200 is an error carrying the status and the API's
// description. The bot token never appears in returned errors.
func (t *Telegram) Send(ctx context.Context, text string, markdown bool) error {
	msg := sendMessage{ChatID: t.chatID, Text: text}
	if markdown {
		msg.ParseMode = "Markdown"
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("telegram: encode: %w", err)
	}

	endpoint := t.apiURL + "/bot" + t.token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: %s", t.redact(err.Error()))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("telegram: %w", ctx.Err())
		}
		return fmt.Errorf("telegram: %s", t.redact(err.Error()))
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Description string `json:"description"`
		}
		_ = json.Unmarshal(raw, &apiErr)
		return fmt.Errorf("telegram: status %d: %s", resp.StatusCode, apiErr.Description)
	}
	return nil
}

// redact masks the bot token, which is part of every request URL.
func (t *Telegram) redact(s string) string {
	if t.token == "" {
		return s
	}
	return strings.ReplaceAll(s, t.token, "[REDACTED]")
}

// Headline renders an alert title in the house style: upper-cased.
func (t *Telegram) Headline(s string) string {
	return t.headers.String(strings.TrimSpace(s))
}

// WelcomeMessage is sent once when the notifier starts.
func (t *Telegram) WelcomeMessage(now time.Time) string {
	return t.Headline("cat alert bot is online!") + "\n\n" +
		"Hello! I'm your Cat Service monitoring bot.\n\n" +
		"What I monitor:\n" +
		"- 5xx errors (critical)\n" +
		"- High latency (>1s)\n" +
		"- No traffic\n" +
		"- 4xx errors (>10 in 5min)\n" +
		"- Slow external cat API\n\n" +
		"Current Status: All systems operational\n\n" +
		"Bot started at: " + now.Format(time.RFC1123)
}

// TestMessage verifies the delivery path end to end.
func (t *Telegram) TestMessage(now time.Time) string {
	return t.Headline("test alert") + "\n\n" +
		"This is a test message to verify that the alert system is working properly.\n\n" +
		"Test Details:\n" +
		"- Type: System test\n" +
		"- Status: Working\n" +
		"- Time: " + now.Format(time.RFC1123) + "\n\n" +
		"If you received this message, the alert system is ready!"
}
