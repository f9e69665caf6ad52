package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/go-cat-service/internal/config"
)

const token = "123456:TEST-token"

func newTelegram(t *testing.T, h http.HandlerFunc) *Telegram {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewTelegram(config.TelegramConfig{BotToken: token, ChatID: "@CatApiAlerts", APIURL: srv.URL + "/"})
}

func TestSend_PostsMessage(t *testing.T) {
	var (
		path string
		got  map[string]any
	)
	tg := newTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		got = nil
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	if err := tg.Send(context.Background(), "*down*", true); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if path != "/bot"+token+"/sendMessage" {
		t.Fatalf("path = %q", path)
	}
	if got["chat_id"] != "@CatApiAlerts" || got["text"] != "*down*" || got["parse_mode"] != "Markdown" {
		t.Fatalf("payload = %v", got)
	}

	if err := tg.Send(context.Background(), "plain", false); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, ok := got["parse_mode"]; ok {
		t.Fatalf("parse_mode sent for plain text: %v", got)
	}
}

func TestSend_Non200CarriesStatusAndDescription(t *testing.T) {
	tg := newTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	})
	err := tg.Send(context.Background(), "x", false)
	if err == nil || !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("err = %v", err)
	}
}

func TestSend_TransportErrorRedactsToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	tg := NewTelegram(config.TelegramConfig{BotToken: token, ChatID: "c", APIURL: srv.URL})

	err := tg.Send(context.Background(), "x", false)
	if err == nil {
		t.Fatalf("expected error")
	}
	if strings.Contains(err.Error(), token) {
		t.Fatalf("token leaked: %v", err)
	}
	if !strings.Contains(err.Error(), "[REDACTED]") {
		t.Fatalf("expected redacted URL in %v", err)
	}
}

func TestMessages(t *testing.T) {
	tg := NewTelegram(config.TelegramConfig{})
	if got := tg.Headline("  test alert "); got != "TEST ALERT" {
		t.Fatalf("Headline = %q", got)
	}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	w := tg.WelcomeMessage(now)
	if !strings.HasPrefix(w, "CAT ALERT BOT IS ONLINE!") || !strings.Contains(w, now.Format(time.RFC1123)) {
		t.Fatalf("welcome = %q", w)
	}
	if !strings.HasPrefix(tg.TestMessage(now), "TEST ALERT") {
		t.Fatalf("test message = %q", tg.TestMessage(now))
	}
}
