package http_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	httpctrl "github.com/caeleel/friendbook/pkg/controller/http"
	"github.com/m-mizutani/gt"
	"github.com/slack-go/slack/slackevents"
)

const testSigningSecret = "test-signing-secret"

// computeSlackSignature computes the Slack signature for testing
func computeSlackSignature(signingSecret, timestamp, body string) string {
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	return "v0=" + hex.EncodeToString(h.Sum(nil))
}

func signedRequest(t *testing.T, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/hooks/slack/event", bytes.NewReader(body))
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", computeSlackSignature(testSigningSecret, timestamp, string(body)))
	return req
}

// mockSlackEventHandler records the events it receives
type mockSlackEventHandler struct {
	events chan *slackevents.EventsAPIEvent
}

func newMockSlackEventHandler() *mockSlackEventHandler {
	return &mockSlackEventHandler{events: make(chan *slackevents.EventsAPIEvent, 4)}
}

func (m *mockSlackEventHandler) HandleSlackEvent(ctx context.Context, event *slackevents.EventsAPIEvent) error {
	m.events <- event
	return nil
}

func TestVerifySlackSignature(t *testing.T) {
	body := []byte(`{"type":"url_verification","challenge":"test"}`)
	now := strconv.FormatInt(time.Now().Unix(), 10)
	old := strconv.FormatInt(time.Now().Add(-10*time.Minute).Unix(), 10)

	tests := []struct {
		name      string
		timestamp string
		signature string
		wantErr   bool
	}{
		{"valid signature", now, computeSlackSignature(testSigningSecret, now, string(body)), false},
		{"invalid signature", now, "v0=invalid_signature", true},
		{"missing timestamp", "", computeSlackSignature(testSigningSecret, "123456", string(body)), true},
		{"missing signature", now, "", true},
		{"timestamp too old", old, computeSlackSignature(testSigningSecret, old, string(body)), true},
		{"invalid timestamp format", "not-a-number", computeSlackSignature(testSigningSecret, "not-a-number", string(body)), true},
		{"wrong secret", now, computeSlackSignature("wrong-secret", now, string(body)), true},
		{"different body", now, computeSlackSignature(testSigningSecret, now, "different body"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			header.Set("X-Slack-Request-Timestamp", tt.timestamp)
			header.Set("X-Slack-Signature", tt.signature)
			err := httpctrl.VerifySlackSignature(testSigningSecret, header, body)
			if tt.wantErr {
				gt.Value(t, err).NotNil()
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestSlackSignatureMiddleware(t *testing.T) {
	body := []byte(`{"type":"url_verification","challenge":"test"}`)

	t.Run("restores request body for next handler", func(t *testing.T) {
		var got []byte
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			buf := new(bytes.Buffer)
			_, err := buf.ReadFrom(r.Body)
			gt.NoError(t, err)
			got = buf.Bytes()
			w.WriteHeader(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		httpctrl.SlackSignatureMiddleware(testSigningSecret)(next).ServeHTTP(rec, signedRequest(t, body))

		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, string(got)).Equal(string(body))
	})

	t.Run("does not call next handler when signature is invalid", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		req := signedRequest(t, body)
		req.Header.Set("X-Slack-Signature", "v0=invalid")
		rec := httptest.NewRecorder()
		httpctrl.SlackSignatureMiddleware(testSigningSecret)(next).ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
		gt.Bool(t, called).False()
	})

	t.Run("missing headers are rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/hooks/slack/event", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		httpctrl.SlackSignatureMiddleware(testSigningSecret)(http.NotFoundHandler()).ServeHTTP(rec, req)
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})
}

func TestSlackWebhook(t *testing.T) {
	t.Run("url verification echoes the challenge", func(t *testing.T) {
		handler := newMockSlackEventHandler()
		srv := httpctrl.New(&mockChatUseCase{}, &mockFriendUseCase{},
			httpctrl.WithSlackWebhook(httpctrl.NewSlackWebhookHandler(handler), testSigningSecret))

		body, err := json.Marshal(map[string]any{
			"type":      "url_verification",
			"challenge": "test-challenge-token",
		})
		gt.NoError(t, err).Required()

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, signedRequest(t, body))

		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, rec.Body.String()).Equal("test-challenge-token")
	})

	callback := map[string]any{
		"token":      "test-token",
		"team_id":    "T123",
		"api_app_id": "A123",
		"type":       "event_callback",
		"event": map[string]any{
			"type":         "message",
			"user":         "U123",
			"text":         "Alex's birthday is March 3",
			"ts":           "1234567890.123456",
			"channel":      "D123",
			"event_ts":     "1234567890.123456",
			"channel_type": "im",
		},
	}

	t.Run("callback event is handled asynchronously", func(t *testing.T) {
		handler := newMockSlackEventHandler()
		srv := httpctrl.New(&mockChatUseCase{}, &mockFriendUseCase{},
			httpctrl.WithSlackWebhook(httpctrl.NewSlackWebhookHandler(handler), testSigningSecret))

		body, err := json.Marshal(callback)
		gt.NoError(t, err).Required()

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, signedRequest(t, body))
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		select {
		case ev := <-handler.events:
			gt.Value(t, ev.TeamID).Equal("T123")
			msg, ok := ev.InnerEvent.Data.(*slackevents.MessageEvent)
			gt.Bool(t, ok).True()
			gt.Value(t, msg.Text).Equal("Alex's birthday is March 3")
		case <-time.After(time.Second):
			t.Fatal("event was not dispatched")
		}
	})

	t.Run("retries are acknowledged but not handled", func(t *testing.T) {
		handler := newMockSlackEventHandler()
		srv := httpctrl.New(&mockChatUseCase{}, &mockFriendUseCase{},
			httpctrl.WithSlackWebhook(httpctrl.NewSlackWebhookHandler(handler), testSigningSecret))

		body, err := json.Marshal(callback)
		gt.NoError(t, err).Required()

		req := signedRequest(t, body)
		req.Header.Set("X-Slack-Retry-Num", "1")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		select {
		case <-handler.events:
			t.Fatal("retry was handled")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("webhook is not routed without configuration", func(t *testing.T) {
		srv := httpctrl.New(&mockChatUseCase{}, &mockFriendUseCase{})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, signedRequest(t, []byte(`{}`)))
		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})
}
