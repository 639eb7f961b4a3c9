package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/whybudget/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(buf *bytes.Buffer) logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func TestBrevoNotifier_SendsPayload(t *testing.T) {
	var (
		gotKey  string
		gotType string
		gotMsg  brevoMessage
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotKey = r.Header.Get("api-key")
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotMsg)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	n := NewBrevoNotifier(srv.Client(), Options{
		APIKey: "k-1", Endpoint: srv.URL, SenderName: "Why? Community", SenderEmail: "no-reply@x.io",
		CodeTTL: 10 * time.Minute,
	})

	require.NoError(t, n.Notify(context.Background(), "a@x.io", "123456"))
	assert.Equal(t, "k-1", gotKey)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "Why? Community", gotMsg.Sender.Name)
	assert.Equal(t, "no-reply@x.io", gotMsg.Sender.Email)
	require.Len(t, gotMsg.To, 1)
	assert.Equal(t, "a@x.io", gotMsg.To[0].Email)
	assert.Equal(t, brevoSubject, gotMsg.Subject)
	assert.Contains(t, gotMsg.HTMLContent, "123456")
	assert.Contains(t, gotMsg.HTMLContent, "10 minutes")
}

func TestBrevoNotifier_Non2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"unauthorized"}`))
	}))
	defer srv.Close()

	n := NewBrevoNotifier(srv.Client(), Options{APIKey: "bad", Endpoint: srv.URL})
	err := n.Notify(context.Background(), "a@x.io", "123456")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestBrevoNotifier_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	n := NewBrevoNotifier(&http.Client{Timeout: time.Second}, Options{APIKey: "k", Endpoint: url})
	assert.Error(t, n.Notify(context.Background(), "a@x.io", "123456"))
}

func TestLogNotifier_WritesCode(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(testLogger(&buf))

	require.NoError(t, n.Notify(context.Background(), "a@x.io", "654321"))
	out := buf.String()
	assert.Contains(t, out, "code=654321")
	assert.Contains(t, out, "email=a@x.io")
	assert.Contains(t, out, "module=notifier")
}

func TestNew_Backends(t *testing.T) {
	var buf bytes.Buffer
	logger := testLogger(&buf)

	n, err := New(Options{Backend: BackendLog}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LogNotifier{}, n)

	n, err = New(Options{Backend: BackendBrevo, APIKey: "k"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &BrevoNotifier{}, n)

	_, err = New(Options{Backend: BackendBrevo}, logger)
	assert.Error(t, err)

	_, err = New(Options{Backend: "sms"}, logger)
	assert.Error(t, err)
}

func TestMessageBody(t *testing.T) {
	assert.NotContains(t, messageBody("1", 0), "valid for")
	assert.Contains(t, messageBody("1", 5*time.Minute), "valid for 5 minutes")
}
