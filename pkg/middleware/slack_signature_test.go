package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"roomly/pkg/logger"
)

const testSigningSecret = "8f742231b10e8888abcd99yyyzzz85a5"

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func signBody(secret, timestamp, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func signedRequest(body, timestamp, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", signature)
	return req
}

func TestSlackSignatureVerification_Valid(t *testing.T) {
	body := `{"title":"Weekly Sync"}`
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	var gotBody string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	})

	handler := SlackSignatureVerification(testSigningSecret, testLogger())(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(body, timestamp, signBody(testSigningSecret, timestamp, body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotBody != body {
		t.Errorf("expected body to be restored for the handler, got %q", gotBody)
	}
}

func TestSlackSignatureVerification_InvalidSignature(t *testing.T) {
	body := `{"title":"Weekly Sync"}`
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	handler := SlackSignatureVerification(testSigningSecret, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("handler must not run on a bad signature")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(body, timestamp, signBody("wrong-secret", timestamp, body)))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestSlackSignatureVerification_TamperedBody(t *testing.T) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature := signBody(testSigningSecret, timestamp, `{"title":"Weekly Sync"}`)

	handler := SlackSignatureVerification(testSigningSecret, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("handler must not run on a tampered body")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(`{"title":"Hijacked"}`, timestamp, signature))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestSlackSignatureVerification_StaleTimestamp(t *testing.T) {
	body := `{"title":"Weekly Sync"}`
	timestamp := strconv.FormatInt(time.Now().Add(-10*time.Minute).Unix(), 10)

	handler := SlackSignatureVerification(testSigningSecret, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("handler must not run on a stale timestamp")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(body, timestamp, signBody(testSigningSecret, timestamp, body)))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestSlackSignatureVerification_MissingHeaders(t *testing.T) {
	handler := SlackSignatureVerification(testSigningSecret, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("handler must not run without signature headers")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader("{}"))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestTimestampFresh(t *testing.T) {
	now := time.Unix(1_757_000_000, 0)

	cases := []struct {
		name      string
		timestamp string
		want      bool
	}{
		{"current", strconv.FormatInt(now.Unix(), 10), true},
		{"four minutes old", strconv.FormatInt(now.Add(-4*time.Minute).Unix(), 10), true},
		{"six minutes old", strconv.FormatInt(now.Add(-6*time.Minute).Unix(), 10), false},
		{"future skew within tolerance", strconv.FormatInt(now.Add(2*time.Minute).Unix(), 10), true},
		{"empty", "", false},
		{"not a number", "yesterday", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := timestampFresh(tc.timestamp, now); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
