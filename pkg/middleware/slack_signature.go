package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"roomly/pkg/logger"
)

const (
	slackSignatureHeader = "X-Slack-Signature"
	slackTimestampHeader = "X-Slack-Request-Timestamp"

	// Requests older than this are treated as replays.
	slackTimestampTolerance = 5 * time.Minute
)

// SlackSignatureVerification validates the v0 HMAC scheme the Slack gateway
// signs forwarded payloads with: v0=hex(hmac_sha256(secret, "v0:ts:body")).
func SlackSignatureVerification(signingSecret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			signature := r.Header.Get(slackSignatureHeader)
			if signature == "" {
				logAndRejectSignature(w, log, r, "Missing "+slackSignatureHeader+" header")
				return
			}

			timestamp := r.Header.Get(slackTimestampHeader)
			if !timestampFresh(timestamp, time.Now()) {
				logAndRejectSignature(w, log, r, "Stale or missing request timestamp")
				return
			}

			body, err := readAndRestoreBody(r)
			if err != nil {
				logAndRejectSignature(w, log, r, "Failed to read request body")
				return
			}

			if !verifySlackSignature(body, timestamp, signature, signingSecret) {
				logAndRejectSignature(w, log, r, "Invalid request signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func timestampFresh(timestamp string, now time.Time) bool {
	if timestamp == "" {
		return false
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	age := now.Sub(time.Unix(ts, 0))
	if age < 0 {
		age = -age
	}
	return age <= slackTimestampTolerance
}

func readAndRestoreBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	return body, nil
}

func verifySlackSignature(body []byte, timestamp, receivedSignature, signingSecret string) bool {
	mac := hmac.New(sha256.New, []byte(signingSecret))
	fmt.Fprintf(mac, "v0:%s:", timestamp)
	mac.Write(body)
	expected := "v0=" + hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(receivedSignature))
}

func logAndRejectSignature(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Slack request verification failed",
		"request_id", requestIDFrom(r),
		"reason", reason,
		"path", r.URL.Path,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
