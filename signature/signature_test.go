package signature

import (
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "8f742231b10e8888abcd99yyyzzz85a5"

func fixedVerifier(t *testing.T, at time.Time) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret, 5*time.Minute)
	require.NoError(t, err)
	v.now = func() time.Time { return at }
	return v
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	v := fixedVerifier(t, now)

	body := []byte("token=xyz&command=%2Fdeploy&text=prod")
	ts := strconv.FormatInt(now.Unix(), 10)
	sig := v.Sign(ts, body)

	require.True(t, strings.HasPrefix(sig, "v0="))
	assert.NoError(t, v.Verify(sig, ts, body))
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	v := fixedVerifier(t, now)

	ts := strconv.FormatInt(now.Unix(), 10)
	sig := v.Sign(ts, []byte("original"))

	assert.ErrorIs(t, v.Verify(sig, ts, []byte("tampered")), ErrSignatureMismatch)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	v := fixedVerifier(t, now)

	other, err := NewVerifier("another-secret", 5*time.Minute)
	require.NoError(t, err)
	other.now = v.now

	body := []byte("payload")
	ts := strconv.FormatInt(now.Unix(), 10)
	sig := other.Sign(ts, body)

	assert.ErrorIs(t, v.Verify(sig, ts, body), ErrSignatureMismatch)
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	v := fixedVerifier(t, now)

	body := []byte("payload")
	old := strconv.FormatInt(now.Add(-6*time.Minute).Unix(), 10)
	sig := v.Sign(old, body)

	assert.ErrorIs(t, v.Verify(sig, old, body), ErrExpiredTimestamp)
}

func TestVerifyRejectsFutureTimestamp(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	v := fixedVerifier(t, now)

	body := []byte("payload")
	future := strconv.FormatInt(now.Add(6*time.Minute).Unix(), 10)
	sig := v.Sign(future, body)

	assert.ErrorIs(t, v.Verify(sig, future, body), ErrExpiredTimestamp)
}

func TestVerifyBoundaryWithinTolerance(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	v := fixedVerifier(t, now)

	body := []byte("payload")
	edge := strconv.FormatInt(now.Add(-5*time.Minute).Unix(), 10)
	sig := v.Sign(edge, body)

	assert.NoError(t, v.Verify(sig, edge, body))
}

func TestVerifyMissingHeaders(t *testing.T) {
	v := fixedVerifier(t, time.Now())
	assert.ErrorIs(t, v.Verify("", "123", []byte("x")), ErrMissingSignature)
	assert.ErrorIs(t, v.Verify("v0=abc", "", []byte("x")), ErrMissingSignature)
	assert.ErrorIs(t, v.Verify("v0=abc", "not-a-number", []byte("x")), ErrMissingSignature)
}

func TestVerifyRequestReadsHeaders(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	v := fixedVerifier(t, now)

	body := []byte(`{"type":"event_callback"}`)
	ts := strconv.FormatInt(now.Unix(), 10)

	req, err := http.NewRequest(http.MethodPost, "https://example.com/events", nil)
	require.NoError(t, err)
	req.Header.Set(HeaderTimestamp, ts)
	req.Header.Set(HeaderSignature, v.Sign(ts, body))

	assert.NoError(t, v.VerifyRequest(req, body))
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	_, err := NewVerifier("", 0)
	assert.Error(t, err)
}
