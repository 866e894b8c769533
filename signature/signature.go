// Package signature verifies request signatures on inbound HTTP callbacks
// (events, interactivity, slash commands). The platform signs each request
// with HMAC-SHA256 over "v0:{timestamp}:{body}" using the app's signing
// secret.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Request headers carrying the signature material.
const (
	HeaderSignature = "X-Slack-Signature"
	HeaderTimestamp = "X-Slack-Request-Timestamp"
)

// DefaultTolerance bounds how old (or future-dated) a signed request may be.
// Stale timestamps are rejected to blunt replay of captured requests.
const DefaultTolerance = 5 * time.Minute

const versionPrefix = "v0"

// Verification errors.
var (
	// ErrMissingSignature means the signature or timestamp header is absent.
	ErrMissingSignature = errors.New("signature: missing signature headers")
	// ErrExpiredTimestamp means the request timestamp is outside the
	// tolerance window.
	ErrExpiredTimestamp = errors.New("signature: timestamp outside tolerance")
	// ErrSignatureMismatch means the computed signature does not match.
	ErrSignatureMismatch = errors.New("signature: mismatch")
)

// Verifier checks request signatures for one signing secret.
type Verifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewVerifier creates a verifier for the app's signing secret. A
// non-positive tolerance uses DefaultTolerance.
func NewVerifier(signingSecret string, tolerance time.Duration) (*Verifier, error) {
	if signingSecret == "" {
		return nil, errors.New("signature: signing secret is required")
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Verifier{
		secret:    []byte(signingSecret),
		tolerance: tolerance,
		now:       time.Now,
	}, nil
}

// Verify checks a signature against the raw request body and the timestamp
// header value (unix seconds).
func (v *Verifier) Verify(givenSignature, timestamp string, body []byte) error {
	if givenSignature == "" || timestamp == "" {
		return ErrMissingSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp %q", ErrMissingSignature, timestamp)
	}
	age := v.now().Sub(time.Unix(ts, 0))
	if age > v.tolerance || age < -v.tolerance {
		return ErrExpiredTimestamp
	}

	expected := v.sign(timestamp, body)
	if !hmac.Equal([]byte(expected), []byte(givenSignature)) {
		return ErrSignatureMismatch
	}
	return nil
}

// VerifyRequest checks the signature headers of req against the raw body.
// The caller reads the body itself (the request's body stream is not
// touched here) and passes it in.
func (v *Verifier) VerifyRequest(req *http.Request, body []byte) error {
	return v.Verify(req.Header.Get(HeaderSignature), req.Header.Get(HeaderTimestamp), body)
}

// Sign produces the signature header value for a timestamp and body. Test
// servers use it to forge valid requests.
func (v *Verifier) Sign(timestamp string, body []byte) string {
	return v.sign(timestamp, body)
}

func (v *Verifier) sign(timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(versionPrefix + ":" + timestamp + ":"))
	mac.Write(body)
	return versionPrefix + "=" + hex.EncodeToString(mac.Sum(nil))
}
