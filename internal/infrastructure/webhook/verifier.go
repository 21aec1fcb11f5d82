// Package webhook authenticates and decodes identity-provider notifications
// delivered with svix signatures.
package webhook

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	svix "github.com/svix/svix-webhooks/go"
)

const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"

	secretPrefix = "whsec_"
)

var (
	ErrMissingHeaders   = errors.New("missing webhook signature headers")
	ErrInvalidTimestamp = errors.New("webhook timestamp outside tolerance")
	ErrInvalidSignature = errors.New("webhook signature mismatch")
)

// Verifier checks svix signatures over "<id>.<timestamp>.<body>".
type Verifier struct {
	wh *svix.Webhook
}

// NewVerifier decodes secret, which is the base64 signing key optionally
// prefixed with "whsec_".
func NewVerifier(secret string) (*Verifier, error) {
	if strings.TrimPrefix(secret, secretPrefix) == "" {
		return nil, errors.New("webhook secret is empty")
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("decode webhook secret: %w", err)
	}
	return &Verifier{wh: wh}, nil
}

// Verify authenticates body against the signature headers and returns the
// delivery id.
func (v *Verifier) Verify(h http.Header, body []byte) (string, error) {
	id := h.Get(HeaderID)
	if id == "" || h.Get(HeaderTimestamp) == "" || h.Get(HeaderSignature) == "" {
		return "", ErrMissingHeaders
	}

	// A valid signature that fails the full check can only be a timestamp
	// outside the tolerance window.
	if err := v.wh.VerifyIgnoringTimestamp(body, h); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if err := v.wh.Verify(body, h); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}
	return id, nil
}

// Sign returns the headers a sender would attach for body.
func (v *Verifier) Sign(id string, at time.Time, body []byte) (http.Header, error) {
	sig, err := v.wh.Sign(id, at, body)
	if err != nil {
		return nil, fmt.Errorf("sign webhook: %w", err)
	}
	h := http.Header{}
	h.Set(HeaderID, id)
	h.Set(HeaderTimestamp, strconv.FormatInt(at.Unix(), 10))
	h.Set(HeaderSignature, sig)
	return h, nil
}
