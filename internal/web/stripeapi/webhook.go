package stripeapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance is how far a webhook timestamp may drift before the
// signature is rejected.
const DefaultTolerance = 5 * time.Minute

var (
	ErrInvalidPayload   = errors.New("invalid webhook payload")
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrTimestampTooOld  = errors.New("webhook timestamp outside tolerance")
	ErrMissingSignature = errors.New("missing Stripe-Signature header")
)

// Event is a Stripe webhook event envelope.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// ConstructEvent verifies the Stripe-Signature header against the raw
// payload and parses the event. The scheme is HMAC-SHA256 over
// "<timestamp>.<payload>" with the webhook secret.
func ConstructEvent(payload []byte, sigHeader, secret string) (Event, error) {
	return constructEventAt(payload, sigHeader, secret, time.Now(), DefaultTolerance)
}

func constructEventAt(payload []byte, sigHeader, secret string, now time.Time, tolerance time.Duration) (Event, error) {
	var event Event
	if strings.TrimSpace(sigHeader) == "" {
		return event, ErrMissingSignature
	}

	ts, sigs, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return event, err
	}

	stamp := time.Unix(ts, 0)
	if now.Sub(stamp) > tolerance || stamp.Sub(now) > tolerance {
		return event, ErrTimestampTooOld
	}

	expected := computeSignature(payload, ts, secret)
	ok := false
	for _, sig := range sigs {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			ok = true
			break
		}
	}
	if !ok {
		return event, ErrInvalidSignature
	}

	if err := json.Unmarshal(payload, &event); err != nil {
		return event, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return event, nil
}

// SignPayload produces a valid Stripe-Signature header for a payload, used
// by tests and the simulation mode.
func SignPayload(payload []byte, ts int64, secret string) string {
	sig := computeSignature(payload, ts, secret)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(sig))
}

func computeSignature(payload []byte, ts int64, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

func parseSignatureHeader(header string) (int64, []string, error) {
	var (
		ts   int64
		tsOK bool
		sigs []string
	)
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			v, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
			}
			ts = v
			tsOK = true
		case "v1":
			sigs = append(sigs, kv[1])
		}
	}
	if !tsOK || len(sigs) == 0 {
		return 0, nil, ErrInvalidSignature
	}
	return ts, sigs, nil
}
