// Package paystore records which checkout sessions have settled. The game
// itself is never gated on payment; the store exists so the settings page
// and logs can acknowledge supporters.
package paystore

import (
	"context"
	"time"
)

// Payment is one recorded checkout session.
type Payment struct {
	SessionID   string    `json:"session_id"`
	AmountCents int       `json:"amount_cents"`
	Currency    string    `json:"currency"`
	PaidAt      time.Time `json:"paid_at"`
}

// Store persists settled payments.
type Store interface {
	MarkPaid(ctx context.Context, p Payment) error
	Get(ctx context.Context, sessionID string) (*Payment, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}
