// Package notification delivers order emails off the request path: a bounded
// queue feeds a fixed set of workers, each send runs under its own timeout and
// is retried with backoff before being dead-lettered to the log.
package notification

import (
	"context"

	"agrolink/internal/domain"
)

// Message is a rendered notification ready for a Sender.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// Sender delivers one message and returns the provider's delivery id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type ContactRepository interface {
	FindByFarmerID(ctx context.Context, farmerID string) (*domain.FarmerContact, error)
}

type Kind string

const (
	KindOrderPlaced    Kind = "order_placed"
	KindOrderCancelled Kind = "order_cancelled"
)
