package session

import (
	"context"
	"errors"
	"time"

	"haram/services/reservation"
)

var ErrSessionNotFound = errors.New("reservation session not found or expired")

// Store parks reservation state between requests. Save refreshes the TTL.
type Store interface {
	Save(ctx context.Context, id string, st reservation.State, ttl time.Duration) error
	Load(ctx context.Context, id string) (reservation.State, error)
	Delete(ctx context.Context, id string) error
}
