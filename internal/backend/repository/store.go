package repository

import (
	"context"
	"errors"

	"messenger_service/internal/backend/domain"
)

// ErrUnknownCollection collection not served
var ErrUnknownCollection = errors.New("unknown collection")

// Store collections of JSON records
type Store interface {
	// List records matching filter, in insertion order
	List(ctx context.Context, collection string, filter map[string]string) ([]domain.Record, error)
	Get(ctx context.Context, collection, id string) (domain.Record, error)
	// Create record must already carry its id
	Create(ctx context.Context, collection string, record domain.Record) (domain.Record, error)
	// Patch merge fields into the record; the id never changes
	Patch(ctx context.Context, collection, id string, fields domain.Record) (domain.Record, error)
	Delete(ctx context.Context, collection, id string) error
}
