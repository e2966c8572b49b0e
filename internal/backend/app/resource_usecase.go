package app

import (
	"context"
	"time"

	"messenger_service/internal/backend/domain"
	"messenger_service/internal/backend/repository"
	"messenger_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResourceUseCase json-server style CRUD over a store, writes go to the change feed
type ResourceUseCase struct {
	store     repository.Store
	publisher repository.ChangePublisher
	now       func() time.Time
	newID     func() string
}

// NewResourceUseCase publisher may be nil
func NewResourceUseCase(store repository.Store, publisher repository.ChangePublisher) *ResourceUseCase {
	if publisher == nil {
		publisher = repository.NewNopPublisher()
	}
	return &ResourceUseCase{
		store:     store,
		publisher: publisher,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// List records of collection matching every filter field
func (uc *ResourceUseCase) List(ctx context.Context, collection string, filter map[string]string) ([]domain.Record, error) {
	return uc.store.List(ctx, collection, filter)
}

// Get record by id
func (uc *ResourceUseCase) Get(ctx context.Context, collection, id string) (domain.Record, error) {
	return uc.store.Get(ctx, collection, id)
}

// Create store record, assigning a uuid when it has no id
func (uc *ResourceUseCase) Create(ctx context.Context, collection string, record domain.Record) (domain.Record, error) {
	record = record.Clone()
	if record.ID() == "" {
		record[domain.IDField] = uc.newID()
	}
	created, err := uc.store.Create(ctx, collection, record)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, domain.OpCreate, collection, created.ID(), created)
	return created, nil
}

// Patch merge fields into the record
func (uc *ResourceUseCase) Patch(ctx context.Context, collection, id string, fields domain.Record) (domain.Record, error) {
	updated, err := uc.store.Patch(ctx, collection, id, fields)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, domain.OpPatch, collection, id, updated)
	return updated, nil
}

// Delete remove the record
func (uc *ResourceUseCase) Delete(ctx context.Context, collection, id string) error {
	if err := uc.store.Delete(ctx, collection, id); err != nil {
		return err
	}
	uc.publish(ctx, domain.OpDelete, collection, id, nil)
	return nil
}

// publish failures are logged, the write already happened
func (uc *ResourceUseCase) publish(ctx context.Context, op, collection, id string, record domain.Record) {
	event := domain.ChangeEvent{Op: op, Collection: collection, ID: id, Record: record, At: uc.now().UTC()}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		logger.Log.Warn("publish change failed",
			zap.String("op", op), zap.String("collection", collection), zap.String("id", id), zap.Error(err))
	}
}
