package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/pulsespace/backend/internal/domain/notification/event"
)

// MockNotificationBus records every emitted event in order.
type MockNotificationBus struct {
	mutex  sync.Mutex
	events []*event.EventRequest
}

func NewMockNotificationBus() *MockNotificationBus {
	return &MockNotificationBus{}
}

func (b *MockNotificationBus) Emit(ctx context.Context, ev *event.EventRequest) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.events = append(b.events, ev)
	return nil
}

func (b *MockNotificationBus) Events() []*event.EventRequest {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return append([]*event.EventRequest{}, b.events...)
}

// MockPresenceRepository keeps online markers in memory, ignoring the TTL.
type MockPresenceRepository struct {
	mutex  sync.Mutex
	online map[string]bool
}

func NewMockPresenceRepository() *MockPresenceRepository {
	return &MockPresenceRepository{online: make(map[string]bool)}
}

func (r *MockPresenceRepository) SetOnline(ctx context.Context, userID string, ttl time.Duration) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.online[userID] = true
	return nil
}

func (r *MockPresenceRepository) SetOffline(ctx context.Context, userID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.online, userID)
	return nil
}

func (r *MockPresenceRepository) GetOnline(
	ctx context.Context, userIDs []string,
) (map[string]bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	result := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		result[id] = r.online[id]
	}

	return result, nil
}
