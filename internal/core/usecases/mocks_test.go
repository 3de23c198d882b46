package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/aptradar/aptradar/internal/core/domain"
)

// --- Mock PlacesClient ---

type mockPlacesClient struct {
	textSearchFn   func(ctx context.Context, query string, pageSize int) ([]domain.Place, error)
	nearbyAptsFn   func(ctx context.Context, circle domain.Circle, pageSize int) ([]domain.Place, error)
	searchNearbyFn func(ctx context.Context, circle domain.Circle, includedTypes []string, maxResults int) ([]domain.NearbyPlace, error)
	detailsFn      func(ctx context.Context, placeID string, fields []string) (*domain.PlaceDetail, error)
}

func (m *mockPlacesClient) TextSearch(ctx context.Context, query string, pageSize int) ([]domain.Place, error) {
	if m.textSearchFn != nil {
		return m.textSearchFn(ctx, query, pageSize)
	}
	return nil, nil
}

func (m *mockPlacesClient) NearbyApartments(ctx context.Context, circle domain.Circle, pageSize int) ([]domain.Place, error) {
	if m.nearbyAptsFn != nil {
		return m.nearbyAptsFn(ctx, circle, pageSize)
	}
	return nil, nil
}

func (m *mockPlacesClient) SearchNearby(ctx context.Context, circle domain.Circle, includedTypes []string, maxResults int) ([]domain.NearbyPlace, error) {
	if m.searchNearbyFn != nil {
		return m.searchNearbyFn(ctx, circle, includedTypes, maxResults)
	}
	return nil, nil
}

func (m *mockPlacesClient) Details(ctx context.Context, placeID string, fields []string) (*domain.PlaceDetail, error) {
	if m.detailsFn != nil {
		return m.detailsFn(ctx, placeID, fields)
	}
	return nil, nil
}

func (m *mockPlacesClient) PhotoByName(ctx context.Context, name string, maxWidth, maxHeight int) (*domain.Photo, error) {
	return nil, errors.New("not implemented")
}

func (m *mockPlacesClient) PhotoByRef(ctx context.Context, ref string, maxWidth int) (*domain.Photo, error) {
	return nil, errors.New("not implemented")
}

// --- Mock CacheService ---

type mockCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{store: map[string][]byte{}}
}

func (m *mockCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.store[key]; ok {
		return v, nil
	}
	return nil, errors.New("miss")
}

func (m *mockCache) Set(_ context.Context, key string, value []byte, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = value
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	events []*domain.UIEvent
	err    error
}

func (m *mockPublisher) PublishUIEvent(_ context.Context, event *domain.UIEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

// --- Mock SpeechClient ---

type mockSpeech struct {
	transcribeFn func(ctx context.Context, filename string, audio []byte) (string, error)
	synthesizeFn func(ctx context.Context, text string) ([]byte, error)
}

func (m *mockSpeech) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	if m.transcribeFn != nil {
		return m.transcribeFn(ctx, filename, audio)
	}
	return "", nil
}

func (m *mockSpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if m.synthesizeFn != nil {
		return m.synthesizeFn(ctx, text)
	}
	return []byte("mp3"), nil
}

// aptPlace builds a place that passes the apartment-type filter.
func aptPlace(id, name string) domain.Place {
	return domain.Place{ID: id, Name: name, PrimaryType: "apartment_complex", Types: []string{"apartment_complex"}}
}
