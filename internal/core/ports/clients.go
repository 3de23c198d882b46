package ports

import (
	"context"

	"github.com/aptradar/aptradar/internal/core/domain"
)

// PlacesClient talks to the upstream place-search vendor (Google Places v1).
type PlacesClient interface {
	// TextSearch runs a free-text apartment search. pageSize is clamped
	// by the adapter to what the vendor accepts.
	TextSearch(ctx context.Context, query string, pageSize int) ([]domain.Place, error)

	// NearbyApartments searches for apartment-type places inside a circle.
	NearbyApartments(ctx context.Context, circle domain.Circle, pageSize int) ([]domain.Place, error)

	// SearchNearby is the general POI nearby search. includedTypes may be
	// empty, in which case the vendor ranks every type.
	SearchNearby(ctx context.Context, circle domain.Circle, includedTypes []string, maxResults int) ([]domain.NearbyPlace, error)

	// Details fetches one place with the given field mask.
	Details(ctx context.Context, placeID string, fields []string) (*domain.PlaceDetail, error)

	// PhotoByName proxies a v1 photo resource (places/X/photos/Y).
	PhotoByName(ctx context.Context, name string, maxWidth, maxHeight int) (*domain.Photo, error)

	// PhotoByRef proxies a legacy (v0) photo_reference.
	PhotoByRef(ctx context.Context, ref string, maxWidth int) (*domain.Photo, error)
}

// SpeechClient converts between audio and text (ElevenLabs STT/TTS).
type SpeechClient interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
