package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aptradar/aptradar/internal/core/domain"
	"github.com/aptradar/aptradar/internal/core/usecases"
)

func TestSearch_TextMode(t *testing.T) {
	var gotQuery string
	client := &mockPlacesClient{
		textSearchFn: func(ctx context.Context, query string, pageSize int) ([]domain.Place, error) {
			gotQuery = query
			return []domain.Place{aptPlace("p1", "The Lofts")}, nil
		},
	}

	svc := usecases.NewSearchService(client, nil)

	results, err := svc.Search(context.Background(), "text", "Norfolk", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if gotQuery != "Norfolk" {
		t.Errorf("expected query Norfolk, got %q", gotQuery)
	}
}

func TestSearch_TextModeRequiresQuery(t *testing.T) {
	svc := usecases.NewSearchService(&mockPlacesClient{}, nil)

	_, err := svc.Search(context.Background(), "text", "", "", "")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSearch_NearbyModeRequiresBounds(t *testing.T) {
	svc := usecases.NewSearchService(&mockPlacesClient{}, nil)

	_, err := svc.Search(context.Background(), "nearby", "", "36.8,-76.3", "")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSearch_UnknownModeRejected(t *testing.T) {
	svc := usecases.NewSearchService(&mockPlacesClient{}, nil)

	_, err := svc.Search(context.Background(), "fuzzy", "q", "", "")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSearch_NearbyModeBadBounds(t *testing.T) {
	svc := usecases.NewSearchService(&mockPlacesClient{}, nil)

	_, err := svc.Search(context.Background(), "nearby", "", "garbage", "also-garbage")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Msg != "Invalid bounds." {
		t.Errorf("expected Invalid bounds. message, got %q", ve.Msg)
	}
}

func TestSearch_LegacyBoundsOnlyGoesNearby(t *testing.T) {
	nearbyCalled := false
	client := &mockPlacesClient{
		nearbyAptsFn: func(ctx context.Context, circle domain.Circle, pageSize int) ([]domain.Place, error) {
			nearbyCalled = true
			return []domain.Place{aptPlace("p1", "Bay View")}, nil
		},
	}

	svc := usecases.NewSearchService(client, nil)

	results, err := svc.Search(context.Background(), "", "", "36.80,-76.40", "36.95,-76.20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !nearbyCalled {
		t.Fatal("expected nearby search for bounds-only legacy request")
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestSearch_LegacyQueryGoesText(t *testing.T) {
	textCalled := false
	client := &mockPlacesClient{
		textSearchFn: func(ctx context.Context, query string, pageSize int) ([]domain.Place, error) {
			textCalled = true
			return []domain.Place{aptPlace("p1", "The Lofts")}, nil
		},
	}

	svc := usecases.NewSearchService(client, nil)

	if _, err := svc.Search(context.Background(), "", "23508", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !textCalled {
		t.Fatal("expected text search for legacy query request")
	}
}

func TestSearch_FiltersNonApartments(t *testing.T) {
	client := &mockPlacesClient{
		textSearchFn: func(ctx context.Context, query string, pageSize int) ([]domain.Place, error) {
			return []domain.Place{
				aptPlace("p1", "The Lofts"),
				{ID: "p2", Name: "Joe's Pizza", PrimaryType: "restaurant", Types: []string{"restaurant"}},
				{ID: "p3", Name: "Harbor Realty", PrimaryType: "real_estate_agency", Types: []string{"real_estate_agency"}},
			}, nil
		},
	}

	svc := usecases.NewSearchService(client, nil)

	results, err := svc.Search(context.Background(), "text", "Norfolk", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 apartment results, got %d", len(results))
	}
	for _, r := range results {
		if r.ID == "p2" {
			t.Error("restaurant leaked through the apartment filter")
		}
	}
}

func TestSearch_RetriesWithIntentPhrase(t *testing.T) {
	var queries []string
	client := &mockPlacesClient{
		textSearchFn: func(ctx context.Context, query string, pageSize int) ([]domain.Place, error) {
			queries = append(queries, query)
			if len(queries) == 1 {
				return nil, nil
			}
			return []domain.Place{aptPlace("p1", "The Lofts")}, nil
		},
	}

	svc := usecases.NewSearchService(client, nil)

	results, err := svc.Search(context.Background(), "text", "24060", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queries) != 2 {
		t.Fatalf("expected 2 vendor calls, got %d", len(queries))
	}
	if queries[1] != "apartments near 24060" {
		t.Errorf("expected intent-phrased retry, got %q", queries[1])
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result after retry, got %d", len(results))
	}
}

func TestSearch_CachesResults(t *testing.T) {
	calls := 0
	client := &mockPlacesClient{
		textSearchFn: func(ctx context.Context, query string, pageSize int) ([]domain.Place, error) {
			calls++
			return []domain.Place{aptPlace("p1", "The Lofts")}, nil
		},
	}
	cache := newMockCache()

	svc := usecases.NewSearchService(client, cache)

	for i := 0; i < 3; i++ {
		if _, err := svc.Search(context.Background(), "text", "Norfolk", "", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 vendor call with warm cache, got %d", calls)
	}
}

func TestSearch_UpstreamErrorPropagates(t *testing.T) {
	client := &mockPlacesClient{
		textSearchFn: func(ctx context.Context, query string, pageSize int) ([]domain.Place, error) {
			return nil, &domain.UpstreamError{Op: "searchText", Status: 500, Msg: "boom"}
		},
	}

	svc := usecases.NewSearchService(client, nil)

	_, err := svc.Search(context.Background(), "text", "Norfolk", "", "")
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
}
