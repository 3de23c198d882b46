package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aptradar/aptradar/internal/core/domain"
	"github.com/aptradar/aptradar/internal/core/ports"
	"github.com/aptradar/aptradar/internal/pkg/geospatial"
	"github.com/aptradar/aptradar/internal/pkg/metrics"
)

const searchPageSize = 15

// SearchService runs apartment-listing searches against the places vendor.
type SearchService struct {
	places ports.PlacesClient
	cache  ports.CacheService
}

// NewSearchService creates a new SearchService. cache may be nil.
func NewSearchService(places ports.PlacesClient, cache ports.CacheService) *SearchService {
	return &SearchService{places: places, cache: cache}
}

// Search dispatches on mode:
//
//	"text"   — free-text search, q required
//	"nearby" — viewport search, sw/ne required as "lat,lng"
//	""       — legacy fallback: bounds-only requests go nearby, else text
//
// Results are normalized and filtered to apartment-flavored types.
func (s *SearchService) Search(ctx context.Context, mode, q, sw, ne string) ([]domain.Place, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	q = strings.TrimSpace(q)

	switch mode {
	case "text":
		if q == "" {
			return nil, domain.Invalid("q is required when mode=text")
		}
	case "nearby":
		if sw == "" || ne == "" {
			return nil, domain.Invalid("sw and ne are required when mode=nearby")
		}
	case "":
		// legacy path, allow q-only or bounds-only
	default:
		return nil, domain.Invalid("mode must be text or nearby")
	}

	cacheKey := fmt.Sprintf("search:%s:%s:%s:%s", mode, q, sw, ne)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached []domain.Place
			if err := json.Unmarshal(data, &cached); err == nil {
				metrics.CacheHits.WithLabelValues("search").Inc()
				return cached, nil
			}
		} else {
			metrics.CacheMisses.WithLabelValues("search").Inc()
		}
	}

	var (
		raw []domain.Place
		err error
	)
	if mode == "nearby" || (mode == "" && sw != "" && ne != "" && q == "") {
		raw, err = s.searchNearby(ctx, sw, ne)
	} else {
		raw, err = s.searchText(ctx, q)
	}
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.Place, 0, len(raw))
	for _, p := range raw {
		if p.IsApartment() {
			filtered = append(filtered, p)
		}
	}

	if s.cache != nil {
		if data, err := json.Marshal(filtered); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return filtered, nil
}

func (s *SearchService) searchText(ctx context.Context, q string) ([]domain.Place, error) {
	query := q
	if query == "" {
		query = "apartments"
	}
	slog.Info("search mode=text", "q", query)

	raw, err := s.places.TextSearch(ctx, query, searchPageSize)
	if err != nil {
		return nil, err
	}
	// A bare city or ZIP often matches nothing; retry phrased as intent.
	if len(raw) == 0 && q != "" {
		raw, err = s.places.TextSearch(ctx, "apartments near "+q, searchPageSize)
		if err != nil {
			return nil, err
		}
	}
	return raw, nil
}

func (s *SearchService) searchNearby(ctx context.Context, sw, ne string) ([]domain.Place, error) {
	center, radius, err := geospatial.BoundsToCenterRadius(sw, ne)
	if err != nil {
		return nil, domain.Invalid("Invalid bounds.")
	}
	slog.Info("search mode=nearby",
		"lat", fmt.Sprintf("%.5f", center.Lat),
		"lng", fmt.Sprintf("%.5f", center.Lng),
		"radius_m", radius)

	return s.places.NearbyApartments(ctx, domain.Circle{Center: center, Radius: radius}, searchPageSize)
}
