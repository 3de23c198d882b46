package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aptradar/aptradar/internal/core/domain"
	"github.com/aptradar/aptradar/internal/core/ports"
	"github.com/aptradar/aptradar/internal/pkg/geospatial"
	"github.com/aptradar/aptradar/internal/pkg/metrics"
)

// detailFields is the base field set for the detail view.
var detailFields = []string{
	"id", "displayName", "formattedAddress", "location",
	"googleMapsUri", "websiteUri", "rating", "userRatingCount",
	"photos",
}

// nearbyTypeMap translates the front end's friendly category keys into
// Places types.
var nearbyTypeMap = map[string][]string{
	"restaurants": {"restaurant", "cafe"},
	"bars":        {"bar"},
	"coffee":      {"cafe"},
	"activities":  {"park", "movie_theater", "museum", "tourist_attraction"},
	"shopping":    {"shopping_mall"},
	"gyms":        {"gym"},
}

const (
	nearbyDefaultRadius = 1500
	nearbyMinRadius     = 200
	nearbyMaxRadius     = 5000
)

// PlaceService serves single-listing details and POIs around a point.
type PlaceService struct {
	places ports.PlacesClient
	cache  ports.CacheService
}

// NewPlaceService creates a new PlaceService. cache may be nil.
func NewPlaceService(places ports.PlacesClient, cache ports.CacheService) *PlaceService {
	return &PlaceService{places: places, cache: cache}
}

// Detail returns the normalized detail view for one place.
func (s *PlaceService) Detail(ctx context.Context, placeID string) (*domain.PlaceDetail, error) {
	if placeID == "" {
		return nil, domain.Invalid("place id is required")
	}

	cacheKey := "place:detail:" + placeID
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var detail domain.PlaceDetail
			if err := json.Unmarshal(data, &detail); err == nil {
				metrics.CacheHits.WithLabelValues("detail").Inc()
				return &detail, nil
			}
		} else {
			metrics.CacheMisses.WithLabelValues("detail").Inc()
		}
	}

	detail, err := s.places.Details(ctx, placeID, detailFields)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(detail); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return detail, nil
}

// NearbyAround returns POIs around a point, annotated with the
// great-circle distance from it. typesCSV carries friendly keys
// ("restaurants,bars"); unknown keys pass through as raw Places types.
func (s *PlaceService) NearbyAround(ctx context.Context, lat, lng float64, typesCSV string, radius int) ([]domain.NearbyPlace, error) {
	if radius <= 0 {
		radius = nearbyDefaultRadius
	}
	if radius < nearbyMinRadius {
		radius = nearbyMinRadius
	}
	if radius > nearbyMaxRadius {
		radius = nearbyMaxRadius
	}

	included := expandNearbyTypes(typesCSV)

	cacheKey := fmt.Sprintf("place:nearby:%.4f:%.4f:%s:%d", lat, lng, strings.Join(included, "+"), radius)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached []domain.NearbyPlace
			if err := json.Unmarshal(data, &cached); err == nil {
				metrics.CacheHits.WithLabelValues("nearby").Inc()
				return cached, nil
			}
		} else {
			metrics.CacheMisses.WithLabelValues("nearby").Inc()
		}
	}

	circle := domain.Circle{Center: domain.GeoPoint{Lat: lat, Lng: lng}, Radius: radius}
	results, err := s.places.SearchNearby(ctx, circle, included, 20)
	if err != nil {
		return nil, err
	}

	for i := range results {
		if results[i].Lat == nil || results[i].Lng == nil {
			continue
		}
		d := geospatial.Haversine(lat, lng, *results[i].Lat, *results[i].Lng)
		results[i].Distance = &d
	}

	if s.cache != nil {
		if data, err := json.Marshal(results); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return results, nil
}

func expandNearbyTypes(typesCSV string) []string {
	parts := strings.Split(strings.ToLower(typesCSV), ",")
	var keys []string
	for _, t := range parts {
		if t = strings.TrimSpace(t); t != "" {
			keys = append(keys, t)
		}
	}

	var included []string
	for _, key := range keys {
		included = append(included, nearbyTypeMap[key]...)
	}
	// A caller passing real Places types directly keeps them.
	if len(included) == 0 && len(keys) > 0 {
		included = keys
	}
	return included
}
