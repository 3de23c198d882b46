package places

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aptradar/aptradar/internal/core/domain"
	"github.com/aptradar/aptradar/internal/pkg/httpc"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New("test-key", httpc.New(5*time.Second, 0)).WithBaseURLs(srv.URL, srv.URL+"/legacy-photo")
	return c, srv
}

const samplePlace = `{
	"id": "ChIJabc123",
	"displayName": {"text": "Harbor View Apartments"},
	"formattedAddress": "100 Main St, Norfolk, VA",
	"location": {"latitude": 36.8508, "longitude": -76.2859},
	"googleMapsUri": "https://maps.google.com/?cid=1",
	"websiteUri": "https://harborview.example",
	"primaryType": "apartment_complex",
	"types": ["apartment_complex", "point_of_interest"],
	"photos": [{"name": "places/ChIJabc123/photos/p1"}, {"name": "places/ChIJabc123/photos/p2"}],
	"rating": 4.2,
	"userRatingCount": 87
}`

func TestTextSearch_Normalizes(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/places:searchText" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Goog-Api-Key") != "test-key" {
			t.Error("missing API key header")
		}
		if r.Header.Get("X-Goog-FieldMask") == "" {
			t.Error("missing field mask header")
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["includedType"] != "apartment_complex" {
			t.Errorf("expected singular includedType, got %v", body["includedType"])
		}
		_, _ = w.Write([]byte(`{"places": [` + samplePlace + `]}`))
	}))

	results, err := c.TextSearch(context.Background(), "apartments Norfolk", 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	p := results[0]
	if p.Name != "Harbor View Apartments" {
		t.Errorf("name not taken from displayName.text: %q", p.Name)
	}
	if p.Lat == nil || *p.Lat != 36.8508 {
		t.Errorf("lat not normalized: %v", p.Lat)
	}
	if p.PhotoName != "places/ChIJabc123/photos/p1" {
		t.Errorf("photoName should be first photo, got %q", p.PhotoName)
	}
	if p.Rating == nil || *p.Rating != 4.2 {
		t.Errorf("rating not normalized: %v", p.Rating)
	}
}

func TestTextSearch_RetriesWithoutTypeFilter(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if calls == 1 {
			if body["includedType"] == nil {
				t.Error("first attempt should carry the type filter")
			}
			w.WriteHeader(400)
			_, _ = w.Write([]byte(`{"error": {"message": "Unknown name \"includedType\""}}`))
			return
		}
		if body["includedType"] != nil {
			t.Error("retry must drop the type filter")
		}
		_, _ = w.Write([]byte(`{"places": [` + samplePlace + `]}`))
	}))

	results, err := c.TextSearch(context.Background(), "apartments", 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected fallback retry, got %d calls", calls)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestTextSearch_Upstream400(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(400)
		_, _ = w.Write([]byte(`{"error": {"message": "textQuery must not be empty"}}`))
	}))

	_, err := c.TextSearch(context.Background(), "", 15)
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.Status != 400 {
		t.Errorf("expected status 400, got %d", ue.Status)
	}
}

func TestNearbyApartments_SendsCircleAndTypes(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			LocationRestriction struct {
				Circle struct {
					Center struct {
						Latitude  float64 `json:"latitude"`
						Longitude float64 `json:"longitude"`
					} `json:"center"`
					Radius int `json:"radius"`
				} `json:"circle"`
			} `json:"locationRestriction"`
			IncludedTypes []string `json:"includedTypes"`
			PageSize      int      `json:"pageSize"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.LocationRestriction.Circle.Radius != 1200 {
			t.Errorf("radius: %d", body.LocationRestriction.Circle.Radius)
		}
		if len(body.IncludedTypes) != 3 {
			t.Errorf("includedTypes: %v", body.IncludedTypes)
		}
		if body.PageSize != 15 {
			t.Errorf("pageSize should default/clamp to 15, got %d", body.PageSize)
		}
		_, _ = w.Write([]byte(`{"places": []}`))
	}))

	circle := domain.Circle{Center: domain.GeoPoint{Lat: 36.85, Lng: -76.28}, Radius: 1200}
	if _, err := c.NearbyApartments(context.Background(), circle, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearchNearby_OmitsEmptyTypes(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["includedTypes"]; ok {
			t.Error("empty includedTypes must be omitted")
		}
		_, _ = w.Write([]byte(`{"places": [` + samplePlace + `]}`))
	}))

	circle := domain.Circle{Center: domain.GeoPoint{Lat: 36.85, Lng: -76.28}, Radius: 1500}
	results, err := c.SearchNearby(context.Background(), circle, nil, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].ID != "ChIJabc123" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestDetails_UsesCustomFieldMask(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/places/ChIJabc123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Goog-FieldMask"); got != "id,displayName,photos" {
			t.Errorf("field mask not overridden: %q", got)
		}
		_, _ = w.Write([]byte(samplePlace))
	}))

	detail, err := c.Details(context.Background(), "ChIJabc123", []string{"id", "displayName", "photos"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.Photos) != 2 {
		t.Errorf("expected full photo list, got %v", detail.Photos)
	}
}

func TestPhotoByName_RejectsNonImage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error": "nope"}`))
	}))

	_, err := c.PhotoByName(context.Background(), "places/x/photos/y", 600, 400)
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
}

func TestPhotoByRef_PassesReference(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("photo_reference") != "ref123" {
			t.Errorf("photo_reference missing: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	}))

	photo, err := c.PhotoByRef(context.Background(), "ref123", 600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if photo.ContentType != "image/jpeg" || len(photo.Data) != 3 {
		t.Errorf("unexpected photo: %+v", photo)
	}
}

func TestMissingKey(t *testing.T) {
	c := New("", httpc.New(time.Second, 0))
	if _, err := c.TextSearch(context.Background(), "apartments", 15); err == nil {
		t.Error("expected error without API key")
	}
}
