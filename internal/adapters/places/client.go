// Package places implements ports.PlacesClient against Google Places API v1.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aptradar/aptradar/internal/core/domain"
	"github.com/aptradar/aptradar/internal/pkg/httpc"
	"github.com/aptradar/aptradar/internal/pkg/metrics"
)

const (
	defaultAPIRoot   = "https://places.googleapis.com/v1"
	defaultLegacyURL = "https://maps.googleapis.com/maps/api/place/photo"

	// fieldMask covers both list (places.*) and detail (top-level) shapes.
	fieldMask = "places.id,places.displayName,places.formattedAddress,places.location," +
		"places.googleMapsUri,places.websiteUri,places.primaryType,places.types," +
		"places.photos.name,places.rating,places.userRatingCount," +
		"id,displayName,formattedAddress,location,googleMapsUri,websiteUri," +
		"primaryType,types,photos.name,rating,userRatingCount"
)

// Client talks to the Places v1 REST API.
type Client struct {
	key       string
	hc        *httpc.Client
	apiRoot   string
	legacyURL string
}

// New creates a Places client. The API key may be empty; calls will then
// fail with an upstream error instead of panicking at startup.
func New(key string, hc *httpc.Client) *Client {
	return &Client{
		key:       key,
		hc:        hc,
		apiRoot:   defaultAPIRoot,
		legacyURL: defaultLegacyURL,
	}
}

// WithBaseURLs overrides the vendor endpoints, for tests.
func (c *Client) WithBaseURLs(apiRoot, legacyURL string) *Client {
	c.apiRoot = apiRoot
	c.legacyURL = legacyURL
	return c
}

func (c *Client) headers() (map[string]string, error) {
	if c.key == "" {
		return nil, &domain.UpstreamError{Op: "places", Msg: "missing Google Places API key"}
	}
	return map[string]string{
		"X-Goog-Api-Key":   c.key,
		"X-Goog-FieldMask": fieldMask,
		"Content-Type":     "application/json",
	}, nil
}

func clampPageSize(n, fallback int) int {
	if n <= 0 {
		n = fallback
	}
	if n < 1 {
		n = 1
	}
	if n > 20 {
		n = 20
	}
	return n
}

func (c *Client) postJSON(ctx context.Context, op, path string, body any) (*http.Response, error) {
	hdrs, err := c.headers()
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s body: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiRoot+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	for k, v := range hdrs {
		req.Header.Set(k, v)
	}
	metrics.UpstreamRequests.WithLabelValues("google_places", op).Inc()
	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("google_places", op).Inc()
		return nil, &domain.UpstreamError{Op: op, Msg: err.Error()}
	}
	return resp, nil
}

func upstreamErr(op string, resp *http.Response) error {
	metrics.UpstreamErrors.WithLabelValues("google_places", op).Inc()
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
	return &domain.UpstreamError{Op: op, Status: resp.StatusCode, Msg: string(snippet)}
}

// wireError mirrors the Places API error envelope.
type wireError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// TextSearch runs places:searchText filtered to apartment complexes.
// If the vendor rejects the type filter, it retries once without it.
func (c *Client) TextSearch(ctx context.Context, query string, pageSize int) ([]domain.Place, error) {
	body := map[string]any{
		"textQuery":    query,
		"pageSize":     clampPageSize(pageSize, 15),
		"includedType": "apartment_complex", // searchText takes the singular form
	}

	resp, err := c.postJSON(ctx, "searchText", "/places:searchText", body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		var we wireError
		msg := string(raw)
		if json.Unmarshal(raw, &we) == nil && we.Error.Message != "" {
			msg = we.Error.Message
		}
		if strings.Contains(msg, "Unknown name") || strings.Contains(msg, "Cannot find field") {
			delete(body, "includedType")
			resp, err = c.postJSON(ctx, "searchText", "/places:searchText", body)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, &domain.UpstreamError{Op: "searchText", Status: http.StatusBadRequest, Msg: msg}
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamErr("searchText", resp)
	}

	var out struct {
		Places []wirePlace `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &domain.UpstreamError{Op: "searchText", Msg: "decode response: " + err.Error()}
	}

	results := make([]domain.Place, 0, len(out.Places))
	for _, p := range out.Places {
		results = append(results, p.toPlace())
	}
	return results, nil
}

// NearbyApartments runs places:searchNearby restricted to apartment flavors.
func (c *Client) NearbyApartments(ctx context.Context, circle domain.Circle, pageSize int) ([]domain.Place, error) {
	body := map[string]any{
		"locationRestriction": locationRestriction(circle),
		"includedTypes":       domain.AllowedApartmentTypes,
		"pageSize":            clampPageSize(pageSize, 15),
	}

	resp, err := c.postJSON(ctx, "searchNearby", "/places:searchNearby", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamErr("searchNearby", resp)
	}

	var out struct {
		Places []wirePlace `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &domain.UpstreamError{Op: "searchNearby", Msg: "decode response: " + err.Error()}
	}

	results := make([]domain.Place, 0, len(out.Places))
	for _, p := range out.Places {
		results = append(results, p.toPlace())
	}
	return results, nil
}

// SearchNearby is the general POI nearby search used around a listing.
func (c *Client) SearchNearby(ctx context.Context, circle domain.Circle, includedTypes []string, maxResults int) ([]domain.NearbyPlace, error) {
	body := map[string]any{
		"locationRestriction": locationRestriction(circle),
		"pageSize":            clampPageSize(maxResults, 20),
	}
	if len(includedTypes) > 0 {
		body["includedTypes"] = includedTypes
	}

	resp, err := c.postJSON(ctx, "searchNearby", "/places:searchNearby", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamErr("searchNearby", resp)
	}

	var out struct {
		Places []wirePlace `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &domain.UpstreamError{Op: "searchNearby", Msg: "decode response: " + err.Error()}
	}

	results := make([]domain.NearbyPlace, 0, len(out.Places))
	for _, p := range out.Places {
		results = append(results, p.toNearby())
	}
	return results, nil
}

// Details fetches a single place by resource ID with a custom field mask.
func (c *Client) Details(ctx context.Context, placeID string, fields []string) (*domain.PlaceDetail, error) {
	hdrs, err := c.headers()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiRoot+"/places/"+url.PathEscape(placeID), nil)
	if err != nil {
		return nil, err
	}
	for k, v := range hdrs {
		req.Header.Set(k, v)
	}
	if len(fields) > 0 {
		req.Header.Set("X-Goog-FieldMask", strings.Join(fields, ","))
	}

	metrics.UpstreamRequests.WithLabelValues("google_places", "details").Inc()
	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("google_places", "details").Inc()
		return nil, &domain.UpstreamError{Op: "details", Msg: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamErr("details", resp)
	}

	var p wirePlace
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, &domain.UpstreamError{Op: "details", Msg: "decode response: " + err.Error()}
	}
	detail := p.toDetail()
	return &detail, nil
}

// PhotoByName streams a v1 photo resource without exposing the API key.
func (c *Client) PhotoByName(ctx context.Context, name string, maxWidth, maxHeight int) (*domain.Photo, error) {
	if c.key == "" {
		return nil, &domain.UpstreamError{Op: "photo", Msg: "missing Google Places API key"}
	}
	q := url.Values{}
	q.Set("maxWidthPx", strconv.Itoa(maxWidth))
	if maxHeight > 0 {
		q.Set("maxHeightPx", strconv.Itoa(maxHeight))
	}
	q.Set("key", c.key)
	return c.fetchPhoto(ctx, c.apiRoot+"/"+name+"/media?"+q.Encode())
}

// PhotoByRef streams a legacy (v0) photo_reference.
func (c *Client) PhotoByRef(ctx context.Context, ref string, maxWidth int) (*domain.Photo, error) {
	if c.key == "" {
		return nil, &domain.UpstreamError{Op: "photo", Msg: "missing Google Places API key"}
	}
	q := url.Values{}
	q.Set("photo_reference", ref)
	q.Set("maxwidth", strconv.Itoa(maxWidth))
	q.Set("key", c.key)
	return c.fetchPhoto(ctx, c.legacyURL+"?"+q.Encode())
}

func (c *Client) fetchPhoto(ctx context.Context, fullURL string) (*domain.Photo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues("google_places", "photo").Inc()
	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("google_places", "photo").Inc()
		return nil, &domain.UpstreamError{Op: "photo", Msg: err.Error()}
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode != http.StatusOK || !strings.Contains(contentType, "image") {
		metrics.UpstreamErrors.WithLabelValues("google_places", "photo").Inc()
		return nil, &domain.UpstreamError{Op: "photo", Status: resp.StatusCode, Msg: "upstream did not return an image"}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "photo", Msg: "read image: " + err.Error()}
	}
	return &domain.Photo{ContentType: contentType, Data: data}, nil
}

func locationRestriction(circle domain.Circle) map[string]any {
	return map[string]any{
		"circle": map[string]any{
			"center": map[string]any{
				"latitude":  circle.Center.Lat,
				"longitude": circle.Center.Lng,
			},
			"radius": circle.Radius,
		},
	}
}
