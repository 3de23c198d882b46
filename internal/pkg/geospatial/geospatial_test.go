package geospatial

import (
	"math"
	"testing"
)

func TestParseLatLng(t *testing.T) {
	pt, err := ParseLatLng("36.85,-76.33")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.Lat != 36.85 || pt.Lng != -76.33 {
		t.Errorf("expected (36.85,-76.33), got (%v,%v)", pt.Lat, pt.Lng)
	}
}

func TestParseLatLng_WithSpaces(t *testing.T) {
	pt, err := ParseLatLng(" 43.263 , -2.935 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.Lat != 43.263 || pt.Lng != -2.935 {
		t.Errorf("got (%v,%v)", pt.Lat, pt.Lng)
	}
}

func TestParseLatLng_Invalid(t *testing.T) {
	for _, s := range []string{"", "36.85", "abc,def", "36.85;-76.33", ","} {
		if _, err := ParseLatLng(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestBoundsToCenterRadius_Midpoint(t *testing.T) {
	center, _, err := BoundsToCenterRadius("36.85,-76.33", "36.90,-76.20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(center.Lat-36.875) > 1e-9 {
		t.Errorf("expected center lat 36.875, got %v", center.Lat)
	}
	if math.Abs(center.Lng-(-76.265)) > 1e-9 {
		t.Errorf("expected center lng -76.265, got %v", center.Lng)
	}
}

func TestBoundsToCenterRadius_RadiusWithinClamp(t *testing.T) {
	cases := []struct{ sw, ne string }{
		{"36.85,-76.33", "36.90,-76.20"}, // typical city viewport
		{"36.85,-76.33", "36.8501,-76.3299"}, // tiny viewport → min clamp
		{"30.0,-80.0", "40.0,-70.0"},     // huge viewport → max clamp
		{"36.90,-76.20", "36.85,-76.33"}, // inverted corners
	}
	for _, tc := range cases {
		_, radius, err := BoundsToCenterRadius(tc.sw, tc.ne)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", tc, err)
		}
		if radius < MinRadiusMeters || radius > MaxRadiusMeters {
			t.Errorf("radius %d out of [%d,%d] for %v", radius, MinRadiusMeters, MaxRadiusMeters, tc)
		}
	}
}

func TestBoundsToCenterRadius_TinyViewportClampsToMin(t *testing.T) {
	_, radius, err := BoundsToCenterRadius("36.85,-76.33", "36.8501,-76.3299")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if radius != MinRadiusMeters {
		t.Errorf("expected %d, got %d", MinRadiusMeters, radius)
	}
}

func TestBoundsToCenterRadius_HugeViewportClampsToMax(t *testing.T) {
	_, radius, err := BoundsToCenterRadius("30.0,-80.0", "40.0,-70.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if radius != MaxRadiusMeters {
		t.Errorf("expected %d, got %d", MaxRadiusMeters, radius)
	}
}

func TestBoundsToCenterRadius_Malformed(t *testing.T) {
	for _, tc := range [][2]string{
		{"", "36.90,-76.20"},
		{"36.85,-76.33", ""},
		{"not,numbers", "36.90,-76.20"},
		{"36.85", "36.90,-76.20"},
	} {
		if _, _, err := BoundsToCenterRadius(tc[0], tc[1]); err == nil {
			t.Errorf("expected error for %v", tc)
		}
	}
}

func TestHaversine(t *testing.T) {
	// Norfolk, VA to Virginia Beach, VA is roughly 27 km.
	d := Haversine(36.8508, -76.2859, 36.8529, -75.9780)
	if d < 25_000 || d > 30_000 {
		t.Errorf("expected ~27km, got %v m", d)
	}
}

func TestHaversine_SamePoint(t *testing.T) {
	if d := Haversine(43.263, -2.935, 43.263, -2.935); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}
