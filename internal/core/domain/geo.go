package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds represents a map viewport as its southwest/northeast corners.
type Bounds struct {
	SW GeoPoint `json:"sw"`
	NE GeoPoint `json:"ne"`
}

// Circle is a center point plus a radius in meters, the shape the
// Places nearby-search API takes.
type Circle struct {
	Center GeoPoint `json:"center"`
	Radius int      `json:"radius"`
}
