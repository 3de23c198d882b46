package domain

import (
	"time"
)

// Place is a normalized listing card produced from a Google Places v1 result.
type Place struct {
	ID              string   `json:"id"`
	Name            string   `json:"name,omitempty"`
	Address         string   `json:"address,omitempty"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
	GoogleMapsURI   string   `json:"googleMapsUri,omitempty"`
	WebsiteURI      string   `json:"websiteUri,omitempty"`
	PrimaryType     string   `json:"primaryType,omitempty"`
	Types           []string `json:"types"`
	PhotoName       string   `json:"photoName,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	UserRatingCount *int     `json:"userRatingCount,omitempty"`
}

// NearbyPlace is the smaller card used for POIs around a listing.
type NearbyPlace struct {
	ID            string   `json:"id"`
	Name          string   `json:"name,omitempty"`
	Address       string   `json:"address,omitempty"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	GoogleMapsURI string   `json:"googleMapsUri,omitempty"`
	PrimaryType   string   `json:"primaryType,omitempty"`
	Types         []string `json:"types"`
	PhotoName     string   `json:"photoName,omitempty"`
	Distance      *float64 `json:"distance,omitempty"` // meters from the query point
}

// PlaceDetail is the detail-view payload for a single listing.
type PlaceDetail struct {
	ID              string   `json:"id"`
	Name            string   `json:"name,omitempty"`
	Address         string   `json:"address,omitempty"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
	GoogleMapsURI   string   `json:"googleMapsUri,omitempty"`
	WebsiteURI      string   `json:"websiteUri,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	UserRatingCount *int     `json:"userRatingCount,omitempty"`
	PhotoName       string   `json:"photoName,omitempty"`
	Photos          []string `json:"photos"`
	Types           []string `json:"types"`
	PrimaryType     string   `json:"primaryType,omitempty"`
}

// Photo is raw image bytes proxied from the Places media endpoint.
type Photo struct {
	ContentType string
	Data        []byte
}

// RoutedResult is the ephemeral outcome of routing one utterance.
// Count is only set when the handler actually ran a search.
type RoutedResult struct {
	Summary string `json:"summary"`
	Count   *int   `json:"count,omitempty"`
}

// UICommand is a transient agent→UI message held in the single-slot mailbox.
// Type is required; Action and Payload depend on the command.
type UICommand struct {
	ID      string         `json:"id,omitempty"`
	Type    string         `json:"type"`
	Action  string         `json:"action,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// UIEvent is broadcast to connected listeners when an agent wants the
// front end to do something (navigate, show results, ...).
type UIEvent struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	URL       string         `json:"url,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// VoiceTurn is one full voice-agent exchange: transcript in, speech out.
type VoiceTurn struct {
	Query         string  `json:"query"`
	Results       []Place `json:"results"`
	ResponseText  string  `json:"response_text"`
	ResponseAudio []byte  `json:"-"` // MP3, base64-encoded at the HTTP edge
	TTSErr        error   `json:"-"` // set when synthesis failed but the turn succeeded
}

// AllowedApartmentTypes are the Places types treated as apartment listings.
var AllowedApartmentTypes = []string{
	"apartment_complex",
	"property_management_company",
	"real_estate_agency",
}

// IsApartment reports whether a place looks like an apartment listing
// based on its primary type or type list.
func (p Place) IsApartment() bool {
	for _, allowed := range AllowedApartmentTypes {
		if p.PrimaryType == allowed {
			return true
		}
		for _, t := range p.Types {
			if t == allowed {
				return true
			}
		}
	}
	return false
}
