package places

import "github.com/aptradar/aptradar/internal/core/domain"

// wirePlace mirrors the subset of the Places v1 place resource we request.
type wirePlace struct {
	ID               string         `json:"id"`
	DisplayName      *wireLocalized `json:"displayName"`
	FormattedAddress string         `json:"formattedAddress"`
	Location         *wireLatLng    `json:"location"`
	GoogleMapsURI    string         `json:"googleMapsUri"`
	WebsiteURI       string         `json:"websiteUri"`
	PrimaryType      string         `json:"primaryType"`
	Types            []string       `json:"types"`
	Photos           []wirePhoto    `json:"photos"`
	Rating           *float64       `json:"rating"`
	UserRatingCount  *int           `json:"userRatingCount"`
}

type wireLocalized struct {
	Text string `json:"text"`
}

type wireLatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type wirePhoto struct {
	Name string `json:"name"`
}

func (p wirePlace) name() string {
	if p.DisplayName != nil {
		return p.DisplayName.Text
	}
	return ""
}

func (p wirePlace) latLng() (lat, lng *float64) {
	if p.Location == nil {
		return nil, nil
	}
	la, ln := p.Location.Latitude, p.Location.Longitude
	return &la, &ln
}

func (p wirePlace) firstPhotoName() string {
	if len(p.Photos) == 0 {
		return ""
	}
	return p.Photos[0].Name
}

func (p wirePlace) photoNames() []string {
	names := make([]string, 0, len(p.Photos))
	for _, ph := range p.Photos {
		if ph.Name != "" {
			names = append(names, ph.Name)
		}
	}
	return names
}

func (p wirePlace) types() []string {
	if p.Types == nil {
		return []string{}
	}
	return p.Types
}

// toPlace normalizes a result for list cards.
func (p wirePlace) toPlace() domain.Place {
	lat, lng := p.latLng()
	return domain.Place{
		ID:              p.ID,
		Name:            p.name(),
		Address:         p.FormattedAddress,
		Lat:             lat,
		Lng:             lng,
		GoogleMapsURI:   p.GoogleMapsURI,
		WebsiteURI:      p.WebsiteURI,
		PrimaryType:     p.PrimaryType,
		Types:           p.types(),
		PhotoName:       p.firstPhotoName(),
		Rating:          p.Rating,
		UserRatingCount: p.UserRatingCount,
	}
}

// toNearby produces the smaller card payload for POIs around a listing.
func (p wirePlace) toNearby() domain.NearbyPlace {
	lat, lng := p.latLng()
	return domain.NearbyPlace{
		ID:            p.ID,
		Name:          p.name(),
		Address:       p.FormattedAddress,
		Lat:           lat,
		Lng:           lng,
		GoogleMapsURI: p.GoogleMapsURI,
		PrimaryType:   p.PrimaryType,
		Types:         p.types(),
		PhotoName:     p.firstPhotoName(),
	}
}

// toDetail produces the detail-view payload.
func (p wirePlace) toDetail() domain.PlaceDetail {
	lat, lng := p.latLng()
	return domain.PlaceDetail{
		ID:              p.ID,
		Name:            p.name(),
		Address:         p.FormattedAddress,
		Lat:             lat,
		Lng:             lng,
		GoogleMapsURI:   p.GoogleMapsURI,
		WebsiteURI:      p.WebsiteURI,
		Rating:          p.Rating,
		UserRatingCount: p.UserRatingCount,
		PhotoName:       p.firstPhotoName(),
		Photos:          p.photoNames(),
		Types:           p.types(),
		PrimaryType:     p.PrimaryType,
	}
}
