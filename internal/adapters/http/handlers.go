package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SearchPropertiesHandler runs an apartment search for the map view.
//
// Modes:
//   - mode=text   free-text search (q required)
//   - mode=nearby viewport search (sw and ne required, "lat,lng" each)
//   - no mode     legacy behavior: bounds-only requests search nearby,
//     everything else falls back to text
func SearchPropertiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mode := c.Query("mode")
		q := c.Query("q")
		sw := c.Query("sw")
		ne := c.Query("ne")

		if len(q) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}

		results, err := deps.Search.Search(c.UserContext(), mode, q, sw, ne)
		if err != nil {
			return errFromDomain(c, err)
		}

		return c.JSON(fiber.Map{
			"results": results,
			"count":   len(results),
		})
	}
}

// GetPropertyHandler returns the detail view for a single listing.
func GetPropertyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "place id is required")
		}

		detail, err := deps.Places.Detail(c.UserContext(), id)
		if err != nil {
			return errFromDomain(c, err)
		}

		return c.JSON(detail)
	}
}

// NearbyPlacesHandler returns POIs around a point, grouped into the
// front end's category vocabulary (restaurants, bars, gyms, ...).
func NearbyPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lng := c.QueryFloat("lng", 0)
		if lat == 0 && lng == 0 {
			return errBadRequest(c, "lat and lng are required")
		}
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return errBadRequest(c, "lat/lng out of range")
		}

		typesCSV := c.Query("types")
		radius := c.QueryInt("radius", 0)

		results, err := deps.Places.NearbyAround(c.UserContext(), lat, lng, typesCSV, radius)
		if err != nil {
			return errFromDomain(c, err)
		}

		return c.JSON(fiber.Map{"results": results})
	}
}

// PlacePhotoHandler proxies a Places photo so the vendor API key never
// reaches the browser. Accepts either a v1 resource name
// (places/X/photos/Y) or a legacy reference via ref (photo_reference
// is kept as an alias for older clients).
func PlacePhotoHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Query("name")
		ref := c.Query("ref")
		if ref == "" {
			ref = c.Query("photo_reference")
		}
		if name == "" && ref == "" {
			return errBadRequest(c, "name or ref is required")
		}

		maxWidth := c.QueryInt("maxwidth", 800)
		maxHeight := c.QueryInt("maxheight", 0)
		if maxWidth < 1 || maxWidth > 4800 {
			maxWidth = 800
		}
		if maxHeight < 0 || maxHeight > 4800 {
			maxHeight = 0
		}

		if name != "" {
			if !strings.HasPrefix(name, "places/") {
				return errBadRequest(c, "name must be a places/X/photos/Y resource")
			}
			p, err := deps.PlacesAPI.PhotoByName(c.UserContext(), name, maxWidth, maxHeight)
			if err != nil {
				return errFromDomain(c, err)
			}
			c.Set("Content-Type", p.ContentType)
			return c.Send(p.Data)
		}

		p, err := deps.PlacesAPI.PhotoByRef(c.UserContext(), ref, maxWidth)
		if err != nil {
			return errFromDomain(c, err)
		}
		c.Set("Content-Type", p.ContentType)
		return c.Send(p.Data)
	}
}
