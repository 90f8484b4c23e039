package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/digipin/internal/core/domain"
)

// CreatePlaceRequest is the body of POST /v1/places.
type CreatePlaceRequest struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// CreatePlaceHandler registers a new place.
func CreatePlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreatePlaceRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		place, err := deps.Places.Register(c.UserContext(), req.Label, req.Lat, req.Lon)
		if err != nil {
			return errFromDomain(c, err)
		}

		c.Location("/v1/places/" + place.ID)
		return c.Status(fiber.StatusCreated).JSON(place)
	}
}

// GetPlaceHandler returns a single place by ID.
func GetPlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		place, err := deps.Places.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(place)
	}
}

// DeletePlaceHandler removes a place.
func DeletePlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Places.Delete(c.UserContext(), c.Params("id")); err != nil {
			return errFromDomain(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PlacesByCodeHandler returns places registered under an exact DIGIPIN.
func PlacesByCodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		places, err := deps.Places.GetByCode(c.UserContext(), c.Params("code"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(places)
	}
}

// PlacesInCellHandler lists places inside the cell named by a code prefix.
func PlacesInCellHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := deps.Places.ListInCell(c.UserContext(), c.Params("prefix"),
			c.QueryInt("offset", 0), c.QueryInt("limit", 50))
		if err != nil {
			return errFromDomain(c, err)
		}

		pg := Pagination{Offset: page.Offset, Limit: page.Limit, Total: page.Total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page.Places, Pagination: pg})
	}
}

// NearbyPlacesHandler returns places within ?radius= metres of ?lat=&lon=.
func NearbyPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, lon, err := queryPoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		places, err := deps.Places.FindNearby(c.UserContext(), lat, lon,
			c.QueryFloat("radius", 500), c.QueryInt("limit", 50))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(places)
	}
}

// IngestFixHandler annotates a device position with its DIGIPIN and
// publishes it.
func IngestFixHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var fix domain.PositionFix
		if err := c.BodyParser(&fix); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		if err := deps.Tracking.Ingest(c.UserContext(), &fix); err != nil {
			return errFromDomain(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fix)
	}
}
