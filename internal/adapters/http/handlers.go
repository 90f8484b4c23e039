package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/digipin/internal/core/domain"
)

// queryFloat reads a required float query parameter.
func queryFloat(c *fiber.Ctx, name string) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return v, nil
}

// queryPoint reads the lat and lon query parameters.
func queryPoint(c *fiber.Ctx) (lat, lon float64, err error) {
	if lat, err = queryFloat(c, "lat"); err != nil {
		return 0, 0, err
	}
	if lon, err = queryFloat(c, "lon"); err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

// EncodeHandler returns the DIGIPIN for ?lat=&lon=.
func EncodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, lon, err := queryPoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		enc, err := deps.Codec.Encode(c.UserContext(), lat, lon)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(enc)
	}
}

// DecodeHandler returns the center and cell of a DIGIPIN.
func DecodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dec, err := deps.Codec.Decode(c.UserContext(), c.Params("code"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(dec)
	}
}

// BoundsHandler returns the cell named by a full code or a prefix.
func BoundsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b, err := deps.Codec.Bounds(c.UserContext(), c.Params("code"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(b)
	}
}

// BatchEncodeRequest is the body of POST /v1/digipin/encode/batch.
type BatchEncodeRequest struct {
	Points []domain.GeoPoint `json:"points"`
}

// BatchEncodeResponse carries one result per input point, in order.
type BatchEncodeResponse struct {
	Results []domain.BatchResult `json:"results"`
	Failed  int                  `json:"failed"`
}

// BatchEncodeHandler encodes many points in one request.
func BatchEncodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req BatchEncodeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		results, err := deps.Codec.EncodeBatch(c.UserContext(), req.Points)
		if err != nil {
			return errFromDomain(c, err)
		}

		resp := BatchEncodeResponse{Results: results}
		for _, r := range results {
			if r.Error != "" {
				resp.Failed++
			}
		}
		return c.JSON(resp)
	}
}
