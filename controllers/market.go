package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mutuoclub/mutuo/controllers/auth"
	"github.com/mutuoclub/mutuo/controllers/helpers"
	"github.com/mutuoclub/mutuo/services/market_service"
)

// GetListings serves the open marketplace listings from the in-memory
// book, cheapest first.
func GetListings(c *fiber.Ctx) error {
	return c.Status(200).JSON(market_service.Book.Snapshot())
}

func CreateListing(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	errs := new(helpers.Errors)
	payload := new(helpers.CreateListingParams)

	if err := c.BodyParser(payload); err != nil {
		c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_message_body"},
		})

		return err
	}

	helpers.Vaildate(payload, errs)

	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	result := market_service.ListQuota(CurrentUser, payload.QuotaID, payload.Price)

	return RenderResult(c, result, true)
}

func CancelListing(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"marketplace.listing.invaild_id"},
		})
	}

	CurrentUser := auth.GetCurrentUser(c)

	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	result := market_service.CancelListing(CurrentUser, int64(id))

	return RenderResult(c, result, false)
}

func BuyListing(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"marketplace.listing.invaild_id"},
		})
	}

	CurrentUser := auth.GetCurrentUser(c)

	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	result := market_service.BuyListing(CurrentUser, int64(id))

	return RenderResult(c, result, false)
}
