package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mutuoclub/mutuo/controllers/auth"
	"github.com/mutuoclub/mutuo/controllers/helpers"
	"github.com/mutuoclub/mutuo/services/quota_service"
	"github.com/mutuoclub/mutuo/types"
)

func BuyQuota(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	errs := new(helpers.Errors)
	payload := new(helpers.BuyQuotaParams)

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

	if len(payload.PaymentMethod) == 0 {
		payload.PaymentMethod = types.MethodBalance
	}

	result := quota_service.BuyQuota(CurrentUser, payload.Quantity, payload.PaymentMethod)

	return RenderResult(c, result, true)
}

func SellQuota(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"quota.invaild_id"},
		})
	}

	CurrentUser := auth.GetCurrentUser(c)

	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	result := quota_service.SellQuota(CurrentUser, int64(id))

	return RenderResult(c, result, false)
}

func SellAllQuotas(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	result := quota_service.SellAllQuotas(CurrentUser)

	return RenderResult(c, result, false)
}
