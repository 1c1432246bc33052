package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mutuoclub/mutuo/controllers/helpers"
	"github.com/mutuoclub/mutuo/ledger"
)

// RenderResult maps a service result onto the HTTP envelope: validation,
// limit and state failures are 422, missing records 404, everything else 500.
func RenderResult(c *fiber.Ctx, result ledger.Result, created bool) error {
	if result.Success {
		status := 200
		if created {
			status = 201
		}

		return c.Status(status).JSON(result.Data)
	}

	status := 500
	code := "server.internal_error"

	if ledger_err, ok := result.Error.(*ledger.Error); ok {
		code = ledger_err.Code

		switch ledger_err.Kind {
		case ledger.KindNotFound:
			status = 404
		case ledger.KindValidation,
			ledger.KindInvalidState,
			ledger.KindLimitExceeded,
			ledger.KindInsufficientFunds,
			ledger.KindInsufficientLiquidity:
			status = 422
		}
	}

	return c.Status(status).JSON(helpers.Errors{
		Errors: []string{code},
	})
}

// renderLookupError maps a direct record fetch failure: a missing row is
// 404, anything else is a server fault.
func renderLookupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(helpers.Errors{
			Errors: []string{"record.not_found"},
		})
	}

	return c.Status(500).JSON(helpers.Errors{
		Errors: []string{"server.internal_error"},
	})
}
