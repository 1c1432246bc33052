package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mutuoclub/mutuo/config"
	"github.com/mutuoclub/mutuo/controllers/helpers"
	"github.com/mutuoclub/mutuo/gateway"
	"github.com/mutuoclub/mutuo/ledger"
	"github.com/mutuoclub/mutuo/models"
	"github.com/mutuoclub/mutuo/services/loan_service"
	"github.com/mutuoclub/mutuo/services/quota_service"
	"github.com/mutuoclub/mutuo/types"
)

// GatewayWebhook receives payment confirmations. The webhook payload is
// never trusted on its own: the charge status is re-fetched from the
// gateway before any ledger mutation runs.
func GatewayWebhook(c *fiber.Ctx) error {
	errs := new(helpers.Errors)
	payload := new(helpers.GatewayWebhookParams)

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

	status, err := gateway.Default.FetchStatus(payload.PaymentID)
	if err != nil {
		config.Logger.Errorf("Failed to verify charge %s: %v", payload.PaymentID, err)

		return c.Status(502).JSON(helpers.Errors{
			Errors: []string{"webhook.gateway.unreachable"},
		})
	}

	if status != gateway.StatusConfirmed {
		return c.Status(200).JSON(fiber.Map{"applied": false})
	}

	var transaction *models.Transaction
	lookup := config.DataBase.Where("payment_id = ?", payload.PaymentID).First(&transaction)
	if errors.Is(lookup.Error, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(helpers.Errors{
			Errors: []string{"record.not_found"},
		})
	} else if lookup.Error != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.internal_error"},
		})
	}

	var result ledger.Result

	switch transaction.Type {
	case types.TxQuotaPurchase:
		result = quota_service.ConfirmQuotaPurchase(payload.PaymentID)
	case types.TxLoanRepayment:
		result = loan_service.ConfirmLoanRepayment(payload.PaymentID)
	case types.TxInstallment:
		result = loan_service.ConfirmInstallmentPayment(payload.PaymentID)
	default:
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"webhook.gateway.unconfirmable_transaction"},
		})
	}

	// A transaction already settled by an earlier delivery is not an
	// error for the gateway's retry loop.
	if !result.Success {
		if ledger_err, ok := result.Error.(*ledger.Error); ok && ledger_err.Kind == ledger.KindInvalidState {
			return c.Status(200).JSON(fiber.Map{"applied": false})
		}
	}

	return RenderResult(c, result, false)
}
