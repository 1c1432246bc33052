package controllers

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/mutuoclub/mutuo/controllers/auth"
	"github.com/mutuoclub/mutuo/controllers/helpers"
	"github.com/mutuoclub/mutuo/services/loan_service"
	"github.com/mutuoclub/mutuo/types"
)

func CreateLoan(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	errs := new(helpers.Errors)
	payload := new(helpers.LoanRequestParams)

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

	guarantor_id := sql.NullInt64{Int64: payload.GuarantorID, Valid: payload.GuarantorID > 0}

	result := loan_service.RequestLoan(
		CurrentUser,
		payload.Amount,
		payload.Installments,
		payload.CollateralPct,
		guarantor_id,
		payload.LegalAccepted,
	)

	return RenderResult(c, result, true)
}

func RespondGuarantor(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"loan.invaild_id"},
		})
	}

	CurrentUser := auth.GetCurrentUser(c)

	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	payload := new(helpers.GuarantorParams)

	if err := c.BodyParser(payload); err != nil {
		c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_message_body"},
		})

		return err
	}

	result := loan_service.RespondGuarantor(CurrentUser, int64(id), payload.Approve)

	return RenderResult(c, result, false)
}

func RepayLoan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"loan.invaild_id"},
		})
	}

	CurrentUser := auth.GetCurrentUser(c)

	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	errs := new(helpers.Errors)
	payload := new(helpers.RepayParams)

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

	use_balance := payload.PaymentMethod == types.MethodBalance
	result := loan_service.RepayLoan(CurrentUser, int64(id), use_balance, payload.PaymentMethod)

	return RenderResult(c, result, false)
}

func RepayInstallment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"loan.invaild_id"},
		})
	}

	CurrentUser := auth.GetCurrentUser(c)

	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	errs := new(helpers.Errors)
	payload := new(helpers.InstallmentPaymentParams)

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

	use_balance := payload.PaymentMethod == types.MethodBalance
	result := loan_service.RepayInstallment(CurrentUser, int64(id), payload.Amount, use_balance, payload.PaymentMethod)

	return RenderResult(c, result, false)
}
