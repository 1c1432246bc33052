package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mutuoclub/mutuo/config"
	"github.com/mutuoclub/mutuo/controllers/auth"
	"github.com/mutuoclub/mutuo/controllers/helpers"
	"github.com/mutuoclub/mutuo/controllers/queries"
	"github.com/mutuoclub/mutuo/models"
	"github.com/mutuoclub/mutuo/types"
)

func GetBalance(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	balance := CurrentUser.GetBalance()

	return c.Status(200).JSON(balance.ToJSON())
}

func GetTransactions(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	var errors = new(helpers.Errors)
	var transactions []models.Transaction
	transactions_json := make([]models.TransactionJSON, 0)

	params := new(queries.TransactionFilters)
	if err := c.QueryParser(params); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_query"},
		})
	}

	helpers.Vaildate(params, errors)
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	if len(params.OrderBy) == 0 {
		params.OrderBy = types.OrderByDesc
	}

	tx := config.DataBase.Order("created_at "+params.OrderBy).Where("member_id = ?", CurrentUser.ID)

	if len(params.Type) > 0 {
		tx = tx.Where("type = ?", params.Type)
	}

	if len(params.Status) > 0 {
		tx = tx.Where("status = ?", params.Status)
	}

	if params.TimeFrom > 0 {
		time_from := time.Unix(params.TimeFrom, 0)
		tx = tx.Where("created_at >= ?", time_from)
	}

	if params.TimeTo > 0 {
		time_to := time.Unix(params.TimeTo, 0)
		tx = tx.Where("created_at < ?", time_to)
	}

	if params.Limit == 0 {
		params.Limit = 100
	}

	if params.Page == 0 {
		params.Page = 1
	}

	tx = tx.Offset(params.Page*params.Limit - params.Limit).Limit(params.Limit)

	tx.Find(&transactions)

	for _, transaction := range transactions {
		transactions_json = append(transactions_json, transaction.ToJSON())
	}

	return c.Status(200).JSON(transactions_json)
}

func GetQuotas(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	var quotas []models.Quota
	quotas_json := make([]models.QuotaJSON, 0)

	config.DataBase.Where("member_id = ?", CurrentUser.ID).Order("id asc").Find(&quotas)

	for _, quota := range quotas {
		quotas_json = append(quotas_json, quota.ToJSON())
	}

	return c.Status(200).JSON(quotas_json)
}

func GetLoans(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	var errors = new(helpers.Errors)
	var loans []models.Loan
	loans_json := make([]models.LoanJSON, 0)

	params := new(queries.LoanFilters)
	if err := c.QueryParser(params); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_query"},
		})
	}

	helpers.Vaildate(params, errors)
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	if len(params.OrderBy) == 0 {
		params.OrderBy = types.OrderByDesc
	}

	tx := config.DataBase.Order("created_at "+params.OrderBy).Where("member_id = ?", CurrentUser.ID)

	if len(params.Status) > 0 {
		tx = tx.Where("status = ?", params.Status)
	}

	if params.Limit == 0 {
		params.Limit = 100
	}

	if params.Page == 0 {
		params.Page = 1
	}

	tx = tx.Offset(params.Page*params.Limit - params.Limit).Limit(params.Limit)

	tx.Find(&loans)

	for _, loan := range loans {
		loans_json = append(loans_json, loan.ToJSON())
	}

	return c.Status(200).JSON(loans_json)
}

func GetLoanByID(c *fiber.Ctx) error {
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

	var loan *models.Loan

	result := config.DataBase.Where("id = ? AND (member_id = ? OR guarantor_id = ?)", id, CurrentUser.ID, CurrentUser.ID).First(&loan)

	if result.Error != nil {
		return renderLookupError(c, result.Error)
	}

	var installments []models.LoanInstallment
	config.DataBase.Where("loan_id = ?", loan.ID).Order("number asc").Find(&installments)

	return c.Status(200).JSON(fiber.Map{
		"loan":         loan.ToJSON(),
		"installments": installments,
	})
}
