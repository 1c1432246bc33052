package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mutuoclub/mutuo/controllers"
	"github.com/mutuoclub/mutuo/controllers/admin_controllers"
	"github.com/mutuoclub/mutuo/routes/middlewares"
)

func SetupRouter() *fiber.App {
	app := fiber.New()

	app.Get("/api/v2/public/timestamp", controllers.GetTimestamp)
	app.Get("/api/v2/public/stats", controllers.GetPlatformStats)
	app.Get("/api/v2/public/marketplace/listings", controllers.GetListings)

	app.Get("/api/v2/account/balance", controllers.GetBalance)
	app.Get("/api/v2/account/transactions", controllers.GetTransactions)
	app.Get("/api/v2/account/quotas", controllers.GetQuotas)
	app.Get("/api/v2/account/loans", controllers.GetLoans)
	app.Get("/api/v2/account/loans/:id", controllers.GetLoanByID)

	app.Post("/api/v2/quotas/buy", controllers.BuyQuota)
	app.Post("/api/v2/quotas/:id/sell", controllers.SellQuota)
	app.Post("/api/v2/quotas/sell_all", controllers.SellAllQuotas)

	app.Post("/api/v2/loans", controllers.CreateLoan)
	app.Post("/api/v2/loans/:id/guarantor", controllers.RespondGuarantor)
	app.Post("/api/v2/loans/:id/repay", controllers.RepayLoan)
	app.Post("/api/v2/loans/:id/installments/repay", controllers.RepayInstallment)

	app.Post("/api/v2/marketplace/listings", controllers.CreateListing)
	app.Post("/api/v2/marketplace/listings/:id/cancel", controllers.CancelListing)
	app.Post("/api/v2/marketplace/listings/:id/buy", controllers.BuyListing)

	app.Post("/api/v2/webhooks/gateway", controllers.GatewayWebhook)

	admin := app.Group("/api/v2/admin", middlewares.Authenticate, middlewares.AdminVaildator)
	admin.Get("/state", admin_controllers.GetSystemState)
	admin.Get("/reserve_entries", admin_controllers.GetReserveEntries)
	admin.Post("/dividends", admin_controllers.TriggerDividends)

	return app
}
