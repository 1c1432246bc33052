package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mutuoclub/mutuo/config"
	"github.com/mutuoclub/mutuo/models"
)

func GetTimestamp(c *fiber.Ctx) error {
	c.Status(200).JSON(time.Now())

	return nil
}

type PlatformStats struct {
	ActiveQuotas   int64  `json:"active_quotas"`
	Members        int64  `json:"members"`
	OpenLoans      int64  `json:"open_loans"`
	QuotaUnitValue string `json:"quota_unit_value"`
	GeneratedAt    int64  `json:"generated_at"`
}

// GetPlatformStats serves aggregate platform counters. The numbers are
// informational only, so a short redis cache in front of the store is fine.
func GetPlatformStats(c *fiber.Ctx) error {
	var stats PlatformStats

	if err := config.Redis.GetKey("mutuo:platform:stats", &stats); err == nil && stats.GeneratedAt > 0 {
		return c.Status(200).JSON(stats)
	}

	config.DataBase.Model(&models.Quota{}).Where("status = ?", models.QuotaActive).Count(&stats.ActiveQuotas)
	config.DataBase.Model(&models.Member{}).Count(&stats.Members)
	config.DataBase.Model(&models.Loan{}).
		Where("status IN ?", []string{models.LoanApproved, models.LoanPaymentPending}).
		Count(&stats.OpenLoans)

	stats.QuotaUnitValue = config.QuotaUnitValue.String()
	stats.GeneratedAt = time.Now().Unix()

	config.Redis.SetKey("mutuo:platform:stats", stats, 1*time.Minute)

	return c.Status(200).JSON(stats)
}
