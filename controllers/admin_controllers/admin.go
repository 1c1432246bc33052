package admin_controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mutuoclub/mutuo/config"
	"github.com/mutuoclub/mutuo/controllers"
	"github.com/mutuoclub/mutuo/controllers/helpers"
	"github.com/mutuoclub/mutuo/models"
	"github.com/mutuoclub/mutuo/services/quota_service"
)

func GetSystemState(c *fiber.Ctx) error {
	var state models.SystemState

	if err := config.DataBase.FirstOrCreate(&state, models.SystemState{ID: 1}).Error; err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.internal_error"},
		})
	}

	return c.Status(200).JSON(state)
}

func GetReserveEntries(c *fiber.Ctx) error {
	var entries []models.ReserveEntry

	tx := config.DataBase.Order("id desc").Limit(500)

	if bucket := c.Query("bucket"); len(bucket) > 0 {
		tx = tx.Where("bucket = ?", bucket)
	}

	if raw := c.Query("time_from"); len(raw) > 0 {
		if time_from, err := strconv.ParseInt(raw, 10, 64); err == nil && time_from > 0 {
			tx = tx.Where("created_at >= ?", time.Unix(time_from, 0))
		}
	}

	tx.Find(&entries)

	return c.Status(200).JSON(entries)
}

// TriggerDividends runs the profit pool payout on demand, outside the
// monthly schedule.
func TriggerDividends(c *fiber.Ctx) error {
	result := quota_service.DistributeDividends()

	if result.Success {
		config.Redis.DeleteKey("mutuo:platform:stats")
	}

	return controllers.RenderResult(c, result, false)
}
