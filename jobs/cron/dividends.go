package cron

import (
	"time"

	"github.com/jasonlvhit/gocron"

	"github.com/mutuoclub/mutuo/config"
	"github.com/mutuoclub/mutuo/services/quota_service"
)

type DividendJob struct {
}

func (j *DividendJob) Process() {
	s := gocron.NewScheduler()
	s.Every(1).Day().At("00:10:00").Do(distributeDividends)
	<-s.Start()
}

// The payout runs on the first day of each month; the scheduler itself
// only knows daily granularity.
func distributeDividends() {
	if time.Now().Day() != 1 {
		return
	}

	result := quota_service.DistributeDividends()
	if !result.Success {
		config.Logger.Errorf("Dividend distribution failed: %v", result.Error)
		return
	}

	config.Logger.Info("Dividend distribution completed")
}
