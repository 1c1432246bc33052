package daemons

import (
	"time"

	"github.com/mutuoclub/mutuo/jobs"
	"github.com/mutuoclub/mutuo/jobs/cron"
)

type Worker interface {
	Start()
	Stop()
}

// CronJob runs the scheduled jobs: monthly dividend distribution
// and the daily overdue installment sweep.
type CronJob struct {
	Running bool
	Jobs    []jobs.Job
}

func NewCronJob() *CronJob {
	return &CronJob{
		Running: true,
		Jobs:    []jobs.Job{&cron.DividendJob{}, &cron.OverdueJob{}},
	}
}

func (c *CronJob) Start() {
	for _, job := range c.Jobs {
		go c.Run(job)
	}

	for c.Running {
		time.Sleep(time.Second)
	}
}

func (c *CronJob) Run(job jobs.Job) {
	for c.Running {
		job.Process()
	}
}

func (c *CronJob) Stop() {
	c.Running = false
}
