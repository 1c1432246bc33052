package config

import (
	"os"
	"time"

	client "github.com/influxdata/influxdb1-client/v2"
)

var InfluxDB *InfluxClient

// InfluxClient writes ledger measurement points. Writes are best-effort:
// a failed point is logged and dropped, never surfaced to the caller.
type InfluxClient struct {
	client   client.Client
	database string
}

func NewInfluxDB() error {
	c, err := client.NewHTTPClient(client.HTTPConfig{
		Addr: os.Getenv("INFLUXDB_URL"),
	})

	if err != nil {
		return err
	}

	InfluxDB = &InfluxClient{
		client:   c,
		database: os.Getenv("INFLUXDB_DATABASE"),
	}

	return nil
}

func (c *InfluxClient) NewPoint(name string, tags map[string]string, fields map[string]interface{}) {
	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  c.database,
		Precision: "ns",
	})

	if err != nil {
		Logger.Errorf("influxdb: batch points: %v", err.Error())
		return
	}

	point, err := client.NewPoint(name, tags, fields, time.Now())
	if err != nil {
		Logger.Errorf("influxdb: point %s: %v", name, err.Error())
		return
	}

	bp.AddPoint(point)

	if err := c.client.Write(bp); err != nil {
		Logger.Errorf("influxdb: write %s: %v", name, err.Error())
	}
}
