package config

import (
	"testing"
	"time"

	client "github.com/influxdata/influxdb1-client/v2"
	"github.com/stretchr/testify/assert"
)

type recordingInfluxClient struct {
	batches []client.BatchPoints
}

func (r *recordingInfluxClient) Ping(timeout time.Duration) (time.Duration, string, error) {
	return 0, "", nil
}

func (r *recordingInfluxClient) Write(bp client.BatchPoints) error {
	r.batches = append(r.batches, bp)

	return nil
}

func (r *recordingInfluxClient) Query(q client.Query) (*client.Response, error) {
	return nil, nil
}

func (r *recordingInfluxClient) QueryAsChunk(q client.Query) (*client.ChunkedResponse, error) {
	return nil, nil
}

func (r *recordingInfluxClient) Close() error {
	return nil
}

func TestInfluxNewPointWritesMeasurement(t *testing.T) {
	recorder := &recordingInfluxClient{}
	influx := &InfluxClient{client: recorder, database: "mutuo_test"}

	influx.NewPoint(
		"transactions",
		map[string]string{"type": "quota_purchase", "status": "completed"},
		map[string]interface{}{"member_id": int64(7), "amount": 52.5},
	)

	assert.Len(t, recorder.batches, 1)

	points := recorder.batches[0].Points()
	assert.Len(t, points, 1)
	assert.Equal(t, "transactions", points[0].Name())
	assert.Equal(t, "quota_purchase", points[0].Tags()["type"])

	fields, err := points[0].Fields()
	assert.NoError(t, err)
	assert.Equal(t, 52.5, fields["amount"])
}
