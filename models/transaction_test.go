package models

import (
	"testing"
)

func TestPublishMetricsSkipsNonCompleted(t *testing.T) {
	// The influx writer is not initialized here: a nil, pending or
	// rejected transaction must never reach it.
	PublishMetrics(nil, &Transaction{Status: TxPending}, &Transaction{Status: TxRejected})
}
