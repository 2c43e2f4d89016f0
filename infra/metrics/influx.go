package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/spaplan/core/metrics"
	"github.com/kilianp07/spaplan/infra/logger"
)

// InfluxSink writes bridge operations to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopRecorder if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Recorder {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopRecorder{}
	}
	return sink
}

// RecordOperation writes ev as a single point.
func (s *InfluxSink) RecordOperation(ev coremetrics.OperationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, operationPoint(ev))
}

func operationPoint(ev coremetrics.OperationEvent) *write.Point {
	return write.NewPointWithMeasurement("spaplan_operation").
		AddTag("operation", ev.Operation).
		AddTag("outcome", ev.Outcome).
		AddTag("dir", ev.Dir).
		AddField("files", ev.Files).
		AddField("rows", ev.Rows).
		AddField("duration_ms", ev.Duration.Milliseconds()).
		SetTime(ev.Time)
}

// Close releases the client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
