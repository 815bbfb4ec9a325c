package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/DougMackenzie/energy-optimizer/core/metrics"
	"github.com/DougMackenzie/energy-optimizer/infra/logger"
)

// InfluxSink writes run outcomes and dispatch series to an InfluxDB
// instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
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

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
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
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes the run summary as a single point.
func (s *InfluxSink) RecordRun(ev coremetrics.RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("optimizer_run").
		AddTag("run_id", ev.RunID).
		AddTag("engine", ev.Engine).
		AddTag("feasible", strconv.FormatBool(ev.Feasible)).
		AddField("lcoe", ev.LCOE).
		AddField("coverage_pct", ev.CoveragePct).
		AddField("unserved_mwh", ev.UnservedMWh).
		AddField("timeline_months", ev.TimelineMonths).
		AddField("solve_seconds", ev.SolveTime.Seconds()).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSolve writes one solver invocation.
func (s *InfluxSink) RecordSolve(ev coremetrics.SolveEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("optimizer_solve").
		AddTag("run_id", ev.RunID).
		AddTag("engine", ev.Engine).
		AddTag("year", strconv.Itoa(ev.Year)).
		AddTag("incumbent", strconv.FormatBool(ev.Incumbent)).
		AddField("duration_seconds", ev.Duration.Seconds()).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordDispatchSeries writes the hourly dispatch as one point per step,
// timestamped relative to the event time.
func (s *InfluxSink) RecordDispatchSeries(ev coremetrics.DispatchSeriesEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	sched := ev.Schedule
	for h := 0; h < sched.Len(); h++ {
		p := write.NewPointWithMeasurement("dispatch_hour").
			AddTag("run_id", ev.RunID).
			AddTag("year", strconv.Itoa(sched.Year)).
			AddField("load_mw", sched.LoadMW[h]).
			AddField("solar_mw", sched.SolarMW[h]).
			AddField("recip_mw", sched.RecipMW[h]).
			AddField("turbine_mw", sched.TurbineMW[h]).
			AddField("grid_mw", sched.GridMW[h]).
			AddField("storage_discharge_mw", sched.StorageDischargeMW[h]).
			AddField("storage_soc_mwh", sched.StorageSoCMWh[h]).
			AddField("unserved_mw", sched.UnservedMW[h]).
			SetTime(ev.Time.Add(time.Duration(h) * time.Hour))
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
