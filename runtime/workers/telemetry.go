package workers

import (
	"ambient-chat/contract"
	"ambient-chat/observability"
	"context"
	"log/slog"
	"time"
)

var _ contract.Worker = (*TelemetryWorker)(nil)

// TelemetryWorker periodically logs an engine stats snapshot.
// It is supervised: a panic here is recovered and the worker restarted
// without touching the orchestration.
type TelemetryWorker struct {
	monitor  *observability.Monitor
	interval time.Duration
	log      *slog.Logger
}

func NewTelemetryWorker(monitor *observability.Monitor, interval time.Duration, log *slog.Logger) *TelemetryWorker {
	return &TelemetryWorker{monitor: monitor, interval: interval, log: log}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return nil
		case <-ticker.C:
			stats := w.monitor.Snapshot()
			w.log.Info("Engine telemetry",
				"messages_posted", stats.MessagesPosted,
				"replies_generated", stats.RepliesGenerated,
				"followups_spawned", stats.FollowupsSpawned,
				"response_failures", stats.ResponseFailures,
				"broadcast_drops", stats.BroadcastDrops,
				"active_connections", stats.ActiveConnections,
				"alloc_mem_mb", stats.AllocMemMb,
				"resident_mem_mb", stats.ResidentMemMb,
				"cpu_percent", stats.CPUPercent,
				"goroutines", stats.GoroutineCount,
			)
		}
	}
}
