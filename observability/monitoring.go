// Package observability aggregates engine counters for logs and the debug
// endpoint. Counters are atomic; the language mix map is mutex-guarded.
package observability

import (
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/abadojack/whatlanggo"
	"github.com/shirou/gopsutil/process"
)

// EngineStats is a point-in-time snapshot for the debug endpoint.
type EngineStats struct {
	MessagesPosted    uint64            `json:"messages_posted"`
	RepliesGenerated  uint64            `json:"replies_generated"`
	FollowupsSpawned  uint64            `json:"followups_spawned"`
	ResponseFailures  uint64            `json:"response_failures"`
	BroadcastDrops    uint64            `json:"broadcast_drops"`
	ActiveConnections int64             `json:"active_connections"`
	Languages         map[string]uint64 `json:"languages"`
	AllocMemMb        uint64            `json:"alloc_mem_mb"`
	NumGC             uint32            `json:"num_gc"`
	ResidentMemMb     uint64            `json:"resident_mem_mb"`
	CPUPercent        float64           `json:"cpu_percent"`
	GoroutineCount    int               `json:"goroutine_count"`
}

type Monitor struct {
	log  *slog.Logger
	proc *process.Process

	messagesPosted    uint64
	repliesGenerated  uint64
	followupsSpawned  uint64
	responseFailures  uint64
	broadcastDrops    uint64
	activeConnections int64

	mu        sync.RWMutex
	languages map[string]uint64
}

func NewMonitor(log *slog.Logger) *Monitor {
	// Process handle failures only disable RSS/CPU fields, never the engine
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("Process stats unavailable", "error", err)
		proc = nil
	}
	return &Monitor{
		log:       log,
		proc:      proc,
		languages: make(map[string]uint64),
	}
}

func (m *Monitor) IncrMessagesPosted()   { atomic.AddUint64(&m.messagesPosted, 1) }
func (m *Monitor) IncrRepliesGenerated() { atomic.AddUint64(&m.repliesGenerated, 1) }
func (m *Monitor) IncrFollowupsSpawned() { atomic.AddUint64(&m.followupsSpawned, 1) }
func (m *Monitor) IncrResponseFailures() { atomic.AddUint64(&m.responseFailures, 1) }
func (m *Monitor) IncrBroadcastDrops()   { atomic.AddUint64(&m.broadcastDrops, 1) }
func (m *Monitor) ConnectionOpened()     { atomic.AddInt64(&m.activeConnections, 1) }
func (m *Monitor) ConnectionClosed()     { atomic.AddInt64(&m.activeConnections, -1) }

// ObserveLanguage tracks the detected language mix of inbound user messages.
func (m *Monitor) ObserveLanguage(content string) {
	info := whatlanggo.Detect(content)
	if !info.IsReliable() {
		return
	}
	lang := whatlanggo.LangToString(info.Lang)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.languages[lang]++
}

func (m *Monitor) Snapshot() EngineStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := EngineStats{
		MessagesPosted:    atomic.LoadUint64(&m.messagesPosted),
		RepliesGenerated:  atomic.LoadUint64(&m.repliesGenerated),
		FollowupsSpawned:  atomic.LoadUint64(&m.followupsSpawned),
		ResponseFailures:  atomic.LoadUint64(&m.responseFailures),
		BroadcastDrops:    atomic.LoadUint64(&m.broadcastDrops),
		ActiveConnections: atomic.LoadInt64(&m.activeConnections),
		AllocMemMb:        memStats.Alloc / 1024 / 1024,
		NumGC:             memStats.NumGC,
		GoroutineCount:    runtime.NumGoroutine(),
	}

	m.mu.RLock()
	stats.Languages = make(map[string]uint64, len(m.languages))
	for lang, count := range m.languages {
		stats.Languages[lang] = count
	}
	m.mu.RUnlock()

	if m.proc != nil {
		if memInfo, err := m.proc.MemoryInfo(); err == nil {
			stats.ResidentMemMb = memInfo.RSS / 1024 / 1024
		}
		if cpu, err := m.proc.CPUPercent(); err == nil {
			stats.CPUPercent = cpu
		}
	}
	return stats
}
