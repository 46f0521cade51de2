package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"antigravity2newapi/internal/core"
)

// AtomicPushStats thread-safe push counters
type AtomicPushStats struct {
	TotalPushes       atomic.Int64
	SuccessfulPushes  atomic.Int64
	FailedPushes      atomic.Int64
	TotalResponseTime atomic.Int64
}

// MetricsConfig configuration for MetricsService
type MetricsConfig struct {
	HistorySize int
	Logger      core.Logger
}

// MetricsService collects channel push outcomes
type MetricsService struct {
	atomicStats    AtomicPushStats
	pushHistory    []core.PushRecord
	historyMu      sync.RWMutex
	lastPushTime   time.Time
	maxHistorySize int
	logger         core.Logger
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(config MetricsConfig) *MetricsService {
	historySize := config.HistorySize
	if historySize <= 0 {
		historySize = core.HistoryBufferSize
	}

	logger := config.Logger
	if logger == nil {
		logger = &core.NopLogger{}
	}

	return &MetricsService{
		pushHistory:    make([]core.PushRecord, 0, historySize),
		maxHistorySize: historySize,
		logger:         logger,
	}
}

// RecordPush records a push result
func (ms *MetricsService) RecordPush(success bool, duration time.Duration, name string) {
	now := time.Now()
	responseTime := duration.Milliseconds()

	ms.atomicStats.TotalPushes.Add(1)
	ms.atomicStats.TotalResponseTime.Add(responseTime)
	if success {
		ms.atomicStats.SuccessfulPushes.Add(1)
	} else {
		ms.atomicStats.FailedPushes.Add(1)
	}

	ms.historyMu.Lock()
	ms.lastPushTime = now
	ms.pushHistory = append(ms.pushHistory, core.PushRecord{
		Timestamp:    now,
		Success:      success,
		ResponseTime: responseTime,
		Name:         name,
	})
	if len(ms.pushHistory) > ms.maxHistorySize {
		ms.pushHistory = ms.pushHistory[len(ms.pushHistory)-ms.maxHistorySize:]
	}
	ms.historyMu.Unlock()

	ms.logger.Debug("Recorded push %s success=%v in %dms", name, success, responseTime)
}

// GetPushStats returns current stats snapshot
func (ms *MetricsService) GetPushStats() core.PushStats {
	ms.historyMu.RLock()
	defer ms.historyMu.RUnlock()

	historyCopy := make([]core.PushRecord, len(ms.pushHistory))
	copy(historyCopy, ms.pushHistory)

	return core.PushStats{
		TotalPushes:       ms.atomicStats.TotalPushes.Load(),
		SuccessfulPushes:  ms.atomicStats.SuccessfulPushes.Load(),
		FailedPushes:      ms.atomicStats.FailedPushes.Load(),
		TotalResponseTime: ms.atomicStats.TotalResponseTime.Load(),
		LastPushTime:      ms.lastPushTime,
		PushHistory:       historyCopy,
	}
}

// GetPeriodStats computes period statistics for multiple hour windows in a single pass.
func GetPeriodStats(history []core.PushRecord, hourPeriods ...int) map[int]core.PeriodStats {
	if len(hourPeriods) == 0 {
		return nil
	}

	now := time.Now()
	cutoffs := make([]time.Time, len(hourPeriods))
	pushes := make([]int64, len(hourPeriods))
	successful := make([]int64, len(hourPeriods))
	responseTime := make([]int64, len(hourPeriods))

	for i, hours := range hourPeriods {
		cutoffs[i] = now.Add(-time.Duration(hours) * time.Hour)
	}

	for _, record := range history {
		for i, cutoff := range cutoffs {
			if record.Timestamp.After(cutoff) {
				pushes[i]++
				responseTime[i] += record.ResponseTime
				if record.Success {
					successful[i]++
				}
			}
		}
	}

	result := make(map[int]core.PeriodStats, len(hourPeriods))
	for i, hours := range hourPeriods {
		stats := core.PeriodStats{Pushes: pushes[i]}
		if pushes[i] > 0 {
			stats.SuccessRate = float64(successful[i]) / float64(pushes[i]) * 100
			stats.AvgResponseTime = responseTime[i] / pushes[i]
		}
		result[hours] = stats
	}
	return result
}
