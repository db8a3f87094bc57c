package services

import (
	"context"
	"runtime"
	"time"
	"woodzire_server/database"

	"github.com/MonkyMars/gecho"
)

var uptimeStart = time.Now()

type ServerHealthStatus struct {
	Uptime       float64   `json:"uptime"` // seconds
	CurrentTime  time.Time `json:"current_time"`
	ServiceAlive bool      `json:"service_alive"`
	RamStats     *RamStats `json:"ram_stats"`
	Goroutines   int       `json:"goroutines"`
}

type RamStats struct {
	TotalMB     uint64 `json:"total_mb"`
	UsedMB      uint64 `json:"used_mb"`
	FreeMB      uint64 `json:"free_mb"`
	UsedPercent uint64 `json:"used_percent"`
}

// BackendHealthStatus describes one dependency ping.
type BackendHealthStatus struct {
	Connected      bool           `json:"connected"`
	LastChecked    time.Time      `json:"last_checked"`
	ResponseTimeMs int64          `json:"response_time_ms"`
	Details        map[string]any `json:"details,omitempty"`
}

type HealthService struct {
	logger       *gecho.Logger
	db           *database.DB
	cacheService *CacheService
}

func NewHealthService(logger *gecho.Logger, db *database.DB, cacheService *CacheService) *HealthService {
	return &HealthService{logger: logger, db: db, cacheService: cacheService}
}

func getRamStats() *RamStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	totalMB := m.Sys / 1024 / 1024
	usedMB := m.Alloc / 1024 / 1024
	usedPercent := uint64(0)
	if totalMB > 0 {
		usedPercent = (usedMB * 100) / totalMB
	}

	return &RamStats{
		TotalMB:     totalMB,
		UsedMB:      usedMB,
		FreeMB:      totalMB - usedMB,
		UsedPercent: usedPercent,
	}
}

func (hs *HealthService) ServerStatus() ServerHealthStatus {
	return ServerHealthStatus{
		Uptime:       time.Since(uptimeStart).Seconds(),
		CurrentTime:  time.Now(),
		ServiceAlive: true,
		RamStats:     getRamStats(),
		Goroutines:   runtime.NumGoroutine(),
	}
}

func (hs *HealthService) DatabaseStatus(ctx context.Context) (BackendHealthStatus, error) {
	status, err := ping(ctx, hs.db.Health)
	if err != nil {
		hs.logger.Error("Database health check failed", gecho.Field("error", err))
		return status, err
	}
	stats := hs.db.Stats()
	status.Details = map[string]any{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
	}
	return status, nil
}

func (hs *HealthService) CacheStatus(ctx context.Context) (BackendHealthStatus, error) {
	status, err := ping(ctx, hs.cacheService.Ping)
	if err != nil {
		hs.logger.Error("Cache health check failed", gecho.Field("error", err))
		return status, err
	}
	status.Details = hs.cacheService.GetConnectionStats()
	return status, nil
}

func ping(ctx context.Context, fn func(context.Context) error) (BackendHealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	return BackendHealthStatus{
		Connected:      err == nil,
		LastChecked:    time.Now(),
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}, err
}
