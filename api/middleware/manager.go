package middleware

import (
	"context"
	"time"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
)

// RateCounter is the slice of the cache the rate limiter needs.
type RateCounter interface {
	IncrementRateLimit(ctx context.Context, ip, group string, window time.Duration) (int, time.Duration, error)
}

type Middleware struct {
	cfg     *structs.Config
	logger  *gecho.Logger
	limiter RateCounter
	now     func() time.Time
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, limiter RateCounter) *Middleware {
	return &Middleware{
		cfg:     cfg,
		logger:  logger,
		limiter: limiter,
		now:     time.Now,
	}
}
