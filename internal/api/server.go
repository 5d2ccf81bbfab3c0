package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/time/rate"

	"dashboard/internal/engine"
)

// Options tune the HTTP server.
type Options struct {
	CORSOrigins []string
	// RateLimit is requests per second per client IP; 0 disables limiting.
	RateLimit float64
	LogLevel  log.Lvl
}

// NewServer builds the echo instance serving ds. The dataset must already be
// loaded: nothing is served before it exists.
func NewServer(ds *engine.Dataset, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = JSONSerializer{}
	e.Logger.SetLevel(opts.LogLevel)

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: origins}))
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	if opts.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(opts.RateLimit))))
	}

	h := NewHandler(ds)
	h.RegisterRoutes(e)
	return e
}
