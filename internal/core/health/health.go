package health

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/hellofresh/health-go/v5"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

// Pinger is anything that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Endpoints lists what the health report covers.
type Endpoints struct {
	// RedisURL, when set, adds a Redis check. Otherwise Store is pinged.
	RedisURL string
	Store    Pinger
	Backend  Pinger
}

// New builds the health report. The backend check degrades the report
// instead of failing it, since cart editing still works offline.
func New(version string, endpoints Endpoints) (*health.Health, error) {
	storeCheck := health.Config{
		Name:    "store",
		Timeout: 2 * time.Second,
		Check: func(ctx context.Context) error {
			if endpoints.Store == nil {
				return fmt.Errorf("store is not initialized")
			}
			return endpoints.Store.Ping(ctx)
		},
	}
	if endpoints.RedisURL != "" {
		storeCheck.Name = "redis"
		storeCheck.Check = healthRedis.New(healthRedis.Config{DSN: endpoints.RedisURL})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "delivery-client",
			Version: version,
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			storeCheck,
			health.Config{
				Name:      "backend",
				Timeout:   5 * time.Second,
				SkipOnErr: true,
				Check: func(ctx context.Context) error {
					if endpoints.Backend == nil {
						return fmt.Errorf("backend client is not initialized")
					}
					return endpoints.Backend.Ping(ctx)
				},
			},
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}
	return h, nil
}

// Handler serves the report on a fiber route.
func Handler(h *health.Health) fiber.Handler {
	return adaptor.HTTPHandler(h.Handler())
}
