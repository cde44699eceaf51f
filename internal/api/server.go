package api

import (
	"context"
	"time"

	"github.com/vytor/timestables/internal/rewards"
	"github.com/vytor/timestables/internal/services"
)

// HealthChecker reports whether a backing dependency can serve requests.
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

type Server struct {
	ProfileService   services.ProfileService
	ChallengeService services.ChallengeService
	ProgressService  services.ProgressService
	DB               HealthChecker
	DefaultTheme     rewards.Theme
	RequestTimeout   time.Duration
}
