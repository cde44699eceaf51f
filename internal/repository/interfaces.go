package repository

import (
	"context"

	"github.com/vytor/timestables/internal/models"
)

// ProfileRepository handles profile data access
type ProfileRepository interface {
	Get(ctx context.Context, id int64) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Create(ctx context.Context, profile models.Profile) (*models.Profile, error)
	UpdateSettings(ctx context.Context, id int64, theme, gender string) error
	Delete(ctx context.Context, id int64) error
}

// ProgressRepository is the persistence gateway for reward state. Write is
// an upsert merge with the same semantics as models.Progress.Apply, never a
// full overwrite. An owner with no record reads as empty progress.
type ProgressRepository interface {
	Read(ctx context.Context, owner models.Owner) (*models.Progress, error)
	Write(ctx context.Context, owner models.Owner, update models.ProgressUpdate) error
	Delete(ctx context.Context, owner models.Owner) error
}

// ChallengeRepository handles challenge sessions, answers and their stats
type ChallengeRepository interface {
	InsertSession(ctx context.Context, session models.ChallengeSession) (int64, error)
	UpdateSession(ctx context.Context, session models.ChallengeSession) error
	GetSession(ctx context.Context, id int64) (*models.ChallengeSession, error)
	InsertAnswer(ctx context.Context, answer models.ChallengeAnswer) (int64, error)
	WrongAnswers(ctx context.Context, sessionID int64) ([]models.ChallengeAnswer, error)
	RefreshStats(ctx context.Context, owner models.Owner) error
	GetStats(ctx context.Context, owner models.Owner) (*models.ChallengeStats, error)
}
