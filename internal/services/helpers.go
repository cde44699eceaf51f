package services

import (
	"context"
	stderrors "errors"

	"github.com/vytor/timestables/internal/errors"
	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/repository"
	"github.com/vytor/timestables/internal/rewards"
	"github.com/vytor/timestables/internal/store"
)

// look is how rewards are presented to an owner.
type look struct {
	Theme  rewards.Theme
	Gender rewards.Gender
}

// resolveLook returns the theme and gender of the owner's profile. The
// anonymous owner, and profiles with an unknown theme, get fallback.
func resolveLook(ctx context.Context, profiles repository.ProfileRepository, owner models.Owner, fallback rewards.Theme) (look, error) {
	id, ok := owner.ProfileID()
	if !ok {
		return look{Theme: fallback}, nil
	}
	profile, err := profiles.Get(ctx, id)
	if err != nil {
		return look{}, errors.NewInternalError(err)
	}
	if profile == nil {
		return look{}, errors.NewNotFoundError("profile", id)
	}
	theme, known := rewards.ParseTheme(profile.Theme)
	if !known {
		theme = fallback
	}
	return look{Theme: theme, Gender: rewards.ParseGender(profile.Gender)}, nil
}

// storeError maps store rejections onto client errors.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, store.ErrRewardsPending):
		return errors.NewConflictError("rewards from the last challenge must be dismissed first")
	case stderrors.Is(err, store.ErrStoreClosed):
		return errors.NewConflictError("this player's progress was reset, try again")
	case stderrors.Is(err, store.ErrSessionMismatch):
		return errors.NewConflictError("this challenge is no longer active")
	case stderrors.Is(err, store.ErrSessionComplete):
		return errors.NewBadRequestError("every question of this challenge has been answered")
	case stderrors.Is(err, store.ErrInvalidAction):
		return errors.NewBadRequestError(err.Error())
	default:
		return errors.NewInternalError(err)
	}
}
