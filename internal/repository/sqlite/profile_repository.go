package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/timestables/internal/logger"
	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository implementation
func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("creating profile: name=%s, theme=%s", profile.Name, profile.Theme)

	var p models.Profile
	err := r.db.QueryRowContext(ctx, `
INSERT INTO profiles (name, theme, gender)
VALUES (?, ?, ?)
RETURNING id, name, theme, gender, created_at, updated_at
`, profile.Name, profile.Theme, profile.Gender).Scan(&p.ID, &p.Name, &p.Theme, &p.Gender, &p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		log.Debug("profile name already taken: %s", profile.Name)
		return nil, repository.ErrDuplicate
	}
	if err != nil {
		log.Error("failed to create profile: %v", err)
		return nil, err
	}
	log.Debug("profile created: id=%d", p.ID)
	return &p, nil
}

func (r *profileRepository) UpdateSettings(ctx context.Context, id int64, theme, gender string) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("updating profile settings: id=%d, theme=%s, gender=%s", id, theme, gender)

	res, err := r.db.ExecContext(ctx, `
UPDATE profiles SET theme = ?, gender = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`, theme, gender, id)
	if err != nil {
		log.Error("failed to update profile settings: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *profileRepository) List(ctx context.Context) ([]models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("listing profiles")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, theme, gender, created_at, updated_at
FROM profiles
ORDER BY created_at ASC, id ASC
`)
	if err != nil {
		log.Error("failed to list profiles: %v", err)
		return nil, err
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Theme, &p.Gender, &p.CreatedAt, &p.UpdatedAt); err != nil {
			log.Error("failed to scan profile row: %v", err)
			return nil, err
		}
		profiles = append(profiles, p)
	}

	log.Debug("found %d profiles", len(profiles))
	return profiles, rows.Err()
}

func (r *profileRepository) Get(ctx context.Context, id int64) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("getting profile: id=%d", id)

	var p models.Profile
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, theme, gender, created_at, updated_at
FROM profiles
WHERE id = ?
`, id).Scan(&p.ID, &p.Name, &p.Theme, &p.Gender, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("profile not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, err
	}
	return &p, nil
}

// Delete removes the profile together with its challenge history.
// Reward progress is owned by the ProgressRepository and deleted there.
func (r *profileRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("deleting profile and challenge history: id=%d", id)
	owner := models.ProfileOwner(id)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		statements := []struct {
			what  string
			query string
			arg   any
		}{
			{"challenge sessions", `DELETE FROM challenge_sessions WHERE owner = ?`, owner},
			{"challenge stats", `DELETE FROM challenge_stats WHERE owner = ?`, owner},
			{"table stats", `DELETE FROM challenge_table_stats WHERE owner = ?`, owner},
			{"profile", `DELETE FROM profiles WHERE id = ?`, id},
		}
		for _, st := range statements {
			if _, err := tx.ExecContext(ctx, st.query, st.arg); err != nil {
				log.Error("failed to delete %s for profile %d: %v", st.what, id, err)
				return err
			}
		}
		log.Debug("profile %d deleted", id)
		return nil
	})
}
