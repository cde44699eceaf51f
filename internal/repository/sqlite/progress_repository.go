package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/timestables/internal/logger"
	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Read(ctx context.Context, owner models.Owner) (*models.Progress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("reading progress: owner=%s", owner)

	p := &models.Progress{
		Owner:        owner,
		Badges:       []models.UnlockedBadge{},
		Achievements: []models.UnlockedAchievement{},
		StreakBadges: []string{},
		PlayDates:    []time.Time{},
	}

	query, args, err := sqlBuilder.
		Select("total_challenges_completed", "best_streak").
		From("progress").
		Where(squirrel.Eq{"owner": owner}).
		ToSql()
	if err != nil {
		return nil, err
	}
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&p.TotalChallengesCompleted, &p.BestStreak)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to read progress counters: %v", err)
		return nil, err
	}

	if err := r.readBadges(ctx, p); err != nil {
		log.Error("failed to read badges: %v", err)
		return nil, err
	}
	if err := r.readAchievements(ctx, p); err != nil {
		log.Error("failed to read achievements: %v", err)
		return nil, err
	}
	if err := r.readStreakBadges(ctx, p); err != nil {
		log.Error("failed to read streak badges: %v", err)
		return nil, err
	}
	if err := r.readPlayDates(ctx, p); err != nil {
		log.Error("failed to read play dates: %v", err)
		return nil, err
	}

	log.Debug("progress read: owner=%s, total=%d, badges=%d, achievements=%d",
		owner, p.TotalChallengesCompleted, len(p.Badges), len(p.Achievements))
	return p, nil
}

func (r *progressRepository) query(ctx context.Context, b squirrel.SelectBuilder, scan func(*sql.Rows) error) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *progressRepository) readBadges(ctx context.Context, p *models.Progress) error {
	b := sqlBuilder.
		Select("badge_id", "threshold", "title", "icon", "unlocked_at").
		From("unlocked_badges").
		Where(squirrel.Eq{"owner": p.Owner}).
		OrderBy("threshold ASC")
	return r.query(ctx, b, func(rows *sql.Rows) error {
		var badge models.UnlockedBadge
		if err := rows.Scan(&badge.ID, &badge.Threshold, &badge.Title, &badge.Icon, &badge.UnlockedAt); err != nil {
			return err
		}
		p.Badges = append(p.Badges, badge)
		return nil
	})
}

func (r *progressRepository) readAchievements(ctx context.Context, p *models.Progress) error {
	b := sqlBuilder.
		Select("achievement_id", "unlocked_at", "last_unlocked_at", "count").
		From("unlocked_achievements").
		Where(squirrel.Eq{"owner": p.Owner}).
		OrderBy("unlocked_at ASC", "achievement_id ASC")
	return r.query(ctx, b, func(rows *sql.Rows) error {
		var (
			a    models.UnlockedAchievement
			last sql.NullTime
		)
		if err := rows.Scan(&a.ID, &a.UnlockedAt, &last, &a.Count); err != nil {
			return err
		}
		if last.Valid {
			t := last.Time
			a.LastUnlockedAt = &t
		}
		p.Achievements = append(p.Achievements, a)
		return nil
	})
}

func (r *progressRepository) readStreakBadges(ctx context.Context, p *models.Progress) error {
	b := sqlBuilder.
		Select("name").
		From("streak_badges").
		Where(squirrel.Eq{"owner": p.Owner}).
		OrderBy("rowid ASC")
	return r.query(ctx, b, func(rows *sql.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		p.StreakBadges = append(p.StreakBadges, name)
		return nil
	})
}

func (r *progressRepository) readPlayDates(ctx context.Context, p *models.Progress) error {
	b := sqlBuilder.
		Select("played_at").
		From("play_dates").
		Where(squirrel.Eq{"owner": p.Owner}).
		OrderBy("id ASC")
	return r.query(ctx, b, func(rows *sql.Rows) error {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return err
		}
		p.PlayDates = append(p.PlayDates, t)
		return nil
	})
}

// Write merges update into the stored record. Badges and streak badges are
// inserted once, achievements are upserted by id, play dates are appended,
// the best streak only grows and the challenge total is overwritten.
func (r *progressRepository) Write(ctx context.Context, owner models.Owner, update models.ProgressUpdate) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	if update.IsEmpty() {
		log.Debug("empty progress update for owner=%s, nothing to write", owner)
		return nil
	}
	log.Debug("writing progress: owner=%s, badges=%d, achievements=%d, streak_badges=%d, play_dates=%d",
		owner, len(update.AddBadges), len(update.UpsertAchievements), len(update.AddStreakBadges), len(update.AddPlayDates))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		ensure := sqlBuilder.
			Insert("progress").
			Columns("owner").
			Values(owner).
			Suffix("ON CONFLICT(owner) DO NOTHING")
		if err := execBuilt(ctx, tx, ensure); err != nil {
			log.Error("failed to ensure progress row: %v", err)
			return err
		}

		if update.TotalChallengesCompleted != nil {
			b := sqlBuilder.
				Update("progress").
				Set("total_challenges_completed", *update.TotalChallengesCompleted).
				Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
				Where(squirrel.Eq{"owner": owner})
			if err := execBuilt(ctx, tx, b); err != nil {
				log.Error("failed to update challenge total: %v", err)
				return err
			}
		}

		if update.BestStreak != nil {
			b := sqlBuilder.
				Update("progress").
				Set("best_streak", squirrel.Expr("MAX(best_streak, ?)", *update.BestStreak)).
				Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
				Where(squirrel.Eq{"owner": owner})
			if err := execBuilt(ctx, tx, b); err != nil {
				log.Error("failed to update best streak: %v", err)
				return err
			}
		}

		for _, badge := range update.AddBadges {
			b := sqlBuilder.
				Insert("unlocked_badges").
				Columns("owner", "threshold", "badge_id", "title", "icon", "unlocked_at").
				Values(owner, badge.Threshold, badge.ID, badge.Title, badge.Icon, badge.UnlockedAt).
				Suffix("ON CONFLICT(owner, threshold) DO NOTHING")
			if err := execBuilt(ctx, tx, b); err != nil {
				log.Error("failed to insert badge %s: %v", badge.ID, err)
				return err
			}
		}

		for _, a := range update.UpsertAchievements {
			var last any
			if a.LastUnlockedAt != nil {
				last = *a.LastUnlockedAt
			}
			b := sqlBuilder.
				Insert("unlocked_achievements").
				Columns("owner", "achievement_id", "unlocked_at", "last_unlocked_at", "count").
				Values(owner, a.ID, a.UnlockedAt, last, a.Count).
				Suffix("ON CONFLICT(owner, achievement_id) DO UPDATE SET last_unlocked_at = excluded.last_unlocked_at, count = excluded.count")
			if err := execBuilt(ctx, tx, b); err != nil {
				log.Error("failed to upsert achievement %s: %v", a.ID, err)
				return err
			}
		}

		for _, name := range update.AddStreakBadges {
			b := sqlBuilder.
				Insert("streak_badges").
				Columns("owner", "name").
				Values(owner, name).
				Suffix("ON CONFLICT(owner, name) DO NOTHING")
			if err := execBuilt(ctx, tx, b); err != nil {
				log.Error("failed to insert streak badge %s: %v", name, err)
				return err
			}
		}

		if len(update.AddPlayDates) > 0 {
			b := sqlBuilder.Insert("play_dates").Columns("owner", "played_at")
			for _, d := range update.AddPlayDates {
				b = b.Values(owner, d)
			}
			if err := execBuilt(ctx, tx, b); err != nil {
				log.Error("failed to insert play dates: %v", err)
				return err
			}
		}

		log.Debug("progress written: owner=%s", owner)
		return nil
	})
}

func (r *progressRepository) Delete(ctx context.Context, owner models.Owner) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("deleting progress: owner=%s", owner)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, table := range []string{"unlocked_badges", "unlocked_achievements", "streak_badges", "play_dates", "progress"} {
			if err := execBuilt(ctx, tx, sqlBuilder.Delete(table).Where(squirrel.Eq{"owner": owner})); err != nil {
				log.Error("failed to delete from %s: %v", table, err)
				return err
			}
		}
		return nil
	})
}
