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

type challengeRepository struct {
	db *sql.DB
}

// NewChallengeRepository creates a new ChallengeRepository implementation
func NewChallengeRepository(db *sql.DB) repository.ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) InsertSession(ctx context.Context, session models.ChallengeSession) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("challenge_repo")
	log.Debug("inserting challenge session: owner=%s, questions=%d, timer=%v, review=%v",
		session.Owner, session.QuestionCount, session.TimerEnabled, session.IsReview)

	query, args, err := sqlBuilder.
		Insert("challenge_sessions").
		Columns("owner", "question_count", "timer_enabled", "is_review").
		Values(session.Owner, session.QuestionCount, session.TimerEnabled, session.IsReview).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert challenge session: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	log.Debug("challenge session inserted: id=%d", id)
	return id, nil
}

func (r *challengeRepository) UpdateSession(ctx context.Context, session models.ChallengeSession) error {
	log := logger.FromContext(ctx).WithPrefix("challenge_repo")
	log.Debug("updating challenge session: id=%d, answered=%d, correct=%d", session.ID, session.Answered, session.Correct)

	var completedAt any
	if session.CompletedAt != nil {
		completedAt = *session.CompletedAt
	}
	query, args, err := sqlBuilder.
		Update("challenge_sessions").
		Set("answered", session.Answered).
		Set("correct", session.Correct).
		Set("best_streak", session.BestStreak).
		Set("completed_at", completedAt).
		Where(squirrel.Eq{"id": session.ID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update challenge session: %v", err)
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

func (r *challengeRepository) GetSession(ctx context.Context, id int64) (*models.ChallengeSession, error) {
	log := logger.FromContext(ctx).WithPrefix("challenge_repo")
	log.Debug("getting challenge session: id=%d", id)

	query, args, err := sqlBuilder.
		Select("id", "owner", "question_count", "timer_enabled", "is_review", "answered", "correct", "best_streak", "completed_at", "created_at").
		From("challenge_sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var (
		s         models.ChallengeSession
		owner     string
		completed sql.NullTime
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&s.ID, &owner, &s.QuestionCount, &s.TimerEnabled, &s.IsReview,
		&s.Answered, &s.Correct, &s.BestStreak, &completed, &s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("challenge session not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get challenge session: %v", err)
		return nil, err
	}
	s.Owner = models.Owner(owner)
	if completed.Valid {
		t := completed.Time
		s.CompletedAt = &t
	}
	return &s, nil
}

func (r *challengeRepository) InsertAnswer(ctx context.Context, answer models.ChallengeAnswer) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("challenge_repo")
	log.Debug("inserting answer: session=%d, %dx%d=%d, correct=%v",
		answer.SessionID, answer.Multiplicand, answer.Multiplier, answer.Given, answer.WasCorrect)

	query, args, err := sqlBuilder.
		Insert("challenge_answers").
		Columns("session_id", "multiplicand", "multiplier", "given", "was_correct").
		Values(answer.SessionID, answer.Multiplicand, answer.Multiplier, answer.Given, answer.WasCorrect).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert answer: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *challengeRepository) WrongAnswers(ctx context.Context, sessionID int64) ([]models.ChallengeAnswer, error) {
	log := logger.FromContext(ctx).WithPrefix("challenge_repo")
	log.Debug("listing wrong answers: session=%d", sessionID)

	query, args, err := sqlBuilder.
		Select("id", "session_id", "multiplicand", "multiplier", "given", "was_correct", "created_at").
		From("challenge_answers").
		Where(squirrel.Eq{"session_id": sessionID, "was_correct": false}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query wrong answers: %v", err)
		return nil, err
	}
	defer rows.Close()

	answers := []models.ChallengeAnswer{}
	for rows.Next() {
		var a models.ChallengeAnswer
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Multiplicand, &a.Multiplier, &a.Given, &a.WasCorrect, &a.CreatedAt); err != nil {
			log.Error("failed to scan answer row: %v", err)
			return nil, err
		}
		answers = append(answers, a)
	}
	log.Debug("found %d wrong answers", len(answers))
	return answers, rows.Err()
}

// RefreshStats recomputes the cached aggregates for owner from completed
// sessions and their answers.
func (r *challengeRepository) RefreshStats(ctx context.Context, owner models.Owner) error {
	log := logger.FromContext(ctx).WithPrefix("challenge_repo")
	log.Debug("refreshing challenge stats: owner=%s", owner)
	now := time.Now().UTC()

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO challenge_stats (owner, sessions, perfect_sessions, timed_sessions, questions_answered, correct_answers, best_streak, refreshed_at)
SELECT ?,
       COUNT(*),
       COALESCE(SUM(CASE WHEN correct >= question_count THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN timer_enabled THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(answered), 0),
       COALESCE(SUM(correct), 0),
       COALESCE(MAX(best_streak), 0),
       ?
FROM challenge_sessions
WHERE owner = ? AND completed_at IS NOT NULL
ON CONFLICT(owner) DO UPDATE SET
    sessions = excluded.sessions,
    perfect_sessions = excluded.perfect_sessions,
    timed_sessions = excluded.timed_sessions,
    questions_answered = excluded.questions_answered,
    correct_answers = excluded.correct_answers,
    best_streak = excluded.best_streak,
    refreshed_at = excluded.refreshed_at
`, owner, now, owner); err != nil {
			log.Error("failed to refresh session stats: %v", err)
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM challenge_table_stats WHERE owner = ?`, owner); err != nil {
			log.Error("failed to clear table stats: %v", err)
			return err
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO challenge_table_stats (owner, table_number, answered, correct)
SELECT ?, a.multiplicand, COUNT(*), COALESCE(SUM(CASE WHEN a.was_correct THEN 1 ELSE 0 END), 0)
FROM challenge_answers a
JOIN challenge_sessions s ON s.id = a.session_id
WHERE s.owner = ? AND s.completed_at IS NOT NULL
GROUP BY a.multiplicand
`, owner, owner); err != nil {
			log.Error("failed to refresh table stats: %v", err)
			return err
		}

		log.Debug("challenge stats refreshed: owner=%s", owner)
		return nil
	})
}

// GetStats returns the cached aggregates. An owner whose stats were never
// refreshed gets zero values with a nil RefreshedAt.
func (r *challengeRepository) GetStats(ctx context.Context, owner models.Owner) (*models.ChallengeStats, error) {
	log := logger.FromContext(ctx).WithPrefix("challenge_repo")
	log.Debug("fetching challenge stats: owner=%s", owner)

	stats := &models.ChallengeStats{Owner: owner, Tables: []models.TableAccuracy{}}
	var refreshed time.Time
	err := r.db.QueryRowContext(ctx, `
SELECT sessions, perfect_sessions, timed_sessions, questions_answered, correct_answers, best_streak, refreshed_at
FROM challenge_stats
WHERE owner = ?
`, owner).Scan(&stats.Sessions, &stats.PerfectSessions, &stats.TimedSessions,
		&stats.QuestionsAnswered, &stats.CorrectAnswers, &stats.BestStreak, &refreshed)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no cached stats for owner=%s", owner)
		return stats, nil
	}
	if err != nil {
		log.Error("failed to query challenge stats: %v", err)
		return nil, err
	}
	stats.RefreshedAt = &refreshed
	stats.Accuracy = accuracy(stats.CorrectAnswers, stats.QuestionsAnswered)

	rows, err := r.db.QueryContext(ctx, `
SELECT table_number, answered, correct
FROM challenge_table_stats
WHERE owner = ?
ORDER BY table_number ASC
`, owner)
	if err != nil {
		log.Error("failed to query table stats: %v", err)
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t models.TableAccuracy
		if err := rows.Scan(&t.Table, &t.Answered, &t.Correct); err != nil {
			log.Error("failed to scan table stat row: %v", err)
			return nil, err
		}
		t.Accuracy = accuracy(t.Correct, t.Answered)
		stats.Tables = append(stats.Tables, t)
	}
	return stats, rows.Err()
}

func accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
