package models

import (
	"slices"
	"time"
)

// UnlockedBadge is a level badge earned for reaching a challenge count threshold.
type UnlockedBadge struct {
	ID         string    `json:"id"` // theme_threshold
	Threshold  int       `json:"threshold"`
	Title      string    `json:"title"`
	Icon       string    `json:"icon"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// UnlockedAchievement is the persisted state of an achievement.
// One-shot achievements keep Count=1 and never change after creation.
type UnlockedAchievement struct {
	ID             string     `json:"id"`
	UnlockedAt     time.Time  `json:"unlocked_at"`
	LastUnlockedAt *time.Time `json:"last_unlocked_at,omitempty"`
	Count          int        `json:"count"`
}

// LastUnlock returns LastUnlockedAt, falling back to UnlockedAt.
func (a UnlockedAchievement) LastUnlock() time.Time {
	if a.LastUnlockedAt != nil {
		return *a.LastUnlockedAt
	}
	return a.UnlockedAt
}

// Progress is everything the reward engine needs to know about an owner.
type Progress struct {
	Owner                    Owner                 `json:"owner"`
	TotalChallengesCompleted int                   `json:"total_challenges_completed"`
	BestStreak               int                   `json:"best_streak"`
	Badges                   []UnlockedBadge       `json:"badges"`
	Achievements             []UnlockedAchievement `json:"achievements"`
	StreakBadges             []string              `json:"streak_badges"`
	PlayDates                []time.Time           `json:"play_dates"`
}

// ProgressUpdate is a partial write merged into the stored progress.
type ProgressUpdate struct {
	AddBadges                []UnlockedBadge
	UpsertAchievements       []UnlockedAchievement
	AddStreakBadges          []string
	AddPlayDates             []time.Time
	BestStreak               *int
	TotalChallengesCompleted *int
}

func (u ProgressUpdate) IsEmpty() bool {
	return len(u.AddBadges) == 0 &&
		len(u.UpsertAchievements) == 0 &&
		len(u.AddStreakBadges) == 0 &&
		len(u.AddPlayDates) == 0 &&
		u.BestStreak == nil &&
		u.TotalChallengesCompleted == nil
}

// HasBadgeThreshold reports whether a badge for threshold is already owned.
func (p Progress) HasBadgeThreshold(threshold int) bool {
	for _, b := range p.Badges {
		if b.Threshold == threshold {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate slices freely.
func (p Progress) Clone() Progress {
	out := p
	out.Badges = append([]UnlockedBadge(nil), p.Badges...)
	out.Achievements = make([]UnlockedAchievement, len(p.Achievements))
	for i, a := range p.Achievements {
		if a.LastUnlockedAt != nil {
			t := *a.LastUnlockedAt
			a.LastUnlockedAt = &t
		}
		out.Achievements[i] = a
	}
	out.StreakBadges = append([]string(nil), p.StreakBadges...)
	out.PlayDates = append([]time.Time(nil), p.PlayDates...)
	return out
}

// Apply merges u into a copy of p using the same rules as the stored record:
// badges are kept once per threshold, achievements are upserted by id,
// streak badge names are kept once, play dates are appended, the best
// streak only grows and the challenge total is overwritten.
func (p Progress) Apply(u ProgressUpdate) Progress {
	out := p.Clone()
	for _, b := range u.AddBadges {
		if !out.HasBadgeThreshold(b.Threshold) {
			out.Badges = append(out.Badges, b)
		}
	}
	for _, a := range u.UpsertAchievements {
		replaced := false
		for i := range out.Achievements {
			if out.Achievements[i].ID == a.ID {
				out.Achievements[i] = a
				replaced = true
				break
			}
		}
		if !replaced {
			out.Achievements = append(out.Achievements, a)
		}
	}
	for _, name := range u.AddStreakBadges {
		if !slices.Contains(out.StreakBadges, name) {
			out.StreakBadges = append(out.StreakBadges, name)
		}
	}
	out.PlayDates = append(out.PlayDates, u.AddPlayDates...)
	if u.BestStreak != nil && *u.BestStreak > out.BestStreak {
		out.BestStreak = *u.BestStreak
	}
	if u.TotalChallengesCompleted != nil {
		out.TotalChallengesCompleted = *u.TotalChallengesCompleted
	}
	return out
}
