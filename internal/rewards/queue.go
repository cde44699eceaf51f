package rewards

import (
	"cmp"
	"slices"
	"time"

	"github.com/vytor/timestables/internal/models"
)

// RewardPriority orders the reward queue; lower values are shown first.
type RewardPriority int

const (
	PriorityLevelBadge RewardPriority = iota + 1
	PriorityOneShotAchievement
	PriorityRecurringAchievement
)

type RewardType string

const (
	RewardLevelBadge  RewardType = "level_badge"
	RewardAchievement RewardType = "achievement"
)

const (
	headerLevelBadge       = "Nouveau badge débloqué !"
	headerAchievement      = "Succès débloqué !"
	headerAchievementAgain = "Succès obtenu à nouveau !"
)

const (
	earlyBirdBeforeHour  = 10
	nightOwlFromHour     = 19
	regularPlayerMinDays = 3
)

// QueuedReward is one reward notification waiting to be shown.
type QueuedReward struct {
	Type            RewardType       `json:"type"`
	Priority        RewardPriority   `json:"priority"`
	Icon            string           `json:"icon"`
	Title           string           `json:"title"`
	Message         string           `json:"message"`
	HeaderText      string           `json:"header_text"`
	AchievementID   string           `json:"achievement_id,omitempty"`
	AchievementType *AchievementType `json:"achievement_type,omitempty"`
	NextBadgeInfo   *NextBadgeInfo   `json:"next_badge_info,omitempty"`
}

// ChallengeContext is the end-of-session snapshot the reward check runs on.
// TotalChallengesCompleted already includes the session being evaluated.
type ChallengeContext struct {
	TotalChallengesCompleted int
	Theme                    Theme
	ExistingBadges           []models.UnlockedBadge
	ExistingAchievements     []models.UnlockedAchievement
	PlayDates                []time.Time
	Gender                   Gender
	TimerEnabled             bool
	ScorePercent             int
	IsReviewSession          bool
}

type RewardCheckResult struct {
	Queue           []QueuedReward               `json:"queue"`
	NewBadge        *models.UnlockedBadge        `json:"new_badge"`
	NewAchievements []models.UnlockedAchievement `json:"new_achievements"`
}

// CheckForRewards computes every reward earned by a finished challenge.
// It does no I/O: the same context and time always give the same result.
// The queue is ordered by priority, keeping evaluation order within a priority.
func CheckForRewards(c ChallengeContext, now time.Time) RewardCheckResult {
	res := RewardCheckResult{
		Queue:           []QueuedReward{},
		NewAchievements: []models.UnlockedAchievement{},
	}

	// review sessions are not counted, so they never reach a level
	if def, ok := BadgeForThreshold(c.Theme, c.TotalChallengesCompleted); ok && !c.IsReviewSession && !hasBadgeThreshold(c.ExistingBadges, def.Threshold) {
		icon := BadgeIcon(def, c.Gender)
		res.NewBadge = &models.UnlockedBadge{
			ID:         BadgeID(c.Theme, def.Threshold),
			Threshold:  def.Threshold,
			Title:      def.Title,
			Icon:       icon,
			UnlockedAt: now,
		}
		res.Queue = append(res.Queue, QueuedReward{
			Type:          RewardLevelBadge,
			Priority:      PriorityLevelBadge,
			Icon:          icon,
			Title:         def.Title,
			Message:       def.Message,
			HeaderText:    headerLevelBadge,
			NextBadgeInfo: NextBadgeInfoFor(c.Theme, c.TotalChallengesCompleted, c.Gender),
		})
	}

	award := func(id string) {
		rec := unlock(id, c.ExistingAchievements, now)
		res.NewAchievements = append(res.NewAchievements, rec)
		res.Queue = append(res.Queue, achievementReward(id, rec))
	}

	if c.TimerEnabled && !IsAchievementUnlocked(AchievementTimeMaster, c.ExistingAchievements) {
		award(AchievementTimeMaster)
	}
	if c.ScorePercent == 100 && CanUnlockRecurringAchievement(AchievementPerfectScore, c.ExistingAchievements, now) {
		award(AchievementPerfectScore)
	}
	if now.Hour() < earlyBirdBeforeHour && CanUnlockRecurringAchievement(AchievementEarlyBird, c.ExistingAchievements, now) {
		award(AchievementEarlyBird)
	}
	if now.Hour() >= nightOwlFromHour && CanUnlockRecurringAchievement(AchievementNightOwl, c.ExistingAchievements, now) {
		award(AchievementNightOwl)
	}
	if regularPlayerQualifies(c, now) {
		award(AchievementRegularPlayer)
	}

	slices.SortStableFunc(res.Queue, func(a, b QueuedReward) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	return res
}

// CheckStrategistAchievement is evaluated when the player asks to review
// their errors. It fires once ever.
func CheckStrategistAchievement(existing []models.UnlockedAchievement, now time.Time) (QueuedReward, models.UnlockedAchievement, bool) {
	if IsAchievementUnlocked(AchievementStrategist, existing) {
		return QueuedReward{}, models.UnlockedAchievement{}, false
	}
	rec := unlock(AchievementStrategist, existing, now)
	return achievementReward(AchievementStrategist, rec), rec, true
}

func regularPlayerQualifies(c ChallengeContext, now time.Time) bool {
	dates := append([]time.Time(nil), c.PlayDates...)
	if !c.IsReviewSession {
		dates = append(dates, now)
	}
	if DistinctPlayDaysThisWeek(dates, now) < regularPlayerMinDays {
		return false
	}
	if !CanUnlockRecurringAchievement(AchievementRegularPlayer, c.ExistingAchievements, now) {
		return false
	}
	rec, found := findUnlocked(AchievementRegularPlayer, c.ExistingAchievements)
	if !found {
		return true
	}
	return !WeekStart(rec.LastUnlock().In(now.Location())).Equal(WeekStart(now))
}

func unlock(id string, existing []models.UnlockedAchievement, now time.Time) models.UnlockedAchievement {
	rec, found := findUnlocked(id, existing)
	if !found {
		return models.UnlockedAchievement{ID: id, UnlockedAt: now, Count: 1}
	}
	t := now
	rec.LastUnlockedAt = &t
	rec.Count++
	return rec
}

func achievementReward(id string, rec models.UnlockedAchievement) QueuedReward {
	def, _ := AchievementByID(id)
	priority := PriorityRecurringAchievement
	if def.Type == OneShot {
		priority = PriorityOneShotAchievement
	}
	header := headerAchievement
	if rec.Count > 1 {
		header = headerAchievementAgain
	}
	typ := def.Type
	return QueuedReward{
		Type:            RewardAchievement,
		Priority:        priority,
		Icon:            def.Emoji,
		Title:           def.Title,
		Message:         def.Message,
		HeaderText:      header,
		AchievementID:   def.ID,
		AchievementType: &typ,
	}
}

func hasBadgeThreshold(badges []models.UnlockedBadge, threshold int) bool {
	for _, b := range badges {
		if b.Threshold == threshold {
			return true
		}
	}
	return false
}
