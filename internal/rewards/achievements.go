package rewards

import (
	"time"

	"github.com/vytor/timestables/internal/models"
)

// AchievementType says whether an achievement can be earned more than once.
type AchievementType int

const (
	OneShot AchievementType = iota
	Recurring
)

func (t AchievementType) String() string {
	if t == Recurring {
		return "RECURRING"
	}
	return "ONE_SHOT"
}

func (t AchievementType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

const (
	AchievementTimeMaster    = "time_master"
	AchievementStrategist    = "strategist"
	AchievementRegularPlayer = "regular_player"
	AchievementEarlyBird     = "early_bird"
	AchievementNightOwl      = "night_owl"
	AchievementPerfectScore  = "perfect_score"
)

type AchievementDefinition struct {
	ID      string          `json:"id"`
	Type    AchievementType `json:"type"`
	Title   string          `json:"title"`
	Emoji   string          `json:"emoji"`
	Message string          `json:"message"`
	Trigger string          `json:"trigger"`
}

var achievementCatalog = []AchievementDefinition{
	{
		ID:      AchievementTimeMaster,
		Type:    OneShot,
		Title:   "Maître du Temps",
		Emoji:   "⏱️",
		Message: "Tu as relevé un défi contre la montre !",
		Trigger: "Terminer un défi avec le chronomètre activé",
	},
	{
		ID:      AchievementStrategist,
		Type:    OneShot,
		Title:   "Stratège",
		Emoji:   "🧠",
		Message: "Revoir ses erreurs, c'est la clé pour progresser !",
		Trigger: "Choisir de revoir ses erreurs après un défi",
	},
	{
		ID:      AchievementRegularPlayer,
		Type:    Recurring,
		Title:   "Joueur Régulier",
		Emoji:   "📅",
		Message: "Tu as joué 3 jours différents cette semaine !",
		Trigger: "Jouer au moins 3 jours différents dans la même semaine",
	},
	{
		ID:      AchievementEarlyBird,
		Type:    Recurring,
		Title:   "Lève-tôt",
		Emoji:   "🌅",
		Message: "Tu t'entraînes dès le matin, bravo !",
		Trigger: "Terminer un défi avant 10h",
	},
	{
		ID:      AchievementNightOwl,
		Type:    Recurring,
		Title:   "Oiseau de Nuit",
		Emoji:   "🦉",
		Message: "Un dernier défi avant de dormir !",
		Trigger: "Terminer un défi après 19h",
	},
	{
		ID:      AchievementPerfectScore,
		Type:    Recurring,
		Title:   "Score Parfait",
		Emoji:   "💯",
		Message: "Aucune erreur, c'est parfait !",
		Trigger: "Obtenir 100% de bonnes réponses à un défi",
	},
}

// Achievements returns a copy of the achievement catalog.
func Achievements() []AchievementDefinition {
	return append([]AchievementDefinition(nil), achievementCatalog...)
}

func AchievementByID(id string) (AchievementDefinition, bool) {
	for _, a := range achievementCatalog {
		if a.ID == id {
			return a, true
		}
	}
	return AchievementDefinition{}, false
}

func AchievementByTitle(title string) (AchievementDefinition, bool) {
	for _, a := range achievementCatalog {
		if a.Title == title {
			return a, true
		}
	}
	return AchievementDefinition{}, false
}

func findUnlocked(id string, existing []models.UnlockedAchievement) (models.UnlockedAchievement, bool) {
	for _, a := range existing {
		if a.ID == id {
			return a, true
		}
	}
	return models.UnlockedAchievement{}, false
}

// IsAchievementUnlocked reports whether any existing record has the id.
func IsAchievementUnlocked(id string, existing []models.UnlockedAchievement) bool {
	_, ok := findUnlocked(id, existing)
	return ok
}

// CanUnlockRecurringAchievement applies the cooldown of a recurring
// achievement. regular_player has no cooldown here: its weekly check is done
// by the caller. Every other recurring achievement unlocks at most once per
// calendar day in now's location.
func CanUnlockRecurringAchievement(id string, existing []models.UnlockedAchievement, now time.Time) bool {
	def, ok := AchievementByID(id)
	if !ok || def.Type != Recurring {
		return false
	}
	record, found := findUnlocked(id, existing)
	if !found {
		return true
	}
	if id == AchievementRegularPlayer {
		return true
	}
	return !sameDay(record.LastUnlock(), now)
}

func sameDay(t, now time.Time) bool {
	t = t.In(now.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// WeekStart returns Monday 00:00 of t's week in t's location.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// DistinctPlayDaysThisWeek counts the calendar days within now's week
// (Monday inclusive to next Monday exclusive) that have at least one play.
func DistinctPlayDaysThisWeek(playDates []time.Time, now time.Time) int {
	start := WeekStart(now)
	end := start.AddDate(0, 0, 7)
	days := make(map[time.Time]struct{})
	for _, p := range playDates {
		local := p.In(now.Location())
		if local.Before(start) || !local.Before(end) {
			continue
		}
		y, m, d := local.Date()
		days[time.Date(y, m, d, 0, 0, 0, 0, now.Location())] = struct{}{}
	}
	return len(days)
}
