package rewards

import (
	"math/rand"
	"slices"
)

// Tier is a streak milestone announced during a challenge.
type Tier string

const (
	TierNone Tier = ""
	Tier4    Tier = "4"
	Tier8    Tier = "8"
	Tier12   Tier = "12"
	Tier20   Tier = "20"
	Tier30   Tier = "30"
	TierMax  Tier = "max"
)

// numericTiers are checked in ascending order.
var numericTiers = []struct {
	tier   Tier
	streak int
}{
	{Tier4, 4},
	{Tier8, 8},
	{Tier12, 12},
	{Tier20, 20},
	{Tier30, 30},
}

var tierPhrases = map[Tier][]string{
	Tier4: {
		"4 bonnes réponses d'affilée, bien joué !",
		"Belle série de 4 !",
		"Tu chauffes, 4 à la suite !",
	},
	Tier8: {
		"8 d'affilée, impressionnant !",
		"Rien ne t'arrête, 8 bonnes réponses !",
		"Série de 8, continue comme ça !",
	},
	Tier12: {
		"12 à la suite, tu es en feu !",
		"Incroyable série de 12 !",
	},
	Tier20: {
		"20 bonnes réponses d'affilée, c'est énorme !",
		"Série de 20, quelle concentration !",
	},
	Tier30: {
		"30 à la suite, tu es imbattable !",
		"Série de 30, un vrai champion des tables !",
	},
	TierMax: {
		"Sans faute, tout le défi est juste !",
		"Parfait du début à la fin !",
		"Toutes les réponses sont justes, bravo !",
	},
}

// StreakBadgeName returns the theme's streak badge for a tier, or "" for TierNone.
func StreakBadgeName(theme Theme, tier Tier) string {
	var names map[Tier]string
	switch theme {
	case ThemeHeroes:
		names = heroesStreakBadges
	case ThemeAnimals:
		names = animalsStreakBadges
	default:
		names = spaceStreakBadges
	}
	return names[tier]
}

var spaceStreakBadges = map[Tier]string{
	Tier4:   "Étoile Filante",
	Tier8:   "Fusée Turbo",
	Tier12:  "Comète Brillante",
	Tier20:  "Supernova",
	Tier30:  "Trou Noir",
	TierMax: "Galaxie Parfaite",
}

var heroesStreakBadges = map[Tier]string{
	Tier4:   "Coup de Poing",
	Tier8:   "Super-Saut",
	Tier12:  "Rayon Éclair",
	Tier20:  "Tornade Héroïque",
	Tier30:  "Héros Ultime",
	TierMax: "Mission Parfaite",
}

var animalsStreakBadges = map[Tier]string{
	Tier4:   "Petit Galop",
	Tier8:   "Course du Guépard",
	Tier12:  "Vol de l'Aigle",
	Tier20:  "Rugissement du Lion",
	Tier30:  "Roi des Animaux",
	TierMax: "Troupeau Parfait",
}

// Picker returns a uniformly random index in [0, n).
type Picker func(n int) int

type StreakInput struct {
	Correct       bool
	CurrentStreak int
	BestStreak    int
	QuestionCount int
	UserBadges    []string
	LastTierShown Tier
	Theme         Theme
}

type StreakResult struct {
	CurrentStreak      int      `json:"current_streak"`
	BestStreak         int      `json:"best_streak"`
	MessageToast       string   `json:"message_toast,omitempty"`
	BadgeUnlocked      string   `json:"badge_unlocked,omitempty"`
	ShowBadgeAnimation bool     `json:"show_badge_animation"`
	UserBadges         []string `json:"user_badges"`
	LastTierShown      Tier     `json:"last_tier_shown"`
}

// ProcessStreak updates the answer streak after one question and decides
// whether a streak tier is announced. A wrong answer resets the streak and
// leaves LastTierShown untouched. When the streak equals the question count
// the max tier wins over any numeric tier with the same value.
func ProcessStreak(in StreakInput, pick Picker) StreakResult {
	badges := append([]string(nil), in.UserBadges...)
	if !in.Correct {
		return StreakResult{
			CurrentStreak: 0,
			BestStreak:    in.BestStreak,
			UserBadges:    badges,
			LastTierShown: in.LastTierShown,
		}
	}

	streak := in.CurrentStreak + 1
	best := max(streak, in.BestStreak)
	res := StreakResult{
		CurrentStreak: streak,
		BestStreak:    best,
		UserBadges:    badges,
		LastTierShown: in.LastTierShown,
	}

	tier := TierNone
	if streak == in.QuestionCount && in.LastTierShown != TierMax {
		tier = TierMax
	} else {
		for _, t := range numericTiers {
			if streak == t.streak && in.LastTierShown != t.tier {
				tier = t.tier
				break
			}
		}
	}
	if tier == TierNone {
		return res
	}

	if pick == nil {
		pick = rand.Intn
	}
	phrases := tierPhrases[tier]
	res.MessageToast = phrases[pick(len(phrases))]
	res.LastTierShown = tier

	name := StreakBadgeName(in.Theme, tier)
	if name != "" && !slices.Contains(badges, name) {
		res.BadgeUnlocked = name
		res.ShowBadgeAnimation = true
		res.UserBadges = append(badges, name)
	}
	return res
}
