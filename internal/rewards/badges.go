package rewards

import "fmt"

// BadgeDefinition is one row of a theme's level badge table.
type BadgeDefinition struct {
	Threshold int
	Title     string
	Message   string
	Icon      Icon
}

// BadgeThresholds are the challenge counts that award a level badge, shared by every theme.
var BadgeThresholds = []int{1, 4, 7, 10, 15, 20, 25, 30, 45}

var spaceBadges = []BadgeDefinition{
	{Threshold: 1, Title: "Apprenti Astronaute", Message: "Ton premier défi est terminé, la mission commence !", Icon: GenderedIcon("👨‍🚀", "👩‍🚀", "🧑‍🚀")},
	{Threshold: 4, Title: "Décollage", Message: "4 défis terminés, la fusée a quitté le sol !", Icon: FixedIcon("🚀")},
	{Threshold: 7, Title: "En Orbite", Message: "7 défis terminés, tu tournes autour de la Terre !", Icon: FixedIcon("🛰️")},
	{Threshold: 10, Title: "Explorateur Lunaire", Message: "10 défis terminés, tu as atteint la Lune !", Icon: FixedIcon("🌙")},
	{Threshold: 15, Title: "Marcheur des Étoiles", Message: "15 défis terminés, les étoiles sont à toi !", Icon: FixedIcon("⭐")},
	{Threshold: 20, Title: "Pilote de Comète", Message: "20 défis terminés, tu files comme une comète !", Icon: FixedIcon("☄️")},
	{Threshold: 25, Title: "Capitaine Galactique", Message: "25 défis terminés, tout l'équipage te suit !", Icon: GenderedIcon("👨‍✈️", "👩‍✈️", "🧑‍✈️")},
	{Threshold: 30, Title: "Maître des Planètes", Message: "30 défis terminés, chaque planète te connaît !", Icon: FixedIcon("🪐")},
	{Threshold: 45, Title: "Légende de l'Univers", Message: "45 défis terminés, tu es une légende de l'univers !", Icon: FixedIcon("🌌")},
}

var heroesBadges = []BadgeDefinition{
	{Threshold: 1, Title: "Jeune Héros", Message: "Ton premier défi est terminé, un héros est né !", Icon: GenderedIcon("🦸‍♂️", "🦸‍♀️", "🦸")},
	{Threshold: 4, Title: "Cape Magique", Message: "4 défis terminés, ta cape flotte au vent !", Icon: FixedIcon("🧣")},
	{Threshold: 7, Title: "Bouclier d'Or", Message: "7 défis terminés, rien ne t'arrête !", Icon: FixedIcon("🛡️")},
	{Threshold: 10, Title: "Super-Vitesse", Message: "10 défis terminés, tu calcules à la vitesse de l'éclair !", Icon: FixedIcon("⚡")},
	{Threshold: 15, Title: "Force Invincible", Message: "15 défis terminés, ta force est immense !", Icon: FixedIcon("💪")},
	{Threshold: 20, Title: "Vision Laser", Message: "20 défis terminés, tu vois toutes les réponses !", Icon: FixedIcon("🔦")},
	{Threshold: 25, Title: "Gardien de la Ville", Message: "25 défis terminés, la ville compte sur toi !", Icon: FixedIcon("🏙️")},
	{Threshold: 30, Title: "Super-Champion", Message: "30 défis terminés, tu es le champion des tables !", Icon: FixedIcon("🏆")},
	{Threshold: 45, Title: "Légende des Héros", Message: "45 défis terminés, ton nom est dans toutes les histoires !", Icon: GenderedIcon("🦸‍♂️", "🦸‍♀️", "🦸")},
}

var animalsBadges = []BadgeDefinition{
	{Threshold: 1, Title: "Petit Poussin", Message: "Ton premier défi est terminé, le poussin sort de sa coquille !", Icon: FixedIcon("🐣")},
	{Threshold: 4, Title: "Lapin Rapide", Message: "4 défis terminés, tu bondis comme un lapin !", Icon: FixedIcon("🐰")},
	{Threshold: 7, Title: "Renard Malin", Message: "7 défis terminés, tu es rusé comme un renard !", Icon: FixedIcon("🦊")},
	{Threshold: 10, Title: "Hibou Savant", Message: "10 défis terminés, le hibou est fier de toi !", Icon: FixedIcon("🦉")},
	{Threshold: 15, Title: "Dauphin Joueur", Message: "15 défis terminés, tu nages dans les nombres !", Icon: FixedIcon("🐬")},
	{Threshold: 20, Title: "Tigre Courageux", Message: "20 défis terminés, tu as le courage du tigre !", Icon: FixedIcon("🐯")},
	{Threshold: 25, Title: "Aigle Royal", Message: "25 défis terminés, tu voles au-dessus de tout !", Icon: FixedIcon("🦅")},
	{Threshold: 30, Title: "Lion Majestueux", Message: "30 défis terminés, tu règnes sur la savane !", Icon: FixedIcon("🦁")},
	{Threshold: 45, Title: "Roi de la Jungle", Message: "45 défis terminés, toute la jungle t'acclame !", Icon: GenderedIcon("🤴", "👸", "👑")},
}

func badgeTable(theme Theme) []BadgeDefinition {
	switch theme {
	case ThemeHeroes:
		return heroesBadges
	case ThemeAnimals:
		return animalsBadges
	default:
		return spaceBadges
	}
}

// Badges returns a copy of the theme's badge table in threshold order.
func Badges(theme Theme) []BadgeDefinition {
	return append([]BadgeDefinition(nil), badgeTable(theme)...)
}

// BadgeForThreshold returns the badge awarded at exactly threshold completed challenges.
func BadgeForThreshold(theme Theme, threshold int) (BadgeDefinition, bool) {
	for _, b := range badgeTable(theme) {
		if b.Threshold == threshold {
			return b, true
		}
	}
	return BadgeDefinition{}, false
}

// NextBadge returns the first badge strictly above total. false means the
// player has already reached the last threshold.
func NextBadge(theme Theme, total int) (BadgeDefinition, bool) {
	for _, b := range badgeTable(theme) {
		if b.Threshold > total {
			return b, true
		}
	}
	return BadgeDefinition{}, false
}

// BadgeIcon resolves the badge's icon for a gender.
func BadgeIcon(b BadgeDefinition, g Gender) string {
	return b.Icon.Resolve(g)
}

// BadgeID is the persisted identifier of a level badge.
func BadgeID(theme Theme, threshold int) string {
	return fmt.Sprintf("%s_%d", theme, threshold)
}

// NextBadgeInfo describes the next level badge still to earn.
type NextBadgeInfo struct {
	Threshold int    `json:"threshold"`
	Title     string `json:"title"`
	Icon      string `json:"icon"`
	Remaining int    `json:"remaining"`
}

// NextBadgeInfoFor returns progress towards the next badge, or nil when the
// last threshold has been reached.
func NextBadgeInfoFor(theme Theme, total int, g Gender) *NextBadgeInfo {
	next, ok := NextBadge(theme, total)
	if !ok {
		return nil
	}
	return &NextBadgeInfo{
		Threshold: next.Threshold,
		Title:     next.Title,
		Icon:      BadgeIcon(next, g),
		Remaining: next.Threshold - total,
	}
}
