package rewards_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/timestables/internal/rewards"
)

func TestBadgeTables_ShareThresholds(t *testing.T) {
	for _, theme := range rewards.Themes() {
		t.Run(theme.String(), func(t *testing.T) {
			badges := rewards.Badges(theme)
			require.Len(t, badges, len(rewards.BadgeThresholds))
			for i, b := range badges {
				assert.Equal(t, rewards.BadgeThresholds[i], b.Threshold)
				assert.NotEmpty(t, b.Title)
				assert.NotEmpty(t, b.Message)
				assert.NotEmpty(t, rewards.BadgeIcon(b, rewards.GenderUnspecified))
			}
		})
	}
}

func TestBadgeForThreshold_ExactMatchOnly(t *testing.T) {
	b, ok := rewards.BadgeForThreshold(rewards.ThemeHeroes, 10)
	require.True(t, ok)
	assert.Equal(t, "Super-Vitesse", b.Title)

	_, ok = rewards.BadgeForThreshold(rewards.ThemeHeroes, 11)
	assert.False(t, ok, "11 is not a threshold")

	_, ok = rewards.BadgeForThreshold(rewards.ThemeSpace, 0)
	assert.False(t, ok)
}

func TestBadgeIcon_Gendered(t *testing.T) {
	b, ok := rewards.BadgeForThreshold(rewards.ThemeHeroes, 1)
	require.True(t, ok)
	require.True(t, b.Icon.IsGendered())

	assert.Equal(t, "🦸‍♂️", rewards.BadgeIcon(b, rewards.GenderBoy))
	assert.Equal(t, "🦸‍♀️", rewards.BadgeIcon(b, rewards.GenderGirl))
	assert.Equal(t, "🦸", rewards.BadgeIcon(b, rewards.GenderUnspecified))
}

func TestBadgeIcon_FixedIgnoresGender(t *testing.T) {
	b, ok := rewards.BadgeForThreshold(rewards.ThemeHeroes, 10)
	require.True(t, ok)

	for _, g := range []rewards.Gender{rewards.GenderBoy, rewards.GenderGirl, rewards.GenderUnspecified} {
		assert.Equal(t, "⚡", rewards.BadgeIcon(b, g))
	}
}

func TestParseTheme_UnknownFallsBackToSpace(t *testing.T) {
	theme, ok := rewards.ParseTheme("dinosaurs")
	assert.False(t, ok)
	assert.Equal(t, rewards.ThemeSpace, theme)

	theme, ok = rewards.ParseTheme(" Animals ")
	assert.True(t, ok)
	assert.Equal(t, rewards.ThemeAnimals, theme)
}

func TestParseGender(t *testing.T) {
	assert.Equal(t, rewards.GenderBoy, rewards.ParseGender("boy"))
	assert.Equal(t, rewards.GenderGirl, rewards.ParseGender("FEMALE"))
	assert.Equal(t, rewards.GenderUnspecified, rewards.ParseGender("other"))
	assert.Equal(t, rewards.GenderUnspecified, rewards.ParseGender(""))
}

func TestNextBadge(t *testing.T) {
	next, ok := rewards.NextBadge(rewards.ThemeSpace, 10)
	require.True(t, ok)
	assert.Equal(t, 15, next.Threshold)

	next, ok = rewards.NextBadge(rewards.ThemeSpace, 0)
	require.True(t, ok)
	assert.Equal(t, 1, next.Threshold)

	_, ok = rewards.NextBadge(rewards.ThemeSpace, 45)
	assert.False(t, ok, "no badge above the last threshold")
}

func TestNextBadgeInfoFor(t *testing.T) {
	info := rewards.NextBadgeInfoFor(rewards.ThemeAnimals, 12, rewards.GenderGirl)
	require.NotNil(t, info)
	assert.Equal(t, 15, info.Threshold)
	assert.Equal(t, 3, info.Remaining)
	assert.Equal(t, "Dauphin Joueur", info.Title)

	assert.Nil(t, rewards.NextBadgeInfoFor(rewards.ThemeAnimals, 60, rewards.GenderGirl), "max level reached")
}

func TestBadgeID(t *testing.T) {
	assert.Equal(t, "heroes_10", rewards.BadgeID(rewards.ThemeHeroes, 10))
	assert.Equal(t, "space_1", rewards.BadgeID(rewards.ThemeSpace, 1))
}
