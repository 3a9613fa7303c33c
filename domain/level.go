package domain

import (
	"strings"

	"github.com/galera-volei/galera-system/models"
)

// levelRank orders the known tiers lowest to highest. Tokens outside the
// map rank below noob, so unknown values from the backend stay renderable
// without unlocking anything.
var levelRank = map[models.Level]int{
	models.LevelNoob:          1,
	models.LevelAmador:        2,
	models.LevelIntermediario: 3,
	models.LevelProPlayer:     4,
}

// LevelRank returns the position of a level token in the hierarchy,
// case-insensitively. Unknown tokens rank 0.
func LevelRank(level models.Level) int {
	return levelRank[models.Level(strings.ToLower(string(level)))]
}

// CompareLevels returns a negative value when a ranks below b, zero when
// they tie, and a positive value when a ranks above b.
func CompareLevels(a, b models.Level) int {
	return LevelRank(a) - LevelRank(b)
}

// IsUnrestricted reports whether a match category admits every level.
func IsUnrestricted(category string) bool {
	return strings.EqualFold(category, models.CategoryLivre)
}

// MeetsCategory reports whether a user at the given level satisfies the
// match category. Ties pass: a user may always play at their own level.
func MeetsCategory(level models.Level, category string) bool {
	if IsUnrestricted(category) {
		return true
	}
	return LevelRank(level) >= LevelRank(models.Level(category))
}
