package domain

import "github.com/galera-volei/galera-system/models"

// Promotion thresholds in lifetime matches played: amador at 10,
// intermediario at 25, proplayer at 50.
var levelThresholds = []struct {
	level  models.Level
	played int
}{
	{models.LevelNoob, 0},
	{models.LevelAmador, 10},
	{models.LevelIntermediario, 25},
	{models.LevelProPlayer, 50},
}

// LevelForPlayed returns the tier earned by the given play count. The
// server uses this on match completion and never moves a user downward.
func LevelForPlayed(played int) models.Level {
	level := models.LevelNoob
	for _, t := range levelThresholds {
		if played >= t.played {
			level = t.level
		}
	}
	return level
}

// Progress maps matches played onto a 0-100 bar, linear within each tier
// band. Zero matches is 0, the proplayer threshold and beyond is 100, and
// the value never decreases as the count grows.
func Progress(played int) float64 {
	if played <= 0 {
		return 0
	}
	last := len(levelThresholds) - 1
	if played >= levelThresholds[last].played {
		return 100
	}
	bandWidth := 100 / float64(last)
	for i := last; i > 0; i-- {
		lo, hi := levelThresholds[i-1].played, levelThresholds[i].played
		if played >= lo {
			within := float64(played-lo) / float64(hi-lo)
			return bandWidth * (float64(i-1) + within)
		}
	}
	return 0
}

// WinRate returns wins over matches played, 0 when nothing was played yet.
func WinRate(wins, played int) float64 {
	if played <= 0 {
		return 0
	}
	return float64(wins) / float64(played)
}
