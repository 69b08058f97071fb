package gamification

// Level is a named rank of the membership ladder. A member holds the highest
// level whose threshold does not exceed the current points.
type Level struct {
	Name      string
	Threshold uint64
}

// The ladder, ascending by threshold.
var levels = []Level{
	{Name: "Aspirante", Threshold: 0},
	{Name: "Explorador", Threshold: 250},
	{Name: "Participante", Threshold: 500},
	{Name: "Friend", Threshold: 1000},
	{Name: "Rider", Threshold: 1500},
	{Name: "Pro", Threshold: 3000},
	{Name: "Legend", Threshold: 9000},
	{Name: "Master", Threshold: 18000},
	{Name: "Volunteer", Threshold: 25000},
	{Name: "Leader", Threshold: 40000},
}

func Levels() []Level {
	result := make([]Level, len(levels))
	copy(result, levels)
	return result
}

func ComputeLevel(points uint64) Level {
	current := levels[0]
	for _, level := range levels {
		if points < level.Threshold {
			break
		}
		current = level
	}

	return current
}

// NextLevel returns the level after the one held with the given points. It
// reports false at the top of the ladder.
func NextLevel(points uint64) (Level, bool) {
	for _, level := range levels {
		if points < level.Threshold {
			return level, true
		}
	}

	return Level{}, false
}

// LevelIndex returns the 1-based position of the level in the ladder, or 0
// for an unknown name.
func LevelIndex(name string) int {
	for i, level := range levels {
		if level.Name == name {
			return i + 1
		}
	}

	return 0
}
