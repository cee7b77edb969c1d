package models

import "fmt"

// Goal is a user fitness objective that drives the advice prompt.
type Goal string

const (
	GoalMuscleGain Goal = "Muscle Gain"
	GoalWeightLoss Goal = "Weight Loss"
	GoalStrength   Goal = "Strength"
	GoalEndurance  Goal = "Endurance"
)

var goals = []Goal{GoalMuscleGain, GoalWeightLoss, GoalStrength, GoalEndurance}

// Goals returns all goals in selector order.
func Goals() []Goal {
	out := make([]Goal, len(goals))
	copy(out, goals)
	return out
}

// ParseGoal validates a goal name. Matching is exact.
func ParseGoal(s string) (Goal, error) {
	for _, g := range goals {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGoal, s)
}

func (g Goal) String() string { return string(g) }
