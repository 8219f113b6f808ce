package drill

import (
	"errors"
	"fmt"
)

// Config holds the weights that steer target selection, distractor selection and the end-of-session rule.
type Config struct {
	PickNeedWeight         float64
	PickRoundWeight        float64
	PickRecentIgnoreWeight float64
	PickRandomWeight       float64

	EndNeedThreshold float64
	EndMinRounds     int

	ChoiceWrongWeight    float64
	ChoiceNotShownWeight float64
	ChoiceRandomWeight   float64

	// ChoiceCount is the number of options offered per round by callers that do not pass their own.
	ChoiceCount int
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		PickNeedWeight:         0.7,
		PickRoundWeight:        0.05,
		PickRecentIgnoreWeight: 0.03,
		PickRandomWeight:       0.07,
		EndNeedThreshold:       0.2,
		EndMinRounds:           2,
		ChoiceWrongWeight:      0.1,
		ChoiceNotShownWeight:   0.4,
		ChoiceRandomWeight:     0.05,
		ChoiceCount:            4,
	}
}

// Validate rejects configurations the need model cannot work with.
func (c Config) Validate() error {
	if c.EndMinRounds < 1 {
		return fmt.Errorf("end_min_rounds must be at least 1, got %d", c.EndMinRounds)
	}
	if c.ChoiceCount < 2 {
		return fmt.Errorf("choice_count must be at least 2, got %d", c.ChoiceCount)
	}
	if c.EndNeedThreshold < 0 || c.EndNeedThreshold > 1 {
		return errors.New("end_need_threshold must be within [0, 1]")
	}
	return nil
}
