package drill

import (
	"math"

	"github.com/eslsoft/vocdrill/internal/entity"
)

const (
	incompletePenaltyWeight = 0.5
	streakRampLength        = 4.0
	maxStreakReduction      = 0.9
	wrongStreakStep         = 0.1
)

// NeedScore reports how urgently an item needs re-testing, in [0, 1].
func (e *Engine) NeedScore(itemID string) (float64, error) {
	item, err := e.lookupItem(itemID)
	if err != nil {
		return 0, err
	}
	return e.need(item), nil
}

// need is derived from stored history on every call and never cached.
func (e *Engine) need(item *entity.Item) float64 {
	shown := item.TimesShown()
	if shown == 0 {
		return 1
	}

	n := e.cfg.EndMinRounds
	if shown < n {
		failureRatio := float64(shown-e.correctCount(item)) / float64(shown)
		incompletePenalty := float64(n-shown) / float64(n) * incompletePenaltyWeight
		return math.Min(1, failureRatio+incompletePenalty)
	}

	failures := 0
	for _, roundID := range item.ShownRounds[shown-n:] {
		if outcome, ok := e.outcome(roundID); ok && !outcome {
			failures++
		}
	}
	baseNeed := float64(failures) / float64(n)

	wrongPenalty := float64(e.wrongStreak(item)) * wrongStreakStep
	return clamp(baseNeed-streakBonus(e.correctStreak(item))+wrongPenalty, 0, 1)
}

// streakBonus ramps quadratically to its cap at a streak of streakRampLength.
func streakBonus(correctStreak int) float64 {
	ramp := float64(correctStreak) / streakRampLength
	return math.Min(1, ramp*ramp) * maxStreakReduction
}

// outcome returns the recorded correctness of a round; ok is false while the round is unanswered.
func (e *Engine) outcome(roundID string) (correct bool, ok bool) {
	round, found := e.rounds[roundID]
	if !found || round.Correct == nil {
		return false, false
	}
	return *round.Correct, true
}

func (e *Engine) correctCount(item *entity.Item) int {
	count := 0
	for _, roundID := range item.ShownRounds {
		if outcome, ok := e.outcome(roundID); ok && outcome {
			count++
		}
	}
	return count
}

func (e *Engine) correctStreak(item *entity.Item) int {
	return e.streak(item, true)
}

func (e *Engine) wrongStreak(item *entity.Item) int {
	return e.streak(item, false)
}

// streak counts the trailing run of rounds whose outcome equals want, skipping unanswered rounds.
func (e *Engine) streak(item *entity.Item, want bool) int {
	count := 0
	for i := len(item.ShownRounds) - 1; i >= 0; i-- {
		outcome, ok := e.outcome(item.ShownRounds[i])
		if !ok {
			continue
		}
		if outcome != want {
			break
		}
		count++
	}
	return count
}

func clamp(v, low, high float64) float64 {
	return math.Max(low, math.Min(high, v))
}
