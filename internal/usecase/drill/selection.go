package drill

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/eslsoft/vocdrill/internal/entity"
)

type scoredItem struct {
	item  *entity.Item
	score float64
}

// AnswerPriorityScore returns the raw score target selection would give the item right now.
// The random jitter is drawn fresh from the engine's Rand on every call.
func (e *Engine) AnswerPriorityScore(itemID string) (float64, error) {
	item, err := e.lookupItem(itemID)
	if err != nil {
		return 0, err
	}
	return e.pickScore(item), nil
}

// ConfusionScore returns the raw score distractor selection would give other when target is tested.
func (e *Engine) ConfusionScore(targetID, otherID string) (float64, error) {
	target, err := e.lookupItem(targetID)
	if err != nil {
		return 0, err
	}
	other, err := e.lookupItem(otherID)
	if err != nil {
		return 0, err
	}
	return e.confusionScore(target, other), nil
}

func (e *Engine) pickScore(item *entity.Item) float64 {
	staleness := float64(e.RoundCount()-e.lastRoundIndex(item)) - e.cfg.PickRecentIgnoreWeight
	return e.need(item)*e.cfg.PickNeedWeight +
		staleness*e.cfg.PickRoundWeight +
		e.rng.Float64()*e.cfg.PickRandomWeight
}

// lastRoundIndex is the creation index of the item's latest round, or -1 if it was never shown.
func (e *Engine) lastRoundIndex(item *entity.Item) int {
	if item.TimesShown() == 0 {
		return -1
	}
	round, ok := e.rounds[item.ShownRounds[item.TimesShown()-1]]
	if !ok {
		return -1
	}
	return round.Index
}

func (e *Engine) confusionScore(target, other *entity.Item) float64 {
	score := e.cfg.ChoiceNotShownWeight
	if exposure, ok := target.Peers[other.ID]; ok {
		score = exposure.Ratio() * e.cfg.ChoiceWrongWeight
	}
	return score + e.rng.Float64()*e.cfg.ChoiceRandomWeight
}

// selectTarget scores each candidate once and keeps the first strictly greatest.
// The previous round's target sits out unless that would leave fewer candidates than choices.
func (e *Engine) selectTarget(pool []*entity.Item, choiceCount int) *entity.Item {
	candidates := pool
	if previous := e.lastTargetID(); previous != "" && len(pool)-1 >= choiceCount {
		candidates = lo.Filter(pool, func(item *entity.Item, _ int) bool {
			return item.ID != previous
		})
	}

	scored := lo.Map(candidates, func(item *entity.Item, _ int) scoredItem {
		return scoredItem{item: item, score: e.pickScore(item)}
	})
	best := lo.MaxBy(scored, func(a, b scoredItem) bool {
		return a.score > b.score
	})
	return best.item
}

// selectDistractors ranks every other item by confusion score and returns the top count.
func (e *Engine) selectDistractors(target *entity.Item, pool []*entity.Item, count int) []*entity.Item {
	others := lo.Filter(pool, func(item *entity.Item, _ int) bool {
		return item.ID != target.ID
	})
	scored := lo.Map(others, func(item *entity.Item, _ int) scoredItem {
		return scoredItem{item: item, score: e.confusionScore(target, item)}
	})
	slices.SortStableFunc(scored, func(a, b scoredItem) int {
		return cmp.Compare(b.score, a.score)
	})
	if count > len(scored) {
		count = len(scored)
	}
	return lo.Map(scored[:count], func(s scoredItem, _ int) *entity.Item {
		return s.item
	})
}
