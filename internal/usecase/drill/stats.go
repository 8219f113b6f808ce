package drill

import (
	"cmp"
	"slices"

	"github.com/eslsoft/vocdrill/internal/entity"
)

// distractorScoreScale stretches the mean confusion score into a range that reads well next to the other columns.
const distractorScoreScale = 10

// ItemStats is a per-item snapshot for reporting.
type ItemStats struct {
	ID            string  `json:"id"`
	Prompt        string  `json:"prompt"`
	Answer        string  `json:"answer"`
	Shown         int     `json:"shown"`
	Correct       int     `json:"correct"`
	Wrong         int     `json:"wrong"`
	Accuracy      float64 `json:"accuracy"`
	CorrectStreak int     `json:"correct_streak"`
	WrongStreak   int     `json:"wrong_streak"`
	Need          float64 `json:"need"`
	// AnswerScore is the target-selection score, jitter included.
	AnswerScore float64 `json:"answer_score"`
	// DistractorScore is how strongly this item is pulled in as a distractor for the rest of the pool.
	DistractorScore float64 `json:"distractor_score"`
}

// Report summarises the whole session.
type Report struct {
	Items           []ItemStats `json:"items"`
	Rounds          int         `json:"rounds"`
	AverageAccuracy float64     `json:"average_accuracy"`
	AverageNeed     float64     `json:"average_need"`
	CanEnd          bool        `json:"can_end"`
}

// Stats returns the reporting snapshot for a single item.
// AnswerScore and DistractorScore draw jitter from the engine's Rand, so calling Stats advances the random source.
func (e *Engine) Stats(itemID string) (ItemStats, error) {
	item, err := e.lookupItem(itemID)
	if err != nil {
		return ItemStats{}, err
	}
	return e.stats(item), nil
}

// Report returns statistics for every item, neediest first.
// Each item's AnswerScore and DistractorScore draw fresh jitter from the engine's Rand. A report taken mid-session
// therefore shifts the draws later ProduceRound calls see, even with a seeded source.
func (e *Engine) Report() Report {
	pool := e.pool()
	report := Report{
		Items:  make([]ItemStats, 0, len(pool)),
		Rounds: e.RoundCount(),
		CanEnd: e.CanEndSession(),
	}
	if len(pool) == 0 {
		return report
	}

	var accuracy, need float64
	for _, item := range pool {
		s := e.stats(item)
		accuracy += s.Accuracy
		need += s.Need
		report.Items = append(report.Items, s)
	}
	report.AverageAccuracy = accuracy / float64(len(pool))
	report.AverageNeed = need / float64(len(pool))

	slices.SortStableFunc(report.Items, func(a, b ItemStats) int {
		return cmp.Compare(b.Need, a.Need)
	})
	return report
}

func (e *Engine) stats(item *entity.Item) ItemStats {
	shown := item.TimesShown()
	correct := e.correctCount(item)
	s := ItemStats{
		ID:            item.ID,
		Prompt:        item.Prompt,
		Answer:        item.Answer,
		Shown:         shown,
		Correct:       correct,
		Wrong:         shown - correct,
		CorrectStreak: e.correctStreak(item),
		WrongStreak:   e.wrongStreak(item),
		Need:          e.need(item),
		AnswerScore:   e.pickScore(item),
	}
	if shown > 0 {
		s.Accuracy = float64(correct) / float64(shown)
	}

	var total float64
	others := 0
	for _, other := range e.pool() {
		if other.ID == item.ID {
			continue
		}
		total += e.confusionScore(other, item)
		others++
	}
	if others > 0 {
		s.DistractorScore = total / float64(others) * distractorScoreScale
	}
	return s
}
