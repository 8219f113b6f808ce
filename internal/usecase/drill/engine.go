// Package drill implements the adaptive selection-and-scoring engine behind a practice session:
// which item to test next, which distractors to offer with it, how answers update item history,
// and when the pool counts as mastered.
//
// An Engine is not safe for concurrent use; callers serialise access per session.
package drill

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/vocdrill/internal/entity"
)

// Rand is the random source used for jitter and presentation order.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// Option customises an Engine at construction.
type Option func(*Engine)

// WithRand injects the random source, mainly so tests can be reproducible.
func WithRand(r Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithIDGenerator overrides how item and round ids are minted.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// Engine owns the items and rounds of one learning session. Items and rounds reference each
// other by id only; both stores are private and every accessor returns copies.
type Engine struct {
	cfg   Config
	rng   Rand
	newID func() string

	items     map[string]*entity.Item
	itemOrder []string

	rounds     map[string]*entity.Round
	roundOrder []string
}

// New builds an empty engine. The configuration is fixed for the engine's lifetime.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid drill config: %w", err)
	}
	e := &Engine{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		newID:  uuid.NewString,
		items:  make(map[string]*entity.Item),
		rounds: make(map[string]*entity.Round),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// AddItem registers a new prompt/answer pair and returns its id.
func (e *Engine) AddItem(prompt, answer string) string {
	item := &entity.Item{
		ID:     e.newID(),
		Prompt: prompt,
		Answer: answer,
		Peers:  make(map[string]entity.PeerExposure),
	}
	e.items[item.ID] = item
	e.itemOrder = append(e.itemOrder, item.ID)
	return item.ID
}

// Items returns copies of all items in insertion order.
func (e *Engine) Items() []entity.Item {
	return lo.Map(e.pool(), func(item *entity.Item, _ int) entity.Item {
		return item.Clone()
	})
}

// Item returns a copy of one item.
func (e *Engine) Item(id string) (entity.Item, error) {
	item, err := e.lookupItem(id)
	if err != nil {
		return entity.Item{}, err
	}
	return item.Clone(), nil
}

// Round returns a copy of one round.
func (e *Engine) Round(id string) (entity.Round, bool) {
	round, ok := e.rounds[id]
	if !ok {
		return entity.Round{}, false
	}
	return round.Clone(), true
}

// RoundCount is the number of rounds produced so far.
func (e *Engine) RoundCount() int {
	return len(e.roundOrder)
}

// ProduceRound picks the next target and its distractors, records the exposure, and returns the round.
func (e *Engine) ProduceRound(choiceCount int) (entity.Round, error) {
	if choiceCount < 1 {
		return entity.Round{}, entity.ErrInvalidChoiceCount
	}
	pool := e.pool()
	if len(pool) == 0 {
		return entity.Round{}, entity.ErrEmptyPool
	}
	if len(pool) < choiceCount {
		return entity.Round{}, fmt.Errorf("%w: %d items, %d choices", entity.ErrInsufficientPool, len(pool), choiceCount)
	}

	target := e.selectTarget(pool, choiceCount)
	distractors := e.selectDistractors(target, pool, choiceCount-1)

	choices := make([]string, 0, choiceCount)
	choices = append(choices, target.ID)
	for _, d := range distractors {
		choices = append(choices, d.ID)
	}
	e.rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	round := &entity.Round{
		ID:        e.newID(),
		Index:     len(e.roundOrder),
		TargetID:  target.ID,
		ChoiceIDs: choices,
	}
	e.rounds[round.ID] = round
	e.roundOrder = append(e.roundOrder, round.ID)

	target.ShownRounds = append(target.ShownRounds, round.ID)
	for _, d := range distractors {
		exposure := target.Peers[d.ID]
		exposure.Shown++
		target.Peers[d.ID] = exposure
	}

	return round.Clone(), nil
}

// RecordAnswer stores the learner's choice for a round and reports whether it was correct.
// Any id other than the target is a wrong answer charged to the (target, chosen) ledger entry,
// whether or not the round offered it. Repeating the same choice is a no-op returning the
// stored verdict; a different choice on an answered round fails with ErrRoundAnswered.
func (e *Engine) RecordAnswer(roundID, chosenID string) (bool, error) {
	round, ok := e.rounds[roundID]
	if !ok {
		return false, fmt.Errorf("%w: %s", entity.ErrUnknownRound, roundID)
	}
	if round.Answered() {
		if round.ChosenID == chosenID {
			return *round.Correct, nil
		}
		return false, fmt.Errorf("%w: %s", entity.ErrRoundAnswered, roundID)
	}

	correct := round.TargetID == chosenID
	round.ChosenID = chosenID
	round.Correct = &correct

	if !correct {
		target := e.items[round.TargetID]
		exposure := target.Peers[chosenID]
		exposure.Picked++
		target.Peers[chosenID] = exposure
	}
	return correct, nil
}

// Skip records a "don't know" for the round by charging it to the first offered distractor.
func (e *Engine) Skip(roundID string) (bool, error) {
	round, ok := e.rounds[roundID]
	if !ok {
		return false, fmt.Errorf("%w: %s", entity.ErrUnknownRound, roundID)
	}
	wrong, found := lo.Find(round.ChoiceIDs, func(id string) bool {
		return id != round.TargetID
	})
	if !found {
		return false, fmt.Errorf("%w: round %s has no distractor to charge", entity.ErrInvalidChoice, roundID)
	}
	return e.RecordAnswer(roundID, wrong)
}

// CanEndSession reports whether every item is both sufficiently exposed and below the need threshold.
// An empty pool trivially qualifies.
func (e *Engine) CanEndSession() bool {
	for _, item := range e.pool() {
		if item.TimesShown() < e.cfg.EndMinRounds {
			return false
		}
		if e.need(item) > e.cfg.EndNeedThreshold {
			return false
		}
	}
	return true
}

func (e *Engine) pool() []*entity.Item {
	return lo.Map(e.itemOrder, func(id string, _ int) *entity.Item {
		return e.items[id]
	})
}

func (e *Engine) lookupItem(id string) (*entity.Item, error) {
	item, ok := e.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnknownItem, id)
	}
	return item, nil
}

func (e *Engine) lastTargetID() string {
	if len(e.roundOrder) == 0 {
		return ""
	}
	return e.rounds[e.roundOrder[len(e.roundOrder)-1]].TargetID
}
