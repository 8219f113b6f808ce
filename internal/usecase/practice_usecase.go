package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/vocdrill/internal/entity"
	"github.com/eslsoft/vocdrill/internal/repository"
	"github.com/eslsoft/vocdrill/internal/usecase/drill"
)

// PracticeSession describes a freshly started drill over one word set.
type PracticeSession struct {
	ID        string
	WordSetID string
	ItemCount int
}

// PracticeChoice is one offered answer of a round.
type PracticeChoice struct {
	ItemID string
	Text   string
}

// PracticeRound is a round resolved into displayable text.
type PracticeRound struct {
	ID      string
	Index   int
	Prompt  string
	Choices []PracticeChoice
}

// AnswerResult is the verdict for an answered or skipped round.
type AnswerResult struct {
	Correct       bool
	CorrectItemID string
	CorrectAnswer string
	CanEnd        bool
}

// PracticeUsecase runs in-memory practice sessions on top of the drill engine.
type PracticeUsecase interface {
	Start(ctx context.Context, wordSetID string) (*PracticeSession, error)
	NextRound(ctx context.Context, sessionID string) (*PracticeRound, error)
	Answer(ctx context.Context, sessionID, roundID, chosenID string) (*AnswerResult, error)
	Skip(ctx context.Context, sessionID, roundID string) (*AnswerResult, error)
	Report(ctx context.Context, sessionID string) (drill.Report, error)
	// Finish returns the final report and forgets the session.
	Finish(ctx context.Context, sessionID string) (drill.Report, error)
}

// NewPracticeUsecase wires the word set repository with the engine configuration.
func NewPracticeUsecase(sets repository.WordSetRepository, cfg drill.Config, logger logrus.FieldLogger) PracticeUsecase {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &practiceUsecase{
		sets:     sets,
		cfg:      cfg,
		logger:   logger,
		newID:    uuid.NewString,
		sessions: make(map[string]*practiceSession),
	}
}

type practiceUsecase struct {
	sets       repository.WordSetRepository
	cfg        drill.Config
	logger     logrus.FieldLogger
	newID      func() string
	engineOpts []drill.Option

	mu       sync.RWMutex
	sessions map[string]*practiceSession
}

type practiceSession struct {
	mu        sync.Mutex
	wordSetID string
	engine    *drill.Engine
}

func (u *practiceUsecase) Start(ctx context.Context, wordSetID string) (*PracticeSession, error) {
	wordSetID = strings.TrimSpace(wordSetID)
	if wordSetID == "" {
		return nil, entity.ErrInvalidWordSetID
	}
	set, err := u.sets.GetByID(ctx, wordSetID)
	if err != nil {
		return nil, err
	}
	if len(set.Words) == 0 {
		return nil, entity.ErrEmptyPool
	}
	if len(set.Words) < u.cfg.ChoiceCount {
		return nil, fmt.Errorf("%w: %d words, %d choices", entity.ErrInsufficientPool, len(set.Words), u.cfg.ChoiceCount)
	}

	engine, err := drill.New(u.cfg, u.engineOpts...)
	if err != nil {
		return nil, err
	}
	for _, pair := range set.Words {
		engine.AddItem(pair.Word, pair.Meaning)
	}

	id := u.newID()
	u.mu.Lock()
	u.sessions[id] = &practiceSession{wordSetID: set.ID, engine: engine}
	u.mu.Unlock()

	u.logger.WithFields(logrus.Fields{
		"session":  id,
		"word_set": set.ID,
		"items":    len(set.Words),
	}).Info("practice session started")

	return &PracticeSession{ID: id, WordSetID: set.ID, ItemCount: len(set.Words)}, nil
}

func (u *practiceUsecase) NextRound(ctx context.Context, sessionID string) (*PracticeRound, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	session, err := u.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	round, err := session.engine.ProduceRound(u.cfg.ChoiceCount)
	if err != nil {
		return nil, err
	}
	target, err := session.engine.Item(round.TargetID)
	if err != nil {
		return nil, err
	}

	choices := make([]PracticeChoice, 0, len(round.ChoiceIDs))
	for _, id := range round.ChoiceIDs {
		item, err := session.engine.Item(id)
		if err != nil {
			return nil, err
		}
		choices = append(choices, PracticeChoice{ItemID: item.ID, Text: item.Answer})
	}

	return &PracticeRound{
		ID:      round.ID,
		Index:   round.Index,
		Prompt:  target.Prompt,
		Choices: choices,
	}, nil
}

func (u *practiceUsecase) Answer(ctx context.Context, sessionID, roundID, chosenID string) (*AnswerResult, error) {
	return u.resolve(ctx, sessionID, roundID, func(engine *drill.Engine) (bool, error) {
		// Learners can only pick what the round put in front of them.
		if round, ok := engine.Round(roundID); ok && !round.Offers(chosenID) {
			return false, fmt.Errorf("%w: %s", entity.ErrInvalidChoice, chosenID)
		}
		return engine.RecordAnswer(roundID, chosenID)
	})
}

func (u *practiceUsecase) Skip(ctx context.Context, sessionID, roundID string) (*AnswerResult, error) {
	return u.resolve(ctx, sessionID, roundID, func(engine *drill.Engine) (bool, error) {
		return engine.Skip(roundID)
	})
}

func (u *practiceUsecase) resolve(ctx context.Context, sessionID, roundID string, record func(*drill.Engine) (bool, error)) (*AnswerResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	session, err := u.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	correct, err := record(session.engine)
	if err != nil {
		return nil, err
	}
	round, ok := session.engine.Round(roundID)
	if !ok {
		return nil, entity.ErrUnknownRound
	}
	target, err := session.engine.Item(round.TargetID)
	if err != nil {
		return nil, err
	}

	return &AnswerResult{
		Correct:       correct,
		CorrectItemID: target.ID,
		CorrectAnswer: target.Answer,
		CanEnd:        session.engine.CanEndSession(),
	}, nil
}

func (u *practiceUsecase) Report(ctx context.Context, sessionID string) (drill.Report, error) {
	if err := ctx.Err(); err != nil {
		return drill.Report{}, err
	}
	session, err := u.session(sessionID)
	if err != nil {
		return drill.Report{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.engine.Report(), nil
}

func (u *practiceUsecase) Finish(ctx context.Context, sessionID string) (drill.Report, error) {
	report, err := u.Report(ctx, sessionID)
	if err != nil {
		return drill.Report{}, err
	}

	u.mu.Lock()
	session, ok := u.sessions[sessionID]
	delete(u.sessions, sessionID)
	u.mu.Unlock()

	if ok {
		u.logger.WithFields(logrus.Fields{
			"session":  sessionID,
			"word_set": session.wordSetID,
			"rounds":   report.Rounds,
			"accuracy": report.AverageAccuracy,
			"mastered": len(lo.Filter(report.Items, func(s drill.ItemStats, _ int) bool { return s.Need <= u.cfg.EndNeedThreshold })),
		}).Info("practice session finished")
	}
	return report, nil
}

func (u *practiceUsecase) session(id string) (*practiceSession, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	session, ok := u.sessions[strings.TrimSpace(id)]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return session, nil
}
