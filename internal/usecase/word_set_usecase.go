package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/vocdrill/internal/entity"
	"github.com/eslsoft/vocdrill/internal/repository"
)

// WordSetUsecase encapsulates business logic for managing saved word sets.
type WordSetUsecase interface {
	CreateWordSet(ctx context.Context, name string, words []entity.WordPair) (*entity.WordSet, error)
	// UpdateWordSet renames the set when name is non-empty and replaces its words when words is non-nil.
	UpdateWordSet(ctx context.Context, id, name string, words []entity.WordPair) (*entity.WordSet, error)
	GetWordSet(ctx context.Context, id string) (*entity.WordSet, error)
	ListWordSets(ctx context.Context, query *repository.ListWordSetQuery) ([]entity.WordSet, int64, error)
	DeleteWordSet(ctx context.Context, id string) error
}

// NewWordSetUsecase wires the repository with default behaviour.
func NewWordSetUsecase(repo repository.WordSetRepository) WordSetUsecase {
	return &wordSetUsecase{
		repo:  repo,
		clock: time.Now,
		newID: uuid.NewString,
	}
}

type wordSetUsecase struct {
	repo  repository.WordSetRepository
	clock func() time.Time
	newID func() string
}

func (u *wordSetUsecase) CreateWordSet(ctx context.Context, name string, words []entity.WordPair) (*entity.WordSet, error) {
	set := &entity.WordSet{
		ID:    u.newID(),
		Name:  name,
		Words: words,
	}
	set.Normalize(u.clock().UTC())
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return u.repo.Create(ctx, set)
}

func (u *wordSetUsecase) UpdateWordSet(ctx context.Context, id, name string, words []entity.WordPair) (*entity.WordSet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, entity.ErrInvalidWordSetID
	}

	existing, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) != "" {
		existing.Name = name
	}
	if words != nil {
		existing.Words = words
	}
	existing.Normalize(u.clock().UTC())
	if err := existing.Validate(); err != nil {
		return nil, err
	}
	return u.repo.Update(ctx, existing)
}

func (u *wordSetUsecase) GetWordSet(ctx context.Context, id string) (*entity.WordSet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, entity.ErrInvalidWordSetID
	}
	return u.repo.GetByID(ctx, id)
}

func (u *wordSetUsecase) ListWordSets(ctx context.Context, query *repository.ListWordSetQuery) ([]entity.WordSet, int64, error) {
	if query == nil {
		query = &repository.ListWordSetQuery{}
	}
	query.Normalize()
	return u.repo.List(ctx, query)
}

func (u *wordSetUsecase) DeleteWordSet(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return entity.ErrInvalidWordSetID
	}
	return u.repo.Delete(ctx, id)
}
