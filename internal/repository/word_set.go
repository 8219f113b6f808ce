package repository

import (
	"context"

	"github.com/eslsoft/vocdrill/internal/entity"
)

// ListWordSetQuery holds parameters for listing word sets.
type ListWordSetQuery struct {
	Pagination
	FilterOrder
}

// WordSetRepository abstracts persistence for word sets to keep usecases storage agnostic.
type WordSetRepository interface {
	Create(ctx context.Context, set *entity.WordSet) (*entity.WordSet, error)
	Update(ctx context.Context, set *entity.WordSet) (*entity.WordSet, error)
	GetByID(ctx context.Context, id string) (*entity.WordSet, error)
	List(ctx context.Context, query *ListWordSetQuery) ([]entity.WordSet, int64, error)
	Delete(ctx context.Context, id string) error
}
