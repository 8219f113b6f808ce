package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/vocdrill/internal/entity"
	"github.com/eslsoft/vocdrill/internal/infrastructure/database"
	"github.com/eslsoft/vocdrill/internal/repository"
	"github.com/eslsoft/vocdrill/pkg/filterexpr"
)

type WordSetRepository struct {
	db *database.DB
}

// NewWordSetRepository constructs a database/sql backed repository.
func NewWordSetRepository(db *database.DB) repository.WordSetRepository {
	return &WordSetRepository{db: db}
}

type wordRow struct {
	SetID   string
	Word    string
	Meaning string
}

func (r *WordSetRepository) Create(ctx context.Context, set *entity.WordSet) (*entity.WordSet, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.q(`INSERT INTO word_sets (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`),
			set.ID, set.Name, set.CreatedAt.UTC(), set.UpdatedAt.UTC()); err != nil {
			return fmt.Errorf("insert word set: %w", err)
		}
		return r.insertWords(ctx, tx, set.ID, set.Words)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, set.ID)
}

func (r *WordSetRepository) Update(ctx context.Context, set *entity.WordSet) (*entity.WordSet, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, r.q(`UPDATE word_sets SET name = ?, updated_at = ? WHERE id = ?`),
			set.Name, set.UpdatedAt.UTC(), set.ID)
		if err != nil {
			return fmt.Errorf("update word set: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return entity.ErrWordSetNotFound
		}
		if _, err := tx.ExecContext(ctx, r.q(`DELETE FROM word_set_words WHERE word_set_id = ?`), set.ID); err != nil {
			return fmt.Errorf("clear words: %w", err)
		}
		return r.insertWords(ctx, tx, set.ID, set.Words)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, set.ID)
}

func (r *WordSetRepository) GetByID(ctx context.Context, id string) (*entity.WordSet, error) {
	row := r.db.QueryRowContext(ctx, r.q(`SELECT id, name, created_at, updated_at FROM word_sets WHERE id = ?`), id)
	set, err := scanWordSet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrWordSetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get word set: %w", err)
	}

	words, err := r.loadWords(ctx, []string{set.ID})
	if err != nil {
		return nil, err
	}
	set.Words = wordPairs(words[set.ID])
	return &set, nil
}

func (r *WordSetRepository) List(ctx context.Context, query *repository.ListWordSetQuery) ([]entity.WordSet, int64, error) {
	if query == nil {
		query = &repository.ListWordSetQuery{}
	}
	query.Normalize()

	compiled, err := filterexpr.Compile(query, listWordSetsSchema)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", entity.ErrInvalidListQuery, err)
	}
	where, args := compiled.Where()
	if where != "" {
		where = " WHERE " + where
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, r.q(`SELECT COUNT(*) FROM word_sets ws`+where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count word sets: %w", err)
	}

	stmt := `SELECT ws.id, ws.name, ws.created_at, ws.updated_at FROM word_sets ws` + where +
		` ORDER BY ` + compiled.OrderBy() + ` LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, r.q(stmt), append(args, query.PageSize, query.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list word sets: %w", err)
	}
	defer rows.Close()

	var sets []entity.WordSet
	for rows.Next() {
		set, err := scanWordSet(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan word set: %w", err)
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate word sets: %w", err)
	}

	words, err := r.loadWords(ctx, lo.Map(sets, func(s entity.WordSet, _ int) string { return s.ID }))
	if err != nil {
		return nil, 0, err
	}
	for i := range sets {
		sets[i].Words = wordPairs(words[sets[i].ID])
	}
	return sets, total, nil
}

func (r *WordSetRepository) Delete(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.q(`DELETE FROM word_set_words WHERE word_set_id = ?`), id); err != nil {
			return fmt.Errorf("delete words: %w", err)
		}
		res, err := tx.ExecContext(ctx, r.q(`DELETE FROM word_sets WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete word set: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return entity.ErrWordSetNotFound
		}
		return nil
	})
}

func (r *WordSetRepository) insertWords(ctx context.Context, tx *sql.Tx, setID string, words []entity.WordPair) error {
	if len(words) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, r.q(`INSERT INTO word_set_words (word_set_id, position, word, meaning) VALUES (?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare word insert: %w", err)
	}
	defer stmt.Close()
	for i, pair := range words {
		if _, err := stmt.ExecContext(ctx, setID, i, pair.Word, pair.Meaning); err != nil {
			return fmt.Errorf("insert word %q: %w", pair.Word, err)
		}
	}
	return nil
}

func (r *WordSetRepository) loadWords(ctx context.Context, setIDs []string) (map[string][]wordRow, error) {
	if len(setIDs) == 0 {
		return map[string][]wordRow{}, nil
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(setIDs)), ", ")
	stmt := `SELECT word_set_id, word, meaning FROM word_set_words WHERE word_set_id IN (` + marks + `) ORDER BY word_set_id, position`
	rows, err := r.db.QueryContext(ctx, r.q(stmt), lo.ToAnySlice(setIDs)...)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	defer rows.Close()

	var all []wordRow
	for rows.Next() {
		var w wordRow
		if err := rows.Scan(&w.SetID, &w.Word, &w.Meaning); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		all = append(all, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate words: %w", err)
	}
	return lo.GroupBy(all, func(w wordRow) string { return w.SetID }), nil
}

func (r *WordSetRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *WordSetRepository) q(query string) string {
	return r.db.Dialect.Rebind(query)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWordSet(s scanner) (entity.WordSet, error) {
	var (
		set       entity.WordSet
		createdAt time.Time
		updatedAt time.Time
	)
	if err := s.Scan(&set.ID, &set.Name, &createdAt, &updatedAt); err != nil {
		return entity.WordSet{}, err
	}
	set.CreatedAt = createdAt.UTC()
	set.UpdatedAt = updatedAt.UTC()
	return set, nil
}

func wordPairs(rows []wordRow) []entity.WordPair {
	return lo.Map(rows, func(w wordRow, _ int) entity.WordPair {
		return entity.WordPair{Word: w.Word, Meaning: w.Meaning}
	})
}
