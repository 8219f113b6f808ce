package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/eslsoft/vocdrill/internal/entity"
	"github.com/eslsoft/vocdrill/internal/infrastructure/config"
	"github.com/eslsoft/vocdrill/internal/infrastructure/database"
	"github.com/eslsoft/vocdrill/internal/repository"
)

func newTestRepo(t *testing.T) *WordSetRepository {
	t.Helper()
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver: "sqlite3",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	}}
	logger, _ := test.NewNullLogger()
	db, cleanup, err := database.NewConnection(cfg, logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(cleanup)
	return NewWordSetRepository(db).(*WordSetRepository)
}

var base = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

func seedSet(t *testing.T, repo *WordSetRepository, id, name string, offset time.Duration, words ...entity.WordPair) *entity.WordSet {
	t.Helper()
	set := &entity.WordSet{
		ID:        id,
		Name:      name,
		Words:     words,
		CreatedAt: base.Add(offset),
		UpdatedAt: base.Add(offset),
	}
	created, err := repo.Create(context.Background(), set)
	if err != nil {
		t.Fatalf("create %s: %v", id, err)
	}
	return created
}

func TestWordSetRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	created := seedSet(t, repo, "set-1", "fruit", 0,
		entity.WordPair{Word: "apple", Meaning: "Apfel"},
		entity.WordPair{Word: "pear", Meaning: "Birne"},
	)

	if created.Name != "fruit" || !created.CreatedAt.Equal(base) {
		t.Fatalf("unexpected set %+v", created)
	}
	if len(created.Words) != 2 || created.Words[0].Word != "apple" || created.Words[1].Meaning != "Birne" {
		t.Fatalf("words lost or reordered: %+v", created.Words)
	}

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, entity.ErrWordSetNotFound) {
		t.Fatalf("expected ErrWordSetNotFound, got %v", err)
	}
}

func TestWordSetRepository_UpdateReplacesWords(t *testing.T) {
	repo := newTestRepo(t)
	set := seedSet(t, repo, "set-1", "fruit", 0, entity.WordPair{Word: "apple", Meaning: "Apfel"})

	set.Name = "obst"
	set.UpdatedAt = base.Add(time.Hour)
	set.Words = []entity.WordPair{{Word: "plum", Meaning: "Pflaume"}, {Word: "cherry", Meaning: "Kirsche"}}
	updated, err := repo.Update(context.Background(), set)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Name != "obst" || !updated.UpdatedAt.Equal(base.Add(time.Hour)) || !updated.CreatedAt.Equal(base) {
		t.Fatalf("unexpected update %+v", updated)
	}
	if len(updated.Words) != 2 || updated.Words[0].Word != "plum" {
		t.Fatalf("words not replaced: %+v", updated.Words)
	}

	set.ID = "missing"
	if _, err := repo.Update(context.Background(), set); !errors.Is(err, entity.ErrWordSetNotFound) {
		t.Fatalf("expected ErrWordSetNotFound, got %v", err)
	}
}

func TestWordSetRepository_List(t *testing.T) {
	repo := newTestRepo(t)
	seedSet(t, repo, "set-1", "german fruit", 0,
		entity.WordPair{Word: "apple", Meaning: "Apfel"},
		entity.WordPair{Word: "pear", Meaning: "Birne"},
		entity.WordPair{Word: "plum", Meaning: "Pflaume"},
		entity.WordPair{Word: "cherry", Meaning: "Kirsche"},
	)
	seedSet(t, repo, "set-2", "german colours", time.Hour, entity.WordPair{Word: "red", Meaning: "rot"})
	seedSet(t, repo, "set-3", "french fruit", 2*time.Hour, entity.WordPair{Word: "apple", Meaning: "pomme"})

	tests := []struct {
		name    string
		filter  string
		orderBy string
		want    []string
	}{
		{name: "default order is newest first", want: []string{"set-3", "set-2", "set-1"}},
		{name: "prefix", filter: "name.startsWith('german')", orderBy: "name", want: []string{"set-2", "set-1"}},
		{name: "exact name", filter: "name == 'french fruit'", want: []string{"set-3"}},
		{name: "updated since", filter: "updated_at >= timestamp('2025-05-01T10:00:00Z')", orderBy: "id", want: []string{"set-2", "set-3"}},
		{name: "size", filter: "size >= 4", want: []string{"set-1"}},
		{name: "in", filter: "id in ['set-1', 'set-3']", orderBy: "id desc", want: []string{"set-3", "set-1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			query := &repository.ListWordSetQuery{FilterOrder: repository.FilterOrder{Filter: tc.filter, OrderBy: tc.orderBy}}
			sets, total, err := repo.List(context.Background(), query)
			if err != nil {
				t.Fatalf("List error: %v", err)
			}
			if total != int64(len(tc.want)) || len(sets) != len(tc.want) {
				t.Fatalf("total=%d len=%d, want %d", total, len(sets), len(tc.want))
			}
			for i, id := range tc.want {
				if sets[i].ID != id {
					t.Fatalf("position %d: got %s want %s", i, sets[i].ID, id)
				}
			}
		})
	}

	query := &repository.ListWordSetQuery{Pagination: repository.Pagination{PageNo: 2, PageSize: 2}}
	sets, total, err := repo.List(context.Background(), query)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 3 || len(sets) != 1 || sets[0].ID != "set-1" || len(sets[0].Words) != 4 {
		t.Fatalf("unexpected second page: total=%d sets=%+v", total, sets)
	}

	bad := &repository.ListWordSetQuery{FilterOrder: repository.FilterOrder{Filter: "colour == 'red'"}}
	if _, _, err := repo.List(context.Background(), bad); !errors.Is(err, entity.ErrInvalidListQuery) {
		t.Fatalf("expected ErrInvalidListQuery, got %v", err)
	}
}

func TestWordSetRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)
	seedSet(t, repo, "set-1", "fruit", 0, entity.WordPair{Word: "apple", Meaning: "Apfel"})

	if err := repo.Delete(context.Background(), "set-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "set-1"); !errors.Is(err, entity.ErrWordSetNotFound) {
		t.Fatalf("expected deleted set to be gone, got %v", err)
	}
	if err := repo.Delete(context.Background(), "set-1"); !errors.Is(err, entity.ErrWordSetNotFound) {
		t.Fatalf("expected ErrWordSetNotFound on second delete, got %v", err)
	}

	var orphans int
	if err := repo.db.QueryRow(`SELECT COUNT(*) FROM word_set_words`).Scan(&orphans); err != nil {
		t.Fatalf("count words: %v", err)
	}
	if orphans != 0 {
		t.Fatalf("expected words to be removed, %d left", orphans)
	}
}
