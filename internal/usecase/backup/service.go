// Package backup streams word sets to and from newline-delimited JSON.
//
// A backup starts with a meta record followed by one record per word set:
//
//	{"type":"meta","version":1,"exported_at":"...","count":2}
//	{"type":"word_set","payload":{"id":"...","name":"fruit","words":[...]}}
package backup

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/eslsoft/vocdrill/internal/entity"
	"github.com/eslsoft/vocdrill/internal/repository"
)

const (
	defaultBatchSize = 512
	formatVersion    = 1

	recordMeta    = "meta"
	recordWordSet = "word_set"
)

// ProgressReporter receives callbacks while records are streamed.
type ProgressReporter interface {
	Start(total int)
	Increment(delta int)
	Finish()
}

type noopProgress struct{}

func (noopProgress) Start(int)     {}
func (noopProgress) Increment(int) {}
func (noopProgress) Finish()       {}

type Service struct {
	repo      repository.WordSetRepository
	batchSize int
	clock     func() time.Time
}

type Option func(*Service)

func WithBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// NewService constructs a backup service reading and writing through repo.
func NewService(repo repository.WordSetRepository, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("backup: repository is required")
	}
	svc := &Service{
		repo:      repo,
		batchSize: defaultBatchSize,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

type ExportOption func(*exportConfig)

type exportConfig struct {
	filter   string
	reporter ProgressReporter
}

// WithFilter restricts export to word sets matching a list filter expression.
func WithFilter(filter string) ExportOption {
	return func(cfg *exportConfig) {
		cfg.filter = filter
	}
}

// WithProgressReporter registers a reporter that receives progress callbacks during export.
func WithProgressReporter(reporter ProgressReporter) ExportOption {
	return func(cfg *exportConfig) {
		cfg.reporter = reporter
	}
}

type ImportOption func(*importConfig)

type importConfig struct {
	skipExisting bool
}

// WithSkipExisting keeps stored word sets untouched instead of overwriting them.
func WithSkipExisting(skip bool) ImportOption {
	return func(cfg *importConfig) {
		cfg.skipExisting = skip
	}
}

// ImportResult counts what an import did.
type ImportResult struct {
	Created int
	Updated int
	Skipped int
}

type record struct {
	Type       string     `json:"type"`
	Version    int        `json:"version,omitempty"`
	ExportedAt *time.Time `json:"exported_at,omitempty"`
	Count      int        `json:"count,omitempty"`
	Payload    any        `json:"payload,omitempty"`
}

type rawRecord struct {
	Type       string          `json:"type"`
	Version    int             `json:"version"`
	ExportedAt *time.Time      `json:"exported_at"`
	Count      int             `json:"count"`
	Payload    json.RawMessage `json:"payload"`
}

type wordSetPayload struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Words     []entity.WordPair `json:"words"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (s *Service) Export(ctx context.Context, w io.Writer, opts ...ExportOption) error {
	cfg := exportConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	reporter := cfg.reporter
	if reporter == nil {
		reporter = noopProgress{}
	}

	first, total, err := s.page(ctx, cfg.filter, 1)
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(w)
	defer writer.Flush()

	now := s.clock().UTC()
	meta := record{
		Type:       recordMeta,
		Version:    formatVersion,
		ExportedAt: &now,
		Count:      int(total),
	}
	if err := writeRecord(writer, meta); err != nil {
		return err
	}

	reporter.Start(int(total))
	batch := first
	for page := int32(1); len(batch) > 0; page++ {
		for _, set := range batch {
			if err := writeRecord(writer, record{Type: recordWordSet, Payload: toPayload(set)}); err != nil {
				return err
			}
			reporter.Increment(1)
		}
		if len(batch) < s.batchSize {
			break
		}
		if batch, _, err = s.page(ctx, cfg.filter, page+1); err != nil {
			return err
		}
	}
	reporter.Finish()
	return writer.Flush()
}

func (s *Service) page(ctx context.Context, filter string, pageNo int32) ([]entity.WordSet, int64, error) {
	query := &repository.ListWordSetQuery{
		Pagination:  repository.Pagination{PageNo: pageNo, PageSize: int32(s.batchSize)},
		FilterOrder: repository.FilterOrder{Filter: filter, OrderBy: "id"},
	}
	sets, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("list word sets: %w", err)
	}
	return sets, total, nil
}

func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) (ImportResult, error) {
	cfg := importConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		result   ImportResult
		metaSeen bool
	)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return result, fmt.Errorf("read backup: %w", err)
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			var rec rawRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				return result, fmt.Errorf("decode record: %w", err)
			}

			switch rec.Type {
			case recordMeta:
				if rec.Version != formatVersion {
					return result, fmt.Errorf("backup: unsupported format version %d", rec.Version)
				}
				metaSeen = true
			case recordWordSet:
				if !metaSeen {
					return result, errors.New("backup: missing meta record")
				}
				if len(rec.Payload) == 0 {
					return result, errors.New("backup: missing payload for word set")
				}
				if err := s.importWordSet(ctx, rec.Payload, cfg, &result); err != nil {
					return result, err
				}
			default:
				// Unknown record types come from newer writers; skip them.
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}

	if !metaSeen {
		return result, errors.New("backup: missing meta record")
	}
	return result, nil
}

func (s *Service) importWordSet(ctx context.Context, raw json.RawMessage, cfg importConfig, result *ImportResult) error {
	var payload wordSetPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("decode word set: %w", err)
	}
	set := fromPayload(payload)
	set.Normalize(s.clock().UTC())
	if !payload.UpdatedAt.IsZero() {
		set.UpdatedAt = payload.UpdatedAt.UTC()
	}
	if set.ID == "" {
		return fmt.Errorf("backup: word set %q has no id", set.Name)
	}
	if err := set.Validate(); err != nil {
		return fmt.Errorf("backup: word set %s: %w", set.ID, err)
	}

	_, err := s.repo.GetByID(ctx, set.ID)
	switch {
	case errors.Is(err, entity.ErrWordSetNotFound):
		if _, err := s.repo.Create(ctx, set); err != nil {
			return fmt.Errorf("create word set %s: %w", set.ID, err)
		}
		result.Created++
	case err != nil:
		return fmt.Errorf("lookup word set %s: %w", set.ID, err)
	case cfg.skipExisting:
		result.Skipped++
	default:
		if _, err := s.repo.Update(ctx, set); err != nil {
			return fmt.Errorf("update word set %s: %w", set.ID, err)
		}
		result.Updated++
	}
	return nil
}

func toPayload(set entity.WordSet) wordSetPayload {
	return wordSetPayload{
		ID:        set.ID,
		Name:      set.Name,
		Words:     set.Words,
		CreatedAt: set.CreatedAt.UTC(),
		UpdatedAt: set.UpdatedAt.UTC(),
	}
}

func fromPayload(p wordSetPayload) *entity.WordSet {
	return &entity.WordSet{
		ID:        p.ID,
		Name:      p.Name,
		Words:     p.Words,
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
	}
}

func writeRecord(w io.Writer, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return err
	}
	return nil
}
