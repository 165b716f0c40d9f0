// Package projection imports analyst projections and draft rankings and
// serves them back sorted for draft prep.
package projection

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/exp/slog"

	domainerrors "gridiron/internal/errors"
	"gridiron/internal/logger/sl"
	"gridiron/internal/models"
	"gridiron/internal/repositories"
)

// ListCacheTTL bounds how long a list page is served from memory. Imports
// run by gridctl only flush the CLI's own copy, so the API catches up after
// at most this long.
const ListCacheTTL = 30 * time.Second

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

var positions = map[string]bool{"QB": true, "RB": true, "WR": true, "TE": true, "K": true, "DST": true}

type Service interface {
	ImportProjections(ctx context.Context, source string, r io.Reader) (int, error)
	ImportRankings(ctx context.Context, source string, r io.Reader) (int, error)
	ListProjections(ctx context.Context, filter repositories.ProjectionFilter) ([]models.Projection, int64, error)
	ListRankings(ctx context.Context, filter repositories.ProjectionFilter) ([]models.Ranking, int64, error)
}

type service struct {
	repo  repositories.ProjectionRepository
	lists *gocache.Cache
	log   *slog.Logger
}

type Option func(*options)

type options struct {
	listTTL time.Duration
}

// WithListCacheTTL overrides ListCacheTTL. Zero or less disables the cache.
func WithListCacheTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.listTTL = ttl
	}
}

func NewService(repo repositories.ProjectionRepository, log *slog.Logger, opts ...Option) Service {
	if repo == nil {
		panic("projection repository is required")
	}
	o := options{listTTL: ListCacheTTL}
	for _, opt := range opts {
		opt(&o)
	}

	var lists *gocache.Cache
	if o.listTTL > 0 {
		lists = gocache.New(o.listTTL, 2*o.listTTL)
	}
	return &service{
		repo:  repo,
		lists: lists,
		log:   log,
	}
}

func (s *service) ImportProjections(ctx context.Context, source string, r io.Reader) (int, error) {
	const op = "projection.ImportProjections"

	source, err := normalizeSource(source)
	if err != nil {
		return 0, err
	}
	rows, err := ParseProjections(r)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(rows) == 0 {
		return 0, domainerrors.ErrInvalidInput.WithMessage("no projection rows found")
	}
	for i := range rows {
		rows[i].Source = source
	}

	if err := s.repo.ReplaceProjections(ctx, source, rows); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.flush()

	s.log.Info("projections imported", sl.Op(op), slog.String("source", source), slog.Int("rows", len(rows)))
	return len(rows), nil
}

func (s *service) ImportRankings(ctx context.Context, source string, r io.Reader) (int, error) {
	const op = "projection.ImportRankings"

	source, err := normalizeSource(source)
	if err != nil {
		return 0, err
	}
	rows, err := ParseRankings(r)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(rows) == 0 {
		return 0, domainerrors.ErrInvalidInput.WithMessage("no ranking rows found")
	}
	for i := range rows {
		rows[i].Source = source
	}

	if err := s.repo.ReplaceRankings(ctx, source, rows); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.flush()

	s.log.Info("rankings imported", sl.Op(op), slog.String("source", source), slog.Int("rows", len(rows)))
	return len(rows), nil
}

type projectionPage struct {
	rows  []models.Projection
	total int64
}

type rankingPage struct {
	rows  []models.Ranking
	total int64
}

func (s *service) ListProjections(ctx context.Context, filter repositories.ProjectionFilter) ([]models.Projection, int64, error) {
	const op = "projection.ListProjections"

	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, 0, err
	}
	key := "projections:" + filterKey(filter)
	if page, ok := s.cached(key); ok {
		p := page.(projectionPage)
		return p.rows, p.total, nil
	}

	rows, total, err := s.repo.ListProjections(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	s.store(key, projectionPage{rows: rows, total: total})
	return rows, total, nil
}

func (s *service) ListRankings(ctx context.Context, filter repositories.ProjectionFilter) ([]models.Ranking, int64, error) {
	const op = "projection.ListRankings"

	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, 0, err
	}
	key := "rankings:" + filterKey(filter)
	if page, ok := s.cached(key); ok {
		p := page.(rankingPage)
		return p.rows, p.total, nil
	}

	rows, total, err := s.repo.ListRankings(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	s.store(key, rankingPage{rows: rows, total: total})
	return rows, total, nil
}

func (s *service) cached(key string) (interface{}, bool) {
	if s.lists == nil {
		return nil, false
	}
	return s.lists.Get(key)
}

func (s *service) store(key string, page interface{}) {
	if s.lists != nil {
		s.lists.SetDefault(key, page)
	}
}

func (s *service) flush() {
	if s.lists != nil {
		s.lists.Flush()
	}
}

func normalizeSource(source string) (string, error) {
	source = strings.ToLower(strings.TrimSpace(source))
	if source == "" {
		return "", domainerrors.ErrInvalidInput.WithMessage("source is required")
	}
	return source, nil
}

func normalizeFilter(f repositories.ProjectionFilter) (repositories.ProjectionFilter, error) {
	f.Source = strings.ToLower(strings.TrimSpace(f.Source))
	f.Position = strings.ToUpper(strings.TrimSpace(f.Position))
	if f.Position != "" && !positions[f.Position] {
		return f, domainerrors.ErrInvalidInput.WithMessage("unknown position %q", f.Position)
	}
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f, nil
}

func filterKey(f repositories.ProjectionFilter) string {
	return fmt.Sprintf("%s|%s|%d|%d", f.Source, f.Position, f.Limit, f.Offset)
}
