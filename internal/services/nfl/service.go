// Package nfl serves reshaped NFL box scores from the sports data vendor.
package nfl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/singleflight"

	domainerrors "gridiron/internal/errors"
	"gridiron/internal/logger/sl"
	"gridiron/internal/sportsdata"
)

// BoxScoreFetcher is the vendor call the service depends on.
type BoxScoreFetcher interface {
	BoxScore(ctx context.Context, scoreID int) (*sportsdata.BoxScore, error)
}

// SharedCache is the redis layer shared between instances.
type SharedCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type Service interface {
	// Game validates rawID and returns the reshaped box score for it.
	Game(ctx context.Context, rawID string) (*Game, error)
}

// TTLs by game state.
type TTLs struct {
	Final     time.Duration
	Live      time.Duration
	Scheduled time.Duration
}

func (t TTLs) forState(state string) time.Duration {
	switch state {
	case StateFinal:
		return t.Final
	case StateInProgress:
		return t.Live
	default:
		return t.Scheduled
	}
}

type service struct {
	vendor BoxScoreFetcher
	shared SharedCache
	local  *gocache.Cache
	group  singleflight.Group
	ttls   TTLs
	log    *slog.Logger
}

// NewService creates the game service. shared may be nil to run on the
// in-process cache only.
func NewService(vendor BoxScoreFetcher, shared SharedCache, ttls TTLs, log *slog.Logger) Service {
	if vendor == nil {
		panic("sports data client is required")
	}
	if ttls.Final == 0 {
		ttls.Final = 24 * time.Hour
	}
	if ttls.Live == 0 {
		ttls.Live = 30 * time.Second
	}
	if ttls.Scheduled == 0 {
		ttls.Scheduled = 5 * time.Minute
	}

	return &service{
		vendor: vendor,
		shared: shared,
		local:  gocache.New(ttls.Scheduled, 10*time.Minute),
		ttls:   ttls,
		log:    log,
	}
}

func (s *service) Game(ctx context.Context, rawID string) (*Game, error) {
	const op = "nfl.Game"

	id, err := ParseGameID(rawID)
	if err != nil {
		return nil, err
	}

	key := cacheKey(id)
	if game, ok := s.local.Get(key); ok {
		return game.(*Game), nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.load(ctx, id)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v.(*Game), nil
}

func (s *service) load(ctx context.Context, id int) (*Game, error) {
	const op = "nfl.load"
	log := s.log.With(sl.Op(op), slog.Int("game_id", id))
	key := cacheKey(id)

	if s.shared != nil {
		var cached Game
		found, err := s.shared.Get(ctx, key, &cached)
		if err != nil {
			log.Warn("shared cache read failed", sl.Err(err))
		}
		if found {
			s.local.Set(key, &cached, s.ttls.forState(cached.Game.State))
			return &cached, nil
		}
	}

	box, err := s.vendor.BoxScore(ctx, id)
	if err != nil {
		mapped := mapVendorError(err)
		log.Error("box score fetch failed", sl.Err(err), slog.Int("status", domainerrors.HTTPStatus(mapped)))
		return nil, mapped
	}

	game := Reshape(box)
	ttl := s.ttls.forState(game.Game.State)

	s.local.Set(key, game, ttl)
	if s.shared != nil {
		if err := s.shared.SetWithTTL(ctx, key, game, ttl); err != nil {
			log.Warn("shared cache write failed", sl.Err(err))
		}
	}

	log.Debug("box score loaded", slog.String("state", game.Game.State), slog.Duration("ttl", ttl))
	return game, nil
}

// ParseGameID accepts only positive base-10 integers.
func ParseGameID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 || strings.HasPrefix(raw, "+") {
		return 0, domainerrors.ErrInvalidGameID
	}
	return id, nil
}

func cacheKey(id int) string {
	return "nfl:game:" + strconv.Itoa(id)
}

// mapVendorError converts vendor failures into the status the API passes through.
func mapVendorError(err error) error {
	if errors.Is(err, sportsdata.ErrNotFound) {
		return domainerrors.ErrGameNotFound
	}

	var apiErr *sportsdata.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusBadRequest:
			return domainerrors.ErrSportsDataBadRequest
		case apiErr.StatusCode == http.StatusUnauthorized, apiErr.StatusCode == http.StatusForbidden:
			return domainerrors.ErrSportsDataUnauthorized
		case apiErr.StatusCode == http.StatusNotFound:
			return domainerrors.ErrGameNotFound
		case apiErr.IsRetryable():
			return domainerrors.ErrSportsDataUnavailable
		default:
			return domainerrors.ErrSportsDataFailed
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return domainerrors.ErrSportsDataFailed
	}

	// transport failures, timeouts and cancellations
	return domainerrors.ErrSportsDataUnavailable
}
