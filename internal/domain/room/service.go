package room

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Service reads rooms through the cache. cache may be nil.
type Service struct {
	repo  Repository
	cache Cache
}

// NewService creates room service
func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// GetByID returns the room or ErrRoomNotFound. Cache failures fall back
// to the repository.
func (s *Service) GetByID(ctx context.Context, id int64) (*Room, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			log.Warn().Err(err).Int64("room_id", id).Msg("room cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	room, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, room); err != nil {
			log.Warn().Err(err).Int64("room_id", id).Msg("room cache write failed")
		}
	}
	return room, nil
}
