package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"github.com/mgeorge46/entebbe/internal/maintenance/repository"
	"github.com/redis/go-redis/v9"
)

// ResolverService resolves any component to its owning aircraft by walking
// parent links up the tree. Results are cached in redis because the walk is
// up to four reads and dashboard pages resolve in bulk; reparenting within
// the TTL serves a stale owner, which the callers tolerate.
type ResolverService struct {
	componentRepo *repository.ComponentRepository
	aircraftRepo  *repository.AircraftRepository
	rdb           *redis.Client
	ttl           time.Duration
}

func NewResolverService(componentRepo *repository.ComponentRepository, aircraftRepo *repository.AircraftRepository, rdb *redis.Client, ttl time.Duration) *ResolverService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResolverService{
		componentRepo: componentRepo,
		aircraftRepo:  aircraftRepo,
		rdb:           rdb,
		ttl:           ttl,
	}
}

func (s *ResolverService) cacheKey(componentType entity.ComponentType, componentID string) string {
	return fmt.Sprintf("resolver:aircraft:%s:%s", componentType, componentID)
}

// ResolveAircraftID returns the id of the aircraft owning the referenced
// component. A level-N component takes N parent hops to reach the level-0
// row carrying the aircraft id.
func (s *ResolverService) ResolveAircraftID(ctx context.Context, componentType entity.ComponentType, componentID string) (string, error) {
	if !componentType.Valid() {
		return "", ErrInvalidComponentType
	}

	key := s.cacheKey(componentType, componentID)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil && cached != "" {
			return cached, nil
		}
	}

	component, err := s.componentRepo.FindByTypeAndID(ctx, componentType, componentID)
	if err != nil {
		if err == repository.ErrNotFound {
			return "", ErrComponentNotFound
		}
		return "", err
	}

	for component.Level > 0 {
		if component.ParentID == nil || *component.ParentID == "" {
			return "", ErrDetachedFromTree
		}
		component, err = s.componentRepo.FindByID(ctx, *component.ParentID)
		if err != nil {
			if err == repository.ErrNotFound {
				return "", ErrDetachedFromTree
			}
			return "", err
		}
	}
	if component.AircraftID == nil || *component.AircraftID == "" {
		return "", ErrDetachedFromTree
	}

	aircraftID := *component.AircraftID
	if s.rdb != nil {
		s.rdb.Set(ctx, key, aircraftID, s.ttl)
	}
	return aircraftID, nil
}

// ResolveAircraft resolves the owning aircraft record itself.
func (s *ResolverService) ResolveAircraft(ctx context.Context, componentType entity.ComponentType, componentID string) (*entity.Aircraft, error) {
	aircraftID, err := s.ResolveAircraftID(ctx, componentType, componentID)
	if err != nil {
		return nil, err
	}
	aircraft, err := s.aircraftRepo.FindByID(ctx, aircraftID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrAircraftNotFound
		}
		return nil, err
	}
	return aircraft, nil
}

// Invalidate drops a component's cache entry. Called on reparenting.
func (s *ResolverService) Invalidate(ctx context.Context, componentType entity.ComponentType, componentID string) {
	if s.rdb != nil {
		s.rdb.Del(ctx, s.cacheKey(componentType, componentID))
	}
}
