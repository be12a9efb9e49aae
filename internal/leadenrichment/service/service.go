// Package service provides firm enrichment lookups with caching.
package service

import (
	"context"
	"strings"
	"time"

	"leadrouter/internal/leadenrichment/client"
	"leadrouter/platform/logger"

	"golang.org/x/sync/singleflight"
)

const (
	defaultCacheTTL      = 24 * time.Hour
	defaultLookupTimeout = 5 * time.Second
)

// FirmLookup is a firmographic data source.
type FirmLookup interface {
	LookupFirm(ctx context.Context, domain, firmName string) (*client.FirmProfile, error)
}

// Service handles enrichment lookups with caching and de-duplication of
// concurrent requests for the same firm.
type Service struct {
	source        FirmLookup
	cache         Cache
	group         singleflight.Group
	cacheTTL      time.Duration
	lookupTimeout time.Duration
	log           *logger.Logger
}

// New creates a new enrichment service. A nil cache disables caching.
// lookupTimeout bounds the shared source call, independent of any caller.
func New(source FirmLookup, cache Cache, cacheTTL, lookupTimeout time.Duration, log *logger.Logger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	if lookupTimeout <= 0 {
		lookupTimeout = defaultLookupTimeout
	}
	return &Service{
		source:        source,
		cache:         cache,
		cacheTTL:      cacheTTL,
		lookupTimeout: lookupTimeout,
		log:           log,
	}
}

// Enrich returns the firm's profile, or nil when the source does not know
// it. Misses are cached too. Source errors are returned and never cached.
// Concurrent callers for one firm share a lookup that runs on its own
// deadline; each caller still stops waiting when its ctx is done.
func (s *Service) Enrich(ctx context.Context, domain, firmName string) (*client.FirmProfile, error) {
	key := cacheKey(domain, firmName)
	if key == "" {
		return nil, nil
	}

	if profile, ok := s.getFromCache(ctx, key); ok {
		return profile, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(shared, s.lookupTimeout)
		defer cancel()

		profile, err := s.source.LookupFirm(lookupCtx, domain, firmName)
		if err != nil {
			return nil, err
		}
		s.setCache(lookupCtx, key, profile)
		return profile, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		profile, _ := res.Val.(*client.FirmProfile)
		return profile, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) getFromCache(ctx context.Context, key string) (*client.FirmProfile, bool) {
	if s.cache == nil {
		return nil, false
	}
	profile, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("enrichment cache read failed", "error", err)
		return nil, false
	}
	return profile, ok
}

func (s *Service) setCache(ctx context.Context, key string, profile *client.FirmProfile) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, profile, s.cacheTTL); err != nil {
		s.log.Warn("enrichment cache write failed", "error", err)
	}
}

func cacheKey(domain, firmName string) string {
	d := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "www.")
	n := strings.ToLower(strings.TrimSpace(firmName))
	if d == "" && n == "" {
		return ""
	}
	return d + "|" + n
}
