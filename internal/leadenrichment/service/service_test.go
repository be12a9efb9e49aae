package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"leadrouter/internal/leadenrichment/client"
	"leadrouter/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingSource struct {
	calls   atomic.Int32
	profile *client.FirmProfile
	err     error
	gate    chan struct{}
}

func (s *countingSource) LookupFirm(ctx context.Context, _, _ string) (*client.FirmProfile, error) {
	s.calls.Add(1)
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.profile, s.err
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return rdb, mr
}

func acme() *client.FirmProfile {
	firmType := "hedge_fund"
	aum := 1200.0
	return &client.FirmProfile{FirmName: "Acme Capital", FirmType: &firmType, AUM: &aum}
}

func TestEnrichCachesHitsInRedis(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	src := &countingSource{profile: acme()}
	svc := New(src, NewRedisCache(rdb), time.Hour, time.Second, logger.Discard())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p, err := svc.Enrich(ctx, "www.Acme.com", "Acme Capital")
		if err != nil || p == nil || p.FirmName != "Acme Capital" || *p.AUM != 1200 {
			t.Fatalf("unexpected result: %+v, %v", p, err)
		}
	}
	if src.calls.Load() != 1 {
		t.Fatalf("expected one source call, got %d", src.calls.Load())
	}
	if ttl := mr.TTL(redisKeyPrefix + "acme.com|acme capital"); ttl != time.Hour {
		t.Fatalf("expected 1h TTL, got %v", ttl)
	}
}

func TestEnrichCachesMisses(t *testing.T) {
	rdb, _ := setupTestRedis(t)
	src := &countingSource{}
	svc := New(src, NewRedisCache(rdb), time.Hour, time.Second, logger.Discard())

	for i := 0; i < 2; i++ {
		p, err := svc.Enrich(context.Background(), "unknown.com", "Unknown")
		if err != nil || p != nil {
			t.Fatalf("expected nil profile, got %+v, %v", p, err)
		}
	}
	if src.calls.Load() != 1 {
		t.Fatalf("expected cached miss, got %d source calls", src.calls.Load())
	}
}

func TestEnrichExpiresFromRedis(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	src := &countingSource{profile: acme()}
	svc := New(src, NewRedisCache(rdb), time.Minute, time.Second, logger.Discard())
	ctx := context.Background()

	_, _ = svc.Enrich(ctx, "acme.com", "Acme")
	mr.FastForward(2 * time.Minute)
	_, _ = svc.Enrich(ctx, "acme.com", "Acme")

	if src.calls.Load() != 2 {
		t.Fatalf("expected refetch after expiry, got %d calls", src.calls.Load())
	}
}

func TestEnrichDoesNotCacheErrors(t *testing.T) {
	src := &countingSource{err: errors.New("provider down")}
	svc := New(src, NewMemoryCache(), time.Hour, time.Second, logger.Discard())

	for i := 0; i < 2; i++ {
		if _, err := svc.Enrich(context.Background(), "acme.com", "Acme"); err == nil {
			t.Fatal("expected error")
		}
	}
	if src.calls.Load() != 2 {
		t.Fatalf("expected errors to bypass cache, got %d calls", src.calls.Load())
	}
}

func TestEnrichFallsBackWhenRedisIsDown(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	mr.Close()
	src := &countingSource{profile: acme()}
	svc := New(src, NewRedisCache(rdb), time.Hour, time.Second, logger.Discard())

	p, err := svc.Enrich(context.Background(), "acme.com", "Acme")
	if err != nil || p == nil {
		t.Fatalf("expected source result despite cache failure, got %+v, %v", p, err)
	}
}

func TestEnrichCollapsesConcurrentLookups(t *testing.T) {
	src := &countingSource{profile: acme(), gate: make(chan struct{})}
	svc := New(src, nil, time.Hour, time.Second, logger.Discard())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Enrich(context.Background(), "acme.com", "Acme")
		}()
	}
	for src.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	if src.calls.Load() != 1 {
		t.Fatalf("expected a single in-flight lookup, got %d", src.calls.Load())
	}
}

func TestEnrichSharedLookupOutlivesFirstCaller(t *testing.T) {
	src := &countingSource{profile: acme(), gate: make(chan struct{})}
	svc := New(src, nil, time.Hour, time.Second, logger.Discard())

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Enrich(firstCtx, "acme.com", "Acme")
		firstErr <- err
	}()
	for src.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	second := make(chan *client.FirmProfile, 1)
	go func() {
		p, _ := svc.Enrich(context.Background(), "acme.com", "Acme")
		second <- p
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected first caller to stop on its own cancel, got %v", err)
	}
	close(src.gate)

	select {
	case p := <-second:
		if p == nil || p.FirmName != "Acme Capital" {
			t.Fatalf("expected shared lookup to finish for the second caller, got %+v", p)
		}
	case <-time.After(time.Second):
		t.Fatal("second caller never received a result")
	}
	if src.calls.Load() != 1 {
		t.Fatalf("expected one lookup, got %d", src.calls.Load())
	}
}

func TestEnrichSharedLookupHasOwnDeadline(t *testing.T) {
	src := &countingSource{profile: acme(), gate: make(chan struct{})}
	svc := New(src, nil, time.Hour, 20*time.Millisecond, logger.Discard())

	_, err := svc.Enrich(context.Background(), "acme.com", "Acme")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected lookup deadline, got %v", err)
	}
}

func TestEnrichEmptyQuery(t *testing.T) {
	src := &countingSource{profile: acme()}
	svc := New(src, NewMemoryCache(), time.Hour, time.Second, logger.Discard())

	p, err := svc.Enrich(context.Background(), " ", "")
	if err != nil || p != nil || src.calls.Load() != 0 {
		t.Fatalf("expected no lookup for empty query, got %+v, %v, %d calls", p, err, src.calls.Load())
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "k", acme(), time.Minute)
	if p, ok, _ := c.Get(ctx, "k"); !ok || p == nil {
		t.Fatal("expected cached entry")
	}
	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("expected entry to expire")
	}
}
