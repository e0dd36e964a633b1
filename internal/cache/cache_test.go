package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ---------------------------------------------------------------------------
// TestMemory
// ---------------------------------------------------------------------------

func TestMemory_PutGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	if _, ok, err := m.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("Get(missing) = ok %v, err %v; want miss", ok, err)
	}
	if err := m.Put(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Put() unexpected error: %v", err)
	}
	got, ok, err := m.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Errorf("Get(k) = %q, %v, %v; want v, true, nil", got, ok, err)
	}
}

func TestMemory_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(WithClock(clock.Now))

	if err := m.Put(ctx, "k", []byte("v"), 600*time.Second); err != nil {
		t.Fatalf("Put() unexpected error: %v", err)
	}
	clock.Advance(599 * time.Second)
	if _, ok, _ := m.Get(ctx, "k"); !ok {
		t.Fatal("entry expired early")
	}
	clock.Advance(time.Second)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("entry still present at its deadline")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d after lazy expiry, want 0", m.Len())
	}
}

func TestMemory_NoTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(0, 0)}
	m := NewMemory(WithClock(clock.Now))

	_ = m.Put(ctx, "k", []byte("v"), 0)
	clock.Advance(365 * 24 * time.Hour)
	if _, ok, _ := m.Get(ctx, "k"); !ok {
		t.Error("entry without ttl expired")
	}
}

func TestMemory_Purge(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(0, 0)}
	m := NewMemory(WithClock(clock.Now))

	_ = m.Put(ctx, "short", []byte("1"), time.Second)
	_ = m.Put(ctx, "long", []byte("2"), time.Hour)
	clock.Advance(time.Minute)

	if n := m.Purge(); n != 1 {
		t.Errorf("Purge() = %d, want 1", n)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestMemory_ValuesAreCopied(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()
	buf := []byte("abc")
	_ = m.Put(ctx, "k", buf, 0)
	buf[0] = 'x'

	got, _, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value changed through caller slice: %q", got)
	}
	got[1] = 'y'
	again, _, _ := m.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value changed through returned slice: %q", again)
	}
}

func TestMemory_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemory()

	if err := m.Put(ctx, "k", nil, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Put() error = %v, want context.Canceled", err)
	}
	if _, _, err := m.Get(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v, want context.Canceled", err)
	}
}

func TestMemory_Closed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()
	_ = m.Close()

	if err := m.Put(ctx, "k", nil, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("Put() error = %v, want ErrClosed", err)
	}
	if _, _, err := m.Get(ctx, "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get() error = %v, want ErrClosed", err)
	}
}

func TestMemory_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			_ = m.Put(ctx, key, []byte{byte(i)}, time.Minute)
			if _, ok, err := m.Get(ctx, key); !ok || err != nil {
				t.Errorf("Get(%s) = %v, %v", key, ok, err)
			}
		}(i)
	}
	wg.Wait()
}

// ---------------------------------------------------------------------------
// TestNop / TestRedis
// ---------------------------------------------------------------------------

func TestNop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var c Cache = Nop{}
	if err := c.Put(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Put() unexpected error: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Get() = %v, %v; want miss", ok, err)
	}
}

func TestRedis_UnreachableServerReportsError(t *testing.T) {
	t.Parallel()

	r := NewRedis(RedisOptions{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, ok, err := r.Get(ctx, "k"); err == nil || ok {
		t.Errorf("Get() = ok %v, err %v; want an error", ok, err)
	}
	if err := r.Put(ctx, "k", []byte("v"), time.Minute); err == nil {
		t.Error("Put() expected an error")
	}
}

func TestNewRedis_Defaults(t *testing.T) {
	t.Parallel()

	r := NewRedis(RedisOptions{})
	defer r.Close()

	if r.prefix != DefaultRedisPrefix {
		t.Errorf("prefix = %q, want %q", r.prefix, DefaultRedisPrefix)
	}
	if got := r.client.Options().Addr; got != "localhost:6379" {
		t.Errorf("addr = %q, want localhost:6379", got)
	}
}
