// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package cache

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestLRU(capacity int, ttl time.Duration) (*LRU[int], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRU[int](capacity, ttl)
	c.now = clock.Now
	return c, clock
}

func TestLRU_BasicOperations(t *testing.T) {
	c, _ := newTestLRU(3, time.Minute)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		got, found := c.Get(key)
		if !found || got != want {
			t.Errorf("Get(%q) = %d, %v; want %d, true", key, got, found, want)
		}
	}

	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestLRU_Defaults(t *testing.T) {
	c := NewLRU[string](0, 0)
	if c.capacity != DefaultCapacity || c.ttl != DefaultTTL {
		t.Errorf("NewLRU(0, 0) = (%d, %v), want (%d, %v)", c.capacity, c.ttl, DefaultCapacity, DefaultTTL)
	}
}

func TestLRU_Eviction(t *testing.T) {
	c, _ := newTestLRU(3, time.Minute)

	var evicted []string
	c.OnEvict(func(key string, _ int) {
		evicted = append(evicted, key)
	})

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	// Access 'a' to make it most recently used
	c.Get("a")

	// Add new item, should evict 'b' (least recently used)
	c.Add("d", 4)

	if _, found := c.Get("b"); found {
		t.Error("Expected 'b' to be evicted")
	}
	if !reflect.DeepEqual(evicted, []string{"b"}) {
		t.Errorf("evicted = %v, want [b]", evicted)
	}
	if got, want := c.Keys(), []string{"d", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestLRU_TTLExpiration(t *testing.T) {
	c, clock := newTestLRU(10, time.Minute)

	c.Add("a", 1)
	if _, found := c.Get("a"); !found {
		t.Error("Expected to find key 'a' immediately")
	}

	clock.Advance(2 * time.Minute)

	if c.Contains("a") {
		t.Error("Contains() = true for expired key")
	}
	if _, found := c.Get("a"); found {
		t.Error("Expected 'a' to be expired")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after lazy expiry", c.Len())
	}
}

func TestLRU_UpdateExistingResetsTTL(t *testing.T) {
	c, clock := newTestLRU(10, time.Minute)

	c.Add("a", 1)
	clock.Advance(45 * time.Second)
	c.Add("a", 2)
	clock.Advance(45 * time.Second)

	got, found := c.Get("a")
	if !found || got != 2 {
		t.Errorf("Get(a) = %d, %v; want 2, true", got, found)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLRU_Remove(t *testing.T) {
	c, _ := newTestLRU(10, time.Minute)
	c.Add("a", 1)

	if !c.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if c.Remove("a") {
		t.Error("second Remove(a) = true, want false")
	}
	if c.Contains("a") {
		t.Error("Contains(a) after Remove")
	}
}

func TestLRU_GetRestartsTTL(t *testing.T) {
	c, clock := newTestLRU(10, time.Minute)

	c.Add("a", 1)
	for range 3 {
		clock.Advance(45 * time.Second)
		if _, found := c.Get("a"); !found {
			t.Fatal("Get(a) = not found, want TTL restarted by the previous Get")
		}
	}

	clock.Advance(45 * time.Second)
	if !c.Contains("a") {
		t.Error("Contains(a) = false within TTL of the last Get")
	}
	if _, found := c.Peek("a"); !found {
		t.Error("Peek(a) = not found within TTL of the last Get")
	}

	clock.Advance(30 * time.Second)
	if c.Contains("a") {
		t.Error("Contains(a) = true after TTL, Contains must not restart it")
	}
}

func TestLRU_CleanupExpired(t *testing.T) {
	c, clock := newTestLRU(10, time.Minute)

	c.Add("old1", 1)
	c.Add("old2", 2)
	clock.Advance(30 * time.Second)
	c.Add("fresh", 3)
	clock.Advance(45 * time.Second)

	if removed := c.CleanupExpired(); removed != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", removed)
	}
	if !c.Contains("fresh") {
		t.Error("fresh entry was removed")
	}
}

func TestLRU_Stats(t *testing.T) {
	c, _ := newTestLRU(1, time.Minute)

	c.Add("a", 1)
	c.Get("a")
	c.Get("missing")
	c.Add("b", 2)

	hits, misses, evictions, size := c.Stats()
	if hits != 1 || misses != 1 || evictions != 1 || size != 1 {
		t.Errorf("Stats() = (%d, %d, %d, %d), want (1, 1, 1, 1)", hits, misses, evictions, size)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[int](100, time.Minute)
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*200+i)%150)
				c.Add(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Len() = %d, want <= 100", c.Len())
	}
}

func BenchmarkLRU_Add(b *testing.B) {
	c := NewLRU[int](1000, time.Minute)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Add(fmt.Sprintf("key%d", i%2000), i)
	}
}

func BenchmarkLRU_Get(b *testing.B) {
	c := NewLRU[int](1000, time.Minute)
	for i := 0; i < 1000; i++ {
		c.Add(fmt.Sprintf("key%d", i), i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(fmt.Sprintf("key%d", i%1000))
	}
}

func TestLRU_Peek(t *testing.T) {
	c, clock := newTestLRU(2, time.Minute)

	c.Add("a", 1)
	c.Add("b", 2)

	if got, ok := c.Peek("a"); !ok || got != 1 {
		t.Errorf("Peek(a) = %d, %v; want 1, true", got, ok)
	}

	// Peek must not refresh "a", so it is still the eviction candidate.
	c.Add("c", 3)
	if _, ok := c.Peek("a"); ok {
		t.Error("Peek(a) found entry, want evicted")
	}

	hits, misses, _, _ := c.Stats()
	if hits != 0 || misses != 0 {
		t.Errorf("Stats() hits=%d misses=%d, want 0, 0", hits, misses)
	}

	clock.Advance(2 * time.Minute)
	if _, ok := c.Peek("b"); ok {
		t.Error("Peek(b) found expired entry")
	}
}
