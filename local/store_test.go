package local

import (
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"
)

type fakeClock struct{ t int64 }

func (f *fakeClock) NowUnixNano() int64  { return f.t }
func (f *fakeClock) add(d time.Duration) { f.t += int64(d) }

// Basic Add/Set/Get/Remove semantics.
func TestStore_BasicAddSetGetRemove(t *testing.T) {
	t.Parallel()

	s := New(Options{Capacity: 8})
	t.Cleanup(func() { _ = s.Close() })

	if !s.Add("a", []byte("1")) {
		t.Fatal("Add a must be true")
	}
	if s.Add("a", []byte("2")) {
		t.Fatal("Add duplicate must be false")
	}

	s.Set("a", []byte("11"))
	if v, ok := s.Get("a"); !ok || string(v) != "11" {
		t.Fatalf("Get a want 11, got %q ok=%v", v, ok)
	}

	if !s.Remove("a") {
		t.Fatal("Remove a must be true")
	}
	if _, ok := s.Get("a"); ok {
		t.Fatal("a must be absent after Remove")
	}
	if s.Remove("a") {
		t.Fatal("Remove of absent key must be false")
	}
}

// Uses a fake clock to avoid timing flakiness.
// Ensures that per-entry TTL is respected and expiry is lazy.
func TestStore_TTL_FakeClock(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	s := New(Options{Capacity: 4, Clock: clk})
	t.Cleanup(func() { _ = s.Close() })

	s.SetWithTTL("x", []byte("v"), 100*time.Millisecond)
	if _, ok := s.Get("x"); !ok {
		t.Fatal("fresh miss")
	}
	clk.add(200 * time.Millisecond)
	if _, ok := s.Get("x"); ok {
		t.Fatal("expired hit")
	}
	if s.Len() != 0 {
		t.Fatalf("expired entry must be evicted on access, Len=%d", s.Len())
	}
}

// Deterministic LRU eviction: single shard, small capacity.
// Accessing "a" promotes it; inserting "c" evicts LRU ("b").
func TestStore_EvictionLRU(t *testing.T) {
	t.Parallel()

	var evicted []string
	s := New(Options{
		Capacity: 2,
		Shards:   1, // single shard so LRU order is global
		OnEvict: func(key string, _ []byte, reason EvictReason) {
			if reason != EvictCapacity {
				return
			}
			evicted = append(evicted, key)
		},
	})
	t.Cleanup(func() { _ = s.Close() })

	s.Set("a", []byte("1")) // LRU = a
	s.Set("b", []byte("2")) // MRU = b

	if _, ok := s.Get("a"); !ok { // promote a -> MRU
		t.Fatal("expect hit for a")
	}
	s.Set("c", []byte("3")) // overflow -> evict LRU (b)

	if _, ok := s.Get("b"); ok {
		t.Fatal("b must be evicted")
	}
	if _, ok := s.Get("a"); !ok {
		t.Fatal("a must survive (promoted)")
	}
	if _, ok := s.Get("c"); !ok {
		t.Fatal("c must be present")
	}
	if len(evicted) != 1 || evicted[0] != "b" {
		t.Fatalf("OnEvict want [b], got %v", evicted)
	}
}

func TestStore_ContainsDoesNotPromote(t *testing.T) {
	t.Parallel()

	s := New(Options{Capacity: 2, Shards: 1})
	t.Cleanup(func() { _ = s.Close() })

	s.Set("a", []byte("1")) // LRU = a
	s.Set("b", []byte("2"))

	if !s.Contains("a") {
		t.Fatal("Contains a must be true")
	}
	s.Set("c", []byte("3")) // overflow -> "a" is still LRU, evicted

	if s.Contains("a") {
		t.Fatal("a must be evicted (Contains does not promote)")
	}
}

func TestStore_FlushAndClose(t *testing.T) {
	t.Parallel()

	s := New(Options{Capacity: 16})
	for i := 0; i < 10; i++ {
		s.Set("k:"+strconv.Itoa(i), []byte("v"))
	}
	if s.Len() != 10 {
		t.Fatalf("Len want 10, got %d", s.Len())
	}

	s.Flush()
	if s.Len() != 0 {
		t.Fatalf("Len after Flush want 0, got %d", s.Len())
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	s.Set("x", []byte("v"))
	if _, ok := s.Get("x"); ok {
		t.Fatal("closed store must ignore writes")
	}
}

func TestStore_CapacityAcrossShards(t *testing.T) {
	t.Parallel()

	s := New(Options{Capacity: 64, Shards: 4})
	t.Cleanup(func() { _ = s.Close() })

	for i := 0; i < 1000; i++ {
		s.Set("k:"+strconv.Itoa(i), []byte("v"))
	}
	if got := s.Len(); got > 64 {
		t.Fatalf("Len must not exceed capacity: got %d", got)
	}
}

// A mixed workload of concurrent Set/Get/SetWithTTL/Remove on random keys.
// Should pass under `-race` without detector reports.
func TestStore_Race(t *testing.T) {
	s := New(Options{Capacity: 8_192, Shards: 32})
	t.Cleanup(func() { _ = s.Close() })

	workers := 4 * runtime.GOMAXPROCS(0)
	keyspace := 50_000
	deadline := time.Now().Add(2 * time.Second)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)*9973))
			for time.Now().Before(deadline) {
				k := "k:" + strconv.Itoa(r.Intn(keyspace))
				switch r.Intn(100) {
				case 0, 1, 2, 3, 4: // ~5% — Remove
					s.Remove(k)
				case 5, 6, 7, 8, 9: // ~5% — SetWithTTL
					s.SetWithTTL(k, []byte("x"), time.Duration(10+r.Intn(20))*time.Millisecond)
				case 10, 11, 12, 13, 14, 15, 16, 17, 18, 19: // ~10% — Set
					s.Set(k, []byte("x"))
				default: // ~80% — Get
					s.Get(k)
				}
			}
		}(w)
	}
	wg.Wait()
}

func BenchmarkStore_Get(b *testing.B) {
	s := New(Options{Capacity: 100_000})
	defer s.Close()
	for i := 0; i < 100_000; i++ {
		s.Set("k:"+strconv.Itoa(i), []byte("v"))
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(1))
		for pb.Next() {
			s.Get("k:" + strconv.Itoa(r.Intn(100_000)))
		}
	})
}

func BenchmarkStore_Set(b *testing.B) {
	s := New(Options{Capacity: 100_000})
	defer s.Close()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(2))
		for pb.Next() {
			s.Set("k:"+strconv.Itoa(r.Intn(100_000)), []byte("v"))
		}
	})
}
