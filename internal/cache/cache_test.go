package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestKey_OrderIndependent(t *testing.T) {
	a := Key("google_flights", map[string]string{"departure_id": "AGR", "arrival_id": "DPS", "outbound_date": "2024-05-15"})
	b := Key("google_flights", map[string]string{"outbound_date": "2024-05-15", "arrival_id": "DPS", "departure_id": "AGR"})
	if a != b {
		t.Errorf("keys differ for identical params: %q vs %q", a, b)
	}
}

func TestKey_Distinguishes(t *testing.T) {
	base := Key("google_flights", map[string]string{"departure_id": "AGR"})

	if got := Key("google_flights", map[string]string{"departure_id": "DEL"}); got == base {
		t.Error("different params produced the same key")
	}
	if got := Key("google_hotels", map[string]string{"departure_id": "AGR"}); got == base {
		t.Error("different providers produced the same key")
	}
}

func TestForceRefresh(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "search again for flights to Bali", want: true},
		{text: "Give me the LATEST options", want: true},
		{text: "please refresh that", want: true},
		{text: "flight from Agra to Bali on 2024-05-15", want: false},
		{text: "", want: false},
	}
	for _, tt := range tests {
		if got := ForceRefresh(tt.text); got != tt.want {
			t.Errorf("ForceRefresh(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	val, ok, err := m.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, want hit", ok, err)
	}
	if string(val) != "v" {
		t.Errorf("value = %q, want v", val)
	}

	if _, ok, _ := m.Get(ctx, "missing"); ok {
		t.Error("Get() hit for a key never set")
	}
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Set(ctx, "k", []byte("v"), 30*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Error("Get() hit after the entry expired")
	}
}

func TestMemory_ZeroTTLNotStored(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Error("Get() hit for a zero-TTL entry")
	}
}

// Exercises the store from many goroutines at once (run with -race).
func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	const workers = 8
	const rounds = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("provider-%d", i%3)
			for j := 0; j < rounds; j++ {
				if err := m.Set(ctx, key, []byte(fmt.Sprintf("payload-%d-%d", i, j)), time.Minute); err != nil {
					t.Errorf("Set() error = %v", err)
					return
				}
				if _, _, err := m.Get(ctx, key); err != nil {
					t.Errorf("Get() error = %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 3; i++ {
		if _, ok, _ := m.Get(ctx, fmt.Sprintf("provider-%d", i)); !ok {
			t.Errorf("key provider-%d missing after concurrent writes", i)
		}
	}
}
