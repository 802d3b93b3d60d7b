package favorites

import (
	"context"
	"slices"
	"sync"
	"testing"

	"stockwatch/internal/store"
)

type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemKV() *memKV { return &memKV{data: map[string]string{}} }

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

var _ store.KV = (*memKV)(nil)

func TestAddEvictsOldestAtCapacity(t *testing.T) {
	ctx := context.Background()
	s := NewSet(newMemKV())

	for _, sym := range []string{"FPT", "VCB", "HPG", "VIC", "MWG"} {
		if err := s.Add(ctx, sym); err != nil {
			t.Fatalf("Add(%s): %v", sym, err)
		}
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"VCB", "HPG", "VIC", "MWG"}
	if !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v (oldest evicted)", got, want)
	}
	if ok, _ := s.Contains(ctx, "FPT"); ok {
		t.Error("Contains(FPT) = true, want evicted")
	}
}

func TestAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewSet(newMemKV())

	for range 3 {
		if err := s.Add(ctx, "fpt"); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	got, _ := s.List(ctx)
	if !slices.Equal(got, []string{"FPT"}) {
		t.Errorf("List() = %v, want single uppercase FPT", got)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := NewSet(newMemKV())
	_ = s.Add(ctx, "FPT")
	_ = s.Add(ctx, "VCB")

	if err := s.Remove(ctx, "fpt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	got, _ := s.List(ctx)
	if !slices.Equal(got, []string{"VCB"}) {
		t.Errorf("List() = %v, want [VCB]", got)
	}
	// Absent symbol is fine.
	if err := s.Remove(ctx, "SSI"); err != nil {
		t.Errorf("Remove(absent) = %v, want nil", err)
	}
}

func TestPersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()

	s1 := NewSet(kv)
	_ = s1.Add(ctx, "FPT")
	_ = s1.Add(ctx, "VCB")

	s2 := NewSet(kv)
	got, err := s2.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !slices.Equal(got, []string{"FPT", "VCB"}) {
		t.Errorf("List() = %v, want persisted order", got)
	}
}
