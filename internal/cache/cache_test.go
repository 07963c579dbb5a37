package cache

import (
	"context"
	"testing"
	"time"

	"github.com/kjstillabower/weathercom-service/internal/models"
)

func TestInMemoryStore_RoundTrip(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	if _, ok, err := store.Load(ctx); ok || err != nil {
		t.Fatalf("Load() on empty store = %v, %v; want miss", ok, err)
	}

	snap := models.Snapshot{"temperature": 21.5, "iconCode": float64(30)}
	if err := store.Save(ctx, snap, time.Minute); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v; want hit", ok, err)
	}
	if v, _ := got.Float("temperature"); v != 21.5 {
		t.Errorf("temperature = %v, want 21.5", v)
	}
}

func TestInMemoryStore_Expiry(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	snap := models.Snapshot{"temperature": 21.5}
	if err := store.Save(ctx, snap, 10*time.Millisecond); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	time.Sleep(25 * time.Millisecond)

	if _, ok, _ := store.Load(ctx); ok {
		t.Error("Load() hit on expired snapshot")
	}
}

func TestInMemoryStore_SaveReplaces(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	_ = store.Save(ctx, models.Snapshot{"temperature": 1.0}, time.Minute)
	_ = store.Save(ctx, models.Snapshot{"temperature": 2.0}, time.Minute)

	got, ok, _ := store.Load(ctx)
	if !ok {
		t.Fatal("Load() miss after save")
	}
	if v, _ := got.Float("temperature"); v != 2.0 {
		t.Errorf("temperature = %v, want latest save 2.0", v)
	}
}

func TestParseAddrs(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"localhost:11211", 1},
		{"host1:11211, host2:11211", 2},
		{" , ", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := parseAddrs(tt.in); len(got) != tt.want {
			t.Errorf("parseAddrs(%q) = %v, want %d addrs", tt.in, got, tt.want)
		}
	}
}
