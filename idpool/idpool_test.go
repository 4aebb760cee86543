package idpool_test

import (
	"testing"

	"github.com/kestrelwl/wl/idpool"
)

func TestCreateStartsAtTwo(t *testing.T) {
	p := idpool.New()
	if id := p.Create(); id != 2 {
		t.Fatalf("first id = %v, want 2", id)
	}
	if id := p.Create(); id != 3 {
		t.Fatalf("second id = %v, want 3", id)
	}
}

func TestDestroyRecyclesID(t *testing.T) {
	p := idpool.New()
	a := p.Create()
	b := p.Create()
	p.Destroy(a)

	recycled := p.Create()
	if recycled != a {
		t.Fatalf("recycled id = %v, want %v", recycled, a)
	}

	next := p.Create()
	if next == a || next == b {
		t.Fatalf("expected a fresh id, got %v", next)
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	p := idpool.New()
	id := p.Create()
	p.Destroy(id)
	p.Destroy(id)
	p.Destroy(id)

	if got := p.Len(); got != 1 {
		t.Fatalf("free list len = %v, want 1", got)
	}
}

func TestCreateNeverReturnsReservedIDs(t *testing.T) {
	p := idpool.New()
	for i := 0; i < 10; i++ {
		if id := p.Create(); id < 2 {
			t.Fatalf("Create returned reserved id %v", id)
		}
	}
}

func TestDestroyUnknownIDIsSafe(t *testing.T) {
	p := idpool.New()
	p.Destroy(999)
	if got := p.Len(); got != 1 {
		t.Fatalf("free list len = %v, want 1", got)
	}
	if id := p.Create(); id != 999 {
		t.Fatalf("create after destroy = %v, want 999", id)
	}
}
