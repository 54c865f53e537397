package domain

import (
	"testing"
	"time"
)

func TestBudget_ElapsedAndRemaining(t *testing.T) {
	b := NewBudget(time.Second)

	if b.Exhausted() {
		t.Fatal("fresh budget should not be exhausted")
	}
	if b.Total() != time.Second {
		t.Fatalf("expected total 1s, got %v", b.Total())
	}
	if b.Remaining() > time.Second {
		t.Fatalf("remaining exceeds total: %v", b.Remaining())
	}
}

func TestBudget_Exhausted(t *testing.T) {
	b := NewBudget(time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if !b.Exhausted() {
		t.Fatal("expected exhausted budget")
	}
	if !b.ConsumedOver(0.9) {
		t.Fatal("expected over-90% consumption")
	}
}

func TestBudget_CarveCapsAtCeiling(t *testing.T) {
	b := NewBudget(time.Hour)

	branch := b.Carve(0.6, 10*time.Second)
	if branch.Remaining() > 10*time.Second {
		t.Fatalf("carved budget exceeds ceiling: %v", branch.Remaining())
	}
	// The branch shares the parent origin.
	if branch.Elapsed() < 0 {
		t.Fatalf("negative elapsed: %v", branch.Elapsed())
	}
}

func TestBudget_CarveFractionOfRemaining(t *testing.T) {
	b := NewBudget(time.Second)

	branch := b.Carve(0.5, time.Hour)
	rem := branch.Remaining()
	if rem > 500*time.Millisecond {
		t.Fatalf("expected at most 500ms, got %v", rem)
	}
	if rem < 400*time.Millisecond {
		t.Fatalf("expected roughly half the budget, got %v", rem)
	}
}

func TestBudget_CarveAfterDeadline(t *testing.T) {
	b := NewBudget(time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	branch := b.Carve(0.6, 10*time.Second)
	if branch.Remaining() > 0 {
		t.Fatalf("carving an exhausted budget must yield nothing, got %v", branch.Remaining())
	}
}

func TestBudget_JoinTimeoutFloor(t *testing.T) {
	b := NewBudget(time.Millisecond)

	if got := b.JoinTimeout(2 * time.Second); got != time.Second {
		t.Fatalf("expected 1s floor, got %v", got)
	}
}

func TestBudget_JoinTimeoutSubtractsMargin(t *testing.T) {
	b := NewBudget(10 * time.Second)

	got := b.JoinTimeout(2 * time.Second)
	if got > 8*time.Second || got < 7*time.Second {
		t.Fatalf("expected ~8s, got %v", got)
	}
}
