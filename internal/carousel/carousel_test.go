package carousel

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestIsDue(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name     string
		elapsed  time.Duration
		cooldown time.Duration
		want     bool
	}{
		{"exact boundary", 300 * time.Second, 300 * time.Second, false},
		{"one past", 301 * time.Second, 300 * time.Second, true},
		{"not yet", 5 * time.Second, 30 * time.Second, false},
		{"zero cooldown same instant", 0, 0, false},
		{"clock went backwards", -10 * time.Second, 30 * time.Second, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDue(base.Add(tc.elapsed), base, tc.cooldown); got != tc.want {
				t.Fatalf("IsDue(%v, %v) = %v, want %v", tc.elapsed, tc.cooldown, got, tc.want)
			}
		})
	}
}

func TestIsDueFromNever(t *testing.T) {
	if !IsDue(time.Now(), time.Time{}, 24*time.Hour) {
		t.Fatalf("zero time should always be due")
	}
}

func TestNextCycles(t *testing.T) {
	c := 0
	var seen []int
	for i := 0; i < 4; i++ {
		next, ok := Next(c, 3)
		if !ok {
			t.Fatalf("Next(%d, 3) not ok", c)
		}
		c = next
		seen = append(seen, c)
	}
	want := []int{1, 2, 0, 1}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("sequence = %v, want %v", seen, want)
		}
	}
}

func TestNextSingleSlide(t *testing.T) {
	if next, ok := Next(0, 1); !ok || next != 0 {
		t.Fatalf("Next(0, 1) = %d, %v", next, ok)
	}
}

func TestNextZeroCount(t *testing.T) {
	if next, ok := Next(2, 0); ok || next != 2 {
		t.Fatalf("Next(2, 0) = %d, %v; want 2, false", next, ok)
	}
}

func TestPrevious(t *testing.T) {
	cases := []struct{ cursor, count, want int }{
		{0, 3, 2},
		{2, 3, 1},
		{1, 3, 0},
		{7, 3, 2},
	}
	for _, tc := range cases {
		got, ok := Previous(tc.cursor, tc.count)
		if !ok || got != tc.want {
			t.Fatalf("Previous(%d, %d) = %d, %v; want %d", tc.cursor, tc.count, got, ok, tc.want)
		}
	}
	if _, ok := Previous(0, 0); ok {
		t.Fatalf("Previous with zero slides should not be ok")
	}
}

func TestGuardSingleFlight(t *testing.T) {
	var g Guard
	var entered atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	go g.Do(func() {
		entered.Add(1)
		close(started)
		<-release
	})
	<-started

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Do(func() { entered.Add(1) }) {
				t.Errorf("second cycle ran while the first held the guard")
			}
		}()
	}
	wg.Wait()
	close(release)

	deadline := time.Now().Add(2 * time.Second)
	for g.Running() {
		if time.Now().After(deadline) {
			t.Fatalf("guard never released")
		}
		time.Sleep(time.Millisecond)
	}
	if n := entered.Load(); n != 1 {
		t.Fatalf("entered = %d, want 1", n)
	}
	if !g.Do(func() {}) {
		t.Fatalf("guard should be free after release")
	}
}

func TestGuardReleasedOnPanic(t *testing.T) {
	var g Guard
	func() {
		defer func() { _ = recover() }()
		g.Do(func() { panic("boom") })
	}()
	if g.Running() {
		t.Fatalf("guard still held after panic")
	}
	if !g.TryAcquire() {
		t.Fatalf("TryAcquire after panic failed")
	}
	g.Release()
}
