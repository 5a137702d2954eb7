package echo

import (
	"context"
	"testing"
	"time"

	"github.com/danmuck/sockecho/internal/testutil/testlog"
)

func TestBackoffScheduleDeterministicNoJitter(t *testing.T) {
	testlog.Start(t)
	b := newBackoff(BackoffConfig{
		InitialDelay: 5 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     40 * time.Millisecond,
	})
	want := []time.Duration{5, 10, 20, 40, 40}
	for i, w := range want {
		if got := b.NextBackOff(); got != w*time.Millisecond {
			t.Fatalf("attempt%d got=%v want=%v", i+1, got, w*time.Millisecond)
		}
	}
	b.Reset()
	if got := b.NextBackOff(); got != 5*time.Millisecond {
		t.Fatalf("after reset got=%v", got)
	}
}

func TestBackoffWithDefaults(t *testing.T) {
	testlog.Start(t)
	got := BackoffConfig{}.WithDefaults()
	if got != DefaultBackoffConfig() {
		t.Fatalf("zero config not defaulted: %+v", got)
	}
	got = BackoffConfig{InitialDelay: 2 * time.Second, Multiplier: 3}.WithDefaults()
	if got.MaxDelay != 2*time.Second || got.Multiplier != 3 {
		t.Fatalf("unexpected config: %+v", got)
	}
}

func TestSleepContextStopsOnCancel(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sleepContext(ctx, time.Minute) {
		t.Fatalf("sleep should stop on cancelled context")
	}
	if !sleepContext(context.Background(), time.Millisecond) {
		t.Fatalf("sleep should complete")
	}
}
