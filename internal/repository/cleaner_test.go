package repository

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bachesapp/bachesapp/internal/snapshot"
)

func TestStartExpiredTokenCleaner_SweepsAndLogs(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)}
	r := NewResetTokenRegistry(staticDirectory{"ana@example.com": true}, snapshot.NewMemStore(), zap.NewNop())
	r.now = clock.Now
	token, err := r.Issue("ana@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	clock.Advance(2 * time.Hour)

	var buf bytes.Buffer
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(&buf),
		zapcore.InfoLevel,
	)
	logger := zap.New(core)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartExpiredTokenCleaner(ctx, r, 10*time.Millisecond, logger)

	time.Sleep(200 * time.Millisecond)
	cancel()

	if r.Validate(token) {
		t.Error("expected expired token to be swept")
	}
	if !strings.Contains(buf.String(), "evicted expired reset tokens") {
		t.Errorf("expected eviction log, got:\n%s", buf.String())
	}
}

func TestStartExpiredTokenCleaner_CancelStopsSweeping(t *testing.T) {
	r := NewResetTokenRegistry(staticDirectory{}, snapshot.NewMemStore(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	StartExpiredTokenCleaner(ctx, r, 10*time.Millisecond, zap.NewNop())

	// Nothing to assert beyond the goroutine exiting without work;
	// give it a beat to observe the cancelled context.
	time.Sleep(50 * time.Millisecond)
}
