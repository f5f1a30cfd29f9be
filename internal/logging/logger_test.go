package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v want %v", input, got, want)
		}
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.log")

	logger, closer := New(Options{Level: "debug", File: path})
	logger.Debug("hello file", "component", "test")
	if err := closer.Close(); err != nil {
		t.Fatalf("close log file: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(contents), `"msg":"hello file"`) {
		t.Fatalf("expected log line in file, got %s", contents)
	}
}

func TestStartSpanPropagatesIdentifiers(t *testing.T) {
	ctx, parent := StartSpan(context.Background(), "parent")
	traceID := TraceIDFromContext(ctx)
	parentID := SpanIDFromContext(ctx)
	if traceID == "" || parentID == "" {
		t.Fatalf("expected trace and span ids, got %q %q", traceID, parentID)
	}

	child, span := StartSpan(ctx, "child")
	if TraceIDFromContext(child) != traceID {
		t.Fatal("expected child span to share the trace id")
	}
	if SpanIDFromContext(child) == parentID {
		t.Fatal("expected child span to get its own id")
	}

	span.RecordError(context.Canceled)
	span.End()
	parent.End()

	var nilSpan *Span
	nilSpan.RecordError(context.Canceled)
	nilSpan.End()
}

func TestStartSpanUsesRequestIDAsTrace(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-7")
	ctx, span := StartSpan(ctx, "videos.list")
	defer span.End()

	if got := TraceIDFromContext(ctx); got != "req-7" {
		t.Fatalf("expected trace id req-7 got %q", got)
	}
	if got := RequestIDFromContext(ctx); got != "req-7" {
		t.Fatalf("expected request id to survive, got %q", got)
	}
}
