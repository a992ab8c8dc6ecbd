package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"blacksys/internal/logs"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blacksys.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func appendLog(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("append log: %v", err)
	}
}

func TestLastReturnsTrailingLines(t *testing.T) {
	path := writeLog(t, "a\nb\nc\n")

	lines, offset, err := logs.Last(path, 2)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if len(lines) != 2 || lines[0] != "b" || lines[1] != "c" {
		t.Fatalf("unexpected lines %#v", lines)
	}
	if offset != 6 {
		t.Fatalf("expected offset 6, got %d", offset)
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := logs.Last(filepath.Join(t.TempDir(), "none.log"), 5)
	if err != nil || lines != nil || offset != 0 {
		t.Fatalf("expected empty result, got %v %d %v", lines, offset, err)
	}
}

func TestSinceLeavesPartialLine(t *testing.T) {
	path := writeLog(t, "one\n")
	_, offset, err := logs.Last(path, 0)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}

	appendLog(t, path, "two\nthr")
	lines, next, err := logs.Since(path, offset)
	if err != nil {
		t.Fatalf("Since: %v", err)
	}
	if len(lines) != 1 || lines[0] != "two" {
		t.Fatalf("unexpected lines %#v", lines)
	}

	appendLog(t, path, "ee\n")
	lines, _, err = logs.Since(path, next)
	if err != nil {
		t.Fatalf("Since: %v", err)
	}
	if len(lines) != 1 || lines[0] != "three" {
		t.Fatalf("expected completed line, got %#v", lines)
	}
}

func TestSinceRestartsAfterTruncation(t *testing.T) {
	path := writeLog(t, "old line one\nold line two\n")
	if err := os.WriteFile(path, []byte("new\n"), 0o644); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	lines, offset, err := logs.Since(path, 26)
	if err != nil {
		t.Fatalf("Since: %v", err)
	}
	if len(lines) != 1 || lines[0] != "new" || offset != 4 {
		t.Fatalf("unexpected result %#v offset %d", lines, offset)
	}
}

func TestFollowStreamsAppendedLines(t *testing.T) {
	path := writeLog(t, "start\n")
	_, offset, err := logs.Last(path, 1)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []string
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, offset, 10*time.Millisecond, func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
		})
	}()

	appendLog(t, path, "later\n")
	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Follow: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "later" {
		t.Fatalf("unexpected followed lines %#v", got)
	}
}

func TestMatching(t *testing.T) {
	lines := []string{"INFO batch started run_id=abc", "WARN history failed run_id=abc", "INFO batch started run_id=def"}
	got := logs.Matching(lines, "RUN_ID=abc", "warn")
	if len(got) != 1 || got[0] != lines[1] {
		t.Fatalf("unexpected matches %#v", got)
	}
	if len(logs.Matching(lines)) != 3 {
		t.Fatal("expected all lines without terms")
	}
}
