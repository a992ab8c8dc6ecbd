package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const maxLineBytes = 1024 * 1024

// Last returns up to n trailing lines of path and the end offset. A missing
// file yields no lines and offset zero.
func Last(path string, n int) ([]string, int64, error) {
	file, err := open(path)
	if err != nil || file == nil {
		return nil, 0, err
	}
	defer file.Close()

	if n <= 0 {
		end, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, fmt.Errorf("seek log file: %w", err)
		}
		return nil, end, nil
	}

	ring := make([]string, 0, n)
	start := 0
	_, end, err := scan(file, func(line string) {
		if len(ring) < n {
			ring = append(ring, line)
			return
		}
		ring[start] = line
		start = (start + 1) % n
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]string, 0, len(ring))
	out = append(out, ring[start:]...)
	out = append(out, ring[:start]...)
	return out, end, nil
}

// Since returns the complete lines written after offset and the new offset.
// A partial trailing line is left for the next call. When the file is shorter
// than offset it was truncated or rotated and reading restarts at zero.
func Since(path string, offset int64) ([]string, int64, error) {
	file, err := open(path)
	if err != nil || file == nil {
		return nil, 0, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < offset {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log file: %w", err)
	}

	var out []string
	_, read, err := scan(file, func(line string) { out = append(out, line) })
	if err != nil {
		return nil, offset, err
	}
	return out, offset + read, nil
}

// Follow polls path every interval and passes each new line to emit until ctx
// is cancelled. Cancellation is not an error.
func Follow(ctx context.Context, path string, offset int64, interval time.Duration, emit func(string)) error {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		lines, next, err := Since(path, offset)
		if err != nil {
			return err
		}
		offset = next
		for _, line := range lines {
			emit(line)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Matching keeps the lines containing every term, ignoring case.
func Matching(lines []string, terms ...string) []string {
	if len(terms) == 0 {
		return lines
	}
	var out []string
	for _, line := range lines {
		if matches(line, terms) {
			out = append(out, line)
		}
	}
	return out
}

func matches(line string, terms []string) bool {
	lower := strings.ToLower(line)
	for _, term := range terms {
		if !strings.Contains(lower, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

func open(path string) (*os.File, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("log path %q is a directory", path)
	}
	return file, nil
}

// scan feeds every newline-terminated line from r to fn and returns the line
// count and the number of bytes consumed by those lines.
func scan(r io.Reader, fn func(string)) (int, int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var consumed int64
	count := 0
	for {
		chunk, err := reader.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			long := append([]byte(nil), chunk...)
			for errors.Is(err, bufio.ErrBufferFull) && len(long) < maxLineBytes {
				chunk, err = reader.ReadSlice('\n')
				long = append(long, chunk...)
			}
			chunk = long
		}
		if err != nil && !errors.Is(err, bufio.ErrBufferFull) {
			if errors.Is(err, io.EOF) {
				return count, consumed, nil
			}
			return count, consumed, fmt.Errorf("read log file: %w", err)
		}
		consumed += int64(len(chunk))
		count++
		fn(strings.TrimRight(string(chunk), "\r\n"))
	}
}
