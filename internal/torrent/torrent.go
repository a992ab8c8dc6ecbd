// Package torrent creates private .torrent files with mktorrent.
package torrent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"blacksys/internal/fileutil"
	"blacksys/internal/logging"
	"blacksys/internal/services"
	"blacksys/internal/textutil"
)

// DefaultPieceLength is 2^21 bytes (2 MiB).
const DefaultPieceLength = 21

// Option configures the creator.
type Option func(*Creator)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Creator) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithPieceLength sets the mktorrent piece length exponent.
func WithPieceLength(n int) Option {
	return func(c *Creator) {
		if n > 0 {
			c.pieceLength = n
		}
	}
}

// WithPrivate toggles the private flag.
func WithPrivate(private bool) Option {
	return func(c *Creator) { c.private = private }
}

// WithSource sets the source tag some trackers require.
func WithSource(source string) Option {
	return func(c *Creator) { c.source = strings.TrimSpace(source) }
}

// WithLogger sets the creator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Creator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Creator wraps mktorrent.
type Creator struct {
	binary      string
	pieceLength int
	private     bool
	source      string
	exec        services.Executor
	logger      *slog.Logger
}

// NewCreator constructs a creator for private torrents.
func NewCreator(binary string, opts ...Option) *Creator {
	c := &Creator{
		binary:      strings.TrimSpace(binary),
		pieceLength: DefaultPieceLength,
		private:     true,
		exec:        services.CommandExecutor{},
		logger:      logging.NewNop(),
	}
	if c.binary == "" {
		c.binary = "mktorrent"
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Args returns the mktorrent arguments for a torrent of folder written to out.
func (c *Creator) Args(folder, out string, announce []string) []string {
	var args []string
	if c.private {
		args = append(args, "-p")
	}
	if len(announce) > 0 {
		args = append(args, "-a", strings.Join(announce, ","))
	}
	args = append(args, "-l", strconv.Itoa(c.pieceLength))
	if c.source != "" {
		args = append(args, "-s", c.source)
	}
	return append(args, "-o", out, folder)
}

// Create builds out from folder. An existing out is left untouched and
// reported as not created.
func (c *Creator) Create(ctx context.Context, folder, out string, announce []string) (bool, error) {
	logger := logging.WithContext(ctx, c.logger)
	if strings.TrimSpace(folder) == "" || strings.TrimSpace(out) == "" {
		return false, errors.New("torrent folder and output path required")
	}
	if fileutil.Exists(out) {
		logger.Info("torrent already exists; skipping", logging.String("torrent", filepath.Base(out)))
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return false, fmt.Errorf("create torrent directory: %w", err)
	}
	if err := c.exec.Run(ctx, c.binary, c.Args(folder, out, announce), nil); err != nil {
		_ = os.Remove(out)
		return false, services.Wrap(services.ErrExternalTool, "torrent", "mktorrent", filepath.Base(out), err)
	}
	if !fileutil.NonEmptyFile(out) {
		return false, services.Wrap(services.ErrExternalTool, "torrent", "mktorrent", "no torrent written", nil)
	}
	logger.Info("torrent created",
		logging.String("torrent", filepath.Base(out)),
		logging.Int("trackers", len(announce)),
	)
	return true, nil
}

// FileName builds "<prefix>_<folder>.torrent" with spaces replaced by
// underscores in both parts.
func FileName(prefix, folder string) string {
	return textutil.Underscored(prefix) + "_" + textutil.Underscored(folder) + ".torrent"
}
