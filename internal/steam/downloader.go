package steam

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"blacksys/internal/logging"
	"blacksys/internal/services"
	"blacksys/internal/textutil"
)

// ErrLoginRequired is returned when steamcmd needs credentials and none were
// supplied.
var ErrLoginRequired = errors.New("steam login required")

// Credentials completes a login that the cached session could not.
type Credentials struct {
	Password  string
	GuardCode string
}

// CredentialsFunc is asked for credentials at most once per download.
type CredentialsFunc func(ctx context.Context) (Credentials, error)

// NameLookup resolves a game name when steamcmd output has none.
type NameLookup interface {
	AppName(ctx context.Context, appID string) (string, error)
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(d *Downloader) {
		if exec != nil {
			d.exec = exec
		}
	}
}

// WithNameLookup sets the store fallback for game names.
func WithNameLookup(lookup NameLookup) Option {
	return func(d *Downloader) { d.names = lookup }
}

// WithLogger sets the downloader logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Downloader) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Downloader runs steamcmd sessions into a games root.
type Downloader struct {
	binary   string
	gamesDir string
	exec     services.Executor
	names    NameLookup
	logger   *slog.Logger
}

// NewDownloader constructs a downloader.
func NewDownloader(binary, gamesDir string, opts ...Option) *Downloader {
	d := &Downloader{
		binary:   strings.TrimSpace(binary),
		gamesDir: gamesDir,
		exec:     services.CommandExecutor{},
		logger:   logging.NewNop(),
	}
	if d.binary == "" {
		d.binary = "steamcmd"
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.NewComponentLogger(d.logger, "steam")
	return d
}

// Request describes one download.
type Request struct {
	AppID     string
	Username  string
	Platforms []Platform
}

// Result lists where a download landed.
type Result struct {
	GameName string
	Root     string
	Dirs     []string
}

// Download runs the session, renames the install folders after the game, and
// removes the steamapps bookkeeping directories.
func (d *Downloader) Download(ctx context.Context, req Request, creds CredentialsFunc) (Result, error) {
	if !ValidAppID(req.AppID) {
		return Result{}, fmt.Errorf("%w: app id %q must be numeric", services.ErrValidation, req.AppID)
	}
	if strings.TrimSpace(req.Username) == "" {
		return Result{}, fmt.Errorf("%w: steam username required", services.ErrValidation)
	}
	if len(req.Platforms) == 0 {
		req.Platforms = Platforms()
	}
	logger := d.logger.With(logging.String("app_id", req.AppID))

	tmpName := "App_" + req.AppID
	root := filepath.Join(d.gamesDir, tmpName)
	plan := make([]Target, 0, len(req.Platforms))
	for _, p := range req.Platforms {
		dir := filepath.Join(root, tmpName+"-"+p.Label)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("create install dir: %w", err)
		}
		plan = append(plan, Target{Platform: p, Dir: dir})
	}

	logger.Info("steamcmd session starting (cached login)", logging.Int("platforms", len(plan)))
	output, err := d.session(ctx, req.AppID, LoginArgs(req.Username, "", ""), plan)
	if err != nil || LooksLikeLoginPrompt(output) {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		if creds == nil {
			return Result{}, ErrLoginRequired
		}
		logger.Info("cached login unavailable; requesting credentials")
		c, credErr := creds(ctx)
		if credErr != nil {
			return Result{}, fmt.Errorf("read credentials: %w", credErr)
		}
		if strings.TrimSpace(c.Password) == "" {
			return Result{}, ErrLoginRequired
		}
		output, err = d.session(ctx, req.AppID, LoginArgs(req.Username, c.Password, c.GuardCode), plan)
		if err != nil {
			return Result{}, services.Wrap(services.ErrExternalTool, "steam", "steamcmd", "session failed", err)
		}
		if LooksLikeLoginPrompt(output) {
			return Result{}, fmt.Errorf("%w: steamcmd rejected the credentials", ErrLoginRequired)
		}
	}

	name := d.gameName(ctx, output, req.AppID, logger)
	result, err := relocate(d.gamesDir, root, tmpName, name, plan)
	if err != nil {
		return Result{}, err
	}
	for _, dir := range result.Dirs {
		if err := os.RemoveAll(filepath.Join(dir, "steamapps")); err != nil {
			logging.WarnWithContext(logger, "steamapps cleanup failed", "steamapps_cleanup_failed",
				logging.String("dir", dir), logging.Error(err))
		}
	}
	logger.Info("download complete",
		logging.String("game", result.GameName),
		logging.String("root", result.Root),
	)
	return result, nil
}

func (d *Downloader) session(ctx context.Context, appID string, login []string, plan []Target) (string, error) {
	var out strings.Builder
	err := d.exec.Run(ctx, d.binary, BuildBatchCommand(appID, login, plan), func(line string) {
		out.WriteString(line)
		out.WriteByte('\n')
		d.logger.Debug("steamcmd", logging.String("line", line))
	})
	return out.String(), err
}

func (d *Downloader) gameName(ctx context.Context, output, appID string, logger *slog.Logger) string {
	name := textutil.SanitizeFileName(ParseGameName(output, appID))
	if name != "" && name != FallbackName(appID) {
		return name
	}
	if d.names != nil {
		storeName, err := d.names.AppName(ctx, appID)
		if err == nil {
			return storeName
		}
		logging.WarnWithContext(logger, "store name lookup failed", "store_lookup_failed", logging.Error(err))
	} else {
		logging.WarnWithContext(logger, "game name not found in steamcmd output", "game_name_missing")
	}
	return FallbackName(appID)
}

// relocate renames <games>/App_<id>/App_<id>-<Label> to
// <games>/<name>/<name>-<Label>.
func relocate(gamesDir, root, tmpName, name string, plan []Target) (Result, error) {
	realRoot := filepath.Join(gamesDir, name)
	result := Result{GameName: name, Root: realRoot}
	if realRoot == root {
		for _, t := range plan {
			result.Dirs = append(result.Dirs, t.Dir)
		}
		return result, nil
	}
	if err := os.MkdirAll(realRoot, 0o755); err != nil {
		return Result{}, fmt.Errorf("create game dir: %w", err)
	}
	for _, t := range plan {
		dst := filepath.Join(realRoot, name+"-"+t.Platform.Label)
		if _, err := os.Stat(t.Dir); err == nil {
			if err := os.Rename(t.Dir, dst); err != nil {
				return Result{}, fmt.Errorf("rename %s: %w", filepath.Base(t.Dir), err)
			}
		}
		result.Dirs = append(result.Dirs, dst)
	}
	_ = os.Remove(root)
	return result, nil
}
