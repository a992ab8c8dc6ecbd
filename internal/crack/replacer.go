package crack

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"blacksys/internal/fileutil"
	"blacksys/internal/logging"
)

// BackupSuffix is appended to the original library name.
const BackupSuffix = ".backup"

// ErrNoReplacements is returned when the replacement directory holds none of
// the expected files.
var ErrNoReplacements = errors.New("no replacement files found")

// ArchResolver settles the architecture of a Linux library when no hint was
// found, typically by asking the user.
type ArchResolver interface {
	ResolveArch(ctx context.Context, path string) (Arch, error)
}

// Option configures a Replacer.
type Option func(*Replacer)

// WithArchResolver sets the fallback architecture resolver.
func WithArchResolver(resolver ArchResolver) Option {
	return func(r *Replacer) { r.resolver = resolver }
}

// WithLogger sets the replacer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Replacer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Replacer performs library replacement.
type Replacer struct {
	dir      string
	resolver ArchResolver
	logger   *slog.Logger
}

// NewReplacer uses replacement files below dir.
func NewReplacer(dir string, opts ...Option) *Replacer {
	r := &Replacer{dir: dir, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "crack")
	return r
}

// Availability reports which replacement files exist.
type Availability struct {
	Kind    Kind
	Path    string
	Present bool
}

// Available lists every slot with its replacement file state.
func (r *Replacer) Available() []Availability {
	out := make([]Availability, 0, len(Replacements))
	for _, kind := range Kinds() {
		path := filepath.Join(r.dir, Replacements[kind])
		out = append(out, Availability{Kind: kind, Path: path, Present: fileutil.NonEmptyFile(path)})
	}
	return out
}

// Action is one library found in the game tree.
type Action struct {
	Path          string
	Kind          Kind
	Replacement   string
	BackupCreated bool
	Replaced      bool
	Err           error
}

// Summary is the outcome of a Run.
type Summary struct {
	Dir     string
	DryRun  bool
	Missing []Kind
	Actions []Action
}

// Replaced counts successful replacements.
func (s Summary) Replaced() int {
	n := 0
	for _, a := range s.Actions {
		if a.Replaced {
			n++
		}
	}
	return n
}

// Failed counts libraries that could not be handled.
func (s Summary) Failed() int {
	n := 0
	for _, a := range s.Actions {
		if a.Err != nil {
			n++
		}
	}
	return n
}

// Run walks dir and replaces every recognised library whose replacement file
// exists. Slots without a replacement file are listed in Missing and their
// libraries are left alone. With dryRun nothing is written.
func (r *Replacer) Run(ctx context.Context, dir string, dryRun bool) (Summary, error) {
	summary := Summary{Dir: dir, DryRun: dryRun}
	info, err := os.Stat(dir)
	if err != nil {
		return summary, fmt.Errorf("game directory: %w", err)
	}
	if !info.IsDir() {
		return summary, fmt.Errorf("game directory %s is not a directory", dir)
	}

	valid := make(map[Kind]string)
	for _, a := range r.Available() {
		if a.Present {
			valid[a.Kind] = a.Path
		} else {
			summary.Missing = append(summary.Missing, a.Kind)
		}
	}
	if len(valid) == 0 {
		return summary, fmt.Errorf("%w in %s", ErrNoReplacements, r.dir)
	}
	if len(summary.Missing) > 0 {
		logging.WarnWithContext(r.logger, "replacement files missing; those libraries are skipped", "replacement_missing",
			logging.Int("missing", len(summary.Missing)))
	}

	var found []Action
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		kind, err := r.identify(ctx, path)
		if errors.Is(err, ErrNotSteamFile) {
			return nil
		}
		if err != nil {
			found = append(found, Action{Path: path, Err: err})
			return nil
		}
		if replacement, ok := valid[kind]; ok {
			found = append(found, Action{Path: path, Kind: kind, Replacement: replacement})
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("scan %s: %w", dir, err)
	}

	for _, action := range found {
		if action.Err == nil && !dryRun {
			action = r.replace(action)
		}
		summary.Actions = append(summary.Actions, action)
	}
	r.logger.Info("replacement finished",
		logging.String("dir", dir),
		logging.Int("found", len(summary.Actions)),
		logging.Int("replaced", summary.Replaced()),
		logging.Bool("dry_run", dryRun),
	)
	return summary, nil
}

func (r *Replacer) identify(ctx context.Context, path string) (Kind, error) {
	kind, err := Identify(path)
	if !errors.Is(err, ErrArchUnknown) {
		return kind, err
	}
	if r.resolver == nil {
		return "", fmt.Errorf("%w for %s", ErrArchUnknown, path)
	}
	arch, err := r.resolver.ResolveArch(ctx, path)
	if err != nil {
		return "", fmt.Errorf("resolve architecture: %w", err)
	}
	return KindFor(path, arch)
}

func (r *Replacer) replace(action Action) Action {
	backup := action.Path + BackupSuffix
	if !fileutil.Exists(backup) {
		if err := fileutil.CopyFileVerified(action.Path, backup); err != nil {
			action.Err = fmt.Errorf("backup: %w", err)
			return action
		}
		action.BackupCreated = true
	}
	if err := fileutil.CopyFileVerified(action.Replacement, action.Path); err != nil {
		action.Err = fmt.Errorf("replace: %w", err)
		logging.ErrorWithContext(r.logger, "library replacement failed", "replace_failed",
			logging.String("path", action.Path), logging.Error(err))
		return action
	}
	action.Replaced = true
	r.logger.Info("library replaced",
		logging.String("path", action.Path),
		logging.String("kind", string(action.Kind)),
	)
	return action
}
