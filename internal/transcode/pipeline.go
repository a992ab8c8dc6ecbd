package transcode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"blacksys/internal/fileutil"
	"blacksys/internal/logging"
	"blacksys/internal/services"
	"blacksys/internal/tags"
)

// ErrNoSourceFiles is returned when an album folder holds no FLAC files.
var ErrNoSourceFiles = errors.New("no flac files found")

// TagReader reads source metadata.
type TagReader interface {
	Read(path string) (tags.Set, error)
}

// TagWriter writes normalized metadata to an MP3.
type TagWriter interface {
	Write(path string, set tags.Set) error
}

// CoverResolver finds the album cover, if any.
type CoverResolver interface {
	Resolve(ctx context.Context, albumDir string) (string, bool)
}

// ProgressFunc is called after each file with the running count.
type ProgressFunc func(done, total int, file string)

type flacReader struct{}

func (flacReader) Read(path string) (tags.Set, error) { return tags.ReadFLAC(path) }

// Binaries names the external tools used by the pipeline.
type Binaries struct {
	Flac   string
	Lame   string
	FFmpeg string
}

// Option configures the pipeline.
type Option func(*Pipeline)

// WithExecutor injects the executor used for ffmpeg cover embedding.
func WithExecutor(exec services.Executor) Option {
	return func(p *Pipeline) {
		if exec != nil {
			p.exec = exec
		}
	}
}

// WithTagReader replaces the FLAC metadata reader.
func WithTagReader(r TagReader) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.reader = r
		}
	}
}

// WithTagWriter replaces the ID3 writer.
func WithTagWriter(w TagWriter) Option {
	return func(p *Pipeline) {
		if w != nil {
			p.writer = w
		}
	}
}

// WithProgress registers a per-file progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pipeline converts album folders file by file.
type Pipeline struct {
	bin      Binaries
	covers   CoverResolver
	exec     services.Executor
	reader   TagReader
	writer   TagWriter
	progress ProgressFunc
	logger   *slog.Logger
}

// NewPipeline constructs a pipeline. covers may be nil, in which case no art
// is embedded.
func NewPipeline(bin Binaries, covers CoverResolver, opts ...Option) *Pipeline {
	p := &Pipeline{
		bin:    bin,
		covers: covers,
		exec:   services.CommandExecutor{},
		reader: flacReader{},
		writer: tags.NewID3Writer(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FileResult is the outcome for one source file.
type FileResult struct {
	Source string
	Output string
	Err    error
}

// Result summarizes one album conversion.
type Result struct {
	Preset    string
	OutputDir string
	Cover     string
	Files     []FileResult
}

// OK reports whether at least one file was converted and none failed.
func (r Result) OK() bool {
	return len(r.Files) > 0 && r.Failed() == 0
}

// Failed counts failed files.
func (r Result) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// Succeeded counts converted files.
func (r Result) Succeeded() int {
	return len(r.Files) - r.Failed()
}

// Convert transcodes every FLAC file directly inside srcDir into dstDir using
// preset. Per-file failures are recorded in the result; the returned error is
// reserved for conditions that stop the album as a whole.
func (p *Pipeline) Convert(ctx context.Context, srcDir, dstDir string, preset Preset) (Result, error) {
	ctx = logging.WithPreset(ctx, preset.Label)
	logger := logging.WithContext(ctx, p.logger)
	result := Result{Preset: preset.Label, OutputDir: dstDir}

	sources, err := fileutil.ListFiles(srcDir, ".flac")
	if err != nil {
		return result, fmt.Errorf("list %s: %w", srcDir, err)
	}
	if len(sources) == 0 {
		logging.WarnWithContext(logger, "album has no flac files", "transcode_no_source",
			logging.String("dir", srcDir),
			logging.String(logging.FieldImpact, "album skipped"),
		)
		return result, ErrNoSourceFiles
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return result, fmt.Errorf("create output folder: %w", err)
	}

	if p.covers != nil {
		if path, ok := p.covers.Resolve(ctx, srcDir); ok {
			result.Cover = path
		}
	}

	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		out := filepath.Join(dstDir, strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))+".mp3")
		fileErr := p.convertFile(ctx, srcDir, src, out, preset, result.Cover, logger)
		result.Files = append(result.Files, FileResult{Source: src, Output: out, Err: fileErr})
		if fileErr != nil {
			logging.ErrorWithContext(logger, "file conversion failed", "transcode_file_failed",
				logging.String("file", filepath.Base(src)),
				logging.Error(fileErr),
			)
		} else {
			logger.Debug("file converted", logging.String("file", filepath.Base(src)))
		}
		if p.progress != nil {
			p.progress(i+1, len(sources), filepath.Base(src))
		}
	}

	logger.Info("album transcoded",
		logging.String("output", filepath.Base(dstDir)),
		logging.Int("converted", result.Succeeded()),
		logging.Int("failed", result.Failed()),
		logging.Bool("cover", result.Cover != ""),
	)
	return result, nil
}

func (p *Pipeline) convertFile(ctx context.Context, albumDir, src, out string, preset Preset, cover string, logger *slog.Logger) error {
	raw, err := p.reader.Read(src)
	if err != nil {
		logging.WarnWithContext(logger, "source tags unreadable; using fallbacks", "tag_read_failed",
			logging.String("file", filepath.Base(src)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "album and title derived from names"),
		)
		raw = tags.Set{}
	}
	set := tags.Normalize(raw, albumDir, src, logger)

	if err := p.encode(ctx, src, out, preset); err != nil {
		return err
	}
	if !fileutil.NonEmptyFile(out) {
		return fmt.Errorf("encoder produced no output for %s", filepath.Base(src))
	}
	if err := p.writer.Write(out, set); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	if cover == "" {
		return nil
	}
	return p.embedCover(ctx, out, cover)
}

// encode runs "flac --decode --stdout" piped into lame and waits for both.
func (p *Pipeline) encode(ctx context.Context, src, out string, preset Preset) error {
	decode := exec.CommandContext(ctx, p.bin.Flac, "--decode", "--stdout", "--silent", src) //nolint:gosec
	lameArgs := append(append([]string(nil), preset.Args...), "-", out)
	encode := exec.CommandContext(ctx, p.bin.Lame, lameArgs...) //nolint:gosec

	reader, writer, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("create pipe: %w", err)
	}
	decode.Stdout = writer
	encode.Stdin = reader
	var decodeErr, encodeErr tailBuffer
	decode.Stderr = &decodeErr
	encode.Stderr = &encodeErr

	if err := encode.Start(); err != nil {
		reader.Close()
		writer.Close()
		return services.Wrap(services.ErrExternalTool, "lame", "start", "", err)
	}
	if err := decode.Start(); err != nil {
		reader.Close()
		writer.Close()
		_ = encode.Process.Kill()
		_ = encode.Wait()
		return services.Wrap(services.ErrExternalTool, "flac", "start", "", err)
	}
	// The children hold their own descriptors; lame sees EOF once flac exits.
	reader.Close()
	writer.Close()

	var g errgroup.Group
	g.Go(func() error {
		if err := decode.Wait(); err != nil {
			return services.Wrap(services.ErrExternalTool, "flac", "decode", decodeErr.String(), err)
		}
		return nil
	})
	g.Go(func() error {
		if err := encode.Wait(); err != nil {
			return services.Wrap(services.ErrExternalTool, "lame", "encode", encodeErr.String(), err)
		}
		return nil
	})
	return g.Wait()
}

// embedCover rewrites out with the cover attached through a sibling temp file.
// On failure the temp file is removed and the tagged original is kept.
func (p *Pipeline) embedCover(ctx context.Context, out, cover string) error {
	tmp := strings.TrimSuffix(out, filepath.Ext(out)) + ".temp.mp3"
	args := []string{
		"-i", out, "-i", cover,
		"-c:a", "copy", "-c:v", "copy",
		"-map", "0:a", "-map", "1:v",
		"-metadata:s:v", "title=Cover (front)",
		"-id3v2_version", "3",
		tmp, "-y", "-loglevel", "error",
	}
	err := p.exec.Run(ctx, p.bin.FFmpeg, args, nil)
	if err == nil && !fileutil.NonEmptyFile(tmp) {
		err = errors.New("ffmpeg produced no output")
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("embed cover: %w", err)
	}
	if err := os.Rename(tmp, out); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace with covered file: %w", err)
	}
	return nil
}
