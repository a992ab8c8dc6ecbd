// Package cover selects the single cover image used for an album.
package cover

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-flac/flacpicture"
	flac "github.com/go-flac/go-flac"

	"blacksys/internal/fileutil"
	"blacksys/internal/logging"
	"blacksys/internal/services"
)

// DefaultName is the canonical cover file written into album folders.
const DefaultName = "cover.jpg"

var imageExts = []string{".jpg", ".jpeg", ".png"}

// Option configures the resolver.
type Option func(*Resolver)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(r *Resolver) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithLogger sets the logger used for resolution decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCanonicalName overrides the file name written into album folders.
func WithCanonicalName(name string) Option {
	return func(r *Resolver) {
		if name = strings.TrimSpace(name); name != "" {
			r.canonical = name
		}
	}
}

// Resolver finds one representative image per album.
type Resolver struct {
	ffmpeg    string
	canonical string
	exec      services.Executor
	logger    *slog.Logger
}

// NewResolver constructs a resolver that extracts embedded art with ffmpeg.
func NewResolver(ffmpegBinary string, opts ...Option) *Resolver {
	r := &Resolver{
		ffmpeg:    strings.TrimSpace(ffmpegBinary),
		canonical: DefaultName,
		exec:      services.CommandExecutor{},
		logger:    logging.NewNop(),
	}
	if r.ffmpeg == "" {
		r.ffmpeg = "ffmpeg"
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the album's cover image path. It prefers the image embedded
// in the first FLAC file (by name), then the first image file in the folder.
// Either way the image ends up under the canonical name unless the folder
// image is already a .jpg. A missing cover is not an error; it reports false.
func (r *Resolver) Resolve(ctx context.Context, albumDir string) (string, bool) {
	logger := logging.WithContext(ctx, r.logger)
	canonical := filepath.Join(albumDir, r.canonical)

	flacs, err := fileutil.ListFiles(albumDir, ".flac")
	if err != nil {
		logger.Warn("list album folder failed", logging.String("dir", albumDir), logging.Error(err))
		return "", false
	}

	if len(flacs) > 0 {
		first := flacs[0]
		if r.extractWithFFmpeg(ctx, first, canonical, logger) {
			return canonical, true
		}
		if extractNative(first, canonical) {
			logger.Info("cover read from flac picture block", logging.String("source", filepath.Base(first)))
			return canonical, true
		}
	}

	images, err := fileutil.ListFiles(albumDir, imageExts...)
	if err != nil || len(images) == 0 {
		logger.Info("no cover image found", logging.String("dir", albumDir))
		return "", false
	}
	chosen := images[0]
	if strings.ToLower(filepath.Ext(chosen)) == ".jpg" {
		logger.Info("using folder image", logging.String("image", filepath.Base(chosen)))
		return chosen, true
	}
	if err := fileutil.CopyFile(chosen, canonical); err != nil {
		logger.Warn("copy folder image failed", logging.String("image", chosen), logging.Error(err))
		return "", false
	}
	logger.Info("folder image copied to canonical name",
		logging.String("image", filepath.Base(chosen)),
		logging.String("cover", r.canonical),
	)
	return canonical, true
}

func (r *Resolver) extractWithFFmpeg(ctx context.Context, source, dest string, logger *slog.Logger) bool {
	tmpDir, err := os.MkdirTemp("", "blacksys-cover-")
	if err != nil {
		logger.Warn("create temp dir failed", logging.Error(err))
		return false
	}
	defer os.RemoveAll(tmpDir)

	tmpImage := filepath.Join(tmpDir, DefaultName)
	args := []string{"-i", source, "-an", "-vcodec", "copy", tmpImage, "-y", "-loglevel", "error"}
	if err := r.exec.Run(ctx, r.ffmpeg, args, nil); err != nil {
		logger.Debug("ffmpeg cover extraction failed", logging.String("source", source), logging.Error(err))
		return false
	}
	if !fileutil.NonEmptyFile(tmpImage) {
		return false
	}
	if err := fileutil.CopyFile(tmpImage, dest); err != nil {
		logger.Warn("copy extracted cover failed", logging.String("dest", dest), logging.Error(err))
		return false
	}
	logger.Info("cover extracted from flac", logging.String("source", filepath.Base(source)))
	return true
}

// extractNative writes the first non-empty PICTURE block of source to dest.
func extractNative(source, dest string) bool {
	data, err := EmbeddedPicture(source)
	if err != nil || len(data) == 0 {
		return false
	}
	return os.WriteFile(dest, data, 0o644) == nil
}

// EmbeddedPicture returns the image bytes of the first PICTURE block in a FLAC
// file, preferring a front cover when several are present.
func EmbeddedPicture(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open flac: %w", err)
	}
	defer file.Close()
	f, err := flac.ParseMetadata(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("parse flac: %w", err)
	}
	var first []byte
	for _, block := range f.Meta {
		if block.Type != flac.Picture {
			continue
		}
		pic, err := flacpicture.ParseFromMetaDataBlock(*block)
		if err != nil || len(pic.ImageData) == 0 {
			continue
		}
		if pic.PictureType == flacpicture.PictureTypeFrontCover {
			return pic.ImageData, nil
		}
		if first == nil {
			first = pic.ImageData
		}
	}
	return first, nil
}
