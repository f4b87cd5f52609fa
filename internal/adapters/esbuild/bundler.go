// Package esbuild implements the script bundler on top of the esbuild Go API.
package esbuild

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/jonboulle/clockwork"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Bundler = (*Bundler)(nil)

// Bundler bundles a single entry module into an ES2015 IIFE script.
type Bundler struct {
	logger ports.Logger
	clock  clockwork.Clock
}

// NewBundler creates a new Bundler. The clock stamps the banner.
func NewBundler(logger ports.Logger, clock clockwork.Clock) *Bundler {
	return &Bundler{logger: logger, clock: clock}
}

// Bundle builds req. Build errors are logged and returned in the result; nothing is
// written when the build fails.
func (b *Bundler) Bundle(ctx context.Context, req domain.BundleRequest) domain.BundleResult {
	if req.Production {
		b.logger.Info("Running production build...")
	} else {
		b.logger.Info("Running development build...")
	}

	if err := ctx.Err(); err != nil {
		return domain.BundleResult{Err: err}
	}

	result := api.Build(b.options(req))
	if len(result.Errors) > 0 {
		err := buildError(result.Errors)
		b.logger.Error(err)
		return domain.BundleResult{Err: err}
	}

	artifacts := make([]string, 0, len(result.OutputFiles))
	for _, out := range result.OutputFiles {
		if err := writeArtifact(out.Path, out.Contents); err != nil {
			b.logger.Error(err)
			return domain.BundleResult{Err: err}
		}
		artifacts = append(artifacts, out.Path)
	}

	if req.Production {
		// A map left by an earlier development build must not ship.
		stale := req.OutFile + domain.SourceMapExt
		if err := os.Remove(stale); err != nil && !errors.Is(err, iofs.ErrNotExist) {
			err = zerr.With(zerr.Wrap(err, domain.ErrBundleWriteFailed.Error()), "path", stale)
			b.logger.Error(err)
			return domain.BundleResult{Artifacts: artifacts, Err: err}
		}
	}

	return domain.BundleResult{Artifacts: artifacts}
}

func (b *Bundler) options(req domain.BundleRequest) api.BuildOptions {
	opts := api.BuildOptions{
		EntryPoints:   []string{req.EntryFile},
		Outfile:       req.OutFile,
		AbsWorkingDir: req.WorkDir,
		Bundle:        true,
		Write:         false,
		Target:        api.ES2015,
		Format:        api.FormatIIFE,
		Platform:      api.PlatformBrowser,
		LogLevel:      api.LogLevelSilent,
	}

	if req.Production {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
	} else {
		opts.Sourcemap = api.SourceMapLinked
	}

	if req.Banner {
		opts.Banner = map[string]string{"js": Banner(req.Package, b.clock.Now())}
	}

	return opts
}

// buildError converts the first esbuild message into a zerr error carrying its location.
// The remaining messages are counted.
func buildError(msgs []api.Message) error {
	first := msgs[0]
	err := zerr.Wrap(errors.New(first.Text), domain.ErrBundleFailed.Error())
	if loc := first.Location; loc != nil {
		err = zerr.With(err, "file", loc.File)
		err = zerr.With(err, "line", loc.Line)
		err = zerr.With(err, "column", loc.Column)
	}
	if len(msgs) > 1 {
		err = zerr.With(err, "more_errors", len(msgs)-1)
	}
	return err
}

func writeArtifact(path string, contents []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrBundleWriteFailed.Error()), "path", path)
	}
	if err := os.WriteFile(path, contents, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrBundleWriteFailed.Error()), "path", path)
	}
	return nil
}
