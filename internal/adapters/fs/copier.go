package fs

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Copier = (*Copier)(nil)

// Copier copies source trees and vendor files into the build directory.
type Copier struct {
	walker *Walker
}

// NewCopier creates a new Copier.
func NewCopier(walker *Walker) *Copier {
	return &Copier{walker: walker}
}

type copyJob struct {
	src, dst string
}

// CopyTree mirrors every non-hidden file under src into dst and returns the written paths.
func (c *Copier) CopyTree(ctx context.Context, src, dst string) ([]string, error) {
	var jobs []copyJob
	for path := range c.walker.WalkFiles(src, nil) {
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "path", path)
		}
		jobs = append(jobs, copyJob{src: path, dst: filepath.Join(dst, rel)})
	}

	return c.run(ctx, jobs)
}

// CopyVendor copies each mapped file from the modules store into the directory of its
// category, flattened to its base name. Entries missing from the store are skipped.
func (c *Copier) CopyVendor(
	ctx context.Context,
	store string,
	mapping domain.VendorMapping,
	dirs map[domain.VendorCategory]string,
) ([]string, error) {
	jobs := make([]copyJob, 0, len(mapping))
	for _, key := range mapping.Keys() {
		category := mapping[key]
		dir, ok := dirs[category]
		if !ok {
			err := zerr.With(domain.ErrUnknownVendorCategory, "category", string(category))
			return nil, zerr.With(err, "vendor", key)
		}

		src := filepath.Join(store, filepath.FromSlash(key))
		info, err := os.Stat(src)
		if errors.Is(err, iofs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "path", src)
		}
		if info.IsDir() {
			continue
		}

		jobs = append(jobs, copyJob{src: src, dst: filepath.Join(dir, filepath.Base(src))})
	}

	return c.run(ctx, jobs)
}

func (c *Copier) run(ctx context.Context, jobs []copyJob) ([]string, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return copyFile(job.src, job.dst)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(jobs))
	for _, job := range jobs {
		written = append(written, job.dst)
	}
	slices.Sort(written)
	return written, nil
}

// copyFile copies src to dst, creating parent directories and keeping the permission bits.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src) //nolint:gosec // Path comes from a walk of a configured directory
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "path", src)
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	info, err := in.Stat()
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "path", src)
	}

	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "path", dst)
	}

	mode := info.Mode().Perm()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode) //nolint:gosec // Destination is inside the build dir
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "path", dst)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = zerr.With(zerr.Wrap(cerr, domain.ErrCopyFailed.Error()), "path", dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "path", dst)
	}

	// OpenFile only applies mode on creation; overwritten files keep their old bits otherwise.
	if err := out.Chmod(mode); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "path", dst)
	}

	return nil
}
