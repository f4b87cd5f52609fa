// Package archive packs the build directory into a distributable zip.
package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
	"github.com/schollz/progressbar/v3"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Archiver = (*Zipper)(nil)

// Zipper writes deflate-compressed zip archives.
type Zipper struct {
	walker   *fs.Walker
	progress io.Writer
}

// NewZipper creates a Zipper. When progress is non-nil a byte progress bar is drawn on it.
func NewZipper(walker *fs.Walker, progress io.Writer) *Zipper {
	return &Zipper{walker: walker, progress: progress}
}

type entry struct {
	path string
	name string
	info os.FileInfo
}

// Archive writes every non-hidden file under srcDir into dstFile.
// A failed archive leaves no file behind.
func (z *Zipper) Archive(ctx context.Context, srcDir, dstFile string) (err error) {
	entries, total, err := z.collect(srcDir)
	if err != nil {
		return err
	}

	f, err := os.Create(dstFile) //nolint:gosec // Destination is the configured archive path
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "path", dstFile)
	}

	zw := zip.NewWriter(f)
	bar := z.newBar(total, filepath.Base(dstFile))

	defer func() {
		if err != nil {
			_ = zw.Close()
			_ = f.Close()
			_ = os.Remove(dstFile)
		}
	}()

	for _, e := range entries {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = writeEntry(zw, e, bar); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "path", e.path)
		}
	}

	if err = zw.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "path", dstFile)
	}
	if err = f.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "path", dstFile)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	return nil
}

func (z *Zipper) collect(srcDir string) ([]entry, int64, error) {
	var entries []entry
	var total int64

	for path := range z.walker.WalkFiles(srcDir, nil) {
		info, err := os.Stat(path)
		if err != nil {
			return nil, 0, zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "path", path)
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return nil, 0, zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "path", path)
		}
		entries = append(entries, entry{path: path, name: filepath.ToSlash(rel), info: info})
		total += info.Size()
	}

	return entries, total, nil
}

func (z *Zipper) newBar(total int64, desc string) *progressbar.ProgressBar {
	if z.progress == nil {
		return nil
	}
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(z.progress),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)
}

func writeEntry(zw *zip.Writer, e entry, bar *progressbar.ProgressBar) error {
	hdr, err := zip.FileInfoHeader(e.info)
	if err != nil {
		return err
	}
	hdr.Name = e.name
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}

	in, err := os.Open(e.path) //nolint:gosec // Path comes from a walk of the build dir
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // Read-only file

	if bar != nil {
		w = io.MultiWriter(w, bar)
	}
	_, err = io.Copy(w, in)
	return err
}
