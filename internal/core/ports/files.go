package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

//go:generate mockgen -source=files.go -destination=mocks/mock_files.go -package=mocks

// Cleaner empties a directory.
type Cleaner interface {
	// Clean removes every entry under dir except the top-level file named keep.
	// A missing dir is not an error.
	Clean(dir, keep string) error
}

// Copier copies files into the build directory.
type Copier interface {
	// CopyTree mirrors every file under src into dst. A missing src copies nothing.
	CopyTree(ctx context.Context, src, dst string) ([]string, error)
	// CopyVendor copies each mapping entry from store into dirs[category].
	// Entries missing from store are skipped.
	CopyVendor(
		ctx context.Context,
		store string,
		mapping domain.VendorMapping,
		dirs map[domain.VendorCategory]string,
	) ([]string, error)
}

// Archiver packs a directory into a single archive file.
type Archiver interface {
	// Archive writes every non-hidden file under srcDir into dstFile.
	Archive(ctx context.Context, srcDir, dstFile string) error
}
