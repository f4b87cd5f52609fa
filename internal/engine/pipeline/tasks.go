package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

func (p *Pipeline) tasks() []domain.Task {
	return []domain.Task{
		{
			ID:          domain.TaskClean,
			Description: "Empty the build directory, keeping " + domain.KeepFileName,
			Action:      p.clean,
		},
		{
			ID:           domain.TaskCopyStatic,
			Description:  "Copy static assets into the build directory",
			Dependencies: []domain.TaskID{domain.TaskClean},
			Action:       p.copyStatic,
		},
		{
			ID:           domain.TaskCopyVendor,
			Description:  "Copy vendor scripts and styles from the modules store",
			Dependencies: []domain.TaskID{domain.TaskCopyStatic},
			Action:       p.copyVendor,
		},
		{
			ID:           domain.TaskBuild,
			Description:  "Copy assets and bundle the scripts",
			Dependencies: []domain.TaskID{domain.TaskCopyVendor},
			Action:       p.bundle,
		},
		{
			ID:          domain.TaskBuildFast,
			Description: "Bundle the scripts without touching assets",
			Action:      p.bundle,
		},
		{
			ID:           domain.TaskServe,
			Description:  "Build, serve the build directory and reload on changes",
			Dependencies: []domain.TaskID{domain.TaskBuild},
			Action:       p.serve,
		},
		{
			ID:           domain.TaskWatchJS,
			Description:  "Rebundle and reload after a script change",
			Dependencies: []domain.TaskID{domain.TaskBuildFast},
			Action:       p.watchJS,
			Hidden:       true,
		},
		{
			ID:           domain.TaskWatchStatic,
			Description:  "Recopy assets and reload after a static change",
			Dependencies: []domain.TaskID{domain.TaskCopyVendor},
			Action:       p.watchStatic,
			Hidden:       true,
		},
		{
			ID:          domain.TaskArchiveMakeDir,
			Description: "Create the archive directory",
			Action:      p.archiveMakeDir,
		},
		{
			ID:           domain.TaskArchive,
			Description:  "Build and pack the build directory into a versioned zip",
			Dependencies: []domain.TaskID{domain.TaskBuild, domain.TaskArchiveMakeDir},
			Action:       p.archive,
		},
	}
}

func (p *Pipeline) clean(_ context.Context, bc *domain.BuildContext) error {
	if bc.ConsumeKeepFiles() {
		return nil
	}
	return p.cleaner.Clean(bc.Config.BuildDir, domain.KeepFileName)
}

func (p *Pipeline) copyStatic(ctx context.Context, bc *domain.BuildContext) error {
	_, err := p.copier.CopyTree(ctx, bc.Config.StaticDir, bc.Config.BuildDir)
	return err
}

func (p *Pipeline) copyVendor(ctx context.Context, bc *domain.BuildContext) error {
	_, err := p.copier.CopyVendor(ctx, bc.Config.ModulesDir, bc.Vendor(), bc.Config.VendorDirs())
	return err
}

// bundle never fails the run on a build error; the result is recorded for watch-js.
func (p *Pipeline) bundle(ctx context.Context, bc *domain.BuildContext) error {
	cfg := bc.Config
	result := p.bundler.Bundle(ctx, domain.BundleRequest{
		WorkDir:    cfg.Root,
		EntryFile:  cfg.EntryFile,
		OutFile:    cfg.OutputPath(),
		Production: bc.Production(),
		Banner:     cfg.Banner,
		Package:    bc.Package,
	})
	bc.RecordBundle(result)

	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

func (p *Pipeline) watchJS(_ context.Context, bc *domain.BuildContext) error {
	if last, ok := bc.LastBundle(); ok && !last.OK() {
		p.logger.Warn("Bundle failed, skipping reload")
		return nil
	}
	p.reload()
	return nil
}

func (p *Pipeline) watchStatic(_ context.Context, _ *domain.BuildContext) error {
	p.reload()
	return nil
}

func (p *Pipeline) reload() {
	if n := p.devServer.Reload(); n > 0 {
		p.logger.Info("Reloaded " + strconv.Itoa(n) + " browser(s)")
	}
}

func (p *Pipeline) archiveMakeDir(_ context.Context, bc *domain.BuildContext) error {
	dir := bc.Config.ArchiveDir
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveDirFailed.Error()), "path", dir)
	}
	return nil
}

func (p *Pipeline) archive(ctx context.Context, bc *domain.BuildContext) error {
	if last, ok := bc.LastBundle(); ok && !last.OK() {
		p.logger.Warn("Bundle failed, skipping archive")
		return nil
	}

	dst := filepath.Join(bc.Config.ArchiveDir, bc.Package.ArchiveName())
	if err := p.archiver.Archive(ctx, bc.Config.BuildDir, dst); err != nil {
		return err
	}
	p.logger.Info("Wrote " + relTo(bc.Config.Root, dst))
	return nil
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
