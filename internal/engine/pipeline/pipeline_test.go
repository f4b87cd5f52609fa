package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	log      *mocks.MockLogger
	cleaner  *mocks.MockCleaner
	copier   *mocks.MockCopier
	bundler  *mocks.MockBundler
	archiver *mocks.MockArchiver
	server   *mocks.MockDevServer
	notifier *mocks.MockChangeNotifier
	pipeline *pipeline.Pipeline
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		log:      mocks.NewMockLogger(ctrl),
		cleaner:  mocks.NewMockCleaner(ctrl),
		copier:   mocks.NewMockCopier(ctrl),
		bundler:  mocks.NewMockBundler(ctrl),
		archiver: mocks.NewMockArchiver(ctrl),
		server:   mocks.NewMockDevServer(ctrl),
		notifier: mocks.NewMockChangeNotifier(ctrl),
	}

	p, err := pipeline.New(pipeline.Deps{
		Logger:    f.log,
		Cleaner:   f.cleaner,
		Copier:    f.copier,
		Bundler:   f.bundler,
		Archiver:  f.archiver,
		DevServer: f.server,
		Notifier:  f.notifier,
		Tracer:    telemetry.NewNoOpTracer(),
		Clock:     clockwork.NewFakeClock(),
	})
	require.NoError(t, err)
	f.pipeline = p
	return f
}

func (f *fixture) quiet() {
	f.log.EXPECT().Info(gomock.Any()).AnyTimes()
}

func newContext(root string, production bool) *domain.BuildContext {
	return domain.NewBuildContext(
		domain.DefaultConfig(root),
		domain.PackageInfo{Name: "game", Version: "1.2.0"},
		func() bool { return production },
	)
}

func TestPipeline_Graph(t *testing.T) {
	f := newFixture(t)
	g := f.pipeline.Graph()

	assert.Equal(t, 10, g.TaskCount())

	var visible, hidden []domain.TaskID
	for task := range g.Tasks() {
		assert.NotEmpty(t, task.Description, task.ID)
		if task.Hidden {
			hidden = append(hidden, task.ID)
		} else {
			visible = append(visible, task.ID)
		}
	}
	assert.ElementsMatch(t, []domain.TaskID{domain.TaskWatchJS, domain.TaskWatchStatic}, hidden)
	assert.Contains(t, visible, domain.DefaultTask)

	plan, err := g.Plan(domain.TaskArchive)
	require.NoError(t, err)
	assert.Equal(t, []domain.TaskID{
		domain.TaskClean,
		domain.TaskCopyStatic,
		domain.TaskCopyVendor,
		domain.TaskBuild,
		domain.TaskArchiveMakeDir,
		domain.TaskArchive,
	}, plan)
}

func TestPipeline_Build(t *testing.T) {
	f := newFixture(t)
	f.quiet()
	root := t.TempDir()
	bc := newContext(root, false)
	cfg := bc.Config

	gomock.InOrder(
		f.cleaner.EXPECT().Clean(cfg.BuildDir, domain.KeepFileName).Return(nil),
		f.copier.EXPECT().CopyTree(gomock.Any(), cfg.StaticDir, cfg.BuildDir).Return(nil, nil),
		f.copier.EXPECT().CopyVendor(gomock.Any(), cfg.ModulesDir, bc.Vendor(), cfg.VendorDirs()).Return(nil, nil),
		f.bundler.EXPECT().Bundle(gomock.Any(), domain.BundleRequest{
			WorkDir:   root,
			EntryFile: cfg.EntryFile,
			OutFile:   cfg.OutputPath(),
			Banner:    true,
			Package:   bc.Package,
		}).Return(domain.BundleResult{Artifacts: []string{cfg.OutputPath()}}),
	)

	require.NoError(t, f.pipeline.Run(context.Background(), domain.TaskBuild, bc))

	last, ok := bc.LastBundle()
	require.True(t, ok)
	assert.True(t, last.OK())
}

func TestPipeline_Build_ProductionVendor(t *testing.T) {
	f := newFixture(t)
	f.quiet()
	bc := newContext(t.TempDir(), true)
	bc.Config.VendorDev = domain.VendorMapping{"phaser/dist/phaser.js": domain.VendorScripts}

	f.cleaner.EXPECT().Clean(gomock.Any(), gomock.Any()).Return(nil)
	f.copier.EXPECT().CopyTree(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.copier.EXPECT().
		CopyVendor(gomock.Any(), gomock.Any(), domain.VendorMapping{"normalize.css/normalize.css": domain.VendorStyles}, gomock.Any()).
		Return(nil, nil)
	f.bundler.EXPECT().Bundle(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req domain.BundleRequest) domain.BundleResult {
			assert.True(t, req.Production)
			return domain.BundleResult{}
		})

	require.NoError(t, f.pipeline.Run(context.Background(), domain.TaskBuild, bc))
}

func TestPipeline_Build_BundleErrorDoesNotFailRun(t *testing.T) {
	f := newFixture(t)
	f.quiet()
	bc := newContext(t.TempDir(), false)
	bundleErr := zerr.With(domain.ErrBundleFailed, "file", "src/main.js")

	f.bundler.EXPECT().Bundle(gomock.Any(), gomock.Any()).Return(domain.BundleResult{Err: bundleErr})

	require.NoError(t, f.pipeline.Run(context.Background(), domain.TaskBuildFast, bc))

	last, ok := bc.LastBundle()
	require.True(t, ok)
	assert.ErrorIs(t, last.Err, bundleErr)
}

func TestPipeline_Clean_KeepFiles(t *testing.T) {
	f := newFixture(t)
	f.quiet()
	bc := newContext(t.TempDir(), false)
	bc.SetKeepFiles(true)

	require.NoError(t, f.pipeline.Run(context.Background(), domain.TaskClean, bc))

	f.cleaner.EXPECT().Clean(bc.Config.BuildDir, domain.KeepFileName).Return(nil)
	require.NoError(t, f.pipeline.Run(context.Background(), domain.TaskClean, bc))
}

func TestPipeline_CopyFailureStopsRun(t *testing.T) {
	f := newFixture(t)
	f.quiet()
	bc := newContext(t.TempDir(), false)
	copyErr := zerr.With(domain.ErrCopyFailed, "path", "static/index.html")

	f.cleaner.EXPECT().Clean(gomock.Any(), gomock.Any()).Return(nil)
	f.copier.EXPECT().CopyTree(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, copyErr)

	err := f.pipeline.Run(context.Background(), domain.TaskBuild, bc)
	require.ErrorIs(t, err, copyErr)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, domain.TaskCopyStatic.String(), zErr.Metadata()["task"])
}

func TestPipeline_WatchJS(t *testing.T) {
	tests := []struct {
		name       string
		bundle     domain.BundleResult
		wantReload bool
	}{
		{name: "reloads after a good bundle", bundle: domain.BundleResult{}, wantReload: true},
		{name: "skips reload after a failed bundle", bundle: domain.BundleResult{Err: domain.ErrBundleFailed}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			bc := newContext(t.TempDir(), false)

			f.bundler.EXPECT().Bundle(gomock.Any(), gomock.Any()).Return(tt.bundle)
			if tt.wantReload {
				f.server.EXPECT().Reload().Return(2)
				f.log.EXPECT().Info("Reloaded 2 browser(s)")
			} else {
				f.log.EXPECT().Warn("Bundle failed, skipping reload")
			}
			f.log.EXPECT().Info(gomock.Any()).AnyTimes()

			require.NoError(t, f.pipeline.Run(context.Background(), domain.TaskWatchJS, bc))
		})
	}
}

func TestPipeline_WatchStatic(t *testing.T) {
	f := newFixture(t)
	f.quiet()
	bc := newContext(t.TempDir(), false)
	bc.SetKeepFiles(true)

	f.copier.EXPECT().CopyTree(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.copier.EXPECT().CopyVendor(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.server.EXPECT().Reload().Return(0)

	require.NoError(t, f.pipeline.Run(context.Background(), domain.TaskWatchStatic, bc))
}

func TestPipeline_Archive(t *testing.T) {
	f := newFixture(t)
	f.quiet()
	root := t.TempDir()
	bc := newContext(root, true)
	dst := filepath.Join(root, "dist", "game_v1.2.0.zip")

	f.cleaner.EXPECT().Clean(gomock.Any(), gomock.Any()).Return(nil)
	f.copier.EXPECT().CopyTree(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.copier.EXPECT().CopyVendor(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.bundler.EXPECT().Bundle(gomock.Any(), gomock.Any()).Return(domain.BundleResult{})
	f.archiver.EXPECT().Archive(gomock.Any(), bc.Config.BuildDir, dst).DoAndReturn(
		func(context.Context, string, string) error {
			assert.DirExists(t, filepath.Join(root, "dist"))
			return nil
		})

	require.NoError(t, f.pipeline.Run(context.Background(), domain.TaskArchive, bc))
}

func TestPipeline_Archive_SkipsAfterFailedBundle(t *testing.T) {
	f := newFixture(t)
	f.quiet()
	root := t.TempDir()
	bc := newContext(root, true)

	f.cleaner.EXPECT().Clean(gomock.Any(), gomock.Any()).Return(nil)
	f.copier.EXPECT().CopyTree(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.copier.EXPECT().CopyVendor(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.bundler.EXPECT().Bundle(gomock.Any(), gomock.Any()).Return(domain.BundleResult{Err: domain.ErrBundleFailed})
	f.log.EXPECT().Warn("Bundle failed, skipping archive")
	f.archiver.EXPECT().Archive(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	require.NoError(t, f.pipeline.Run(context.Background(), domain.TaskArchive, bc))
	assert.NoFileExists(t, filepath.Join(root, "dist", "game_v1.2.0.zip"))
}

func TestPipeline_ArchiveMakeDir_Fails(t *testing.T) {
	f := newFixture(t)
	f.quiet()
	root := t.TempDir()
	bc := newContext(root, false)
	require.NoError(t, os.WriteFile(bc.Config.ArchiveDir, []byte("not a dir"), 0o600))

	err := f.pipeline.Run(context.Background(), domain.TaskArchiveMakeDir, bc)
	require.Error(t, err)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Contains(t, err.Error(), domain.ErrArchiveDirFailed.Error())
}

func TestPipeline_Serve(t *testing.T) {
	f := newFixture(t)
	root := t.TempDir()
	bc := newContext(root, false)
	cfg := bc.Config
	require.NoError(t, os.MkdirAll(cfg.SourceDir, 0o750))
	require.NoError(t, os.MkdirAll(cfg.StaticDir, 0o750))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.log.EXPECT().Info("Changed: " + filepath.Join("src", "main.js"))
	f.log.EXPECT().Info(gomock.Any()).AnyTimes()

	f.cleaner.EXPECT().Clean(gomock.Any(), gomock.Any()).Return(nil)
	f.copier.EXPECT().CopyTree(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.copier.EXPECT().CopyVendor(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	// build, then build-fast from the watch-js rebuild.
	f.bundler.EXPECT().Bundle(gomock.Any(), gomock.Any()).Return(domain.BundleResult{}).Times(2)

	f.server.EXPECT().ListenAndServe(gomock.Any(), "localhost:3000", cfg.BuildDir).DoAndReturn(
		func(ctx context.Context, _, _ string) error {
			<-ctx.Done()
			return nil
		})
	f.notifier.EXPECT().Watch(gomock.Any(), gomock.Any(), gomock.Any()).Times(2).DoAndReturn(
		func(ctx context.Context, req ports.WatchRequest, onChange func([]string)) error {
			assert.Equal(t, cfg.Debounce, req.Debounce)
			if req.Root == cfg.SourceDir {
				assert.Equal(t, []string{"**/*.js"}, req.Patterns)
				onChange([]string{filepath.Join(cfg.SourceDir, "main.js")})
			} else {
				assert.Equal(t, cfg.StaticDir, req.Root)
			}
			<-ctx.Done()
			return nil
		})
	f.server.EXPECT().Reload().DoAndReturn(func() int {
		cancel()
		return 1
	})

	require.NoError(t, f.pipeline.Run(ctx, domain.TaskServe, bc))
}

func TestPipeline_Serve_SkipsMissingStaticDir(t *testing.T) {
	f := newFixture(t)
	f.quiet()
	bc := newContext(t.TempDir(), false)
	cfg := bc.Config
	require.NoError(t, os.MkdirAll(cfg.SourceDir, 0o750))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.log.EXPECT().Warn("Not watching static: no such directory")
	f.cleaner.EXPECT().Clean(gomock.Any(), gomock.Any()).Return(nil)
	f.copier.EXPECT().CopyTree(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.copier.EXPECT().CopyVendor(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.bundler.EXPECT().Bundle(gomock.Any(), gomock.Any()).Return(domain.BundleResult{})

	f.server.EXPECT().ListenAndServe(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _, _ string) error {
			<-ctx.Done()
			return nil
		})
	f.notifier.EXPECT().Watch(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req ports.WatchRequest, _ func([]string)) error {
			assert.Equal(t, cfg.SourceDir, req.Root)
			cancel()
			return nil
		})

	require.NoError(t, f.pipeline.Run(ctx, domain.TaskServe, bc))
}

func TestPipeline_Serve_ServerFailureStopsWatches(t *testing.T) {
	f := newFixture(t)
	f.quiet()
	bc := newContext(t.TempDir(), false)
	require.NoError(t, os.MkdirAll(bc.Config.SourceDir, 0o750))
	require.NoError(t, os.MkdirAll(bc.Config.StaticDir, 0o750))
	serverErr := errors.New("address already in use")

	f.cleaner.EXPECT().Clean(gomock.Any(), gomock.Any()).Return(nil)
	f.copier.EXPECT().CopyTree(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.copier.EXPECT().CopyVendor(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.bundler.EXPECT().Bundle(gomock.Any(), gomock.Any()).Return(domain.BundleResult{})

	f.server.EXPECT().ListenAndServe(gomock.Any(), gomock.Any(), gomock.Any()).Return(serverErr)
	f.notifier.EXPECT().Watch(gomock.Any(), gomock.Any(), gomock.Any()).Times(2).DoAndReturn(
		func(ctx context.Context, _ ports.WatchRequest, _ func([]string)) error {
			<-ctx.Done()
			return nil
		})

	err := f.pipeline.Run(context.Background(), domain.TaskServe, bc)
	require.ErrorIs(t, err, serverErr)
}
