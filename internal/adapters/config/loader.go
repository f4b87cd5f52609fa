// Package config provides the project loader for kiln.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/gjson"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using kiln.yaml and package.json.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds the project root from cwd and returns the resolved project.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve working directory"), "cwd", cwd)
	}

	root := findRoot(abs)
	cfg := domain.DefaultConfig(root)

	configPath := filepath.Join(root, domain.ConfigFileName)
	if _, statErr := os.Stat(configPath); statErr == nil {
		var kf Kilnfile
		if err := readAndUnmarshalYAML(configPath, &kf); err != nil {
			return nil, zerr.With(err, "path", configPath)
		}
		if err := applyKilnfile(&cfg, &kf); err != nil {
			return nil, zerr.With(err, "path", configPath)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pkg, err := l.loadPackage(root)
	if err != nil {
		return nil, err
	}

	return &domain.Project{Config: cfg, Package: pkg}, nil
}

// findRoot walks up from cwd to the first directory holding kiln.yaml or package.json.
// Without either, cwd itself is the root.
func findRoot(cwd string) string {
	current := cwd
	for {
		for _, name := range []string{domain.ConfigFileName, domain.PackageFileName} {
			if _, err := os.Stat(filepath.Join(current, name)); err == nil {
				return current
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return cwd
		}
		current = parent
	}
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is derived from the discovered root
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

//nolint:cyclop // flat field-by-field overrides
func applyKilnfile(cfg *domain.Config, kf *Kilnfile) error {
	resolve := func(base string, rel *string, dst *string) {
		if rel != nil {
			*dst = resolvePath(base, *rel)
		}
	}

	if kf.Build != nil {
		cfg.BuildDir = resolvePath(cfg.Root, *kf.Build)
		cfg.ScriptsDir = filepath.Join(cfg.BuildDir, domain.DefaultScriptsDir)
		cfg.StylesDir = filepath.Join(cfg.BuildDir, domain.DefaultStylesDir)
	}
	resolve(cfg.BuildDir, kf.Scripts, &cfg.ScriptsDir)
	resolve(cfg.BuildDir, kf.Styles, &cfg.StylesDir)
	resolve(cfg.Root, kf.Source, &cfg.SourceDir)
	resolve(cfg.Root, kf.Static, &cfg.StaticDir)
	resolve(cfg.Root, kf.Entry, &cfg.EntryFile)
	resolve(cfg.Root, kf.Modules, &cfg.ModulesDir)
	resolve(cfg.Root, kf.Archive, &cfg.ArchiveDir)

	if kf.Output != nil {
		cfg.OutputFile = *kf.Output
	}
	if kf.Banner != nil {
		cfg.Banner = *kf.Banner
	}
	if kf.Vendor != nil {
		cfg.Vendor = toVendorMapping(kf.Vendor)
	}
	if kf.VendorDev != nil {
		cfg.VendorDev = toVendorMapping(kf.VendorDev)
	}
	if kf.Server != nil {
		if kf.Server.Host != nil {
			cfg.Server.Host = *kf.Server.Host
		}
		if kf.Server.Port != nil {
			cfg.Server.Port = *kf.Server.Port
		}
	}
	if kf.Debounce != nil {
		d, err := time.ParseDuration(*kf.Debounce)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "debounce", *kf.Debounce)
		}
		cfg.Debounce = d
	}

	return nil
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, filepath.FromSlash(p))
}

func toVendorMapping(in map[string]string) domain.VendorMapping {
	out := make(domain.VendorMapping, len(in))
	for k, v := range in {
		out[filepath.ToSlash(k)] = domain.VendorCategory(v)
	}
	return out
}

// loadPackage reads the banner and archive metadata from package.json.
func (l *Loader) loadPackage(root string) (domain.PackageInfo, error) {
	pkg := domain.PackageInfo{
		Name:    filepath.Base(root),
		Version: domain.DefaultVersion,
	}

	path := filepath.Join(root, domain.PackageFileName)
	// #nosec G304 -- path is derived from the discovered root
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.Logger.Warn("no " + domain.PackageFileName + " found, using " + pkg.Name + "@" + pkg.Version)
		return pkg, nil
	}
	if err != nil {
		return pkg, zerr.With(zerr.Wrap(err, domain.ErrPackageReadFailed.Error()), "path", path)
	}

	if !gjson.ValidBytes(data) {
		return pkg, zerr.With(domain.ErrInvalidPackage, "path", path)
	}

	fields := gjson.GetManyBytes(data, "name", "version", "description", "homepage", "license")
	if v := fields[0].String(); v != "" {
		pkg.Name = v
	}
	if v := fields[1].String(); v != "" {
		if _, err := semver.NewVersion(v); err != nil {
			return pkg, zerr.With(zerr.Wrap(err, domain.ErrInvalidVersion.Error()), "version", v)
		}
		pkg.Version = v
	}
	pkg.Description = fields[2].String()
	pkg.Homepage = fields[3].String()
	pkg.License = licenseOf(fields[4])

	return pkg, nil
}

// licenseOf accepts both the SPDX string form and the legacy {"type": ...} object.
func licenseOf(r gjson.Result) string {
	if r.IsObject() {
		return r.Get("type").String()
	}
	return r.String()
}
