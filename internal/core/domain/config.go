package domain

import (
	"maps"
	"net"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"go.trai.ch/zerr"
)

// VendorCategory names the build subdirectory a vendor file is copied into.
type VendorCategory string

const (
	// VendorScripts places the file in the scripts directory.
	VendorScripts VendorCategory = "scripts"
	// VendorStyles places the file in the styles directory.
	VendorStyles VendorCategory = "styles"
)

// VendorMapping maps a path inside the modules store to its destination category.
type VendorMapping map[string]VendorCategory

// Keys returns the mapping keys in lexical order.
func (m VendorMapping) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

// ServerConfig holds the dev server bind address.
type ServerConfig struct {
	Host string
	Port int
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Config is the resolved project layout. All directory and file paths are absolute.
type Config struct {
	Root       string
	BuildDir   string
	ScriptsDir string
	StylesDir  string
	SourceDir  string
	StaticDir  string
	EntryFile  string
	OutputFile string
	ModulesDir string
	ArchiveDir string

	// Vendor is copied in every mode.
	Vendor VendorMapping
	// VendorDev is copied in development mode only.
	VendorDev VendorMapping

	// Banner prepends the package banner comment to the bundle.
	Banner bool

	Server   ServerConfig
	Debounce time.Duration
}

// DefaultConfig returns the default layout rooted at root.
func DefaultConfig(root string) Config {
	build := filepath.Join(root, DefaultBuildDir)
	return Config{
		Root:       root,
		BuildDir:   build,
		ScriptsDir: filepath.Join(build, DefaultScriptsDir),
		StylesDir:  filepath.Join(build, DefaultStylesDir),
		SourceDir:  filepath.Join(root, DefaultSourceDir),
		StaticDir:  filepath.Join(root, DefaultStaticDir),
		EntryFile:  filepath.Join(root, DefaultEntryFile),
		OutputFile: DefaultOutputFile,
		ModulesDir: filepath.Join(root, DefaultModulesDir),
		ArchiveDir: filepath.Join(root, DefaultArchiveDir),
		Vendor: VendorMapping{
			"normalize.css/normalize.css": VendorStyles,
		},
		VendorDev: VendorMapping{},
		Banner:    true,
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Debounce: DefaultDebounce,
	}
}

// OutputPath returns the absolute path of the bundle.
func (c *Config) OutputPath() string {
	return filepath.Join(c.ScriptsDir, c.OutputFile)
}

// SourceMapPath returns the absolute path of the development source map.
func (c *Config) SourceMapPath() string {
	return c.OutputPath() + SourceMapExt
}

// VendorFor returns the vendor entries to copy in the given mode.
// Development builds add VendorDev on top of Vendor.
func (c *Config) VendorFor(production bool) VendorMapping {
	out := make(VendorMapping, len(c.Vendor)+len(c.VendorDev))
	maps.Copy(out, c.Vendor)
	if !production {
		maps.Copy(out, c.VendorDev)
	}
	return out
}

// VendorDirs returns the output directory for each vendor category.
func (c *Config) VendorDirs() map[VendorCategory]string {
	return map[VendorCategory]string{
		VendorScripts: c.ScriptsDir,
		VendorStyles:  c.StylesDir,
	}
}

// Validate checks the values that cannot be fixed up by defaults.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return zerr.With(ErrInvalidConfig, "port", c.Server.Port)
	}
	if c.OutputFile == "" || filepath.Base(c.OutputFile) != c.OutputFile {
		return zerr.With(ErrInvalidConfig, "output", c.OutputFile)
	}
	if c.Debounce < 0 {
		return zerr.With(ErrInvalidConfig, "debounce", c.Debounce.String())
	}
	for _, mapping := range []VendorMapping{c.Vendor, c.VendorDev} {
		for _, key := range mapping.Keys() {
			switch mapping[key] {
			case VendorScripts, VendorStyles:
			default:
				err := zerr.With(ErrUnknownVendorCategory, "category", string(mapping[key]))
				return zerr.With(err, "vendor", key)
			}
		}
	}
	return nil
}
