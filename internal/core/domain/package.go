package domain

import (
	"fmt"
	"strings"
)

// PackageInfo is the subset of package.json used for the bundle banner and the archive name.
type PackageInfo struct {
	Name        string
	Version     string
	Description string
	Homepage    string
	License     string
}

// ArchiveName returns the versioned archive file name, e.g. "game_v1.2.0.zip".
// Scoped names are flattened the way npm pack does: "@acme/game" becomes "acme-game".
func (p PackageInfo) ArchiveName() string {
	return fmt.Sprintf("%s_v%s.zip", archiveBase(p.Name), p.Version)
}

var archiveNameReplacer = strings.NewReplacer("/", "-", "\\", "-")

func archiveBase(name string) string {
	return archiveNameReplacer.Replace(strings.TrimPrefix(name, "@"))
}

// Project is a loaded project: its layout and its package metadata.
type Project struct {
	Config  Config
	Package PackageInfo
}
