package esbuild

import (
	"strings"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
)

// Banner renders the comment block prepended to the bundle.
func Banner(pkg domain.PackageInfo, generated time.Time) string {
	var b strings.Builder

	b.WriteString("/**\n")
	b.WriteString(" * " + pkg.Name)
	if pkg.Description != "" {
		b.WriteString(" - " + pkg.Description)
	}
	b.WriteString("\n")
	b.WriteString(" * @version v" + pkg.Version + "\n")
	if pkg.Homepage != "" {
		b.WriteString(" * @link " + pkg.Homepage + "\n")
	}
	if pkg.License != "" {
		b.WriteString(" * @license " + pkg.License + "\n")
	}
	b.WriteString(" * @generated " + generated.UTC().Format(time.RFC3339) + "\n")
	b.WriteString(" */")

	return b.String()
}
