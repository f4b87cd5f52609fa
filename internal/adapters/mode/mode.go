// Package mode resolves the build mode from command line flags.
package mode

import (
	"io"

	"github.com/spf13/pflag"
	"go.trai.ch/kiln/internal/core/ports"
)

// ProductionFlag is the name of the flag that selects a production build.
const ProductionFlag = "production"

var (
	_ ports.ModeResolver = (*FlagResolver)(nil)
	_ ports.ModeResolver = (*ArgsResolver)(nil)
)

// FlagResolver reads the production flag from a parsed flag set.
type FlagResolver struct {
	flags *pflag.FlagSet
}

// NewFlagResolver creates a resolver over flags, which must define ProductionFlag.
func NewFlagResolver(flags *pflag.FlagSet) *FlagResolver {
	return &FlagResolver{flags: flags}
}

// Production looks the flag up on every call.
func (r *FlagResolver) Production() bool {
	if r.flags == nil {
		return false
	}
	v, err := r.flags.GetBool(ProductionFlag)
	if err != nil {
		return false
	}
	return v
}

// ArgsResolver parses a raw argument list, ignoring every flag it does not know.
type ArgsResolver struct {
	args func() []string
}

// NewArgsResolver creates a resolver that re-reads args on every call.
func NewArgsResolver(args func() []string) *ArgsResolver {
	return &ArgsResolver{args: args}
}

// Production re-parses the arguments on every call.
func (r *ArgsResolver) Production() bool {
	if r.args == nil {
		return false
	}

	fs := pflag.NewFlagSet("mode", pflag.ContinueOnError)
	fs.ParseErrorsAllowlist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	production := fs.Bool(ProductionFlag, false, "")

	if err := fs.Parse(r.args()); err != nil {
		return false
	}
	return *production
}
