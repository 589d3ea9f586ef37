// Command plclayout inspects data block layouts declared in source files.
//
// It prints field tables and layout fingerprints, reads single fields of a
// freshly initialized data block and offers an interactive browser for
// reading and writing field values.
package main

import (
	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/wippyai/plcmem/instance"
	"github.com/wippyai/plcmem/layout"
	"github.com/wippyai/plcmem/loader"
)

const version = "0.1.0"

// CLI defines the command-line interface for plclayout.
var CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging" env:"PLCLAYOUT_VERBOSE"`

	Dump        DumpCmd        `cmd:"" help:"Print the field table of types and data blocks"`
	Fingerprint FingerprintCmd `cmd:"" help:"Print layout fingerprints"`
	Get         GetCmd         `cmd:"" help:"Read a field of an initialized data block"`
	Browse      BrowseCmd      `cmd:"" help:"Browse and edit a data block interactively"`
	Version     VersionCmd     `cmd:"" help:"Print version information"`
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *kong.Context) error {
	ctx.Printf("plclayout %s", version)
	return nil
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("plclayout"),
		kong.Description("Data block layout inspector"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	logger := newLogger(CLI.Verbose)
	defer func() { _ = logger.Sync() }()
	layout.SetLogger(logger.Named("layout"))
	instance.SetLogger(logger.Named("instance"))
	loader.SetLogger(logger.Named("loader"))

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
