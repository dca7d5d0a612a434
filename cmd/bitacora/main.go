// Command bitacora builds the bilingual static site from the remote data
// endpoint.
package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/bitacora/cmd/bitacora/commands"
	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
	"git.home.luguber.info/inful/bitacora/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("bitacora"),
		kong.Description("Static site generator for a bilingual blog and log."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	if err := parser.Run(&commands.Global{Logger: slog.Default()}, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
