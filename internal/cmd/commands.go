package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/epc-forge/doctrack/internal/cmd/commands/operator"
	"github.com/epc-forge/doctrack/internal/cmd/commands/serve"
	"github.com/epc-forge/doctrack/internal/cmd/commands/version"
)

// Commands is the mapping of all available CLI commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	Commands = map[string]cli.CommandFactory{
		"serve": func() (cli.Command, error) {
			return &serve.Command{Log: log, UI: ui}, nil
		},
		"operator init-numbering": func() (cli.Command, error) {
			return &operator.InitNumberingCommand{Log: log, UI: ui}, nil
		},
		"operator verify-links": func() (cli.Command, error) {
			return &operator.VerifyLinksCommand{Log: log, UI: ui}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{UI: ui}, nil
		},
	}
}
