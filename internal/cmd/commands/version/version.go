package version

import (
	"fmt"

	"github.com/mitchellh/cli"

	"github.com/epc-forge/doctrack/internal/version"
)

// Command prints the doctrack version.
type Command struct {
	UI cli.Ui
}

func (c *Command) Synopsis() string {
	return "Print the doctrack version"
}

func (c *Command) Help() string {
	return `Usage: doctrack version

  Prints the doctrack version.
`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(fmt.Sprintf("doctrack %s", version.Version))
	return 0
}
