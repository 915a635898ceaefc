package serve

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/mitchellh/cli"

	"github.com/epc-forge/doctrack/internal/api"
	"github.com/epc-forge/doctrack/internal/config"
	"github.com/epc-forge/doctrack/internal/server"
	"github.com/epc-forge/doctrack/pkg/database"
)

// Command runs the doctrack HTTP server.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	flagConfig string
	flagAddr   string
}

func (c *Command) Synopsis() string {
	return "Run the doctrack server"
}

func (c *Command) Help() string {
	return `Usage: doctrack serve [options]

  Run the doctrack document registry server.

Options:

  -config=<path>   Path to an HCL configuration file. Optional; defaults
                   and environment variables apply without it.
  -addr=<addr>     Listen address override (e.g. 127.0.0.1:8000).

  Environment variables prefixed DOCTRACK_ override file settings; a .env
  file in the working directory is loaded first if present.
`
}

func (c *Command) Run(args []string) int {
	f := flag.NewFlagSet("serve", flag.ContinueOnError)
	f.StringVar(&c.flagConfig, "config", "", "path to HCL configuration file")
	f.StringVar(&c.flagAddr, "addr", "", "listen address override")
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	// Local development convenience; missing .env is not an error.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			c.UI.Error(fmt.Sprintf("error loading .env file: %v", err))
			return 1
		}
	}

	var cfg *config.Config
	var err error
	if c.flagConfig != "" {
		cfg, err = config.NewConfig(c.flagConfig)
		if err != nil {
			c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
			return 1
		}
	} else {
		cfg = config.Default()
	}
	if c.flagAddr != "" {
		cfg.ListenAddr = c.flagAddr
	}

	log := hclog.New(&hclog.LoggerOptions{
		Name:  "doctrack",
		Level: hclog.LevelFromString(cfg.LogLevel),
	})

	db, err := database.Connect(database.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		DBName:   cfg.Postgres.DBName,
		SSLMode:  cfg.Postgres.SSLMode,
	}, log)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error connecting to database: %v", err))
		return 1
	}

	srv := server.New(cfg, db, log)
	mux := api.NewRouter(srv)

	c.UI.Info(fmt.Sprintf("doctrack listening on %s", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		c.UI.Error(fmt.Sprintf("server error: %v", err))
		return 1
	}
	return 0
}
