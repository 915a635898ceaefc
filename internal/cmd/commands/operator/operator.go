// Package operator holds administrative commands that talk directly to
// the document store: initializing per-project numbering and auditing the
// link graph's mirror invariant.
package operator

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/epc-forge/doctrack/internal/config"
	"github.com/epc-forge/doctrack/pkg/database"
)

// connect loads configuration and opens the document store for an
// operator command.
func connect(configPath string, log hclog.Logger) (*gorm.DB, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.NewConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("error loading configuration: %w", err)
		}
	} else {
		cfg = config.Default()
	}

	db, err := database.Connect(database.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		DBName:   cfg.Postgres.DBName,
		SSLMode:  cfg.Postgres.SSLMode,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	return db, nil
}
