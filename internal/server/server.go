package server

import (
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/epc-forge/doctrack/internal/config"
	"github.com/epc-forge/doctrack/pkg/docnum"
	"github.com/epc-forge/doctrack/pkg/linkgraph"
)

// Server bundles everything the API handlers need.
type Server struct {
	// Config is the server configuration.
	Config *config.Config

	// DB is the document store.
	DB *gorm.DB

	// Logger is the logger for the server.
	Logger hclog.Logger

	// Numbering is the document numbering authority.
	Numbering *docnum.Authority

	// Links is the link graph manager.
	Links *linkgraph.Manager
}

// New assembles a Server with its core services wired to the given
// database handle.
func New(cfg *config.Config, db *gorm.DB, log hclog.Logger) Server {
	return Server{
		Config:    cfg,
		DB:        db,
		Logger:    log,
		Numbering: docnum.NewAuthority(db, log),
		Links:     linkgraph.NewManager(db, log),
	}
}
