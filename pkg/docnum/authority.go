package docnum

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/epc-forge/doctrack/pkg/database"
	"github.com/epc-forge/doctrack/pkg/models"
)

// Authority mints document numbers against a project's numbering
// configuration. All mutation funnels through Generate's transactional
// increment; the Authority holds no state of its own beyond the injected
// database handle.
type Authority struct {
	db  *gorm.DB
	log hclog.Logger
}

// NewAuthority creates a numbering authority.
func NewAuthority(db *gorm.DB, log hclog.Logger) *Authority {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Authority{
		db:  db,
		log: log.Named("docnum"),
	}
}

// Generate atomically increments the sequence counter for the given
// discipline (and optional sub-code) and returns the formatted document
// number. Two concurrent callers on the same counter key are guaranteed to
// receive distinct sequence values.
//
// Returns ErrNotInitialized if the project has no numbering configuration.
// Discipline and sub-code are accepted as opaque strings; checking them
// against the discipline catalog is the caller's responsibility.
func (a *Authority) Generate(ctx context.Context, projectID, projectCode, disciplineCode, subCode string) (string, error) {
	if projectID == "" {
		return "", fmt.Errorf("project ID cannot be empty")
	}
	if disciplineCode == "" {
		return "", fmt.Errorf("discipline code cannot be empty")
	}

	var number string
	err := database.WithRetry(ctx, a.db, a.log, func(tx *gorm.DB) error {
		var cfg models.NumberingConfig
		if err := database.LockForUpdate(tx).
			Where("project_id = ?", projectID).
			First(&cfg).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %q", ErrNotInitialized, projectID)
			}
			return fmt.Errorf("error loading numbering config: %w", err)
		}

		key := CounterKey(disciplineCode, subCode, cfg.Separator)
		if cfg.SequenceCounters == nil {
			cfg.SequenceCounters = models.CounterMap{}
		}
		next := cfg.SequenceCounters[key] + 1
		cfg.SequenceCounters[key] = next

		if err := tx.
			Model(&cfg).
			Update("sequence_counters", cfg.SequenceCounters).
			Error; err != nil {
			return fmt.Errorf("error persisting sequence counter %q: %w", key, err)
		}

		number = Format(projectCode, disciplineCode, subCode, next, cfg.Separator, cfg.SequenceDigits)
		return nil
	})
	if err != nil {
		return "", err
	}

	a.log.Debug("generated document number",
		"project_id", projectID,
		"document_number", number,
	)
	return number, nil
}

// PeekNextSequence returns the sequence value the next Generate call would
// produce for the given counter key, without mutating state. Used for UI
// previews before actual submission.
//
// The result is advisory only: another writer may commit in between, so a
// later Generate call can legitimately return a different number.
func (a *Authority) PeekNextSequence(ctx context.Context, projectID, disciplineCode, subCode string) (int, error) {
	if projectID == "" {
		return 0, fmt.Errorf("project ID cannot be empty")
	}
	if disciplineCode == "" {
		return 0, fmt.Errorf("discipline code cannot be empty")
	}

	var cfg models.NumberingConfig
	if err := cfg.GetByProjectID(a.db.WithContext(ctx), projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: %q", ErrNotInitialized, projectID)
		}
		return 0, fmt.Errorf("error loading numbering config: %w", err)
	}

	key := CounterKey(disciplineCode, subCode, cfg.Separator)
	return cfg.SequenceCounters[key] + 1, nil
}
