package models

import (
	"database/sql/driver"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"
	"gorm.io/gorm"
)

// DisciplineSubCode is an optional secondary numbering scope under a
// discipline, with its own independent sequence counter.
type DisciplineSubCode struct {
	SubCode  string `json:"subCode" yaml:"sub_code"`
	Name     string `json:"name" yaml:"name"`
	IsActive bool   `json:"isActive" yaml:"is_active"`
}

// DisciplineCode is a catalog entry for an engineering discipline used as a
// numbering scope (e.g. "01" Process, "02" Mechanical).
type DisciplineCode struct {
	Code      string              `json:"code" yaml:"code"`
	Name      string              `json:"name" yaml:"name"`
	IsActive  bool                `json:"isActive" yaml:"is_active"`
	SortOrder int                 `json:"sortOrder" yaml:"sort_order"`
	SubCodes  []DisciplineSubCode `json:"subCodes,omitempty" yaml:"sub_codes,omitempty"`
}

// DisciplineList is the ordered discipline catalog stored in a JSONB column.
type DisciplineList []DisciplineCode

// Value implements driver.Valuer.
func (d DisciplineList) Value() (driver.Value, error) {
	if d == nil {
		return jsonValue([]DisciplineCode{})
	}
	return jsonValue([]DisciplineCode(d))
}

// Scan implements sql.Scanner.
func (d *DisciplineList) Scan(value interface{}) error {
	return jsonScan(d, value)
}

// CounterMap holds the current value of each sequence counter, keyed by
// counter key (discipline code, or discipline + separator + sub-code).
// Keys are created lazily on first use and persist for the life of the
// project. Values are monotonically non-decreasing.
type CounterMap map[string]int

// Value implements driver.Valuer.
func (c CounterMap) Value() (driver.Value, error) {
	if c == nil {
		return jsonValue(map[string]int{})
	}
	return jsonValue(map[string]int(c))
}

// Scan implements sql.Scanner.
func (c *CounterMap) Scan(value interface{}) error {
	return jsonScan(c, value)
}

// NumberingConfig is the per-project document numbering configuration and
// counter state. There is exactly one row per project; every counter
// increment is a transactional read-modify-write on this row.
type NumberingConfig struct {
	gorm.Model

	// ProjectID identifies the owning project.
	ProjectID string `gorm:"uniqueIndex;not null" json:"projectId"`

	// ProjectCode is the immutable prefix used in every generated number.
	ProjectCode string `gorm:"not null" json:"projectCode"`

	// Separator is the fixed delimiter between number components.
	Separator string `gorm:"not null;default:'-'" json:"separator"`

	// SequenceDigits is the zero-padding width of sequence numbers.
	SequenceDigits int `gorm:"not null;default:3" json:"sequenceDigits"`

	// Disciplines is the catalog of valid discipline codes.
	Disciplines DisciplineList `gorm:"type:jsonb" json:"disciplines"`

	// SequenceCounters is the live counter state.
	SequenceCounters CounterMap `gorm:"type:jsonb" json:"sequenceCounters"`
}

// TableName specifies the table name.
func (NumberingConfig) TableName() string {
	return "numbering_configs"
}

// BeforeCreate applies defaults for optional fields.
func (nc *NumberingConfig) BeforeCreate(tx *gorm.DB) error {
	if nc.Separator == "" {
		nc.Separator = "-"
	}
	if nc.SequenceDigits == 0 {
		nc.SequenceDigits = 3
	}
	if nc.SequenceCounters == nil {
		nc.SequenceCounters = CounterMap{}
	}
	return nil
}

// Create creates the numbering configuration for a project.
func (nc *NumberingConfig) Create(db *gorm.DB) error {
	if err := validation.ValidateStruct(nc,
		validation.Field(&nc.ProjectID, validation.Required),
		validation.Field(&nc.ProjectCode, validation.Required),
		validation.Field(&nc.SequenceDigits, validation.Min(0)),
	); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if err := nc.ValidateCatalog(); err != nil {
		return err
	}

	return db.Create(&nc).Error
}

// GetByProjectID retrieves the numbering configuration for a project.
// Returns gorm.ErrRecordNotFound if numbering was never initialized.
func (nc *NumberingConfig) GetByProjectID(db *gorm.DB, projectID string) error {
	if err := validation.Validate(projectID, validation.Required); err != nil {
		return err
	}

	return db.
		Where("project_id = ?", projectID).
		First(&nc).
		Error
}

// Update persists catalog or formatting changes. Counter state is mutated
// only through the numbering authority's transactional increment, never
// through this method directly.
func (nc *NumberingConfig) Update(db *gorm.DB) error {
	if err := validation.ValidateStruct(nc,
		validation.Field(&nc.ID, validation.Required),
		validation.Field(&nc.ProjectCode, validation.Required),
	); err != nil {
		return err
	}
	if err := nc.ValidateCatalog(); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&nc).
			Omit("sequence_counters").
			Select("*").
			Updates(nc).
			Error; err != nil {
			return err
		}

		if err := tx.First(&nc, nc.ID).Error; err != nil {
			return fmt.Errorf("error getting numbering config after update: %w", err)
		}
		return nil
	})
}

// ValidateCatalog checks the discipline catalog for empty or duplicate
// codes. All problems are reported together.
func (nc *NumberingConfig) ValidateCatalog() error {
	var result *multierror.Error

	seen := make(map[string]bool, len(nc.Disciplines))
	for i, d := range nc.Disciplines {
		if d.Code == "" {
			result = multierror.Append(result,
				fmt.Errorf("discipline %d: code cannot be empty", i))
			continue
		}
		if seen[d.Code] {
			result = multierror.Append(result,
				fmt.Errorf("duplicate discipline code %q", d.Code))
		}
		seen[d.Code] = true

		subSeen := make(map[string]bool, len(d.SubCodes))
		for j, sc := range d.SubCodes {
			if sc.SubCode == "" {
				result = multierror.Append(result,
					fmt.Errorf("discipline %q: sub-code %d cannot be empty", d.Code, j))
				continue
			}
			if subSeen[sc.SubCode] {
				result = multierror.Append(result,
					fmt.Errorf("discipline %q: duplicate sub-code %q", d.Code, sc.SubCode))
			}
			subSeen[sc.SubCode] = true
		}
	}

	return result.ErrorOrNil()
}

// FindDiscipline returns the catalog entry for a discipline code, or nil if
// the code is not in the catalog.
func (nc *NumberingConfig) FindDiscipline(code string) *DisciplineCode {
	for i := range nc.Disciplines {
		if nc.Disciplines[i].Code == code {
			return &nc.Disciplines[i]
		}
	}
	return nil
}
