package models

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MasterDocument is one tracked document in a project's document registry.
//
// The three link lists are denormalized adjacency lists: every edge is
// mirrored on the other endpoint with the inverse link type. Rows are soft
// deleted only, so link snapshots held by other documents never dangle.
type MasterDocument struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// ProjectID identifies the owning project.
	ProjectID string `gorm:"not null;index:idx_master_documents_project" json:"projectId"`

	// DocumentNumber is minted by the numbering authority at creation time
	// and immutable afterwards.
	DocumentNumber string `gorm:"not null;index:idx_master_documents_number" json:"documentNumber"`

	// Title is the document title.
	Title string `gorm:"type:varchar(500);not null" json:"title"`

	// CurrentRevision is the revision label (e.g. "A", "B", "R2").
	CurrentRevision string `gorm:"not null;default:'A'" json:"currentRevision"`

	// Status is the lifecycle state.
	Status DocumentStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_master_documents_status" json:"status"`

	// AssignedToNames are display names of current assignees, snapshotted
	// onto link records.
	AssignedToNames StringList `gorm:"type:jsonb" json:"assignedToNames"`

	// Predecessors holds PREREQUISITE edges: documents that must finish
	// before this one starts.
	Predecessors LinkList `gorm:"type:jsonb" json:"predecessors"`

	// Successors holds SUCCESSOR edges: documents that depend on this one
	// finishing first.
	Successors LinkList `gorm:"type:jsonb" json:"successors"`

	// RelatedDocuments holds symmetric RELATED edges.
	RelatedDocuments LinkList `gorm:"type:jsonb" json:"relatedDocuments"`

	// Denormalized activity counters maintained by the surrounding CRUD
	// workflows.
	SubmissionCount      int `gorm:"not null;default:0" json:"submissionCount"`
	SupplyItemCount      int `gorm:"not null;default:0" json:"supplyItemCount"`
	WorkItemCount        int `gorm:"not null;default:0" json:"workItemCount"`
	OpenCommentCount     int `gorm:"not null;default:0" json:"openCommentCount"`
	ResolvedCommentCount int `gorm:"not null;default:0" json:"resolvedCommentCount"`
}

// TableName specifies the table name.
func (MasterDocument) TableName() string {
	return "master_documents"
}

// BeforeCreate applies defaults.
func (d *MasterDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = StatusDraft
	}
	if d.CurrentRevision == "" {
		d.CurrentRevision = "A"
	}
	return nil
}

// Create creates a master document entry.
func (d *MasterDocument) Create(db *gorm.DB) error {
	if err := validation.ValidateStruct(d,
		validation.Field(&d.ProjectID, validation.Required),
		validation.Field(&d.DocumentNumber, validation.Required),
		validation.Field(&d.Title, validation.Required),
	); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if d.Status != "" && !d.Status.IsValid() {
		return fmt.Errorf("invalid document status: %q", d.Status)
	}

	return db.Create(&d).Error
}

// Get retrieves a document by ID within a project.
func (d *MasterDocument) Get(db *gorm.DB, projectID string, id uuid.UUID) error {
	if err := validation.Validate(projectID, validation.Required); err != nil {
		return err
	}

	return db.
		Where("project_id = ? AND id = ?", projectID, id).
		First(&d).
		Error
}

// GetUnscoped retrieves a document by ID within a project, including soft
// deleted rows. Used where link snapshots may still reference a deleted
// document.
func (d *MasterDocument) GetUnscoped(db *gorm.DB, projectID string, id uuid.UUID) error {
	return db.
		Unscoped().
		Where("project_id = ? AND id = ?", projectID, id).
		First(&d).
		Error
}

// GetDocumentsByProject retrieves all live documents in a project, newest
// first.
func GetDocumentsByProject(db *gorm.DB, projectID string) ([]MasterDocument, error) {
	var docs []MasterDocument
	err := db.
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&docs).
		Error
	return docs, err
}

// GetDocumentsByIDs retrieves documents by ID within a project. Soft
// deleted rows are included so snapshot updates and predecessor checks can
// still see them. The result may be shorter than ids if some are unknown.
func GetDocumentsByIDs(db *gorm.DB, projectID string, ids []uuid.UUID) ([]MasterDocument, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var docs []MasterDocument
	err := db.
		Unscoped().
		Where("project_id = ? AND id IN ?", projectID, ids).
		Find(&docs).
		Error
	return docs, err
}

// LinksOfType returns a pointer to the list holding edges of the given
// type on this document.
func (d *MasterDocument) LinksOfType(lt LinkType) *LinkList {
	switch lt {
	case LinkTypePrerequisite:
		return &d.Predecessors
	case LinkTypeSuccessor:
		return &d.Successors
	default:
		return &d.RelatedDocuments
	}
}

// LinkSnapshot builds a denormalized edge record pointing at this document,
// capturing its number, title, status, revision, and assignees as of now.
func (d *MasterDocument) LinkSnapshot(lt LinkType) DocumentLink {
	return DocumentLink{
		MasterDocumentID: d.ID,
		DocumentNumber:   d.DocumentNumber,
		DocumentTitle:    d.Title,
		LinkType:         lt,
		Status:           d.Status,
		CurrentRevision:  d.CurrentRevision,
		AssignedToNames:  []string(d.AssignedToNames),
		CreatedAt:        time.Now().UTC(),
	}
}
