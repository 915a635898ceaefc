package linkgraph

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/epc-forge/doctrack/pkg/database"
	"github.com/epc-forge/doctrack/pkg/models"
)

// PropagateStatusChange refreshes the status and revision snapshots of
// every document holding an edge that points at documentID. Because edges
// are mirrored, the changed document's own three link lists already
// enumerate everyone who needs updating.
//
// All dependent documents are rewritten in one transaction: either every
// snapshot reflects the new values, or none does. Re-running with the same
// status and revision is a no-op.
func (m *Manager) PropagateStatusChange(ctx context.Context, projectID string, documentID uuid.UUID, newStatus models.DocumentStatus, newRevision string) error {
	if projectID == "" {
		return fmt.Errorf("project ID cannot be empty")
	}
	if !newStatus.IsValid() {
		return fmt.Errorf("invalid document status: %q", newStatus)
	}

	var updated int
	err := database.WithRetry(ctx, m.db, m.log, func(tx *gorm.DB) error {
		updated = 0

		var doc models.MasterDocument
		if err := doc.GetUnscoped(tx, projectID, documentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s in project %q", ErrNotFound, documentID, projectID)
			}
			return fmt.Errorf("error loading document: %w", err)
		}

		dependentIDs := reverseAdjacency(&doc)
		if len(dependentIDs) == 0 {
			return nil
		}

		dependents, err := models.GetDocumentsByIDs(tx, projectID, dependentIDs)
		if err != nil {
			return fmt.Errorf("error loading dependent documents: %w", err)
		}

		for i := range dependents {
			dep := &dependents[i]
			changes := map[string]interface{}{}

			for _, lt := range models.ValidLinkTypes() {
				list := dep.LinksOfType(lt)
				if refreshSnapshots(*list, documentID, newStatus, newRevision) {
					changes[linkColumn(lt)] = *list
				}
			}
			if len(changes) == 0 {
				continue
			}

			// Unscoped so soft-deleted dependents keep accurate snapshots
			// too.
			if err := tx.Unscoped().
				Model(&models.MasterDocument{}).
				Where("id = ?", dep.ID).
				Updates(changes).
				Error; err != nil {
				return fmt.Errorf("error updating snapshots on %s: %w", dep.DocumentNumber, err)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.log.Debug("status change propagated",
		"project_id", projectID,
		"document_id", documentID,
		"new_status", newStatus,
		"new_revision", newRevision,
		"dependents_updated", updated,
	)
	return nil
}

// reverseAdjacency returns the IDs of all documents holding a mirrored
// edge pointing at doc, deduplicated across the three lists.
func reverseAdjacency(doc *models.MasterDocument) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, list := range []models.LinkList{doc.Predecessors, doc.Successors, doc.RelatedDocuments} {
		for _, edge := range list {
			if !seen[edge.MasterDocumentID] {
				seen[edge.MasterDocumentID] = true
				ids = append(ids, edge.MasterDocumentID)
			}
		}
	}
	return ids
}

// refreshSnapshots updates every edge pointing at documentID in place and
// reports whether anything changed.
func refreshSnapshots(list models.LinkList, documentID uuid.UUID, status models.DocumentStatus, revision string) bool {
	changed := false
	for i := range list {
		if list[i].MasterDocumentID != documentID {
			continue
		}
		if list[i].Status != status || list[i].CurrentRevision != revision {
			list[i].Status = status
			list[i].CurrentRevision = revision
			changed = true
		}
	}
	return changed
}
