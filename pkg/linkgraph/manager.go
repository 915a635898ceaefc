// Package linkgraph maintains the predecessor/successor/related-document
// graph across master documents: mirrored denormalized edges, cycle
// prevention for ordering links, status propagation into dependent
// documents' snapshots, and the predecessor-completion gate.
//
// Every edge is stored twice, once on each endpoint, as independent
// denormalized copies. All mirroring flows through this package so the two
// sides can never drift: both writes of a mirrored pair happen in a single
// transaction, or not at all.
package linkgraph

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/epc-forge/doctrack/pkg/database"
	"github.com/epc-forge/doctrack/pkg/models"
)

// Manager owns all link graph mutations. It holds no state beyond the
// injected database handle; link lists are never cached between calls.
type Manager struct {
	db  *gorm.DB
	log hclog.Logger
}

// NewManager creates a link graph manager.
func NewManager(db *gorm.DB, log hclog.Logger) *Manager {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Manager{
		db:  db,
		log: log.Named("linkgraph"),
	}
}

// linkColumn is the master_documents column holding edges of the given
// type. Must stay in sync with MasterDocument.LinksOfType.
func linkColumn(lt models.LinkType) string {
	switch lt {
	case models.LinkTypePrerequisite:
		return "predecessors"
	case models.LinkTypeSuccessor:
		return "successors"
	default:
		return "related_documents"
	}
}

// CreateLink adds a dependency edge between two documents, writing both
// mirrored denormalized records in a single transaction.
//
// For PREREQUISITE, target must finish before source starts; for
// SUCCESSOR, target depends on source finishing first; RELATED is a
// symmetric, non-ordering cross-reference. Ordering links are rejected
// with a CircularDependencyError if they would make a document
// transitively depend on itself; RELATED links are exempt from the cycle
// check. Duplicate edges between the same pair are rejected with
// ErrDuplicateLink.
func (m *Manager) CreateLink(ctx context.Context, projectID string, sourceID, targetID uuid.UUID, lt models.LinkType) error {
	if projectID == "" {
		return fmt.Errorf("project ID cannot be empty")
	}
	if !lt.IsValid() {
		return fmt.Errorf("invalid link type: %q", lt)
	}
	if sourceID == targetID {
		return &CircularDependencyError{SourceID: sourceID, TargetID: targetID}
	}

	err := database.WithRetry(ctx, m.db, m.log, func(tx *gorm.DB) error {
		source, target, err := m.loadPairLocked(tx, projectID, sourceID, targetID)
		if err != nil {
			return err
		}

		srcList := source.LinksOfType(lt)
		tgtList := target.LinksOfType(lt.Inverse())
		if srcList.Contains(targetID) || tgtList.Contains(sourceID) {
			return fmt.Errorf("%w: %s and %s (%s)",
				ErrDuplicateLink, source.DocumentNumber, target.DocumentNumber, lt)
		}

		if lt.IsOrdering() {
			// The new edge makes "earlier" a prerequisite of "later". A
			// cycle exists exactly when the later document already reaches
			// the earlier one through its successor chain.
			later, earlier := source, target
			if lt == models.LinkTypeSuccessor {
				later, earlier = target, source
			}
			path, found, err := m.findSuccessorPath(tx, projectID, later, earlier.ID)
			if err != nil {
				return err
			}
			if found {
				return &CircularDependencyError{
					SourceID: sourceID,
					TargetID: targetID,
					Path:     path,
				}
			}
		}

		*srcList = append(*srcList, target.LinkSnapshot(lt))
		*tgtList = append(*tgtList, source.LinkSnapshot(lt.Inverse()))

		if err := tx.Model(&models.MasterDocument{}).
			Where("id = ?", source.ID).
			Update(linkColumn(lt), *srcList).
			Error; err != nil {
			return fmt.Errorf("error writing forward edge: %w", err)
		}
		if err := tx.Model(&models.MasterDocument{}).
			Where("id = ?", target.ID).
			Update(linkColumn(lt.Inverse()), *tgtList).
			Error; err != nil {
			return fmt.Errorf("error writing mirrored edge: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.log.Debug("link created",
		"project_id", projectID,
		"source_id", sourceID,
		"target_id", targetID,
		"link_type", lt,
	)
	return nil
}

// RemoveLink removes the exact matching denormalized records on both
// endpoints in a single transaction. A missing record on either side is a
// hard ErrLinkNotFound: it indicates the mirror invariant was already
// broken upstream and must surface, not be papered over.
func (m *Manager) RemoveLink(ctx context.Context, projectID string, sourceID, targetID uuid.UUID, lt models.LinkType) error {
	if projectID == "" {
		return fmt.Errorf("project ID cannot be empty")
	}
	if !lt.IsValid() {
		return fmt.Errorf("invalid link type: %q", lt)
	}

	err := database.WithRetry(ctx, m.db, m.log, func(tx *gorm.DB) error {
		source, target, err := m.loadPairLocked(tx, projectID, sourceID, targetID)
		if err != nil {
			return err
		}

		srcList, srcOK := source.LinksOfType(lt).Remove(targetID)
		if !srcOK {
			return fmt.Errorf("%w: no %s edge from %s to %s",
				ErrLinkNotFound, lt, source.DocumentNumber, target.DocumentNumber)
		}
		tgtList, tgtOK := target.LinksOfType(lt.Inverse()).Remove(sourceID)
		if !tgtOK {
			return fmt.Errorf("%w: no mirrored %s edge from %s to %s",
				ErrLinkNotFound, lt.Inverse(), target.DocumentNumber, source.DocumentNumber)
		}

		if err := tx.Model(&models.MasterDocument{}).
			Where("id = ?", source.ID).
			Update(linkColumn(lt), srcList).
			Error; err != nil {
			return fmt.Errorf("error removing forward edge: %w", err)
		}
		if err := tx.Model(&models.MasterDocument{}).
			Where("id = ?", target.ID).
			Update(linkColumn(lt.Inverse()), tgtList).
			Error; err != nil {
			return fmt.Errorf("error removing mirrored edge: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.log.Debug("link removed",
		"project_id", projectID,
		"source_id", sourceID,
		"target_id", targetID,
		"link_type", lt,
	)
	return nil
}

// loadPairLocked loads both endpoints of a link inside the transaction,
// row-locked in a deterministic order so two concurrent link operations on
// the same pair cannot deadlock. Soft-deleted documents are still loadable
// as link endpoints for removal.
func (m *Manager) loadPairLocked(tx *gorm.DB, projectID string, sourceID, targetID uuid.UUID) (*models.MasterDocument, *models.MasterDocument, error) {
	firstID, secondID := sourceID, targetID
	if targetID.String() < sourceID.String() {
		firstID, secondID = targetID, sourceID
	}

	load := func(id uuid.UUID) (*models.MasterDocument, error) {
		var doc models.MasterDocument
		if err := database.LockForUpdate(tx).
			Unscoped().
			Where("project_id = ? AND id = ?", projectID, id).
			First(&doc).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s in project %q", ErrNotFound, id, projectID)
			}
			return nil, fmt.Errorf("error loading document %s: %w", id, err)
		}
		return &doc, nil
	}

	first, err := load(firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := load(secondID)
	if err != nil {
		return nil, nil, err
	}

	if firstID == sourceID {
		return first, second, nil
	}
	return second, first, nil
}
