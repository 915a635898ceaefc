package linkgraph

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/epc-forge/doctrack/pkg/models"
)

// PendingPredecessor describes a predecessor that has not yet reached a
// completed status.
type PendingPredecessor struct {
	MasterDocumentID uuid.UUID             `json:"masterDocumentId"`
	DocumentNumber   string                `json:"documentNumber"`
	DocumentTitle    string                `json:"documentTitle"`
	Status           models.DocumentStatus `json:"status"`
}

// Readiness reports whether a document's predecessors are all completed
// and which ones are still pending.
type Readiness struct {
	AllCompleted        bool                 `json:"allCompleted"`
	PendingPredecessors []PendingPredecessor `json:"pendingPredecessors"`
}

// CheckPredecessorsCompleted re-reads the live status of every predecessor
// of the given document and reports which are not yet completed. The
// denormalized snapshots are deliberately ignored here: they may be stale,
// and this check gates whether a document is allowed to start.
//
// Only APPROVED and ACCEPTED count as completed. A CANCELLED or ON_HOLD
// predecessor is reported as pending with its live status, leaving the
// unblock-or-not policy decision to the caller.
func (m *Manager) CheckPredecessorsCompleted(ctx context.Context, projectID string, documentID uuid.UUID) (*Readiness, error) {
	if projectID == "" {
		return nil, fmt.Errorf("project ID cannot be empty")
	}

	db := m.db.WithContext(ctx)

	var doc models.MasterDocument
	if err := doc.Get(db, projectID, documentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s in project %q", ErrNotFound, documentID, projectID)
		}
		return nil, fmt.Errorf("error loading document: %w", err)
	}

	result := &Readiness{
		AllCompleted:        true,
		PendingPredecessors: []PendingPredecessor{},
	}
	if len(doc.Predecessors) == 0 {
		return result, nil
	}

	ids := make([]uuid.UUID, 0, len(doc.Predecessors))
	for _, edge := range doc.Predecessors {
		ids = append(ids, edge.MasterDocumentID)
	}
	live, err := models.GetDocumentsByIDs(db, projectID, ids)
	if err != nil {
		return nil, fmt.Errorf("error loading predecessors: %w", err)
	}
	byID := make(map[uuid.UUID]*models.MasterDocument, len(live))
	for i := range live {
		byID[live[i].ID] = &live[i]
	}

	for _, edge := range doc.Predecessors {
		pred, ok := byID[edge.MasterDocumentID]
		if !ok {
			// Physically absent predecessor; fall back to the snapshot so
			// the caller still sees something actionable.
			if !edge.Status.IsCompleted() {
				result.AllCompleted = false
				result.PendingPredecessors = append(result.PendingPredecessors, PendingPredecessor{
					MasterDocumentID: edge.MasterDocumentID,
					DocumentNumber:   edge.DocumentNumber,
					DocumentTitle:    edge.DocumentTitle,
					Status:           edge.Status,
				})
			}
			continue
		}
		if !pred.Status.IsCompleted() {
			result.AllCompleted = false
			result.PendingPredecessors = append(result.PendingPredecessors, PendingPredecessor{
				MasterDocumentID: pred.ID,
				DocumentNumber:   pred.DocumentNumber,
				DocumentTitle:    pred.Title,
				Status:           pred.Status,
			})
		}
	}

	return result, nil
}
