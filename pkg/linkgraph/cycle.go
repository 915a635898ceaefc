package linkgraph

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/epc-forge/doctrack/pkg/models"
)

// findSuccessorPath walks the successor chain from start by depth-first
// traversal, looking for goal. Returns the chain of document numbers from
// start to goal when found. Only SUCCESSOR edges are traversed: RELATED
// links carry no ordering semantics and are deliberately not considered
// reachable here.
//
// Runs inside the caller's transaction so the traversal sees the same
// snapshot the edge write will commit against.
func (m *Manager) findSuccessorPath(tx *gorm.DB, projectID string, start *models.MasterDocument, goal uuid.UUID) ([]string, bool, error) {
	visited := map[uuid.UUID]bool{start.ID: true}
	return m.dfsSuccessors(tx, projectID, start, goal, visited, []string{start.DocumentNumber})
}

func (m *Manager) dfsSuccessors(tx *gorm.DB, projectID string, doc *models.MasterDocument, goal uuid.UUID, visited map[uuid.UUID]bool, path []string) ([]string, bool, error) {
	for _, edge := range doc.Successors {
		if edge.MasterDocumentID == goal {
			return append(path, edge.DocumentNumber), true, nil
		}
		if visited[edge.MasterDocumentID] {
			continue
		}
		visited[edge.MasterDocumentID] = true

		var next models.MasterDocument
		if err := next.GetUnscoped(tx, projectID, edge.MasterDocumentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Stale edge to a physically absent document; nothing to
				// traverse through.
				continue
			}
			return nil, false, fmt.Errorf("error traversing successor chain at %s: %w",
				edge.DocumentNumber, err)
		}

		found, ok, err := m.dfsSuccessors(tx, projectID, &next, goal, visited, append(path, next.DocumentNumber))
		if err != nil {
			return nil, false, err
		}
		if ok {
			return found, true, nil
		}
	}
	return nil, false, nil
}
