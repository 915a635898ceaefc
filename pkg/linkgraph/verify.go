package linkgraph

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/epc-forge/doctrack/pkg/models"
)

// MirrorViolation describes one asymmetry found between a document's edge
// and its expected mirrored record on the other endpoint.
type MirrorViolation struct {
	DocumentID     uuid.UUID       `json:"documentId"`
	DocumentNumber string          `json:"documentNumber"`
	LinkedID       uuid.UUID       `json:"linkedId"`
	LinkType       models.LinkType `json:"linkType"`
	Reason         string          `json:"reason"`
}

// VerifyMirrorIntegrity reconstructs the project's link graph from both
// sides of every edge and reports asymmetries: edges whose other endpoint
// is missing, or whose mirrored record is absent. A healthy project
// returns an empty slice.
//
// Soft-deleted documents are included, since live documents may still hold
// snapshots pointing at them.
func (m *Manager) VerifyMirrorIntegrity(ctx context.Context, projectID string) ([]MirrorViolation, error) {
	if projectID == "" {
		return nil, fmt.Errorf("project ID cannot be empty")
	}

	var docs []models.MasterDocument
	if err := m.db.WithContext(ctx).
		Unscoped().
		Where("project_id = ?", projectID).
		Find(&docs).
		Error; err != nil {
		return nil, fmt.Errorf("error loading project documents: %w", err)
	}

	byID := make(map[uuid.UUID]*models.MasterDocument, len(docs))
	for i := range docs {
		byID[docs[i].ID] = &docs[i]
	}

	var violations []MirrorViolation
	for i := range docs {
		doc := &docs[i]
		for _, lt := range models.ValidLinkTypes() {
			for _, edge := range *doc.LinksOfType(lt) {
				other, ok := byID[edge.MasterDocumentID]
				if !ok {
					violations = append(violations, MirrorViolation{
						DocumentID:     doc.ID,
						DocumentNumber: doc.DocumentNumber,
						LinkedID:       edge.MasterDocumentID,
						LinkType:       lt,
						Reason:         "linked document does not exist in project",
					})
					continue
				}
				if !other.LinksOfType(lt.Inverse()).Contains(doc.ID) {
					violations = append(violations, MirrorViolation{
						DocumentID:     doc.ID,
						DocumentNumber: doc.DocumentNumber,
						LinkedID:       other.ID,
						LinkType:       lt,
						Reason: fmt.Sprintf("no mirrored %s edge on %s",
							lt.Inverse(), other.DocumentNumber),
					})
				}
			}
		}
	}

	return violations, nil
}
