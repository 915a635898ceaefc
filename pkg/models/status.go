package models

import (
	"fmt"

	"github.com/iancoleman/strcase"
)

// DocumentStatus is the lifecycle state of a master document.
//
// The normal flow is:
//
//	DRAFT -> IN_PROGRESS -> SUBMITTED -> UNDER_REVIEW -> {APPROVED, REJECTED}
//	APPROVED -> ACCEPTED (terminal)
//	REJECTED -> IN_PROGRESS (resubmission)
//
// ON_HOLD and CANCELLED are reachable from any non-terminal state and are
// terminal for graph-traversal purposes.
type DocumentStatus string

const (
	StatusDraft       DocumentStatus = "DRAFT"
	StatusInProgress  DocumentStatus = "IN_PROGRESS"
	StatusSubmitted   DocumentStatus = "SUBMITTED"
	StatusUnderReview DocumentStatus = "UNDER_REVIEW"
	StatusApproved    DocumentStatus = "APPROVED"
	StatusRejected    DocumentStatus = "REJECTED"
	StatusAccepted    DocumentStatus = "ACCEPTED"
	StatusOnHold      DocumentStatus = "ON_HOLD"
	StatusCancelled   DocumentStatus = "CANCELLED"
)

// ValidDocumentStatuses returns all recognized statuses.
func ValidDocumentStatuses() []DocumentStatus {
	return []DocumentStatus{
		StatusDraft,
		StatusInProgress,
		StatusSubmitted,
		StatusUnderReview,
		StatusApproved,
		StatusRejected,
		StatusAccepted,
		StatusOnHold,
		StatusCancelled,
	}
}

// IsValid returns true if this is a recognized status.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusInProgress, StatusSubmitted, StatusUnderReview,
		StatusApproved, StatusRejected, StatusAccepted, StatusOnHold,
		StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further lifecycle transitions are expected.
// ON_HOLD and CANCELLED count as terminal for graph-traversal purposes even
// though a document may later be taken off hold by an operator.
func (s DocumentStatus) IsTerminal() bool {
	switch s {
	case StatusAccepted, StatusOnHold, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsCompleted returns true if the document counts as "done" for predecessor
// gating. Only APPROVED and ACCEPTED qualify; a CANCELLED or ON_HOLD
// predecessor keeps blocking its successors until an operator resolves it.
func (s DocumentStatus) IsCompleted() bool {
	return s == StatusApproved || s == StatusAccepted
}

// String returns the string representation of the status.
func (s DocumentStatus) String() string {
	return string(s)
}

// ParseDocumentStatus normalizes and validates a status string. Accepts any
// casing convention ("inProgress", "in-progress", "IN_PROGRESS").
func ParseDocumentStatus(s string) (DocumentStatus, error) {
	if s == "" {
		return "", fmt.Errorf("status cannot be empty")
	}
	status := DocumentStatus(strcase.ToScreamingSnake(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid document status: %q (valid: %v)",
			s, ValidDocumentStatuses())
	}
	return status, nil
}
