package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iancoleman/strcase"
)

// LinkType classifies a dependency edge between two master documents.
type LinkType string

const (
	// LinkTypePrerequisite means the linked document must finish before
	// the holding document starts.
	LinkTypePrerequisite LinkType = "PREREQUISITE"

	// LinkTypeSuccessor means the linked document depends on the holding
	// document finishing first.
	LinkTypeSuccessor LinkType = "SUCCESSOR"

	// LinkTypeRelated is a symmetric, non-ordering cross-reference.
	LinkTypeRelated LinkType = "RELATED"
)

// ValidLinkTypes returns all recognized link types.
func ValidLinkTypes() []LinkType {
	return []LinkType{LinkTypePrerequisite, LinkTypeSuccessor, LinkTypeRelated}
}

// IsValid returns true if this is a recognized link type.
func (lt LinkType) IsValid() bool {
	switch lt {
	case LinkTypePrerequisite, LinkTypeSuccessor, LinkTypeRelated:
		return true
	default:
		return false
	}
}

// IsOrdering returns true for link types that carry ordering semantics and
// therefore participate in cycle detection. RELATED links are exempt.
func (lt LinkType) IsOrdering() bool {
	return lt == LinkTypePrerequisite || lt == LinkTypeSuccessor
}

// Inverse returns the link type stored on the other endpoint of a mirrored
// edge. RELATED is its own inverse.
func (lt LinkType) Inverse() LinkType {
	switch lt {
	case LinkTypePrerequisite:
		return LinkTypeSuccessor
	case LinkTypeSuccessor:
		return LinkTypePrerequisite
	default:
		return LinkTypeRelated
	}
}

// String returns the string representation of the link type.
func (lt LinkType) String() string {
	return string(lt)
}

// ParseLinkType normalizes and validates a link type string.
func ParseLinkType(s string) (LinkType, error) {
	if s == "" {
		return "", fmt.Errorf("link type cannot be empty")
	}
	lt := LinkType(strcase.ToScreamingSnake(s))
	if !lt.IsValid() {
		return "", fmt.Errorf("invalid link type: %q (valid: %v)", s, ValidLinkTypes())
	}
	return lt, nil
}

// DocumentLink is a denormalized edge record embedded on a master document
// row. It snapshots the linked document's number, title, status, revision,
// and assignees at link-creation time; the snapshots are refreshed only by
// status propagation, never on read.
//
// The mirrored record on the other endpoint is an independent copy, kept in
// sync procedurally by the link graph manager.
type DocumentLink struct {
	MasterDocumentID uuid.UUID      `json:"masterDocumentId"`
	DocumentNumber   string         `json:"documentNumber"`
	DocumentTitle    string         `json:"documentTitle"`
	LinkType         LinkType       `json:"linkType"`
	Status           DocumentStatus `json:"status"`
	CurrentRevision  string         `json:"currentRevision"`
	AssignedToNames  []string       `json:"assignedToNames,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// LinkList is an ordered list of denormalized edges stored in a single
// JSONB column.
type LinkList []DocumentLink

// Value implements driver.Valuer.
func (l LinkList) Value() (driver.Value, error) {
	if l == nil {
		return jsonValue([]DocumentLink{})
	}
	return jsonValue([]DocumentLink(l))
}

// Scan implements sql.Scanner.
func (l *LinkList) Scan(value interface{}) error {
	return jsonScan(l, value)
}

// IndexOf returns the position of the edge pointing at the given document,
// or -1 if absent.
func (l LinkList) IndexOf(id uuid.UUID) int {
	for i, link := range l {
		if link.MasterDocumentID == id {
			return i
		}
	}
	return -1
}

// Contains reports whether the list holds an edge pointing at the given
// document.
func (l LinkList) Contains(id uuid.UUID) bool {
	return l.IndexOf(id) >= 0
}

// Remove returns a copy of the list without the edge pointing at the given
// document. The second return value is false if no such edge existed.
func (l LinkList) Remove(id uuid.UUID) (LinkList, bool) {
	i := l.IndexOf(id)
	if i < 0 {
		return l, false
	}
	out := make(LinkList, 0, len(l)-1)
	out = append(out, l[:i]...)
	out = append(out, l[i+1:]...)
	return out, true
}
