package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    DocumentStatus
		wantErr bool
	}{
		{"screaming snake", "IN_PROGRESS", StatusInProgress, false},
		{"lower camel", "inProgress", StatusInProgress, false},
		{"kebab", "under-review", StatusUnderReview, false},
		{"lowercase", "approved", StatusApproved, false},
		{"single word", "DRAFT", StatusDraft, false},
		{"empty", "", "", true},
		{"unknown", "archived", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDocumentStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocumentStatusPredicates(t *testing.T) {
	for _, s := range ValidDocumentStatuses() {
		assert.True(t, s.IsValid(), "%s should be valid", s)
	}
	assert.False(t, DocumentStatus("BOGUS").IsValid())
	assert.False(t, DocumentStatus("").IsValid())

	completed := map[DocumentStatus]bool{
		StatusApproved: true,
		StatusAccepted: true,
	}
	terminal := map[DocumentStatus]bool{
		StatusAccepted:  true,
		StatusOnHold:    true,
		StatusCancelled: true,
	}
	for _, s := range ValidDocumentStatuses() {
		assert.Equal(t, completed[s], s.IsCompleted(), "IsCompleted(%s)", s)
		assert.Equal(t, terminal[s], s.IsTerminal(), "IsTerminal(%s)", s)
	}
}

func TestParseLinkType(t *testing.T) {
	tests := []struct {
		input   string
		want    LinkType
		wantErr bool
	}{
		{"PREREQUISITE", LinkTypePrerequisite, false},
		{"prerequisite", LinkTypePrerequisite, false},
		{"successor", LinkTypeSuccessor, false},
		{"related", LinkTypeRelated, false},
		{"", "", true},
		{"sibling", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLinkType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLinkTypeInverse(t *testing.T) {
	assert.Equal(t, LinkTypeSuccessor, LinkTypePrerequisite.Inverse())
	assert.Equal(t, LinkTypePrerequisite, LinkTypeSuccessor.Inverse())
	assert.Equal(t, LinkTypeRelated, LinkTypeRelated.Inverse())

	for _, lt := range ValidLinkTypes() {
		assert.Equal(t, lt, lt.Inverse().Inverse())
	}

	assert.True(t, LinkTypePrerequisite.IsOrdering())
	assert.True(t, LinkTypeSuccessor.IsOrdering())
	assert.False(t, LinkTypeRelated.IsOrdering())
}
