// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Action is the terminal outcome of the rename pipeline for one document.
type Action string

const (
	// ActionAlreadyFormatted means the filename already conforms to the
	// active templates; no extraction call was made.
	ActionAlreadyFormatted Action = "already-formatted"

	// ActionRenamed means the document was moved to its new name.
	ActionRenamed Action = "renamed"

	// ActionSkipped means no rename was attempted; Decision.Reason says why.
	ActionSkipped Action = "skipped"

	// ActionDuplicate means a file with identical content already exists
	// under the target name; the rename did not proceed.
	ActionDuplicate Action = "duplicate"

	// ActionFailed means extraction, building, or the move failed for
	// this document. The batch continues with the next document.
	ActionFailed Action = "failed"
)

// SkipReason explains an ActionSkipped decision.
type SkipReason string

const (
	// SkipSameName: the built filename equals the current one.
	SkipSameName SkipReason = "same-name"

	// SkipEmptyMetadata: extraction produced no usable field at all.
	SkipEmptyMetadata SkipReason = "empty-metadata"

	// SkipBookTitleMissing: book mode, but no title was found. Title is
	// the load-bearing field for books, so renaming would be meaningless.
	SkipBookTitleMissing SkipReason = "book-title-missing"
)

// Decision records the pipeline outcome for one document. Target holds
// the new path for ActionRenamed and the pre-existing path for
// ActionDuplicate; it is empty otherwise.
type Decision struct {
	Action Action     `json:"action" yaml:"action"`
	Source string     `json:"source" yaml:"source"`
	Target string     `json:"target,omitempty" yaml:"target,omitempty"`
	Reason SkipReason `json:"reason,omitempty" yaml:"reason,omitempty"`
	Err    string     `json:"error,omitempty" yaml:"error,omitempty"`
}
