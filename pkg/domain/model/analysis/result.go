package analysis

import (
	"encoding/json"

	"github.com/wathbahs/muraji/pkg/domain/model/audit"
)

// EvidenceItem is one entry in the typical_evidence list of an analysis
type EvidenceItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts both the documented object form and the bare-string
// form some model replies fall back to.
func (x *EvidenceItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		x.Title = s
		x.Description = ""
		return nil
	}

	type alias EvidenceItem
	var v alias
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*x = EvidenceItem(v)
	return nil
}

// Content is the structured payload the model is asked to produce for one
// requirement. Missing fields default to empty lists, never nil-for-error.
type Content struct {
	TypicalEvidence []EvidenceItem `json:"typical_evidence"`
	Questions       []string       `json:"questions"`
	Suggestions     []string       `json:"suggestions"`
}

// Normalize replaces nil slices with empty ones so the wire shape always
// carries arrays
func (x *Content) Normalize() {
	if x.TypicalEvidence == nil {
		x.TypicalEvidence = []EvidenceItem{}
	}
	if x.Questions == nil {
		x.Questions = []string{}
	}
	if x.Suggestions == nil {
		x.Suggestions = []string{}
	}
}

// Empty returns a zero-value content with all lists present
func Empty() Content {
	return Content{
		TypicalEvidence: []EvidenceItem{},
		Questions:       []string{},
		Suggestions:     []string{},
	}
}

// Result pairs one analyzed requirement with its outcome. A failed item keeps
// its position and carries empty default content plus the error message.
type Result struct {
	Requirement audit.Requirement `json:"requirement"`
	Analysis    Content           `json:"analysis"`
	Success     bool              `json:"success"`
	Error       string            `json:"error,omitempty"`
}
