package audit

// Requirement is a single compliance-framework requirement selected by the
// user. Field names follow the framework library wire format.
type Requirement struct {
	FrameworkURN  string `firestore:"framework_urn,omitempty" json:"frameworkUrn,omitempty"`
	FrameworkName string `firestore:"framework_name" json:"frameworkName"`
	NodeURN       string `firestore:"node_urn,omitempty" json:"nodeUrn,omitempty"`
	RefID         string `firestore:"ref_id" json:"refId"`
	Name          string `firestore:"name,omitempty" json:"name,omitempty"`
	Description   string `firestore:"description" json:"description"`
}

// FileResource points at a document already indexed in the external document
// store. Only identifiers are kept; the bytes live in the store.
type FileResource struct {
	StoreID    string `firestore:"store_id" json:"storeId"`
	DocumentID string `firestore:"document_id" json:"documentId"`
	Name       string `firestore:"name,omitempty" json:"name,omitempty"`
}

// ContextFile is an inline uploaded file carried verbatim into the grounding
// instruction. Content beyond the composer's cap is truncated on render, not
// here; the snapshot keeps what the client sent.
type ContextFile struct {
	Name    string `firestore:"name" json:"name"`
	Content string `firestore:"content" json:"content"`
}

// GroundingContext is the structured input a session is grounded in. It is
// captured once at session creation and never updated afterwards; it exists
// as a provenance record and as the input to the instruction composer.
//
// Every field is optional. Absent fields default to empty, validated here at
// the composer boundary rather than deep in rendering.
type GroundingContext struct {
	Requirements  []Requirement  `firestore:"requirements,omitempty" json:"requirements,omitempty"`
	FileResources []FileResource `firestore:"file_resources,omitempty" json:"fileResources,omitempty"`
	ContextFiles  []ContextFile  `firestore:"context_files,omitempty" json:"contextFiles,omitempty"`
	Query         string         `firestore:"query,omitempty" json:"query,omitempty"`
}

// IsEmpty reports whether the context carries no grounding input at all
func (x GroundingContext) IsEmpty() bool {
	return len(x.Requirements) == 0 &&
		len(x.FileResources) == 0 &&
		len(x.ContextFiles) == 0 &&
		x.Query == ""
}
