package types

// CollectionID identifies a document collection in the external store
type CollectionID string

func (x CollectionID) String() string {
	return string(x)
}

// DocumentID identifies a single document within a collection
type DocumentID string

func (x DocumentID) String() string {
	return string(x)
}

// ImportStatus reports the state of a document-indexing operation
type ImportStatus string

const (
	ImportStatusReady      ImportStatus = "ready"
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusFailed     ImportStatus = "failed"
)

func (x ImportStatus) String() string {
	return string(x)
}
