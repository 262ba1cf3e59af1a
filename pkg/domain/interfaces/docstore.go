package interfaces

import (
	"context"

	"github.com/wathbahs/muraji/pkg/domain/types"
)

// Collection is a named group of documents in the external indexing store
type Collection struct {
	ID            types.CollectionID `json:"id"`
	Name          string             `json:"name"`
	DocumentCount int                `json:"documentCount"`
}

// Document is one indexed file within a collection
type Document struct {
	ID       types.DocumentID   `json:"id"`
	Name     string             `json:"name"`
	MimeType string             `json:"mimeType,omitempty"`
	Status   types.ImportStatus `json:"status"`
}

// DocumentStore abstracts the external document-indexing service. The core
// proxies collection and document management through it and treats indexing
// as an asynchronous operation with a bounded polling wait.
type DocumentStore interface {
	CreateCollection(ctx context.Context, name string) (*Collection, error)
	ListCollections(ctx context.Context) ([]Collection, error)
	DeleteCollection(ctx context.Context, id types.CollectionID) error

	// UploadDocument submits the file and waits a bounded time for indexing;
	// when the bound is exceeded the document is returned with a processing
	// status rather than an error
	UploadDocument(ctx context.Context, collectionID types.CollectionID, name, mimeType string, data []byte) (*Document, error)
	ListDocuments(ctx context.Context, collectionID types.CollectionID) ([]Document, error)
	DeleteDocument(ctx context.Context, collectionID types.CollectionID, docID types.DocumentID) error
}
