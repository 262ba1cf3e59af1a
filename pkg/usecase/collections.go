package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wathbahs/muraji/pkg/domain/interfaces"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
	"github.com/wathbahs/muraji/pkg/domain/types"
	"github.com/wathbahs/muraji/pkg/service/catalog"
)

var errDocStoreNotConfigured = goerr.New("document store is not configured", goerr.T(errs.TagConfiguration))

// Collection and document operations are thin proxies to the external
// document store; the only added behavior is the configuration check.

func (u *UseCases) CreateCollection(ctx context.Context, name string) (*interfaces.Collection, error) {
	if u.docStore == nil {
		return nil, goerr.Wrap(errDocStoreNotConfigured, "cannot create collection")
	}
	return u.docStore.CreateCollection(ctx, name)
}

func (u *UseCases) ListCollections(ctx context.Context) ([]interfaces.Collection, error) {
	if u.docStore == nil {
		return nil, goerr.Wrap(errDocStoreNotConfigured, "cannot list collections")
	}
	return u.docStore.ListCollections(ctx)
}

func (u *UseCases) DeleteCollection(ctx context.Context, id types.CollectionID) error {
	if u.docStore == nil {
		return goerr.Wrap(errDocStoreNotConfigured, "cannot delete collection")
	}
	return u.docStore.DeleteCollection(ctx, id)
}

func (u *UseCases) UploadDocument(ctx context.Context, collectionID types.CollectionID, name, mimeType string, data []byte) (*interfaces.Document, error) {
	if u.docStore == nil {
		return nil, goerr.Wrap(errDocStoreNotConfigured, "cannot upload document")
	}
	return u.docStore.UploadDocument(ctx, collectionID, name, mimeType, data)
}

func (u *UseCases) ListDocuments(ctx context.Context, collectionID types.CollectionID) ([]interfaces.Document, error) {
	if u.docStore == nil {
		return nil, goerr.Wrap(errDocStoreNotConfigured, "cannot list documents")
	}
	return u.docStore.ListDocuments(ctx, collectionID)
}

func (u *UseCases) DeleteDocument(ctx context.Context, collectionID types.CollectionID, docID types.DocumentID) error {
	if u.docStore == nil {
		return goerr.Wrap(errDocStoreNotConfigured, "cannot delete document")
	}
	return u.docStore.DeleteDocument(ctx, collectionID, docID)
}

// Frameworks returns the loaded framework libraries
func (u *UseCases) Frameworks() []catalog.Framework {
	return u.catalog.Frameworks()
}
