package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
	"github.com/wathbahs/muraji/pkg/domain/types"
	"github.com/wathbahs/muraji/pkg/usecase"
	"github.com/wathbahs/muraji/pkg/utils/safe"
)

const maxUploadBytes = 32 << 20

func createCollectionHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			handleError(w, r, goerr.New("collection name is required",
				goerr.T(errs.TagValidation)))
			return
		}

		col, err := uc.CreateCollection(r.Context(), req.Name)
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]any{
			"collection": col,
		})
	}
}

func listCollectionsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cols, err := uc.ListCollections(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"collections": cols,
		})
	}
}

func deleteCollectionHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.CollectionID(chi.URLParam(r, "collectionID"))
		if err := uc.DeleteCollection(r.Context(), id); err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, nil)
	}
}

func uploadDocumentHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collectionID := types.CollectionID(chi.URLParam(r, "collectionID"))

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			handleError(w, r, goerr.Wrap(err, "invalid upload form",
				goerr.T(errs.TagValidation)))
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			handleError(w, r, goerr.Wrap(err, "file field is required",
				goerr.T(errs.TagValidation)))
			return
		}
		defer safe.Close(r.Context(), file)

		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			handleError(w, r, goerr.Wrap(err, "failed to read upload"))
			return
		}

		mimeType := header.Header.Get("Content-Type")
		doc, err := uc.UploadDocument(r.Context(), collectionID, header.Filename, mimeType, data)
		if err != nil {
			handleError(w, r, err)
			return
		}

		status := http.StatusCreated
		if doc.Status == types.ImportStatusProcessing {
			status = http.StatusAccepted
		}
		respondJSON(w, status, map[string]any{
			"document": doc,
		})
	}
}

func listDocumentsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collectionID := types.CollectionID(chi.URLParam(r, "collectionID"))
		docs, err := uc.ListDocuments(r.Context(), collectionID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"documents": docs,
		})
	}
}

func deleteDocumentHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collectionID := types.CollectionID(chi.URLParam(r, "collectionID"))
		docID := types.DocumentID(chi.URLParam(r, "documentID"))
		if err := uc.DeleteDocument(r.Context(), collectionID, docID); err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, nil)
	}
}
