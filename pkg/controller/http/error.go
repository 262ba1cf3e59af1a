package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
	"github.com/wathbahs/muraji/pkg/utils/logging"
)

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Success: false, Error: err.Error()})
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.From(r.Context())

	switch {
	case goerr.HasTag(err, errs.TagNotFound):
		logger.Warn("Not Found", "error", err)
		writeError(w, http.StatusNotFound, err)

	case goerr.HasTag(err, errs.TagValidation):
		logger.Warn("Bad Request", "error", err)
		writeError(w, http.StatusBadRequest, err)

	case goerr.HasTag(err, errs.TagConflict):
		logger.Warn("Conflict", "error", err)
		writeError(w, http.StatusConflict, err)

	case goerr.HasTag(err, errs.TagConfiguration):
		logger.Error("Service Not Configured", "error", err)
		writeError(w, http.StatusServiceUnavailable, err)

	case goerr.HasTag(err, errs.TagLLMError),
		goerr.HasTag(err, errs.TagInvalidLLMResponse),
		goerr.HasTag(err, errs.TagDocStoreError),
		goerr.HasTag(err, errs.TagExternal):
		logger.Error("Upstream Service Error", "error", err)
		writeError(w, http.StatusBadGateway, err)

	case goerr.HasTag(err, errs.TagDatabase), goerr.HasTag(err, errs.TagInternal):
		errs.Handle(r.Context(), err)
		writeError(w, http.StatusInternalServerError, err)

	default:
		errs.Handle(r.Context(), err)
		writeError(w, http.StatusInternalServerError, err)
	}
}
