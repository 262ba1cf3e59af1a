package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wathbahs/muraji/pkg/domain/model/audit"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
	"github.com/wathbahs/muraji/pkg/usecase"
)

// analyzeRequest accepts either a single requirement or a batch. The single
// form predates the batch form and stays supported for older clients.
type analyzeRequest struct {
	Requirement  *audit.Requirement  `json:"requirement,omitempty"`
	Requirements []audit.Requirement `json:"requirements,omitempty"`
	UserPrompt   string              `json:"userPrompt,omitempty"`
	ContextFiles []audit.ContextFile `json:"contextFiles,omitempty"`
}

func analyzeHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleError(w, r, goerr.Wrap(err, "invalid analyze request body",
				goerr.T(errs.TagValidation)))
			return
		}

		switch {
		case len(req.Requirements) > 0:
			results, err := uc.AnalyzeRequirements(r.Context(), req.Requirements, req.UserPrompt, req.ContextFiles)
			if err != nil {
				handleError(w, r, err)
				return
			}
			respondJSON(w, http.StatusOK, map[string]any{
				"results": results,
			})

		case req.Requirement != nil:
			content, err := uc.AnalyzeRequirement(r.Context(), *req.Requirement, req.UserPrompt, req.ContextFiles)
			if err != nil {
				handleError(w, r, err)
				return
			}
			respondJSON(w, http.StatusOK, map[string]any{
				"data": content,
			})

		default:
			handleError(w, r, goerr.New("requirement or requirements is required",
				goerr.T(errs.TagValidation)))
		}
	}
}

func frameworksHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"frameworks": uc.Frameworks(),
		})
	}
}
