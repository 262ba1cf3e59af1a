package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/wathbahs/muraji/pkg/domain/model/audit"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
	"github.com/wathbahs/muraji/pkg/domain/types"
	"github.com/wathbahs/muraji/pkg/usecase"
)

type createSessionRequest struct {
	Context audit.GroundingContext `json:"context"`
}

func createSessionHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleError(w, r, goerr.Wrap(err, "invalid session request body",
				goerr.T(errs.TagValidation)))
			return
		}

		sess, err := uc.CreateSession(r.Context(), req.Context)
		if err != nil {
			handleError(w, r, err)
			return
		}

		respondJSON(w, http.StatusCreated, map[string]any{
			"sessionId":     sess.ID,
			"cachedContent": sess.CacheName,
			"createdAt":     sess.CreatedAt,
		})
	}
}

type chatMessageRequest struct {
	SessionID types.SessionID `json:"sessionId"`
	Message   string          `json:"message"`
}

func chatMessageHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleError(w, r, goerr.Wrap(err, "invalid chat request body",
				goerr.T(errs.TagValidation)))
			return
		}
		if req.SessionID == "" || req.Message == "" {
			handleError(w, r, goerr.New("sessionId and message are required",
				goerr.T(errs.TagValidation)))
			return
		}

		reply, err := uc.SendMessage(r.Context(), req.SessionID, req.Message)
		if err != nil {
			handleError(w, r, err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"reply": reply,
		})
	}
}

func listSessionsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := uc.ListSessions(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"sessions": summaries,
		})
	}
}

func getSessionHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := types.SessionID(chi.URLParam(r, "sessionID"))

		sess, msgs, err := uc.GetSession(r.Context(), sessionID)
		if err != nil {
			handleError(w, r, err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"session": sess,
			"history": msgs,
		})
	}
}

func deleteSessionHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := types.SessionID(chi.URLParam(r, "sessionID"))

		if err := uc.DeleteSession(r.Context(), sessionID); err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, nil)
	}
}
