package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"provider-onboarding/backend/internal/onboarding/service"
)

// Reconciler triggers one reconciliation run. Implemented by service.Reconciler.
type Reconciler interface {
	Reconcile(ctx context.Context, dryRun bool) (*service.DiffReport, error)
}

type reconcileResponse struct {
	DryRun bool                `json:"dryRun"`
	Diff   *service.DiffReport `json:"diff"`
}

// reconcile handles POST /admin/reconcile. dryRun defaults to true so a bare
// request never mutates the store.
func (s *Server) reconcile(w http.ResponseWriter, r *http.Request) {
	dryRun := true
	if raw := r.URL.Query().Get("dryRun"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "dryRun must be a boolean")
			return
		}
		dryRun = parsed
	}

	ctx := r.Context()
	if s.reconcileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.reconcileTimeout)
		defer cancel()
	}

	report, err := s.reconciler.Reconcile(ctx, dryRun)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReconcileInFlight):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrFetchFailed):
			writeError(w, http.StatusBadGateway, err.Error())
		default:
			s.log.Errorw("reconciliation failed", "err", err)
			writeError(w, http.StatusInternalServerError, "reconciliation failed")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, reconcileResponse{DryRun: dryRun, Diff: report})
}

// listOnboardings handles GET /onboardings.
func (s *Server) listOnboardings(w http.ResponseWriter, r *http.Request) {
	facts, err := s.view.All(r.Context())
	if err != nil {
		s.log.Errorw("list onboardings", "err", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, http.StatusOK, facts)
}

// listGroupOnboardings handles GET /groups/onboardings. Group rows are served
// raw; expanding them per client is the caller's group-membership join.
func (s *Server) listGroupOnboardings(w http.ResponseWriter, r *http.Request) {
	groups, err := s.view.Groups(r.Context())
	if err != nil {
		s.log.Errorw("list group onboardings", "err", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// listClientOnboardings handles GET /clients/{clientID}/onboardings with an
// optional ?provider= filter.
func (s *Server) listClientOnboardings(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "clientID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "clientID must be a UUID")
		return
	}

	var facts any
	if provider := r.URL.Query().Get("provider"); provider != "" {
		facts, err = s.view.ForClientAndProvider(r.Context(), clientID, provider)
	} else {
		facts, err = s.view.ForClient(r.Context(), clientID)
	}
	if err != nil {
		s.log.Errorw("list client onboardings", "clientId", clientID, "err", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, http.StatusOK, facts)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
