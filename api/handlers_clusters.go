package api

import (
	"encoding/json"
	"net/http"

	"github.com/YaleSpinup/apierror"
	"github.com/YaleSpinup/ecs-sim/orchestration"
	"github.com/gorilla/mux"
)

// ClusterCreateHandler creates a cluster, returning the existing cluster if it's already there
func (s *server) ClusterCreateHandler(w http.ResponseWriter, r *http.Request) {
	w = LogWriter{w}
	vars := mux.Vars(r)
	account := vars["account"]

	orchestrator, err := s.newOrchestrator(account)
	if err != nil {
		handleError(w, err)
		return
	}

	var req orchestration.CreateClusterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, apierror.New(apierror.ErrBadRequest, "cannot decode body into create cluster input", err))
		return
	}

	output, err := orchestrator.CreateCluster(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	j, err := json.Marshal(output)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, j)
}

// ClusterListHandler lists the cluster names
func (s *server) ClusterListHandler(w http.ResponseWriter, r *http.Request) {
	w = LogWriter{w}
	vars := mux.Vars(r)
	account := vars["account"]

	orchestrator, err := s.newOrchestrator(account)
	if err != nil {
		handleError(w, err)
		return
	}

	output, err := orchestrator.ListClusters(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	j, err := json.Marshal(output)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, j)
}

// ClusterShowHandler shows a cluster and its tags
func (s *server) ClusterShowHandler(w http.ResponseWriter, r *http.Request) {
	w = LogWriter{w}
	vars := mux.Vars(r)
	account := vars["account"]
	cluster := vars["cluster"]

	orchestrator, err := s.newOrchestrator(account)
	if err != nil {
		handleError(w, err)
		return
	}

	output, err := orchestrator.GetCluster(r.Context(), cluster)
	if err != nil {
		handleError(w, err)
		return
	}

	j, err := json.Marshal(output)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, j)
}
