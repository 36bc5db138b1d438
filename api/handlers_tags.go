package api

import (
	"encoding/json"
	"net/http"

	"github.com/YaleSpinup/apierror"
	"github.com/YaleSpinup/ecs-sim/orchestration"
	"github.com/gorilla/mux"
)

// TagListHandler lists the tags of the resource in the arn query parameter
func (s *server) TagListHandler(w http.ResponseWriter, r *http.Request) {
	w = LogWriter{w}
	vars := mux.Vars(r)
	account := vars["account"]
	arn := r.URL.Query().Get("arn")

	orchestrator, err := s.newOrchestrator(account)
	if err != nil {
		handleError(w, err)
		return
	}

	output, err := orchestrator.ListTags(r.Context(), arn)
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

// TagUpdateHandler adds tags to a resource
func (s *server) TagUpdateHandler(w http.ResponseWriter, r *http.Request) {
	w = LogWriter{w}
	vars := mux.Vars(r)
	account := vars["account"]

	orchestrator, err := s.newOrchestrator(account)
	if err != nil {
		handleError(w, err)
		return
	}

	var req struct {
		ResourceArn string
		Tags        []*orchestration.Tag
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, apierror.New(apierror.ErrBadRequest, "cannot decode body into tag input", err))
		return
	}

	output, err := orchestrator.TagResource(r.Context(), req.ResourceArn, req.Tags)
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
