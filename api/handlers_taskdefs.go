package api

import (
	"encoding/json"
	"net/http"

	"github.com/YaleSpinup/apierror"
	"github.com/YaleSpinup/ecs-sim/orchestration"
	"github.com/gorilla/mux"

	log "github.com/sirupsen/logrus"
)

// TaskDefCreateHandler registers a new revision of a task definition, optionally creating a cluster
func (s *server) TaskDefCreateHandler(w http.ResponseWriter, r *http.Request) {
	w = LogWriter{w}
	vars := mux.Vars(r)
	account := vars["account"]

	orchestrator, err := s.newOrchestrator(account)
	if err != nil {
		handleError(w, err)
		return
	}

	var req orchestration.TaskDefCreateOrchestrationInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := "cannot decode body into create taskdef input"
		handleError(w, apierror.New(apierror.ErrBadRequest, msg, err))
		return
	}

	log.Debugf("decoded request into taskdef orchestration request: %+v", req)

	output, err := orchestrator.CreateTaskDef(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	j, err := json.Marshal(output)
	if err != nil {
		log.Errorf("cannot marshal response (%v) into JSON: %s", output, err)
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, j)
}

// TaskDefListHandler lists the task definition families, or the revisions of the family given
// in the query
func (s *server) TaskDefListHandler(w http.ResponseWriter, r *http.Request) {
	w = LogWriter{w}
	vars := mux.Vars(r)
	account := vars["account"]

	orchestrator, err := s.newOrchestrator(account)
	if err != nil {
		handleError(w, err)
		return
	}

	output, err := orchestrator.ListTaskDefs(r.Context(), r.URL.Query().Get("family"))
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

// TaskDefShowHandler shows a task definition by family, family:revision or ARN
func (s *server) TaskDefShowHandler(w http.ResponseWriter, r *http.Request) {
	w = LogWriter{w}
	vars := mux.Vars(r)
	account := vars["account"]
	taskdef := vars["taskdef"]

	orchestrator, err := s.newOrchestrator(account)
	if err != nil {
		handleError(w, err)
		return
	}

	output, err := orchestrator.GetTaskDef(r.Context(), taskdef)
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
