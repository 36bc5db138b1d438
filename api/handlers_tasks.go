package api

import (
	"encoding/json"
	"net/http"

	"github.com/YaleSpinup/apierror"
	"github.com/YaleSpinup/ecs-sim/orchestration"
	"github.com/gorilla/mux"

	log "github.com/sirupsen/logrus"
)

// TaskRunHandler runs tasks from a task definition in a cluster
func (s *server) TaskRunHandler(w http.ResponseWriter, r *http.Request) {
	w = LogWriter{w}
	vars := mux.Vars(r)
	account := vars["account"]
	cluster := vars["cluster"]

	orchestrator, err := s.newOrchestrator(account)
	if err != nil {
		handleError(w, err)
		return
	}

	var req orchestration.RunTaskInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, apierror.New(apierror.ErrBadRequest, "cannot decode body into run task input", err))
		return
	}

	log.Debugf("decoded request into run task request: %+v", req)

	output, err := orchestrator.RunTask(r.Context(), cluster, &req)
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

// TaskListHandler lists the task ids in a cluster.  The family, startedBy and (repeatable) status
// query parameters filter the list.
func (s *server) TaskListHandler(w http.ResponseWriter, r *http.Request) {
	w = LogWriter{w}
	vars := mux.Vars(r)
	account := vars["account"]
	cluster := vars["cluster"]

	orchestrator, err := s.newOrchestrator(account)
	if err != nil {
		handleError(w, err)
		return
	}

	q := r.URL.Query()
	var status []string
	if st, ok := q["status"]; ok {
		status = st
	}

	output, err := orchestrator.ListTasks(r.Context(), cluster, q.Get("family"), q.Get("startedBy"), status)
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

// TaskShowHandler gets the details for a task in a cluster
func (s *server) TaskShowHandler(w http.ResponseWriter, r *http.Request) {
	w = LogWriter{w}
	vars := mux.Vars(r)
	account := vars["account"]
	cluster := vars["cluster"]
	task := vars["task"]

	orchestrator, err := s.newOrchestrator(account)
	if err != nil {
		handleError(w, err)
		return
	}

	output, err := orchestrator.GetTask(r.Context(), cluster, task)
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
