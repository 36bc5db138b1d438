package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *server) routes() {
	api := s.router.PathPrefix("/v1/ecs").Subrouter()
	api.HandleFunc("/ping", s.PingHandler).Methods(http.MethodGet)
	api.HandleFunc("/version", s.VersionHandler).Methods(http.MethodGet)
	api.Handle("/metrics", promhttp.Handler())

	// Task definition handlers
	api.HandleFunc("/{account}/taskdefs", s.TaskDefCreateHandler).Methods(http.MethodPost)
	api.HandleFunc("/{account}/taskdefs", s.TaskDefListHandler).Methods(http.MethodGet)
	api.HandleFunc("/{account}/taskdefs/{taskdef:.+}", s.TaskDefShowHandler).Methods(http.MethodGet)

	// Cluster handlers
	api.HandleFunc("/{account}/clusters", s.ClusterCreateHandler).Methods(http.MethodPost)
	api.HandleFunc("/{account}/clusters", s.ClusterListHandler).Methods(http.MethodGet)
	api.HandleFunc("/{account}/clusters/{cluster}", s.ClusterShowHandler).Methods(http.MethodGet)

	// Tasks handlers
	api.HandleFunc("/{account}/clusters/{cluster}/tasks", s.TaskRunHandler).Methods(http.MethodPost)
	api.HandleFunc("/{account}/clusters/{cluster}/tasks", s.TaskListHandler).Methods(http.MethodGet)
	api.HandleFunc("/{account}/clusters/{cluster}/tasks/{task}", s.TaskShowHandler).Methods(http.MethodGet)

	// Tag handlers
	api.HandleFunc("/{account}/tags", s.TagListHandler).Methods(http.MethodGet).Queries("arn", "{arn}")
	api.HandleFunc("/{account}/tags", s.TagUpdateHandler).Methods(http.MethodPost)
}
