package simulator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	taskDefinitionsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ecssim",
		Name:      "task_definitions_registered_total",
		Help:      "Total task definition revisions registered",
	})

	tasksLaunched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecssim",
		Name:      "tasks_launched_total",
		Help:      "Total tasks launched, by task definition network mode",
	}, []string{"network_mode"})

	requestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecssim",
		Name:      "request_errors_total",
		Help:      "Total failed simulator requests, by operation and error code",
	}, []string{"operation", "code"})
)
