// Package orchestration brings together the other components of the API into a
// single orchestration interface for registering task definitions and running tasks
package orchestration

import (
	"github.com/YaleSpinup/ecs-sim/ecs"
)

// Orchestrator holds the ecs client and the defaults applied to requests
type Orchestrator struct {
	// https://docs.aws.amazon.com/sdk-for-go/api/service/ecs/#ECS
	ECS ecs.ECS
	// DefaultSubnets sets a list of default subnets to attach ENIs
	DefaultSubnets []string
	// DefaultSecurityGroups sets a list of default sgs to attach to ENIs
	DefaultSecurityGroups []string
	// Org is the organization where this orchestration runs
	Org string
}

// NewOrchestrator creates an orchestrator for an ecs client, using its default subnets and
// security groups
func NewOrchestrator(client ecs.ECS, org string) *Orchestrator {
	return &Orchestrator{
		ECS:                   client,
		DefaultSubnets:        client.DefaultSubnets,
		DefaultSecurityGroups: client.DefaultSgs,
		Org:                   org,
	}
}
