package orchestration

import (
	"testing"

	"github.com/YaleSpinup/apierror"
	"github.com/YaleSpinup/ecs-sim/common"
	"github.com/YaleSpinup/ecs-sim/ecs"
	"github.com/pkg/errors"
)

// newTestOrchestrator returns an orchestrator backed by a fresh simulator
func newTestOrchestrator(org string) *Orchestrator {
	return NewOrchestrator(ecs.NewSession(common.Account{
		Region:         "us-east-1",
		AccountID:      "123456789012",
		DefaultSubnets: []string{"subnet-a", "subnet-b"},
		DefaultSgs:     []string{"sg-a"},
	}), org)
}

func expectErrCode(t *testing.T, err error, code string) {
	t.Helper()

	aerr, ok := errors.Cause(err).(apierror.Error)
	if !ok {
		t.Errorf("expected apierror.Error with code %s, got %v", code, err)
		return
	}

	if aerr.Code != code {
		t.Errorf("expected error code %s, got %s: %s", code, aerr.Code, aerr)
	}
}

func TestNewOrchestrator(t *testing.T) {
	o := newTestOrchestrator("testOrg")

	if o.Org != "testOrg" {
		t.Errorf("expected org testOrg, got %s", o.Org)
	}

	if len(o.DefaultSubnets) != 2 || o.DefaultSubnets[0] != "subnet-a" {
		t.Errorf("expected default subnets from the account, got %+v", o.DefaultSubnets)
	}

	if len(o.DefaultSecurityGroups) != 1 || o.DefaultSecurityGroups[0] != "sg-a" {
		t.Errorf("expected default security groups from the account, got %+v", o.DefaultSecurityGroups)
	}
}
