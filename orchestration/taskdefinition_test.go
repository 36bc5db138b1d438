package orchestration

import (
	"context"
	"reflect"
	"testing"

	"github.com/YaleSpinup/apierror"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ecs"
)

func newTaskDefInput(family, networkMode string) *ecs.RegisterTaskDefinitionInput {
	return &ecs.RegisterTaskDefinitionInput{
		ContainerDefinitions: []*ecs.ContainerDefinition{
			{
				Name:  aws.String("web"),
				Image: aws.String("nginx:alpine"),
			},
		},
		Family:      aws.String(family),
		NetworkMode: aws.String(networkMode),
	}
}

func TestCreateTaskDef(t *testing.T) {
	o := newTestOrchestrator("testOrg")

	out, err := o.CreateTaskDef(context.TODO(), &TaskDefCreateOrchestrationInput{
		Cluster:        &ecs.CreateClusterInput{ClusterName: aws.String("clu0")},
		TaskDefinition: newTaskDefInput("web", ecs.NetworkModeAwsvpc),
		Tags:           []*Tag{{Key: aws.String("app"), Value: aws.String("web")}},
	})
	if err != nil {
		t.Fatalf("expected nil error, got %s", err)
	}

	expectedTags := []*Tag{
		{Key: aws.String("spinup:org"), Value: aws.String("testOrg")},
		{Key: aws.String("app"), Value: aws.String("web")},
	}

	if !reflect.DeepEqual(expectedTags, out.Tags) {
		t.Errorf("expected tags %+v, got %+v", expectedTags, out.Tags)
	}

	if out.Cluster == nil || aws.StringValue(out.Cluster.ClusterName) != "clu0" {
		t.Errorf("expected cluster clu0, got %+v", out.Cluster)
	}

	if aws.Int64Value(out.TaskDefinition.Revision) != 1 {
		t.Errorf("expected revision 1, got %d", aws.Int64Value(out.TaskDefinition.Revision))
	}

	tags, err := o.ListTags(context.TODO(), aws.StringValue(out.TaskDefinition.TaskDefinitionArn))
	if err != nil {
		t.Fatalf("expected nil error, got %s", err)
	}

	if !reflect.DeepEqual(expectedTags, tags) {
		t.Errorf("expected task definition tags %+v, got %+v", expectedTags, tags)
	}

	// a second registration without a cluster is the next revision
	out, err = o.CreateTaskDef(context.TODO(), &TaskDefCreateOrchestrationInput{
		TaskDefinition: newTaskDefInput("web", ecs.NetworkModeAwsvpc),
	})
	if err != nil {
		t.Fatalf("expected nil error, got %s", err)
	}

	if out.Cluster != nil {
		t.Errorf("expected nil cluster, got %+v", out.Cluster)
	}

	if aws.Int64Value(out.TaskDefinition.Revision) != 2 {
		t.Errorf("expected revision 2, got %d", aws.Int64Value(out.TaskDefinition.Revision))
	}

	_, err = o.CreateTaskDef(context.TODO(), nil)
	expectErrCode(t, err, apierror.ErrBadRequest)

	_, err = o.CreateTaskDef(context.TODO(), &TaskDefCreateOrchestrationInput{
		TaskDefinition: newTaskDefInput("web", ecs.NetworkModeAwsvpc),
		Tags:           []*Tag{{Key: aws.String("yale:org"), Value: aws.String("otherOrg")}},
	})
	expectErrCode(t, err, apierror.ErrBadRequest)

	_, err = o.CreateTaskDef(context.TODO(), &TaskDefCreateOrchestrationInput{
		TaskDefinition: &ecs.RegisterTaskDefinitionInput{Family: aws.String("empty")},
	})
	expectErrCode(t, err, apierror.ErrBadRequest)
}

func TestGetTaskDef(t *testing.T) {
	o := newTestOrchestrator("testOrg")

	for i := 0; i < 2; i++ {
		if _, err := o.CreateTaskDef(context.TODO(), &TaskDefCreateOrchestrationInput{
			TaskDefinition: newTaskDefInput("shown", ecs.NetworkModeBridge),
		}); err != nil {
			t.Fatalf("expected nil error, got %s", err)
		}
	}

	tests := []struct {
		ref      string
		revision int64
	}{
		{"shown", 2},
		{"shown:1", 1},
		{"arn:aws:ecs:us-east-1:123456789012:task-definition/shown:2", 2},
	}

	for _, tt := range tests {
		out, err := o.GetTaskDef(context.TODO(), tt.ref)
		if err != nil {
			t.Errorf("expected nil error for %s, got %s", tt.ref, err)
			continue
		}

		if r := aws.Int64Value(out.TaskDefinition.Revision); r != tt.revision {
			t.Errorf("expected revision %d for %s, got %d", tt.revision, tt.ref, r)
		}

		if len(out.Tags) != 1 || aws.StringValue(out.Tags[0].Key) != "spinup:org" {
			t.Errorf("expected org tag for %s, got %+v", tt.ref, out.Tags)
		}
	}

	_, err := o.GetTaskDef(context.TODO(), "")
	expectErrCode(t, err, apierror.ErrBadRequest)

	_, err = o.GetTaskDef(context.TODO(), "missing")
	expectErrCode(t, err, apierror.ErrNotFound)
}

func TestListTaskDefs(t *testing.T) {
	o := newTestOrchestrator("testOrg")

	for _, f := range []string{"alpha", "beta", "alpha"} {
		if _, err := o.CreateTaskDef(context.TODO(), &TaskDefCreateOrchestrationInput{
			TaskDefinition: newTaskDefInput(f, ecs.NetworkModeBridge),
		}); err != nil {
			t.Fatalf("expected nil error, got %s", err)
		}
	}

	out, err := o.ListTaskDefs(context.TODO(), "")
	if err != nil {
		t.Fatalf("expected nil error, got %s", err)
	}

	if expected := []string{"alpha", "beta"}; !reflect.DeepEqual(expected, out.Families) {
		t.Errorf("expected families %s, got %s", expected, out.Families)
	}

	out, err = o.ListTaskDefs(context.TODO(), "alpha")
	if err != nil {
		t.Fatalf("expected nil error, got %s", err)
	}

	expected := []string{
		"arn:aws:ecs:us-east-1:123456789012:task-definition/alpha:1",
		"arn:aws:ecs:us-east-1:123456789012:task-definition/alpha:2",
	}
	if !reflect.DeepEqual(expected, out.Revisions) {
		t.Errorf("expected revisions %s, got %s", expected, out.Revisions)
	}
}
