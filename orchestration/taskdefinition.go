package orchestration

import (
	"context"

	"github.com/YaleSpinup/apierror"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ecs"
	log "github.com/sirupsen/logrus"
)

// TaskDefCreateOrchestrationInput is the input payload for registering a task definition
type TaskDefCreateOrchestrationInput struct {
	// Cluster is optionally created along with the task definition
	Cluster        *ecs.CreateClusterInput
	TaskDefinition *ecs.RegisterTaskDefinitionInput
	Tags           []*Tag
}

// TaskDefCreateOrchestrationOutput is the output payload for a task definition registration
type TaskDefCreateOrchestrationOutput struct {
	Cluster        *ecs.Cluster `json:",omitempty"`
	TaskDefinition *ecs.TaskDefinition
	Tags           []*Tag
}

// TaskDefShowOutput is the output payload for a task definition
type TaskDefShowOutput struct {
	TaskDefinition *ecs.TaskDefinition
	Tags           []*Tag
}

// TaskDefListOutput lists the families, or the revisions of a single family
type TaskDefListOutput struct {
	Families  []string `json:",omitempty"`
	Revisions []string `json:",omitempty"`
}

// CreateTaskDef registers a new revision of a task definition family, tagged with the org.  If a
// cluster is given it's created (or reused) with the same tags.
func (o *Orchestrator) CreateTaskDef(ctx context.Context, input *TaskDefCreateOrchestrationInput) (*TaskDefCreateOrchestrationOutput, error) {
	if input == nil || input.TaskDefinition == nil {
		return nil, apierror.New(apierror.ErrBadRequest, "task definition is required", nil)
	}

	log.Debugf("got create task definition orchestration input object:\n %+v", input.TaskDefinition)

	ct, err := cleanTags(o.Org, input.Tags)
	if err != nil {
		return nil, err
	}

	output := &TaskDefCreateOrchestrationOutput{Tags: ct}

	if input.Cluster != nil {
		input.Cluster.Tags = ecsTags(ct)

		cluster, err := o.ECS.CreateCluster(ctx, input.Cluster)
		if err != nil {
			return nil, err
		}

		log.Debugf("created cluster %+v", cluster)
		output.Cluster = cluster
	}

	input.TaskDefinition.Tags = ecsTags(ct)

	td, err := o.ECS.CreateTaskDefinition(ctx, input.TaskDefinition)
	if err != nil {
		return nil, err
	}
	output.TaskDefinition = td

	log.Infof("created task definition %s", aws.StringValue(td.TaskDefinitionArn))

	return output, nil
}

// GetTaskDef gets a task definition by family, family:revision or ARN
func (o *Orchestrator) GetTaskDef(ctx context.Context, taskdef string) (*TaskDefShowOutput, error) {
	if taskdef == "" {
		return nil, apierror.New(apierror.ErrBadRequest, "task definition is required", nil)
	}

	log.Debugf("getting task definition %s", taskdef)

	td, tags, err := o.ECS.GetTaskDefinition(ctx, aws.String(taskdef))
	if err != nil {
		return nil, err
	}

	return &TaskDefShowOutput{
		TaskDefinition: td,
		Tags:           fromECSTags(tags),
	}, nil
}

// ListTaskDefs lists the task definition families or, if a family is given, its revisions
func (o *Orchestrator) ListTaskDefs(ctx context.Context, family string) (*TaskDefListOutput, error) {
	if family == "" {
		log.Info("listing task definition families")

		families, err := o.ECS.ListTaskDefinitionFamilies(ctx, "")
		if err != nil {
			return nil, err
		}

		return &TaskDefListOutput{Families: families}, nil
	}

	log.Infof("listing task definition revisions in family %s", family)

	revisions, err := o.ECS.ListTaskDefinitionRevisions(ctx, aws.String(family))
	if err != nil {
		return nil, err
	}

	return &TaskDefListOutput{Revisions: revisions}, nil
}
