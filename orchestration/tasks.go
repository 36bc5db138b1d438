package orchestration

import (
	"context"

	"github.com/YaleSpinup/apierror"
	ecsapi "github.com/YaleSpinup/ecs-sim/ecs"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ecs"
	log "github.com/sirupsen/logrus"
)

// Task is a simulated task with the revision of its task definition
type Task struct {
	*ecs.Task
	Revision int64
}

// TaskOutput is the output payload for running and describing tasks
type TaskOutput struct {
	Tasks    []*Task
	Failures []*ecs.Failure
}

// RunTaskInput is the input payload for running tasks
type RunTaskInput struct {
	Task *ecs.RunTaskInput
	Tags []*Tag
}

// RunTask launches tasks from a task definition in the given cluster.  Tasks from an awsvpc task definition
// without a network configuration get one from the default subnets and security groups.
func (o *Orchestrator) RunTask(ctx context.Context, cluster string, input *RunTaskInput) (*TaskOutput, error) {
	if input == nil || input.Task == nil {
		return nil, apierror.New(apierror.ErrBadRequest, "task is required", nil)
	}

	if cluster != "" {
		input.Task.Cluster = aws.String(cluster)
	}

	ct, err := cleanTags(o.Org, input.Tags)
	if err != nil {
		return nil, err
	}
	input.Task.Tags = ecsTags(ct)

	if input.Task.NetworkConfiguration == nil && aws.StringValue(input.Task.TaskDefinition) != "" {
		td, _, err := o.ECS.GetTaskDefinition(ctx, input.Task.TaskDefinition)
		if err != nil {
			return nil, err
		}

		if aws.StringValue(td.NetworkMode) == ecs.NetworkModeAwsvpc && len(o.DefaultSubnets) > 0 {
			log.Debugf("using default network configuration for task definition %s", aws.StringValue(td.TaskDefinitionArn))

			input.Task.NetworkConfiguration = &ecs.NetworkConfiguration{
				AwsvpcConfiguration: &ecs.AwsVpcConfiguration{
					AssignPublicIp: aws.String(ecs.AssignPublicIpDisabled),
					SecurityGroups: aws.StringSlice(o.DefaultSecurityGroups),
					Subnets:        aws.StringSlice(o.DefaultSubnets),
				},
			}
		}
	}

	tasks, err := o.ECS.RunTask(ctx, input.Task)
	if err != nil {
		return nil, err
	}

	return toTaskOutput(tasks, nil)
}

// GetTask describes a single task in a cluster
func (o *Orchestrator) GetTask(ctx context.Context, cluster, task string) (*TaskOutput, error) {
	if task == "" {
		return nil, apierror.New(apierror.ErrBadRequest, "task cannot be empty", nil)
	}

	out, err := o.ECS.GetTasks(ctx, &ecs.DescribeTasksInput{
		Cluster: aws.String(cluster),
		Include: aws.StringSlice([]string{ecs.TaskFieldTags}),
		Tasks:   aws.StringSlice([]string{task}),
	})
	if err != nil {
		return nil, err
	}

	if len(out.Tasks) == 0 {
		return nil, apierror.New(apierror.ErrNotFound, "task not found", nil)
	}

	tasks := make([]*Task, 0, len(out.Tasks))
	for _, t := range out.Tasks {
		tasks = append(tasks, &Task{Task: t.Task, Revision: t.Revision})
	}

	return &TaskOutput{Tasks: tasks, Failures: out.Failures}, nil
}

// ListTasks lists the task ids in a cluster, optionally filtered by family, started by and status(s)
func (o *Orchestrator) ListTasks(ctx context.Context, cluster, family, startedBy string, status []string) ([]string, error) {
	tasks, err := o.ECS.ListTasks(ctx, cluster, family, startedBy, status)
	if err != nil {
		return nil, err
	}

	return aws.StringValueSlice(tasks), nil
}

// toTaskOutput adds the revision to the tasks
func toTaskOutput(tasks []*ecs.Task, failures []*ecs.Failure) (*TaskOutput, error) {
	output := &TaskOutput{Failures: failures}
	ts := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		ts = append(ts, &Task{
			Task:     t,
			Revision: ecsapi.Revision(aws.StringValue(t.TaskDefinitionArn)),
		})
	}
	output.Tasks = ts

	log.Debugf("returning output from tasks: %+v", output)

	return output, nil
}
