package ecs

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/YaleSpinup/apierror"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/arn"
	"github.com/aws/aws-sdk-go/service/ecs"
	log "github.com/sirupsen/logrus"
)

// RunTask runs tasks from a task definition
func (e *ECS) RunTask(ctx context.Context, input *ecs.RunTaskInput) ([]*ecs.Task, error) {
	if input == nil || aws.StringValue(input.TaskDefinition) == "" {
		return nil, apierror.New(apierror.ErrBadRequest, "invalid input", nil)
	}

	log.Infof("running %d task(s) from %s in cluster %s", aws.Int64Value(input.Count), aws.StringValue(input.TaskDefinition), aws.StringValue(input.Cluster))

	output, err := e.Service.RunTaskWithContext(ctx, input)
	if err != nil {
		return nil, ErrCode("failed to run task", err)
	}

	if len(output.Failures) > 0 {
		log.Warnf("run task %s returned failures %+v", aws.StringValue(input.TaskDefinition), output.Failures)
	}

	return output.Tasks, nil
}

// ListTasks collects all of the task ids in a cluster, optionally filtered by family and started by,
// with the given status(s)
func (e *ECS) ListTasks(ctx context.Context, cluster, family, startedBy string, status []string) ([]*string, error) {
	if cluster == "" {
		return nil, apierror.New(apierror.ErrBadRequest, "invalid input", nil)
	}

	// default to "RUNNING" status
	if status == nil {
		status = []string{"RUNNING"}
	}

	log.Infof("listing tasks in %s with status %s", cluster, strings.Join(status, ","))

	tasks := []*string{}
	for _, s := range status {
		input := ecs.ListTasksInput{
			Cluster:       aws.String(cluster),
			DesiredStatus: aws.String(s),
		}

		if family != "" {
			input.Family = aws.String(family)
		}

		if startedBy != "" {
			input.StartedBy = aws.String(startedBy)
		}

		for {
			output, err := e.Service.ListTasksWithContext(ctx, &input)
			if err != nil {
				msg := fmt.Sprintf("failed listing tasks for cluster %s with status %s", cluster, s)
				return tasks, ErrCode(msg, err)
			}

			for _, t := range output.TaskArns {
				taskArn, err := arn.Parse(aws.StringValue(t))
				if err != nil {
					msg := fmt.Sprintf("failed to parse '%s'", aws.StringValue(t))
					return tasks, ErrCode(msg, err)
				}

				// task resource is the form task/cluster/xxxxxxxxxxxxx
				r := strings.Split(taskArn.Resource, "/")
				tasks = append(tasks, aws.String(r[len(r)-1]))
			}

			if output.NextToken == nil {
				break
			}
			input.NextToken = output.NextToken
		}
	}

	return tasks, nil
}

// Task is an ECS task with the revision of its task definition
type Task struct {
	*ecs.Task
	Revision int64
}

// DescribeTasksOutput is the output of GetTasks
type DescribeTasksOutput struct {
	Failures []*ecs.Failure
	Tasks    []*Task
}

// GetTasks describes the given tasks in the give cluster
func (e *ECS) GetTasks(ctx context.Context, input *ecs.DescribeTasksInput) (*DescribeTasksOutput, error) {
	if input == nil || len(input.Tasks) == 0 {
		return nil, apierror.New(apierror.ErrBadRequest, "invalid input", nil)
	}

	log.Infof("getting cluster %s tasks %s", aws.StringValue(input.Cluster), strings.Join(aws.StringValueSlice(input.Tasks), ","))

	ecsOutput, err := e.Service.DescribeTasksWithContext(ctx, input)
	if err != nil {
		return nil, ErrCode("failed to describe tasks", err)
	}

	output := &DescribeTasksOutput{Failures: ecsOutput.Failures}
	tasks := make([]*Task, 0, len(ecsOutput.Tasks))
	for _, t := range ecsOutput.Tasks {
		tasks = append(tasks, &Task{
			Task:     t,
			Revision: Revision(aws.StringValue(t.TaskDefinitionArn)),
		})
	}
	output.Tasks = tasks

	return output, nil
}

// Revision parses the revision from a task definition ARN, returning 0 if it can't
func Revision(taskDefinitionArn string) int64 {
	tdArn, err := arn.Parse(taskDefinitionArn)
	if err != nil {
		log.Errorf("failed to parse taskdefinition ARN: '%s': %s", taskDefinitionArn, err)
		return 0
	}

	ss := strings.Split(tdArn.Resource, ":")
	if len(ss) < 2 {
		return 0
	}

	s := ss[len(ss)-1]
	revision, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.Errorf("failed to parse revision '%s' as number for arn resource '%s': %s", s, tdArn.Resource, err)
		return 0
	}

	return revision
}
