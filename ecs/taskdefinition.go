package ecs

import (
	"context"

	"github.com/YaleSpinup/apierror"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ecs"
	log "github.com/sirupsen/logrus"
)

// CreateTaskDefinition creates a task definition with context and input
func (e *ECS) CreateTaskDefinition(ctx context.Context, input *ecs.RegisterTaskDefinitionInput) (*ecs.TaskDefinition, error) {
	if input == nil || aws.StringValue(input.Family) == "" {
		return nil, apierror.New(apierror.ErrBadRequest, "invalid input", nil)
	}

	log.Infof("creating task definition in family %s", aws.StringValue(input.Family))

	output, err := e.Service.RegisterTaskDefinitionWithContext(ctx, input)
	if err != nil {
		return nil, ErrCode("failed to create task definition", err)
	}

	return output.TaskDefinition, err
}

// GetTaskDefinition gets a task definition with context by family, family:revision or ARN along
// with its tags
func (e *ECS) GetTaskDefinition(ctx context.Context, taskdefinition *string) (*ecs.TaskDefinition, []*ecs.Tag, error) {
	if aws.StringValue(taskdefinition) == "" {
		return nil, nil, apierror.New(apierror.ErrBadRequest, "invalid input", nil)
	}

	log.Debugf("getting details about task definition '%s'", aws.StringValue(taskdefinition))

	output, err := e.Service.DescribeTaskDefinitionWithContext(ctx, &ecs.DescribeTaskDefinitionInput{
		Include:        aws.StringSlice([]string{ecs.TaskDefinitionFieldTags}),
		TaskDefinition: taskdefinition,
	})

	if err != nil {
		return nil, nil, ErrCode("failed to get task definition", err)
	}

	return output.TaskDefinition, output.Tags, err
}

// ListTaskDefinitionRevisions lists all of the task definition [revisions] in a family
func (e *ECS) ListTaskDefinitionRevisions(ctx context.Context, family *string) ([]string, error) {
	if aws.StringValue(family) == "" {
		return nil, apierror.New(apierror.ErrBadRequest, "invalid input", nil)
	}

	log.Debugf("listing task definition revisions with family '%s'", aws.StringValue(family))

	input := ecs.ListTaskDefinitionsInput{
		FamilyPrefix: family,
	}

	output := []string{}
	for {
		out, err := e.Service.ListTaskDefinitionsWithContext(ctx, &input)
		if err != nil {
			return output, ErrCode("failed to list taskdefinitions in family "+aws.StringValue(family), err)
		}

		for _, t := range out.TaskDefinitionArns {
			output = append(output, aws.StringValue(t))
		}

		if out.NextToken == nil {
			break
		}
		input.NextToken = out.NextToken
	}

	log.Debugf("got list of task definitions in family '%s': %+v", aws.StringValue(family), output)

	return output, nil
}

// ListTaskDefinitionFamilies lists all of the task definition families beginning with the prefix
func (e *ECS) ListTaskDefinitionFamilies(ctx context.Context, prefix string) ([]string, error) {
	log.Debugf("listing task definition families with prefix '%s'", prefix)

	input := ecs.ListTaskDefinitionFamiliesInput{}
	if prefix != "" {
		input.FamilyPrefix = aws.String(prefix)
	}

	output := []string{}
	for {
		out, err := e.Service.ListTaskDefinitionFamiliesWithContext(ctx, &input)
		if err != nil {
			return output, ErrCode("failed to list taskdefinition families", err)
		}

		output = append(output, aws.StringValueSlice(out.Families)...)

		if out.NextToken == nil {
			break
		}
		input.NextToken = out.NextToken
	}

	return output, nil
}
