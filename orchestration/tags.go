package orchestration

import (
	"context"
	"fmt"

	"github.com/YaleSpinup/apierror"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ecs"
)

// Tag is a key/value pair applied to simulated resources
type Tag struct {
	Key   *string
	Value *string
}

// ecsTags takes a slice of tags and converts them to ECS tags
func ecsTags(input []*Tag) []*ecs.Tag {
	et := make([]*ecs.Tag, len(input))
	for i, t := range input {
		et[i] = &ecs.Tag{Key: t.Key, Value: t.Value}
	}
	return et
}

// fromECSTags converts ECS tags to tags
func fromECSTags(input []*ecs.Tag) []*Tag {
	tags := make([]*Tag, len(input))
	for i, t := range input {
		tags[i] = &Tag{Key: t.Key, Value: t.Value}
	}
	return tags
}

// cleanTags cleanses the tags input and ensures spinup:org is set correctly
func cleanTags(org string, tags []*Tag) ([]*Tag, error) {
	cleanTags := []*Tag{
		{
			Key:   aws.String("spinup:org"),
			Value: aws.String(org),
		},
	}

	for _, t := range tags {
		if aws.StringValue(t.Key) != "spinup:org" && aws.StringValue(t.Key) != "yale:org" {
			cleanTags = append(cleanTags, &Tag{Key: t.Key, Value: t.Value})
			continue
		}

		if aws.StringValue(t.Value) != org {
			msg := fmt.Sprintf("not a part of our org (%s)", org)
			return nil, apierror.New(apierror.ErrBadRequest, msg, nil)
		}
	}

	return cleanTags, nil
}

// TagResource cleans the tags and applies them to a task definition, cluster or task
func (o *Orchestrator) TagResource(ctx context.Context, arn string, tags []*Tag) ([]*Tag, error) {
	if arn == "" {
		return nil, apierror.New(apierror.ErrBadRequest, "arn is required", nil)
	}

	ct, err := cleanTags(o.Org, tags)
	if err != nil {
		return nil, err
	}

	if err := o.ECS.TagResource(ctx, &ecs.TagResourceInput{
		ResourceArn: aws.String(arn),
		Tags:        ecsTags(ct),
	}); err != nil {
		return nil, err
	}

	return o.ListTags(ctx, arn)
}

// ListTags lists the tags of a task definition, cluster or task
func (o *Orchestrator) ListTags(ctx context.Context, arn string) ([]*Tag, error) {
	tags, err := o.ECS.ListTags(ctx, arn)
	if err != nil {
		return nil, err
	}

	return fromECSTags(tags), nil
}
