package ecs

import (
	"context"

	"github.com/YaleSpinup/apierror"
	"github.com/YaleSpinup/ecs-sim/common"
	"github.com/YaleSpinup/ecs-sim/simulator"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ecs"
	"github.com/aws/aws-sdk-go/service/ecs/ecsiface"
	log "github.com/sirupsen/logrus"
)

// ECS is a wrapper around an ECS API with some default config info
type ECS struct {
	Service        ecsiface.ECSAPI
	DefaultSgs     []string
	DefaultSubnets []string
}

// NewSession creates a new ECS session backed by a simulator for the account
func NewSession(account common.Account) ECS {
	e := ECS{}
	log.Infof("creating new simulated session for account %s in region %s", account.AccountID, account.Region)

	e.Service = simulator.New(simulator.Config{
		Partition:      account.Partition,
		Region:         account.Region,
		AccountID:      account.AccountID,
		DefaultCluster: account.DefaultCluster,
	})

	e.DefaultSgs = account.DefaultSgs
	e.DefaultSubnets = account.DefaultSubnets

	return e
}

// ListTags returns the list of tags for any ECS resource
func (e *ECS) ListTags(ctx context.Context, arn string) ([]*ecs.Tag, error) {
	if arn == "" {
		return nil, apierror.New(apierror.ErrBadRequest, "invalid input", nil)
	}

	input := ecs.ListTagsForResourceInput{
		ResourceArn: aws.String(arn),
	}

	output, err := e.Service.ListTagsForResourceWithContext(ctx, &input)
	if err != nil {
		return nil, ErrCode("failed to list tags for ecs resource", err)
	}

	log.Debugf("got list of tags for arn '%s': %+v", arn, output)

	return output.Tags, nil
}

// TagResource adds tags to any ECS resource
func (e *ECS) TagResource(ctx context.Context, input *ecs.TagResourceInput) error {
	if input == nil || aws.StringValue(input.ResourceArn) == "" {
		return apierror.New(apierror.ErrBadRequest, "invalid input", nil)
	}

	log.Infof("tagging ecs resource %s", aws.StringValue(input.ResourceArn))

	if _, err := e.Service.TagResourceWithContext(ctx, input); err != nil {
		return ErrCode("failed to tag resource", err)
	}

	log.Debugf("tagged resource with input %+v", input)
	return nil
}
