package ecs

import (
	"context"
	"fmt"

	"github.com/YaleSpinup/apierror"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ecs"
	log "github.com/sirupsen/logrus"
)

// CreateCluster creates a cluster with context and name
func (e *ECS) CreateCluster(ctx context.Context, cluster *ecs.CreateClusterInput) (*ecs.Cluster, error) {
	if cluster == nil {
		return nil, apierror.New(apierror.ErrBadRequest, "invalid input", nil)
	}

	log.Debugf("creating cluster with input %+v", cluster)

	output, err := e.Service.CreateClusterWithContext(ctx, cluster)
	if err != nil {
		return nil, ErrCode("failed to create cluster", err)
	}
	return output.Cluster, err
}

// GetCluster gets the details of a cluster with context by the cluster name or ARN
func (e *ECS) GetCluster(ctx context.Context, name *string) (*ecs.Cluster, error) {
	if aws.StringValue(name) == "" {
		return nil, apierror.New(apierror.ErrBadRequest, "invalid input", nil)
	}

	output, err := e.Service.DescribeClustersWithContext(ctx, &ecs.DescribeClustersInput{
		Clusters: []*string{name},
		Include:  aws.StringSlice([]string{ecs.ClusterFieldTags}),
	})

	if err != nil {
		return nil, ErrCode("failed to get cluster", err)
	}

	if len(output.Failures) > 0 {
		log.Warnf("describe clusters %s returned failures %+v", aws.StringValue(name), output.Failures)
	}

	if len(output.Clusters) == 0 {
		msg := fmt.Sprintf("cluster %s not found", aws.StringValue(name))
		return nil, apierror.New(apierror.ErrNotFound, msg, nil)
	} else if len(output.Clusters) > 1 {
		return nil, apierror.New(apierror.ErrInternalError, "unexpected number of clusters returned", nil)
	}

	return output.Clusters[0], nil
}

// ListClusters lists the ARNs of all of the clusters
func (e *ECS) ListClusters(ctx context.Context) ([]string, error) {
	input := ecs.ListClustersInput{}

	output := []string{}
	for {
		out, err := e.Service.ListClustersWithContext(ctx, &input)
		if err != nil {
			return output, ErrCode("failed to list clusters", err)
		}

		output = append(output, aws.StringValueSlice(out.ClusterArns)...)

		if out.NextToken == nil {
			break
		}
		input.NextToken = out.NextToken
	}

	log.Debugf("listed clusters %+v", output)

	return output, nil
}
