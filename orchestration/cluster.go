package orchestration

import (
	"context"
	"fmt"
	"strings"

	"github.com/YaleSpinup/apierror"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/arn"
	"github.com/aws/aws-sdk-go/service/ecs"
	log "github.com/sirupsen/logrus"
)

// ClusterOutput is the output payload for a cluster
type ClusterOutput struct {
	Cluster *ecs.Cluster
	Tags    []*Tag
}

// CreateClusterInput is the input payload for creating a cluster
type CreateClusterInput struct {
	Name string
	Tags []*Tag
}

// CreateCluster creates a cluster tagged with the org.  Creating a cluster that already exists returns it.
func (o *Orchestrator) CreateCluster(ctx context.Context, input *CreateClusterInput) (*ClusterOutput, error) {
	if input == nil || input.Name == "" {
		return nil, apierror.New(apierror.ErrBadRequest, "cluster name is required", nil)
	}

	ct, err := cleanTags(o.Org, input.Tags)
	if err != nil {
		return nil, err
	}

	log.Infof("creating cluster %s", input.Name)

	cluster, err := o.ECS.CreateCluster(ctx, &ecs.CreateClusterInput{
		ClusterName: aws.String(input.Name),
		Tags:        ecsTags(ct),
	})
	if err != nil {
		return nil, err
	}

	return &ClusterOutput{Cluster: cluster, Tags: fromECSTags(cluster.Tags)}, nil
}

// GetCluster gets a cluster by name or ARN
func (o *Orchestrator) GetCluster(ctx context.Context, name string) (*ClusterOutput, error) {
	cluster, err := o.ECS.GetCluster(ctx, aws.String(name))
	if err != nil {
		return nil, err
	}

	log.Debugf("got cluster %+v", cluster)

	return &ClusterOutput{Cluster: cluster, Tags: fromECSTags(cluster.Tags)}, nil
}

// ListClusters lists the names of all of the clusters
func (o *Orchestrator) ListClusters(ctx context.Context) ([]string, error) {
	arns, err := o.ECS.ListClusters(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(arns))
	for _, a := range arns {
		r, err := parseResourceName(a)
		if err != nil {
			return nil, err
		}
		names = append(names, r)
	}

	return names, nil
}

// parseResourceName returns the name portion of an arn resource in the form type/name
func parseResourceName(a string) (string, error) {
	ra, err := arn.Parse(a)
	if err != nil {
		msg := fmt.Sprintf("failed to parse arn '%s'", a)
		return "", apierror.New(apierror.ErrInternalError, msg, err)
	}

	r := strings.SplitN(ra.Resource, "/", 2)
	return r[len(r)-1], nil
}
