package simulator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go/aws/arn"
	"github.com/aws/aws-sdk-go/service/ecs"
	"github.com/google/uuid"
)

const (
	resourceTaskDefinition = "task-definition"
	resourceCluster        = "cluster"
	resourceTask           = "task"
	resourceContainer      = "container"
)

// arnBuilder generates the ARNs for the resources of a single simulated account and region
type arnBuilder struct {
	partition string
	region    string
	accountID string
}

func (b arnBuilder) build(resourceType, name string) string {
	return arn.ARN{
		Partition: b.partition,
		Service:   ecs.ServiceName,
		Region:    b.region,
		AccountID: b.accountID,
		Resource:  resourceType + "/" + name,
	}.String()
}

// taskDefinitionARN is deterministic for a family and revision
func (b arnBuilder) taskDefinitionARN(family string, revision int64) string {
	return b.build(resourceTaskDefinition, fmt.Sprintf("%s:%d", family, revision))
}

func (b arnBuilder) clusterARN(name string) string {
	return b.build(resourceCluster, name)
}

// taskARN returns a new, unique task ARN in the long format along with the task id
func (b arnBuilder) taskARN(cluster string) (string, string) {
	id := newID()
	return b.build(resourceTask, cluster+"/"+id), id
}

func (b arnBuilder) containerARN(cluster, taskID string) string {
	return b.build(resourceContainer, cluster+"/"+taskID+"/"+newID())
}

// newID generates a random identifier for tasks, containers and attachments
func newID() string {
	return uuid.New().String()
}

// parseResource returns the name portion of an ECS ARN with the given resource type
func parseResource(s, resourceType string) (string, bool) {
	if !arn.IsARN(s) {
		return "", false
	}

	a, err := arn.Parse(s)
	if err != nil || a.Service != ecs.ServiceName {
		return "", false
	}

	prefix := resourceType + "/"
	if !strings.HasPrefix(a.Resource, prefix) {
		return "", false
	}

	return strings.TrimPrefix(a.Resource, prefix), true
}

// splitRevision splits a "family:revision" reference.  If there is no revision, ok is false.
func splitRevision(ref string) (family string, revision int64, ok bool, err error) {
	parts := strings.SplitN(ref, ":", 2)
	if len(parts) == 1 {
		return parts[0], 0, false, nil
	}

	revision, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return parts[0], 0, true, err
	}

	return parts[0], revision, true, nil
}

// taskID returns the last element of a task ARN resource, or the reference itself if it isn't an ARN
func taskID(ref string) string {
	name, ok := parseResource(ref, resourceTask)
	if !ok {
		return ref
	}

	ss := strings.Split(name, "/")
	return ss[len(ss)-1]
}
