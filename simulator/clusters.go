package simulator

import (
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awsutil"
	"github.com/aws/aws-sdk-go/service/ecs"
	log "github.com/sirupsen/logrus"
)

const clusterStatusActive = "ACTIVE"

// clusterRegistry maps cluster names to clusters.  Clusters are created on first reference.
type clusterRegistry struct {
	arns        arnBuilder
	defaultName string
	mu          sync.RWMutex
	clusters    map[string]*ecs.Cluster
}

func newClusterRegistry(arns arnBuilder, defaultName string) *clusterRegistry {
	return &clusterRegistry{
		arns:        arns,
		defaultName: defaultName,
		clusters:    make(map[string]*ecs.Cluster),
	}
}

// name returns the cluster name for a reference, which may be empty, a name or a cluster ARN
func (r *clusterRegistry) name(reference *string) string {
	ref := aws.StringValue(reference)
	if ref == "" {
		return r.defaultName
	}

	if name, ok := parseResource(ref, resourceCluster); ok {
		return name
	}

	return ref
}

// resolve returns a copy of the referenced cluster, creating it if it doesn't exist
func (r *clusterRegistry) resolve(reference *string) *ecs.Cluster {
	name := r.name(reference)

	r.mu.RLock()
	c, ok := r.clusters[name]
	if ok {
		defer r.mu.RUnlock()
		return copyCluster(c)
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok = r.clusters[name]; !ok {
		c = &ecs.Cluster{
			ActiveServicesCount:               aws.Int64(0),
			ClusterArn:                        aws.String(r.arns.clusterARN(name)),
			ClusterName:                       aws.String(name),
			PendingTasksCount:                 aws.Int64(0),
			RegisteredContainerInstancesCount: aws.Int64(0),
			RunningTasksCount:                 aws.Int64(0),
			Status:                            aws.String(clusterStatusActive),
		}
		r.clusters[name] = c

		log.Infof("created cluster %s", aws.StringValue(c.ClusterArn))
	}

	return copyCluster(c)
}

// lookup returns a copy of the referenced cluster without creating it
func (r *clusterRegistry) lookup(reference *string) (*ecs.Cluster, bool) {
	name := r.name(reference)

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clusters[name]
	if !ok {
		return nil, false
	}
	return copyCluster(c), true
}

// addRunningTasks increments the running task count of an existing cluster
func (r *clusterRegistry) addRunningTasks(name string, n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clusters[name]; ok {
		c.RunningTasksCount = aws.Int64(aws.Int64Value(c.RunningTasksCount) + n)
	}
}

// describe returns the clusters for the references along with a MISSING failure for each
// reference that doesn't exist.  No references describes the default cluster.
func (r *clusterRegistry) describe(references []*string) ([]*ecs.Cluster, []*ecs.Failure) {
	if len(references) == 0 {
		references = []*string{aws.String(r.defaultName)}
	}

	clusters := []*ecs.Cluster{}
	failures := []*ecs.Failure{}
	for _, ref := range references {
		c, ok := r.lookup(ref)
		if !ok {
			failures = append(failures, &ecs.Failure{
				Arn:    aws.String(r.arns.clusterARN(r.name(ref))),
				Reason: aws.String("MISSING"),
			})
			continue
		}
		clusters = append(clusters, c)
	}

	return clusters, failures
}

// list returns the sorted cluster ARNs
func (r *clusterRegistry) list() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	arns := make([]string, 0, len(r.clusters))
	for _, c := range r.clusters {
		arns = append(arns, aws.StringValue(c.ClusterArn))
	}
	sort.Strings(arns)
	return arns
}

func copyCluster(c *ecs.Cluster) *ecs.Cluster {
	o := &ecs.Cluster{}
	awsutil.Copy(o, c)
	return o
}
