// Package simulator is a deterministic, in-memory simulation of the ECS control plane.  It
// implements the parts of ecsiface.ECSAPI needed to register and describe task definitions
// and to run tasks, so client code written against the AWS SDK can be tested without AWS.
//
// Each Simulator owns its own state, so independent simulators can be used side by side.
package simulator

import (
	"fmt"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ecs"
	"github.com/aws/aws-sdk-go/service/ecs/ecsiface"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultPartition is the partition used in ARNs when none is configured
	DefaultPartition = "aws"
	// DefaultRegion is the region used in ARNs when none is configured
	DefaultRegion = "us-east-1"
	// DefaultAccountID is the account id used in ARNs when none is configured
	DefaultAccountID = "123456789012"
	// DefaultCluster is the name of the cluster used when a request doesn't reference one
	DefaultCluster = "default"
	// MaxRunTaskCount is the most tasks a single RunTask call can start
	MaxRunTaskCount = 10
)

var _ ecsiface.ECSAPI = (*Simulator)(nil)

// Config is the configuration of a simulator
type Config struct {
	Partition      string
	Region         string
	AccountID      string
	DefaultCluster string
}

// Simulator is an in-process ECS API.  Calls to ECS operations that aren't simulated are
// passed to the embedded ECSAPI, which is nil (and will panic) unless it's set.
type Simulator struct {
	ecsiface.ECSAPI

	arns            arnBuilder
	taskDefinitions *taskDefinitionRegistry
	clusters        *clusterRegistry
	tasks           *taskStore
	tags            *tagStore
	now             func() time.Time
}

// New creates a new, empty simulator
func New(config Config) *Simulator {
	if config.Partition == "" {
		config.Partition = DefaultPartition
	}

	if config.Region == "" {
		config.Region = DefaultRegion
	}

	if config.AccountID == "" {
		config.AccountID = DefaultAccountID
	}

	if config.DefaultCluster == "" {
		config.DefaultCluster = DefaultCluster
	}

	log.Infof("creating new ecs simulator for account %s in region %s", config.AccountID, config.Region)

	arns := arnBuilder{
		partition: config.Partition,
		region:    config.Region,
		accountID: config.AccountID,
	}

	return &Simulator{
		arns:            arns,
		taskDefinitions: newTaskDefinitionRegistry(arns),
		clusters:        newClusterRegistry(arns, config.DefaultCluster),
		tasks:           newTaskStore(),
		tags:            newTagStore(),
		now:             time.Now,
	}
}

// ClusterARN returns the ARN a cluster with the given name has (or will have) in this simulator
func (s *Simulator) ClusterARN(name string) string {
	return s.arns.clusterARN(name)
}

// fail records a failed operation and returns the error
func (s *Simulator) fail(operation string, err error) error {
	requestErrors.WithLabelValues(operation, errorCode(err)).Inc()
	log.Debugf("%s failed: %s", operation, err)
	return err
}

// RegisterTaskDefinition registers a new revision of a task definition family
func (s *Simulator) RegisterTaskDefinition(input *ecs.RegisterTaskDefinitionInput) (*ecs.RegisterTaskDefinitionOutput, error) {
	return s.RegisterTaskDefinitionWithContext(aws.BackgroundContext(), input)
}

// RegisterTaskDefinitionWithContext registers a new revision of a task definition family.  The
// container definitions are stored as given.
func (s *Simulator) RegisterTaskDefinitionWithContext(ctx aws.Context, input *ecs.RegisterTaskDefinitionInput, opts ...request.Option) (*ecs.RegisterTaskDefinitionOutput, error) {
	const op = "RegisterTaskDefinition"

	if input == nil {
		return nil, s.fail(op, invalidParameter("invalid input"))
	}

	if err := input.Validate(); err != nil {
		return nil, s.fail(op, invalidParameter(err.Error()))
	}

	if aws.StringValue(input.Family) == "" {
		return nil, s.fail(op, invalidParameter("family cannot be empty"))
	}

	if !validFamily.MatchString(aws.StringValue(input.Family)) {
		msg := fmt.Sprintf("invalid family %s, up to 255 letters, numbers, hyphens and underscores are allowed", aws.StringValue(input.Family))
		return nil, s.fail(op, invalidParameter(msg))
	}

	if mode := aws.StringValue(input.NetworkMode); mode != "" && !validNetworkMode(mode) {
		return nil, s.fail(op, invalidParameter(fmt.Sprintf("invalid network mode %s", mode)))
	}

	log.Debugf("registering task definition with input %+v", input)

	td := s.taskDefinitions.register(input, s.now())
	taskDefinitionsRegistered.Inc()

	arn := aws.StringValue(td.TaskDefinitionArn)
	s.tags.tag(arn, input.Tags)

	return &ecs.RegisterTaskDefinitionOutput{
		TaskDefinition: td,
		Tags:           s.tags.list(arn),
	}, nil
}

var validFamily = regexp.MustCompile(`^[A-Za-z0-9_-]{1,255}$`)

func validNetworkMode(mode string) bool {
	switch mode {
	case ecs.NetworkModeBridge, ecs.NetworkModeAwsvpc, ecs.NetworkModeHost, ecs.NetworkModeNone:
		return true
	}
	return false
}

// DescribeTaskDefinition describes a task definition by family, family:revision or ARN
func (s *Simulator) DescribeTaskDefinition(input *ecs.DescribeTaskDefinitionInput) (*ecs.DescribeTaskDefinitionOutput, error) {
	return s.DescribeTaskDefinitionWithContext(aws.BackgroundContext(), input)
}

// DescribeTaskDefinitionWithContext describes a task definition by family (the latest revision),
// family:revision or ARN
func (s *Simulator) DescribeTaskDefinitionWithContext(ctx aws.Context, input *ecs.DescribeTaskDefinitionInput, opts ...request.Option) (*ecs.DescribeTaskDefinitionOutput, error) {
	const op = "DescribeTaskDefinition"

	if input == nil {
		return nil, s.fail(op, invalidParameter("invalid input"))
	}

	if err := input.Validate(); err != nil {
		return nil, s.fail(op, invalidParameter(err.Error()))
	}

	td, err := s.taskDefinitions.describe(aws.StringValue(input.TaskDefinition))
	if err != nil {
		return nil, s.fail(op, err)
	}

	output := &ecs.DescribeTaskDefinitionOutput{TaskDefinition: td}
	if includes(input.Include, ecs.TaskDefinitionFieldTags) {
		output.Tags = s.tags.list(aws.StringValue(td.TaskDefinitionArn))
	}

	return output, nil
}

// ListTaskDefinitions lists task definition ARNs
func (s *Simulator) ListTaskDefinitions(input *ecs.ListTaskDefinitionsInput) (*ecs.ListTaskDefinitionsOutput, error) {
	return s.ListTaskDefinitionsWithContext(aws.BackgroundContext(), input)
}

// ListTaskDefinitionsWithContext lists task definition ARNs, optionally filtered by family prefix.
// Simulated task definitions are never deregistered so an INACTIVE status lists nothing.
func (s *Simulator) ListTaskDefinitionsWithContext(ctx aws.Context, input *ecs.ListTaskDefinitionsInput, opts ...request.Option) (*ecs.ListTaskDefinitionsOutput, error) {
	const op = "ListTaskDefinitions"

	if input == nil {
		input = &ecs.ListTaskDefinitionsInput{}
	}

	arns := []string{}
	if status := aws.StringValue(input.Status); status == "" || status == ecs.TaskDefinitionStatusActive {
		arns = s.taskDefinitions.list(aws.StringValue(input.FamilyPrefix), aws.StringValue(input.Sort) == ecs.SortOrderDesc)
	}

	page, next, err := paginate(arns, input.NextToken, input.MaxResults)
	if err != nil {
		return nil, s.fail(op, err)
	}

	return &ecs.ListTaskDefinitionsOutput{
		NextToken:          next,
		TaskDefinitionArns: page,
	}, nil
}

// ListTaskDefinitionFamilies lists task definition families
func (s *Simulator) ListTaskDefinitionFamilies(input *ecs.ListTaskDefinitionFamiliesInput) (*ecs.ListTaskDefinitionFamiliesOutput, error) {
	return s.ListTaskDefinitionFamiliesWithContext(aws.BackgroundContext(), input)
}

// ListTaskDefinitionFamiliesWithContext lists task definition families, optionally filtered by prefix
func (s *Simulator) ListTaskDefinitionFamiliesWithContext(ctx aws.Context, input *ecs.ListTaskDefinitionFamiliesInput, opts ...request.Option) (*ecs.ListTaskDefinitionFamiliesOutput, error) {
	const op = "ListTaskDefinitionFamilies"

	if input == nil {
		input = &ecs.ListTaskDefinitionFamiliesInput{}
	}

	families := []string{}
	if status := aws.StringValue(input.Status); status != ecs.TaskDefinitionFamilyStatusInactive {
		families = s.taskDefinitions.familyNames(aws.StringValue(input.FamilyPrefix))
	}

	page, next, err := paginate(families, input.NextToken, input.MaxResults)
	if err != nil {
		return nil, s.fail(op, err)
	}

	return &ecs.ListTaskDefinitionFamiliesOutput{
		Families:  page,
		NextToken: next,
	}, nil
}

// RunTask runs tasks from a task definition
func (s *Simulator) RunTask(input *ecs.RunTaskInput) (*ecs.RunTaskOutput, error) {
	return s.RunTaskWithContext(aws.BackgroundContext(), input)
}

// RunTaskWithContext launches Count (default 1) tasks from a task definition into a cluster, the
// default cluster if none is given.  Task definitions with the awsvpc network mode require a
// network configuration with at least one subnet and get one attachment per subnet.  Once the
// input is validated every requested task is created.
func (s *Simulator) RunTaskWithContext(ctx aws.Context, input *ecs.RunTaskInput, opts ...request.Option) (*ecs.RunTaskOutput, error) {
	const op = "RunTask"

	if input == nil {
		return nil, s.fail(op, invalidParameter("invalid input"))
	}

	if err := input.Validate(); err != nil {
		return nil, s.fail(op, invalidParameter(err.Error()))
	}

	if aws.StringValue(input.TaskDefinition) == "" {
		return nil, s.fail(op, invalidParameter("taskDefinition cannot be empty"))
	}

	td, err := s.taskDefinitions.describe(aws.StringValue(input.TaskDefinition))
	if err != nil {
		return nil, s.fail(op, err)
	}

	subnets, err := awsvpcSubnets(td, input.NetworkConfiguration)
	if err != nil {
		return nil, s.fail(op, err)
	}

	count := int64(1)
	if input.Count != nil {
		count = aws.Int64Value(input.Count)
		if count < 1 || count > MaxRunTaskCount {
			return nil, s.fail(op, invalidParameter(fmt.Sprintf("count must be between 1 and %d", MaxRunTaskCount)))
		}
	}

	cluster := s.clusters.resolve(input.Cluster)

	log.Debugf("running %d task(s) from %s in cluster %s", count, aws.StringValue(td.TaskDefinitionArn), aws.StringValue(cluster.ClusterArn))

	now := s.now()
	tasks := make([]*ecs.Task, 0, count)
	for i := int64(0); i < count; i++ {
		t := newTask(s.arns, td, cluster, input, subnets, now)
		s.tags.tag(aws.StringValue(t.TaskArn), input.Tags)
		if len(input.Tags) > 0 {
			t.Tags = s.tags.list(aws.StringValue(t.TaskArn))
		}
		tasks = append(tasks, t)
	}

	out := s.tasks.add(tasks)
	s.clusters.addRunningTasks(aws.StringValue(cluster.ClusterName), count)
	tasksLaunched.WithLabelValues(aws.StringValue(td.NetworkMode)).Add(float64(count))

	log.Infof("started %d task(s) from %s in cluster %s", count, aws.StringValue(td.TaskDefinitionArn), aws.StringValue(cluster.ClusterName))

	return &ecs.RunTaskOutput{
		Failures: []*ecs.Failure{},
		Tasks:    out,
	}, nil
}

// DescribeTasks describes tasks in a cluster
func (s *Simulator) DescribeTasks(input *ecs.DescribeTasksInput) (*ecs.DescribeTasksOutput, error) {
	return s.DescribeTasksWithContext(aws.BackgroundContext(), input)
}

// DescribeTasksWithContext describes tasks, by ARN or id, in a cluster.  Tasks that don't exist in
// the cluster are returned as MISSING failures.
func (s *Simulator) DescribeTasksWithContext(ctx aws.Context, input *ecs.DescribeTasksInput, opts ...request.Option) (*ecs.DescribeTasksOutput, error) {
	const op = "DescribeTasks"

	if input == nil {
		return nil, s.fail(op, invalidParameter("invalid input"))
	}

	if err := input.Validate(); err != nil {
		return nil, s.fail(op, invalidParameter(err.Error()))
	}

	cluster, ok := s.clusters.lookup(input.Cluster)
	if !ok {
		return nil, s.fail(op, clusterNotFound(fmt.Sprintf("cluster %s not found", s.clusters.name(input.Cluster))))
	}

	clusterARN := aws.StringValue(cluster.ClusterArn)
	withTags := includes(input.Include, ecs.TaskFieldTags)

	output := &ecs.DescribeTasksOutput{
		Failures: []*ecs.Failure{},
		Tasks:    []*ecs.Task{},
	}

	for _, ref := range input.Tasks {
		t, ok := s.tasks.get(clusterARN, aws.StringValue(ref))
		if !ok {
			output.Failures = append(output.Failures, &ecs.Failure{
				Arn:    ref,
				Reason: aws.String("MISSING"),
			})
			continue
		}

		if withTags {
			t.Tags = s.tags.list(aws.StringValue(t.TaskArn))
		} else {
			t.Tags = nil
		}
		output.Tasks = append(output.Tasks, t)
	}

	return output, nil
}

// ListTasks lists the tasks in a cluster
func (s *Simulator) ListTasks(input *ecs.ListTasksInput) (*ecs.ListTasksOutput, error) {
	return s.ListTasksWithContext(aws.BackgroundContext(), input)
}

// ListTasksWithContext lists task ARNs in a cluster, filtered by family, desired status, launch
// type and started by
func (s *Simulator) ListTasksWithContext(ctx aws.Context, input *ecs.ListTasksInput, opts ...request.Option) (*ecs.ListTasksOutput, error) {
	const op = "ListTasks"

	if input == nil {
		input = &ecs.ListTasksInput{}
	}

	cluster, ok := s.clusters.lookup(input.Cluster)
	if !ok {
		return nil, s.fail(op, clusterNotFound(fmt.Sprintf("cluster %s not found", s.clusters.name(input.Cluster))))
	}

	// ECS lists RUNNING tasks when the desired status isn't set
	status := aws.StringValue(input.DesiredStatus)
	if status == "" {
		status = TaskStatusRunning
	}

	arns := s.tasks.list(taskFilter{
		clusterARN:    aws.StringValue(cluster.ClusterArn),
		family:        aws.StringValue(input.Family),
		startedBy:     aws.StringValue(input.StartedBy),
		launchType:    aws.StringValue(input.LaunchType),
		desiredStatus: status,
		serviceName:   aws.StringValue(input.ServiceName),
	})

	page, next, err := paginate(arns, input.NextToken, input.MaxResults)
	if err != nil {
		return nil, s.fail(op, err)
	}

	return &ecs.ListTasksOutput{
		NextToken: next,
		TaskArns:  page,
	}, nil
}

// CreateCluster creates a cluster
func (s *Simulator) CreateCluster(input *ecs.CreateClusterInput) (*ecs.CreateClusterOutput, error) {
	return s.CreateClusterWithContext(aws.BackgroundContext(), input)
}

// CreateClusterWithContext creates a cluster, or returns it if it already exists.  Without a name
// the default cluster is created.
func (s *Simulator) CreateClusterWithContext(ctx aws.Context, input *ecs.CreateClusterInput, opts ...request.Option) (*ecs.CreateClusterOutput, error) {
	if input == nil {
		input = &ecs.CreateClusterInput{}
	}

	cluster := s.clusters.resolve(input.ClusterName)

	arn := aws.StringValue(cluster.ClusterArn)
	s.tags.tag(arn, input.Tags)
	if len(input.Tags) > 0 {
		cluster.Tags = s.tags.list(arn)
	}

	return &ecs.CreateClusterOutput{Cluster: cluster}, nil
}

// DescribeClusters describes clusters
func (s *Simulator) DescribeClusters(input *ecs.DescribeClustersInput) (*ecs.DescribeClustersOutput, error) {
	return s.DescribeClustersWithContext(aws.BackgroundContext(), input)
}

// DescribeClustersWithContext describes clusters by name or ARN.  Clusters that don't exist are
// returned as MISSING failures.
func (s *Simulator) DescribeClustersWithContext(ctx aws.Context, input *ecs.DescribeClustersInput, opts ...request.Option) (*ecs.DescribeClustersOutput, error) {
	if input == nil {
		input = &ecs.DescribeClustersInput{}
	}

	clusters, failures := s.clusters.describe(input.Clusters)
	if includes(input.Include, ecs.ClusterFieldTags) {
		for _, c := range clusters {
			c.Tags = s.tags.list(aws.StringValue(c.ClusterArn))
		}
	}

	return &ecs.DescribeClustersOutput{
		Clusters: clusters,
		Failures: failures,
	}, nil
}

// ListClusters lists cluster ARNs
func (s *Simulator) ListClusters(input *ecs.ListClustersInput) (*ecs.ListClustersOutput, error) {
	return s.ListClustersWithContext(aws.BackgroundContext(), input)
}

// ListClustersWithContext lists cluster ARNs
func (s *Simulator) ListClustersWithContext(ctx aws.Context, input *ecs.ListClustersInput, opts ...request.Option) (*ecs.ListClustersOutput, error) {
	const op = "ListClusters"

	if input == nil {
		input = &ecs.ListClustersInput{}
	}

	page, next, err := paginate(s.clusters.list(), input.NextToken, input.MaxResults)
	if err != nil {
		return nil, s.fail(op, err)
	}

	return &ecs.ListClustersOutput{
		ClusterArns: page,
		NextToken:   next,
	}, nil
}

// TagResource tags a resource
func (s *Simulator) TagResource(input *ecs.TagResourceInput) (*ecs.TagResourceOutput, error) {
	return s.TagResourceWithContext(aws.BackgroundContext(), input)
}

// TagResourceWithContext tags a task definition, cluster or task by ARN
func (s *Simulator) TagResourceWithContext(ctx aws.Context, input *ecs.TagResourceInput, opts ...request.Option) (*ecs.TagResourceOutput, error) {
	const op = "TagResource"

	if input == nil {
		return nil, s.fail(op, invalidParameter("invalid input"))
	}

	if err := input.Validate(); err != nil {
		return nil, s.fail(op, invalidParameter(err.Error()))
	}

	arn := aws.StringValue(input.ResourceArn)
	if !s.exists(arn) {
		return nil, s.fail(op, notFound(fmt.Sprintf("resource %s not found", arn)))
	}

	log.Infof("tagging ecs resource %s", arn)
	s.tags.tag(arn, input.Tags)

	return &ecs.TagResourceOutput{}, nil
}

// ListTagsForResource lists the tags of a resource
func (s *Simulator) ListTagsForResource(input *ecs.ListTagsForResourceInput) (*ecs.ListTagsForResourceOutput, error) {
	return s.ListTagsForResourceWithContext(aws.BackgroundContext(), input)
}

// ListTagsForResourceWithContext lists the tags of a task definition, cluster or task by ARN
func (s *Simulator) ListTagsForResourceWithContext(ctx aws.Context, input *ecs.ListTagsForResourceInput, opts ...request.Option) (*ecs.ListTagsForResourceOutput, error) {
	const op = "ListTagsForResource"

	if input == nil {
		return nil, s.fail(op, invalidParameter("invalid input"))
	}

	if err := input.Validate(); err != nil {
		return nil, s.fail(op, invalidParameter(err.Error()))
	}

	arn := aws.StringValue(input.ResourceArn)
	if !s.exists(arn) {
		return nil, s.fail(op, notFound(fmt.Sprintf("resource %s not found", arn)))
	}

	return &ecs.ListTagsForResourceOutput{Tags: s.tags.list(arn)}, nil
}

// exists returns true if the ARN is a task definition, cluster or task in the simulator
func (s *Simulator) exists(arn string) bool {
	if _, ok := parseResource(arn, resourceTaskDefinition); ok {
		_, err := s.taskDefinitions.describe(arn)
		return err == nil
	}

	if name, ok := parseResource(arn, resourceCluster); ok {
		c, found := s.clusters.lookup(aws.String(name))
		return found && aws.StringValue(c.ClusterArn) == arn
	}

	return s.tasks.exists(arn)
}

func includes(fields []*string, field string) bool {
	for _, f := range fields {
		if aws.StringValue(f) == field {
			return true
		}
	}
	return false
}
