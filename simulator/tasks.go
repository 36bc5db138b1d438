package simulator

import (
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awsutil"
	"github.com/aws/aws-sdk-go/service/ecs"
	"github.com/docker/distribution/reference"
)

const (
	// TaskStatusRunning is the only status a simulated task reaches
	TaskStatusRunning = "RUNNING"

	attachmentTypeENI      = "ElasticNetworkInterface"
	attachmentStatus       = "ATTACHED"
	attachmentDetailSubnet = "subnetId"
)

// awsvpcSubnets validates the network configuration for a task definition and returns the
// subnets to attach.  Only awsvpc task definitions get attachments.
func awsvpcSubnets(td *ecs.TaskDefinition, nc *ecs.NetworkConfiguration) ([]string, error) {
	if aws.StringValue(td.NetworkMode) != ecs.NetworkModeAwsvpc {
		return nil, nil
	}

	if nc == nil || nc.AwsvpcConfiguration == nil || len(nc.AwsvpcConfiguration.Subnets) == 0 {
		return nil, invalidParameter("network configuration must be provided for awsvpc mode")
	}

	return aws.StringValueSlice(nc.AwsvpcConfiguration.Subnets), nil
}

// newTask materializes a single running task from a task definition in a cluster
func newTask(arns arnBuilder, td *ecs.TaskDefinition, cluster *ecs.Cluster, input *ecs.RunTaskInput, subnets []string, now time.Time) *ecs.Task {
	clusterName := aws.StringValue(cluster.ClusterName)
	taskARN, id := arns.taskARN(clusterName)

	group := aws.StringValue(input.Group)
	if group == "" {
		group = "family:" + aws.StringValue(td.Family)
	}

	launchType := aws.StringValue(input.LaunchType)
	if launchType == "" {
		launchType = ecs.LaunchTypeEc2
	}

	task := &ecs.Task{
		Attachments:       []*ecs.Attachment{},
		ClusterArn:        cluster.ClusterArn,
		Containers:        []*ecs.Container{},
		Cpu:               td.Cpu,
		CreatedAt:         aws.Time(now),
		DesiredStatus:     aws.String(TaskStatusRunning),
		Group:             aws.String(group),
		LastStatus:        aws.String(TaskStatusRunning),
		LaunchType:        aws.String(launchType),
		Memory:            td.Memory,
		Overrides:         &ecs.TaskOverride{ContainerOverrides: []*ecs.ContainerOverride{}},
		StartedAt:         aws.Time(now),
		StartedBy:         input.StartedBy,
		TaskArn:           aws.String(taskARN),
		TaskDefinitionArn: td.TaskDefinitionArn,
		Version:           aws.Int64(1),
	}

	if input.Overrides != nil {
		awsutil.Copy(task.Overrides, input.Overrides)
		if task.Overrides.ContainerOverrides == nil {
			task.Overrides.ContainerOverrides = []*ecs.ContainerOverride{}
		}
	}

	var interfaces []*ecs.NetworkInterface
	for _, subnet := range subnets {
		attachmentID := newID()
		task.Attachments = append(task.Attachments, &ecs.Attachment{
			Id:     aws.String(attachmentID),
			Type:   aws.String(attachmentTypeENI),
			Status: aws.String(attachmentStatus),
			Details: []*ecs.KeyValuePair{
				{
					Name:  aws.String(attachmentDetailSubnet),
					Value: aws.String(subnet),
				},
			},
		})
		interfaces = append(interfaces, &ecs.NetworkInterface{AttachmentId: aws.String(attachmentID)})
	}

	for _, def := range td.ContainerDefinitions {
		c := &ecs.Container{
			ContainerArn: aws.String(arns.containerARN(clusterName, id)),
			Image:        def.Image,
			ImageDigest:  imageDigest(aws.StringValue(def.Image)),
			LastStatus:   aws.String(TaskStatusRunning),
			Name:         def.Name,
			RuntimeId:    aws.String(strings.ReplaceAll(newID(), "-", "")),
			TaskArn:      task.TaskArn,
		}

		for _, i := range interfaces {
			c.NetworkInterfaces = append(c.NetworkInterfaces, &ecs.NetworkInterface{AttachmentId: i.AttachmentId})
		}

		task.Containers = append(task.Containers, c)
	}

	return task
}

// imageDigest returns the digest of an image reference if it is pinned to one
func imageDigest(image string) *string {
	if image == "" {
		return nil
	}

	ref, err := reference.ParseAnyReference(image)
	if err != nil {
		return nil
	}

	if d, ok := ref.(reference.Digested); ok {
		return aws.String(d.Digest().String())
	}
	return nil
}

// taskStore holds every task launched by the simulator in launch order
type taskStore struct {
	mu    sync.RWMutex
	tasks []*ecs.Task
	byID  map[string]*ecs.Task
}

func newTaskStore() *taskStore {
	return &taskStore{
		tasks: []*ecs.Task{},
		byID:  make(map[string]*ecs.Task),
	}
}

// add stores the tasks and returns copies of them
func (s *taskStore) add(tasks []*ecs.Task) []*ecs.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*ecs.Task, 0, len(tasks))
	for _, t := range tasks {
		s.tasks = append(s.tasks, t)
		s.byID[taskID(aws.StringValue(t.TaskArn))] = t
		out = append(out, copyTask(t))
	}
	return out
}

// get returns a copy of a task in the cluster by ARN or id
func (s *taskStore) get(clusterARN, ref string) (*ecs.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byID[taskID(ref)]
	if !ok || aws.StringValue(t.ClusterArn) != clusterARN {
		return nil, false
	}

	if strings.HasPrefix(ref, "arn:") && aws.StringValue(t.TaskArn) != ref {
		return nil, false
	}

	return copyTask(t), true
}

// taskFilter selects tasks for list
type taskFilter struct {
	clusterARN    string
	family        string
	startedBy     string
	launchType    string
	desiredStatus string
	serviceName   string
}

func (f taskFilter) match(t *ecs.Task) bool {
	if aws.StringValue(t.ClusterArn) != f.clusterARN {
		return false
	}

	// simulated tasks aren't started by services
	if f.serviceName != "" {
		return false
	}

	if f.desiredStatus != "" && f.desiredStatus != aws.StringValue(t.DesiredStatus) {
		return false
	}

	if f.startedBy != "" && f.startedBy != aws.StringValue(t.StartedBy) {
		return false
	}

	if f.launchType != "" && f.launchType != aws.StringValue(t.LaunchType) {
		return false
	}

	if f.family != "" {
		name, ok := parseResource(aws.StringValue(t.TaskDefinitionArn), resourceTaskDefinition)
		if !ok {
			return false
		}

		family, _, _, _ := splitRevision(name)
		if family != f.family {
			return false
		}
	}

	return true
}

// list returns the ARNs of the tasks matching the filter in launch order
func (s *taskStore) list(filter taskFilter) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	arns := []string{}
	for _, t := range s.tasks {
		if filter.match(t) {
			arns = append(arns, aws.StringValue(t.TaskArn))
		}
	}
	return arns
}

// exists returns true if the ARN belongs to a stored task
func (s *taskStore) exists(arn string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byID[taskID(arn)]
	return ok && aws.StringValue(t.TaskArn) == arn
}

func copyTask(t *ecs.Task) *ecs.Task {
	c := &ecs.Task{}
	awsutil.Copy(c, t)
	return c
}
