package simulator

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awsutil"
	"github.com/aws/aws-sdk-go/service/ecs"
	log "github.com/sirupsen/logrus"
)

// DefaultNetworkMode is the network mode of a task definition registered without one
const DefaultNetworkMode = ecs.NetworkModeBridge

// taskDefinitionFamily is the append-only list of revisions of a family.  Revision n
// is stored at index n-1.
type taskDefinitionFamily struct {
	mu        sync.RWMutex
	revisions []*ecs.TaskDefinition
}

// taskDefinitionRegistry stores the task definition families
type taskDefinitionRegistry struct {
	arns     arnBuilder
	mu       sync.RWMutex
	families map[string]*taskDefinitionFamily
}

func newTaskDefinitionRegistry(arns arnBuilder) *taskDefinitionRegistry {
	return &taskDefinitionRegistry{
		arns:     arns,
		families: make(map[string]*taskDefinitionFamily),
	}
}

// family returns the named family, creating it if create is true
func (r *taskDefinitionRegistry) family(name string, create bool) *taskDefinitionFamily {
	r.mu.RLock()
	f, ok := r.families[name]
	r.mu.RUnlock()
	if ok || !create {
		return f
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok = r.families[name]; !ok {
		log.Debugf("creating task definition family %s", name)
		f = &taskDefinitionFamily{}
		r.families[name] = f
	}
	return f
}

// register appends a new revision to the input family and returns a copy of it
func (r *taskDefinitionRegistry) register(input *ecs.RegisterTaskDefinitionInput, now time.Time) *ecs.TaskDefinition {
	name := aws.StringValue(input.Family)
	f := r.family(name, true)

	f.mu.Lock()
	defer f.mu.Unlock()

	revision := int64(len(f.revisions) + 1)

	// copy everything the input and the task definition have in common, this also
	// snapshots the container definitions so later changes to the input aren't seen
	td := &ecs.TaskDefinition{}
	awsutil.Copy(td, input)

	td.Revision = aws.Int64(revision)
	td.TaskDefinitionArn = aws.String(r.arns.taskDefinitionARN(name, revision))
	td.Status = aws.String(ecs.TaskDefinitionStatusActive)
	td.RegisteredAt = aws.Time(now)

	if td.ContainerDefinitions == nil {
		td.ContainerDefinitions = []*ecs.ContainerDefinition{}
	}

	if aws.StringValue(td.NetworkMode) == "" {
		td.NetworkMode = aws.String(DefaultNetworkMode)
	}

	if len(td.RequiresCompatibilities) > 0 {
		td.Compatibilities = aws.StringSlice(aws.StringValueSlice(td.RequiresCompatibilities))
	} else {
		td.Compatibilities = aws.StringSlice([]string{ecs.CompatibilityEc2})
	}

	f.revisions = append(f.revisions, td)

	log.Infof("registered task definition %s", aws.StringValue(td.TaskDefinitionArn))

	return copyTaskDefinition(td)
}

// describe resolves a task definition reference to a copy of the revision.  The reference
// is a bare family (latest revision), family:revision or a full task definition ARN.
func (r *taskDefinitionRegistry) describe(reference string) (*ecs.TaskDefinition, error) {
	ref := reference
	isARN := false
	if name, ok := parseResource(reference, resourceTaskDefinition); ok {
		ref = name
		isARN = true
	}

	name, revision, hasRevision, err := splitRevision(ref)
	if err != nil || name == "" {
		return nil, notFound(fmt.Sprintf("unable to describe task definition %s", reference))
	}

	// task definition ARNs always carry a revision
	if isARN && !hasRevision {
		return nil, notFound(fmt.Sprintf("task definition %s not found", reference))
	}

	f := r.family(name, false)
	if f == nil {
		return nil, notFound(fmt.Sprintf("task definition family %s not found", name))
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if !hasRevision {
		if len(f.revisions) == 0 {
			return nil, notFound(fmt.Sprintf("task definition family %s not found", name))
		}
		return copyTaskDefinition(f.revisions[len(f.revisions)-1]), nil
	}

	if revision < 1 || revision > int64(len(f.revisions)) {
		return nil, notFound(fmt.Sprintf("task definition %s:%d not found", name, revision))
	}

	td := f.revisions[revision-1]

	// an ARN must match exactly, including the partition, region and account
	if isARN && aws.StringValue(td.TaskDefinitionArn) != reference {
		return nil, notFound(fmt.Sprintf("task definition %s not found", reference))
	}

	return copyTaskDefinition(td), nil
}

// familyNames returns the sorted names of the families beginning with prefix
func (r *taskDefinitionRegistry) familyNames(prefix string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := []string{}
	for name := range r.families {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// list returns the ARNs of all revisions in the families matching the prefix.  Families
// are ordered by name and revisions in ascending order, reversed when desc is set.
func (r *taskDefinitionRegistry) list(familyPrefix string, desc bool) []string {
	arns := []string{}
	for _, name := range r.familyNames(familyPrefix) {
		f := r.family(name, false)

		f.mu.RLock()
		for _, td := range f.revisions {
			arns = append(arns, aws.StringValue(td.TaskDefinitionArn))
		}
		f.mu.RUnlock()
	}

	if desc {
		for i, j := 0, len(arns)-1; i < j; i, j = i+1, j-1 {
			arns[i], arns[j] = arns[j], arns[i]
		}
	}

	return arns
}

func copyTaskDefinition(td *ecs.TaskDefinition) *ecs.TaskDefinition {
	c := &ecs.TaskDefinition{}
	awsutil.Copy(c, td)
	return c
}
