package simulator

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ecs"
)

func registerTd(t *testing.T, s *Simulator, family, networkMode string, defs ...*ecs.ContainerDefinition) *ecs.TaskDefinition {
	t.Helper()

	if defs == nil {
		defs = []*ecs.ContainerDefinition{}
	}

	input := &ecs.RegisterTaskDefinitionInput{
		Family:               aws.String(family),
		ContainerDefinitions: defs,
	}
	if networkMode != "" {
		input.NetworkMode = aws.String(networkMode)
	}

	out, err := s.RegisterTaskDefinition(input)
	if err != nil {
		t.Fatalf("expected no error registering %s, got %s", family, err)
	}
	return out.TaskDefinition
}

func TestRegisterTaskDefinition(t *testing.T) {
	s := New(Config{})

	tests := []struct {
		family   string
		revision int64
	}{
		{"dagster", 1},
		{"other", 1},
		{"dagster", 2},
		{"dagster", 3},
		{"other", 2},
	}

	for _, tt := range tests {
		td := registerTd(t, s, tt.family, "")
		if aws.StringValue(td.Family) != tt.family {
			t.Errorf("expected family %s, got %s", tt.family, aws.StringValue(td.Family))
		}

		if aws.Int64Value(td.Revision) != tt.revision {
			t.Errorf("expected revision %d, got %d", tt.revision, aws.Int64Value(td.Revision))
		}

		suffix := fmt.Sprintf("/%s:%d", tt.family, tt.revision)
		if !strings.HasSuffix(aws.StringValue(td.TaskDefinitionArn), suffix) {
			t.Errorf("expected task definition arn to end with %s, got %s", suffix, aws.StringValue(td.TaskDefinitionArn))
		}

		if aws.StringValue(td.NetworkMode) != DefaultNetworkMode {
			t.Errorf("expected default network mode %s, got %s", DefaultNetworkMode, aws.StringValue(td.NetworkMode))
		}
	}

	td := registerTd(t, s, "dagster", ecs.NetworkModeBridge, &ecs.ContainerDefinition{Image: aws.String("hello_world:latest")})
	if aws.StringValue(td.ContainerDefinitions[0].Image) != "hello_world:latest" {
		t.Errorf("expected container image hello_world:latest, got %s", aws.StringValue(td.ContainerDefinitions[0].Image))
	}

	if aws.StringValue(td.NetworkMode) != ecs.NetworkModeBridge {
		t.Errorf("expected network mode bridge, got %s", aws.StringValue(td.NetworkMode))
	}

	expectedArn := "arn:aws:ecs:us-east-1:123456789012:task-definition/dagster:4"
	if aws.StringValue(td.TaskDefinitionArn) != expectedArn {
		t.Errorf("expected arn %s, got %s", expectedArn, aws.StringValue(td.TaskDefinitionArn))
	}
}

func TestRegisterTaskDefinitionInvalid(t *testing.T) {
	s := New(Config{})

	tests := []struct {
		name  string
		input *ecs.RegisterTaskDefinitionInput
	}{
		{"nil input", nil},
		{"missing family", &ecs.RegisterTaskDefinitionInput{ContainerDefinitions: []*ecs.ContainerDefinition{}}},
		{"empty family", &ecs.RegisterTaskDefinitionInput{Family: aws.String(""), ContainerDefinitions: []*ecs.ContainerDefinition{}}},
		{"missing container definitions", &ecs.RegisterTaskDefinitionInput{Family: aws.String("fam")}},
		{"bad network mode", &ecs.RegisterTaskDefinitionInput{Family: aws.String("fam"), ContainerDefinitions: []*ecs.ContainerDefinition{}, NetworkMode: aws.String("bogus")}},
		{"family with colon", &ecs.RegisterTaskDefinitionInput{Family: aws.String("a:b"), ContainerDefinitions: []*ecs.ContainerDefinition{}}},
		{"family with slash", &ecs.RegisterTaskDefinitionInput{Family: aws.String("a/b"), ContainerDefinitions: []*ecs.ContainerDefinition{}}},
		{"family too long", &ecs.RegisterTaskDefinitionInput{Family: aws.String(strings.Repeat("a", 256)), ContainerDefinitions: []*ecs.ContainerDefinition{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.RegisterTaskDefinition(tt.input)
			if !IsInvalidParameter(err) {
				t.Errorf("expected invalid parameter error, got %v", err)
			}
		})
	}

	if _, err := s.DescribeTaskDefinition(&ecs.DescribeTaskDefinitionInput{TaskDefinition: aws.String("fam")}); !IsNotFound(err) {
		t.Errorf("expected failed registrations not to create a family, got %v", err)
	}
}

func TestRegisterTaskDefinitionSnapshot(t *testing.T) {
	s := New(Config{})

	input := &ecs.RegisterTaskDefinitionInput{
		Family: aws.String("snap"),
		ContainerDefinitions: []*ecs.ContainerDefinition{
			{Name: aws.String("web"), Image: aws.String("nginx:alpine")},
		},
	}

	out, err := s.RegisterTaskDefinition(input)
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}

	// mutating the input or the output must not change the stored revision
	input.ContainerDefinitions[0].Image = aws.String("changed")
	out.TaskDefinition.ContainerDefinitions[0].Name = aws.String("changed")

	desc, err := s.DescribeTaskDefinition(&ecs.DescribeTaskDefinitionInput{TaskDefinition: aws.String("snap:1")})
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}

	c := desc.TaskDefinition.ContainerDefinitions[0]
	if aws.StringValue(c.Image) != "nginx:alpine" || aws.StringValue(c.Name) != "web" {
		t.Errorf("expected stored container definition to be unchanged, got %+v", c)
	}
}

func TestDescribeTaskDefinition(t *testing.T) {
	s := New(Config{})

	if _, err := s.DescribeTaskDefinition(&ecs.DescribeTaskDefinitionInput{TaskDefinition: aws.String("dagster")}); !IsNotFound(err) {
		t.Fatalf("expected not found for missing family, got %v", err)
	}

	dagster1 := registerTd(t, s, "dagster", ecs.NetworkModeBridge, &ecs.ContainerDefinition{Image: aws.String("hello_world:latest")})
	dagster2 := registerTd(t, s, "dagster", "", &ecs.ContainerDefinition{Image: aws.String("hello_world:latest")})

	tests := []struct {
		ref      string
		expected *ecs.TaskDefinition
	}{
		{"dagster", dagster2},
		{"dagster:1", dagster1},
		{"dagster:2", dagster2},
		{aws.StringValue(dagster1.TaskDefinitionArn), dagster1},
		{aws.StringValue(dagster2.TaskDefinitionArn), dagster2},
	}

	for _, tt := range tests {
		out, err := s.DescribeTaskDefinition(&ecs.DescribeTaskDefinitionInput{TaskDefinition: aws.String(tt.ref)})
		if err != nil {
			t.Errorf("expected no error describing %s, got %s", tt.ref, err)
			continue
		}

		if !reflect.DeepEqual(tt.expected, out.TaskDefinition) {
			t.Errorf("describing %s, expected %+v, got %+v", tt.ref, tt.expected, out.TaskDefinition)
		}
	}

	missing := []string{
		"dagster:0",
		"dagster:3",
		"dagster:-1",
		"dagster:abc",
		"other",
		"other:1",
		":1",
		"arn:aws:ecs:us-east-1:123456789012:task-definition/dagster:3",
		"arn:aws:ecs:us-west-2:123456789012:task-definition/dagster:1",
		"arn:aws:ecs:us-east-1:123456789012:cluster/dagster",
		"arn:aws:ecs:us-east-1:123456789012:task-definition/dagster",
		"arn:aws:ecs:eu-west-1:999999999999:task-definition/dagster",
	}

	for _, ref := range missing {
		if _, err := s.DescribeTaskDefinition(&ecs.DescribeTaskDefinitionInput{TaskDefinition: aws.String(ref)}); !IsNotFound(err) {
			t.Errorf("expected not found describing %s, got %v", ref, err)
		}
	}

	if _, err := s.DescribeTaskDefinition(&ecs.DescribeTaskDefinitionInput{}); !IsInvalidParameter(err) {
		t.Errorf("expected invalid parameter for missing task definition, got %v", err)
	}
}

func TestDescribeTaskDefinitionTags(t *testing.T) {
	s := New(Config{})

	_, err := s.RegisterTaskDefinition(&ecs.RegisterTaskDefinitionInput{
		Family:               aws.String("tagged"),
		ContainerDefinitions: []*ecs.ContainerDefinition{},
		Tags: []*ecs.Tag{
			{Key: aws.String("spinup:org"), Value: aws.String("test")},
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}

	out, err := s.DescribeTaskDefinition(&ecs.DescribeTaskDefinitionInput{TaskDefinition: aws.String("tagged")})
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}

	if out.Tags != nil {
		t.Errorf("expected no tags without include, got %+v", out.Tags)
	}

	out, err = s.DescribeTaskDefinition(&ecs.DescribeTaskDefinitionInput{
		TaskDefinition: aws.String("tagged"),
		Include:        aws.StringSlice([]string{ecs.TaskDefinitionFieldTags}),
	})
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}

	expected := []*ecs.Tag{{Key: aws.String("spinup:org"), Value: aws.String("test")}}
	if !reflect.DeepEqual(expected, out.Tags) {
		t.Errorf("expected tags %+v, got %+v", expected, out.Tags)
	}
}

func TestRegisterTaskDefinitionConcurrent(t *testing.T) {
	s := New(Config{})

	const perFamily = 50
	families := []string{"a", "b", "c"}

	var wg sync.WaitGroup
	for _, f := range families {
		for i := 0; i < perFamily; i++ {
			wg.Add(1)
			go func(family string) {
				defer wg.Done()
				_, err := s.RegisterTaskDefinition(&ecs.RegisterTaskDefinitionInput{
					Family:               aws.String(family),
					ContainerDefinitions: []*ecs.ContainerDefinition{},
				})
				if err != nil {
					t.Errorf("expected no error, got %s", err)
				}
			}(f)
		}
	}
	wg.Wait()

	for _, f := range families {
		out, err := s.ListTaskDefinitions(&ecs.ListTaskDefinitionsInput{FamilyPrefix: aws.String(f)})
		if err != nil {
			t.Fatalf("expected no error, got %s", err)
		}

		if len(out.TaskDefinitionArns) != perFamily {
			t.Fatalf("expected %d revisions in %s, got %d", perFamily, f, len(out.TaskDefinitionArns))
		}

		for i, arn := range out.TaskDefinitionArns {
			if !strings.HasSuffix(aws.StringValue(arn), fmt.Sprintf("/%s:%d", f, i+1)) {
				t.Errorf("expected revision %d at position %d, got %s", i+1, i, aws.StringValue(arn))
			}
		}

		latest, err := s.DescribeTaskDefinition(&ecs.DescribeTaskDefinitionInput{TaskDefinition: aws.String(f)})
		if err != nil {
			t.Fatalf("expected no error, got %s", err)
		}

		if aws.Int64Value(latest.TaskDefinition.Revision) != perFamily {
			t.Errorf("expected latest revision %d, got %d", perFamily, aws.Int64Value(latest.TaskDefinition.Revision))
		}
	}
}

func TestListTaskDefinitions(t *testing.T) {
	s := New(Config{})

	registerTd(t, s, "beta", "")
	registerTd(t, s, "alpha", "")
	registerTd(t, s, "beta", "")
	registerTd(t, s, "alphabet", "")

	arn := func(family string, revision int) *string {
		return aws.String(fmt.Sprintf("arn:aws:ecs:us-east-1:123456789012:task-definition/%s:%d", family, revision))
	}

	tests := []struct {
		name     string
		input    *ecs.ListTaskDefinitionsInput
		expected []*string
	}{
		{
			name:     "nil input",
			input:    nil,
			expected: []*string{arn("alpha", 1), arn("alphabet", 1), arn("beta", 1), arn("beta", 2)},
		},
		{
			name:     "prefix",
			input:    &ecs.ListTaskDefinitionsInput{FamilyPrefix: aws.String("alpha")},
			expected: []*string{arn("alpha", 1), arn("alphabet", 1)},
		},
		{
			name:     "descending",
			input:    &ecs.ListTaskDefinitionsInput{FamilyPrefix: aws.String("beta"), Sort: aws.String(ecs.SortOrderDesc)},
			expected: []*string{arn("beta", 2), arn("beta", 1)},
		},
		{
			name:     "inactive",
			input:    &ecs.ListTaskDefinitionsInput{Status: aws.String(ecs.TaskDefinitionStatusInactive)},
			expected: []*string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := s.ListTaskDefinitions(tt.input)
			if err != nil {
				t.Fatalf("expected no error, got %s", err)
			}

			if !reflect.DeepEqual(tt.expected, out.TaskDefinitionArns) {
				t.Errorf("expected %s, got %s", aws.StringValueSlice(tt.expected), aws.StringValueSlice(out.TaskDefinitionArns))
			}
		})
	}
}

func TestListTaskDefinitionsPaging(t *testing.T) {
	s := New(Config{})
	for i := 0; i < 5; i++ {
		registerTd(t, s, "paged", "")
	}

	input := &ecs.ListTaskDefinitionsInput{MaxResults: aws.Int64(2)}
	arns := []string{}
	pages := 0
	for {
		out, err := s.ListTaskDefinitions(input)
		if err != nil {
			t.Fatalf("expected no error, got %s", err)
		}
		pages++
		arns = append(arns, aws.StringValueSlice(out.TaskDefinitionArns)...)

		if out.NextToken == nil {
			break
		}
		input.NextToken = out.NextToken
	}

	if pages != 3 || len(arns) != 5 {
		t.Errorf("expected 5 arns in 3 pages, got %d in %d", len(arns), pages)
	}

	if _, err := s.ListTaskDefinitions(&ecs.ListTaskDefinitionsInput{NextToken: aws.String("bogus")}); !IsInvalidParameter(err) {
		t.Errorf("expected invalid parameter for bad token, got %v", err)
	}

	if _, err := s.ListTaskDefinitions(&ecs.ListTaskDefinitionsInput{MaxResults: aws.Int64(101)}); !IsInvalidParameter(err) {
		t.Errorf("expected invalid parameter for bad max results, got %v", err)
	}
}

func TestListTaskDefinitionFamilies(t *testing.T) {
	s := New(Config{})

	registerTd(t, s, "svc-b", "")
	registerTd(t, s, "svc-a", "")
	registerTd(t, s, "svc-a", "")
	registerTd(t, s, "job", "")

	out, err := s.ListTaskDefinitionFamilies(&ecs.ListTaskDefinitionFamiliesInput{FamilyPrefix: aws.String("svc")})
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}

	expected := []string{"svc-a", "svc-b"}
	if !reflect.DeepEqual(expected, aws.StringValueSlice(out.Families)) {
		t.Errorf("expected %s, got %s", expected, aws.StringValueSlice(out.Families))
	}
}
