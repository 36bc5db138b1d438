package common

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ecs"
)

var testSeed = []byte(`{
	"taskDefinitions": [
		{
			"family": "web",
			"networkMode": "awsvpc",
			"containerDefinitions": [
				// the web server
				{"name": "nginx", "image": "nginx:1.21", "command": ["nginx", "-g", "daemon off;"]},
			],
			"tags": [{"key": "team", "value": "web"}],
		},
		{"family": "worker", "containerDefinitions": []},
	],
}`)

var testYAMLSeed = []byte(`
taskDefinitions:
  - family: web
    networkMode: awsvpc
    containerDefinitions:
      - name: nginx
        image: nginx:1.21
        command: ["nginx", "-g", "daemon off;"]
    tags:
      - key: team
        value: web
  - family: worker
    containerDefinitions: []
`)

var expectedSeed = &Seed{
	TaskDefinitions: []*ecs.RegisterTaskDefinitionInput{
		{
			Family:      aws.String("web"),
			NetworkMode: aws.String("awsvpc"),
			ContainerDefinitions: []*ecs.ContainerDefinition{
				{
					Name:    aws.String("nginx"),
					Image:   aws.String("nginx:1.21"),
					Command: aws.StringSlice([]string{"nginx", "-g", "daemon off;"}),
				},
			},
			Tags: []*ecs.Tag{{Key: aws.String("team"), Value: aws.String("web")}},
		},
		{
			Family:               aws.String("worker"),
			ContainerDefinitions: []*ecs.ContainerDefinition{},
		},
	},
}

func TestReadSeed(t *testing.T) {
	seed, err := ReadSeed(bytes.NewReader(testSeed))
	if err != nil {
		t.Fatalf("expected nil error, got %s", err)
	}

	if !reflect.DeepEqual(expectedSeed, seed) {
		t.Errorf("expected %+v, got %+v", expectedSeed, seed)
	}

	if _, err := ReadSeed(bytes.NewReader([]byte(`{"taskDefinitions": {}}`))); err == nil {
		t.Error("expected error for bad seed, got nil")
	}
}

func TestReadYAMLSeed(t *testing.T) {
	seed, err := ReadYAMLSeed(bytes.NewReader(testYAMLSeed))
	if err != nil {
		t.Fatalf("expected nil error, got %s", err)
	}

	if !reflect.DeepEqual(expectedSeed, seed) {
		t.Errorf("expected %+v, got %+v", expectedSeed, seed)
	}

	seed, err = ReadYAMLSeed(bytes.NewReader([]byte{}))
	if err != nil {
		t.Fatalf("expected nil error for an empty seed, got %s", err)
	}

	if len(seed.TaskDefinitions) != 0 {
		t.Errorf("expected no task definitions, got %d", len(seed.TaskDefinitions))
	}
}

func TestLoadSeed(t *testing.T) {
	dir, err := ioutil.TempDir("", "seed")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	files := map[string][]byte{
		"seed.json": testSeed,
		"seed.yaml": testYAMLSeed,
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := ioutil.WriteFile(path, content, 0600); err != nil {
			t.Fatal(err)
		}

		seed, err := LoadSeed(path)
		if err != nil {
			t.Errorf("expected nil error loading %s, got %s", name, err)
			continue
		}

		if !reflect.DeepEqual(expectedSeed, seed) {
			t.Errorf("expected %+v from %s, got %+v", expectedSeed, name, seed)
		}
	}

	if _, err := LoadSeed(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing seed file, got nil")
	}
}
