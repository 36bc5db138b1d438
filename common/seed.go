package common

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/service/ecs"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Seed is a set of task definitions registered in a simulated account at startup
type Seed struct {
	TaskDefinitions []*ecs.RegisterTaskDefinitionInput `json:"taskDefinitions"`
}

// ReadSeed decodes a JSON seed from an io Reader.  Comments and trailing commas are allowed.
func ReadSeed(r io.Reader) (*Seed, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read seed")
	}

	seed := &Seed{}
	if err := json.Unmarshal(jsonc.ToJSON(b), seed); err != nil {
		return nil, errors.Wrap(err, "unable to decode JSON seed")
	}

	return seed, nil
}

// ReadYAMLSeed decodes a YAML seed from an io Reader.  The document uses the same keys as
// the JSON seed, so it's converted to JSON and decoded into the SDK input types.
func ReadYAMLSeed(r io.Reader) (*Seed, error) {
	var doc interface{}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "unable to decode YAML seed")
	}

	j, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "unable to convert YAML seed")
	}

	seed := &Seed{}
	if err := json.Unmarshal(j, seed); err != nil {
		return nil, errors.Wrap(err, "unable to decode YAML seed")
	}

	return seed, nil
}

// LoadSeed reads the seed file at path, as YAML if it has a .yaml or .yml extension
// and as JSON otherwise
func LoadSeed(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open seed file %s", path)
	}
	defer f.Close()

	log.Debugf("loading seed file %s", path)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadYAMLSeed(f)
	default:
		return ReadSeed(f)
	}
}
