package common

import (
	"bufio"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Config is representation of the configuration data
type Config struct {
	ListenAddress string             `json:"listenAddress" yaml:"listenAddress"`
	Accounts      map[string]Account `json:"accounts" yaml:"accounts"`
	Token         string             `json:"token" yaml:"token"`
	LogLevel      string             `json:"logLevel" yaml:"logLevel"`
	Org           string             `json:"org" yaml:"org"`
	Version       Version            `json:"version" yaml:"version"`
}

// Account is the configuration for an individual simulated account
type Account struct {
	Region         string   `json:"region" yaml:"region"`
	AccountID      string   `json:"accountId" yaml:"accountId"`
	Partition      string   `json:"partition" yaml:"partition"`
	DefaultCluster string   `json:"defaultCluster" yaml:"defaultCluster"`
	DefaultSgs     []string `json:"defaultSgs" yaml:"defaultSgs"`
	DefaultSubnets []string `json:"defaultSubnets" yaml:"defaultSubnets"`
	// Seed is a list of task definition files registered when the account is created
	Seed []string `json:"seed" yaml:"seed"`
}

// Version carries around the API version information
type Version struct {
	Version           string `json:"version" yaml:"version"`
	VersionPrerelease string `json:"versionPrerelease" yaml:"versionPrerelease"`
	BuildStamp        string `json:"buildStamp" yaml:"buildStamp"`
	GitHash           string `json:"gitHash" yaml:"gitHash"`
}

// ReadConfig decodes the JSON configuration from an io Reader.  Comments and
// trailing commas are allowed.
func ReadConfig(r io.Reader) (Config, error) {
	var c Config
	log.Infoln("Reading configuration")

	b, err := ioutil.ReadAll(r)
	if err != nil {
		return c, errors.Wrap(err, "unable to read configuration")
	}

	if err := json.Unmarshal(jsonc.ToJSON(b), &c); err != nil {
		return c, errors.Wrap(err, "unable to decode JSON message")
	}
	return c, nil
}

// ReadYAMLConfig decodes the YAML configuration from an io Reader
func ReadYAMLConfig(r io.Reader) (Config, error) {
	var c Config
	log.Infoln("Reading YAML configuration")

	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return c, errors.Wrap(err, "unable to decode YAML message")
	}
	return c, nil
}

// LoadConfig reads the configuration file at path, as YAML if it has a .yaml or .yml
// extension and as JSON otherwise.  Relative seed paths are resolved against the
// directory of the configuration file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to open config file %s", path)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var c Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		c, err = ReadYAMLConfig(r)
	default:
		c, err = ReadConfig(r)
	}

	if err != nil {
		return c, errors.Wrapf(err, "unable to read configuration from %s", path)
	}

	dir := filepath.Dir(path)
	for name, a := range c.Accounts {
		for i, s := range a.Seed {
			if !filepath.IsAbs(s) {
				a.Seed[i] = filepath.Join(dir, s)
			}
		}
		c.Accounts[name] = a
	}

	return c, nil
}
