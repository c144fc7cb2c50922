package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dnswlt/egeria/internal/repository"
	"github.com/dnswlt/egeria/internal/rest"
	"github.com/dnswlt/egeria/internal/rules"
	"github.com/dnswlt/egeria/internal/store"
)

// ServerConfig identifies the metadata server.
type ServerConfig struct {
	// Name is the server name that REST requests must address.
	Name string `yaml:"name"`
}

type RepositoryConfig struct {
	// MaxPageSize limits the page size of find requests. 0 means the default.
	MaxPageSize int `yaml:"maxPageSize"`
	// AdmissionRules are checked for every entity that is created or updated.
	AdmissionRules []rules.Rule `yaml:"admissionRules"`
}

type RESTConfig struct {
	// FindCacheSize is the number of find results cached by the REST server.
	FindCacheSize int `yaml:"findCacheSize"`
}

// Bundle is the umbrella struct for the serialized application configuration YAML.
// It bundles the package-specific configurations.
type Bundle struct {
	Server     ServerConfig     `yaml:"server"`
	Repository RepositoryConfig `yaml:"repository"`
	REST       RESTConfig       `yaml:"rest"`
	// Archives lists the archive files and directories to load at start-up.
	// Paths are relative to the store root. Directories are searched for *.yml files.
	Archives []string `yaml:"archives"`
}

const DefaultServerName = "cocoMDS1"

// Default returns the configuration used when no config file is given.
func Default() *Bundle {
	b := &Bundle{}
	b.setDefaults()
	return b
}

func (b *Bundle) setDefaults() {
	if b.Server.Name == "" {
		b.Server.Name = DefaultServerName
	}
	if b.Repository.MaxPageSize == 0 {
		b.Repository.MaxPageSize = repository.DefaultMaxPageSize
	}
	if b.REST.FindCacheSize == 0 {
		b.REST.FindCacheSize = rest.DefaultCacheSize
	}
}

func (b *Bundle) validate() error {
	var errs []error
	if strings.ContainsAny(b.Server.Name, "/ ") {
		errs = append(errs, fmt.Errorf("server.name %q must not contain slashes or spaces", b.Server.Name))
	}
	if b.Repository.MaxPageSize < 0 {
		errs = append(errs, fmt.Errorf("repository.maxPageSize must not be negative, got %d", b.Repository.MaxPageSize))
	}
	if b.REST.FindCacheSize < 0 {
		errs = append(errs, fmt.Errorf("rest.findCacheSize must not be negative, got %d", b.REST.FindCacheSize))
	}
	names := make(map[string]bool)
	for i, r := range b.Repository.AdmissionRules {
		if r.Name == "" {
			errs = append(errs, fmt.Errorf("repository.admissionRules[%d] has no name", i))
		} else if names[r.Name] {
			errs = append(errs, fmt.Errorf("duplicate admission rule %q", r.Name))
		}
		names[r.Name] = true
	}
	return errors.Join(errs...)
}

// Load reads the configuration from configPath in st. Unset fields get their defaults.
func Load(st store.Store, configPath string) (*Bundle, error) {
	var bundle Bundle
	if err := store.ReadYAML(st, configPath, &bundle); err != nil {
		return nil, fmt.Errorf("could not read config %q: %w", configPath, err)
	}
	bundle.setDefaults()
	if err := bundle.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %q: %w", configPath, err)
	}
	return &bundle, nil
}
