// Package archive reads and writes open metadata archives: YAML files
// holding a header and a set of entities and relationships that are
// loaded into the repository at start-up.
package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/dnswlt/egeria/internal/omrs"
	"github.com/dnswlt/egeria/internal/repository"
	"github.com/dnswlt/egeria/internal/store"
	"github.com/dnswlt/egeria/internal/typedefs"
	"golang.org/x/mod/semver"
)

type Type string

const (
	TypeContentPack      Type = "CONTENT_PACK"
	TypeMetadataExport   Type = "METADATA_EXPORT"
	TypeRepositoryBackup Type = "REPOSITORY_BACKUP"
)

func (t Type) valid() bool {
	switch t {
	case TypeContentPack, TypeMetadataExport, TypeRepositoryBackup:
		return true
	}
	return false
}

type Header struct {
	GUID        string `yaml:"guid"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Type        Type   `yaml:"type"`
	Originator  string `yaml:"originator"`
	// Version is a semantic version, e.g. "1.2.0". A leading "v" is optional.
	Version      string    `yaml:"version"`
	CreationDate time.Time `yaml:"creationDate"`
}

// Archive is the content of an archive file.
type Archive struct {
	Header        Header               `yaml:"header"`
	Entities      []*omrs.EntityDetail `yaml:"entities,omitempty"`
	Relationships []*omrs.Relationship `yaml:"relationships,omitempty"`

	// Path is the store path the archive was read from.
	Path string `yaml:"-"`
}

// canonicalVersion returns v in the "vMAJOR.MINOR.PATCH" form used by
// the semver package, or "" if v is not a valid semantic version.
func canonicalVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}

// CompareVersions compares the header versions of a and b like semver.Compare.
func CompareVersions(a, b *Archive) int {
	return semver.Compare(canonicalVersion(a.Header.Version), canonicalVersion(b.Header.Version))
}

func (h *Header) validate() error {
	switch {
	case h.GUID == "":
		return fmt.Errorf("archive header has no guid")
	case h.Name == "":
		return fmt.Errorf("archive header has no name")
	case !h.Type.valid():
		return fmt.Errorf("archive %s has invalid type %q", h.Name, h.Type)
	case canonicalVersion(h.Version) == "":
		return fmt.Errorf("archive %s has invalid version %q", h.Name, h.Version)
	case h.CreationDate.IsZero():
		return fmt.Errorf("archive %s has no creation date", h.Name)
	}
	return nil
}

// Validate checks the header and that all instances would be accepted by a
// repository with the given types. Relationship ends must be in the archive.
func (a *Archive) Validate(types *typedefs.Registry) error {
	if err := a.Header.validate(); err != nil {
		return err
	}
	return Apply(repository.New(types, repository.Options{}), a)
}

// Apply loads the archive's instances into repo. Instances that already
// exist with the same GUID are replaced.
func Apply(repo *repository.Repository, a *Archive) error {
	for _, e := range a.Entities {
		if err := repo.AddEntityDetail(e); err != nil {
			return fmt.Errorf("archive %s: entity %s (%s): %w", a.Header.Name, e.GUID, e.QualifiedName(), err)
		}
	}
	for _, r := range a.Relationships {
		if err := repo.AddRelationship(r); err != nil {
			return fmt.Errorf("archive %s: relationship %s (%s): %w", a.Header.Name, r.GUID, r.TypeName, err)
		}
	}
	return nil
}

// Read reads the archive at path. Only the header is validated.
func Read(st store.Store, path string) (*Archive, error) {
	var a Archive
	if err := store.ReadYAML(st, path, &a); err != nil {
		return nil, err
	}
	if err := a.Header.validate(); err != nil {
		return nil, fmt.Errorf("invalid archive %s: %w", path, err)
	}
	a.Path = path
	return &a, nil
}

// Write writes a to path in st.
func Write(st store.Store, path string, a *Archive) error {
	if err := a.Header.validate(); err != nil {
		return err
	}
	return store.WriteYAML(st, path, a)
}
