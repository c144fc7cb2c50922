package archive

import (
	"fmt"
	"time"

	"github.com/dnswlt/egeria/internal/omrs"
	"github.com/dnswlt/egeria/internal/repohelper"
	"github.com/dnswlt/egeria/internal/repository"
	"github.com/dnswlt/egeria/internal/typedefs"
	"github.com/google/uuid"
)

// EntityBuilder is implemented by the builders of all Referenceable beans.
type EntityBuilder interface {
	TypeName() string
	QualifiedName() string
	InstanceProperties(methodName string) (*omrs.InstanceProperties, error)
	Classifications(methodName string) ([]*omrs.Classification, error)
}

// Writer assembles an archive. GUIDs are derived from the archive GUID and
// the instances' type and qualified name (entities) or ends (relationships),
// so writing the same content twice yields identical archives.
type Writer struct {
	header Header
	ns     uuid.UUID
	helper *repohelper.Helper
	// Instances are validated by adding them to a scratch repository.
	scratch       *repository.Repository
	entities      []*omrs.EntityDetail
	relationships []*omrs.Relationship
}

// NewWriter returns a writer for an archive with the given header.
// An empty header GUID is derived from the archive name.
func NewWriter(types *typedefs.Registry, header Header) (*Writer, error) {
	if header.GUID == "" {
		header.GUID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:egeria:archive:"+header.Name)).String()
	}
	if header.CreationDate.IsZero() {
		header.CreationDate = time.Now().UTC().Truncate(time.Second)
	}
	if err := header.validate(); err != nil {
		return nil, err
	}
	ns, err := uuid.Parse(header.GUID)
	if err != nil {
		return nil, fmt.Errorf("archive guid %q is not a UUID: %w", header.GUID, err)
	}
	return &Writer{
		header:  header,
		ns:      ns,
		helper:  repohelper.New(types),
		scratch: repository.New(types, repository.Options{}),
	}, nil
}

// Helper returns the repository helper to create builders with.
func (w *Writer) Helper() *repohelper.Helper {
	return w.helper
}

func (w *Writer) guid(parts ...string) string {
	var name []byte
	for i, p := range parts {
		if i > 0 {
			name = append(name, 0)
		}
		name = append(name, p...)
	}
	return uuid.NewSHA1(w.ns, name).String()
}

func (w *Writer) auditHeader(typeName, guid string) omrs.InstanceAuditHeader {
	return omrs.InstanceAuditHeader{
		GUID:       guid,
		TypeName:   typeName,
		Status:     omrs.StatusActive,
		Version:    1,
		CreatedBy:  w.header.Originator,
		CreateTime: w.header.CreationDate,
	}
}

// AddEntity adds the entity built by b and returns its GUID.
func (w *Writer) AddEntity(b EntityBuilder) (string, error) {
	const methodName = "AddEntity"
	props, err := b.InstanceProperties(methodName)
	if err != nil {
		return "", err
	}
	classifications, err := b.Classifications(methodName)
	if err != nil {
		return "", err
	}
	for _, c := range classifications {
		c.CreatedBy = w.header.Originator
		c.CreateTime = w.header.CreationDate
	}
	e := &omrs.EntityDetail{
		InstanceAuditHeader: w.auditHeader(b.TypeName(), w.guid(b.TypeName(), b.QualifiedName())),
		Properties:          props,
		Classifications:     classifications,
	}
	if _, err := w.scratch.GetEntity(e.GUID); err == nil {
		return "", fmt.Errorf("duplicate %s %q", e.TypeName, b.QualifiedName())
	}
	if err := w.scratch.AddEntityDetail(e); err != nil {
		return "", err
	}
	w.entities = append(w.entities, e)
	return e.GUID, nil
}

// AddRelationship adds a relationship between two entities of the archive
// and returns its GUID.
func (w *Writer) AddRelationship(typeName, end1GUID, end2GUID string, props *omrs.InstanceProperties) (string, error) {
	r := &omrs.Relationship{
		InstanceAuditHeader: w.auditHeader(typeName, w.guid(typeName, end1GUID, end2GUID)),
		End1GUID:            end1GUID,
		End2GUID:            end2GUID,
		Properties:          props,
	}
	for _, existing := range w.relationships {
		if existing.GUID == r.GUID {
			return "", fmt.Errorf("duplicate %s relationship between %s and %s", typeName, end1GUID, end2GUID)
		}
	}
	if err := w.scratch.AddRelationship(r); err != nil {
		return "", err
	}
	w.relationships = append(w.relationships, r)
	return r.GUID, nil
}

// Archive returns the archive assembled so far, with entities and
// relationships in the order they were added.
func (w *Writer) Archive() *Archive {
	a := &Archive{
		Header:        w.header,
		Entities:      make([]*omrs.EntityDetail, len(w.entities)),
		Relationships: make([]*omrs.Relationship, len(w.relationships)),
	}
	for i, e := range w.entities {
		a.Entities[i] = e.Clone()
	}
	for i, r := range w.relationships {
		a.Relationships[i] = r.Clone()
	}
	return a
}
