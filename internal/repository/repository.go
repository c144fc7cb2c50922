// Package repository implements an in-memory open metadata repository.
// Entities and relationships are validated against the type catalogue
// and the configured admission rules before they are stored.
package repository

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/dnswlt/egeria/internal/ffdc"
	"github.com/dnswlt/egeria/internal/omrs"
	"github.com/dnswlt/egeria/internal/rules"
	"github.com/dnswlt/egeria/internal/typedefs"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultMaxPageSize = 1000

type Options struct {
	// MaxPageSize limits the number of results of a single find request.
	MaxPageSize int
	Rules       *rules.Set
	Logger      *zap.Logger
	// NewGUID and Now can be replaced in tests.
	NewGUID func() string
	Now     func() time.Time
}

// Repository is safe for concurrent use. It never hands out references
// to its internal state: all returned instances are copies.
type Repository struct {
	types *typedefs.Registry
	opts  Options

	mu            sync.RWMutex
	entities      map[string]*omrs.EntityDetail
	relationships map[string]*omrs.Relationship
	// Relationship GUIDs by entity GUID, for both ends.
	entityRelationships map[string]map[string]bool
	// Entity GUID by qualified-name key, see qualifiedNameKey.
	qualifiedNames map[string]string
}

func New(types *typedefs.Registry, opts Options) *Repository {
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = DefaultMaxPageSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.NewGUID == nil {
		opts.NewGUID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Repository{
		types:               types,
		opts:                opts,
		entities:            make(map[string]*omrs.EntityDetail),
		relationships:       make(map[string]*omrs.Relationship),
		entityRelationships: make(map[string]map[string]bool),
		qualifiedNames:      make(map[string]string),
	}
}

// Types returns the type catalogue the repository validates against.
func (r *Repository) Types() *typedefs.Registry {
	return r.types
}

func (r *Repository) MaxPageSize() int {
	return r.opts.MaxPageSize
}

// qualifiedNameKey returns the uniqueness key of e's qualified name.
// Qualified names are unique within the hierarchy of an entity type's root type.
func (r *Repository) qualifiedNameKey(typeName, qualifiedName string) string {
	if qualifiedName == "" {
		return ""
	}
	return r.types.RootType(typeName) + "/" + qualifiedName
}

// checkUnique must be called with r.mu held.
func (r *Repository) checkUnique(methodName, guid, typeName, qualifiedName string) error {
	key := r.qualifiedNameKey(typeName, qualifiedName)
	if key == "" {
		return nil
	}
	if other, ok := r.qualifiedNames[key]; ok && other != guid {
		return ffdc.InvalidParameter(methodName, "qualifiedName",
			"qualified name %q is already used by entity %s", qualifiedName, other)
	}
	return nil
}

// index must be called with r.mu held.
func (r *Repository) index(e *omrs.EntityDetail) {
	if key := r.qualifiedNameKey(e.TypeName, e.QualifiedName()); key != "" {
		r.qualifiedNames[key] = e.GUID
	}
}

// unindex must be called with r.mu held.
func (r *Repository) unindex(e *omrs.EntityDetail) {
	key := r.qualifiedNameKey(e.TypeName, e.QualifiedName())
	if key != "" && r.qualifiedNames[key] == e.GUID {
		delete(r.qualifiedNames, key)
	}
}

func (r *Repository) CreateEntity(userID, typeName string, props *omrs.InstanceProperties, classifications []*omrs.Classification) (*omrs.EntityDetail, error) {
	const methodName = "CreateEntity"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return nil, err
	}
	props = props.Clone()
	classifications = cloneClassifications(classifications)
	if err := r.validateEntity(methodName, typeName, props, classifications); err != nil {
		return nil, err
	}
	now := r.opts.Now()
	e := &omrs.EntityDetail{
		InstanceAuditHeader: omrs.InstanceAuditHeader{
			GUID:       r.opts.NewGUID(),
			TypeName:   typeName,
			Status:     omrs.StatusActive,
			Version:    1,
			CreatedBy:  userID,
			CreateTime: now,
		},
		Properties: props,
	}
	if e.Properties == nil {
		e.Properties = omrs.NewInstanceProperties()
	}
	for _, c := range classifications {
		c.CreatedBy = userID
		c.CreateTime = now
		e.Classifications = append(e.Classifications, c)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUnique(methodName, e.GUID, typeName, e.QualifiedName()); err != nil {
		return nil, err
	}
	r.entities[e.GUID] = e
	r.index(e)
	r.opts.Logger.Debug("Created entity",
		zap.String("guid", e.GUID),
		zap.String("typeName", typeName),
		zap.String("qualifiedName", e.QualifiedName()),
		zap.String("userId", userID))
	return e.Clone(), nil
}

// getEntity must be called with r.mu held.
func (r *Repository) getEntity(methodName, param, guid string) (*omrs.EntityDetail, error) {
	if err := ffdc.ValidateGUID(methodName, param, guid); err != nil {
		return nil, err
	}
	e, ok := r.entities[guid]
	if !ok {
		return nil, ffdc.NotFound(methodName, param, "no entity with GUID %s", guid)
	}
	return e, nil
}

func (r *Repository) GetEntity(guid string) (*omrs.EntityDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, err := r.getEntity("GetEntity", "guid", guid)
	if err != nil {
		return nil, err
	}
	return e.Clone(), nil
}

// UpdateEntityProperties replaces all properties of the entity.
func (r *Repository) UpdateEntityProperties(userID, guid string, props *omrs.InstanceProperties) (*omrs.EntityDetail, error) {
	const methodName = "UpdateEntityProperties"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return nil, err
	}
	props = props.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.getEntity(methodName, "guid", guid)
	if err != nil {
		return nil, err
	}
	if err := r.validateProperties(methodName, e.TypeName, props); err != nil {
		return nil, err
	}
	if err := r.opts.Rules.Check(methodName, e.TypeName, props); err != nil {
		return nil, err
	}
	qn, _ := props.GetString("qualifiedName")
	if err := r.checkUnique(methodName, guid, e.TypeName, qn); err != nil {
		return nil, err
	}
	r.unindex(e)
	e.Properties = props
	if e.Properties == nil {
		e.Properties = omrs.NewInstanceProperties()
	}
	r.touch(&e.InstanceAuditHeader, userID)
	r.index(e)
	return e.Clone(), nil
}

// UpdateEntity replaces the properties of the entity and applies the
// classifications, replacing the properties of those the entity already has.
// Classifications named in managed that are not given are removed.
// The entity is left unchanged if any property or classification is invalid.
func (r *Repository) UpdateEntity(userID, guid string, props *omrs.InstanceProperties, classifications []*omrs.Classification, managed []string) (*omrs.EntityDetail, error) {
	const methodName = "UpdateEntity"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return nil, err
	}
	props = props.Clone()
	classifications = cloneClassifications(classifications)
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.getEntity(methodName, "guid", guid)
	if err != nil {
		return nil, err
	}
	if err := r.validateEntity(methodName, e.TypeName, props, classifications); err != nil {
		return nil, err
	}
	qn, _ := props.GetString("qualifiedName")
	if err := r.checkUnique(methodName, guid, e.TypeName, qn); err != nil {
		return nil, err
	}

	r.unindex(e)
	e.Properties = props
	if e.Properties == nil {
		e.Properties = omrs.NewInstanceProperties()
	}
	given := make(map[string]bool)
	now := r.opts.Now()
	for _, c := range classifications {
		given[c.Name] = true
		if existing := e.Classification(c.Name); existing != nil {
			existing.Properties = c.Properties
			continue
		}
		c.CreatedBy = userID
		c.CreateTime = now
		e.Classifications = append(e.Classifications, c)
	}
	e.Classifications = slices.DeleteFunc(e.Classifications, func(c *omrs.Classification) bool {
		return !given[c.Name] && slices.Contains(managed, c.Name)
	})
	r.touch(&e.InstanceAuditHeader, userID)
	r.index(e)
	r.opts.Logger.Debug("Updated entity",
		zap.String("guid", guid),
		zap.Int("classifications", len(e.Classifications)),
		zap.String("userId", userID))
	return e.Clone(), nil
}

func cloneClassifications(cs []*omrs.Classification) []*omrs.Classification {
	if cs == nil {
		return nil
	}
	result := make([]*omrs.Classification, len(cs))
	for i, c := range cs {
		result[i] = c.Clone()
	}
	return result
}

// touch must be called with r.mu held.
func (r *Repository) touch(h *omrs.InstanceAuditHeader, userID string) {
	h.Version++
	h.UpdatedBy = userID
	h.UpdateTime = r.opts.Now()
}

// ClassifyEntity adds the classification to the entity, or replaces the
// properties of an existing classification with the same name.
func (r *Repository) ClassifyEntity(userID, guid, classificationName string, props *omrs.InstanceProperties) (*omrs.EntityDetail, error) {
	const methodName = "ClassifyEntity"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.getEntity(methodName, "guid", guid)
	if err != nil {
		return nil, err
	}
	c := &omrs.Classification{
		Name:       classificationName,
		Origin:     omrs.OriginAssigned,
		Properties: props.Clone(),
		CreatedBy:  userID,
		CreateTime: r.opts.Now(),
	}
	if err := r.validateClassification(methodName, e.TypeName, c); err != nil {
		return nil, err
	}
	if existing := e.Classification(classificationName); existing != nil {
		existing.Properties = c.Properties
	} else {
		e.Classifications = append(e.Classifications, c)
	}
	r.touch(&e.InstanceAuditHeader, userID)
	return e.Clone(), nil
}

func (r *Repository) DeclassifyEntity(userID, guid, classificationName string) (*omrs.EntityDetail, error) {
	const methodName = "DeclassifyEntity"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.getEntity(methodName, "guid", guid)
	if err != nil {
		return nil, err
	}
	if e.Classification(classificationName) == nil {
		return nil, ffdc.NotFound(methodName, "classificationName",
			"entity %s has no classification %q", guid, classificationName)
	}
	e.Classifications = slices.DeleteFunc(e.Classifications, func(c *omrs.Classification) bool {
		return c.Name == classificationName
	})
	r.touch(&e.InstanceAuditHeader, userID)
	return e.Clone(), nil
}

// DeleteEntity removes the entity. If the entity still has relationships,
// it fails unless purgeRelationships is set, in which case the
// relationships are removed as well.
func (r *Repository) DeleteEntity(userID, guid string, purgeRelationships bool) error {
	const methodName = "DeleteEntity"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.getEntity(methodName, "guid", guid)
	if err != nil {
		return err
	}
	rels := r.entityRelationships[guid]
	if len(rels) > 0 && !purgeRelationships {
		return ffdc.InvalidParameter(methodName, "guid",
			"entity %s still has %d relationships", guid, len(rels))
	}
	for relGUID := range rels {
		r.removeRelationship(r.relationships[relGUID])
	}
	r.unindex(e)
	delete(r.entities, guid)
	delete(r.entityRelationships, guid)
	r.opts.Logger.Debug("Deleted entity",
		zap.String("guid", guid),
		zap.Int("purgedRelationships", len(rels)),
		zap.String("userId", userID))
	return nil
}

func (r *Repository) CreateRelationship(userID, typeName, end1GUID, end2GUID string, props *omrs.InstanceProperties) (*omrs.Relationship, error) {
	const methodName = "CreateRelationship"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return nil, err
	}
	rel := &omrs.Relationship{
		InstanceAuditHeader: omrs.InstanceAuditHeader{
			GUID:       r.opts.NewGUID(),
			TypeName:   typeName,
			Status:     omrs.StatusActive,
			Version:    1,
			CreatedBy:  userID,
			CreateTime: r.opts.Now(),
		},
		End1GUID:   end1GUID,
		End2GUID:   end2GUID,
		Properties: props.Clone(),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.validateRelationship(methodName, rel); err != nil {
		return nil, err
	}
	r.addRelationship(rel)
	return rel.Clone(), nil
}

// addRelationship must be called with r.mu held.
func (r *Repository) addRelationship(rel *omrs.Relationship) {
	if old, ok := r.relationships[rel.GUID]; ok {
		r.removeRelationship(old)
	}
	r.relationships[rel.GUID] = rel
	for _, end := range []string{rel.End1GUID, rel.End2GUID} {
		if r.entityRelationships[end] == nil {
			r.entityRelationships[end] = make(map[string]bool)
		}
		r.entityRelationships[end][rel.GUID] = true
	}
}

// removeRelationship must be called with r.mu held.
func (r *Repository) removeRelationship(rel *omrs.Relationship) {
	delete(r.relationships, rel.GUID)
	for _, end := range []string{rel.End1GUID, rel.End2GUID} {
		delete(r.entityRelationships[end], rel.GUID)
	}
}

func (r *Repository) DeleteRelationship(userID, guid string) error {
	const methodName = "DeleteRelationship"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return err
	}
	if err := ffdc.ValidateGUID(methodName, "guid", guid); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rel, ok := r.relationships[guid]
	if !ok {
		return ffdc.NotFound(methodName, "guid", "no relationship with GUID %s", guid)
	}
	r.removeRelationship(rel)
	return nil
}

// GetRelationships returns the relationships of the entity, optionally
// restricted to the given relationship type, oldest first.
func (r *Repository) GetRelationships(guid, typeName string) ([]*omrs.Relationship, error) {
	const methodName = "GetRelationships"
	if typeName != "" {
		if _, ok := r.types.Relationship(typeName); !ok {
			return nil, ffdc.TypeError(methodName, "typeName", "unknown relationship type %q", typeName)
		}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, err := r.getEntity(methodName, "guid", guid); err != nil {
		return nil, err
	}
	var result []*omrs.Relationship
	for relGUID := range r.entityRelationships[guid] {
		rel := r.relationships[relGUID]
		if typeName == "" || rel.TypeName == typeName {
			result = append(result, rel.Clone())
		}
	}
	sortRelationships(result)
	return result, nil
}

func sortRelationships(rels []*omrs.Relationship) {
	slices.SortFunc(rels, func(a, b *omrs.Relationship) int {
		if c := a.CreateTime.Compare(b.CreateTime); c != 0 {
			return c
		}
		return cmp.Compare(a.GUID, b.GUID)
	})
}

// AddEntityDetail stores an entity with its GUID and audit header intact,
// replacing any entity with the same GUID. It is used to load archives.
func (r *Repository) AddEntityDetail(e *omrs.EntityDetail) error {
	const methodName = "AddEntityDetail"
	if err := ffdc.ValidateGUID(methodName, "guid", e.GUID); err != nil {
		return err
	}
	e = e.Clone()
	if err := r.validateEntity(methodName, e.TypeName, e.Properties, e.Classifications); err != nil {
		return err
	}
	if e.Status == "" {
		e.Status = omrs.StatusActive
	}
	if e.Properties == nil {
		e.Properties = omrs.NewInstanceProperties()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUnique(methodName, e.GUID, e.TypeName, e.QualifiedName()); err != nil {
		return err
	}
	if old, ok := r.entities[e.GUID]; ok {
		r.unindex(old)
	}
	r.entities[e.GUID] = e
	r.index(e)
	return nil
}

// AddRelationship stores a relationship with its GUID intact,
// replacing any relationship with the same GUID. Both ends must exist.
func (r *Repository) AddRelationship(rel *omrs.Relationship) error {
	const methodName = "AddRelationship"
	if err := ffdc.ValidateGUID(methodName, "guid", rel.GUID); err != nil {
		return err
	}
	rel = rel.Clone()
	if rel.Status == "" {
		rel.Status = omrs.StatusActive
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.validateRelationship(methodName, rel); err != nil {
		return err
	}
	r.addRelationship(rel)
	return nil
}

// Entities returns all entities sorted by qualified name and GUID.
func (r *Repository) Entities() []*omrs.EntityDetail {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*omrs.EntityDetail, 0, len(r.entities))
	for _, e := range r.entities {
		result = append(result, e.Clone())
	}
	sortEntities(result)
	return result
}

// Relationships returns all relationships, oldest first.
func (r *Repository) Relationships() []*omrs.Relationship {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*omrs.Relationship, 0, len(r.relationships))
	for _, rel := range r.relationships {
		result = append(result, rel.Clone())
	}
	sortRelationships(result)
	return result
}

func (r *Repository) Size() (entities, relationships int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities), len(r.relationships)
}

func sortEntities(es []*omrs.EntityDetail) {
	slices.SortFunc(es, func(a, b *omrs.EntityDetail) int {
		if c := cmp.Compare(a.QualifiedName(), b.QualifiedName()); c != 0 {
			return c
		}
		return cmp.Compare(a.GUID, b.GUID)
	})
}
