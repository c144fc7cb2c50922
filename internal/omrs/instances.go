package omrs

import (
	"slices"
	"time"
)

type InstanceStatus string

const (
	StatusActive  InstanceStatus = "ACTIVE"
	StatusDeleted InstanceStatus = "DELETED"
)

type ClassificationOrigin string

const (
	OriginAssigned   ClassificationOrigin = "ASSIGNED"
	OriginPropagated ClassificationOrigin = "PROPAGATED"
)

// MatchCriteria specifies how the properties of a search are combined.
type MatchCriteria int

const (
	// MatchAll requires all match properties to match.
	MatchAll MatchCriteria = iota
	// MatchAny requires at least one match property to match.
	MatchAny
	// MatchNone requires that no match property matches.
	MatchNone
)

func (m MatchCriteria) String() string {
	switch m {
	case MatchAll:
		return "ALL"
	case MatchAny:
		return "ANY"
	case MatchNone:
		return "NONE"
	}
	return "UNKNOWN"
}

type Classification struct {
	Name       string               `yaml:"name" json:"name"`
	Origin     ClassificationOrigin `yaml:"origin,omitempty" json:"origin,omitempty"`
	Properties *InstanceProperties  `yaml:"properties,omitempty" json:"properties,omitempty"`
	CreatedBy  string               `yaml:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreateTime time.Time            `yaml:"createTime,omitempty" json:"createTime,omitzero"`
}

func (c *Classification) Clone() *Classification {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Properties = c.Properties.Clone()
	return &cp
}

// InstanceAuditHeader holds the bookkeeping fields shared by entities and relationships.
type InstanceAuditHeader struct {
	GUID       string         `yaml:"guid" json:"guid"`
	TypeName   string         `yaml:"typeName" json:"typeName"`
	Status     InstanceStatus `yaml:"status,omitempty" json:"status,omitempty"`
	Version    int64          `yaml:"version,omitempty" json:"version,omitempty"`
	CreatedBy  string         `yaml:"createdBy,omitempty" json:"createdBy,omitempty"`
	UpdatedBy  string         `yaml:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	CreateTime time.Time      `yaml:"createTime,omitempty" json:"createTime,omitzero"`
	UpdateTime time.Time      `yaml:"updateTime,omitempty" json:"updateTime,omitzero"`
}

type EntityDetail struct {
	InstanceAuditHeader `yaml:",inline"`
	Properties          *InstanceProperties `yaml:"properties,omitempty" json:"properties,omitempty"`
	Classifications     []*Classification   `yaml:"classifications,omitempty" json:"classifications,omitempty"`
}

func (e *EntityDetail) Clone() *EntityDetail {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Properties = e.Properties.Clone()
	cp.Classifications = make([]*Classification, len(e.Classifications))
	for i, c := range e.Classifications {
		cp.Classifications[i] = c.Clone()
	}
	return &cp
}

// Classification returns the classification with the given name, or nil.
func (e *EntityDetail) Classification(name string) *Classification {
	i := slices.IndexFunc(e.Classifications, func(c *Classification) bool { return c.Name == name })
	if i < 0 {
		return nil
	}
	return e.Classifications[i]
}

// QualifiedName returns the entity's qualifiedName property, if present.
func (e *EntityDetail) QualifiedName() string {
	qn, _ := e.Properties.GetString("qualifiedName")
	return qn
}

type Relationship struct {
	InstanceAuditHeader `yaml:",inline"`
	End1GUID            string              `yaml:"end1GUID" json:"end1GUID"`
	End2GUID            string              `yaml:"end2GUID" json:"end2GUID"`
	Properties          *InstanceProperties `yaml:"properties,omitempty" json:"properties,omitempty"`
}

func (r *Relationship) Clone() *Relationship {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Properties = r.Properties.Clone()
	return &cp
}

// OtherEnd returns the GUID at the opposite end of guid, or "" if guid is not an end of r.
func (r *Relationship) OtherEnd(guid string) string {
	switch guid {
	case r.End1GUID:
		return r.End2GUID
	case r.End2GUID:
		return r.End1GUID
	}
	return ""
}
