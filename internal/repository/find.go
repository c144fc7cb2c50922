package repository

import (
	"regexp"

	"github.com/dnswlt/egeria/internal/ffdc"
	"github.com/dnswlt/egeria/internal/omrs"
)

// FindRequest describes a search for entities by property values.
type FindRequest struct {
	// TypeName restricts the search to entities of this type and its subtypes.
	// An empty TypeName searches all entities.
	TypeName string
	// MatchProperties are compared against the entity properties.
	// String values are regular expressions that must match the whole
	// property value. All other values must be equal.
	MatchProperties *omrs.InstanceProperties
	MatchCriteria   omrs.MatchCriteria
	// Classification, if set, restricts the search to entities carrying it.
	Classification string
	StartFrom      int
	// PageSize 0 means the repository's maximum page size.
	PageSize int
}

type propertyMatcher struct {
	name  string
	re    *regexp.Regexp
	value omrs.InstancePropertyValue
}

func (m *propertyMatcher) matches(props *omrs.InstanceProperties) bool {
	v, ok := props.Get(m.name)
	if !ok {
		return false
	}
	if m.re != nil {
		p, ok := v.(*omrs.PrimitivePropertyValue)
		if !ok || p.Primitive != omrs.PrimitiveString {
			return false
		}
		return m.re.MatchString(p.Value.(string))
	}
	return m.value.Equal(v)
}

func (r *Repository) compileMatchers(methodName string, req *FindRequest) ([]*propertyMatcher, error) {
	var attrs map[string]string
	if req.TypeName != "" {
		attrs = r.types.Attributes(req.TypeName)
	}
	var matchers []*propertyMatcher
	for _, name := range req.MatchProperties.Names() {
		if attrs != nil {
			if _, ok := attrs[name]; !ok {
				return nil, ffdc.TypeError(methodName, name, "%s has no attribute %q", req.TypeName, name)
			}
		}
		v, _ := req.MatchProperties.Get(name)
		m := &propertyMatcher{name: name, value: v}
		if s, ok := req.MatchProperties.GetString(name); ok {
			re, err := regexp.Compile("^(?:" + s + ")$")
			if err != nil {
				return nil, ffdc.InvalidParameter(methodName, name, "invalid search pattern %q: %v", s, err)
			}
			m.re = re
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

func matchAll(matchers []*propertyMatcher, criteria omrs.MatchCriteria, props *omrs.InstanceProperties) bool {
	if len(matchers) == 0 {
		return true
	}
	n := 0
	for _, m := range matchers {
		if m.matches(props) {
			n++
		}
	}
	switch criteria {
	case omrs.MatchAny:
		return n > 0
	case omrs.MatchNone:
		return n == 0
	default:
		return n == len(matchers)
	}
}

// FindEntities returns a page of the entities matching req, sorted by
// qualified name and GUID. It returns an empty slice if nothing matches.
func (r *Repository) FindEntities(req FindRequest) ([]*omrs.EntityDetail, error) {
	const methodName = "FindEntities"
	if req.StartFrom < 0 {
		return nil, ffdc.InvalidParameter(methodName, "startFrom", "negative start index %d", req.StartFrom)
	}
	if req.PageSize < 0 {
		return nil, ffdc.InvalidParameter(methodName, "pageSize", "negative page size %d", req.PageSize)
	}
	if req.PageSize > r.opts.MaxPageSize {
		return nil, ffdc.InvalidParameter(methodName, "pageSize",
			"page size %d exceeds the maximum of %d", req.PageSize, r.opts.MaxPageSize)
	}
	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = r.opts.MaxPageSize
	}
	if req.TypeName != "" {
		if _, ok := r.types.Entity(req.TypeName); !ok {
			return nil, ffdc.TypeError(methodName, "typeName", "unknown entity type %q", req.TypeName)
		}
	}
	matchers, err := r.compileMatchers(methodName, &req)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	var found []*omrs.EntityDetail
	for _, e := range r.entities {
		if req.TypeName != "" && !r.types.IsSubtypeOf(e.TypeName, req.TypeName) {
			continue
		}
		if req.Classification != "" && e.Classification(req.Classification) == nil {
			continue
		}
		if matchAll(matchers, req.MatchCriteria, e.Properties) {
			found = append(found, e.Clone())
		}
	}
	r.mu.RUnlock()

	sortEntities(found)
	if req.StartFrom >= len(found) {
		return []*omrs.EntityDetail{}, nil
	}
	end := min(req.StartFrom+pageSize, len(found))
	return found[req.StartFrom:end], nil
}

// FindEntitiesByProperty is a shorthand for FindEntities without a classification filter.
func (r *Repository) FindEntitiesByProperty(typeName string, match *omrs.InstanceProperties, criteria omrs.MatchCriteria, startFrom, pageSize int) ([]*omrs.EntityDetail, error) {
	return r.FindEntities(FindRequest{
		TypeName:        typeName,
		MatchProperties: match,
		MatchCriteria:   criteria,
		StartFrom:       startFrom,
		PageSize:        pageSize,
	})
}
