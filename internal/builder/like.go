package builder

import (
	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/omrs"
)

// LikeBuilder builds Like entities. A like has no properties of its own.
type LikeBuilder struct {
	RootBuilder
	isPublic bool
}

func NewLikeBuilder(helper RepositoryHelper, l *beans.Like) *LikeBuilder {
	return &LikeBuilder{
		RootBuilder: newRootBuilder(helper, mapper.LikeTypeName, &l.ElementHeader),
		isPublic:    l.IsPublic,
	}
}

// RelationshipProperties returns the properties of the AttachedLike relationship.
func (b *LikeBuilder) RelationshipProperties(methodName string) *omrs.InstanceProperties {
	return b.helper.AddBoolean(nil, mapper.IsPublicPropertyName, b.isPublic)
}
