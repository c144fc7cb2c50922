package builder

import (
	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/omrs"
)

type CommentBuilder struct {
	ReferenceableBuilder
	text        string
	commentType beans.CommentType
	isPublic    bool
}

func NewCommentBuilder(helper RepositoryHelper, c *beans.Comment) *CommentBuilder {
	return &CommentBuilder{
		ReferenceableBuilder: newReferenceableBuilder(helper, mapper.CommentTypeName, &c.Referenceable),
		text:                 c.Text,
		commentType:          c.CommentType,
		isPublic:             c.IsPublic,
	}
}

func (b *CommentBuilder) InstanceProperties(methodName string) (*omrs.InstanceProperties, error) {
	props, err := b.ReferenceableBuilder.InstanceProperties(methodName)
	if err != nil {
		return nil, err
	}
	props = b.helper.AddString(props, mapper.CommentTextPropertyName, b.text)
	return addEnum(b.helper, methodName, props, mapper.CommentTypePropertyName, CommentTypes, b.commentType)
}

// RelationshipProperties returns the properties of the AttachedComment relationship.
func (b *CommentBuilder) RelationshipProperties(methodName string) *omrs.InstanceProperties {
	return b.helper.AddBoolean(nil, mapper.IsPublicPropertyName, b.isPublic)
}
