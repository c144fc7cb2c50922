package builder

import (
	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/omrs"
)

// RatingBuilder builds Rating entities. Ratings are not Referenceable.
type RatingBuilder struct {
	RootBuilder
	stars    beans.StarRating
	review   string
	isPublic bool
}

func NewRatingBuilder(helper RepositoryHelper, r *beans.Rating) *RatingBuilder {
	return &RatingBuilder{
		RootBuilder: newRootBuilder(helper, mapper.RatingTypeName, &r.ElementHeader),
		stars:       r.Stars,
		review:      r.Review,
		isPublic:    r.IsPublic,
	}
}

func (b *RatingBuilder) InstanceProperties(methodName string) (*omrs.InstanceProperties, error) {
	props, err := b.RootBuilder.InstanceProperties(methodName)
	if err != nil {
		return nil, err
	}
	props, err = addEnum(b.helper, methodName, props, mapper.StarsPropertyName, StarRatings, b.stars)
	if err != nil {
		return nil, err
	}
	return b.helper.AddString(props, mapper.ReviewPropertyName, b.review), nil
}

// RelationshipProperties returns the properties of the AttachedRating relationship.
func (b *RatingBuilder) RelationshipProperties(methodName string) *omrs.InstanceProperties {
	return b.helper.AddBoolean(nil, mapper.IsPublicPropertyName, b.isPublic)
}
