package handler

import (
	"context"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/builder"
	"github.com/dnswlt/egeria/internal/ffdc"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/omrs"
)

// Feedback can be attached to any Referenceable.

func (s *Service) feedbackAnchor(methodName, userID, elementGUID string) error {
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return err
	}
	_, err := s.entityOfType(methodName, "elementGUID", elementGUID, mapper.ReferenceableTypeName)
	return err
}

func (s *Service) AddComment(ctx context.Context, userID, elementGUID string, comment *beans.Comment) (string, error) {
	const methodName = "AddComment"
	if err := s.feedbackAnchor(methodName, userID, elementGUID); err != nil {
		return "", err
	}
	if err := requireBean(methodName, "comment", comment); err != nil {
		return "", err
	}
	if err := ffdc.ValidateName(methodName, "text", comment.Text); err != nil {
		return "", err
	}
	c := *comment
	if c.QualifiedName == "" {
		c.QualifiedName = s.generatedQualifiedName(mapper.CommentTypeName)
	}
	b := builder.NewCommentBuilder(s.helper, &c)
	if err := s.checkType(methodName, b.TypeName(), mapper.CommentTypeName); err != nil {
		return "", err
	}
	props, err := b.InstanceProperties(methodName)
	if err != nil {
		return "", err
	}
	classifications, err := b.Classifications(methodName)
	if err != nil {
		return "", err
	}
	e, err := s.repo.CreateEntity(userID, b.TypeName(), props, classifications)
	if err != nil {
		return "", err
	}
	if _, err := s.repo.CreateRelationship(userID, mapper.AttachedCommentRelationshipName, elementGUID, e.GUID, b.RelationshipProperties(methodName)); err != nil {
		return "", err
	}
	return e.GUID, nil
}

// userFeedback returns the entity and relationship of type relType that
// userID attached to elementGUID, or nil if there is none.
func (s *Service) userFeedback(elementGUID, relType, userID string) (*omrs.EntityDetail, *omrs.Relationship, error) {
	es, rels, err := s.attached(elementGUID, relType)
	if err != nil {
		return nil, nil, err
	}
	for i, e := range es {
		if e.CreatedBy == userID {
			return e, rels[i], nil
		}
	}
	return nil, nil, nil
}

func (s *Service) AddRating(ctx context.Context, userID, elementGUID string, rating *beans.Rating) (string, error) {
	const methodName = "AddRating"
	if err := s.feedbackAnchor(methodName, userID, elementGUID); err != nil {
		return "", err
	}
	if err := requireBean(methodName, "rating", rating); err != nil {
		return "", err
	}
	b := builder.NewRatingBuilder(s.helper, rating)
	if err := s.checkType(methodName, b.TypeName(), mapper.RatingTypeName); err != nil {
		return "", err
	}
	props, err := b.InstanceProperties(methodName)
	if err != nil {
		return "", err
	}
	existing, rel, err := s.userFeedback(elementGUID, mapper.AttachedRatingRelationshipName, userID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if _, err := s.repo.UpdateEntityProperties(userID, existing.GUID, props); err != nil {
			return "", err
		}
		if !rel.Properties.Equal(b.RelationshipProperties(methodName)) {
			if err := s.repo.DeleteRelationship(userID, rel.GUID); err != nil {
				return "", err
			}
			if _, err := s.repo.CreateRelationship(userID, mapper.AttachedRatingRelationshipName, elementGUID, existing.GUID, b.RelationshipProperties(methodName)); err != nil {
				return "", err
			}
		}
		return existing.GUID, nil
	}
	classifications, err := b.Classifications(methodName)
	if err != nil {
		return "", err
	}
	e, err := s.repo.CreateEntity(userID, b.TypeName(), props, classifications)
	if err != nil {
		return "", err
	}
	if _, err := s.repo.CreateRelationship(userID, mapper.AttachedRatingRelationshipName, elementGUID, e.GUID, b.RelationshipProperties(methodName)); err != nil {
		return "", err
	}
	return e.GUID, nil
}

func (s *Service) AddLike(ctx context.Context, userID, elementGUID string, like *beans.Like) (string, error) {
	const methodName = "AddLike"
	if err := s.feedbackAnchor(methodName, userID, elementGUID); err != nil {
		return "", err
	}
	if like == nil {
		like = &beans.Like{}
	}
	existing, _, err := s.userFeedback(elementGUID, mapper.AttachedLikeRelationshipName, userID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.GUID, nil
	}
	b := builder.NewLikeBuilder(s.helper, like)
	if err := s.checkType(methodName, b.TypeName(), mapper.LikeTypeName); err != nil {
		return "", err
	}
	props, err := b.InstanceProperties(methodName)
	if err != nil {
		return "", err
	}
	classifications, err := b.Classifications(methodName)
	if err != nil {
		return "", err
	}
	e, err := s.repo.CreateEntity(userID, b.TypeName(), props, classifications)
	if err != nil {
		return "", err
	}
	if _, err := s.repo.CreateRelationship(userID, mapper.AttachedLikeRelationshipName, elementGUID, e.GUID, b.RelationshipProperties(methodName)); err != nil {
		return "", err
	}
	return e.GUID, nil
}

func (s *Service) findTags(methodName string, b *builder.InformalTagBuilder, startFrom, pageSize int) ([]*omrs.EntityDetail, error) {
	return s.repo.FindEntitiesByProperty(mapper.InformalTagTypeName, b.NameProperties(methodName), omrs.MatchAll, startFrom, pageSize)
}

// AddTag reuses an existing tag with the same name. Attaching a tag to
// an element twice has no effect.
func (s *Service) AddTag(ctx context.Context, userID, elementGUID string, tag *beans.InformalTag) (string, error) {
	const methodName = "AddTag"
	if err := s.feedbackAnchor(methodName, userID, elementGUID); err != nil {
		return "", err
	}
	if err := requireBean(methodName, "tag", tag); err != nil {
		return "", err
	}
	if err := ffdc.ValidateName(methodName, "name", tag.Name); err != nil {
		return "", err
	}
	b := builder.NewInformalTagBuilder(s.helper, tag)
	if err := s.checkType(methodName, b.TypeName(), mapper.InformalTagTypeName); err != nil {
		return "", err
	}
	found, err := s.findTags(methodName, b, 0, 1)
	if err != nil {
		return "", err
	}
	var tagGUID string
	if len(found) > 0 {
		tagGUID = found[0].GUID
		attached, _, err := s.attached(elementGUID, mapper.AttachedTagRelationshipName)
		if err != nil {
			return "", err
		}
		for _, e := range attached {
			if e.GUID == tagGUID {
				return tagGUID, nil
			}
		}
	} else {
		props, err := b.InstanceProperties(methodName)
		if err != nil {
			return "", err
		}
		classifications, err := b.Classifications(methodName)
		if err != nil {
			return "", err
		}
		e, err := s.repo.CreateEntity(userID, b.TypeName(), props, classifications)
		if err != nil {
			return "", err
		}
		tagGUID = e.GUID
	}
	if _, err := s.repo.CreateRelationship(userID, mapper.AttachedTagRelationshipName, elementGUID, tagGUID, b.RelationshipProperties(methodName)); err != nil {
		return "", err
	}
	return tagGUID, nil
}

func (s *Service) FindTagsByName(ctx context.Context, userID, name string, startFrom, pageSize int) ([]*beans.InformalTag, error) {
	const methodName = "FindTagsByName"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return nil, err
	}
	if err := ffdc.ValidateName(methodName, "name", name); err != nil {
		return nil, err
	}
	b := builder.NewInformalTagBuilder(s.helper, &beans.InformalTag{Name: name})
	es, err := s.findTags(methodName, b, startFrom, pageSize)
	if err != nil {
		return nil, err
	}
	result := make([]*beans.InformalTag, len(es))
	for i, e := range es {
		result[i] = tagFromEntity(e, nil)
	}
	return result, nil
}

// GetFeedback returns the comments, ratings, likes and tags attached to the element.
func (s *Service) GetFeedback(ctx context.Context, userID, elementGUID string) (*beans.FeedbackResponse, error) {
	const methodName = "GetFeedback"
	if err := s.feedbackAnchor(methodName, userID, elementGUID); err != nil {
		return nil, err
	}
	resp := &beans.FeedbackResponse{
		Comments: []*beans.Comment{},
		Ratings:  []*beans.Rating{},
		Likes:    []*beans.Like{},
		Tags:     []*beans.InformalTag{},
	}
	es, rels, err := s.attached(elementGUID, mapper.AttachedCommentRelationshipName)
	if err != nil {
		return nil, err
	}
	for i, e := range es {
		resp.Comments = append(resp.Comments, commentFromEntity(e, rels[i]))
	}
	if es, rels, err = s.attached(elementGUID, mapper.AttachedRatingRelationshipName); err != nil {
		return nil, err
	}
	for i, e := range es {
		resp.Ratings = append(resp.Ratings, ratingFromEntity(e, rels[i]))
	}
	if es, rels, err = s.attached(elementGUID, mapper.AttachedLikeRelationshipName); err != nil {
		return nil, err
	}
	for i, e := range es {
		resp.Likes = append(resp.Likes, likeFromEntity(e, rels[i]))
	}
	if es, rels, err = s.attached(elementGUID, mapper.AttachedTagRelationshipName); err != nil {
		return nil, err
	}
	for i, e := range es {
		resp.Tags = append(resp.Tags, tagFromEntity(e, rels[i]))
	}
	return resp, nil
}
