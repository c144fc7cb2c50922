// Package handler implements the metadata server API on top of the
// repository. Handlers validate their parameters, build instance
// properties with the builders and convert stored entities back to beans.
package handler

import (
	"errors"
	"fmt"

	"github.com/dnswlt/egeria/internal/client"
	"github.com/dnswlt/egeria/internal/ffdc"
	"github.com/dnswlt/egeria/internal/omrs"
	"github.com/dnswlt/egeria/internal/repohelper"
	"github.com/dnswlt/egeria/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ client.API = (*Service)(nil)

// Service aggregates the asset, connection, feedback, schema and
// software server handlers.
type Service struct {
	repo   *repository.Repository
	helper *repohelper.Helper
	logger *zap.Logger
	// newGUID generates the unique part of qualified names the server assigns.
	newGUID func() string
}

func NewService(repo *repository.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:    repo,
		helper:  repohelper.New(repo.Types()),
		logger:  logger,
		newGUID: uuid.NewString,
	}
}

// Repository returns the repository the service operates on.
func (s *Service) Repository() *repository.Repository {
	return s.repo
}

// entityOfType returns the entity with the given GUID. It fails if the entity
// does not exist or is not of type typeName or one of its subtypes.
func (s *Service) entityOfType(methodName, param, guid, typeName string) (*omrs.EntityDetail, error) {
	if err := ffdc.ValidateGUID(methodName, param, guid); err != nil {
		return nil, err
	}
	e, err := s.repo.GetEntity(guid)
	if errors.Is(err, ffdc.ErrNotFound) {
		return nil, ffdc.NotFound(methodName, param, "no %s with GUID %s", typeName, guid)
	}
	if err != nil {
		return nil, err
	}
	if !s.repo.Types().IsSubtypeOf(e.TypeName, typeName) {
		return nil, ffdc.InvalidParameter(methodName, param,
			"element %s is a %s, not a %s", guid, e.TypeName, typeName)
	}
	return e, nil
}

// checkType verifies that typeName, taken from a bean, names super or one of its subtypes.
func (s *Service) checkType(methodName, typeName, super string) error {
	if _, ok := s.repo.Types().Entity(typeName); !ok {
		return ffdc.TypeError(methodName, "typeName", "unknown entity type %q", typeName)
	}
	if !s.repo.Types().IsSubtypeOf(typeName, super) {
		return ffdc.TypeError(methodName, "typeName", "%s is not a subtype of %s", typeName, super)
	}
	return nil
}

func requireBean[T any](methodName, param string, bean *T) error {
	if bean == nil {
		return ffdc.InvalidParameter(methodName, param, "no %s given", param)
	}
	return nil
}

// generatedQualifiedName returns a unique qualified name for elements the
// caller does not name, e.g. comments.
func (s *Service) generatedQualifiedName(typeName string) string {
	return fmt.Sprintf("%s::%s", typeName, s.newGUID())
}

// attached returns the entities at end 2 of the relationships of the given
// type that have guid at end 1, along with the relationships.
func (s *Service) attached(guid, relationshipType string) ([]*omrs.EntityDetail, []*omrs.Relationship, error) {
	all, err := s.repo.GetRelationships(guid, relationshipType)
	if err != nil {
		return nil, nil, err
	}
	var entities []*omrs.EntityDetail
	var rels []*omrs.Relationship
	for _, rel := range all {
		if rel.End1GUID != guid {
			continue
		}
		e, err := s.repo.GetEntity(rel.End2GUID)
		if err != nil {
			return nil, nil, err
		}
		entities = append(entities, e)
		rels = append(rels, rel)
	}
	return entities, rels, nil
}
