package handler

import (
	"context"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/builder"
	"github.com/dnswlt/egeria/internal/ffdc"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/omrs"
)

type capabilityBuilder interface {
	TypeName() string
	InstanceProperties(methodName string) (*omrs.InstanceProperties, error)
	Classifications(methodName string) ([]*omrs.Classification, error)
}

func (s *Service) createCapability(methodName, userID string, b capabilityBuilder) (string, error) {
	if err := s.checkType(methodName, b.TypeName(), mapper.SoftwareServerCapabilityTypeName); err != nil {
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
	return e.GUID, nil
}

func (s *Service) CreateSoftwareServerCapability(ctx context.Context, userID string, capability *beans.SoftwareServerCapability) (string, error) {
	const methodName = "CreateSoftwareServerCapability"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return "", err
	}
	if err := requireBean(methodName, "capability", capability); err != nil {
		return "", err
	}
	if err := ffdc.ValidateName(methodName, "qualifiedName", capability.QualifiedName); err != nil {
		return "", err
	}
	return s.createCapability(methodName, userID, builder.NewSoftwareServerCapabilityBuilder(s.helper, capability))
}

// CreateFileSystem creates a software server capability classified as FileSystem.
func (s *Service) CreateFileSystem(ctx context.Context, userID string, fs *beans.FileSystem) (string, error) {
	const methodName = "CreateFileSystem"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return "", err
	}
	if err := requireBean(methodName, "fileSystem", fs); err != nil {
		return "", err
	}
	if err := ffdc.ValidateName(methodName, "qualifiedName", fs.QualifiedName); err != nil {
		return "", err
	}
	return s.createCapability(methodName, userID, builder.NewFileSystemBuilder(s.helper, fs))
}
