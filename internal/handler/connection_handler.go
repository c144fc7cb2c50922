package handler

import (
	"context"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/builder"
	"github.com/dnswlt/egeria/internal/ffdc"
	"github.com/dnswlt/egeria/internal/mapper"
	"go.uber.org/zap"
)

func (s *Service) CreateEndpoint(ctx context.Context, userID string, endpoint *beans.Endpoint) (string, error) {
	const methodName = "CreateEndpoint"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return "", err
	}
	if err := requireBean(methodName, "endpoint", endpoint); err != nil {
		return "", err
	}
	if err := ffdc.ValidateName(methodName, "qualifiedName", endpoint.QualifiedName); err != nil {
		return "", err
	}
	b := builder.NewEndpointBuilder(s.helper, endpoint)
	if err := s.checkType(methodName, b.TypeName(), mapper.EndpointTypeName); err != nil {
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

// CreateConnection creates a connection and optionally links it to an
// existing endpoint and the asset it gives access to. The endpoint and
// asset are checked before anything is created.
func (s *Service) CreateConnection(ctx context.Context, userID string, req *beans.ConnectionRequest) (string, error) {
	const methodName = "CreateConnection"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return "", err
	}
	if req == nil || req.Connection == nil {
		return "", ffdc.InvalidParameter(methodName, "connection", "no connection given")
	}
	if err := ffdc.ValidateName(methodName, "qualifiedName", req.Connection.QualifiedName); err != nil {
		return "", err
	}
	if req.EndpointGUID != "" {
		if _, err := s.entityOfType(methodName, "endpointGUID", req.EndpointGUID, mapper.EndpointTypeName); err != nil {
			return "", err
		}
	}
	if req.AssetGUID != "" {
		if _, err := s.entityOfType(methodName, "assetGUID", req.AssetGUID, mapper.AssetTypeName); err != nil {
			return "", err
		}
	}
	b := builder.NewConnectionBuilder(s.helper, req.Connection)
	if err := s.checkType(methodName, b.TypeName(), mapper.ConnectionTypeName); err != nil {
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
	if req.EndpointGUID != "" {
		if _, err := s.repo.CreateRelationship(userID, mapper.ConnectionEndpointRelationshipName, req.EndpointGUID, e.GUID, nil); err != nil {
			return "", err
		}
	}
	if req.AssetGUID != "" {
		relProps := b.AssetRelationshipProperties(methodName, req.AssetSummary)
		if _, err := s.repo.CreateRelationship(userID, mapper.ConnectionToAssetRelationshipName, e.GUID, req.AssetGUID, relProps); err != nil {
			return "", err
		}
	}
	s.logger.Info("Created connection",
		zap.String("guid", e.GUID),
		zap.String("qualifiedName", req.Connection.QualifiedName),
		zap.String("endpointGUID", req.EndpointGUID),
		zap.String("assetGUID", req.AssetGUID),
		zap.String("userId", userID))
	return e.GUID, nil
}
