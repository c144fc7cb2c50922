package handler

import (
	"cmp"
	"context"
	"slices"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/builder"
	"github.com/dnswlt/egeria/internal/ffdc"
	"github.com/dnswlt/egeria/internal/mapper"
)

// SetAssetSchemaType creates the schema type and links it to the asset.
// An asset has at most one schema type.
func (s *Service) SetAssetSchemaType(ctx context.Context, userID, assetGUID string, schemaType *beans.SchemaType) (string, error) {
	const methodName = "SetAssetSchemaType"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return "", err
	}
	if err := requireBean(methodName, "schemaType", schemaType); err != nil {
		return "", err
	}
	if err := ffdc.ValidateName(methodName, "qualifiedName", schemaType.QualifiedName); err != nil {
		return "", err
	}
	if _, err := s.entityOfType(methodName, "assetGUID", assetGUID, mapper.AssetTypeName); err != nil {
		return "", err
	}
	existing, _, err := s.attached(assetGUID, mapper.AssetSchemaTypeRelationshipName)
	if err != nil {
		return "", err
	}
	if len(existing) > 0 {
		return "", ffdc.InvalidParameter(methodName, "assetGUID",
			"asset %s already has schema type %s", assetGUID, existing[0].GUID)
	}
	b := builder.NewSchemaTypeBuilder(s.helper, schemaType)
	if err := s.checkType(methodName, b.TypeName(), mapper.SchemaTypeTypeName); err != nil {
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
	if _, err := s.repo.CreateRelationship(userID, mapper.AssetSchemaTypeRelationshipName, assetGUID, e.GUID, nil); err != nil {
		return "", err
	}
	return e.GUID, nil
}

// AddSchemaAttribute creates the attribute and adds it to the complex schema type.
func (s *Service) AddSchemaAttribute(ctx context.Context, userID, schemaTypeGUID string, attribute *beans.SchemaAttribute) (string, error) {
	const methodName = "AddSchemaAttribute"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return "", err
	}
	if err := requireBean(methodName, "attribute", attribute); err != nil {
		return "", err
	}
	if err := ffdc.ValidateName(methodName, "qualifiedName", attribute.QualifiedName); err != nil {
		return "", err
	}
	if _, err := s.entityOfType(methodName, "schemaTypeGUID", schemaTypeGUID, mapper.ComplexSchemaTypeTypeName); err != nil {
		return "", err
	}
	b := builder.NewSchemaAttributeBuilder(s.helper, attribute)
	if err := s.checkType(methodName, b.TypeName(), mapper.SchemaAttributeTypeName); err != nil {
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
	if _, err := s.repo.CreateRelationship(userID, mapper.AttributeForSchemaRelationshipName, schemaTypeGUID, e.GUID, nil); err != nil {
		return "", err
	}
	return e.GUID, nil
}

func (s *Service) GetSchemaAttributes(ctx context.Context, userID, schemaTypeGUID string) ([]*beans.SchemaAttribute, error) {
	const methodName = "GetSchemaAttributes"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return nil, err
	}
	if _, err := s.entityOfType(methodName, "schemaTypeGUID", schemaTypeGUID, mapper.ComplexSchemaTypeTypeName); err != nil {
		return nil, err
	}
	es, _, err := s.attached(schemaTypeGUID, mapper.AttributeForSchemaRelationshipName)
	if err != nil {
		return nil, err
	}
	result := make([]*beans.SchemaAttribute, len(es))
	for i, e := range es {
		result[i] = schemaAttributeFromEntity(e)
	}
	slices.SortStableFunc(result, func(a, b *beans.SchemaAttribute) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return result, nil
}
