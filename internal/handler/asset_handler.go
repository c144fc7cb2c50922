package handler

import (
	"context"
	"slices"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/builder"
	"github.com/dnswlt/egeria/internal/ffdc"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/omrs"
	"go.uber.org/zap"
)

func (s *Service) CreateAsset(ctx context.Context, userID string, asset *beans.Asset) (string, error) {
	const methodName = "CreateAsset"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return "", err
	}
	if err := requireBean(methodName, "asset", asset); err != nil {
		return "", err
	}
	if err := ffdc.ValidateName(methodName, "qualifiedName", asset.QualifiedName); err != nil {
		return "", err
	}
	b := builder.NewAssetBuilder(s.helper, asset)
	if err := s.checkType(methodName, b.TypeName(), mapper.AssetTypeName); err != nil {
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
	s.logger.Info("Created asset",
		zap.String("guid", e.GUID),
		zap.String("typeName", e.TypeName),
		zap.String("qualifiedName", asset.QualifiedName),
		zap.String("userId", userID))
	return e.GUID, nil
}

func (s *Service) GetAsset(ctx context.Context, userID, assetGUID string) (*beans.Asset, error) {
	const methodName = "GetAsset"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return nil, err
	}
	e, err := s.entityOfType(methodName, "assetGUID", assetGUID, mapper.AssetTypeName)
	if err != nil {
		return nil, err
	}
	return assetFromEntity(e), nil
}

func (s *Service) FindAssetsByName(ctx context.Context, userID, name string, startFrom, pageSize int) ([]*beans.Asset, error) {
	const methodName = "FindAssetsByName"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return nil, err
	}
	if err := ffdc.ValidateName(methodName, "name", name); err != nil {
		return nil, err
	}
	b := builder.NewAssetBuilder(s.helper, &beans.Asset{
		Referenceable: beans.Referenceable{QualifiedName: name},
		Name:          name,
	})
	es, err := s.repo.FindEntitiesByProperty(mapper.AssetTypeName, b.NameProperties(methodName), omrs.MatchAny, startFrom, pageSize)
	if err != nil {
		return nil, err
	}
	result := make([]*beans.Asset, len(es))
	for i, e := range es {
		result[i] = assetFromEntity(e)
	}
	return result, nil
}

// managedAssetClassifications are derived from asset fields. UpdateAsset
// removes those the updated asset does not set.
var managedAssetClassifications = []string{
	mapper.AssetZoneMembershipClassificationName,
	mapper.AssetOwnershipClassificationName,
	mapper.AssetOriginClassificationName,
}

// UpdateAsset replaces the properties of the asset and reclassifies it
// with the zones, ownership and origin given in asset. Zones, ownership
// and origin that asset leaves unset are removed. Other classifications
// are added or updated but never removed. The asset's type cannot be
// changed. Either all changes are applied or none.
func (s *Service) UpdateAsset(ctx context.Context, userID, assetGUID string, asset *beans.Asset) error {
	const methodName = "UpdateAsset"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return err
	}
	if err := requireBean(methodName, "asset", asset); err != nil {
		return err
	}
	if err := ffdc.ValidateName(methodName, "qualifiedName", asset.QualifiedName); err != nil {
		return err
	}
	existing, err := s.entityOfType(methodName, "assetGUID", assetGUID, mapper.AssetTypeName)
	if err != nil {
		return err
	}
	if asset.TypeName != "" && asset.TypeName != existing.TypeName {
		return ffdc.InvalidParameter(methodName, "typeName",
			"cannot change the type of asset %s from %s to %s", assetGUID, existing.TypeName, asset.TypeName)
	}
	updated := *asset
	updated.TypeName = existing.TypeName
	b := builder.NewAssetBuilder(s.helper, &updated)
	props, err := b.InstanceProperties(methodName)
	if err != nil {
		return err
	}
	classifications, err := b.Classifications(methodName)
	if err != nil {
		return err
	}
	_, err = s.repo.UpdateEntity(userID, assetGUID, props, classifications, managedAssetClassifications)
	return err
}

// feedbackRelationships are the relationships whose far end is deleted along with an asset.
var feedbackRelationships = []string{
	mapper.AttachedCommentRelationshipName,
	mapper.AttachedRatingRelationshipName,
	mapper.AttachedLikeRelationshipName,
}

func (s *Service) DeleteAsset(ctx context.Context, userID, assetGUID string) error {
	const methodName = "DeleteAsset"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return err
	}
	if _, err := s.entityOfType(methodName, "assetGUID", assetGUID, mapper.AssetTypeName); err != nil {
		return err
	}
	var anchored []string
	for _, relType := range feedbackRelationships {
		es, _, err := s.attached(assetGUID, relType)
		if err != nil {
			return err
		}
		for _, e := range es {
			anchored = append(anchored, e.GUID)
		}
	}
	if err := s.repo.DeleteEntity(userID, assetGUID, true); err != nil {
		return err
	}
	for _, guid := range anchored {
		if err := s.repo.DeleteEntity(userID, guid, true); err != nil {
			return err
		}
	}
	s.logger.Info("Deleted asset",
		zap.String("guid", assetGUID),
		zap.Int("feedback", len(anchored)),
		zap.String("userId", userID))
	return nil
}

// AddAssetToZones adds zones to the asset's zone membership. Zones the
// asset is already a member of are ignored.
func (s *Service) AddAssetToZones(ctx context.Context, userID, assetGUID string, zones []string) error {
	const methodName = "AddAssetToZones"
	if err := ffdc.ValidateUserID(methodName, userID); err != nil {
		return err
	}
	if len(zones) == 0 {
		return ffdc.InvalidParameter(methodName, "zones", "no zones given")
	}
	for _, z := range zones {
		if err := ffdc.ValidateName(methodName, "zones", z); err != nil {
			return err
		}
	}
	e, err := s.entityOfType(methodName, "assetGUID", assetGUID, mapper.AssetTypeName)
	if err != nil {
		return err
	}
	members := assetFromEntity(e).Zones
	for _, z := range zones {
		if !slices.Contains(members, z) {
			members = append(members, z)
		}
	}
	b := builder.NewAssetBuilder(s.helper, &beans.Asset{Zones: members})
	_, err = s.repo.ClassifyEntity(userID, assetGUID, mapper.AssetZoneMembershipClassificationName, b.ZoneMembershipProperties(methodName))
	return err
}
