package mapper

const (
	LikeTypeGUID = "deaa5ca0-47a0-483d-b943-d91c76744e01"
	LikeTypeName = "Like"

	AttachedLikeRelationshipName = "AttachedLike"
)
