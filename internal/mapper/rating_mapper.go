package mapper

const (
	RatingTypeGUID = "7299d721-d17f-4562-8286-bcd451814478"
	RatingTypeName = "Rating"

	StarsPropertyName      = "stars"
	ReviewPropertyName     = "review"
	StarRatingEnumTypeName = "StarRating"

	AttachedRatingRelationshipName = "AttachedRating"
)
