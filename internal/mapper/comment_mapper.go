package mapper

const (
	CommentTypeGUID = "1a226073-9c84-40e4-a422-fbddb9b84278"
	CommentTypeName = "Comment"

	CommentTextPropertyName = "text"
	CommentTypePropertyName = "type"
	CommentTypeEnumTypeName = "CommentType"

	AttachedCommentRelationshipName = "AttachedComment"
)
