package builder

import (
	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/ffdc"
	"github.com/dnswlt/egeria/internal/omrs"
)

// EnumElement is the repository representation of an enum value.
type EnumElement struct {
	Ordinal      int
	SymbolicName string
	Description  string
}

// The tables must agree with the enum definitions of the type catalogue.

var CommentTypes = map[beans.CommentType]EnumElement{
	beans.CommentTypeGeneralComment:  {0, "GeneralComment", "General comment about the associated element."},
	beans.CommentTypeQuestion:        {1, "Question", "A question."},
	beans.CommentTypeAnswer:          {2, "Answer", "An answer to a previously asked question."},
	beans.CommentTypeSuggestion:      {3, "Suggestion", "A suggestion for improvement."},
	beans.CommentTypeUsageExperience: {4, "UsageExperience", "Feedback relating to the use of the associated element."},
	beans.CommentTypeRequirement:     {5, "Requirement", "A requirement."},
	beans.CommentTypeOther:           {99, "Other", "Another type of comment."},
}

var StarRatings = map[beans.StarRating]EnumElement{
	beans.StarRatingNotRecommended: {0, "NotRecommended", "This content is not recommended."},
	beans.StarRatingOneStar:        {1, "OneStar", "One star rating."},
	beans.StarRatingTwoStar:        {2, "TwoStar", "Two star rating."},
	beans.StarRatingThreeStar:      {3, "ThreeStar", "Three star rating."},
	beans.StarRatingFourStar:       {4, "FourStar", "Four star rating."},
	beans.StarRatingFiveStar:       {5, "FiveStar", "Five star rating."},
}

var AssetOwnerTypes = map[beans.AssetOwnerType]EnumElement{
	beans.AssetOwnerTypeUserID:    {0, "UserId", "The owner is a user identifier."},
	beans.AssetOwnerTypeProfileID: {1, "ProfileId", "The owner is the unique identifier of a personal or team profile."},
	beans.AssetOwnerTypeOther:     {99, "Other", "The owner is described by some other type of identifier."},
}

var DataItemSortOrders = map[beans.DataItemSortOrder]EnumElement{
	beans.DataItemSortOrderUnknown:    {0, "Unknown", "The sort order is not specified."},
	beans.DataItemSortOrderAscending:  {1, "Ascending", "The attribute instances are organized so that the smallest value is first and the rest follow in ascending order."},
	beans.DataItemSortOrderDescending: {2, "Descending", "The attribute instances are organized so that the largest value is first and the rest follow in descending order."},
	beans.DataItemSortOrderUnsorted:   {3, "Unsorted", "The instances of the schema attribute may appear in any order."},
}

// addEnum adds the table entry for v to props. The zero value of E means
// "not set" and leaves props unchanged. Values missing from the table are
// rejected.
func addEnum[E ~int](helper RepositoryHelper, methodName string, props *omrs.InstanceProperties, name string, table map[E]EnumElement, v E) (*omrs.InstanceProperties, error) {
	if v == 0 {
		return props, nil
	}
	e, ok := table[v]
	if !ok {
		return props, ffdc.InvalidParameter(methodName, name, "unsupported value %d for property %s", int(v), name)
	}
	return helper.AddEnum(props, name, e.Ordinal, e.SymbolicName, e.Description), nil
}

// enumFromOrdinal is the reverse lookup of a table. The zero value is
// returned for unknown ordinals.
func enumFromOrdinal[E ~int](table map[E]EnumElement, ordinal int) (E, bool) {
	for k, e := range table {
		if e.Ordinal == ordinal {
			return k, true
		}
	}
	return 0, false
}

func CommentTypeFromOrdinal(ordinal int) (beans.CommentType, bool) {
	return enumFromOrdinal(CommentTypes, ordinal)
}

func StarRatingFromOrdinal(ordinal int) (beans.StarRating, bool) {
	return enumFromOrdinal(StarRatings, ordinal)
}

func AssetOwnerTypeFromOrdinal(ordinal int) (beans.AssetOwnerType, bool) {
	return enumFromOrdinal(AssetOwnerTypes, ordinal)
}

func DataItemSortOrderFromOrdinal(ordinal int) (beans.DataItemSortOrder, bool) {
	return enumFromOrdinal(DataItemSortOrders, ordinal)
}
