package beans

import (
	"fmt"
)

// The enums below use their zero value for "not set". They marshal as
// their symbolic names.

type CommentType int

const (
	CommentTypeGeneralComment CommentType = iota + 1
	CommentTypeQuestion
	CommentTypeAnswer
	CommentTypeSuggestion
	CommentTypeUsageExperience
	CommentTypeRequirement
	CommentTypeOther
)

var commentTypeNames = []string{
	"", "GeneralComment", "Question", "Answer", "Suggestion", "UsageExperience", "Requirement", "Other",
}

type StarRating int

const (
	StarRatingNotRecommended StarRating = iota + 1
	StarRatingOneStar
	StarRatingTwoStar
	StarRatingThreeStar
	StarRatingFourStar
	StarRatingFiveStar
)

var starRatingNames = []string{
	"", "NotRecommended", "OneStar", "TwoStar", "ThreeStar", "FourStar", "FiveStar",
}

type AssetOwnerType int

const (
	AssetOwnerTypeUserID AssetOwnerType = iota + 1
	AssetOwnerTypeProfileID
	AssetOwnerTypeOther
)

var assetOwnerTypeNames = []string{"", "UserId", "ProfileId", "Other"}

type DataItemSortOrder int

const (
	DataItemSortOrderUnknown DataItemSortOrder = iota + 1
	DataItemSortOrderAscending
	DataItemSortOrderDescending
	DataItemSortOrderUnsorted
)

var dataItemSortOrderNames = []string{"", "Unknown", "Ascending", "Descending", "Unsorted"}

func enumName(names []string, v int) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%d", v)
}

func parseEnum(names []string, typeName string, text []byte) (int, error) {
	s := string(text)
	if s == "" {
		return 0, nil
	}
	for i, n := range names {
		if i > 0 && n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid %s %q", typeName, s)
}

func (c CommentType) String() string { return enumName(commentTypeNames, int(c)) }

func (c CommentType) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *CommentType) UnmarshalText(text []byte) error {
	v, err := parseEnum(commentTypeNames, "comment type", text)
	*c = CommentType(v)
	return err
}

func (s StarRating) String() string { return enumName(starRatingNames, int(s)) }

func (s StarRating) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *StarRating) UnmarshalText(text []byte) error {
	v, err := parseEnum(starRatingNames, "star rating", text)
	*s = StarRating(v)
	return err
}

func (o AssetOwnerType) String() string { return enumName(assetOwnerTypeNames, int(o)) }

func (o AssetOwnerType) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *AssetOwnerType) UnmarshalText(text []byte) error {
	v, err := parseEnum(assetOwnerTypeNames, "owner type", text)
	*o = AssetOwnerType(v)
	return err
}

func (d DataItemSortOrder) String() string { return enumName(dataItemSortOrderNames, int(d)) }

func (d DataItemSortOrder) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DataItemSortOrder) UnmarshalText(text []byte) error {
	v, err := parseEnum(dataItemSortOrderNames, "sort order", text)
	*d = DataItemSortOrder(v)
	return err
}
