package builder

import (
	"errors"
	"testing"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/ffdc"
	"github.com/dnswlt/egeria/internal/omrs"
	"github.com/dnswlt/egeria/internal/repohelper"
	"github.com/dnswlt/egeria/internal/typedefs"
	"github.com/google/go-cmp/cmp"
)

var types = typedefs.MustLoad()

func newHelper() RepositoryHelper {
	return repohelper.New(types)
}

func ref(qn string) beans.Referenceable {
	return beans.Referenceable{QualifiedName: qn}
}

func mustProps(t *testing.T) func(*omrs.InstanceProperties, error) *omrs.InstanceProperties {
	t.Helper()
	return func(props *omrs.InstanceProperties, err error) *omrs.InstanceProperties {
		t.Helper()
		if err != nil {
			t.Fatalf("InstanceProperties failed: %v", err)
		}
		return props
	}
}

func classificationNames(cs []*omrs.Classification) []string {
	var names []string
	for _, c := range cs {
		names = append(names, c.Name)
	}
	return names
}

func TestBuilders_RequiredOnly(t *testing.T) {
	h := newHelper()
	const m = "TestBuilders_RequiredOnly"
	tests := []struct {
		name  string
		build func() (*omrs.InstanceProperties, error)
		want  []string
	}{
		{
			name:  "asset",
			build: func() (*omrs.InstanceProperties, error) { return NewAssetBuilder(h, &beans.Asset{Referenceable: ref("a")}).InstanceProperties(m) },
			want:  []string{"qualifiedName"},
		},
		{
			name: "connection",
			build: func() (*omrs.InstanceProperties, error) {
				return NewConnectionBuilder(h, &beans.Connection{Referenceable: ref("c")}).InstanceProperties(m)
			},
			want: []string{"qualifiedName"},
		},
		{
			name: "endpoint",
			build: func() (*omrs.InstanceProperties, error) {
				return NewEndpointBuilder(h, &beans.Endpoint{Referenceable: ref("e")}).InstanceProperties(m)
			},
			want: []string{"qualifiedName"},
		},
		{
			name: "comment",
			build: func() (*omrs.InstanceProperties, error) {
				return NewCommentBuilder(h, &beans.Comment{Referenceable: ref("c"), Text: "hi"}).InstanceProperties(m)
			},
			want: []string{"qualifiedName", "text"},
		},
		{
			name: "rating",
			build: func() (*omrs.InstanceProperties, error) {
				return NewRatingBuilder(h, &beans.Rating{Stars: beans.StarRatingTwoStar}).InstanceProperties(m)
			},
			want: []string{"stars"},
		},
		{
			name: "informal tag",
			build: func() (*omrs.InstanceProperties, error) {
				return NewInformalTagBuilder(h, &beans.InformalTag{Name: "pii"}).InstanceProperties(m)
			},
			want: []string{"tagName"},
		},
		{
			name: "schema type",
			build: func() (*omrs.InstanceProperties, error) {
				return NewSchemaTypeBuilder(h, &beans.SchemaType{Referenceable: ref("s")}).InstanceProperties(m)
			},
			want: []string{"qualifiedName"},
		},
		{
			name: "schema attribute",
			build: func() (*omrs.InstanceProperties, error) {
				return NewSchemaAttributeBuilder(h, &beans.SchemaAttribute{Referenceable: ref("s"), Name: "id"}).InstanceProperties(m)
			},
			want: []string{"qualifiedName", "name", "position", "minCardinality", "maxCardinality", "allowsDuplicateValues", "orderedValues"},
		},
		{
			name: "software server capability",
			build: func() (*omrs.InstanceProperties, error) {
				return NewSoftwareServerCapabilityBuilder(h, &beans.SoftwareServerCapability{Referenceable: ref("s")}).InstanceProperties(m)
			},
			want: []string{"qualifiedName"},
		},
		{
			name: "file system",
			build: func() (*omrs.InstanceProperties, error) {
				return NewFileSystemBuilder(h, &beans.FileSystem{SoftwareServerCapability: beans.SoftwareServerCapability{Referenceable: ref("f")}}).InstanceProperties(m)
			},
			want: []string{"qualifiedName"},
		},
		{
			name: "solution blueprint",
			build: func() (*omrs.InstanceProperties, error) {
				return NewSolutionBlueprintBuilder(h, &beans.SolutionBlueprint{Referenceable: ref("b")}).InstanceProperties(m)
			},
			want: []string{"qualifiedName"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			props := mustProps(t)(tc.build())
			if diff := cmp.Diff(tc.want, props.Names()); diff != "" {
				t.Errorf("Names() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLikeBuilder_NoProperties(t *testing.T) {
	b := NewLikeBuilder(newHelper(), &beans.Like{IsPublic: true})
	props := mustProps(t)(b.InstanceProperties("m"))
	if props.Len() != 0 {
		t.Errorf("Like properties = %s, want none", props)
	}
	if v, ok := b.RelationshipProperties("m").GetBool("isPublic"); !ok || !v {
		t.Errorf("isPublic = %v, %v", v, ok)
	}
}

func TestAssetBuilder_AllFields(t *testing.T) {
	a := &beans.Asset{
		Referenceable: beans.Referenceable{
			ElementHeader: beans.ElementHeader{
				TypeName:           "Host",
				ExtendedProperties: map[string]any{"operatingSystem": "Linux"},
			},
			QualifiedName:        "Host:h1",
			AdditionalProperties: map[string]string{"rack": "r7"},
		},
		Name:                   "h1",
		DisplayName:            "Host one",
		Description:            "The first host",
		Zones:                  []string{"infrastructure"},
		Owner:                  "garygeeke",
		OwnerType:              beans.AssetOwnerTypeUserID,
		OriginOrganizationGUID: "org-1",
	}
	b := NewAssetBuilder(newHelper(), a)
	if b.TypeName() != "Host" {
		t.Errorf("TypeName() = %q, want Host", b.TypeName())
	}

	props := mustProps(t)(b.InstanceProperties("m"))
	want := []string{"operatingSystem", "qualifiedName", "additionalProperties", "name", "displayName", "description"}
	if diff := cmp.Diff(want, props.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	cs, err := b.Classifications("m")
	if err != nil {
		t.Fatalf("Classifications failed: %v", err)
	}
	wantCs := []string{"AssetZoneMembership", "AssetOwnership", "AssetOrigin"}
	if diff := cmp.Diff(wantCs, classificationNames(cs)); diff != "" {
		t.Errorf("classification names mismatch (-want +got):\n%s", diff)
	}
	ownerType, ok := cs[1].Properties.GetEnum("ownerType")
	if !ok || ownerType.Ordinal != 0 || ownerType.SymbolicName != "UserId" {
		t.Errorf("ownerType = %+v, %v", ownerType, ok)
	}
}

func TestAssetBuilder_NoOptionalClassifications(t *testing.T) {
	b := NewAssetBuilder(newHelper(), &beans.Asset{Referenceable: ref("a")})
	cs, err := b.Classifications("m")
	if err != nil {
		t.Fatalf("Classifications failed: %v", err)
	}
	if len(cs) != 0 {
		t.Errorf("Classifications() = %v, want none", classificationNames(cs))
	}
	if p := b.ZoneMembershipProperties("m"); p != nil {
		t.Errorf("ZoneMembershipProperties() = %s, want nil", p)
	}
}

func TestAssetBuilder_IsolatedFromBean(t *testing.T) {
	a := &beans.Asset{Referenceable: ref("a"), Zones: []string{"z1"}}
	b := NewAssetBuilder(newHelper(), a)
	a.Zones[0] = "changed"
	a.Name = "changed"

	zones, _ := b.ZoneMembershipProperties("m").GetStringArray("zoneMembership")
	if diff := cmp.Diff([]string{"z1"}, zones); diff != "" {
		t.Errorf("zones changed with bean (-want +got):\n%s", diff)
	}
	p1 := mustProps(t)(b.InstanceProperties("m"))
	p1.Set("qualifiedName", omrs.StringValue("mutated"))
	p2 := mustProps(t)(b.InstanceProperties("m"))
	if qn, _ := p2.GetString("qualifiedName"); qn != "a" {
		t.Errorf("second call returned qualifiedName %q, want a", qn)
	}
}

func TestCommentBuilder_CommentTypes(t *testing.T) {
	tests := []struct {
		in          beans.CommentType
		wantOrdinal int
		wantName    string
	}{
		{beans.CommentTypeGeneralComment, 0, "GeneralComment"},
		{beans.CommentTypeQuestion, 1, "Question"},
		{beans.CommentTypeAnswer, 2, "Answer"},
		{beans.CommentTypeSuggestion, 3, "Suggestion"},
		{beans.CommentTypeUsageExperience, 4, "UsageExperience"},
		{beans.CommentTypeRequirement, 5, "Requirement"},
		{beans.CommentTypeOther, 99, "Other"},
	}
	for _, tc := range tests {
		t.Run(tc.wantName, func(t *testing.T) {
			b := NewCommentBuilder(newHelper(), &beans.Comment{Referenceable: ref("c"), CommentType: tc.in})
			props := mustProps(t)(b.InstanceProperties("m"))
			e, ok := props.GetEnum("type")
			if !ok {
				t.Fatal("type not set")
			}
			if e.Ordinal != tc.wantOrdinal || e.SymbolicName != tc.wantName {
				t.Errorf("got (%d, %s), want (%d, %s)", e.Ordinal, e.SymbolicName, tc.wantOrdinal, tc.wantName)
			}
			back, ok := CommentTypeFromOrdinal(e.Ordinal)
			if !ok || back != tc.in {
				t.Errorf("CommentTypeFromOrdinal(%d) = %v, %v", e.Ordinal, back, ok)
			}
		})
	}
}

func TestRatingBuilder_Stars(t *testing.T) {
	for stars, want := range StarRatings {
		b := NewRatingBuilder(newHelper(), &beans.Rating{Stars: stars, Review: "ok"})
		props := mustProps(t)(b.InstanceProperties("m"))
		e, _ := props.GetEnum("stars")
		if e == nil || e.Ordinal != want.Ordinal || e.SymbolicName != want.SymbolicName {
			t.Errorf("stars %v: got %+v, want %+v", stars, e, want)
		}
	}
	five := mustProps(t)(NewRatingBuilder(newHelper(), &beans.Rating{Stars: beans.StarRatingFiveStar}).InstanceProperties("m"))
	if e, _ := five.GetEnum("stars"); e.Ordinal != 5 || e.SymbolicName != "FiveStar" {
		t.Errorf("FiveStar = (%d, %s)", e.Ordinal, e.SymbolicName)
	}
}

func TestSchemaAttributeBuilder_SortOrder(t *testing.T) {
	b := NewSchemaAttributeBuilder(newHelper(), &beans.SchemaAttribute{
		Referenceable: ref("col"),
		SortOrder:     beans.DataItemSortOrderDescending,
		Aliases:       []string{"c"},
		EmbeddedType:  &beans.EmbeddedSchemaType{SchemaTypeName: "PrimitiveSchemaType", DataType: "string"},
	})
	props := mustProps(t)(b.InstanceProperties("m"))
	if e, ok := props.GetEnum("sortOrder"); !ok || e.Ordinal != 2 || e.SymbolicName != "Descending" {
		t.Errorf("sortOrder = %+v, %v", e, ok)
	}
	cs, err := b.Classifications("m")
	if err != nil {
		t.Fatalf("Classifications failed: %v", err)
	}
	if diff := cmp.Diff([]string{"TypeEmbeddedAttribute"}, classificationNames(cs)); diff != "" {
		t.Errorf("classification names mismatch (-want +got):\n%s", diff)
	}
	if dt, _ := cs[0].Properties.GetString("dataType"); dt != "string" {
		t.Errorf("dataType = %q, want string", dt)
	}
}

func TestBuilders_UnmappedEnumValue(t *testing.T) {
	h := newHelper()
	_, err := NewCommentBuilder(h, &beans.Comment{Referenceable: ref("c"), CommentType: beans.CommentType(42)}).InstanceProperties("AddComment")
	var fe *ffdc.Error
	if !errors.As(err, &fe) || fe.Kind != ffdc.KindInvalidParameter || fe.Parameter != "type" {
		t.Errorf("comment type 42: err = %v", err)
	}
	_, err = NewAssetBuilder(h, &beans.Asset{Referenceable: ref("a"), Owner: "x", OwnerType: beans.AssetOwnerType(7)}).OwnershipProperties("m")
	if !errors.Is(err, ffdc.ErrInvalidParameter) {
		t.Errorf("owner type 7: err = %v", err)
	}
}

func TestRootBuilder_ClassificationWithoutName(t *testing.T) {
	a := &beans.Asset{Referenceable: ref("a")}
	b := NewAssetBuilder(newHelper(), a)
	b.SetClassifications([]*beans.Classification{{Name: "Confidentiality"}, {Properties: map[string]any{"level": 1}}})
	_, err := b.Classifications("CreateAsset")
	var fe *ffdc.Error
	if !errors.As(err, &fe) || fe.Kind != ffdc.KindInvalidParameter {
		t.Fatalf("Classifications() error = %v, want invalid parameter", err)
	}
	if fe.Parameter != "classificationName" || fe.Method != "CreateAsset" {
		t.Errorf("got parameter %q method %q", fe.Parameter, fe.Method)
	}
}

func TestRootBuilder_UnsupportedExtendedProperty(t *testing.T) {
	a := &beans.Asset{Referenceable: ref("a")}
	a.ExtendedProperties = map[string]any{"cores": complex(1, 2)}
	_, err := NewAssetBuilder(newHelper(), a).InstanceProperties("CreateAsset")
	var fe *ffdc.Error
	if !errors.As(err, &fe) || fe.Kind != ffdc.KindInvalidParameter || fe.Parameter != "cores" {
		t.Errorf("InstanceProperties() error = %v, want invalid parameter naming cores", err)
	}
}

func TestConnectionBuilder_ConfigurationProperties(t *testing.T) {
	c := &beans.Connection{
		Referenceable:           ref("conn"),
		ConfigurationProperties: map[string]any{"bad": []int{1}},
	}
	_, err := NewConnectionBuilder(newHelper(), c).InstanceProperties("CreateConnection")
	var fe *ffdc.Error
	if !errors.As(err, &fe) || fe.Parameter != "configurationProperties.bad" {
		t.Errorf("InstanceProperties() error = %v", err)
	}
}

func TestNameProperties_ExactMatch(t *testing.T) {
	h := newHelper()
	props := NewAssetBuilder(h, &beans.Asset{Referenceable: ref("Asset:a.b"), Name: "a.b"}).NameProperties("m")
	want := map[string]string{"qualifiedName": `\QAsset:a.b\E`, "name": `\Qa.b\E`}
	for k, v := range want {
		if got, _ := props.GetString(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	tagProps := NewInformalTagBuilder(h, &beans.InformalTag{Name: "pii"}).NameProperties("m")
	if diff := cmp.Diff([]string{"tagName"}, tagProps.Names()); diff != "" {
		t.Errorf("tag name properties mismatch (-want +got):\n%s", diff)
	}
	if got := NewAssetBuilder(h, &beans.Asset{}).NameProperties("m"); got.Len() != 0 {
		t.Errorf("empty asset name properties = %s", got)
	}
}

func TestFileSystemBuilder_Classification(t *testing.T) {
	fs := &beans.FileSystem{
		SoftwareServerCapability: beans.SoftwareServerCapability{Referenceable: ref("fs"), Name: "nfs"},
		Format:                   "ext4",
	}
	cs, err := NewFileSystemBuilder(newHelper(), fs).Classifications("m")
	if err != nil {
		t.Fatalf("Classifications failed: %v", err)
	}
	if len(cs) != 1 || cs[0].Name != "FileSystem" {
		t.Fatalf("Classifications() = %v", classificationNames(cs))
	}
	if f, _ := cs[0].Properties.GetString("format"); f != "ext4" {
		t.Errorf("format = %q", f)
	}
}

// All properties produced by fully populated builders must be attributes
// of the built type in the type catalogue.
func TestBuilders_MatchTypeCatalogue(t *testing.T) {
	h := newHelper()
	builders := []interface {
		TypeName() string
		InstanceProperties(string) (*omrs.InstanceProperties, error)
	}{
		NewAssetBuilder(h, &beans.Asset{Referenceable: beans.Referenceable{QualifiedName: "a", AdditionalProperties: map[string]string{"k": "v"}}, Name: "n", DisplayName: "d", Description: "x"}),
		NewConnectionBuilder(h, &beans.Connection{Referenceable: ref("c"), DisplayName: "d", Description: "x", SecuredProperties: map[string]string{"k": "v"}, ConfigurationProperties: map[string]any{"k": 1}, UserID: "u", ClearPassword: "p", EncryptedPassword: "e"}),
		NewEndpointBuilder(h, &beans.Endpoint{Referenceable: ref("e"), Name: "n", Description: "x", NetworkAddress: "host:1", Protocol: "http", EncryptionMethod: "tls"}),
		NewCommentBuilder(h, &beans.Comment{Referenceable: ref("c"), Text: "t", CommentType: beans.CommentTypeQuestion}),
		NewRatingBuilder(h, &beans.Rating{Stars: beans.StarRatingOneStar, Review: "r"}),
		NewInformalTagBuilder(h, &beans.InformalTag{Name: "n", Description: "d"}),
		NewSchemaTypeBuilder(h, &beans.SchemaType{Referenceable: ref("s"), DisplayName: "d", VersionNumber: "1", Author: "a", Usage: "u", EncodingStandard: "e", Namespace: "n"}),
		NewSchemaAttributeBuilder(h, &beans.SchemaAttribute{Referenceable: ref("s"), Name: "n", SortOrder: beans.DataItemSortOrderAscending, DefaultValueOverride: "d", NativeClass: "c", Aliases: []string{"a"}}),
		NewSoftwareServerCapabilityBuilder(h, &beans.SoftwareServerCapability{Referenceable: ref("s"), Name: "n", Description: "d", CapabilityType: "t", CapabilityVersion: "v", PatchLevel: "p", Source: "s"}),
		NewSolutionBlueprintBuilder(h, &beans.SolutionBlueprint{Referenceable: ref("b"), DisplayName: "d", Description: "x", Version: "1"}),
	}
	for _, b := range builders {
		props := mustProps(t)(b.InstanceProperties("m"))
		attrs := types.Attributes(b.TypeName())
		if len(attrs) == 0 {
			t.Errorf("type %s unknown to the type catalogue", b.TypeName())
		}
		for _, n := range props.Names() {
			if _, ok := attrs[n]; !ok {
				t.Errorf("type %s has no attribute %s", b.TypeName(), n)
			}
		}
	}
}

func TestEnumTables_MatchTypeCatalogue(t *testing.T) {
	check := func(enumName string, elems []EnumElement) {
		defs, ok := types.Enum(enumName)
		if !ok {
			t.Fatalf("enum %s missing from type catalogue", enumName)
		}
		if len(defs) != len(elems) {
			t.Errorf("enum %s has %d elements, table has %d", enumName, len(defs), len(elems))
		}
		for _, e := range elems {
			def, ok := types.EnumElementByOrdinal(enumName, e.Ordinal)
			if !ok {
				t.Errorf("enum %s has no ordinal %d", enumName, e.Ordinal)
				continue
			}
			if def.SymbolicName != e.SymbolicName || def.Description != e.Description {
				t.Errorf("enum %s ordinal %d: catalogue (%s, %q), table (%s, %q)",
					enumName, e.Ordinal, def.SymbolicName, def.Description, e.SymbolicName, e.Description)
			}
		}
	}
	check("CommentType", values(CommentTypes))
	check("StarRating", values(StarRatings))
	check("AssetOwnerType", values(AssetOwnerTypes))
	check("DataItemSortOrder", values(DataItemSortOrders))
}

func values[K comparable](m map[K]EnumElement) []EnumElement {
	var result []EnumElement
	for _, v := range m {
		result = append(result, v)
	}
	return result
}

func TestEnumFromOrdinal_Unknown(t *testing.T) {
	if v, ok := StarRatingFromOrdinal(17); ok || v != 0 {
		t.Errorf("StarRatingFromOrdinal(17) = %v, %v", v, ok)
	}
	if v, ok := DataItemSortOrderFromOrdinal(3); !ok || v != beans.DataItemSortOrderUnsorted {
		t.Errorf("DataItemSortOrderFromOrdinal(3) = %v, %v", v, ok)
	}
	if v, ok := AssetOwnerTypeFromOrdinal(1); !ok || v != beans.AssetOwnerTypeProfileID {
		t.Errorf("AssetOwnerTypeFromOrdinal(1) = %v, %v", v, ok)
	}
}
