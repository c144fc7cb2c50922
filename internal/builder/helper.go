// Package builder converts beans into the instance properties and
// classifications stored by the metadata repository.
//
// A builder is created from a bean and copies the bean's fields. Apart
// from SetClassifications, builders are not modified after construction.
// Each call returns newly allocated properties.
package builder

import (
	"time"

	"github.com/dnswlt/egeria/internal/omrs"
)

// RepositoryHelper appends typed values to instance properties.
// It is implemented by repohelper.Helper.
type RepositoryHelper interface {
	AddString(props *omrs.InstanceProperties, name, value string) *omrs.InstanceProperties
	AddBoolean(props *omrs.InstanceProperties, name string, value bool) *omrs.InstanceProperties
	AddInt(props *omrs.InstanceProperties, name string, value int) *omrs.InstanceProperties
	AddLong(props *omrs.InstanceProperties, name string, value int64) *omrs.InstanceProperties
	AddDate(props *omrs.InstanceProperties, name string, value time.Time) *omrs.InstanceProperties
	AddStringArray(props *omrs.InstanceProperties, name string, values []string) *omrs.InstanceProperties
	AddStringMap(props *omrs.InstanceProperties, name string, values map[string]string) *omrs.InstanceProperties
	AddEnum(props *omrs.InstanceProperties, name string, ordinal int, symbolicName, description string) *omrs.InstanceProperties
	AddAnyMap(methodName string, props *omrs.InstanceProperties, name string, values map[string]any) (*omrs.InstanceProperties, error)
	AddPropertyMap(methodName string, props *omrs.InstanceProperties, values map[string]any) (*omrs.InstanceProperties, error)
	NewClassification(methodName, entityTypeName, classificationName string, props *omrs.InstanceProperties) (*omrs.Classification, error)
	ExactMatchRegex(s string) string
	IsExactMatchRegex(s string) bool
}
