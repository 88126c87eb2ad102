// Package variant describes the build variants produced by a host pipeline.
package variant

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BuildType is the build type a variant is assembled with.
type BuildType struct {
	// Name is the build type name (e.g. "debug", "release").
	Name string

	// MinifyEnabled reports whether the build type runs a minifier, which is
	// the only case where a mapping file is produced.
	MinifyEnabled bool
}

// Anchors names the host-owned nodes upload steps attach to.
// Empty fields are derived from the variant name, see Variant.AnchorNames.
type Anchors struct {
	MergeAssets string
	Assemble    string
	Bundle      string
}

// Variant is one build configuration unit owned by the host pipeline.
// It is read-only for the wiring code.
type Variant struct {
	// Name is unique per build, e.g. "proRelease".
	Name string

	// FlavorName is the product flavor, empty for flavorless projects.
	FlavorName string

	// BuildType carries the build type name and its minify setting.
	BuildType BuildType

	// MappingFiles produces the mapping file paths for this variant.
	// It may be nil or return no files.
	MappingFiles func() []string

	// Anchors overrides the derived host node names.
	Anchors Anchors
}

// IsMinifyEnabled reports whether the variant's build type minifies.
func (v Variant) IsMinifyEnabled() bool {
	return v.BuildType.MinifyEnabled
}

// Mappings returns the mapping files the producer reports, never nil.
func (v Variant) Mappings() []string {
	if v.MappingFiles == nil {
		return []string{}
	}
	files := v.MappingFiles()
	if files == nil {
		return []string{}
	}
	return files
}

// TaskSuffix returns the variant name with its first letter upper-cased.
// The remainder is left untouched so "free-tierRelease" becomes "Free-tierRelease".
func (v Variant) TaskSuffix() string {
	return Capitalize(v.Name)
}

// AnchorNames returns the host anchor node names, deriving the conventional
// names for any anchor left empty.
func (v Variant) AnchorNames() Anchors {
	suffix := v.TaskSuffix()
	a := v.Anchors
	if a.MergeAssets == "" {
		a.MergeAssets = "merge" + suffix + "Assets"
	}
	if a.Assemble == "" {
		a.Assemble = "assemble" + suffix
	}
	if a.Bundle == "" {
		a.Bundle = "bundle" + suffix
	}
	return a
}

// MappingUploadNodeName is the name of the mapping upload node for the variant.
func (v Variant) MappingUploadNodeName() string {
	return "uploadSentryProguardMappings" + v.TaskSuffix()
}

// NativeSymbolUploadNodeName is the name of the native symbol upload node for the variant.
func (v Variant) NativeSymbolUploadNodeName() string {
	return "uploadNativeSymbolsFor" + v.TaskSuffix()
}

// Capitalize upper-cases the first letter of s using US casing rules and
// leaves the rest as is. A Caser is stateful, so one is created per call.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.AmericanEnglish).String(s[:size]) + s[size:]
}
