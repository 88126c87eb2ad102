package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "debug", want: "Debug"},
		{in: "proRelease", want: "ProRelease"},
		{in: "Release", want: "Release"},
		{in: "free-tierRelease", want: "Free-tierRelease"},
		{in: "pro_staging", want: "Pro_staging"},
		{in: "éclair", want: "Éclair"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Capitalize(tt.in))
		})
	}
}

func TestVariant_AnchorNames_Derived(t *testing.T) {
	v := Variant{Name: "proRelease"}

	a := v.AnchorNames()
	assert.Equal(t, "mergeProReleaseAssets", a.MergeAssets)
	assert.Equal(t, "assembleProRelease", a.Assemble)
	assert.Equal(t, "bundleProRelease", a.Bundle)
}

func TestVariant_AnchorNames_Hyphenated(t *testing.T) {
	v := Variant{Name: "free-tierRelease"}

	a := v.AnchorNames()
	assert.Equal(t, "bundleFree-tierRelease", a.Bundle)
	assert.Equal(t, "uploadNativeSymbolsForFree-tierRelease", v.NativeSymbolUploadNodeName())
}

func TestVariant_AnchorNames_Override(t *testing.T) {
	v := Variant{Name: "release", Anchors: Anchors{Assemble: "packageRelease"}}

	a := v.AnchorNames()
	assert.Equal(t, "packageRelease", a.Assemble)
	assert.Equal(t, "mergeReleaseAssets", a.MergeAssets)
	assert.Equal(t, "bundleRelease", a.Bundle)
}

func TestVariant_NodeNames(t *testing.T) {
	v := Variant{Name: "release"}
	assert.Equal(t, "uploadSentryProguardMappingsRelease", v.MappingUploadNodeName())
	assert.Equal(t, "uploadNativeSymbolsForRelease", v.NativeSymbolUploadNodeName())
}

func TestVariant_Mappings(t *testing.T) {
	assert.Empty(t, Variant{}.Mappings())
	assert.NotNil(t, Variant{MappingFiles: func() []string { return nil }}.Mappings())

	v := Variant{MappingFiles: func() []string { return []string{"a.txt"} }}
	assert.Equal(t, []string{"a.txt"}, v.Mappings())
}
