package config

import "github.com/uploadwire/cli/internal/variant"

// Gate answers the per-variant eligibility questions for the upload steps.
type Gate struct {
	settings Settings
	extras   Extras
}

// NewGate creates a Gate. extras may be nil.
func NewGate(settings Settings, extras Extras) *Gate {
	return &Gate{settings: settings, extras: extras}
}

// ShouldWireMappingUpload reports whether the mapping upload gets ordering
// edges for v. Only minified builds produce a mapping file.
func (g *Gate) ShouldWireMappingUpload(v variant.Variant) bool {
	return v.IsMinifyEnabled()
}

// ShouldWireNativeSymbolUpload reports whether native symbol upload is enabled.
func (g *Gate) ShouldWireNativeSymbolUpload() bool {
	return g.settings.UploadNativeSymbols
}

// AutoUpload is the autoUpload value for the mapping upload step: the
// step override when set, else the global setting.
func (g *Gate) AutoUpload() bool {
	if o := g.settings.MappingUpload.AutoUpload; o != nil {
		return *o
	}
	return g.settings.AutoUpload
}

// IncludeNativeSources reports whether native sources go with the symbols.
func (g *Gate) IncludeNativeSources() bool {
	return g.settings.IncludeNativeSources
}

// Organization is the ambient sentryOrg value.
func (g *Gate) Organization() Lookup {
	return LookupString(g.extras, KeyOrganization)
}

// Project is the ambient sentryProject value.
func (g *Gate) Project() Lookup {
	return LookupString(g.extras, KeyProject)
}

// Settings returns the settings the gate was built from.
func (g *Gate) Settings() Settings {
	return g.settings
}
