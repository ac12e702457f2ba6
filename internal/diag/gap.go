package diag

import "github.com/aurelia/aot/internal/source"

// GapKind enumerates the taxonomy of §7: typed records of why analysis
// could not prove a fact. Gaps never abort analysis; they are carried on
// results and downgrade confidence per GapKind.Conservative.
type GapKind string

const (
	// Package scan.
	GapPackageNotFound     GapKind = "package-not-found"
	GapInvalidPackageJSON  GapKind = "invalid-package-json"
	GapMissingPackageField GapKind = "missing-package-field"
	GapEntryPointNotFound  GapKind = "entry-point-not-found"
	GapNoEntryPoints       GapKind = "no-entry-points"
	GapComplexExports      GapKind = "complex-exports"

	// Monorepo resolution.
	GapWorkspaceNoSourceDir    GapKind = "workspace-no-source-dir"
	GapWorkspaceEntryNotFound  GapKind = "workspace-entry-not-found"

	// Import resolution.
	GapUnresolvedImport GapKind = "unresolved-import"
	GapCircularImport   GapKind = "circular-import"
	GapExternalPackage  GapKind = "external-package"

	// Partial evaluation limits.
	GapDynamicValue          GapKind = "dynamic-value"
	GapFunctionReturn        GapKind = "function-return"
	GapComputedProperty      GapKind = "computed-property"
	GapSpreadUnknown         GapKind = "spread-unknown"
	GapConditionalRegistration GapKind = "conditional-registration"
	GapLoopVariable          GapKind = "loop-variable"

	// Recognition.
	GapLegacyDecorators   GapKind = "legacy-decorators"
	GapInvalidResourceName GapKind = "invalid-resource-name"

	// Source availability.
	GapNoSource         GapKind = "no-source"
	GapMinifiedCode     GapKind = "minified-code"
	GapUnsupportedFormat GapKind = "unsupported-format"
	GapParseError       GapKind = "parse-error"

	// Cache / internal.
	GapCacheCorrupt   GapKind = "cache-corrupt"
	GapAnalysisFailed GapKind = "analysis-failed"

	// Template-compilation specific (§C.5).
	GapControllerPairingAmbiguous GapKind = "controller-pairing-ambiguous"
)

// conservativeKinds downgrade catalog confidence to "conservative"; every
// other kind yields "partial" (§7 Policy).
var conservativeKinds = map[GapKind]bool{
	GapPackageNotFound:        true,
	GapInvalidPackageJSON:     true,
	GapMissingPackageField:    true,
	GapEntryPointNotFound:     true,
	GapNoEntryPoints:          true,
	GapComplexExports:         true,
	GapWorkspaceNoSourceDir:   true,
	GapWorkspaceEntryNotFound: true,
	GapUnresolvedImport:       true,
	GapCircularImport:         true,
	GapNoSource:               true,
	GapMinifiedCode:           true,
	GapUnsupportedFormat:      true,
	GapParseError:             true,
}

// Conservative reports whether this GapKind belongs to the conservative
// set that downgrades confidence.
func (k GapKind) Conservative() bool { return conservativeKinds[k] }

// Where pinpoints the authoring location of a Gap for display.
type Where struct {
	File    source.NormalizedPath
	Line    int
	Snippet string
}

// Gap is a typed record of why analysis could not establish a fact. It
// carries everything the user needs to unblock themselves (§6.7, §7).
type Gap struct {
	Kind       GapKind
	What       string
	Why        string
	Where      *Where
	Suggestion string
}

// Confidence mirrors §6.3's confidence levels.
type Confidence string

const (
	ConfidenceExact        Confidence = "exact"
	ConfidenceHigh         Confidence = "high"
	ConfidencePartial      Confidence = "partial"
	ConfidenceLow          Confidence = "low"
	ConfidenceManual       Confidence = "manual"
	ConfidenceConservative Confidence = "conservative"
)

// ConfidenceFromGaps applies §7's policy: analysis-failed forces "manual";
// any conservative-kind gap downgrades to "conservative"; any other gap
// yields "partial"; no gaps preserves the base confidence.
func ConfidenceFromGaps(base Confidence, gaps []Gap) Confidence {
	result := base
	for _, g := range gaps {
		if g.Kind == GapAnalysisFailed {
			return ConfidenceManual
		}
		if g.Kind.Conservative() {
			result = ConfidenceConservative
		} else if result != ConfidenceConservative {
			result = ConfidencePartial
		}
	}
	return result
}
