package recognize

import (
	"sort"

	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/resource"
)

// identityKey groups candidates that describe the same logical resource.
// A class recognized by one of recognizers 1-3 and also targeted by a
// top-level define() call elsewhere in the same file shares (file,
// className); a manifest-declared resource with no backing class shares
// (kind, canonical name) instead.
type identityKey struct {
	file      string
	className string
	kind      resource.Kind
	name      string
}

func keyFor(def *resource.ResourceDef) identityKey {
	if def.ClassName.Val != "" {
		return identityKey{file: string(def.File), className: def.ClassName.Val}
	}
	return identityKey{kind: def.Kind, name: def.Name.Val}
}

// Converge implements §4.4's definition convergence: every Candidate
// sharing a logical resource identity is reduced to one authoritative
// ResourceDef, picking the highest-ranked evidence as primary and folding
// in supplementary evidence (aliases, bindables) from the rest.
func Converge(candidates []*Candidate) ([]*resource.ResourceDef, []diag.Gap) {
	groups := make(map[identityKey][]*Candidate)
	var order []identityKey
	for _, c := range candidates {
		if c.Def == nil {
			continue
		}
		k := keyFor(c.Def)
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], c)
	}

	var out []*resource.ResourceDef
	var gaps []diag.Gap
	for _, k := range order {
		def, g := mergeGroup(groups[k])
		out = append(out, def)
		gaps = append(gaps, g...)
	}
	return out, gaps
}

// mergeGroup reduces every Candidate for one logical resource into a
// single ResourceDef. Ranking is (EvidenceRank, then stable CandidateID)
// ascending; the winner supplies every scalar field, and the losers
// contribute any aliases or bindables the winner didn't already carry.
func mergeGroup(group []*Candidate) (*resource.ResourceDef, []diag.Gap) {
	ranked := append([]*Candidate(nil), group...)
	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := resource.EvidenceRank(ranked[i].Def.SourceKind), resource.EvidenceRank(ranked[j].Def.SourceKind)
		if ri != rj {
			return ri < rj
		}
		return ranked[i].Def.CandidateID < ranked[j].Def.CandidateID
	})

	winner := ranked[0].Def
	merged := *winner
	if merged.Bindables != nil {
		cp := make(map[string]resource.Bindable, len(merged.Bindables))
		for k, v := range merged.Bindables {
			cp[k] = v
		}
		merged.Bindables = cp
	}

	aliasSet := make(map[string]bool, len(merged.Aliases))
	for _, a := range merged.Aliases {
		aliasSet[a] = true
	}

	var gaps []diag.Gap
	for _, c := range ranked {
		gaps = append(gaps, c.Gaps...)
		if c.Def == winner {
			continue
		}
		for _, a := range c.Def.Aliases {
			if !aliasSet[a] {
				aliasSet[a] = true
				merged.Aliases = append(merged.Aliases, a)
			}
		}
		if c.Def.Name.Val != "" && merged.Name.Val == "" {
			merged.Name = c.Def.Name
		}
		for name, b := range c.Def.Bindables {
			if merged.Bindables == nil {
				merged.Bindables = map[string]resource.Bindable{}
			}
			if _, exists := merged.Bindables[name]; !exists {
				merged.Bindables[name] = b
			}
		}
		if len(c.Def.Dependencies) > 0 && len(merged.Dependencies) == 0 {
			merged.Dependencies = c.Def.Dependencies
		}
		if c.Def.InlineTemplate != "" && merged.InlineTemplate == "" {
			merged.InlineTemplate = c.Def.InlineTemplate
		}
		if c.Def.IsTemplateController {
			merged.IsTemplateController = true
		}
	}
	merged.Aliases = resource.CanonicalAliases(merged.Aliases)

	if len(ranked) > 1 {
		merged.Confidence = diag.ConfidenceHigh
	}

	return &merged, gaps
}
