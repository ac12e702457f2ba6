package recognize

import (
	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/hostast"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
	"github.com/aurelia/aot/internal/value"
)

// decoratorKinds maps a recognized decorator name to the resource Kind it
// declares.
var decoratorKinds = map[string]resource.Kind{
	"customElement":      resource.KindCustomElement,
	"customAttribute":    resource.KindCustomAttribute,
	"templateController": resource.KindCustomAttribute,
	"valueConverter":     resource.KindValueConverter,
	"bindingBehavior":    resource.KindBindingBehavior,
}

// RecognizeDecorator is recognizer 1 of §4.4: an explicit annotation
// carrying kind and options, e.g. `@customElement({ name: 'foo-bar',
// bindables: ['value'] })` or the shorthand `@customElement('foo-bar')`.
func RecognizeDecorator(file source.NormalizedPath, class *hostast.ClassDecl, seq *candidateSeq) (*Candidate, bool) {
	for _, dec := range class.Decorators {
		kind, ok := decoratorKinds[dec.Name]
		if !ok {
			continue
		}
		def := &resource.ResourceDef{
			Kind:       kind,
			ClassName:  resource.NewSourced(class.Name, class.Span, nil),
			File:       file,
			SourceKind: resource.SourceDecorator,
			Confidence: diag.ConfidenceHigh,
		}
		if kind.IsElementLike() {
			def.Bindables = map[string]resource.Bindable{}
		}
		if dec.Name == "templateController" {
			def.IsTemplateController = true
		}
		var gaps []diag.Gap
		nameSpan := dec.Span
		switch {
		case len(dec.Args) == 0:
			// Bare `@customElement` with no arguments: the name is the
			// class name, kebab-cased here.
			def.Name = resource.NewSourced(resource.CanonicalTagName(class.Name), class.Span, nil)
		case isStringArg(dec.Args[0]):
			name, _ := dec.Args[0].(*value.Literal).StringValue()
			canon := canonicalNameForKind(kind, name)
			def.Name = resource.NewSourced(canon, dec.Args[0].Span(), dec.Args[0])
			nameSpan = dec.Args[0].Span()
		default:
			obj, ok := dec.Args[0].(*value.Object)
			if !ok {
				gaps = append(gaps, diag.Gap{
					Kind: diag.GapDynamicValue,
					What: "decorator option is not a literal or object",
					Why:  "the option could not be reduced to a compile-time shape",
				})
				def.Name = resource.NewSourced(resource.CanonicalTagName(class.Name), class.Span, nil)
				break
			}
			applyConfigObject(def, kind, obj, &gaps)
			if def.Name.Val == "" {
				def.Name = resource.NewSourced(resource.CanonicalTagName(class.Name), class.Span, nil)
			}
		}
		def.Name.Span = nameSpan
		def.CandidateID = seq.next()
		return &Candidate{Def: def, Gaps: gaps}, true
	}
	return nil, false
}

func isStringArg(v value.Value) bool {
	lit, ok := v.(*value.Literal)
	return ok && lit.Type == value.LitString
}

func canonicalNameForKind(kind resource.Kind, name string) string {
	if kind == resource.KindValueConverter || kind == resource.KindBindingBehavior {
		return resource.CanonicalLowerTrim(name)
	}
	return resource.CanonicalTagName(name)
}

// applyConfigObject reads a decorator/static-shape/define configuration
// object shared by §4.4's recognizers 1, 2 and 4: `{ name, aliases, bindables,
// containerless, template, dependencies, isTemplateController,
// noMultiBindings }`.
func applyConfigObject(def *resource.ResourceDef, kind resource.Kind, obj *value.Object, gaps *[]diag.Gap) {
	if v, ok := obj.Property("name"); ok {
		if lit, ok := v.(*value.Literal); ok && lit.Type == value.LitString {
			s, _ := lit.StringValue()
			def.Name = resource.NewSourced(canonicalNameForKind(kind, s), v.Span(), v)
		} else {
			*gaps = append(*gaps, diag.Gap{Kind: diag.GapDynamicValue, What: "name option is not a string literal"})
		}
	}
	if v, ok := obj.Property("aliases"); ok {
		if arr, ok := v.(*value.Array); ok {
			def.Aliases = resource.CanonicalAliases(stringsOf(arr, gaps))
		} else {
			*gaps = append(*gaps, diag.Gap{Kind: diag.GapDynamicValue, What: "aliases option is not an array literal"})
		}
	}
	if v, ok := obj.Property("bindables"); ok && kind.IsElementLike() {
		bindables, bgaps := readBindables(v)
		def.Bindables = bindables
		*gaps = append(*gaps, bgaps...)
	}
	if v, ok := obj.Property("containerless"); ok {
		if lit, ok := v.(*value.Literal); ok && lit.Type == value.LitBool {
			def.Containerless = lit.Raw == "true"
		}
	}
	if v, ok := obj.Property("template"); ok {
		if lit, ok := v.(*value.Literal); ok && lit.Type == value.LitString {
			def.InlineTemplate, _ = lit.StringValue()
		}
	}
	if v, ok := obj.Property("dependencies"); ok {
		if arr, ok := v.(*value.Array); ok {
			def.Dependencies = classNamesOf(arr, gaps)
		} else {
			*gaps = append(*gaps, diag.Gap{Kind: diag.GapDynamicValue, What: "dependencies option is not an array literal"})
		}
	}
	if v, ok := obj.Property("isTemplateController"); ok {
		if lit, ok := v.(*value.Literal); ok && lit.Type == value.LitBool {
			def.IsTemplateController = lit.Raw == "true"
		}
	}
	if v, ok := obj.Property("noMultiBindings"); ok {
		if lit, ok := v.(*value.Literal); ok && lit.Type == value.LitBool {
			def.NoMultiBindings = lit.Raw == "true"
		}
	}
}

func stringsOf(arr *value.Array, gaps *[]diag.Gap) []string {
	out := make([]string, 0, len(arr.Elements))
	for _, e := range arr.Elements {
		if lit, ok := e.(*value.Literal); ok && lit.Type == value.LitString {
			s, _ := lit.StringValue()
			out = append(out, s)
			continue
		}
		*gaps = append(*gaps, diag.Gap{Kind: diag.GapDynamicValue, What: "non-literal array element"})
	}
	return out
}

// classNamesOf extracts class references (e.g. a `dependencies: [FooElement]`
// array of identifiers resolved to Class values).
func classNamesOf(arr *value.Array, gaps *[]diag.Gap) []string {
	out := make([]string, 0, len(arr.Elements))
	for _, e := range arr.Elements {
		switch x := e.(type) {
		case *value.Class:
			out = append(out, x.ClassName)
		case *value.Unknown:
			*gaps = append(*gaps, diag.Gap{Kind: x.Reason, What: "dependencies entry could not be resolved: " + x.Detail})
		default:
			*gaps = append(*gaps, diag.Gap{Kind: diag.GapDynamicValue, What: "dependencies entry is not a class reference"})
		}
	}
	return out
}

// readBindables interprets either array-of-string-or-object form:
// `bindables: ['value']` or `bindables: { value: { attribute: 'the-value',
// mode: 'twoWay', primary: true } }`.
func readBindables(v value.Value) (map[string]resource.Bindable, []diag.Gap) {
	out := map[string]resource.Bindable{}
	var gaps []diag.Gap
	switch x := v.(type) {
	case *value.Array:
		for _, e := range x.Elements {
			switch el := e.(type) {
			case *value.Literal:
				if el.Type != value.LitString {
					gaps = append(gaps, diag.Gap{Kind: diag.GapDynamicValue, What: "bindable array entry is not a string"})
					continue
				}
				name, _ := el.StringValue()
				canon := resource.CanonicalBindableName(name)
				out[canon] = resource.Bindable{Name: resource.NewSourced(canon, el.Span(), el)}
			case *value.Object:
				b, name, g := readBindableObject(el)
				gaps = append(gaps, g...)
				if name != "" {
					out[name] = b
				}
			default:
				gaps = append(gaps, diag.Gap{Kind: diag.GapDynamicValue, What: "unsupported bindable entry shape"})
			}
		}
	case *value.Object:
		for _, p := range x.Properties {
			if p.Computed {
				gaps = append(gaps, diag.Gap{Kind: diag.GapComputedProperty, What: "computed bindable key"})
				continue
			}
			canon := resource.CanonicalBindableName(p.Key)
			b := resource.Bindable{Name: resource.NewSourced(canon, p.Val.Span(), p.Val)}
			if obj, ok := p.Val.(*value.Object); ok {
				b = mergeBindableOptions(b, obj, &gaps)
			}
			out[canon] = b
		}
	default:
		gaps = append(gaps, diag.Gap{Kind: diag.GapDynamicValue, What: "bindables option has an unrecognized shape"})
	}
	return out, gaps
}

func readBindableObject(obj *value.Object) (resource.Bindable, string, []diag.Gap) {
	var gaps []diag.Gap
	nameVal, ok := obj.Property("name")
	if !ok {
		gaps = append(gaps, diag.Gap{Kind: diag.GapDynamicValue, What: "bindable object entry missing name"})
		return resource.Bindable{}, "", gaps
	}
	lit, ok := nameVal.(*value.Literal)
	if !ok || lit.Type != value.LitString {
		gaps = append(gaps, diag.Gap{Kind: diag.GapDynamicValue, What: "bindable name is not a string literal"})
		return resource.Bindable{}, "", gaps
	}
	name, _ := lit.StringValue()
	canon := resource.CanonicalBindableName(name)
	b := resource.Bindable{Name: resource.NewSourced(canon, nameVal.Span(), nameVal)}
	b = mergeBindableOptions(b, obj, &gaps)
	return b, canon, gaps
}

func mergeBindableOptions(b resource.Bindable, obj *value.Object, gaps *[]diag.Gap) resource.Bindable {
	if v, ok := obj.Property("attribute"); ok {
		if lit, ok := v.(*value.Literal); ok && lit.Type == value.LitString {
			s, _ := lit.StringValue()
			b.Attribute = resource.NewSourced(resource.CanonicalTagName(s), v.Span(), v)
		} else {
			*gaps = append(*gaps, diag.Gap{Kind: diag.GapDynamicValue, What: "bindable attribute is not a string literal"})
		}
	}
	if v, ok := obj.Property("mode"); ok {
		if lit, ok := v.(*value.Literal); ok && lit.Type == value.LitString {
			s, _ := lit.StringValue()
			b.Mode = resource.BindingMode(s)
		}
	}
	if v, ok := obj.Property("primary"); ok {
		if lit, ok := v.(*value.Literal); ok && lit.Type == value.LitBool {
			b.Primary = lit.Raw == "true"
		}
	}
	return b
}
