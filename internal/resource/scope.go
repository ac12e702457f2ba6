package resource

import "github.com/aurelia/aot/internal/source"

// RootScopeID is the constant id of the root resource scope (§4.5).
const RootScopeID = "root"

// LocalScopeID formats the scope id for a local scope owned by a
// component at ownerPath, per §4.5's "local:{normalizedOwnerPath}" format.
func LocalScopeID(ownerPath source.NormalizedPath) string {
	return "local:" + string(ownerPath)
}

// Collections is the five resource kind buckets held by one scope (§3.3).
// Value converters and binding behaviors are looked up by their
// lowercase-trimmed canonical name; elements/attributes/controllers by
// their kebab-case canonical name.
type Collections struct {
	Elements         map[string]*ResourceDef
	Attributes       map[string]*ResourceDef
	Controllers      map[string]*ResourceDef
	ValueConverters  map[string]*ResourceDef
	BindingBehaviors map[string]*ResourceDef
}

func newCollections() Collections {
	return Collections{
		Elements:         make(map[string]*ResourceDef),
		Attributes:       make(map[string]*ResourceDef),
		Controllers:      make(map[string]*ResourceDef),
		ValueConverters:  make(map[string]*ResourceDef),
		BindingBehaviors: make(map[string]*ResourceDef),
	}
}

func (c *Collections) bucketFor(k Kind) map[string]*ResourceDef {
	switch k {
	case KindCustomElement:
		return c.Elements
	case KindCustomAttribute:
		return c.Attributes
	case KindTemplateController:
		return c.Controllers
	case KindValueConverter:
		return c.ValueConverters
	case KindBindingBehavior:
		return c.BindingBehaviors
	default:
		return nil
	}
}

// Add registers def under its canonical name and every canonical alias. A
// custom-attribute with IsTemplateController set is additionally indexed
// in the Controllers bucket, so that template lowering recognizes its
// shorthand form (`foo.bind`) as a controller the same way it recognizes
// the built-ins (§3.3).
func (c *Collections) Add(def *ResourceDef) {
	addTo := func(bucket map[string]*ResourceDef) {
		if bucket == nil {
			return
		}
		bucket[def.Name.Val] = def
		for _, a := range def.Aliases {
			bucket[a] = def
		}
	}
	addTo(c.bucketFor(def.Kind))
	if def.Kind == KindCustomAttribute && def.IsTemplateController {
		addTo(c.Controllers)
	}
}

// Scope is a named container of resources with an optional parent,
// forming the resource/scope graph (§3.3, §4.5).
type Scope struct {
	ID     string
	Label  string
	Parent *Scope
	Col    Collections
}

// NewScope creates an empty scope with the given id/label/parent.
func NewScope(id, label string, parent *Scope) *Scope {
	return &Scope{ID: id, Label: label, Parent: parent, Col: newCollections()}
}

func lookup(bucket func(*Collections) map[string]*ResourceDef, s *Scope, name string) (*ResourceDef, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if def, ok := bucket(&sc.Col)[name]; ok {
			return def, true
		}
	}
	return nil, false
}

// Element looks up a custom element by canonical name, falling through the
// parent chain.
func (s *Scope) Element(name string) (*ResourceDef, bool) {
	return lookup(func(c *Collections) map[string]*ResourceDef { return c.Elements }, s, name)
}

// Attribute looks up a custom attribute by canonical name.
func (s *Scope) Attribute(name string) (*ResourceDef, bool) {
	return lookup(func(c *Collections) map[string]*ResourceDef { return c.Attributes }, s, name)
}

// Controller looks up a template controller by canonical name.
func (s *Scope) Controller(name string) (*ResourceDef, bool) {
	return lookup(func(c *Collections) map[string]*ResourceDef { return c.Controllers }, s, name)
}

// ValueConverter looks up a value converter by canonical name.
func (s *Scope) ValueConverter(name string) (*ResourceDef, bool) {
	return lookup(func(c *Collections) map[string]*ResourceDef { return c.ValueConverters }, s, name)
}

// BindingBehavior looks up a binding behavior by canonical name.
func (s *Scope) BindingBehavior(name string) (*ResourceDef, bool) {
	return lookup(func(c *Collections) map[string]*ResourceDef { return c.BindingBehaviors }, s, name)
}

// builtinController constructs a built-in template controller definition
// with no authoring file (root scope resources have no source location).
func builtinController(name string) *ResourceDef {
	return &ResourceDef{
		Kind:                 KindTemplateController,
		Name:                 Sourced[string]{Val: name},
		ClassName:            Sourced[string]{Val: name},
		IsTemplateController: true,
		SourceKind:           SourceManifest,
		Confidence:           "exact",
	}
}

// builtinControllerNames are the root scope's built-in template
// controllers (§3.3 invariant).
var builtinControllerNames = []string{
	"if", "else", "repeat", "with",
	"switch", "case", "default-case",
	"promise", "portal",
}

// NewRootScope builds the root resource scope pre-populated with the
// built-in template controllers every project inherits.
func NewRootScope() *Scope {
	root := NewScope(RootScopeID, "root", nil)
	for _, name := range builtinControllerNames {
		root.Col.Add(builtinController(name))
	}
	return root
}

// Graph is the tree of named scopes: one root plus one local scope per
// component that has local registrations (§4.5).
type Graph struct {
	Root   *Scope
	Locals map[string]*Scope // keyed by owner's NormalizedPath
}

// NewGraph creates a graph with a fresh root scope and no locals.
func NewGraph() *Graph {
	return &Graph{Root: NewRootScope(), Locals: make(map[string]*Scope)}
}

// LocalFor returns (creating if necessary) the local scope owned by owner,
// parented on the root scope per §4.5's "local -> root" parent chain.
func (g *Graph) LocalFor(owner source.NormalizedPath) *Scope {
	if s, ok := g.Locals[string(owner)]; ok {
		return s
	}
	s := NewScope(LocalScopeID(owner), string(owner), g.Root)
	g.Locals[string(owner)] = s
	return s
}
