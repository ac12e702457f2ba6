package lower

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/expr"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
)

// commandSet is the closed set of recognized binding-command suffixes
// (§4.6), keyed without the leading dot, for membership testing.
var commandSet = map[string]bool{
	"bind": true, "one-time": true, "to-view": true, "from-view": true,
	"two-way": true, "trigger": true, "capture": true, "for": true, "ref": true,
}

// Lower parses raw template text into an IrModule (§4.6). scope resolves
// attribute names against known controllers/custom-attributes/elements
// for the host-linking layer downstream, but lowering itself only needs
// it to recognize controller shorthand (`if.bind`, `repeat.for`, or an
// author-defined template-controller custom attribute's shorthand name).
func Lower(templateText string, file source.NormalizedPath, scope *resource.Scope, alloc *source.IDAllocator) (*IrModule, diag.List) {
	var diags diag.List
	exprs := newExprTable(alloc)
	l := &lowerer{file: file, scope: scope, exprs: exprs, diags: &diags}

	root, err := html.Parse(strings.NewReader(templateText))
	if err != nil {
		diags.Add(diag.Diagnostic{
			Code: "template-parse-error", Stage: diag.StageLower, Severity: diag.Error,
			Message: err.Error(), Span: source.Span{File: file},
		})
		return &IrModule{File: file, Root: &DomElement{Tag: "template"}, Exprs: exprs}, diags
	}

	body := findBody(root)
	if body == nil {
		body = root
	}
	dom := l.lowerChildren(body)
	return &IrModule{File: file, Root: &DomElement{Tag: "template", Children: dom}, Exprs: exprs}, diags
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

type lowerer struct {
	file  source.NormalizedPath
	scope *resource.Scope
	exprs *ExprTable
	diags *diag.List
}

// lowerChildren walks the golang.org/x/net/html parse tree (which
// normalizes structure per the HTML5 algorithm but does not retain byte
// offsets) into DomNodes. Every node and attribute span is file-tagged but
// zero-offset (source.Span{File: l.file}); binding expressions are parsed
// with that span's Start (0) as base, so their spans are byte offsets
// within their own attribute value or text node, not within the document.
func (l *lowerer) lowerChildren(n *html.Node) []DomNode {
	var out []DomNode
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			out = append(out, l.lowerElement(c))
		case html.TextNode:
			if node := l.lowerText(c); node != nil {
				out = append(out, node)
			}
		case html.CommentNode:
			// Comments carry no runtime behavior and are dropped (§4.6).
		}
	}
	return out
}

func (l *lowerer) lowerText(n *html.Node) DomNode {
	text := n.Data
	if strings.TrimSpace(text) == "" {
		return nil
	}
	span := source.Span{File: l.file}
	parts, ids := l.parseInterpolation(text, span)
	return &DomText{Span: span, Raw: text, Parts: parts, ExprIDs: ids}
}

// parseInterpolation splits raw on `${...}` boundaries, parsing each
// expression segment and returning the literal parts plus every
// expression's ExprId, with the §4.7 invariant len(Parts) == len(ExprIDs)+1.
func (l *lowerer) parseInterpolation(raw string, containerSpan source.Span) ([]string, []source.ExprID) {
	var parts []string
	var ids []source.ExprID
	rest := raw
	base := containerSpan.Start
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			parts = append(parts, rest)
			break
		}
		end := matchingBrace(rest, start+2)
		if end < 0 {
			parts = append(parts, rest)
			break
		}
		parts = append(parts, rest[:start])
		exprSrc := rest[start+2 : end]
		e, ediags := expr.Parse(exprSrc, l.file, base+start+2)
		l.diags.Merge(ediags)
		ids = append(ids, l.exprs.Add(e))
		base += end + 1
		rest = rest[end+1:]
	}
	return parts, ids
}

// matchingBrace finds the index of the `}` matching the `${` that opened
// at from-2, honoring nested `{`/`}` inside the expression (e.g. object
// literals).
func matchingBrace(s string, from int) int {
	depth := 1
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (l *lowerer) lowerElement(n *html.Node) *DomElement {
	span := source.Span{File: l.file}
	var attrs []IrAttr
	var controllers []IrAttr
	for _, a := range n.Attr {
		ia := l.classifyAttr(a.Key, a.Val, span)
		if ia.Kind == AttrControllerShorthand {
			controllers = append(controllers, ia)
			continue
		}
		attrs = append(attrs, ia)
	}
	children := l.lowerChildren(n)
	el := &DomElement{Span: span, Tag: n.Data, Attrs: attrs, Children: children, SelfClosing: isVoidElement(n.Data)}
	return l.wrapControllers(el, controllers)
}

// wrapControllers synthesizes a hydrateTemplateController wrapper per
// controller shorthand attribute found on the element (§4.6), stacking
// left-to-right so the first-written controller is outermost.
func (l *lowerer) wrapControllers(inner *DomElement, controllers []IrAttr) *DomElement {
	if len(controllers) == 0 {
		return inner
	}
	current := inner
	for i := len(controllers) - 1; i >= 0; i-- {
		attr := controllers[i]
		name := controllerName(attr.Name)
		wrapper := &DomElement{
			Span: inner.Span,
			Tag:  inner.Tag,
			Controller: &ControllerUsage{
				Name:     name,
				Attr:     attr,
				Template: current,
			},
		}
		current = wrapper
	}
	return current
}

// controllerName strips the binding-command suffix from a shorthand
// controller attribute name, e.g. "if.bind" -> "if", "repeat.for" ->
// "repeat".
func controllerName(attrName string) string {
	if i := strings.LastIndex(attrName, "."); i >= 0 {
		return resource.CanonicalTagName(attrName[:i])
	}
	return resource.CanonicalTagName(attrName)
}

// classifyAttr determines one attribute's binding kind (§4.6): a
// recognized controller shorthand, an ordinary binding command, an
// interpolation, or a static attribute.
func (l *lowerer) classifyAttr(name, val string, elemSpan source.Span) IrAttr {
	span := source.Span{File: l.file}
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		command := name[dot+1:]
		target := name[:dot]
		if commandSet[command] {
			ia := IrAttr{Name: name, Command: command, TargetProperty: target, RawValue: val, Span: span}
			if l.isControllerTarget(target) {
				ia.Kind = AttrControllerShorthand
				if command == "for" {
					fo, diags := expr.ParseForOf(val, l.file, span.Start)
					l.diags.Merge(diags)
					ia.ExprID = l.exprs.Add(fo)
				} else if val != "" {
					e, diags := expr.Parse(val, l.file, span.Start)
					l.diags.Merge(diags)
					ia.ExprID = l.exprs.Add(e)
				}
				return ia
			}
			ia.Kind = AttrBindingCommand
			if command == "for" {
				fo, diags := expr.ParseForOf(val, l.file, span.Start)
				l.diags.Merge(diags)
				ia.ExprID = l.exprs.Add(fo)
			} else if val != "" {
				e, diags := expr.Parse(val, l.file, span.Start)
				l.diags.Merge(diags)
				ia.ExprID = l.exprs.Add(e)
			}
			return ia
		}
	}
	if strings.Contains(val, "${") {
		parts, ids := l.parseInterpolation(val, span)
		if len(ids) > 0 {
			return IrAttr{Name: name, Kind: AttrInterpolation, RawValue: val, Span: span,
				TargetProperty: name, Parts: parts, ExprIDs: ids}
		}
	}
	return IrAttr{Name: name, Kind: AttrStatic, RawValue: val, Span: span}
}

// isControllerTarget reports whether target names a known template
// controller: one of the nine built-ins, or an author-defined custom
// attribute recognized with IsTemplateController (§3.3, §4.4).
func (l *lowerer) isControllerTarget(target string) bool {
	if l.scope == nil {
		return false
	}
	name := resource.CanonicalTagName(target)
	_, ok := l.scope.Controller(name)
	return ok
}

// isVoidElement reports whether tag is an HTML void element that never
// carries children; lowering records the result on DomElement.SelfClosing
// (§4.6).
func isVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	default:
		return false
	}
}
