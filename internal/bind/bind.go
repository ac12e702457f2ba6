// Package bind implements scope binding (§4.7, "30-bind"): allocating one
// lexical frame per template scope (the root frame plus an overlay frame
// for each repeat/with/promise controller) and resolving every
// scope-accessing sub-expression (AccessScope, AccessThis, CallScope, and
// member/call chains rooted in either) to the frame it evaluates against by
// walking the frame's ancestor chain.
package bind

import (
	"github.com/aurelia/aot/internal/expr"
	"github.com/aurelia/aot/internal/link"
	"github.com/aurelia/aot/internal/lower"
	"github.com/aurelia/aot/internal/source"
)

// FrameKind tags why a frame exists.
type FrameKind string

const (
	FrameRoot    FrameKind = "root"
	FrameOverlay FrameKind = "overlay"
)

// Frame is one lexical scope frame (§4.7). Overlay frames carry the
// iterator/contextual locals a controller introduces (e.g. repeat's item
// alias and $index/$first/$last/...).
type Frame struct {
	ID        source.FrameID
	Parent    source.FrameID
	HasParent bool
	Kind      FrameKind
	Owner     string // controller name that introduced this frame ("" for root)
	Locals    []string
}

// overlayControllers is the set of built-in controllers that introduce a
// new binding scope rather than merely toggling visibility (§4.7): `if`,
// `else`, `switch`/`case`/`default-case`, and `portal` all bind in their
// parent's existing frame.
var overlayControllers = map[string]bool{
	"repeat":  true,
	"with":    true,
	"promise": true,
}

// contextualLocals are the ambient names repeat's overlay frame exposes
// alongside the iterator's own declared alias.
var contextualLocals = []string{"$index", "$first", "$last", "$even", "$odd", "$length", "$middle"}

// Result is scope binding's output: every allocated frame plus, for each
// scope-accessing expression node encountered, the frame it resolves
// against.
type Result struct {
	Frames map[source.FrameID]*Frame
	Root   source.FrameID

	// NodeFrame records the frame each DOM node's own (non-controller)
	// expressions evaluate in.
	NodeFrame map[lower.DomNode]source.FrameID

	// ExprFrame records, for every AccessScope/AccessThis/CallScope node
	// reached while walking a template's expressions, the frame that
	// node's $parent.* hops resolve to.
	ExprFrame map[expr.Expr]source.FrameID
}

func newResult() *Result {
	return &Result{
		Frames:    map[source.FrameID]*Frame{},
		NodeFrame: map[lower.DomNode]source.FrameID{},
		ExprFrame: map[expr.Expr]source.FrameID{},
	}
}

// Bind walks the linked template tree, allocating frames via alloc and
// resolving every expression registered in exprs.
func Bind(root *link.LinkedElement, exprs *lower.ExprTable, alloc *source.IDAllocator) *Result {
	r := newResult()
	rootFrame := alloc.NextFrame()
	r.Root = rootFrame
	r.Frames[rootFrame] = &Frame{ID: rootFrame, Kind: FrameRoot}
	r.walkElement(root, rootFrame, exprs, alloc)
	return r
}

func (r *Result) walkElement(el *link.LinkedElement, frame source.FrameID, exprs *lower.ExprTable, alloc *source.IDAllocator) {
	if el.Controller != nil {
		// The controller's own expression (e.g. repeat.for's iterable, or
		// if.bind's condition) always resolves in the *outer* frame: it is
		// evaluated before the overlay it may introduce exists.
		if e, ok := exprs.Get(el.Controller.Instr.ExprID); ok {
			r.assignExprFrame(e, frame)
		}

		childFrame := frame
		if overlayControllers[el.Controller.Instr.Property] {
			childFrame = alloc.NextFrame()
			r.Frames[childFrame] = &Frame{
				ID: childFrame, Parent: frame, HasParent: true, Kind: FrameOverlay,
				Owner:  el.Controller.Instr.Property,
				Locals: localsFor(el.Controller.Instr.Property, exprs, el.Controller.Instr.ExprID),
			}
		}
		r.walkElement(el.Controller.Template, childFrame, exprs, alloc)
		return
	}

	for _, instr := range el.Instrs {
		r.assignInstrFrame(instr, frame, exprs)
	}
	for _, c := range el.Children {
		switch x := c.(type) {
		case *link.LinkedElement:
			r.walkElement(x, frame, exprs, alloc)
		case *link.LinkedText:
			for _, id := range x.ExprIDs {
				if e, ok := exprs.Get(id); ok {
					r.assignExprFrame(e, frame)
				}
			}
		}
	}
}

func (r *Result) assignInstrFrame(instr link.LinkedInstr, frame source.FrameID, exprs *lower.ExprTable) {
	if len(instr.ExprIDs) > 0 {
		for _, id := range instr.ExprIDs {
			if e, ok := exprs.Get(id); ok {
				r.assignExprFrame(e, frame)
			}
		}
		return
	}
	if e, ok := exprs.Get(instr.ExprID); ok {
		r.assignExprFrame(e, frame)
	}
}

// assignExprFrame walks e's full tree, resolving every scope-accessing node
// to the frame its $parent.* ancestor count points to.
func (r *Result) assignExprFrame(e expr.Expr, frame source.FrameID) {
	expr.Walk(e, func(node expr.Expr) {
		switch x := node.(type) {
		case *expr.AccessThis:
			r.ExprFrame[node] = r.resolveAncestor(frame, x.Ancestor)
		case *expr.AccessScope:
			r.ExprFrame[node] = r.resolveAncestor(frame, x.Ancestor)
		case *expr.CallScope:
			r.ExprFrame[node] = r.resolveAncestor(frame, x.Ancestor)
		}
	})
}

// resolveAncestor walks ancestor hops up the frame-parent chain, stopping
// early (rather than panicking) if the chain is shorter than the requested
// hop count — a malformed $parent.$parent... chain resolves to the
// outermost frame reached.
func (r *Result) resolveAncestor(frame source.FrameID, ancestor int) source.FrameID {
	f := frame
	for i := 0; i < ancestor; i++ {
		fr := r.Frames[f]
		if fr == nil || !fr.HasParent {
			break
		}
		f = fr.Parent
	}
	return f
}

// localsFor returns the names an overlay controller's frame introduces:
// repeat's ForOfBinding declaration plus the standard contextual locals,
// with/promise's frames introduce no named locals of their own (with
// rebinds `this`; promise's then/catch locals are declared on the nested
// controller's own attributes, handled when that nested controller is
// walked).
func localsFor(controllerName string, exprs *lower.ExprTable, exprID source.ExprID) []string {
	if controllerName != "repeat" {
		return nil
	}
	e, ok := exprs.Get(exprID)
	if !ok {
		return nil
	}
	fo, ok := e.(*expr.ForOfBinding)
	if !ok {
		return nil
	}
	locals := append([]string{fo.Declaration}, contextualLocals...)
	return locals
}
