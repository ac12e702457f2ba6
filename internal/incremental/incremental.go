// Package incremental implements the incremental dependency graph (§3.8,
// §4.8): a four-layer push/pull graph over file/type-state/config/manifest
// inputs, the evaluations that read them, the typed observations an
// evaluation produces, and the per-field conclusions those observations
// fan into. Staleness propagates eagerly forward from a changed input;
// recomputation happens lazily, only when a conclusion is pulled.
//
// The node/edge shape is grounded on the linker's file graph in esbuild
// (internal/graph.LinkerFile and its entry-point reachability bits): a
// plain node table plus forward/reverse edge sets, walked breadth-first
// to propagate a boolean flag (esbuild propagates liveness outward from
// entry points; this graph propagates staleness outward from inputs).
// Cross-file cycle detection reuses the re-entry-via-call-stack shape
// internal/evaluate already uses for cross-file alias chains, generalized
// from a depth cap to exact re-entry detection via an explicit stack.
package incremental

import (
	"github.com/google/uuid"
)

// NodeKind tags which of the four layers a Node belongs to (§3.8).
type NodeKind string

const (
	NodeFile        NodeKind = "file"
	NodeTypeState   NodeKind = "type-state"
	NodeConfig      NodeKind = "config"
	NodeManifest    NodeKind = "manifest"
	NodeEvaluation  NodeKind = "evaluation"
	NodeObservation NodeKind = "observation"
	NodeConclusion  NodeKind = "conclusion"
)

// ConvergenceConfigID is the single static node every conclusion fans out
// from (§3.8): marking it stale invalidates every conclusion in the graph,
// the way a changed ranking/merge policy would.
const ConvergenceConfigID = "convergence-config"

// GreenToken is an interned cutoff value: two conclusions with equal
// GreenTokens are considered unchanged for value-sensitive cutoff
// purposes, even if they were recomputed from different inputs.
type GreenToken string

// RedValue carries the provenance-bearing detail behind a conclusion — the
// actual merged value plus which observations produced it — as opposed to
// the GreenToken, which exists purely for cutoff comparison.
type RedValue struct {
	Value        any
	Observations []string // observation node ids folded into this conclusion
}

// Evaluator recomputes one evaluation node's observations from scratch. It
// is supplied by the caller (file-fact extraction, partial evaluation,
// recognition, registration — whichever stage owns unitKey) and invoked by
// Pull whenever that evaluation's predecessors have gone stale.
type Evaluator func(tracer *Tracer) error

// Converger folds a conclusion's fresh RedValues into one merged RedValue
// plus its cutoff GreenToken. No other package in this module builds a
// Graph, so every Converger in use is supplied by this package's tests.
type Converger func(values []RedValue) (RedValue, GreenToken)

type node struct {
	id    string
	kind  NodeKind
	stale bool
	// out holds the set of nodes this node is read by (staleness
	// propagates along these edges); in holds the reverse, used by Pull
	// to find a conclusion's observation predecessors and an
	// evaluation's input predecessors.
	out map[string]bool
	in  map[string]bool

	// evaluator is set only on NodeEvaluation nodes.
	evaluator Evaluator
	// converger and green/red are set only on NodeConclusion nodes.
	converger Converger
	green     GreenToken
	red       RedValue
	hasValue  bool

	// value holds the RedValue an observation node carries, set once by
	// Tracer.Observe and read back by collectValues (NodeObservation only).
	value RedValue

	// producers holds the evaluation node ids declared (at PushContext
	// time) as candidate producers of a conclusion, independent of
	// whether any of them has ever actually called Observe yet. Pull
	// walks this set to find what to (re-)run rather than the observation
	// edges in `in`, since a conclusion that has never been pulled before
	// has no observation edges at all (NodeConclusion only).
	producers map[string]bool
}

// Graph is the incremental dependency graph for one build. It is not safe
// for concurrent use; callers serialize Mark*/Pull/RemoveFile calls the
// same way the rest of this pipeline serializes around one Driver per
// build (§5).
type Graph struct {
	nodes map[string]*node
	// fileNodes indexes every node rooted on a given file (the file input
	// node itself, plus every evaluation whose unit key names that file),
	// so RemoveFile can drop them all without a full table scan.
	fileNodes map[string]map[string]bool
	// stack is the active pull call stack, used to detect evaluation
	// re-entry (§4.8 "Cycles"). Each frame's uuid is an ephemeral
	// pull-session handle, not a persisted identity.
	stack []stackFrame
}

type stackFrame struct {
	nodeID string
	handle uuid.UUID
}

// New returns an empty graph seeded with the convergence-config node.
func New() *Graph {
	g := &Graph{nodes: make(map[string]*node), fileNodes: make(map[string]map[string]bool)}
	g.getOrCreate(ConvergenceConfigID, NodeConfig)
	return g
}

func (g *Graph) getOrCreate(id string, kind NodeKind) *node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &node{id: id, kind: kind, out: map[string]bool{}, in: map[string]bool{}, producers: map[string]bool{}}
	g.nodes[id] = n
	return n
}

// addEdge records "from is read by to": a Mark on from propagates to to.
func (g *Graph) addEdge(from, to string) {
	f := g.nodes[from]
	t := g.nodes[to]
	if f == nil || t == nil {
		return
	}
	f.out[to] = true
	t.in[from] = true
}

// indexFile records that node belongs to file's cluster, so RemoveFile can
// find it later without scanning the whole node table.
func (g *Graph) indexFile(file, id string) {
	set, ok := g.fileNodes[file]
	if !ok {
		set = map[string]bool{}
		g.fileNodes[file] = set
	}
	set[id] = true
}

// Tracer is handed to an Evaluator so it can declare, for the duration of
// one evaluation, which inputs it read (readFile/readConfig/readManifest/
// readTypeState) and which observations it produced. Re-running an
// evaluation first clears its previously recorded out-edges and
// observations, since the tracer re-records them fresh each run (§4.8
// "Re-evaluation clears the evaluation node's outgoing edges").
type Tracer struct {
	g      *Graph
	evalID string
}

func (t *Tracer) read(id string, kind NodeKind) {
	t.g.getOrCreate(id, kind)
	t.g.addEdge(id, t.evalID)
}

// ReadFile declares that the current evaluation read file's contents.
func (t *Tracer) ReadFile(file string) {
	fid := fileNodeID(file)
	t.read(fid, NodeFile)
	t.g.indexFile(fid, t.evalID)
}

// ReadConfig declares a dependency on a config node by id (e.g.
// "convergence-config").
func (t *Tracer) ReadConfig(id string) { t.read(id, NodeConfig) }

// ReadManifest declares a dependency on a manifest node by id.
func (t *Tracer) ReadManifest(id string) { t.read(id, NodeManifest) }

// ReadTypeState declares a dependency on a type-state node by id.
func (t *Tracer) ReadTypeState(id string) { t.read(id, NodeTypeState) }

// ReadConclusion declares a dependency on another conclusion's pulled
// value (e.g. registration analysis reading a recognized ResourceDef),
// wiring this evaluation as that conclusion's downstream dependent. It
// does not itself pull the dependency; the caller is expected to have
// already called Graph.Pull(resourceKey, fieldPath) to get a fresh value
// before recording the read.
func (t *Tracer) ReadConclusion(resourceKey, fieldPath string) {
	t.read(conclusionNodeID(resourceKey, fieldPath), NodeConclusion)
}

// Observe records that the current evaluation produced one typed piece of
// evidence for (resourceKey, fieldPath), wiring it to that field's
// conclusion node (creating both if new).
func (t *Tracer) Observe(resourceKey, fieldPath string, value RedValue) {
	obsID := observationNodeID(resourceKey, fieldPath, t.evalID)
	obs := t.g.getOrCreate(obsID, NodeObservation)
	obs.value = value
	t.g.addEdge(t.evalID, obsID)

	concID := conclusionNodeID(resourceKey, fieldPath)
	t.g.getOrCreate(concID, NodeConclusion)
	t.g.addEdge(obsID, concID)
}

func fileNodeID(file string) string { return "file:" + file }

func evaluationNodeID(file, unitKey string) string { return "eval:" + file + "#" + unitKey }

func observationNodeID(resourceKey, fieldPath, evalNode string) string {
	return "observation:" + resourceKey + ":" + fieldPath + "#" + evalNode
}

func conclusionNodeID(resourceKey, fieldPath string) string {
	return "conclusion:" + resourceKey + ":" + fieldPath
}

// PushContext registers an evaluation node for (file, unitKey) bound to
// fn as a declared producer of conclusion(resourceKey, fieldPath).
// Declaring producers up front (rather than only discovering them once
// Observe has run) is what lets Pull trigger a conclusion's very first
// evaluation: an unpulled conclusion has no observation edges yet, so
// Pull walks this producer declaration instead. Conclusions may have many
// producers (every unit that contributes evidence for the same field);
// calling PushContext again for the same conclusion with a different
// (file, unitKey) simply adds another one.
func (g *Graph) PushContext(file, unitKey, resourceKey, fieldPath string, fn Evaluator) {
	evalID := evaluationNodeID(file, unitKey)
	n := g.getOrCreate(evalID, NodeEvaluation)
	n.evaluator = fn
	n.stale = true // never evaluated yet
	g.indexFile(fileNodeID(file), evalID)

	concID := conclusionNodeID(resourceKey, fieldPath)
	c := g.getOrCreate(concID, NodeConclusion)
	c.producers[evalID] = true
}

// Conclusion declares (or returns, if already declared) the conclusion
// node for (resourceKey, fieldPath), wiring it to the convergence-config
// node and installing converge as its fold function.
func (g *Graph) Conclusion(resourceKey, fieldPath string, converge Converger) {
	id := conclusionNodeID(resourceKey, fieldPath)
	n := g.getOrCreate(id, NodeConclusion)
	n.converger = converge
	n.stale = true
	g.addEdge(ConvergenceConfigID, id)
}

// MarkFileStale implements §4.8's "Push": breadth-first propagation of
// staleness along forward (read-by) edges, starting from file's input
// node. A dependent already marked stale is not revisited, bounding the
// walk to the number of edges regardless of how densely connected the
// graph is.
func (g *Graph) MarkFileStale(file string) {
	g.markStale(fileNodeID(file))
}

// MarkConfigStale marks a config node (most commonly ConvergenceConfigID)
// stale, propagating to every conclusion and evaluation that reads it.
func (g *Graph) MarkConfigStale(id string) {
	g.markStale(id)
}

func (g *Graph) markStale(id string) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	queue := []string{id}
	n.stale = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for next := range g.nodes[cur].out {
			dep := g.nodes[next]
			if dep.stale {
				continue
			}
			dep.stale = true
			queue = append(queue, next)
		}
	}
}

// RemoveFile implements §4.8's "File removal": drops file's own input
// node, every evaluation rooted on it, and every observation those
// evaluations produced. A conclusion left with no remaining observation
// predecessors is removed too, since it no longer has anything to
// converge over.
func (g *Graph) RemoveFile(file string) {
	fid := fileNodeID(file)
	cluster := g.fileNodes[fid]
	delete(g.fileNodes, fid)

	removed := map[string]bool{fid: true}
	for id := range cluster {
		removed[id] = true
	}

	var emptiedConclusions []string
	for id := range removed {
		n, ok := g.nodes[id]
		if !ok {
			continue
		}
		if n.kind == NodeEvaluation {
			for _, obsID := range stringSetKeys(n.out) {
				if obs, ok := g.nodes[obsID]; ok && obs.kind == NodeObservation {
					for concID := range obs.out {
						emptiedConclusions = append(emptiedConclusions, concID)
					}
					g.deleteNode(obsID)
				}
			}
		}
		g.deleteNode(id)
	}

	for _, concID := range emptiedConclusions {
		c, ok := g.nodes[concID]
		if !ok || c.kind != NodeConclusion {
			continue
		}
		hasObservation := false
		for pred := range c.in {
			if p := g.nodes[pred]; p != nil && p.kind == NodeObservation {
				hasObservation = true
				break
			}
		}
		if !hasObservation {
			g.deleteNode(concID)
		}
	}
}

func (g *Graph) deleteNode(id string) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	for other := range n.out {
		if o := g.nodes[other]; o != nil {
			delete(o.in, id)
		}
	}
	for other := range n.in {
		if o := g.nodes[other]; o != nil {
			delete(o.out, id)
		}
	}
	delete(g.nodes, id)
}

// CycleSentinel is returned by Pull when it detects that conclusionID is
// already on the active pull stack — an evaluation transitively reading
// its own conclusion. No new frame is pushed for it: Handle is the handle
// of the frame already on the stack for that conclusion. Pull records no
// edge when it returns a sentinel; an evaluation that reads the cyclic
// conclusion gets an invalidation edge only if it records the read itself
// with Tracer.ReadConclusion.
type CycleSentinel struct {
	ConclusionID string
	Handle       uuid.UUID
}

// Pull implements §4.8's "Pull": re-runs any stale observation-producing
// evaluation, folds the fresh observations through the conclusion's
// Converger, and applies the value-sensitive cutoff — a conclusion whose
// new green token matches its previous one is marked fresh without
// touching its own downstream dependents' staleness (they stay exactly as
// stale or fresh as they already were).
func (g *Graph) Pull(resourceKey, fieldPath string) (RedValue, *CycleSentinel, error) {
	conclusionID := conclusionNodeID(resourceKey, fieldPath)
	for _, frame := range g.stack {
		if frame.nodeID == conclusionID {
			return RedValue{}, &CycleSentinel{ConclusionID: conclusionID, Handle: frame.handle}, nil
		}
	}

	n, ok := g.nodes[conclusionID]
	if !ok || n.kind != NodeConclusion {
		return RedValue{}, nil, nil
	}

	handle := uuid.New()
	g.stack = append(g.stack, stackFrame{nodeID: conclusionID, handle: handle})
	defer func() { g.stack = g.stack[:len(g.stack)-1] }()

	if !n.stale && n.hasValue {
		return n.red, nil, nil
	}

	// Re-run every declared producer that is stale. A conclusion pulled
	// for the first time has no observation edges yet (those are only
	// recorded once a producer actually calls Observe), so producers —
	// declared up front at PushContext time — is what drives discovery
	// here, not n.in.
	for evalID := range n.producers {
		if err := g.ensureFresh(evalID); err != nil {
			return RedValue{}, nil, err
		}
	}

	fresh := g.collectValues(conclusionID)

	if n.converger == nil {
		n.stale = false
		return n.red, nil, nil
	}
	red, green := n.converger(fresh)
	if n.hasValue && n.green == green {
		n.red = red
		n.stale = false
		return n.red, nil, nil // cutoff: downstream dependents untouched
	}
	n.red = red
	n.green = green
	n.hasValue = true
	n.stale = false
	return n.red, nil, nil
}

func (g *Graph) ensureFresh(evalID string) error {
	n := g.nodes[evalID]
	if n == nil || n.kind != NodeEvaluation || !n.stale {
		return nil
	}
	g.clearOutEdges(evalID)
	tracer := &Tracer{g: g, evalID: evalID}
	if n.evaluator != nil {
		if err := n.evaluator(tracer); err != nil {
			return err
		}
	}
	n.stale = false
	return nil
}

// clearOutEdges drops evalID's previously recorded observation edges (and
// the observation nodes themselves, if nothing else points at them)
// before re-running it, so the tracer's fresh calls start from a clean
// slate rather than accumulating stale observations across re-runs.
func (g *Graph) clearOutEdges(evalID string) {
	n := g.nodes[evalID]
	if n == nil {
		return
	}
	for _, obsID := range stringSetKeys(n.out) {
		g.deleteNode(obsID)
	}
}

// collectValues gathers the RedValue carried by every surviving
// observation predecessor of conclusionID, called after ensureFresh has
// re-run any stale producer (so n.in reflects the current, post-rerun set
// of observation edges).
func (g *Graph) collectValues(conclusionID string) []RedValue {
	n := g.nodes[conclusionID]
	if n == nil {
		return nil
	}
	out := make([]RedValue, 0, len(n.in))
	for obsID := range n.in {
		if obs, ok := g.nodes[obsID]; ok && obs.kind == NodeObservation {
			out = append(out, obs.value)
		}
	}
	return out
}

func stringSetKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
