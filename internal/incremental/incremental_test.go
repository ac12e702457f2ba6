package incremental

import "testing"

func concatConverge(values []RedValue) (RedValue, GreenToken) {
	total := ""
	for _, v := range values {
		s, _ := v.Value.(string)
		total += s
	}
	return RedValue{Value: total}, GreenToken(total)
}

func TestPullEvaluatesStaleChainOnce(t *testing.T) {
	g := New()
	runs := 0
	g.PushContext("foo.ts", "recognize", "foo", "kind", func(tr *Tracer) error {
		runs++
		tr.ReadFile("foo.ts")
		tr.Observe("foo", "kind", RedValue{Value: "element"})
		return nil
	})
	g.Conclusion("foo", "kind", concatConverge)

	red, cycle, err := g.Pull("foo", "kind")
	if err != nil || cycle != nil {
		t.Fatalf("unexpected cycle/error: %v %v", cycle, err)
	}
	if red.Value != "element" {
		t.Fatalf("expected converged value %q, got %q", "element", red.Value)
	}
	if runs != 1 {
		t.Fatalf("expected exactly one evaluation run, got %d", runs)
	}

	// Pulling again without any staleness must not re-run the evaluator.
	if _, _, err := g.Pull("foo", "kind"); err != nil {
		t.Fatalf("unexpected error on second pull: %s", err)
	}
	if runs != 1 {
		t.Fatalf("expected the cached conclusion to skip re-evaluation, got %d runs", runs)
	}
}

func TestMarkFileStalePropagatesToConclusion(t *testing.T) {
	g := New()
	g.PushContext("foo.ts", "recognize", "foo", "kind", func(tr *Tracer) error {
		tr.ReadFile("foo.ts")
		tr.Observe("foo", "kind", RedValue{Value: "element"})
		return nil
	})
	g.Conclusion("foo", "kind", concatConverge)
	if _, _, err := g.Pull("foo", "kind"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	g.MarkFileStale("foo.ts")
	n := g.nodes[conclusionNodeID("foo", "kind")]
	if !n.stale {
		t.Fatalf("expected marking the source file stale to propagate to its conclusion")
	}
}

func TestPullAppliesValueSensitiveCutoff(t *testing.T) {
	g := New()
	text := "element"
	g.PushContext("foo.ts", "recognize", "foo", "kind", func(tr *Tracer) error {
		tr.ReadFile("foo.ts")
		tr.Observe("foo", "kind", RedValue{Value: text})
		return nil
	})
	g.Conclusion("foo", "kind", concatConverge)

	if _, _, err := g.Pull("foo", "kind"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	firstGreen := g.nodes[conclusionNodeID("foo", "kind")].green

	// A cosmetic re-evaluation that recomputes the identical value should
	// leave the green token unchanged (cutoff).
	g.MarkFileStale("foo.ts")
	if _, _, err := g.Pull("foo", "kind"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	secondGreen := g.nodes[conclusionNodeID("foo", "kind")].green
	if firstGreen != secondGreen {
		t.Fatalf("expected an unchanged green token across a no-op re-evaluation, got %q then %q", firstGreen, secondGreen)
	}
}

func TestPullDetectsCycleViaReentry(t *testing.T) {
	g := New()
	var cycleSeen *CycleSentinel
	g.PushContext("a.ts", "recognize", "a", "self", func(tr *Tracer) error {
		tr.ReadFile("a.ts")
		_, cycle, err := g.Pull("a", "self")
		if err != nil {
			return err
		}
		cycleSeen = cycle
		tr.Observe("a", "self", RedValue{Value: "x"})
		return nil
	})
	g.Conclusion("a", "self", concatConverge)

	if _, _, err := g.Pull("a", "self"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if cycleSeen == nil {
		t.Fatalf("expected re-entrant Pull to return a cycle sentinel")
	}
	if cycleSeen.ConclusionID != conclusionNodeID("a", "self") {
		t.Errorf("expected the sentinel to name the re-entered conclusion, got %q", cycleSeen.ConclusionID)
	}
}

func TestRemoveFileDropsEvaluationsAndEmptiedConclusions(t *testing.T) {
	g := New()
	g.PushContext("foo.ts", "recognize", "foo", "kind", func(tr *Tracer) error {
		tr.ReadFile("foo.ts")
		tr.Observe("foo", "kind", RedValue{Value: "element"})
		return nil
	})
	g.Conclusion("foo", "kind", concatConverge)
	if _, _, err := g.Pull("foo", "kind"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	g.RemoveFile("foo.ts")

	if _, ok := g.nodes[fileNodeID("foo.ts")]; ok {
		t.Errorf("expected the file node to be removed")
	}
	if _, ok := g.nodes[evaluationNodeID("foo.ts", "recognize")]; ok {
		t.Errorf("expected the evaluation node to be removed")
	}
	if _, ok := g.nodes[conclusionNodeID("foo", "kind")]; ok {
		t.Errorf("expected the conclusion to be removed once it has no remaining observations")
	}
}
