package cfgflag

import "testing"

func TestParseSetsNamedBoolFlags(t *testing.T) {
	var c Config
	if err := Parse(&c, "tracebind,stripsourced=false"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !c.TraceBind {
		t.Errorf("expected tracebind (bare name) to set true")
	}
	if c.StripSourced {
		t.Errorf("expected stripsourced=false to stay false")
	}
}

func TestParseLeavesNonBoolFieldsUntouched(t *testing.T) {
	c := Config{LogEval: 3, CacheMode: CacheReadOnly}
	if err := Parse(&c, "tracebind"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if c.LogEval != 3 || c.CacheMode != CacheReadOnly {
		t.Errorf("expected non-bool fields to be left alone, got %+v", c)
	}
}

func TestParseReportsUnknownFlagsButKeepsGoing(t *testing.T) {
	var c Config
	err := Parse(&c, "nosuchflag,tracebind")
	if err == nil {
		t.Fatalf("expected an error for the unknown flag")
	}
	if !c.TraceBind {
		t.Errorf("expected the valid flag after the unknown one to still be applied")
	}
}

func TestParseEmptyEnvIsNoop(t *testing.T) {
	c := Config{TraceBind: true}
	if err := Parse(&c, ""); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !c.TraceBind {
		t.Errorf("expected an empty env string to leave existing values alone")
	}
}
