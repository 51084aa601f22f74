package query

import "testing"

func TestDerivedMemoizesUntilInputChanges(t *testing.T) {
	e := NewEngine()
	SetInput(e, "source_text", "a.mzn", "hello")

	calls := 0
	double := func(eng *Engine, arg any) (int, error) {
		calls++
		text, _ := Derived(eng, "source_text", arg, func(_ *Engine, _ any) (string, error) {
			return "", nil // unreachable; source_text is an input, not derived
		})
		return len(text), nil
	}
	_ = double

	readLen := func(eng *Engine, arg any) (int, error) {
		calls++
		text, _ := Derived(eng, "source_text", arg, func(_ *Engine, _ any) (string, error) {
			return "", nil // unreachable; source_text is an input, not derived
		})
		return len(text), nil
	}

	v1, err := Derived(e, "text_len", "a.mzn", readLen)
	if err != nil || v1 != 5 {
		t.Fatalf("first compute: got (%d, %v), want (5, nil)", v1, err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call after first compute, got %d", calls)
	}

	v2, err := Derived(e, "text_len", "a.mzn", readLen)
	if err != nil || v2 != 5 {
		t.Fatalf("second compute: got (%d, %v), want (5, nil)", v2, err)
	}
	if calls != 1 {
		t.Fatalf("expected memoized result (still 1 call), got %d calls", calls)
	}

	SetInput(e, "source_text", "a.mzn", "hello!!")
	v3, err := Derived(e, "text_len", "a.mzn", readLen)
	if err != nil || v3 != 7 {
		t.Fatalf("after invalidation: got (%d, %v), want (7, nil)", v3, err)
	}
	if calls != 2 {
		t.Fatalf("expected recomputation after input change, got %d calls", calls)
	}
}

func TestDerivedDetectsCycles(t *testing.T) {
	e := NewEngine()

	var cyclic Compute[int]
	cyclic = func(eng *Engine, arg any) (int, error) {
		return Derived(eng, "cyclic", arg, cyclic)
	}

	_, err := Derived(e, "cyclic", "x", cyclic)
	if err == nil {
		t.Fatalf("expected a cycle error")
	}
	if _, ok := err.(*CycleError); !ok {
		t.Fatalf("expected *CycleError, got %T: %v", err, err)
	}
}

func TestDerivedIndependentArgsDoNotCollide(t *testing.T) {
	e := NewEngine()
	calls := map[string]int{}
	fn := func(_ *Engine, arg any) (int, error) {
		name, _ := arg.(string)
		calls[name]++
		return len(name), nil
	}

	if _, err := Derived(e, "len", "alpha", fn); err != nil {
		t.Fatal(err)
	}
	if _, err := Derived(e, "len", "beta", fn); err != nil {
		t.Fatal(err)
	}
	if calls["alpha"] != 1 || calls["beta"] != 1 {
		t.Fatalf("expected one call per distinct arg, got %v", calls)
	}
}
