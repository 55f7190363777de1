// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"context"
	"errors"
	"slices"
	"testing"
)

// countAction returns a Func action that increments counter when run.
func countAction(counter *int) Action {
	return Func(func() error {
		*counter++
		return nil
	})
}

// recordAction returns a Func action that appends name to events when run.
func recordAction(events *[]string, name string) Action {
	return Func(func() error {
		*events = append(*events, name)
		return nil
	})
}

// fakeRunner records the command lines it receives and returns a fixed error.
type fakeRunner struct {
	commands []string
	err      error
}

func (f *fakeRunner) Run(_ context.Context, command string) error {
	f.commands = append(f.commands, command)
	return f.err
}

func TestDefineNameValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		target    string
		wantValid bool
	}{
		{name: "plain name is valid", target: "build", wantValid: true},
		{name: "dotted name is valid", target: "test.unit", wantValid: true},
		{name: "empty name is invalid", target: "", wantValid: false},
		{name: "space is invalid", target: "target with space", wantValid: false},
		{name: "tab is invalid", target: "a\tb", wantValid: false},
		{name: "newline is invalid", target: "a\nb", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := New()
			err := g.Define(tt.target, Noop())
			if tt.wantValid {
				if err != nil {
					t.Fatalf("Define(%q) = %v, want nil", tt.target, err)
				}
				if !slices.Contains(g.Targets(), tt.target) {
					t.Errorf("Targets() does not contain %q after Define", tt.target)
				}
				return
			}
			if !errors.Is(err, ErrInvalidName) {
				t.Errorf("Define(%q) = %v, want ErrInvalidName", tt.target, err)
			}
			var nameErr *InvalidNameError
			if !errors.As(err, &nameErr) {
				t.Errorf("Define(%q) error is not *InvalidNameError", tt.target)
			}
		})
	}
}

func TestExecuteRunsActionOnce(t *testing.T) {
	t.Parallel()

	called := 0
	g := New()
	if err := g.Define("target", countAction(&called)); err != nil {
		t.Fatal(err)
	}
	if err := g.Execute(context.Background(), "target"); err != nil {
		t.Fatal(err)
	}
	if called != 1 {
		t.Errorf("action ran %d times, want 1", called)
	}
}

func TestExecuteNamedDep(t *testing.T) {
	t.Parallel()

	called := 0
	g := New()
	if err := g.Define("target", countAction(&called)); err != nil {
		t.Fatal(err)
	}
	if err := g.Define("target2", countAction(&called)); err != nil {
		t.Fatal(err)
	}
	if err := g.Depend("target", "target2"); err != nil {
		t.Fatal(err)
	}
	if err := g.Execute(context.Background(), "target"); err != nil {
		t.Fatal(err)
	}
	if called != 2 {
		t.Errorf("actions ran %d times, want 2", called)
	}
}

func TestExecuteInlineDeps(t *testing.T) {
	t.Parallel()

	called := 0
	g := New()
	if err := g.Define("target", countAction(&called)); err != nil {
		t.Fatal(err)
	}
	if err := g.Define("target2", countAction(&called), "target"); err != nil {
		t.Fatal(err)
	}
	if err := g.Execute(context.Background(), "target2"); err != nil {
		t.Fatal(err)
	}
	if called != 2 {
		t.Errorf("actions ran %d times, want 2", called)
	}
}

func TestExecuteMultiNameStringDep(t *testing.T) {
	t.Parallel()

	called := 0
	g := New()
	for _, name := range []string{"target", "target2", "target3"} {
		if err := g.Define(name, countAction(&called)); err != nil {
			t.Fatal(err)
		}
	}
	// One whitespace-delimited string declares one edge per token.
	if err := g.Depend("target", "target2 target3"); err != nil {
		t.Fatal(err)
	}
	if err := g.Execute(context.Background(), "target"); err != nil {
		t.Fatal(err)
	}
	if called != 3 {
		t.Errorf("actions ran %d times, want 3", called)
	}
}

func TestExecuteSliceDeps(t *testing.T) {
	t.Parallel()

	called := 0
	g := New()
	for _, name := range []string{"target", "target2", "target3"} {
		if err := g.Define(name, countAction(&called)); err != nil {
			t.Fatal(err)
		}
	}
	anon := func() error { called++; return nil }
	if err := g.Depend("target", []any{"target2", "target3", anon}); err != nil {
		t.Fatal(err)
	}
	if err := g.Execute(context.Background(), "target"); err != nil {
		t.Fatal(err)
	}
	if called != 4 {
		t.Errorf("actions ran %d times, want 4", called)
	}
}

func TestExecuteAnonymousDepDedup(t *testing.T) {
	t.Parallel()

	t.Run("shared reference runs once", func(t *testing.T) {
		t.Parallel()

		called, anonCalled := 0, 0
		g := New()
		for _, name := range []string{"target", "target2", "target3"} {
			if err := g.Define(name, countAction(&called)); err != nil {
				t.Fatal(err)
			}
		}
		if err := g.Depend("target", "target2 target3"); err != nil {
			t.Fatal(err)
		}
		if err := g.Depend("target2", "target3"); err != nil {
			t.Fatal(err)
		}
		// The same Dep value attached to three targets carries one identity.
		anon := Call(func() error { anonCalled++; return nil })
		for _, name := range []string{"target", "target2", "target3"} {
			if err := g.Depend(name, anon); err != nil {
				t.Fatal(err)
			}
		}
		if err := g.Execute(context.Background(), "target"); err != nil {
			t.Fatal(err)
		}
		if called != 3 {
			t.Errorf("named actions ran %d times, want 3", called)
		}
		if anonCalled != 1 {
			t.Errorf("anonymous dep ran %d times, want 1", anonCalled)
		}
	})

	t.Run("separate wrappings are distinct", func(t *testing.T) {
		t.Parallel()

		anonCalled := 0
		fn := func() error { anonCalled++; return nil }
		g := New()
		if err := g.Define("target", Noop(), Call(fn), Call(fn)); err != nil {
			t.Fatal(err)
		}
		if err := g.Execute(context.Background(), "target"); err != nil {
			t.Fatal(err)
		}
		if anonCalled != 2 {
			t.Errorf("anonymous deps ran %d times, want 2", anonCalled)
		}
	})
}

func TestDuplicateEdgeIsNoOp(t *testing.T) {
	t.Parallel()

	called := 0
	g := New()
	if err := g.Define("target", countAction(&called)); err != nil {
		t.Fatal(err)
	}
	if err := g.Define("target2", countAction(&called)); err != nil {
		t.Fatal(err)
	}
	if err := g.Depend("target", "target2"); err != nil {
		t.Fatal(err)
	}
	if err := g.Depend("target", "target2"); err != nil {
		t.Fatal(err)
	}

	deps, err := g.Dependencies("target")
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 1 {
		t.Errorf("Dependencies(\"target\") has %d edges, want 1", len(deps))
	}
	if err := g.Execute(context.Background(), "target"); err != nil {
		t.Fatal(err)
	}
	if called != 2 {
		t.Errorf("actions ran %d times, want 2", called)
	}
}

func TestDiamondRunsSharedDepOnce(t *testing.T) {
	t.Parallel()

	called := 0
	g := New()
	for _, name := range []string{"target", "target2", "target3", "target4"} {
		if err := g.Define(name, countAction(&called)); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Depend("target3", "target4"); err != nil {
		t.Fatal(err)
	}
	if err := g.Depend("target2", []string{"target3", "target4"}); err != nil {
		t.Fatal(err)
	}
	if err := g.Depend("target", "target2 target3 target4"); err != nil {
		t.Fatal(err)
	}
	if err := g.Execute(context.Background(), "target"); err != nil {
		t.Fatal(err)
	}
	if called != 4 {
		t.Errorf("actions ran %d times, want 4", called)
	}
}

func TestDependencyOrder(t *testing.T) {
	t.Parallel()

	// T3 depends on T2 and T1; T2's increment must be observably complete
	// before T3's action runs, and T1 (no-op) must not disturb the count.
	var events []string
	g := New()
	if err := g.Define("t1", Noop()); err != nil {
		t.Fatal(err)
	}
	if err := g.Define("t2", recordAction(&events, "t2")); err != nil {
		t.Fatal(err)
	}
	if err := g.Define("t3", recordAction(&events, "t3"), "t2 t1"); err != nil {
		t.Fatal(err)
	}
	if err := g.Execute(context.Background(), "t3"); err != nil {
		t.Fatal(err)
	}
	want := []string{"t2", "t3"}
	if !slices.Equal(events, want) {
		t.Errorf("execution order = %v, want %v", events, want)
	}
}

func TestNoopGroupingTarget(t *testing.T) {
	t.Parallel()

	called := 0
	g := New()
	if err := g.Define("target", countAction(&called)); err != nil {
		t.Fatal(err)
	}
	// nil action normalizes to Noop
	if err := g.Define("group", nil, "target"); err != nil {
		t.Fatal(err)
	}
	if err := g.Execute(context.Background(), "group"); err != nil {
		t.Fatal(err)
	}
	if called != 1 {
		t.Errorf("actions ran %d times, want 1", called)
	}
}

func TestCycleTermination(t *testing.T) {
	t.Parallel()

	policies := []struct {
		name   string
		policy CyclePolicy
	}{
		{name: "mark before recurse", policy: MarkBeforeRecurse},
		{name: "mark before action", policy: MarkBeforeAction},
	}

	for _, tt := range policies {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := 0
			g := New(WithCyclePolicy(tt.policy))
			if err := g.Define("target", countAction(&called)); err != nil {
				t.Fatal(err)
			}
			if err := g.Define("target2", countAction(&called)); err != nil {
				t.Fatal(err)
			}
			if err := g.Depend("target", "target2"); err != nil {
				t.Fatal(err)
			}
			if err := g.Depend("target2", "target"); err != nil {
				t.Fatal(err)
			}
			if err := g.Execute(context.Background(), "target"); err != nil {
				t.Fatal(err)
			}
			if called != 2 {
				t.Errorf("actions ran %d times, want 2", called)
			}
		})

		t.Run(tt.name+" self dependency", func(t *testing.T) {
			t.Parallel()

			called := 0
			g := New(WithCyclePolicy(tt.policy))
			if err := g.Define("target", countAction(&called), "target"); err != nil {
				t.Fatal(err)
			}
			if err := g.Execute(context.Background(), "target"); err != nil {
				t.Fatal(err)
			}
			if called != 1 {
				t.Errorf("action ran %d times, want 1", called)
			}
		})
	}
}

func TestExecuteUnknownTarget(t *testing.T) {
	t.Parallel()

	g := New()
	err := g.Execute(context.Background(), "missing")
	if !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("Execute(missing) = %v, want ErrUnknownTarget", err)
	}
	var unknownErr *UnknownTargetError
	if !errors.As(err, &unknownErr) {
		t.Fatal("error is not *UnknownTargetError")
	}
	if unknownErr.Name != "missing" {
		t.Errorf("UnknownTargetError.Name = %q, want %q", unknownErr.Name, "missing")
	}
}

func TestMissingDepFailsAtExecutionTime(t *testing.T) {
	t.Parallel()

	called := 0
	g := New()
	if err := g.Define("target", countAction(&called)); err != nil {
		t.Fatal(err)
	}
	// Forward references are legal at declaration time...
	if err := g.Depend("target", "target2"); err != nil {
		t.Fatalf("Depend with forward reference = %v, want nil", err)
	}
	// ...and only resolve (or fail) when executed.
	err := g.Execute(context.Background(), "target")
	if !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("Execute = %v, want ErrUnknownTarget", err)
	}
	if called != 0 {
		t.Errorf("target action ran %d times before lookup failure, want 0", called)
	}

	// Defining the missing name afterwards makes the same graph executable.
	if err := g.Define("target2", countAction(&called)); err != nil {
		t.Fatal(err)
	}
	if err := g.Execute(context.Background(), "target"); err != nil {
		t.Fatal(err)
	}
	if called != 2 {
		t.Errorf("actions ran %d times, want 2", called)
	}
}

func TestTargetsSorted(t *testing.T) {
	t.Parallel()

	g := New()
	for _, name := range []string{"c", "a", "b"} {
		if err := g.Define(name, Noop()); err != nil {
			t.Fatal(err)
		}
	}
	got := g.Targets()
	want := []string{"a", "b", "c"}
	if !slices.Equal(got, want) {
		t.Errorf("Targets() = %v, want %v", got, want)
	}
}

func TestDependenciesInspection(t *testing.T) {
	t.Parallel()

	g := New()
	if err := g.Define("target", Noop(), "b a", Call(func() error { return nil })); err != nil {
		t.Fatal(err)
	}
	if err := g.Define("leaf", Noop()); err != nil {
		t.Fatal(err)
	}

	deps, err := g.Dependencies("target")
	if err != nil {
		t.Fatal(err)
	}
	// Declaration order, not sorted.
	if len(deps) != 3 || deps[0].String() != "b" || deps[1].String() != "a" || deps[2].String() != "<callable>" {
		t.Errorf("Dependencies(\"target\") = %v, want [b a <callable>]", deps)
	}

	deps, err = g.Dependencies("leaf")
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 0 {
		t.Errorf("Dependencies(\"leaf\") = %v, want empty", deps)
	}

	if _, err := g.Dependencies("missing"); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("Dependencies(\"missing\") = %v, want ErrUnknownTarget", err)
	}
}

func TestInvalidDependencyShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dep  any
	}{
		{name: "int", dep: 42},
		{name: "nil", dep: nil},
		{name: "func with args", dep: func(int) error { return nil }},
		{name: "nil callable", dep: Call(nil)},
		{name: "slice with bad element", dep: []any{"ok", 3.14}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := New()
			if err := g.Define("target", Noop()); err != nil {
				t.Fatal(err)
			}
			err := g.Depend("target", tt.dep)
			if !errors.Is(err, ErrInvalidDependency) {
				t.Errorf("Depend(%v) = %v, want ErrInvalidDependency", tt.dep, err)
			}
		})
	}
}

func TestRedefineKeepsEdges(t *testing.T) {
	t.Parallel()

	first, second, dep := 0, 0, 0
	g := New()
	if err := g.Define("leaf", countAction(&dep)); err != nil {
		t.Fatal(err)
	}
	if err := g.Define("target", countAction(&first), "leaf"); err != nil {
		t.Fatal(err)
	}
	// Re-defining replaces the action but keeps previously declared edges.
	if err := g.Define("target", countAction(&second)); err != nil {
		t.Fatal(err)
	}
	if err := g.Execute(context.Background(), "target"); err != nil {
		t.Fatal(err)
	}
	if first != 0 || second != 1 || dep != 1 {
		t.Errorf("got first=%d second=%d dep=%d, want 0 1 1", first, second, dep)
	}
}

func TestCommandActionDispatch(t *testing.T) {
	t.Parallel()

	t.Run("delegates to runner", func(t *testing.T) {
		t.Parallel()

		runner := &fakeRunner{}
		g := New(WithRunner(runner))
		if err := g.Define("target", Command("echo test")); err != nil {
			t.Fatal(err)
		}
		if err := g.Execute(context.Background(), "target"); err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(runner.commands, []string{"echo test"}) {
			t.Errorf("runner received %v, want [echo test]", runner.commands)
		}
	})

	t.Run("runner failure propagates", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("exit status 1")
		runner := &fakeRunner{err: wantErr}
		g := New(WithRunner(runner))
		if err := g.Define("target", Command("false")); err != nil {
			t.Fatal(err)
		}
		if err := g.Execute(context.Background(), "target"); !errors.Is(err, wantErr) {
			t.Errorf("Execute = %v, want %v", err, wantErr)
		}
	})

	t.Run("no runner configured", func(t *testing.T) {
		t.Parallel()

		g := New()
		if err := g.Define("target", Command("echo test")); err != nil {
			t.Fatal(err)
		}
		if err := g.Execute(context.Background(), "target"); !errors.Is(err, ErrNoCommandRunner) {
			t.Errorf("Execute = %v, want ErrNoCommandRunner", err)
		}
	})
}

func TestCallableFailureAbortsTraversal(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	ran := 0
	g := New()
	if err := g.Define("failing", Func(func() error { return wantErr })); err != nil {
		t.Fatal(err)
	}
	if err := g.Define("after", countAction(&ran)); err != nil {
		t.Fatal(err)
	}
	if err := g.Define("target", countAction(&ran), "failing after"); err != nil {
		t.Fatal(err)
	}

	if err := g.Execute(context.Background(), "target"); !errors.Is(err, wantErr) {
		t.Fatalf("Execute = %v, want %v", err, wantErr)
	}
	if ran != 0 {
		t.Errorf("%d actions ran after the failure, want 0", ran)
	}
}

func TestExecuteHonoursCancellation(t *testing.T) {
	t.Parallel()

	ran := 0
	g := New()
	if err := g.Define("dep", countAction(&ran)); err != nil {
		t.Fatal(err)
	}
	if err := g.Define("target", countAction(&ran), "dep"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.Execute(ctx, "target"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute = %v, want context.Canceled", err)
	}
	if ran != 0 {
		t.Errorf("%d actions ran under a cancelled context, want 0", ran)
	}
}

func TestExecutionSetIsPerCall(t *testing.T) {
	t.Parallel()

	called := 0
	g := New()
	if err := g.Define("target", countAction(&called)); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := g.Execute(context.Background(), "target"); err != nil {
			t.Fatal(err)
		}
	}
	if called != 3 {
		t.Errorf("action ran %d times across 3 calls, want 3", called)
	}
}
