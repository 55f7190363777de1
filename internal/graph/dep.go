// SPDX-License-Identifier: MPL-2.0

package graph

import "strings"

type (
	// Dep is a dependency reference: either a by-name reference to a
	// registered (or forward-referenced) target, an anonymous callable, or a
	// sequence of further references. Construct values with On, Call, Group,
	// or DepFrom; the traversal only ever sees the two leaf variants.
	Dep interface {
		isDep()
		String() string
	}

	namedDep struct{ name string }
	anonDep  struct{ cell *callableCell }
	groupDep struct{ deps []Dep }

	// callableCell gives an anonymous callable its identity. Go func values
	// are not comparable, and two closures over the same literal share a
	// code pointer, so the uniquely allocated cell is the identity instead:
	// reusing one Dep value de-duplicates, wrapping the same function twice
	// does not.
	callableCell struct{ fn func() error }
)

func (namedDep) isDep() {}
func (anonDep) isDep()  {}
func (groupDep) isDep() {}

func (d namedDep) String() string { return d.name }
func (d anonDep) String() string  { return "<callable>" }

func (d groupDep) String() string {
	parts := make([]string, len(d.deps))
	for i, dep := range d.deps {
		parts[i] = dep.String()
	}
	return strings.Join(parts, " ")
}

// On returns a by-name dependency reference. The argument may be a single
// target name or a whitespace-delimited list of names, one reference per
// token. Names need not be registered yet; forward references are resolved
// at execution time. An empty or all-whitespace argument yields a reference
// that adds no edges.
func On(names string) Dep {
	fields := strings.Fields(names)
	if len(fields) == 1 {
		return namedDep{name: fields[0]}
	}
	deps := make([]Dep, len(fields))
	for i, name := range fields {
		deps[i] = namedDep{name: name}
	}
	return groupDep{deps: deps}
}

// Call returns an anonymous dependency around fn. The returned value carries
// its own identity: using it as a dependency of several targets runs fn once
// per Execute call, while two separate Call wrappings of the same function
// are distinct and each run once.
func Call(fn func() error) Dep {
	return anonDep{cell: &callableCell{fn: fn}}
}

// Group bundles several dependency references into one. Nested groups are
// flattened when edges are added.
func Group(deps ...Dep) Dep {
	return groupDep{deps: deps}
}

// DepFrom normalizes a dynamically-typed dependency value into a Dep. It
// accepts a Dep, a (possibly whitespace-delimited) name string, a
// func() error callable, or a slice of any accepted shape, recursively.
// Any other shape returns InvalidDependencyError. This is the bridge for
// front ends that accept loosely-typed dependency declarations; typed
// callers can construct Deps directly.
func DepFrom(v any) (Dep, error) {
	switch dep := v.(type) {
	case Dep:
		return dep, nil
	case string:
		return On(dep), nil
	case func() error:
		return Call(dep), nil
	case []string:
		deps := make([]Dep, len(dep))
		for i, s := range dep {
			deps[i] = On(s)
		}
		return groupDep{deps: deps}, nil
	case []Dep:
		return groupDep{deps: dep}, nil
	case []any:
		deps := make([]Dep, 0, len(dep))
		for _, item := range dep {
			d, err := DepFrom(item)
			if err != nil {
				return nil, err
			}
			deps = append(deps, d)
		}
		return groupDep{deps: deps}, nil
	default:
		return nil, &InvalidDependencyError{Value: v}
	}
}

// flatten expands groups into leaf references in declaration order.
// A nil callable is rejected here so it fails at declaration time rather
// than mid-traversal.
func flatten(dep Dep, out []Dep) ([]Dep, error) {
	switch d := dep.(type) {
	case namedDep:
		return append(out, d), nil
	case anonDep:
		if d.cell == nil || d.cell.fn == nil {
			return nil, &InvalidDependencyError{Value: dep}
		}
		return append(out, d), nil
	case groupDep:
		var err error
		for _, inner := range d.deps {
			if out, err = flatten(inner, out); err != nil {
				return nil, err
			}
		}
		return out, nil
	default:
		return nil, &InvalidDependencyError{Value: dep}
	}
}
