// Package stats computes summary statistics over traced programs: how many
// equations apply each primitive, where in user code they come from, and
// what shapes they produce.
package stats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	xgxtrace "github.com/xgx-io/xgx-trace"
)

// Program is a traced program: a flat list of equations, some of which carry
// nested programs (loop bodies, branches, transformed callees).
type Program struct {
	Eqns []Eqn `yaml:"eqns"`
}

// Eqn applies one primitive.
type Eqn struct {
	Primitive   string         `yaml:"primitive"`
	Source      xgxtrace.Stack `yaml:"source"` // most recent call first
	Outvars     []Var          `yaml:"outvars"`
	Subprograms []Program      `yaml:"subprograms"`
}

// Var is an equation output.
type Var struct {
	Dtype string `yaml:"dtype"`
	Shape []int  `yaml:"shape"`
	Drop  bool   `yaml:"drop"` // result is discarded
}

// Histogram maps a key to the number of equations with that key.
type Histogram map[string]int

// CollectEqns groups the equations of p, including those of nested programs,
// by key.
func CollectEqns(p Program, key func(Eqn) string) map[string][]Eqn {
	out := make(map[string][]Eqn)
	collect(p, key, out)
	return out
}

func collect(p Program, key func(Eqn) string, out map[string][]Eqn) {
	for _, eqn := range p.Eqns {
		k := key(eqn)
		out[k] = append(out[k], eqn)
	}
	for _, eqn := range p.Eqns {
		for _, sub := range eqn.Subprograms {
			collect(sub, key, out)
		}
	}
}

// Build counts the equations of p by key.
func Build(p Program, key func(Eqn) string) Histogram {
	h := make(Histogram)
	for k, eqns := range CollectEqns(p, key) {
		h[k] = len(eqns)
	}
	return h
}

// Primitives counts equations by primitive name.
func Primitives(p Program) Histogram {
	return Build(p, func(e Eqn) string { return e.Primitive })
}

// PrimitivesBySource counts equations by primitive and the user frame that
// emitted them, keyed "<primitive> @ <file>:<line> (<func>)".
func PrimitivesBySource(p Program, ps xgxtrace.PathSet) Histogram {
	return Build(p, func(e Eqn) string {
		return e.Primitive + " @ " + Summarize(e.Source, ps)
	})
}

// PrimitivesByShape counts equations by primitive and output shapes, keyed
// "<primitive> :: <dtype>[<dims>] ...". Discarded outputs render as "*".
func PrimitivesByShape(p Program) Histogram {
	return Build(p, func(e Eqn) string {
		shapes := make([]string, len(e.Outvars))
		for i, v := range e.Outvars {
			shapes[i] = v.String()
		}
		return e.Primitive + " :: " + strings.Join(shapes, " ")
	})
}

func (v Var) String() string {
	if v.Drop {
		return "*"
	}
	dims := make([]string, len(v.Shape))
	for i, d := range v.Shape {
		dims[i] = strconv.Itoa(d)
	}
	return v.Dtype + "[" + strings.Join(dims, ",") + "]"
}

// Summarize renders the innermost frame of source that ps shows to users as
// "<file>:<line> (<func>)", or "unknown".
func Summarize(source xgxtrace.Stack, ps xgxtrace.PathSet) string {
	for _, f := range source {
		if ps.Include(f) {
			return fmt.Sprintf("%s:%d (%s)", f.File, f.Line, f.Function)
		}
	}
	return "unknown"
}

// Merge sums histograms.
func Merge(hs ...Histogram) Histogram {
	out := make(Histogram)
	for _, h := range hs {
		for k, n := range h {
			out[k] += n
		}
	}
	return out
}

// Fprint writes h one row per key, largest count first (ties by key,
// descending), counts right-aligned.
func Fprint(w io.Writer, h Histogram) error {
	type row struct {
		count int
		key   string
	}
	rows := make([]row, 0, len(h))
	width := 0
	for k, n := range h {
		rows = append(rows, row{n, k})
		width = max(width, len(strconv.Itoa(n)))
	}
	slices.SortFunc(rows, func(a, b row) int {
		if a.count != b.count {
			return b.count - a.count
		}
		return strings.Compare(b.key, a.key)
	})
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%*d %s\n", width, r.count, r.key); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that every equation names a primitive and every shape is
// non-negative.
func (p Program) Validate() error {
	for i, eqn := range p.Eqns {
		if eqn.Primitive == "" {
			return xgxtrace.ValueErrorf("equation %d has no primitive", i).With("eqn", i)
		}
		for _, v := range eqn.Outvars {
			for _, d := range v.Shape {
				if d < 0 {
					return xgxtrace.ValueErrorf("%s: negative dimension in %s", eqn.Primitive, v).With("eqn", i)
				}
			}
		}
		for _, sub := range eqn.Subprograms {
			if err := sub.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Parse decodes and validates a YAML program.
func Parse(data []byte) (Program, error) {
	var p Program
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Program{}, xgxtrace.Errorf(xgxtrace.KindValue, "stats: parse program: %w", err)
	}
	return p, p.Validate()
}

// Load reads a YAML program from path.
func Load(path string) (Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Program{}, xgxtrace.WithStack(err)
	}
	p, err := Parse(data)
	if err != nil {
		// Prefix the path but keep the kind, fields and raise point.
		var fe xgxtrace.Error
		if errors.As(err, &fe) {
			return Program{}, fe.Reconstruct(path + ": " + fe.Message())
		}
		return Program{}, xgxtrace.Wrapf(err, xgxtrace.KindValue, "%s: %v", path, err)
	}
	return p, nil
}

// LoadAll loads programs concurrently, returning them in the order of paths.
// The first failure cancels the rest.
func LoadAll(ctx context.Context, paths ...string) ([]Program, error) {
	out := make([]Program, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := Load(path)
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
