// Package compiler translates SERE expression trees into automata.
//
// Each operator maps to one construction of the nfa package. A Boolean
// formula over one event becomes a single guarded transition. Negation goes
// through anchored subset construction, so the operand is always made total
// before its finality is swapped. The simple target is then determinized for
// unanchored search and minimized; the extended target is trimmed and reduced
// by bisimulation.
package compiler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/coregx/sere/alphabet"
	"github.com/coregx/sere/dfa"
	"github.com/coregx/sere/nfa"
	"github.com/coregx/sere/syntax"
)

// Result is a compiled pattern. Exactly one of DFA (Simple) and NFA
// (Extended) is set.
type Result struct {
	Target  Target
	Atomics *alphabet.Table
	DFA     *dfa.DFA
	NFA     *nfa.NFA
}

// States returns the state count of the compiled automaton.
func (r *Result) States() int {
	if r.DFA != nil {
		return r.DFA.States()
	}
	return r.NFA.States()
}

// Compile parses pattern and compiles it for target.
func Compile(pattern string, target Target, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e, err := syntax.ParseWithDepth(pattern, cfg.MaxRecursionDepth)
	if err != nil {
		return nil, err
	}
	return CompileExpr(e, target, cfg)
}

// CompileExpr compiles an already parsed expression. Predicate indices follow
// the order of first appearance in e.
func CompileExpr(e *syntax.Expr, target Target, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if target != Simple && target != Extended {
		return nil, fmt.Errorf("compiler: unknown target %v", target)
	}
	began := time.Now()
	log := cfg.logger().With(slog.String("component", "compiler"))

	table := alphabet.NewTable()
	for _, name := range e.Atomics() {
		table.Intern(name)
	}
	if table.Len() > cfg.MaxAtomics {
		return nil, tooComplex(fmt.Errorf("%d atomic predicates, limit is %d", table.Len(), cfg.MaxAtomics))
	}

	c := &compiler{
		cfg:   cfg,
		table: table,
		ops:   nfa.Ops{Letters: table.Letters(), MaxStates: cfg.MaxNFAStates},
		dcfg:  dfa.DefaultConfig().WithMaxStates(cfg.MaxDFAStates),
	}
	n, err := c.compile(e)
	if err != nil {
		return nil, err
	}
	n = nfa.Trim(n)

	res := &Result{Target: target, Atomics: table}
	switch target {
	case Simple:
		d, err := dfa.DeterminizeUnanchored(n, c.dcfg)
		if err != nil {
			return nil, tooComplex(err)
		}
		res.DFA = d.Minimize()
	case Extended:
		res.NFA = nfa.Reduce(n)
	}

	log.Debug("compiled pattern",
		slog.String("target", target.String()),
		slog.Int("atomics", table.Len()),
		slog.Int("nfa_states", n.States()),
		slog.Int("states", res.States()),
		slog.Int("negations", c.negations),
		slog.Duration("duration", time.Since(began)),
	)
	return res, nil
}

type compiler struct {
	cfg       Config
	table     *alphabet.Table
	ops       nfa.Ops
	dcfg      dfa.Config
	negations int
}

func (c *compiler) compile(e *syntax.Expr) (*nfa.NFA, error) {
	switch e.Op {
	case syntax.OpEmpty:
		return c.ops.Eps(), nil
	case syntax.OpFalse:
		return c.ops.Empty(), nil
	case syntax.OpTrue:
		return c.ops.Symbol(alphabet.Full(c.ops.Letters)), nil
	case syntax.OpAtomic:
		i, ok := c.table.Index(e.Name)
		if !ok {
			return nil, &alphabet.UnknownAtomicError{Name: e.Name}
		}
		return c.ops.Symbol(alphabet.Atom(c.ops.Letters, i)), nil
	case syntax.OpAnd, syntax.OpOr, syntax.OpNot:
		g, err := Guard(e, c.table)
		if err != nil {
			return nil, err
		}
		return c.ops.Symbol(g), nil
	}

	args := make([]*nfa.NFA, len(e.Args))
	for i, a := range e.Args {
		n, err := c.compile(a)
		if err != nil {
			return nil, err
		}
		args[i] = n
	}

	var n *nfa.NFA
	var err error
	switch e.Op {
	case syntax.OpConcat:
		n, err = c.ops.Concat(args[0], args[1])
	case syntax.OpFusion:
		n, err = c.ops.Fuse(args[0], args[1])
	case syntax.OpUnion:
		n, err = c.ops.Union(args[0], args[1])
	case syntax.OpIntersect:
		n, err = c.ops.Intersect(args[0], args[1])
	case syntax.OpStar:
		n, err = c.ops.Star(args[0])
	case syntax.OpPlus:
		n, err = c.ops.Plus(args[0])
	case syntax.OpPartial:
		n, err = c.ops.Partial(args[0])
	case syntax.OpNegate:
		n, err = c.negate(args[0])
	default:
		return nil, fmt.Errorf("compiler: unsupported operator %v", e.Op)
	}
	if err != nil {
		return nil, tooComplex(err)
	}
	// keep intermediate automata small; trimming never changes the language
	return nfa.Trim(n), nil
}

// Guard evaluates a Boolean formula to the set of letters over t that
// satisfy it. Every predicate of e must be interned in t.
func Guard(e *syntax.Expr, t *alphabet.Table) (alphabet.Set, error) {
	letters := t.Letters()
	switch e.Op {
	case syntax.OpTrue:
		return alphabet.Full(letters), nil
	case syntax.OpFalse:
		return alphabet.NewSet(letters), nil
	case syntax.OpAtomic:
		i, ok := t.Index(e.Name)
		if !ok {
			return alphabet.Set{}, &alphabet.UnknownAtomicError{Name: e.Name}
		}
		return alphabet.Atom(letters, i), nil
	case syntax.OpNot:
		g, err := Guard(e.Args[0], t)
		if err != nil {
			return alphabet.Set{}, err
		}
		return g.Complement(), nil
	case syntax.OpAnd, syntax.OpOr:
		l, err := Guard(e.Args[0], t)
		if err != nil {
			return alphabet.Set{}, err
		}
		r, err := Guard(e.Args[1], t)
		if err != nil {
			return alphabet.Set{}, err
		}
		if e.Op == syntax.OpAnd {
			return l.Intersect(r), nil
		}
		return l.Union(r), nil
	}
	return alphabet.Set{}, fmt.Errorf("compiler: %v is not a Boolean formula", e.Op)
}

// negate complements the language of n via an anchored, total DFA.
func (c *compiler) negate(n *nfa.NFA) (*nfa.NFA, error) {
	c.negations++
	d, err := dfa.Determinize(n, c.dcfg)
	if err != nil {
		return nil, err
	}
	return d.Minimize().Complement().ToNFA()
}
