// Package syntax parses SERE patterns into an immutable expression tree.
//
// The grammar, tightest binding first:
//
//	primary   identifier | true | false | () | ( e )
//	          PERMUTE(e, ...) | ABORT(e, err) | PARTIAL(e)
//	postfix   e[*]  e[+]  e{n}  e{n,}  e{n,m}
//	prefix    !e
//	          b && b
//	          b || b
//	          e & e
//	          e ; e    e : e
//	          e | e
//
// The operands b of && and || must each match a single event: a predicate,
// true, false, a parenthesized formula, or ! applied to one of these. Inside
// such a formula ! is Boolean negation of the event; everywhere else it
// complements the language.
//
// Repetition ranges, PERMUTE and ABORT are lowered while parsing, so the tree
// only holds the node kinds the compiler knows how to build.
package syntax

import (
	"strings"
)

// Op is the kind of an expression node.
type Op uint8

const (
	// OpEmpty matches the empty sequence: ().
	OpEmpty Op = iota
	// OpFalse never matches an event.
	OpFalse
	// OpTrue matches any single event.
	OpTrue
	// OpAtomic matches one event in which the named predicate holds.
	OpAtomic
	// OpConcat is sequencing: l ; r.
	OpConcat
	// OpFusion is overlapping concatenation: l : r.
	OpFusion
	// OpUnion is l | r.
	OpUnion
	// OpIntersect is l & r.
	OpIntersect
	// OpNegate is language complement: !e.
	OpNegate
	// OpStar is e[*].
	OpStar
	// OpPlus is e[+].
	OpPlus
	// OpPartial matches every prefix of a match of e, the empty one included.
	OpPartial
	// OpAnd matches one event satisfying both formulas: l && r.
	OpAnd
	// OpOr matches one event satisfying either formula: l || r.
	OpOr
	// OpNot matches one event that does not satisfy the formula.
	OpNot
)

var opNames = [...]string{
	OpEmpty:     "Empty",
	OpFalse:     "False",
	OpTrue:      "True",
	OpAtomic:    "Atomic",
	OpConcat:    "Concat",
	OpFusion:    "Fusion",
	OpUnion:     "Union",
	OpIntersect: "Intersect",
	OpNegate:    "Negate",
	OpStar:      "Star",
	OpPlus:      "Plus",
	OpPartial:   "Partial",
	OpAnd:       "And",
	OpOr:        "Or",
	OpNot:       "Not",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "Op(?)"
}

// Expr is a node of the expression tree. Trees are never modified after the
// parser returns them; constructors share subtrees freely.
type Expr struct {
	Op   Op
	Name string  // predicate name, OpAtomic only
	Args []*Expr // one operand for unary ops, two for binary ops
}

// Empty returns ().
func Empty() *Expr { return &Expr{Op: OpEmpty} }

// True returns the any-event literal.
func True() *Expr { return &Expr{Op: OpTrue} }

// False returns the no-event literal.
func False() *Expr { return &Expr{Op: OpFalse} }

// Atomic returns a predicate reference.
func Atomic(name string) *Expr { return &Expr{Op: OpAtomic, Name: name} }

// Concat returns l ; r.
func Concat(l, r *Expr) *Expr { return binary(OpConcat, l, r) }

// Fusion returns l : r.
func Fusion(l, r *Expr) *Expr { return binary(OpFusion, l, r) }

// Union returns l | r.
func Union(l, r *Expr) *Expr { return binary(OpUnion, l, r) }

// Intersect returns l & r.
func Intersect(l, r *Expr) *Expr { return binary(OpIntersect, l, r) }

// Negate returns !e.
func Negate(e *Expr) *Expr { return unary(OpNegate, e) }

// Star returns e[*].
func Star(e *Expr) *Expr { return unary(OpStar, e) }

// Plus returns e[+].
func Plus(e *Expr) *Expr { return unary(OpPlus, e) }

// Partial returns PARTIAL(e).
func Partial(e *Expr) *Expr { return unary(OpPartial, e) }

// And returns l && r. Both operands must be Boolean.
func And(l, r *Expr) *Expr { return binary(OpAnd, l, r) }

// Or returns l || r. Both operands must be Boolean.
func Or(l, r *Expr) *Expr { return binary(OpOr, l, r) }

// Not returns the Boolean negation of e. It prints as !e, which only parses
// back to Not as an operand of && or ||.
func Not(e *Expr) *Expr { return unary(OpNot, e) }

// IsBoolean reports whether e matches exactly the single events satisfying a
// formula over its predicates.
func (e *Expr) IsBoolean() bool {
	switch e.Op {
	case OpAtomic, OpTrue, OpFalse:
		return true
	case OpAnd, OpOr, OpNot:
		for _, a := range e.Args {
			if !a.IsBoolean() {
				return false
			}
		}
		return true
	}
	return false
}

func binary(op Op, l, r *Expr) *Expr {
	return &Expr{Op: op, Args: []*Expr{l, r}}
}

func unary(op Op, e *Expr) *Expr {
	return &Expr{Op: op, Args: []*Expr{e}}
}

// Atomics returns the distinct predicate names of e in order of first
// appearance, left to right. This order fixes the predicate indices.
func (e *Expr) Atomics() []string {
	seen := make(map[string]bool)
	var out []string
	e.Walk(func(n *Expr) {
		if n.Op == OpAtomic && !seen[n.Name] {
			seen[n.Name] = true
			out = append(out, n.Name)
		}
	})
	return out
}

// Walk visits e and its operands in pre-order.
func (e *Expr) Walk(f func(*Expr)) {
	f(e)
	for _, a := range e.Args {
		a.Walk(f)
	}
}

// Equal reports whether two trees are structurally identical.
func (e *Expr) Equal(o *Expr) bool {
	if e.Op != o.Op || e.Name != o.Name || len(e.Args) != len(o.Args) {
		return false
	}
	for i := range e.Args {
		if !e.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// precedence levels used when printing, loosest first.
const (
	precUnion = iota
	precConcat
	precIntersect
	precOr
	precAnd
	precPrefix
	precPostfix
	precPrimary
)

func (e *Expr) prec() int {
	switch e.Op {
	case OpUnion:
		return precUnion
	case OpConcat, OpFusion:
		return precConcat
	case OpIntersect:
		return precIntersect
	case OpOr:
		return precOr
	case OpAnd:
		return precAnd
	case OpNegate, OpNot:
		return precPrefix
	case OpStar, OpPlus:
		return precPostfix
	default:
		return precPrimary
	}
}

// String renders e in pattern syntax with the minimal parentheses needed to
// parse back to the same tree.
func (e *Expr) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *Expr) write(b *strings.Builder) {
	switch e.Op {
	case OpEmpty:
		b.WriteString("()")
	case OpFalse:
		b.WriteString("false")
	case OpTrue:
		b.WriteString("true")
	case OpAtomic:
		b.WriteString(e.Name)
	case OpPartial:
		b.WriteString("PARTIAL(")
		e.Args[0].write(b)
		b.WriteByte(')')
	case OpNegate, OpNot:
		b.WriteByte('!')
		e.operand(b, e.Args[0], precPrefix)
	case OpStar, OpPlus:
		e.operand(b, e.Args[0], precPrimary)
		if e.Op == OpStar {
			b.WriteString("[*]")
		} else {
			b.WriteString("[+]")
		}
	default:
		p := e.prec()
		sep := map[Op]string{OpUnion: " | ", OpConcat: " ; ", OpFusion: " : ", OpIntersect: " & ", OpAnd: " && ", OpOr: " || "}[e.Op]
		e.operand(b, e.Args[0], p)
		b.WriteString(sep)
		// binary operators are left associative
		e.operand(b, e.Args[1], p+1)
	}
}

func (e *Expr) operand(b *strings.Builder, a *Expr, min int) {
	if a.prec() < min {
		b.WriteByte('(')
		a.write(b)
		b.WriteByte(')')
		return
	}
	a.write(b)
}
