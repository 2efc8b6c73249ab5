package syntax

// DefaultMaxDepth is the nesting limit used by Parse.
const DefaultMaxDepth = 100

// MaxPermute is the largest PERMUTE list accepted. The lowered union has n!
// branches.
const MaxPermute = 6

// MaxRepeat is the largest count accepted in a repetition range.
const MaxRepeat = 1000

// Parse parses a pattern with the default nesting limit.
func Parse(pattern string) (*Expr, error) {
	return ParseWithDepth(pattern, DefaultMaxDepth)
}

// ParseWithDepth parses a pattern, failing with ErrNestingDepth when
// operators nest deeper than maxDepth. A non-positive maxDepth means
// DefaultMaxDepth.
func ParseWithDepth(pattern string, maxDepth int) (*Expr, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	p := &parser{lx: lexer{src: pattern}, maxDepth: maxDepth}
	if err := p.advance(); err != nil {
		return nil, err
	}
	e, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		if p.tok.kind == tokRParen {
			return nil, p.errorf(ErrUnexpectedToken, "unbalanced ')'")
		}
		return nil, p.unexpected()
	}
	return e, nil
}

// ParseGuard parses a Boolean formula over predicates, such as the edge
// labels of a rendered automaton: "a && !b || c". A leading ! negates the
// event rather than the language, so "!a" is Not(a).
func ParseGuard(formula string) (*Expr, error) {
	e, err := Parse(formula)
	if err != nil {
		return nil, err
	}
	b, ok := toBoolean(e)
	if !ok {
		lx := lexer{src: formula}
		return nil, lx.errorf(0, ErrNotBoolean, "%s", e)
	}
	return b, nil
}

// MustParse is like Parse but panics on error. It simplifies tests and
// package-level pattern tables.
func MustParse(pattern string) *Expr {
	e, err := Parse(pattern)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	lx       lexer
	tok      token
	depth    int
	maxDepth int
}

func (p *parser) advance() *Error {
	t, err := p.lx.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) errorf(cause error, format string, args ...any) *Error {
	return p.lx.errorf(p.tok.pos, cause, format, args...)
}

// unexpected reports the current token. An operator or the end of input where
// an operand was due is reported as a missing operand.
func (p *parser) unexpected() *Error {
	switch p.tok.kind {
	case tokEOF:
		return p.errorf(ErrMissingOperand, "unexpected end of pattern")
	case tokSemi, tokColon, tokPipe, tokAmp, tokAndAnd, tokOrOr, tokRParen, tokComma, tokStar, tokPlus, tokRBrace:
		return p.errorf(ErrMissingOperand, "unexpected %s", p.tok.kind)
	}
	return p.errorf(ErrUnexpectedToken, "unexpected %s", p.tok.kind)
}

func (p *parser) expect(k tokenKind) *Error {
	if p.tok.kind != k {
		if k == tokRParen {
			return p.errorf(ErrUnclosedParen, "found %s", p.tok.kind)
		}
		return p.errorf(ErrUnexpectedToken, "expected %s, found %s", k, p.tok.kind)
	}
	return p.advance()
}

func (p *parser) enter() *Error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorf(ErrNestingDepth, "limit is %d", p.maxDepth)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

// parseUnion := concat ('|' concat)*
func (p *parser) parseUnion() (*Expr, *Error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	l, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPipe {
		if err := p.advance(); err != nil {
			return nil, err
		}
		r, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		l = Union(l, r)
	}
	return l, nil
}

// parseConcat := intersect ((';' | ':') intersect)*
func (p *parser) parseConcat() (*Expr, *Error) {
	l, err := p.parseIntersect()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokSemi || p.tok.kind == tokColon {
		fuse := p.tok.kind == tokColon
		if err := p.advance(); err != nil {
			return nil, err
		}
		r, err := p.parseIntersect()
		if err != nil {
			return nil, err
		}
		if fuse {
			l = Fusion(l, r)
		} else {
			l = Concat(l, r)
		}
	}
	return l, nil
}

// parseIntersect := or ('&' or)*
func (p *parser) parseIntersect() (*Expr, *Error) {
	l, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokAmp {
		if err := p.advance(); err != nil {
			return nil, err
		}
		r, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		l = Intersect(l, r)
	}
	return l, nil
}

// parseOr := and ('||' and)*
func (p *parser) parseOr() (*Expr, *Error) {
	return p.parseBoolean(tokOrOr, p.parseAnd, Or)
}

// parseAnd := prefix ('&&' prefix)*
func (p *parser) parseAnd() (*Expr, *Error) {
	return p.parseBoolean(tokAndAnd, p.parsePrefix, And)
}

// parseBoolean parses a left associative chain of a Boolean operator. The
// operands are only checked when the operator is present.
func (p *parser) parseBoolean(op tokenKind, operand func() (*Expr, *Error), join func(l, r *Expr) *Expr) (*Expr, *Error) {
	pos := p.tok.pos
	l, err := operand()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == op {
		if l, err = p.boolean(l, pos, op); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		pos = p.tok.pos
		r, err := operand()
		if err != nil {
			return nil, err
		}
		if r, err = p.boolean(r, pos, op); err != nil {
			return nil, err
		}
		l = join(l, r)
	}
	return l, nil
}

// boolean converts an operand of op, which started at byte offset pos, to a
// single-event formula. Language negation of a formula becomes Not.
func (p *parser) boolean(e *Expr, pos int, op tokenKind) (*Expr, *Error) {
	if b, ok := toBoolean(e); ok {
		return b, nil
	}
	return nil, p.lx.errorf(pos, ErrNotBoolean, "operand of %s is %s", op, e)
}

func toBoolean(e *Expr) (*Expr, bool) {
	switch e.Op {
	case OpAtomic, OpTrue, OpFalse, OpAnd, OpOr, OpNot:
		return e, true
	case OpNegate:
		if b, ok := toBoolean(e.Args[0]); ok {
			return Not(b), true
		}
	}
	return nil, false
}

// parsePrefix := '!' prefix | postfix
func (p *parser) parsePrefix() (*Expr, *Error) {
	if p.tok.kind != tokBang {
		return p.parsePostfix()
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	if err := p.advance(); err != nil {
		return nil, err
	}
	e, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	return Negate(e), nil
}

// parsePostfix := primary ('[*]' | '[+]' | range)*
func (p *parser) parsePostfix() (*Expr, *Error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.tok.kind {
		case tokStar:
			e = Star(e)
		case tokPlus:
			e = Plus(e)
		case tokLBrace:
			e, err = p.parseRange(e)
			if err != nil {
				return nil, err
			}
			continue
		default:
			return e, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

// parseRange lowers e{n}, e{n,} and e{n,m}. The current token is '{'.
func (p *parser) parseRange(e *Expr) (*Expr, *Error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind != tokNumber {
		return nil, p.errorf(ErrInvalidRepeat, "expected a count")
	}
	lo := p.tok.num
	if err := p.advance(); err != nil {
		return nil, err
	}
	hi, open := lo, false
	if p.tok.kind == tokComma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokNumber {
			hi = p.tok.num
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else {
			open = true
		}
	}
	if p.tok.kind != tokRBrace {
		return nil, p.errorf(ErrInvalidRepeat, "expected '}'")
	}
	if !open && hi < lo {
		return nil, p.errorf(ErrInvalidRepeat, "{%d,%d} has max below min", lo, hi)
	}
	if lo > MaxRepeat || hi > MaxRepeat {
		return nil, p.errorf(ErrInvalidRepeat, "count above %d", MaxRepeat)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if open {
		return repeatAtLeast(e, lo), nil
	}
	return repeatRange(e, lo, hi), nil
}

// repeat concatenates n copies of e; n must be positive.
func repeat(e *Expr, n int) *Expr {
	out := e
	for i := 1; i < n; i++ {
		out = Concat(out, e)
	}
	return out
}

func repeatAtLeast(e *Expr, n int) *Expr {
	switch n {
	case 0:
		return Star(e)
	case 1:
		return Plus(e)
	}
	return Concat(repeat(e, n-1), Plus(e))
}

// repeatRange builds n copies followed by a nested optional tail:
// e{1,3} = e ; (() | e ; (() | e)).
func repeatRange(e *Expr, lo, hi int) *Expr {
	if hi == 0 {
		return Empty()
	}
	var tail *Expr
	for i := lo; i < hi; i++ {
		if tail == nil {
			tail = Union(Empty(), e)
		} else {
			tail = Union(Empty(), Concat(e, tail))
		}
	}
	switch {
	case tail == nil:
		return repeat(e, lo)
	case lo == 0:
		return tail
	}
	return Concat(repeat(e, lo), tail)
}

func (p *parser) parsePrimary() (*Expr, *Error) {
	t := p.tok
	switch t.kind {
	case tokIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Atomic(t.text), nil
	case tokTrue, tokFalse:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if t.kind == tokTrue {
			return True(), nil
		}
		return False(), nil
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokRParen {
			if err := p.advance(); err != nil {
				return nil, err
			}
			return Empty(), nil
		}
		e, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return e, nil
	case tokPartial, tokAbort, tokPermute:
		return p.parseCall(t.kind)
	}
	return nil, p.unexpected()
}

// parseCall handles PARTIAL(e), ABORT(e, err) and PERMUTE(e, ...).
func (p *parser) parseCall(kind tokenKind) (*Expr, *Error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	var args []*Expr
	for {
		e, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if p.tok.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	closing := p.tok
	if err := p.expect(tokRParen); err != nil {
		return nil, err
	}

	switch kind {
	case tokPartial:
		if len(args) != 1 {
			return nil, p.lx.errorf(closing.pos, ErrUnexpectedToken, "PARTIAL takes one argument, got %d", len(args))
		}
		return Partial(args[0]), nil
	case tokAbort:
		if len(args) != 2 {
			return nil, p.lx.errorf(closing.pos, ErrUnexpectedToken, "ABORT takes two arguments, got %d", len(args))
		}
		return Union(Concat(Partial(args[0]), args[1]), args[0]), nil
	}
	if len(args) > MaxPermute {
		return nil, p.lx.errorf(closing.pos, ErrTooManyElements, "%d > %d", len(args), MaxPermute)
	}
	return permute(args), nil
}

// permute returns the union of every ordering of es, each one
// element followed by the permutations of the rest.
func permute(es []*Expr) *Expr {
	if len(es) == 1 {
		return es[0]
	}
	var out *Expr
	for i := range es {
		rest := make([]*Expr, 0, len(es)-1)
		rest = append(rest, es[:i]...)
		rest = append(rest, es[i+1:]...)
		alt := Concat(es[i], permute(rest))
		if out == nil {
			out = alt
		} else {
			out = Union(out, alt)
		}
	}
	return out
}
