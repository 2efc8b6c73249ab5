package syntax

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParsePrecedence(t *testing.T) {
	a, b, c := Atomic("a"), Atomic("b"), Atomic("c")
	tests := []struct {
		pattern string
		want    *Expr
	}{
		{"a", a},
		{"true", True()},
		{"false", False()},
		{"()", Empty()},
		{"( )", Empty()},
		{"a ; b", Concat(a, b)},
		{"a | b ; c", Union(a, Concat(b, c))},
		{"a ; b & c", Concat(a, Intersect(b, c))},
		{"a & b | c", Union(Intersect(a, b), c)},
		{"a ; b ; c", Concat(Concat(a, b), c)},
		{"a : b ; c", Concat(Fusion(a, b), c)},
		{"!a", Negate(a)},
		{"!a[*]", Negate(Star(a))},
		{"!a & b", Intersect(Negate(a), b)},
		{"!!a", Negate(Negate(a))},
		{"(a | b)[+]", Plus(Union(a, b))},
		{"a[*][+]", Plus(Star(a))},
		{"(a ; b) & c", Intersect(Concat(a, b), c)},
		{"PARTIAL(a ; b)", Partial(Concat(a, b))},
		{"true[*] ; a", Concat(Star(True()), a)},
		{"a && !b", And(a, Not(b))},
		{"a || b", Or(a, b)},
		{"a || b && c", Or(a, And(b, c))},
		{"a && b && c", And(And(a, b), c)},
		{"a | b && c", Union(a, And(b, c))},
		{"a & b || c", Intersect(a, Or(b, c))},
		{"a ; b || c ; a", Concat(Concat(a, Or(b, c)), a)},
		{"(a && !b)[*]", Star(And(a, Not(b)))},
		{"!(a || b) && c", And(Not(Or(a, b)), c)},
		{"!!a || true", Or(Not(Not(a)), True())},
		{"!(a && b)", Negate(And(a, b))},
		{"a&&b||c", Or(And(a, b), c)},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := Parse(tt.pattern)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.pattern, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %s, want %s", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestParseLowering(t *testing.T) {
	tests := []struct {
		sugar, plain string
	}{
		{"a{0}", "()"},
		{"a{0,0}", "()"},
		{"a{1}", "a"},
		{"a{1,1}", "a"},
		{"a{3}", "a;a;a"},
		{"(a|b){0,}", "(a|b)[*]"},
		{"(a|b){1,}", "(a|b)[+]"},
		{"(a|b){3,}", "(a|b);(a|b);(a|b)[+]"},
		{"a{0,1}", "() | a"},
		{"a{0,2}", "() | (a ; (() | a))"},
		{"a{2,3}", "a;a;(() | a)"},
		{"PERMUTE(a)", "a"},
		{"PERMUTE(a,b)", "(a;b) | (b;a)"},
		{"PERMUTE(a,b,c)", "(a;((b;c)|(c;b))) | (b;((a;c)|(c;a))) | (c;((a;b)|(b;a)))"},
		{"ABORT(!a|b,c)", "(PARTIAL(!a|b) ; c) | (!a|b)"},
	}
	for _, tt := range tests {
		t.Run(tt.sugar, func(t *testing.T) {
			got := MustParse(tt.sugar)
			want := MustParse(tt.plain)
			if !got.Equal(want) {
				t.Errorf("Parse(%q) = %s, want %s", tt.sugar, got, want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		pattern string
		want    error
	}{
		{"a;;", ErrMissingOperand},
		{"", ErrMissingOperand},
		{"a |", ErrMissingOperand},
		{"& a", ErrMissingOperand},
		{"true;", ErrMissingOperand},
		{"(a", ErrUnclosedParen},
		{"a)", ErrUnexpectedToken},
		{"a b", ErrUnexpectedToken},
		{"a @ b", ErrInvalidCharacter},
		{"a[?]", ErrInvalidCharacter},
		{"a{3,1}", ErrInvalidRepeat},
		{"a{x}", ErrInvalidRepeat},
		{"a{2", ErrInvalidRepeat},
		{"a{5000}", ErrInvalidRepeat},
		{"PARTIAL(a,b)", ErrUnexpectedToken},
		{"ABORT(a)", ErrUnexpectedToken},
		{"PERMUTE", ErrUnexpectedToken},
		{"PERMUTE(a,b,c,d,e,f,g)", ErrTooManyElements},
		{strings.Repeat("(", 150) + "a" + strings.Repeat(")", 150), ErrNestingDepth},
		{strings.Repeat("!", 150) + "a", ErrNestingDepth},
		{"a &&", ErrMissingOperand},
		{"|| a", ErrMissingOperand},
		{"a ||| b", ErrMissingOperand},
		{"a[*] && b", ErrNotBoolean},
		{"a || (b ; c)", ErrNotBoolean},
		{"!a[+] || b", ErrNotBoolean},
		{"() && a", ErrNotBoolean},
	}
	for _, tt := range tests {
		name := tt.pattern
		if len(name) > 20 {
			name = name[:20]
		}
		t.Run(name, func(t *testing.T) {
			_, err := Parse(tt.pattern)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded", tt.pattern)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.pattern, err, tt.want)
			}
			var se *Error
			if !errors.As(err, &se) {
				t.Fatalf("error %T is not *Error", err)
			}
			if se.Pattern != tt.pattern {
				t.Errorf("Pattern = %q", se.Pattern)
			}
		})
	}
}

func TestBooleanOperandPosition(t *testing.T) {
	_, err := Parse("a && (b ; c)")
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !errors.Is(err, ErrNotBoolean) || se.Offset != 5 {
		t.Errorf("error = %v at offset %d, want %v at 5", err, se.Offset, ErrNotBoolean)
	}
}

func TestParseGuard(t *testing.T) {
	a, b, c := Atomic("a"), Atomic("b"), Atomic("c")
	tests := []struct {
		formula string
		want    *Expr
	}{
		{"true", True()},
		{"false", False()},
		{"a", a},
		{"!a", Not(a)},
		{"a && !b || c", Or(And(a, Not(b)), c)},
		{"a && !b || !a && b", Or(And(a, Not(b)), And(Not(a), b))},
		{"!(a || b)", Not(Or(a, b))},
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			got, err := ParseGuard(tt.formula)
			if err != nil {
				t.Fatalf("ParseGuard(%q) error: %v", tt.formula, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseGuard(%q) = %s, want %s", tt.formula, got, tt.want)
			}
			if !got.IsBoolean() {
				t.Errorf("ParseGuard(%q) is not Boolean", tt.formula)
			}
		})
	}
	for _, bad := range []string{"a ; b", "a[*]", "!()", "a &&"} {
		if _, err := ParseGuard(bad); err == nil {
			t.Errorf("ParseGuard(%q) succeeded", bad)
		}
	}
	if _, err := ParseGuard("a | b"); !errors.Is(err, ErrNotBoolean) {
		t.Errorf("ParseGuard(a | b) error = %v, want %v", err, ErrNotBoolean)
	}
}

func TestErrorPosition(t *testing.T) {
	_, err := Parse("a;\n ;b")
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if se.Offset != 4 || se.Line != 2 || se.Column != 2 {
		t.Errorf("position = offset %d line %d column %d, want 4 2 2", se.Offset, se.Line, se.Column)
	}
	if !strings.HasPrefix(se.Error(), "syntax error at 2:2: missing operand") {
		t.Errorf("message = %q", se.Error())
	}
}

func TestParseDepthOption(t *testing.T) {
	p := strings.Repeat("(", 5) + "a" + strings.Repeat(")", 5)
	if _, err := ParseWithDepth(p, 3); !errors.Is(err, ErrNestingDepth) {
		t.Errorf("depth 3: err = %v", err)
	}
	if _, err := ParseWithDepth(p, 10); err != nil {
		t.Errorf("depth 10: err = %v", err)
	}
}

func TestAtomicsOrder(t *testing.T) {
	got := MustParse("b ; a | b & c[*]").Atomics()
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Atomics = %v, want %v", got, want)
	}
	if got := MustParse("true ; ()").Atomics(); len(got) != 0 {
		t.Errorf("Atomics of literals = %v", got)
	}
}

func TestIdentifiers(t *testing.T) {
	e := MustParse("café ; x.y_1 | _z ; trueish")
	want := []string{"café", "x.y_1", "_z", "trueish"}
	if got := e.Atomics(); !reflect.DeepEqual(got, want) {
		t.Errorf("Atomics = %v, want %v", got, want)
	}
}

func TestStringRoundTrip(t *testing.T) {
	patterns := []string{
		"a ; b",
		"a | b ; c",
		"(a | b) ; c",
		"a ; (b ; c)",
		"a & (b | c)",
		"!(a ; b)",
		"!a[*]",
		"(!a)[*]",
		"(a : b)[+] ; ()",
		"PARTIAL(a | b) & true",
		"a : (b ; c)",
		"false | !(a & b)",
		"a && !b || c",
		"a && (b || c)",
		"(a || b) && !(c && a)",
		"a || (b || c)",
		"(a && b)[*] & !a",
		"x ; ((!x && !y)[*] & (true[*] ; z ; true[*])) ; y",
	}
	for _, p := range patterns {
		e := MustParse(p)
		back, err := Parse(e.String())
		if err != nil {
			t.Fatalf("reparse of %q (%q): %v", p, e.String(), err)
		}
		if !back.Equal(e) {
			t.Errorf("round trip of %q gave %s", p, back)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	p := "PERMUTE(a, b, c) ; (d | e)[*] ; !f & g{2,4}"
	for i := 0; i < b.N; i++ {
		if _, err := Parse(p); err != nil {
			b.Fatal(err)
		}
	}
}
