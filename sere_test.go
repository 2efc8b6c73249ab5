package sere

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/coregx/sere/codec"
	"github.com/coregx/sere/compiler"
	"github.com/coregx/sere/matcher"
	"github.com/coregx/sere/syntax"
)

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		pattern string
		want    error
	}{
		{"a;;", syntax.ErrMissingOperand},
		{"(a", syntax.ErrUnclosedParen},
		{"a{3,1}", syntax.ErrInvalidRepeat},
		{"a $ b", syntax.ErrInvalidCharacter},
	}
	for _, tt := range tests {
		art, err := Compile(tt.pattern, Simple)
		if art != nil {
			t.Errorf("Compile(%q) returned an artifact", tt.pattern)
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("Compile(%q) = %v, want %v", tt.pattern, err, tt.want)
		}
		var ce *CompileError
		if !errors.As(err, &ce) || ce.Pattern != tt.pattern {
			t.Errorf("Compile(%q) error is not a *CompileError for the pattern: %v", tt.pattern, err)
		}
		if !strings.HasPrefix(err.Error(), "syntax error at ") {
			t.Errorf("syntax error message = %q", err.Error())
		}
	}

	config := DefaultConfig()
	config.MaxAtomics = 2
	_, err := CompileWithConfig("a;b;c", Extended, config)
	if !errors.Is(err, compiler.ErrTooComplex) {
		t.Errorf("three atomics with MaxAtomics 2: %v", err)
	}
	if err != nil && !strings.HasPrefix(err.Error(), "sere: ") {
		t.Errorf("limit error message = %q", err.Error())
	}

	config = DefaultConfig()
	config.Encoding = codec.Binary
	long := strings.Repeat("a", 70000)
	art, err := CompileWithConfig(long, Simple, config)
	if art != nil || !errors.Is(err, codec.ErrNameTooLong) {
		t.Errorf("70000-byte predicate in binary: art=%v err=%v", art != nil, err)
	}
}

func TestConfigValidate(t *testing.T) {
	config := DefaultConfig()
	if err := config.Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
	config.Encoding = codec.Encoding(9)
	if err := config.Validate(); !errors.Is(err, compiler.ErrInvalidConfig) {
		t.Errorf("bad encoding: %v", err)
	}
	config = DefaultConfig()
	config.MaxDFAStates = 0
	if _, err := CompileWithConfig("a", Simple, config); !errors.Is(err, compiler.ErrInvalidConfig) {
		t.Errorf("MaxDFAStates 0: %v", err)
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustCompile did not panic")
		}
	}()
	MustCompile("a;;", Simple)
}

func TestArtifact(t *testing.T) {
	art := MustCompile("x ; (y | x)", Extended)
	if art.Pattern() != "x ; (y | x)" || art.Target() != Extended {
		t.Errorf("artifact = %v", art)
	}
	if !reflect.DeepEqual(art.Atomics(), []string{"x", "y"}) {
		t.Errorf("atomics = %v", art.Atomics())
	}
	if got, err := codec.Detect(art.Content()); err != nil || got != codec.JSON {
		t.Errorf("default encoding = %v, %v", got, err)
	}
	bin, err := art.Encode(codec.Binary)
	if err != nil {
		t.Fatal(err)
	}
	res, err := Decode(bin)
	if err != nil {
		t.Fatal(err)
	}
	if res.States() != art.States() {
		t.Errorf("binary state count = %d, want %d", res.States(), art.States())
	}
}

func TestLoadTargetMismatch(t *testing.T) {
	simple := MustCompile("a", Simple).Content()
	ext := MustCompile("a", Extended).Content()
	if _, err := Load(ext); !errors.Is(err, ErrTargetMismatch) {
		t.Errorf("Load(extended) = %v", err)
	}
	if _, err := LoadExtended(simple); !errors.Is(err, ErrTargetMismatch) {
		t.Errorf("LoadExtended(simple) = %v", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	for _, content := range []string{"", "{", `{"format":"simple"}`, "\x00\x01\x02\x03"} {
		if _, err := Load([]byte(content)); !errors.Is(err, codec.ErrFormat) {
			t.Errorf("Load(%q) = %v, want ErrFormat", content, err)
		}
		if _, err := LoadExtended([]byte(content)); !errors.Is(err, codec.ErrFormat) {
			t.Errorf("LoadExtended(%q) = %v, want ErrFormat", content, err)
		}
	}
}

func TestLoadAny(t *testing.T) {
	for _, target := range []Target{Simple, Extended} {
		config := DefaultConfig()
		config.Encoding = codec.Binary
		art, err := CompileWithConfig("a;b", target, config)
		if err != nil {
			t.Fatal(err)
		}
		m, err := LoadAny(art.Content(), DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		switch m.(type) {
		case *matcher.Simple:
			if target != Simple {
				t.Errorf("%v artifact loaded as simple", target)
			}
		case *matcher.Extended:
			if target != Extended {
				t.Errorf("%v artifact loaded as extended", target)
			}
		}
		for _, s := range []matcher.Step{matcher.Staged(0), matcher.Staged(1)} {
			if err := m.Feed(s); err != nil {
				t.Fatal(err)
			}
		}
		if m.Result() != matcher.Matched {
			t.Errorf("%v: result = %v", target, m.Result())
		}
	}
}

func TestSequenceReports(t *testing.T) {
	s, err := Load(MustCompile("a;b", Simple).Content())
	if err != nil {
		t.Fatal(err)
	}
	s.Advance([]bool{true, false})
	s.Advance([]bool{true, true})
	if s.Result() != matcher.Matched {
		t.Errorf("simple a;b = %v", s.Result())
	}

	x, err := LoadExtended(MustCompile("a;b", Extended).Content())
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range [][]bool{{true, false}, {true, true}, {true, true}} {
		x.AdvanceValues(v)
	}
	want := matcher.Report{Status: matcher.Matched, Shortest: 2, Longest: 2, Horizon: 2}
	if got := x.Matched(); got != want {
		t.Errorf("extended a;b = %v, want %v", got, want)
	}
}

func TestBooleanFormulas(t *testing.T) {
	const pattern = "started ; ((!started && !closed)[*] & (true[*] ; place_order ; true[*])) ; closed"
	// started, closed, place_order
	ordered := [][]bool{{true, false, false}, {false, false, true}, {false, true, false}}
	skipped := [][]bool{{true, false, false}, {false, true, false}}

	for _, target := range []Target{Simple, Extended} {
		art, err := Compile(pattern, target)
		if err != nil {
			t.Fatalf("%v: %v", target, err)
		}
		want := []string{"started", "closed", "place_order"}
		if got := art.Atomics(); !reflect.DeepEqual(got, want) {
			t.Fatalf("%v: atomics = %v, want %v", target, got, want)
		}
		for _, tc := range []struct {
			events [][]bool
			want   matcher.Status
		}{
			{ordered, matcher.Matched},
			{skipped, matcher.Partial},
		} {
			status := run(t, art, tc.events)
			if status != tc.want {
				t.Errorf("%v on %v: %v, want %v", target, tc.events, status, tc.want)
			}
		}
	}

	if _, err := Compile("a || b", Simple); err != nil {
		t.Errorf("a || b: %v", err)
	}
	_, err := Compile("a[*] && b", Simple)
	if !errors.Is(err, syntax.ErrNotBoolean) {
		t.Errorf("a[*] && b: err = %v, want %v", err, syntax.ErrNotBoolean)
	}
}

// run feeds events to a fresh runtime for art and returns the final status.
func run(t *testing.T, art *Artifact, events [][]bool) matcher.Status {
	t.Helper()
	if art.Target() == Simple {
		m, err := Load(art.Content())
		if err != nil {
			t.Fatal(err)
		}
		for _, v := range events {
			m.Advance(v)
		}
		return m.Result()
	}
	m, err := LoadExtended(art.Content())
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range events {
		m.AdvanceValues(v)
	}
	return m.Result()
}

func TestRoundTripBehaviour(t *testing.T) {
	for _, enc := range []codec.Encoding{codec.JSON, codec.Binary} {
		config := DefaultConfig()
		config.Encoding = enc
		art, err := CompileWithConfig("(a;!b) & (a|b)[+]", Extended, config)
		if err != nil {
			t.Fatal(err)
		}
		direct, err := matcher.NewExtended(art.Result(), nil)
		if err != nil {
			t.Fatal(err)
		}
		loaded, err := LoadExtended(art.Content())
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 64; i++ {
			values := []bool{i&1 != 0, i&6 == 2}
			direct.AdvanceValues(values)
			loaded.AdvanceValues(values)
			if direct.Matched() != loaded.Matched() {
				t.Fatalf("%v step %d: %v vs %v", enc, i, direct.Matched(), loaded.Matched())
			}
		}
	}
}

func TestLogging(t *testing.T) {
	var logs bytes.Buffer
	config := DefaultConfig()
	config.Logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	art, err := CompileWithConfig("a", Simple, config)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := LoadWithConfig(art.Content(), config); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"compiled pattern", "artifact encoded", "artifact loaded", "runtime ready"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("logs lack %q:\n%s", want, logs.String())
		}
	}
}
