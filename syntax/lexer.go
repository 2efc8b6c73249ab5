package syntax

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokTrue
	tokFalse
	tokPermute
	tokAbort
	tokPartial
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokComma
	tokSemi
	tokColon
	tokPipe
	tokAmp
	tokBang
	tokStar   // [*]
	tokPlus   // [+]
	tokAndAnd // &&
	tokOrOr   // ||
)

var tokenNames = [...]string{
	tokEOF:     "end of pattern",
	tokIdent:   "identifier",
	tokNumber:  "number",
	tokTrue:    "'true'",
	tokFalse:   "'false'",
	tokPermute: "'PERMUTE'",
	tokAbort:   "'ABORT'",
	tokPartial: "'PARTIAL'",
	tokLParen:  "'('",
	tokRParen:  "')'",
	tokLBrace:  "'{'",
	tokRBrace:  "'}'",
	tokComma:   "','",
	tokSemi:    "';'",
	tokColon:   "':'",
	tokPipe:    "'|'",
	tokAmp:     "'&'",
	tokBang:    "'!'",
	tokStar:    "'[*]'",
	tokPlus:    "'[+]'",
	tokAndAnd:  "'&&'",
	tokOrOr:    "'||'",
}

func (k tokenKind) String() string {
	return tokenNames[k]
}

var keywords = map[string]tokenKind{
	"true":    tokTrue,
	"false":   tokFalse,
	"PERMUTE": tokPermute,
	"ABORT":   tokAbort,
	"PARTIAL": tokPartial,
}

var punct = map[byte]tokenKind{
	'(': tokLParen,
	')': tokRParen,
	'{': tokLBrace,
	'}': tokRBrace,
	',': tokComma,
	';': tokSemi,
	':': tokColon,
	'|': tokPipe,
	'&': tokAmp,
	'!': tokBang,
}

type token struct {
	kind tokenKind
	text string
	pos  int // byte offset
	num  int
}

// lexer splits a pattern into tokens. It is driven by the parser one token
// at a time.
type lexer struct {
	src string
	pos int
}

func (lx *lexer) next() (token, *Error) {
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		lx.pos += size
	}
	start := lx.pos
	if start >= len(lx.src) {
		return token{kind: tokEOF, pos: start}, nil
	}

	c := lx.src[start]
	if (c == '&' || c == '|') && start+1 < len(lx.src) && lx.src[start+1] == c {
		lx.pos += 2
		k := tokAndAnd
		if c == '|' {
			k = tokOrOr
		}
		return token{kind: k, text: lx.src[start:lx.pos], pos: start}, nil
	}
	if k, ok := punct[c]; ok {
		lx.pos++
		return token{kind: k, text: lx.src[start:lx.pos], pos: start}, nil
	}
	if c == '[' {
		if len(lx.src)-start >= 3 && lx.src[start+2] == ']' {
			switch lx.src[start+1] {
			case '*':
				lx.pos += 3
				return token{kind: tokStar, text: "[*]", pos: start}, nil
			case '+':
				lx.pos += 3
				return token{kind: tokPlus, text: "[+]", pos: start}, nil
			}
		}
		return token{}, lx.errorf(start, ErrInvalidCharacter, "expected [*] or [+]")
	}
	if c >= '0' && c <= '9' {
		for lx.pos < len(lx.src) && lx.src[lx.pos] >= '0' && lx.src[lx.pos] <= '9' {
			lx.pos++
		}
		text := lx.src[start:lx.pos]
		n, err := strconv.Atoi(text)
		if err != nil {
			return token{}, lx.errorf(start, ErrInvalidRepeat, "number %s out of range", text)
		}
		return token{kind: tokNumber, text: text, pos: start, num: n}, nil
	}

	r, size := utf8.DecodeRuneInString(lx.src[start:])
	if r == utf8.RuneError && size <= 1 {
		return token{}, lx.errorf(start, ErrInvalidCharacter, "invalid UTF-8")
	}
	if !isIdentStart(r) {
		return token{}, lx.errorf(start, ErrInvalidCharacter, "%q", r)
	}
	lx.pos += size
	for lx.pos < len(lx.src) {
		r, size = utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !isIdentPart(r) {
			break
		}
		lx.pos += size
	}
	text := lx.src[start:lx.pos]
	if k, ok := keywords[text]; ok {
		return token{kind: k, text: text, pos: start}, nil
	}
	return token{kind: tokIdent, text: text, pos: start}, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// errorf builds a positioned syntax error for the byte offset off.
func (lx *lexer) errorf(off int, cause error, format string, args ...any) *Error {
	line, col := 1, 1
	for i, r := range lx.src {
		if i >= off {
			break
		}
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	e := &Error{Pattern: lx.src, Offset: off, Line: line, Column: col, Err: cause}
	if format != "" {
		e.Detail = fmt.Sprintf(format, args...)
	}
	return e
}
