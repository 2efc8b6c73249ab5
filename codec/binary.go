package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/coregx/sere/alphabet"
	"github.com/coregx/sere/compiler"
	"github.com/coregx/sere/internal/conv"
)

var le = binary.LittleEndian

// Binary layout, all integers little endian:
//
//	u32 magic            MagicSimple or MagicExtended
//	u16 version
//	u16 atomic count     then per atomic: u16 length, UTF-8 bytes
//	u32 state count
//	u32 start
//	u32 accepting count  then u32 per accepting state
//	rows, one per state:
//	  simple:   u32 run count,  then (u32 target, u32 count) per run
//	  extended: u32 edge count, then per edge: u32 next, u32 range count,
//	            (u32 lo, u32 hi) per range
func encodeBinary(a *artifact) ([]byte, error) {
	for _, name := range a.atomics {
		if !conv.FitsUint16(len(name)) {
			return nil, fmt.Errorf("%w: %d bytes, at most %d", ErrNameTooLong, len(name), math.MaxUint16)
		}
	}
	buf := make([]byte, 0, 64)
	magic := MagicSimple
	if a.target == compiler.Extended {
		magic = MagicExtended
	}
	buf = le.AppendUint32(buf, magic)
	buf = le.AppendUint16(buf, Version)
	buf = le.AppendUint16(buf, conv.IntToUint16(len(a.atomics)))
	for _, name := range a.atomics {
		buf = le.AppendUint16(buf, conv.IntToUint16(len(name)))
		buf = append(buf, name...)
	}
	buf = le.AppendUint32(buf, conv.IntToUint32(a.states))
	buf = le.AppendUint32(buf, a.start)
	buf = le.AppendUint32(buf, conv.IntToUint32(len(a.accepting)))
	for _, q := range a.accepting {
		buf = le.AppendUint32(buf, q)
	}
	if a.target == compiler.Simple {
		for _, row := range a.runs {
			buf = le.AppendUint32(buf, conv.IntToUint32(len(row)))
			for _, r := range row {
				buf = le.AppendUint32(buf, r.target)
				buf = le.AppendUint32(buf, r.count)
			}
		}
		return buf, nil
	}
	for _, es := range a.edges {
		buf = le.AppendUint32(buf, conv.IntToUint32(len(es)))
		for _, e := range es {
			buf = le.AppendUint32(buf, e.next)
			buf = le.AppendUint32(buf, conv.IntToUint32(len(e.ranges)))
			for _, r := range e.ranges {
				buf = le.AppendUint32(buf, conv.IntToUint32(r.Lo))
				buf = le.AppendUint32(buf, conv.IntToUint32(r.Hi))
			}
		}
	}
	return buf, nil
}

// reader is a bounds-checked cursor. The first short read latches an error
// and every later read returns zero.
type reader struct {
	data []byte
	off  int
	err  *FormatError
}

func (r *reader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = formatErrorf(Binary, format, args...)
	}
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.data)-r.off < n {
		r.fail("truncated at offset %d", r.off)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u16() uint16 {
	if b := r.take(2); b != nil {
		return le.Uint16(b)
	}
	return 0
}

func (r *reader) u32() uint32 {
	if b := r.take(4); b != nil {
		return le.Uint32(b)
	}
	return 0
}

// count reads a u32 element count and checks that at least size bytes per
// element remain, so a corrupt count cannot trigger a huge allocation.
func (r *reader) count(size int) int {
	n := int(r.u32())
	if r.err == nil && n > (len(r.data)-r.off)/size {
		r.fail("count %d at offset %d exceeds the remaining data", n, r.off-4)
		return 0
	}
	return n
}

func decodeBinary(data []byte) (*artifact, error) {
	r := &reader{data: data}
	a := &artifact{}
	switch r.u32() {
	case MagicSimple:
		a.target = compiler.Simple
	case MagicExtended:
		a.target = compiler.Extended
	default:
		return nil, formatErrorf(Binary, "bad magic number")
	}
	if v := r.u16(); r.err == nil && v != Version {
		return nil, formatErrorf(Binary, "unsupported version %d", v)
	}
	natomics := int(r.u16())
	if natomics > alphabet.MaxAtomics {
		return nil, formatErrorf(Binary, "%d atomics, at most %d supported", natomics, alphabet.MaxAtomics)
	}
	a.atomics = make([]string, 0, natomics)
	for i := 0; i < natomics && r.err == nil; i++ {
		name := r.take(int(r.u16()))
		if r.err == nil && !utf8.Valid(name) {
			return nil, formatErrorf(Binary, "atomic %d is not valid UTF-8", i)
		}
		a.atomics = append(a.atomics, string(name))
	}
	a.states = int(r.u32())
	a.start = r.u32()
	nacc := r.count(4)
	for i := 0; i < nacc && r.err == nil; i++ {
		a.accepting = append(a.accepting, r.u32())
	}
	if r.err != nil {
		return nil, r.err
	}
	if a.states > len(data)-r.off {
		// every row takes at least four bytes
		return nil, formatErrorf(Binary, "state count %d exceeds the remaining data", a.states)
	}

	if a.target == compiler.Simple {
		a.runs = make([][]run, a.states)
		for q := 0; q < a.states && r.err == nil; q++ {
			n := r.count(8)
			row := make([]run, 0, n)
			for i := 0; i < n && r.err == nil; i++ {
				row = append(row, run{target: r.u32(), count: r.u32()})
			}
			a.runs[q] = row
		}
	} else {
		a.edges = make([][]edge, a.states)
		for q := 0; q < a.states && r.err == nil; q++ {
			n := r.count(8)
			es := make([]edge, 0, n)
			for i := 0; i < n && r.err == nil; i++ {
				e := edge{next: r.u32()}
				nr := r.count(8)
				for k := 0; k < nr && r.err == nil; k++ {
					e.ranges = append(e.ranges, alphabet.Range{Lo: int(r.u32()), Hi: int(r.u32())})
				}
				es = append(es, e)
			}
			a.edges[q] = es
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.off != len(data) {
		return nil, formatErrorf(Binary, "%d bytes of trailing data", len(data)-r.off)
	}
	return a, nil
}
