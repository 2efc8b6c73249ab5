// Package conv provides checked integer conversions for the artifact codecs.
//
// The encoders narrow counts and state IDs to fixed-width fields. Those values
// are bounded by compilation limits, so overflow indicates a programming error
// and the narrowing helpers panic. The Fits helpers let callers validate first.
package conv

import "math"

// IntToUint32 converts n to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	if !FitsUint32(n) {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// IntToUint16 converts n to uint16.
// Panics if n < 0 or n > math.MaxUint16.
//
//go:inline
func IntToUint16(n int) uint16 {
	if !FitsUint16(n) {
		panic("integer overflow: int value out of uint16 range")
	}
	return uint16(n)
}

// FitsUint32 reports whether n is representable as uint32.
func FitsUint32(n int) bool {
	// uint comparison keeps this correct on 32-bit platforms
	return n >= 0 && uint(n) <= math.MaxUint32
}

// FitsUint16 reports whether n is representable as uint16.
func FitsUint16(n int) bool {
	return n >= 0 && n <= math.MaxUint16
}
