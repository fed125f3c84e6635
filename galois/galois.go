// Package galois implements GF(2^8) field arithmetic with the Rijndael
// reducing polynomial x^8 + x^4 + x^3 + x + 1 (0x11B), accelerated by
// precomputed log/antilog tables built from generator 0x03.
package galois

import (
	"sync"

	"github.com/mempirate/rlnc-go/rlncerr"
)

// Element is a single value in GF(2^8). Every byte is a valid element.
type Element = byte

const (
	// Zero is the additive identity.
	Zero Element = 0
	// One is the multiplicative identity.
	One Element = 1

	reducingPoly = 0x11B
	generator    = 0x03
)

var (
	logTable     [256]byte
	antilogTable [512]byte // doubled so antilog lookups never need a modulo
	tablesOnce   sync.Once
)

func ensureTables() {
	tablesOnce.Do(buildTables)
}

// buildTables fills logTable and antilogTable by walking the multiplicative
// group generated by 0x03: acc starts at 1, antilog[i] = acc, log[acc] = i,
// then acc advances by mulRaw(acc, generator).
func buildTables() {
	acc := byte(1)
	for i := 0; i < 255; i++ {
		antilogTable[i] = acc
		logTable[acc] = byte(i)
		acc = mulRaw(acc, generator)
	}
	for i := 255; i < 512; i++ {
		antilogTable[i] = antilogTable[i-255]
	}
}

// mulRaw performs bitwise schoolbook polynomial multiplication modulo the
// reducing polynomial, with no table acceleration. Used only to build the
// tables themselves.
func mulRaw(a, b byte) byte {
	var result uint16
	var x uint16 = uint16(a)
	y := b
	for i := 0; i < 8; i++ {
		if y&1 != 0 {
			result ^= x
		}
		y >>= 1
		x <<= 1
		if x&0x100 != 0 {
			x ^= reducingPoly
		}
	}
	return byte(result)
}

// Tables returns copies of the field's log and antilog tables, primarily for
// debugging and for tests checking properties of the tables.
func Tables() (log [256]byte, antilog [512]byte) {
	ensureTables()
	return logTable, antilogTable
}

// Add returns a + b in GF(2^8), which is bitwise XOR.
func Add(a, b Element) Element {
	return a ^ b
}

// Sub returns a - b in GF(2^8). Identical to Add since every element is its
// own additive inverse.
func Sub(a, b Element) Element {
	return a ^ b
}

// Mul returns a * b in GF(2^8) using the log/antilog tables.
func Mul(a, b Element) Element {
	if a == Zero || b == Zero {
		return Zero
	}
	ensureTables()
	return antilogTable[int(logTable[a])+int(logTable[b])]
}

// Inv returns the multiplicative inverse of a. Panics if a is zero: callers
// in this module never invoke Inv on a zero coefficient, so a zero argument
// here indicates a programming error, not caller input.
func Inv(a Element) Element {
	if a == Zero {
		panic(rlncerr.ErrDivisionByZero)
	}
	ensureTables()
	return antilogTable[255-int(logTable[a])]
}

// Div returns a / b in GF(2^8). Panics if b is zero, for the same reason Inv
// does.
func Div(a, b Element) Element {
	if b == Zero {
		panic(rlncerr.ErrDivisionByZero)
	}
	return Mul(a, Inv(b))
}

// Pow returns a raised to the n-th power, n >= 0. Pow(0, 0) is defined as
// One.
func Pow(a Element, n int) Element {
	if n == 0 {
		return One
	}
	if a == Zero {
		return Zero
	}
	result := One
	for i := 0; i < n; i++ {
		result = Mul(result, a)
	}
	return result
}
