// Package packet implements the coded-packet data model and the row-
// operation algebra the decoder's Gaussian elimination runs on.
package packet

import (
	"fmt"

	"github.com/mempirate/rlnc-go/galois"
	"github.com/mempirate/rlnc-go/rlncerr"
)

// Packet is a coded packet: a coding vector of length K paired with a
// payload of length L, both over GF(2^8). For every packet the encoder
// produces, Payload = sum_i CodingVector[i] * chunk[i] under field
// arithmetic.
type Packet struct {
	CodingVector []galois.Element
	Payload      []galois.Element
}

// New allocates a zero-filled packet with a coding vector of length k and a
// payload of length l.
func New(k, l int) *Packet {
	return &Packet{
		CodingVector: make([]galois.Element, k),
		Payload:      make([]galois.Element, l),
	}
}

// FromBytes interprets raw bytes as field elements, one byte per element.
// It fails if the lengths disagree with the caller's expected (k, l).
func FromBytes(codingVector, payload []byte, k, l int) (*Packet, error) {
	if len(codingVector) != k {
		return nil, fmt.Errorf("%w: got %d, want %d", rlncerr.ErrCodingVectorLengthMismatch, len(codingVector), k)
	}
	if len(payload) != l {
		return nil, fmt.Errorf("%w: got %d, want %d", rlncerr.ErrPayloadLengthMismatch, len(payload), l)
	}
	p := &Packet{
		CodingVector: make([]galois.Element, k),
		Payload:      make([]galois.Element, l),
	}
	copy(p.CodingVector, codingVector)
	copy(p.Payload, payload)
	return p, nil
}

// Bytes serializes the packet to its wire shape: CodingVector || Payload, a
// contiguous K+L bytes. No framing, length prefix, or version byte is
// added; transports define that on top.
func (p *Packet) Bytes() []byte {
	out := make([]byte, 0, len(p.CodingVector)+len(p.Payload))
	out = append(out, p.CodingVector...)
	out = append(out, p.Payload...)
	return out
}

// Clone returns a deep copy of p.
func (p *Packet) Clone() *Packet {
	c := &Packet{
		CodingVector: make([]galois.Element, len(p.CodingVector)),
		Payload:      make([]galois.Element, len(p.Payload)),
	}
	copy(c.CodingVector, p.CodingVector)
	copy(c.Payload, p.Payload)
	return c
}

// LeadingCoefficient scans the coding vector left to right and returns the
// index and value of the first non-zero element. ok is false if the vector
// is identically zero.
func (p *Packet) LeadingCoefficient() (col int, value galois.Element, ok bool) {
	for i, v := range p.CodingVector {
		if v != galois.Zero {
			return i, v, true
		}
	}
	return 0, 0, false
}

// Scale multiplies every coding-vector element and every payload element by
// s, in lockstep.
func (p *Packet) Scale(s galois.Element) {
	for i := range p.CodingVector {
		p.CodingVector[i] = galois.Mul(p.CodingVector[i], s)
	}
	for i := range p.Payload {
		p.Payload[i] = galois.Mul(p.Payload[i], s)
	}
}

// SubScaled computes self[i] <- self[i] - f*other[i] for both the coding
// vector and the payload. Since subtraction equals addition (XOR) in this
// field, this is self[i] XOR (f * other[i]). other must have matching
// lengths; this is an internal invariant enforced by callers (both the
// decoder's stored rows and the packet in flight always share K and L), not
// a caller-facing error condition.
func (p *Packet) SubScaled(other *Packet, f galois.Element) {
	for i := range p.CodingVector {
		p.CodingVector[i] = galois.Sub(p.CodingVector[i], galois.Mul(f, other.CodingVector[i]))
	}
	for i := range p.Payload {
		p.Payload[i] = galois.Sub(p.Payload[i], galois.Mul(f, other.Payload[i]))
	}
}

// Normalize scales the packet so its leading coefficient becomes one. It
// fails with ErrAllZeroPacket if the coding vector is identically zero.
func (p *Packet) Normalize() error {
	_, v, ok := p.LeadingCoefficient()
	if !ok {
		return rlncerr.ErrAllZeroPacket
	}
	p.Scale(galois.Inv(v))
	return nil
}
