package rlnc

import (
	"fmt"
	"io"

	"github.com/mempirate/rlnc-go/galois"
	"github.com/mempirate/rlnc-go/packet"
	"github.com/mempirate/rlnc-go/rlncerr"
)

// boundaryMarker is the sentinel byte appended to a message before chunking,
// used to recover the original length after reconstruction. Chosen for
// convenient recognition; it carries no other semantics.
const boundaryMarker byte = 0x81

// Encoder fragments a message into a fixed number of equal-size chunks and
// produces an unbounded stream of coded packets, each a random linear
// combination of those chunks. Encoder state is immutable once constructed;
// each packet it emits is independent.
type Encoder struct {
	k      int
	l      int
	chunks [][]galois.Element
}

// NewEncoder appends the boundary marker to data, pads to a multiple of
// chunkCount, and slices the result into chunkCount equal-size chunks.
func NewEncoder(data []byte, chunkCount int) (*Encoder, error) {
	if len(data) == 0 {
		return nil, rlncerr.ErrEmptyData
	}
	if chunkCount == 0 {
		return nil, rlncerr.ErrZeroChunkCount
	}

	padded := make([]byte, len(data)+1)
	copy(padded, data)
	padded[len(data)] = boundaryMarker

	l := ceilDiv(len(padded), chunkCount)
	total := chunkCount * l
	if total > len(padded) {
		padded = append(padded, make([]byte, total-len(padded))...)
	}

	chunks := make([][]galois.Element, chunkCount)
	for i := 0; i < chunkCount; i++ {
		chunks[i] = padded[i*l : (i+1)*l]
	}

	return &Encoder{k: chunkCount, l: l, chunks: chunks}, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// ChunkSize returns L, the chunk size in bytes.
func (e *Encoder) ChunkSize() int { return e.l }

// ChunkCount returns K, the number of chunks.
func (e *Encoder) ChunkCount() int { return e.k }

// Code draws K uniformly random field elements from rng as the coding
// vector (including, possibly, the all-zero vector: the decoder tolerates
// and discards dependent or all-zero packets) and returns the resulting
// coded packet.
func (e *Encoder) Code(rng io.Reader) (*packet.Packet, error) {
	vector := make([]byte, e.k)
	if _, err := io.ReadFull(rng, vector); err != nil {
		return nil, fmt.Errorf("rlnc: reading random coding vector: %w", err)
	}
	return e.CodeWith(vector)
}

// CodeWith produces a coded packet from a caller-supplied coding vector. It
// fails with ErrCodingVectorLengthMismatch if len(vector) != K.
func (e *Encoder) CodeWith(vector []byte) (*packet.Packet, error) {
	if len(vector) != e.k {
		return nil, fmt.Errorf("%w: got %d, want %d", rlncerr.ErrCodingVectorLengthMismatch, len(vector), e.k)
	}

	payload := make([]galois.Element, e.l)
	for i, c := range vector {
		if c == galois.Zero {
			continue
		}
		chunk := e.chunks[i]
		for j := range payload {
			payload[j] = galois.Add(payload[j], galois.Mul(c, chunk[j]))
		}
	}

	codingVector := make([]galois.Element, e.k)
	copy(codingVector, vector)

	return &packet.Packet{CodingVector: codingVector, Payload: payload}, nil
}

// Systematic returns the uncoded passthrough packet for chunk i: its coding
// vector is the i-th standard basis vector and its payload is chunk i
// verbatim. Real RLNC senders typically emit these first so early receivers
// can start reconstructing without waiting on linear algebra.
func (e *Encoder) Systematic(i int) (*packet.Packet, error) {
	if i < 0 || i >= e.k {
		return nil, fmt.Errorf("%w: index %d out of range [0,%d)", rlncerr.ErrCodingVectorLengthMismatch, i, e.k)
	}
	vector := make([]byte, e.k)
	vector[i] = galois.One
	return e.CodeWith(vector)
}
