package rlnc

import (
	"fmt"

	"github.com/mempirate/rlnc-go/galois"
	"github.com/mempirate/rlnc-go/internal/rlog"
	"github.com/mempirate/rlnc-go/packet"
	"github.com/mempirate/rlnc-go/rlncerr"
)

// Decoder maintains the Reduced Row Echelon Form (RREF) of the coded
// packets it has accepted, incrementally, as they arrive. It is
// single-threaded and synchronous: Decode runs to completion with no
// internal suspension points, and its observable result does not depend on
// the arrival order of a fixed set of linearly independent packets.
type Decoder struct {
	k int
	l int

	// pivots[col] is -1 if no stored row has its leading coefficient in
	// col, otherwise the index into rows.
	pivots []int
	rows   []*packet.Packet
	rank   int

	done   bool
	result []byte
}

// NewDecoder constructs a decoder for messages chunked into chunkCount
// pieces of chunkSize bytes each.
func NewDecoder(chunkSize, chunkCount int) (*Decoder, error) {
	if chunkCount == 0 {
		return nil, rlncerr.ErrZeroChunkCount
	}
	if chunkSize == 0 {
		return nil, rlncerr.ErrZeroChunkSize
	}

	pivots := make([]int, chunkCount)
	for i := range pivots {
		pivots[i] = -1
	}

	return &Decoder{
		k:      chunkCount,
		l:      chunkSize,
		pivots: pivots,
	}, nil
}

// Rank returns the number of linearly independent packets accepted so far.
func (d *Decoder) Rank() int { return d.rank }

// IsDone reports whether the decoder has reached full rank.
func (d *Decoder) IsDone() bool { return d.done }

// Decode feeds one coded packet to the decoder. It returns the reconstructed
// message on the call that completes decoding (rank reaches K), nil while
// still collecting, and an error for malformed input.
//
// Once decoding has completed, Decode is idempotent: further calls return
// the cached result rather than ErrAlreadyDecoded, since a streaming
// broadcast decoder ordinarily keeps receiving duplicate packets after
// completion.
func (d *Decoder) Decode(p *packet.Packet) ([]byte, error) {
	if len(p.CodingVector) != d.k {
		return nil, fmt.Errorf("%w: got %d, want %d", rlncerr.ErrCodingVectorLengthMismatch, len(p.CodingVector), d.k)
	}
	if len(p.Payload) != d.l {
		return nil, fmt.Errorf("%w: got %d, want %d", rlncerr.ErrPayloadLengthMismatch, len(p.Payload), d.l)
	}

	if d.done {
		return d.result, nil
	}

	work := p.Clone()

	// Step 1: forward elimination against existing pivots, columns
	// ascending. Ascending order is required for correctness: it keeps
	// earlier pivot rows clean of later pivot columns, but not vice versa.
	for col := 0; col < d.k; col++ {
		r := d.pivots[col]
		if r < 0 {
			continue
		}
		f := work.CodingVector[col]
		if f == galois.Zero {
			continue
		}
		work.SubScaled(d.rows[r], f)
	}

	// Step 2: leading-coefficient scan.
	col, _, ok := work.LeadingCoefficient()
	if !ok {
		// Linear combination of existing pivot rows: not an error, just
		// "need more packets".
		rlog.Default.Debug("discarding dependent packet", "rank", d.rank, "k", d.k)
		return nil, nil
	}

	// Step 3: pivot conflict. Should not occur after step 1 for a
	// well-formed coded packet; if it does, treat as redundant and discard
	// rather than corrupting the stored RREF.
	if d.pivots[col] >= 0 {
		return nil, nil
	}

	// Step 4: normalize so the leading coefficient is one.
	if err := work.Normalize(); err != nil {
		// Unreachable given step 2 found a non-zero leading coefficient;
		// guards against drift between LeadingCoefficient and Normalize.
		panic(err)
	}

	// Step 5: store.
	r := len(d.rows)
	d.rows = append(d.rows, work)
	d.pivots[col] = r
	d.rank++

	// Step 6: incremental back-substitution. Clear column col from every
	// other stored row.
	for i, row := range d.rows {
		if i == r {
			continue
		}
		f := row.CodingVector[col]
		if f == galois.Zero {
			continue
		}
		row.SubScaled(work, f)
	}

	if d.rank < d.k {
		return nil, nil
	}

	result, err := d.extract()
	if err != nil {
		return nil, err
	}
	d.done = true
	d.result = result
	rlog.Default.Debug("decode complete", "k", d.k, "bytes", len(result))
	return result, nil
}

// extract concatenates the K stored payloads in column order and strips the
// boundary marker, recovering the original message. Only called once rank
// has reached K, at which point the RREF is exactly the identity on
// columns, so payloads are chunks directly.
func (d *Decoder) extract() ([]byte, error) {
	buf := make([]byte, 0, d.k*d.l)
	for col := 0; col < d.k; col++ {
		r := d.pivots[col]
		buf = append(buf, d.rows[r].Payload...)
	}

	for i := len(buf) - 1; i >= 0; i-- {
		if buf[i] == boundaryMarker {
			return buf[:i], nil
		}
	}
	return nil, rlncerr.ErrBoundaryMarkerNotFound
}
