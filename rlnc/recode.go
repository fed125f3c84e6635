package rlnc

import (
	"io"

	"github.com/mempirate/rlnc-go/galois"
	"github.com/mempirate/rlnc-go/packet"
)

// Recode draws a random weight vector of length Rank() and returns a new
// coded packet that is that linear combination of the decoder's currently
// stored (RREF) rows. A node that has not yet reached full rank can still
// forward useful coded packets to its downstream peers. It mutates no
// decoder state.
func (d *Decoder) Recode(rng io.Reader) (*packet.Packet, error) {
	weights := make([]byte, d.rank)
	if _, err := io.ReadFull(rng, weights); err != nil {
		return nil, err
	}
	return d.recodeWith(weights)
}

func (d *Decoder) recodeWith(weights []byte) (*packet.Packet, error) {
	out := packet.New(d.k, d.l)
	for i, w := range weights {
		if w == galois.Zero {
			continue
		}
		row := d.rows[i]
		for j := range out.CodingVector {
			out.CodingVector[j] = galois.Add(out.CodingVector[j], galois.Mul(w, row.CodingVector[j]))
		}
		for j := range out.Payload {
			out.Payload[j] = galois.Add(out.Payload[j], galois.Mul(w, row.Payload[j]))
		}
	}
	return out, nil
}
