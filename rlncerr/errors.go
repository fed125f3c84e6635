// Package rlncerr defines the closed set of failure kinds the codec surfaces
// to callers. Every error a caller can see from this module is one of these
// sentinels (optionally wrapped with additional context via %w), except
// read errors from a caller-supplied random source, which Encoder.Code and
// Decoder.Recode pass through.
package rlncerr

import "errors"

var (
	// ErrEmptyData is returned by Encoder construction when the input byte
	// sequence is empty.
	ErrEmptyData = errors.New("rlnc: empty data")

	// ErrZeroChunkCount is returned by Encoder or Decoder construction when
	// the chunk count K is zero.
	ErrZeroChunkCount = errors.New("rlnc: zero chunk count")

	// ErrZeroChunkSize is returned by Decoder construction when the chunk
	// size L is zero.
	ErrZeroChunkSize = errors.New("rlnc: zero chunk size")

	// ErrCodingVectorLengthMismatch is returned when a coding vector's
	// length does not equal K.
	ErrCodingVectorLengthMismatch = errors.New("rlnc: coding vector length mismatch")

	// ErrPayloadLengthMismatch is returned when a packet's payload length
	// does not equal L.
	ErrPayloadLengthMismatch = errors.New("rlnc: payload length mismatch")

	// ErrAllZeroPacket is returned by Packet.Normalize when the coding
	// vector is identically zero.
	ErrAllZeroPacket = errors.New("rlnc: all-zero packet")

	// ErrDivisionByZero marks an internal impossibility in field
	// arithmetic: the decoder must never trigger this through normal
	// operation. Callers should treat a panic carrying this error as a bug
	// report, not a recoverable condition.
	ErrDivisionByZero = errors.New("rlnc: division by zero")

	// ErrBoundaryMarkerNotFound is returned by final extraction when the
	// concatenated payloads contain no boundary marker byte.
	ErrBoundaryMarkerNotFound = errors.New("rlnc: boundary marker not found")

	// ErrAlreadyDecoded is available for callers that want the strict
	// (non-idempotent) behavior; this module's Decoder defaults to
	// idempotent re-return instead (see Decoder.Decode), but the sentinel
	// is exported for implementations or tests that want to assert on it.
	ErrAlreadyDecoded = errors.New("rlnc: already decoded")
)
