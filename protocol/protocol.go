// Package protocol defines the three messages exchanged between the arena and
// its clients and how they are framed on a byte stream.
//
//	Join      server -> client, once   12 bytes: width, height, id (u32 little endian)
//	Direction client -> server         4 bytes: variant index (u32 little endian)
//	Snapshot  server -> client, tick   u64 big endian length + protobuf-wire payload
package protocol

import "errors"

const (
	JoinSize         = 12
	DirectionSize    = 4
	LengthPrefixSize = 8

	// MaxSnapshotSize bounds the payload a reader will allocate for.
	MaxSnapshotSize = 16 << 20
)

var (
	ErrInvalidDirection  = errors.New("protocol: invalid direction")
	ErrSnapshotTooLarge  = errors.New("protocol: snapshot exceeds size limit")
	ErrMalformedSnapshot = errors.New("protocol: malformed snapshot")
)
