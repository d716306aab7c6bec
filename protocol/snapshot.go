package protocol

import (
	"encoding/binary"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"

	"snake-arena-server/game_state"
)

// Snapshot field numbers. The payload is protobuf wire format:
//
//	message Snapshot   { repeated SnakeEntry snakes = 1; repeated Point fruits = 2; }
//	message SnakeEntry { uint32 id = 1; Point head = 2; repeated Point tail = 3; uint32 color = 4; }
//	message Point      { sint32 x = 1; sint32 y = 2; }
const (
	fieldSnapshotSnakes protowire.Number = 1
	fieldSnapshotFruits protowire.Number = 2

	fieldSnakeID    protowire.Number = 1
	fieldSnakeHead  protowire.Number = 2
	fieldSnakeTail  protowire.Number = 3
	fieldSnakeColor protowire.Number = 4

	fieldPointX protowire.Number = 1
	fieldPointY protowire.Number = 2
)

// Snapshot is the decoded world state a client renders each tick.
type Snapshot struct {
	Snakes map[game_state.SnakeID]game_state.Snake
	Fruits []game_state.Point
}

// AppendSnapshotFrame appends a length-prefixed snapshot of w to b. Callers
// hold the world's read lock; snakes are written in ascending id order.
func AppendSnapshotFrame(b []byte, w *game_state.World) []byte {
	start := len(b)
	b = append(b, make([]byte, LengthPrefixSize)...)
	b = AppendSnapshot(b, w)
	binary.BigEndian.PutUint64(b[start:start+LengthPrefixSize], uint64(len(b)-start-LengthPrefixSize))
	return b
}

// AppendSnapshot appends the snapshot payload, without the length prefix.
func AppendSnapshot(b []byte, w *game_state.World) []byte {
	snakes := w.Snakes()
	for _, id := range snakes.IDs() {
		s, _ := snakes.Get(id)
		b = appendSnake(b, id, s)
	}
	for _, p := range w.Fruits().Points() {
		b = appendPoint(b, fieldSnapshotFruits, p)
	}
	return b
}

func appendSnake(b []byte, id game_state.SnakeID, s *game_state.Snake) []byte {
	size := protowire.SizeTag(fieldSnakeID) + protowire.SizeVarint(uint64(id.Uint32())) +
		sizePointField(fieldSnakeHead, s.Head) +
		protowire.SizeTag(fieldSnakeColor) + protowire.SizeVarint(uint64(s.Color.RGB()))
	for _, p := range s.Tail {
		size += sizePointField(fieldSnakeTail, p)
	}

	b = protowire.AppendTag(b, fieldSnapshotSnakes, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(size))
	b = protowire.AppendTag(b, fieldSnakeID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(id.Uint32()))
	b = appendPoint(b, fieldSnakeHead, s.Head)
	for _, p := range s.Tail {
		b = appendPoint(b, fieldSnakeTail, p)
	}
	b = protowire.AppendTag(b, fieldSnakeColor, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(s.Color.RGB()))
}

func sizePoint(p game_state.Point) int {
	return protowire.SizeTag(fieldPointX) + protowire.SizeVarint(protowire.EncodeZigZag(int64(p.X))) +
		protowire.SizeTag(fieldPointY) + protowire.SizeVarint(protowire.EncodeZigZag(int64(p.Y)))
}

func sizePointField(num protowire.Number, p game_state.Point) int {
	return protowire.SizeTag(num) + protowire.SizeBytes(sizePoint(p))
}

func appendPoint(b []byte, num protowire.Number, p game_state.Point) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(sizePoint(p)))
	b = protowire.AppendTag(b, fieldPointX, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(p.X)))
	b = protowire.AppendTag(b, fieldPointY, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(int64(p.Y)))
}

// ReadSnapshot reads one length-prefixed snapshot frame.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var prefix [LengthPrefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return Snapshot{}, err
	}
	n := binary.BigEndian.Uint64(prefix[:])
	if n > MaxSnapshotSize {
		return Snapshot{}, fmt.Errorf("%w: %d bytes", ErrSnapshotTooLarge, n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Snapshot{}, fmt.Errorf("protocol: reading snapshot payload: %w", err)
	}
	return DecodeSnapshot(payload)
}

// DecodeSnapshot parses a snapshot payload. Unknown fields are skipped.
func DecodeSnapshot(b []byte) (Snapshot, error) {
	snap := Snapshot{Snakes: make(map[game_state.SnakeID]game_state.Snake)}
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch {
		case num == fieldSnapshotSnakes && typ == protowire.BytesType:
			msg, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			id, snake, err := decodeSnake(msg)
			if err != nil {
				return 0, err
			}
			snap.Snakes[id] = snake
			return n, nil
		case num == fieldSnapshotFruits && typ == protowire.BytesType:
			msg, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			p, err := decodePoint(msg)
			if err != nil {
				return 0, err
			}
			snap.Fruits = append(snap.Fruits, p)
			return n, nil
		}
		return skipField(num, typ, v)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func decodeSnake(b []byte) (game_state.SnakeID, game_state.Snake, error) {
	var id uint32
	var s game_state.Snake
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch {
		case (num == fieldSnakeID || num == fieldSnakeColor) && typ == protowire.VarintType:
			x, n := protowire.ConsumeVarint(v)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			if num == fieldSnakeID {
				id = uint32(x)
			} else {
				s.Color = game_state.ColorFromRGB(uint32(x))
			}
			return n, nil
		case (num == fieldSnakeHead || num == fieldSnakeTail) && typ == protowire.BytesType:
			msg, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			p, err := decodePoint(msg)
			if err != nil {
				return 0, err
			}
			if num == fieldSnakeHead {
				s.Head = p
			} else {
				s.Tail = append(s.Tail, p)
			}
			return n, nil
		}
		return skipField(num, typ, v)
	})
	return game_state.SnakeIDFromWire(id), s, err
}

func decodePoint(b []byte) (game_state.Point, error) {
	var p game_state.Point
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		if (num == fieldPointX || num == fieldPointY) && typ == protowire.VarintType {
			x, n := protowire.ConsumeVarint(v)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			if num == fieldPointX {
				p.X = int32(protowire.DecodeZigZag(x))
			} else {
				p.Y = int32(protowire.DecodeZigZag(x))
			}
			return n, nil
		}
		return skipField(num, typ, v)
	})
	return p, err
}

// consumeFields walks every field of a message, handing the bytes after each
// tag to fn, which reports how many of them the value used.
func consumeFields(b []byte, fn func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformedSnapshot, protowire.ParseError(n))
		}
		b = b[n:]
		m, err := fn(num, typ, b)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
		b = b[m:]
	}
	return nil
}

func skipField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, nil
}
