package protocol

import (
	"encoding/binary"
	"fmt"
	"io"

	"snake-arena-server/game_state"
)

// Join tells a freshly connected client the grid size and which snake is theirs.
type Join struct {
	Width  uint32
	Height uint32
	ID     game_state.SnakeID
}

func EncodeJoin(j Join) []byte {
	b := make([]byte, JoinSize)
	binary.LittleEndian.PutUint32(b[0:4], j.Width)
	binary.LittleEndian.PutUint32(b[4:8], j.Height)
	binary.LittleEndian.PutUint32(b[8:12], j.ID.Uint32())
	return b
}

func DecodeJoin(b []byte) (Join, error) {
	if len(b) != JoinSize {
		return Join{}, fmt.Errorf("protocol: join is %d bytes, want %d", len(b), JoinSize)
	}
	return Join{
		Width:  binary.LittleEndian.Uint32(b[0:4]),
		Height: binary.LittleEndian.Uint32(b[4:8]),
		ID:     game_state.SnakeIDFromWire(binary.LittleEndian.Uint32(b[8:12])),
	}, nil
}

func WriteJoin(w io.Writer, j Join) error {
	_, err := w.Write(EncodeJoin(j))
	return err
}

func ReadJoin(r io.Reader) (Join, error) {
	b := make([]byte, JoinSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return Join{}, fmt.Errorf("protocol: reading join: %w", err)
	}
	return DecodeJoin(b)
}
