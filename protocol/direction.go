package protocol

import (
	"encoding/binary"
	"fmt"
	"io"

	"snake-arena-server/game_state"
)

func EncodeDirection(d game_state.Direction) []byte {
	b := make([]byte, DirectionSize)
	binary.LittleEndian.PutUint32(b, uint32(d))
	return b
}

// DecodeDirection rejects anything but the four variant indexes.
func DecodeDirection(b []byte) (game_state.Direction, error) {
	if len(b) != DirectionSize {
		return 0, fmt.Errorf("protocol: direction is %d bytes, want %d", len(b), DirectionSize)
	}
	d := game_state.Direction(binary.LittleEndian.Uint32(b))
	if !d.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDirection, uint32(d))
	}
	return d, nil
}

func WriteDirection(w io.Writer, d game_state.Direction) error {
	_, err := w.Write(EncodeDirection(d))
	return err
}

// ReadDirection blocks until a whole direction frame is read. A short read
// surfaces as io.ErrUnexpectedEOF, a closed stream as io.EOF.
func ReadDirection(r io.Reader) (game_state.Direction, error) {
	var b [DirectionSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return DecodeDirection(b[:])
}
