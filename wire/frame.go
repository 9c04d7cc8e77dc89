package wire

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxFrameSize bounds the length prefix accepted by FrameReader.
const MaxFrameSize = 1 << 20

var ErrFrameTooLarge = errors.New("frame too large")

// WriteFrame writes data prefixed with its varint length.
func WriteFrame(w io.Writer, data []byte) error {
	e := NewEncoder()
	e.EncodeBytes(data)
	_, err := w.Write(e.Bytes())
	return err
}

// FrameReader reads length-prefixed frames written by WriteFrame.
type FrameReader struct {
	r *bufio.Reader
}

func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r)}
}

// Next returns the next frame, or io.EOF when the stream ends cleanly
// between frames.
func (fr *FrameReader) Next() ([]byte, error) {
	length, err := binary.ReadUvarint(fr.r)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame length: %w", err)
	}
	if length > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}
	frame := make([]byte, length)
	if _, err := io.ReadFull(fr.r, frame); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	return frame, nil
}
