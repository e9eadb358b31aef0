package recorder

import (
	"bufio"
	"io"
	"os"

	"pricemodeling/internal/codec"
	"pricemodeling/internal/schema"
)

// FrameReader streams variable-size consolidated snapshot frames from a
// headered file. Fixed-size formats go through Reader instead.
type FrameReader struct {
	f      *os.File
	br     *bufio.Reader
	header schema.FileHeader
	read   uint32
}

// OpenFrames reads the file header and positions the reader at the first
// frame.
func OpenFrames(path string) (*FrameReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReaderSize(f, 256*1024)
	headerBuf := make([]byte, codec.FileHeaderSize)
	if _, err := io.ReadFull(br, headerBuf); err != nil {
		_ = f.Close()
		return nil, ErrShortHeader
	}
	header, _ := codec.DecodeFileHeader(headerBuf)

	return &FrameReader{f: f, br: br, header: header}, nil
}

// Header returns the file header read at OpenFrames.
func (r *FrameReader) Header() schema.FileHeader {
	return r.header
}

// Next decodes the next snapshot frame. It returns io.EOF on a clean end
// of stream and ErrTruncatedRecord on a torn frame.
func (r *FrameReader) Next() (schema.Snapshot, error) {
	s, err := codec.ReadSnapshot(r.br)
	if err == io.EOF {
		return schema.Snapshot{}, io.EOF
	}
	if err == io.ErrUnexpectedEOF {
		return schema.Snapshot{}, ErrTruncatedRecord
	}
	if err != nil {
		return schema.Snapshot{}, err
	}
	r.read++
	return s, nil
}

// Read reports how many frames Next has returned so far.
func (r *FrameReader) Read() uint32 {
	return r.read
}

// Close releases the underlying file.
func (r *FrameReader) Close() error {
	return r.f.Close()
}
