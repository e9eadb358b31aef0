package recorder

import (
	"bufio"
	"errors"
	"io"
	"os"

	"pricemodeling/internal/codec"
	"pricemodeling/internal/schema"
)

var (
	ErrShortHeader     = errors.New("record file: short header")
	ErrTruncatedRecord = errors.New("record file: truncated record at tail")
)

// Reader streams fixed-size records from a headered capture file.
type Reader struct {
	f       *os.File
	br      *bufio.Reader
	header  schema.FileHeader
	recSize int
	size    int64
	buf     []byte
	read    uint32
}

// Open reads the file header and positions the reader at the first record.
// A file shorter than one header fails with ErrShortHeader.
func Open(path string, recordSize int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	br := bufio.NewReaderSize(f, 256*1024)
	headerBuf := make([]byte, codec.FileHeaderSize)
	if _, err := io.ReadFull(br, headerBuf); err != nil {
		_ = f.Close()
		return nil, ErrShortHeader
	}
	header, _ := codec.DecodeFileHeader(headerBuf)

	return &Reader{
		f:       f,
		br:      br,
		header:  header,
		recSize: recordSize,
		size:    info.Size(),
		buf:     make([]byte, recordSize),
	}, nil
}

// Header returns the file header read at Open.
func (r *Reader) Header() schema.FileHeader {
	return r.header
}

// Shape returns the number of whole records implied by the file length and
// the dangling remainder after them. Callers compare the record count
// against Header().Count and warn on mismatch; decoding always proceeds by
// actual content, not by the header.
func (r *Reader) Shape() (records uint32, remainder int64) {
	body := r.size - codec.FileHeaderSize
	if body <= 0 {
		return 0, 0
	}
	return uint32(body / int64(r.recSize)), body % int64(r.recSize)
}

// Next returns the raw bytes of the next record. The slice is only valid
// until the following call. It returns io.EOF on a clean end of stream and
// ErrTruncatedRecord when a non-zero tail smaller than one record remains;
// records returned before either are all valid.
func (r *Reader) Next() ([]byte, error) {
	n, err := io.ReadFull(r.br, r.buf)
	if err != nil {
		if err == io.EOF && n == 0 {
			return nil, io.EOF
		}
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, ErrTruncatedRecord
		}
		return nil, err
	}
	r.read++
	return r.buf, nil
}

// Read reports how many records Next has returned so far.
func (r *Reader) Read() uint32 {
	return r.read
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}
