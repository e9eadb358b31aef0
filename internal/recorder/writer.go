package recorder

import (
	"bufio"
	"os"
	"path/filepath"

	"pricemodeling/internal/codec"
	"pricemodeling/internal/schema"
)

// Writer streams records behind a zero-filled header placeholder and
// patches the real header in place once the record count is known. A file
// abandoned before Patch keeps a zero count in its header; readers still
// decode it by content, and callers comparing Reader.Shape against the
// header count see the mismatch.
type Writer struct {
	f     *os.File
	buf   *bufio.Writer
	path  string
	count uint32
}

// Create opens the output file, ensures its directory exists and writes
// the placeholder header.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}

	buf := bufio.NewWriterSize(f, 256*1024)
	var placeholder [codec.FileHeaderSize]byte
	if _, err := buf.Write(placeholder[:]); err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Writer{f: f, buf: buf, path: path}, nil
}

// Append writes one encoded record.
func (w *Writer) Append(rec []byte) error {
	if _, err := w.buf.Write(rec); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count reports how many records have been appended.
func (w *Writer) Count() uint32 {
	return w.count
}

// Path returns the output file path.
func (w *Writer) Path() string {
	return w.path
}

// Patch flushes buffered records, rewrites the header at offset 0 with the
// appended record count, syncs and closes the file. The count field of the
// passed header is overwritten.
func (w *Writer) Patch(h schema.FileHeader) error {
	h.Count = w.count
	if err := w.buf.Flush(); err != nil {
		_ = w.f.Close()
		return err
	}
	if _, err := w.f.Seek(0, 0); err != nil {
		_ = w.f.Close()
		return err
	}
	if _, err := w.f.Write(codec.EncodeFileHeader(nil, h)); err != nil {
		_ = w.f.Close()
		return err
	}
	if err := w.f.Sync(); err != nil {
		_ = w.f.Close()
		return err
	}
	return w.f.Close()
}

// Discard closes and removes the output. Used when a merge or snapshot run
// produced no records and only the placeholder was written.
func (w *Writer) Discard() error {
	_ = w.buf.Flush()
	if err := w.f.Close(); err != nil {
		_ = os.Remove(w.path)
		return err
	}
	return os.Remove(w.path)
}
