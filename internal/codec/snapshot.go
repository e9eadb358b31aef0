package codec

import (
	"encoding/binary"
	"io"

	"pricemodeling/internal/schema"
)

const (
	SnapshotHeaderSize = 10
	LevelHeaderSize    = 9
	VenueEntrySize     = 12
)

// SnapshotSize returns the framed size of a consolidated snapshot.
func SnapshotSize(s schema.Snapshot) int {
	n := SnapshotHeaderSize
	for _, l := range s.Bids {
		n += LevelHeaderSize + len(l.Venues)*VenueEntrySize
	}
	for _, l := range s.Asks {
		n += LevelHeaderSize + len(l.Venues)*VenueEntrySize
	}
	return n
}

// EncodeSnapshot serializes a consolidated snapshot frame: the snapshot
// header, then bid levels, then ask levels, each level carrying its venue
// entries inline.
func EncodeSnapshot(dst []byte, s schema.Snapshot) []byte {
	size := SnapshotSize(s)
	if cap(dst) < size {
		dst = make([]byte, size)
	} else {
		dst = dst[:size]
	}

	binary.LittleEndian.PutUint64(dst[0:8], s.Ts)
	dst[8] = byte(len(s.Bids))
	dst[9] = byte(len(s.Asks))

	off := SnapshotHeaderSize
	off = encodeLevels(dst, off, s.Bids)
	encodeLevels(dst, off, s.Asks)

	return dst
}

func encodeLevels(dst []byte, off int, levels []schema.SnapshotLevel) int {
	for _, l := range levels {
		binary.LittleEndian.PutUint64(dst[off:off+8], uint64(l.Price))
		dst[off+8] = byte(len(l.Venues))
		off += LevelHeaderSize
		for _, v := range l.Venues {
			binary.LittleEndian.PutUint32(dst[off:off+4], v.Qty)
			binary.LittleEndian.PutUint64(dst[off+4:off+12], v.FeedID)
			off += VenueEntrySize
		}
	}
	return off
}

// DecodeSnapshot parses one snapshot frame from the front of src and
// returns the frame plus the number of bytes consumed.
func DecodeSnapshot(src []byte) (schema.Snapshot, int, bool) {
	if len(src) < SnapshotHeaderSize {
		return schema.Snapshot{}, 0, false
	}
	s := schema.Snapshot{Ts: binary.LittleEndian.Uint64(src[0:8])}
	nBid := int(src[8])
	nAsk := int(src[9])

	off := SnapshotHeaderSize
	var ok bool
	if s.Bids, off, ok = decodeLevels(src, off, nBid); !ok {
		return schema.Snapshot{}, 0, false
	}
	if s.Asks, off, ok = decodeLevels(src, off, nAsk); !ok {
		return schema.Snapshot{}, 0, false
	}
	return s, off, true
}

func decodeLevels(src []byte, off, n int) ([]schema.SnapshotLevel, int, bool) {
	if n == 0 {
		return nil, off, true
	}
	levels := make([]schema.SnapshotLevel, 0, n)
	for i := 0; i < n; i++ {
		if len(src) < off+LevelHeaderSize {
			return nil, off, false
		}
		level := schema.SnapshotLevel{
			Price: int64(binary.LittleEndian.Uint64(src[off : off+8])),
		}
		nVenues := int(src[off+8])
		off += LevelHeaderSize
		if len(src) < off+nVenues*VenueEntrySize {
			return nil, off, false
		}
		level.Venues = make([]schema.VenueQty, 0, nVenues)
		for v := 0; v < nVenues; v++ {
			level.Venues = append(level.Venues, schema.VenueQty{
				Qty:    binary.LittleEndian.Uint32(src[off : off+4]),
				FeedID: binary.LittleEndian.Uint64(src[off+4 : off+12]),
			})
			off += VenueEntrySize
		}
		levels = append(levels, level)
	}
	return levels, off, true
}

// ReadSnapshot decodes one snapshot frame from a stream. It returns io.EOF
// on a clean boundary and io.ErrUnexpectedEOF on a torn frame.
func ReadSnapshot(r io.Reader) (schema.Snapshot, error) {
	var head [SnapshotHeaderSize]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return schema.Snapshot{}, err
	}
	s := schema.Snapshot{Ts: binary.LittleEndian.Uint64(head[0:8])}
	var err error
	if s.Bids, err = readLevels(r, int(head[8])); err != nil {
		return schema.Snapshot{}, torn(err)
	}
	if s.Asks, err = readLevels(r, int(head[9])); err != nil {
		return schema.Snapshot{}, torn(err)
	}
	return s, nil
}

func readLevels(r io.Reader, n int) ([]schema.SnapshotLevel, error) {
	if n == 0 {
		return nil, nil
	}
	levels := make([]schema.SnapshotLevel, 0, n)
	var buf [LevelHeaderSize]byte
	var venue [VenueEntrySize]byte
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		level := schema.SnapshotLevel{
			Price: int64(binary.LittleEndian.Uint64(buf[0:8])),
		}
		nVenues := int(buf[8])
		level.Venues = make([]schema.VenueQty, 0, nVenues)
		for v := 0; v < nVenues; v++ {
			if _, err := io.ReadFull(r, venue[:]); err != nil {
				return nil, err
			}
			level.Venues = append(level.Venues, schema.VenueQty{
				Qty:    binary.LittleEndian.Uint32(venue[0:4]),
				FeedID: binary.LittleEndian.Uint64(venue[4:12]),
			})
		}
		levels = append(levels, level)
	}
	return levels, nil
}

func torn(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
