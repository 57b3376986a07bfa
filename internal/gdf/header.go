// Package gdf reads the binary detection-record stream produced by the
// upstream particle finder and writes the stereo-match and track outputs
// in the same little-endian record format.
package gdf

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// magic identifies a GDF stream. Matlab's read_gdf function checks the
// same constant.
const magic int32 = 82991

// typeDouble marks every field in a record as an 8-byte IEEE-754 float;
// the format also allows typeFloat for 4-byte single precision, which
// this implementation never writes and rejects on read.
const typeDouble int32 = 5
const typeFloat int32 = 4

// header is the fixed 24-byte preamble: magic, dimension count, column
// count, row count, element type, and total element count (cols*rows).
// Row and total are placeholders at write time, patched in once the
// final counts are known.
type header struct {
	Magic   int32
	NDims   int32
	Cols    int32
	Rows    int32
	Type    int32
	Total   int32
}

func readHeader(r io.Reader) (header, error) {
	var h header
	fields := []*int32{&h.Magic, &h.NDims, &h.Cols, &h.Rows, &h.Type, &h.Total}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return header{}, errors.Wrap(err, "read gdf header")
		}
	}
	if h.Magic != magic {
		return header{}, errors.Errorf("gdf header: bad magic %d, expected %d", h.Magic, magic)
	}
	if h.Type != typeDouble && h.Type != typeFloat {
		return header{}, errors.Errorf("gdf header: unsupported element type %d", h.Type)
	}
	if h.Type == typeFloat {
		return header{}, errors.New("gdf header: single-precision streams are not supported")
	}
	return h, nil
}

func writeHeader(w io.Writer, h header) error {
	fields := []int32{h.Magic, h.NDims, h.Cols, h.Rows, h.Type, h.Total}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return errors.Wrap(err, "write gdf header")
		}
	}
	return nil
}

// patchRowsAndTotal rewrites the row-count and total-element fields of an
// already-written header once the final counts are known, mirroring
// fixHeader: seek past magic/ndims to the cols field, rewrite cols and
// rows, skip the type field, then rewrite total.
func patchRowsAndTotal(f io.WriteSeeker, cols, rows int32) error {
	if _, err := f.Seek(8, io.SeekStart); err != nil {
		return errors.Wrap(err, "seek gdf header")
	}
	if err := binary.Write(f, binary.LittleEndian, cols); err != nil {
		return errors.Wrap(err, "patch gdf header cols")
	}
	if err := binary.Write(f, binary.LittleEndian, rows); err != nil {
		return errors.Wrap(err, "patch gdf header rows")
	}
	if _, err := f.Seek(4, io.SeekCurrent); err != nil {
		return errors.Wrap(err, "seek gdf header")
	}
	if err := binary.Write(f, binary.LittleEndian, cols*rows); err != nil {
		return errors.Wrap(err, "patch gdf header total")
	}
	return nil
}

func readFloat64(r io.Reader) (float64, error) {
	var v float64
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, err
	}
	return v, nil
}

func writeFloat64(w io.Writer, v float64) error {
	return binary.Write(w, binary.LittleEndian, v)
}
