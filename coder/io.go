package coder

import (
	"fmt"
	"io"

	"github.com/precurse/vast/bitmap"
	"github.com/precurse/vast/numeric"
)

func writeTag(w io.Writer, tag int32) error {
	if err := numeric.WriteVarint(w, uint64(tag)); err != nil {
		return fmt.Errorf("coder: write tag: %w", err)
	}
	return nil
}

func readTag(r io.Reader) (int32, error) {
	v, err := numeric.ReadVarint(r)
	if err != nil {
		return 0, fmt.Errorf("coder: read tag: %w", err)
	}
	return int32(v), nil
}

func writeInt(w io.Writer, n int32) error {
	if err := numeric.WriteVarint(w, uint64(n)); err != nil {
		return fmt.Errorf("coder: write int: %w", err)
	}
	return nil
}

func readInt(r io.Reader) (int32, error) {
	v, err := numeric.ReadVarint(r)
	if err != nil {
		return 0, fmt.Errorf("coder: read int: %w", err)
	}
	return int32(v), nil
}

func writeBitmaps(w io.Writer, bms []*bitmap.Bitmap) error {
	for _, bm := range bms {
		if err := bm.Serialize(w); err != nil {
			return fmt.Errorf("coder: write bitmap: %w", err)
		}
	}
	return nil
}

func readBitmaps(r io.Reader, n int) ([]*bitmap.Bitmap, error) {
	out := make([]*bitmap.Bitmap, n)
	for i := range out {
		bm, err := bitmap.Deserialize(r)
		if err != nil {
			return nil, fmt.Errorf("coder: read bitmap %d: %w", i, err)
		}
		out[i] = bm
	}
	return out, nil
}
