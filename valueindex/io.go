package valueindex

import (
	"fmt"
	"io"

	"github.com/precurse/vast/numeric"
)

func writeTag(w io.Writer, tag int32) error {
	if err := numeric.WriteVarint(w, uint64(tag)); err != nil {
		return fmt.Errorf("valueindex: write tag: %w", err)
	}
	return nil
}

func readTag(r io.Reader) (int32, error) {
	v, err := numeric.ReadVarint(r)
	if err != nil {
		return 0, fmt.Errorf("valueindex: read tag: %w", err)
	}
	return int32(v), nil
}

func writeInt(w io.Writer, n int32) error {
	if err := numeric.WriteVarint(w, uint64(n)); err != nil {
		return fmt.Errorf("valueindex: write int: %w", err)
	}
	return nil
}

func readInt(r io.Reader) (int32, error) {
	v, err := numeric.ReadVarint(r)
	if err != nil {
		return 0, fmt.Errorf("valueindex: read int: %w", err)
	}
	return int32(v), nil
}

func writeString(w io.Writer, s string) error {
	if err := writeInt(w, int32(len(s))); err != nil {
		return err
	}
	if _, err := w.Write([]byte(s)); err != nil {
		return fmt.Errorf("valueindex: write string: %w", err)
	}
	return nil
}

func readString(r io.Reader) (string, error) {
	n, err := readInt(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("valueindex: read string: %w", err)
	}
	return string(buf), nil
}
