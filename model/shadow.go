package model

import "fmt"

const (
	// Rows is the number of row registers mirrored by a Shadow.
	Rows = 8
	// Capacity is the number of indicators a Shadow can hold.
	Capacity = Rows * 2
)

// Locate maps an indicator index to its row and slot.
func Locate(index int) (row int, slot Slot) {
	return index / 2, Slot(index % 2)
}

// Shadow mirrors the driver's row registers. It is the authoritative state for
// incremental updates: changing one indicator rewrites only its row.
type Shadow [Rows]RowPair

func (s *Shadow) Reset() {
	for i := range s {
		s[i] = 0
	}
}

// Set lights indicator index in colour c and returns the row to push to the driver.
func (s *Shadow) Set(index int, c Color) (row int, value byte, err error) {
	if index < 0 || index >= Capacity {
		return 0, 0, fmt.Errorf("indicator %d outside shadow capacity %d", index, Capacity)
	}
	if !c.Valid() {
		return 0, 0, fmt.Errorf("invalid color %d", uint8(c))
	}
	row, slot := Locate(index)
	s[row] = s[row].With(slot, c)
	return row, s[row].Byte(), nil
}

func (s *Shadow) Color(index int) (Color, bool) {
	if index < 0 || index >= Capacity {
		return 0, false
	}
	row, slot := Locate(index)
	return s[row].Color(slot)
}

func (s *Shadow) Bytes() [Rows]byte {
	var out [Rows]byte
	for i, r := range s {
		out[i] = r.Byte()
	}
	return out
}

// Decode expands raw row bytes into per-indicator colours. Dark or malformed
// nibbles report ok=false.
func Decode(rows [Rows]byte) (colors [Capacity]Color, lit [Capacity]bool) {
	for i := 0; i < Capacity; i++ {
		row, slot := Locate(i)
		colors[i], lit[i] = RowPair(rows[row]).Color(slot)
	}
	return colors, lit
}
