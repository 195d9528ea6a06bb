package model

const (
	SLOT_OFFSET uint8 = 0x04
	LOW_MASK    uint8 = 0x0F
	HIGH_MASK   uint8 = 0xF0
)

// Slot selects one of the two indicators sharing a row.
type Slot uint8

const (
	First  Slot = 0
	Second Slot = 1
)

func (s Slot) offset() uint8 {
	if s == Second {
		return SLOT_OFFSET
	}
	return 0
}

// mask keeps the other slot's nibble and drops this one.
func (s Slot) mask() uint8 {
	if s == Second {
		return LOW_MASK
	}
	return HIGH_MASK
}

// RowPair is one row register of the driver chip. It packs two indicators, each
// one-hot encoded in a nibble: slot First in bits 0-3, slot Second in bits 4-7.
type RowPair uint8

func setnibble(r uint8, c Color, s Slot) uint8 {
	return (r & s.mask()) | (1 << (s.offset() + uint8(c)))
}

func getnibble(r uint8, s Slot) uint8 {
	return (r >> s.offset()) & LOW_MASK
}

// With returns the row with slot s lit in colour c. The other slot is untouched.
// An invalid colour leaves the slot dark.
func (r RowPair) With(s Slot, c Color) RowPair {
	if !c.Valid() {
		return r.Clear(s)
	}
	return RowPair(setnibble(uint8(r), c, s))
}

func (r RowPair) Clear(s Slot) RowPair {
	return RowPair(uint8(r) & s.mask())
}

func (r RowPair) Nibble(s Slot) uint8 {
	return getnibble(uint8(r), s)
}

// Color decodes slot s. ok is false when the nibble is dark or not one-hot.
func (r RowPair) Color(s Slot) (c Color, ok bool) {
	switch r.Nibble(s) {
	case 1 << Green:
		return Green, true
	case 1 << Yellow:
		return Yellow, true
	case 1 << Red:
		return Red, true
	}
	return 0, false
}

func (r RowPair) Byte() byte {
	return byte(r)
}
