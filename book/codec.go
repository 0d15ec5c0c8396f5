package book

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/bookforge/game"
)

// EntrySize is the fixed record width: 8 bytes of position key, 2 of move,
// 2 of weight, 4 of learn data, all big-endian. The learn field is always
// written as zero.
const EntrySize = 16

// Entry is one decoded book record.
type Entry struct {
	Key    uint64
	Move   uint16
	Weight uint16
}

// EncodeMove packs a move into the 16-bit book field: destination in the low
// six bits, origin in the next six, promotion or drop piece minus one in the
// top four. Drops reuse the promotion bits; origin == destination is what
// marks the record as a drop.
func EncodeMove(m game.Move) uint16 {
	f := uint16(m.To) | uint16(m.From)<<6
	piece := m.Promo
	if m.IsDrop() {
		piece = m.Drop
	}
	if piece != game.NoPieceType {
		f |= uint16(piece-1) << 12
	}
	return f
}

// DecodeMove unpacks a 16-bit move field.
func DecodeMove(f uint16) game.Move {
	m := game.Move{
		From: game.Square(f >> 6 & 0x3f),
		To:   game.Square(f & 0x3f),
	}
	bits := game.PieceType(f >> 12 & 0x7)
	if m.From == m.To {
		m.Drop = bits + 1
		return m
	}
	if bits > 0 {
		m.Promo = bits + 1
	}
	return m
}

// EncodeEntry packs one record. The weight must already fit the on-disk
// field; normalization upstream guarantees that for built books.
func EncodeEntry(key uint64, move uint16, weight int64) ([EntrySize]byte, error) {
	var rec [EntrySize]byte
	if weight < 0 || weight > 65535 {
		return rec, errors.Errorf("weight %d does not fit a book record", weight)
	}
	binary.BigEndian.PutUint64(rec[0:8], key)
	binary.BigEndian.PutUint16(rec[8:10], move)
	binary.BigEndian.PutUint16(rec[10:12], uint16(weight))
	return rec, nil
}

// DecodeEntry reads one record. The learn field is ignored.
func DecodeEntry(rec []byte) (Entry, error) {
	if len(rec) < EntrySize {
		return Entry{}, errors.Errorf("book record truncated at %d bytes", len(rec))
	}
	return Entry{
		Key:    binary.BigEndian.Uint64(rec[0:8]),
		Move:   binary.BigEndian.Uint16(rec[8:10]),
		Weight: binary.BigEndian.Uint16(rec[10:12]),
	}, nil
}
