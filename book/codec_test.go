package book

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookforge/game"
)

func TestEncodeMoveFieldLayout(t *testing.T) {
	type enctest struct {
		uci   string
		field uint16
	}
	testCases := []enctest{
		{"e2e4", 0x031c},  // 28 | 12<<6
		{"g1f3", 0x0195},  // 21 | 6<<6
		{"e7e8q", 0x4d3c}, // 60 | 52<<6 | (5-1)<<12
		{"a7a8n", 0x1c38}, // 56 | 48<<6 | (2-1)<<12
		{"N@f3", 0x1555},  // 21 | 21<<6 | (2-1)<<12
		{"P@e5", 0x0924},  // pawn drops carry zero piece bits
		{"e1h1", 0x0107},  // castling in its stored king-onto-rook form
	}
	for _, tc := range testCases {
		m, err := game.ParseMove(tc.uci)
		assert.Nil(t, err)
		assert.Equal(t, tc.field, EncodeMove(m), "move %s", tc.uci)

		// Decoding the field must reproduce the structured move exactly.
		assert.Equal(t, m, DecodeMove(tc.field), "field %#04x", tc.field)
	}
}

func TestDecodeMoveDropsShareThePromotionBits(t *testing.T) {
	// From == to is what marks a drop; the same piece bits on a normal move
	// mean a promotion instead.
	drop := DecodeMove(0x1555)
	assert.True(t, drop.IsDrop())
	assert.Equal(t, game.Knight, drop.Drop)
	assert.Equal(t, game.NoPieceType, drop.Promo)

	promo := DecodeMove(0x4d3c)
	assert.False(t, promo.IsDrop())
	assert.Equal(t, game.Queen, promo.Promo)

	quiet := DecodeMove(0x031c)
	assert.Equal(t, game.NoPieceType, quiet.Promo)
	assert.Equal(t, game.NoPieceType, quiet.Drop)
}

func TestEncodeEntryLayout(t *testing.T) {
	m, err := game.ParseMove("e2e4")
	assert.Nil(t, err)
	rec, err := EncodeEntry(0x463b96181691fc9c, EncodeMove(m), 10000)
	assert.Nil(t, err)

	want := [EntrySize]byte{
		0x46, 0x3b, 0x96, 0x18, 0x16, 0x91, 0xfc, 0x9c, // key, big-endian
		0x03, 0x1c, // move field
		0x27, 0x10, // weight 10000
		0x00, 0x00, 0x00, 0x00, // learn field stays zero
	}
	assert.Equal(t, want, rec)
}

func TestEncodeEntryWeightRange(t *testing.T) {
	_, err := EncodeEntry(1, 0x031c, -1)
	assert.NotNil(t, err)
	_, err = EncodeEntry(1, 0x031c, 65536)
	assert.NotNil(t, err)

	rec, err := EncodeEntry(1, 0x031c, 65535)
	assert.Nil(t, err)
	assert.Equal(t, byte(0xff), rec[10])
	assert.Equal(t, byte(0xff), rec[11])

	_, err = EncodeEntry(1, 0x031c, 0)
	assert.Nil(t, err)
}

func TestDecodeEntryRoundTrip(t *testing.T) {
	for _, uci := range []string{"e2e4", "e7e8q", "N@f3", "P@e5", "e8a8"} {
		m, err := game.ParseMove(uci)
		assert.Nil(t, err)
		rec, err := EncodeEntry(0xdeadbeefcafef00d, EncodeMove(m), 1234)
		assert.Nil(t, err)

		e, err := DecodeEntry(rec[:])
		assert.Nil(t, err)
		assert.Equal(t, uint64(0xdeadbeefcafef00d), e.Key)
		assert.Equal(t, uint16(1234), e.Weight)
		assert.Equal(t, uci, DecodeMove(e.Move).UCI())
	}
}

func TestDecodeEntryTruncated(t *testing.T) {
	_, err := DecodeEntry(make([]byte, EntrySize-1))
	assert.NotNil(t, err)
}
