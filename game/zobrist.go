package game

// Zobrist layout for the variant trackers: 768 piece slots (piece kind times
// 64 squares, black pawn first), four castling rights, eight en passant
// files, one side-to-move key XORed in when white moves.
const (
	zCastleBase    = 768
	zEnPassantBase = 772
	zTurn          = 780
	zTableLen      = 781

	zSeed = 0xB00C5EED
)

var zTable [zTableLen]uint64

func init() {
	s := uint64(zSeed)
	for i := range zTable {
		s ^= s >> 12
		s ^= s << 25
		s ^= s >> 27
		zTable[i] = s * 2685821657736338717
	}
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// pieceKey hashes one colored piece on one square. Kinds interleave black
// before white per piece type, matching the table layout above.
func pieceKey(p PieceType, white bool, sq Square) uint64 {
	kind := 2*(int(p)-1) + btoi(white)
	return zTable[kind*64+int(sq)]
}
