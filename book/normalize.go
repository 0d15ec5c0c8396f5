package book

// MaxWeight is the default normalization ceiling. It leaves generous
// headroom under the 16-bit on-disk field while keeping relative move
// popularity at four digits of resolution.
const MaxWeight = 10000

// Normalize rescales every position's weights so they sum to at most
// ceiling, preserving their proportions. Raw counts from a large corpus
// easily outgrow the record's 16-bit weight, so this always rescales, even
// when a position's total is already under the ceiling. Positions whose
// total is zero or negative are left alone; the writer filters those moves
// out anyway.
func (b *Book) Normalize(ceiling int64) {
	for _, p := range b.Positions {
		var total int64
		for _, c := range p.Moves {
			total += c.Weight
		}
		if total <= 0 {
			continue
		}
		for _, c := range p.Moves {
			c.Weight = int64(float64(c.Weight) / float64(total) * float64(ceiling))
		}
	}
}
