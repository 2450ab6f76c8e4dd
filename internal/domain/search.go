package domain

// RankedCard is a nearest-neighbor hit: a card id and its distance to the
// query vector (smaller is closer).
type RankedCard struct {
	CardID   int64
	Distance float64
}
