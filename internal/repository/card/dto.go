package card

import (
	"database/sql"

	domcard "github.com/yz-create/magicsearch/internal/domain/card"
)

// cardRow mirrors the cards table scalar columns. The embedding vector is
// storage-internal and never hydrated into the aggregate.
type cardRow struct {
	id              int64
	name            string
	typeLine        string
	manaCost        string
	manaValue       float64
	power           string
	toughness       string
	loyalty         string
	defense         string
	text            string
	layout          string
	side            string
	isFunny         bool
	isReserved      bool
	hasAltDeckLimit bool
	edhrecRank      sql.NullInt32
	edhrecSaltiness sql.NullFloat64
	leadsBrawl      bool
	leadsCommander  bool
	leadsOath       bool
}

func (r *cardRow) scanDests() []any {
	return []any{
		&r.id, &r.name, &r.typeLine, &r.manaCost, &r.manaValue,
		&r.power, &r.toughness, &r.loyalty, &r.defense, &r.text,
		&r.layout, &r.side, &r.isFunny, &r.isReserved, &r.hasAltDeckLimit,
		&r.edhrecRank, &r.edhrecSaltiness,
		&r.leadsBrawl, &r.leadsCommander, &r.leadsOath,
	}
}

// toDomain builds a Card with scalar fields only; collections are filled by
// the repository and default to empty via Normalize.
func (r *cardRow) toDomain() domcard.Card {
	c := domcard.Card{
		ID:              r.id,
		Name:            r.name,
		TypeLine:        r.typeLine,
		ManaCost:        r.manaCost,
		ManaValue:       r.manaValue,
		Power:           r.power,
		Toughness:       r.toughness,
		Loyalty:         r.loyalty,
		Defense:         r.defense,
		Text:            r.text,
		Layout:          r.layout,
		Side:            r.side,
		IsFunny:         r.isFunny,
		IsReserved:      r.isReserved,
		HasAltDeckLimit: r.hasAltDeckLimit,
		Leadership: domcard.LeadershipSkills{
			Brawl:       r.leadsBrawl,
			Commander:   r.leadsCommander,
			Oathbreaker: r.leadsOath,
		},
	}
	if r.edhrecRank.Valid {
		c.EdhrecRank = int(r.edhrecRank.Int32)
	}
	if r.edhrecSaltiness.Valid {
		c.EdhrecSaltiness = r.edhrecSaltiness.Float64
	}
	c.Normalize()
	return c
}

// nullableInt stores 0 as NULL so unranked cards never match rank filters.
func nullableInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullableFloat(v float64) any {
	if v == 0 {
		return nil
	}
	return v
}
