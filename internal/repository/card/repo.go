// Package card persists the card aggregate across the cards table, its
// lookup tables, and their join tables.
package card

import (
	"context"
	"errors"
	"fmt"

	"github.com/yz-create/magicsearch/internal/db"
	"github.com/yz-create/magicsearch/internal/domain"
	domcard "github.com/yz-create/magicsearch/internal/domain/card"
)

// store is the consumer interface for card persistence (ISP).
type store interface {
	db.Querier
	db.TxRunner
}

// Repo implements aggregate reads and transactional writes for cards.
type Repo struct {
	store store
}

// New creates a card repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

const scalarColumns = `id, name, type_line, mana_cost, mana_value,
	power, toughness, loyalty, defense, text,
	layout, side, is_funny, is_reserved, has_alt_deck_limit,
	edhrec_rank, edhrec_saltiness,
	leads_brawl, leads_commander, leads_oathbreaker`

const insertCardSQL = `INSERT INTO cards (
	name, type_line, mana_cost, mana_value,
	power, toughness, loyalty, defense, text,
	layout, side, is_funny, is_reserved, has_alt_deck_limit,
	edhrec_rank, edhrec_saltiness,
	leads_brawl, leads_commander, leads_oathbreaker, embedding
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20::vector)
RETURNING id`

const updateCardSQL = `UPDATE cards SET
	name = $1, type_line = $2, mana_cost = $3, mana_value = $4,
	power = $5, toughness = $6, loyalty = $7, defense = $8, text = $9,
	layout = $10, side = $11, is_funny = $12, is_reserved = $13, has_alt_deck_limit = $14,
	edhrec_rank = $15, edhrec_saltiness = $16,
	leads_brawl = $17, leads_commander = $18, leads_oathbreaker = $19, embedding = $20::vector
WHERE id = $21`

// collectionSpec describes one join-table-backed collection attribute.
type collectionSpec struct {
	joinTable   string
	fkColumn    string
	lookupTable string
}

// collectionSpecs is ordered for deterministic write order inside the
// aggregate transaction.
var collectionSpecs = []struct {
	name string
	spec collectionSpec
}{
	{"colors", collectionSpec{"card_colors", "color_id", "colors"}},
	{"color_identity", collectionSpec{"card_color_identity", "color_id", "colors"}},
	{"color_indicator", collectionSpec{"card_color_indicator", "color_id", "colors"}},
	{"keywords", collectionSpec{"card_keywords", "keyword_id", "keywords"}},
	{"types", collectionSpec{"card_types", "type_id", "card_type_names"}},
	{"subtypes", collectionSpec{"card_subtypes", "subtype_id", "subtype_names"}},
	{"supertypes", collectionSpec{"card_supertypes", "supertype_id", "supertype_names"}},
	{"printings", collectionSpec{"card_printings", "set_id", "sets"}},
}

// Get reads the full aggregate. Returns domain.ErrNotFound for a missing id,
// never a partially populated card.
func (r *Repo) Get(ctx context.Context, id int64) (domcard.Card, error) {
	var row cardRow
	err := r.store.QueryRow(ctx,
		`SELECT `+scalarColumns+` FROM cards WHERE id = $1`, id,
	).Scan(row.scanDests()...)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return domcard.Card{}, domain.ErrNotFound
		}
		return domcard.Card{}, fmt.Errorf("get card %d: %w", id, err)
	}

	c := row.toDomain()
	if err := r.loadCollections(ctx, &c); err != nil {
		return domcard.Card{}, fmt.Errorf("get card %d: %w", id, err)
	}
	return c, nil
}

// GetByName reads all cards with the exact name (split cards share a name
// across sides).
func (r *Repo) GetByName(ctx context.Context, name string) ([]domcard.Card, error) {
	rows, err := r.store.Query(ctx,
		`SELECT `+scalarColumns+` FROM cards WHERE name = $1 ORDER BY id`, name,
	)
	if err != nil {
		return nil, fmt.Errorf("cards by name %q: %w", name, err)
	}
	defer rows.Close()

	var cards []domcard.Card
	for rows.Next() {
		var row cardRow
		if err := rows.Scan(row.scanDests()...); err != nil {
			return nil, fmt.Errorf("cards by name %q: %w", name, err)
		}
		cards = append(cards, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cards by name %q: %w", name, err)
	}

	for i := range cards {
		if err := r.loadCollections(ctx, &cards[i]); err != nil {
			return nil, fmt.Errorf("cards by name %q: %w", name, err)
		}
	}
	return cards, nil
}

// GetMany reads full aggregates for each id, preserving input order and
// skipping ids that no longer exist.
func (r *Repo) GetMany(ctx context.Context, ids []int64) ([]domcard.Card, error) {
	cards := make([]domcard.Card, 0, len(ids))
	for _, id := range ids {
		c, err := r.Get(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// Insert writes the aggregate in one transaction and sets c.ID.
func (r *Repo) Insert(ctx context.Context, c *domcard.Card) error {
	c.Normalize()
	return r.store.InTx(ctx, func(q db.Querier) error {
		err := q.QueryRow(ctx, insertCardSQL, r.scalarArgs(c)...).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("insert card %q: %w", c.Name, err)
		}
		return r.writeCollections(ctx, q, c)
	})
}

// Update rewrites the aggregate in one transaction: the scalar row is
// updated and every dependent row is replaced.
func (r *Repo) Update(ctx context.Context, c *domcard.Card) error {
	c.Normalize()
	return r.store.InTx(ctx, func(q db.Querier) error {
		args := append(r.scalarArgs(c), c.ID)
		affected, err := q.Exec(ctx, updateCardSQL, args...)
		if err != nil {
			return fmt.Errorf("update card %d: %w", c.ID, err)
		}
		if affected == 0 {
			return domain.ErrNotFound
		}
		if err := r.deleteDependents(ctx, q, c.ID); err != nil {
			return err
		}
		return r.writeCollections(ctx, q, c)
	})
}

// Delete removes the card; join rows go with it via ON DELETE CASCADE.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	affected, err := r.store.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete card %d: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) scalarArgs(c *domcard.Card) []any {
	var embedding any
	if len(c.Embedding) > 0 {
		embedding = db.VectorParam(c.Embedding)
	}
	return []any{
		c.Name, c.TypeLine, c.ManaCost, c.ManaValue,
		c.Power, c.Toughness, c.Loyalty, c.Defense, c.Text,
		c.Layout, c.Side, c.IsFunny, c.IsReserved, c.HasAltDeckLimit,
		nullableInt(c.EdhrecRank), nullableFloat(c.EdhrecSaltiness),
		c.Leadership.Brawl, c.Leadership.Commander, c.Leadership.Oathbreaker,
		embedding,
	}
}

// loadCollections fills every collection and nested attribute of c.
func (r *Repo) loadCollections(ctx context.Context, c *domcard.Card) error {
	dests := []*[]string{
		&c.Colors, &c.ColorIdentity, &c.ColorIndicator, &c.Keywords,
		&c.Types, &c.Subtypes, &c.Supertypes, &c.Printings,
	}
	for i, entry := range collectionSpecs {
		names, err := r.loadNames(ctx, entry.spec, c.ID)
		if err != nil {
			return fmt.Errorf("load %s: %w", entry.name, err)
		}
		*dests[i] = names
	}

	if err := r.loadLegalities(ctx, c); err != nil {
		return err
	}
	if err := r.loadPurchaseURLs(ctx, c); err != nil {
		return err
	}
	if err := r.loadForeignData(ctx, c); err != nil {
		return err
	}
	return r.loadRulings(ctx, c)
}

func (r *Repo) loadNames(ctx context.Context, spec collectionSpec, cardID int64) ([]string, error) {
	sql := fmt.Sprintf(
		"SELECT l.name FROM %s j JOIN %s l ON l.id = j.%s WHERE j.card_id = $1 ORDER BY l.name",
		spec.joinTable, spec.lookupTable, spec.fkColumn,
	)
	rows, err := r.store.Query(ctx, sql, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// loadLegalities remaps stored legality-type codes back to names through
// the legality_types lookup; the round trip is exact by construction.
func (r *Repo) loadLegalities(ctx context.Context, c *domcard.Card) error {
	rows, err := r.store.Query(ctx,
		`SELECT cl.format, lt.name
		 FROM card_legalities cl
		 JOIN legality_types lt ON lt.id = cl.legality_type_id
		 WHERE cl.card_id = $1`, c.ID,
	)
	if err != nil {
		return fmt.Errorf("load legalities: %w", err)
	}
	defer rows.Close()

	c.Legalities = map[string]domcard.Legality{}
	for rows.Next() {
		var format, name string
		if err := rows.Scan(&format, &name); err != nil {
			return fmt.Errorf("load legalities: %w", err)
		}
		legality, err := domcard.ParseLegality(name)
		if err != nil {
			return fmt.Errorf("load legalities: %w", err)
		}
		c.Legalities[format] = legality
	}
	return rows.Err()
}

func (r *Repo) loadPurchaseURLs(ctx context.Context, c *domcard.Card) error {
	rows, err := r.store.Query(ctx,
		`SELECT vendor, url FROM card_purchase_urls WHERE card_id = $1`, c.ID,
	)
	if err != nil {
		return fmt.Errorf("load purchase urls: %w", err)
	}
	defer rows.Close()

	c.PurchaseURLs = map[string]string{}
	for rows.Next() {
		var vendor, url string
		if err := rows.Scan(&vendor, &url); err != nil {
			return fmt.Errorf("load purchase urls: %w", err)
		}
		c.PurchaseURLs[vendor] = url
	}
	return rows.Err()
}

func (r *Repo) loadForeignData(ctx context.Context, c *domcard.Card) error {
	rows, err := r.store.Query(ctx,
		`SELECT language, name, text, type, flavor_text
		 FROM card_foreign_data WHERE card_id = $1 ORDER BY language`, c.ID,
	)
	if err != nil {
		return fmt.Errorf("load foreign data: %w", err)
	}
	defer rows.Close()

	c.ForeignData = []domcard.ForeignData{}
	for rows.Next() {
		var fd domcard.ForeignData
		if err := rows.Scan(&fd.Language, &fd.Name, &fd.Text, &fd.Type, &fd.FlavorText); err != nil {
			return fmt.Errorf("load foreign data: %w", err)
		}
		c.ForeignData = append(c.ForeignData, fd)
	}
	return rows.Err()
}

func (r *Repo) loadRulings(ctx context.Context, c *domcard.Card) error {
	rows, err := r.store.Query(ctx,
		`SELECT date, text FROM card_rulings WHERE card_id = $1 ORDER BY id`, c.ID,
	)
	if err != nil {
		return fmt.Errorf("load rulings: %w", err)
	}
	defer rows.Close()

	c.Rulings = []domcard.Ruling{}
	for rows.Next() {
		var ruling domcard.Ruling
		if err := rows.Scan(&ruling.Date, &ruling.Text); err != nil {
			return fmt.Errorf("load rulings: %w", err)
		}
		c.Rulings = append(c.Rulings, ruling)
	}
	return rows.Err()
}

// deleteDependents clears dependent rows before an update rewrite. Deletes
// rely on the cascade only for full card removal.
func (r *Repo) deleteDependents(ctx context.Context, q db.Querier, cardID int64) error {
	tables := []string{
		"card_colors", "card_color_identity", "card_color_indicator",
		"card_keywords", "card_types", "card_subtypes", "card_supertypes",
		"card_printings", "card_legalities", "card_purchase_urls",
		"card_foreign_data", "card_rulings",
	}
	for _, table := range tables {
		sql := fmt.Sprintf("DELETE FROM %s WHERE card_id = $1", table)
		if _, err := q.Exec(ctx, sql, cardID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func (r *Repo) writeCollections(ctx context.Context, q db.Querier, c *domcard.Card) error {
	values := [][]string{
		c.Colors, c.ColorIdentity, c.ColorIndicator, c.Keywords,
		c.Types, c.Subtypes, c.Supertypes, c.Printings,
	}
	for i, entry := range collectionSpecs {
		for _, name := range values[i] {
			lookupID, err := r.getOrCreate(ctx, q, entry.spec.lookupTable, name)
			if err != nil {
				return fmt.Errorf("write %s: %w", entry.name, err)
			}
			sql := fmt.Sprintf(
				"INSERT INTO %s (card_id, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING",
				entry.spec.joinTable, entry.spec.fkColumn,
			)
			if _, err := q.Exec(ctx, sql, c.ID, lookupID); err != nil {
				return fmt.Errorf("write %s: %w", entry.name, err)
			}
		}
	}

	for format, legality := range c.Legalities {
		typeID, err := r.getOrCreate(ctx, q, "legality_types", string(legality))
		if err != nil {
			return fmt.Errorf("write legalities: %w", err)
		}
		_, err = q.Exec(ctx,
			`INSERT INTO card_legalities (card_id, format, legality_type_id) VALUES ($1, $2, $3)`,
			c.ID, format, typeID,
		)
		if err != nil {
			return fmt.Errorf("write legalities: %w", err)
		}
	}

	for vendor, url := range c.PurchaseURLs {
		_, err := q.Exec(ctx,
			`INSERT INTO card_purchase_urls (card_id, vendor, url) VALUES ($1, $2, $3)`,
			c.ID, vendor, url,
		)
		if err != nil {
			return fmt.Errorf("write purchase urls: %w", err)
		}
	}

	for _, fd := range c.ForeignData {
		_, err := q.Exec(ctx,
			`INSERT INTO card_foreign_data (card_id, language, name, text, type, flavor_text)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			c.ID, fd.Language, fd.Name, fd.Text, fd.Type, fd.FlavorText,
		)
		if err != nil {
			return fmt.Errorf("write foreign data: %w", err)
		}
	}

	for _, ruling := range c.Rulings {
		_, err := q.Exec(ctx,
			`INSERT INTO card_rulings (card_id, date, text) VALUES ($1, $2, $3)`,
			c.ID, ruling.Date, ruling.Text,
		)
		if err != nil {
			return fmt.Errorf("write rulings: %w", err)
		}
	}
	return nil
}

// getOrCreate resolves a lookup name to its surrogate id, creating the row
// lazily on first reference. Table names come from compile-time constants only.
func (r *Repo) getOrCreate(ctx context.Context, q db.Querier, table, name string) (int64, error) {
	sql := fmt.Sprintf(
		`INSERT INTO %s (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`, table,
	)
	var id int64
	if err := q.QueryRow(ctx, sql, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("get-or-create %s %q: %w", table, name, err)
	}
	return id, nil
}
