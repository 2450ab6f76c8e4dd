// Package card defines the card aggregate and its nested value objects.
package card

import (
	"fmt"
	"strings"

	"github.com/yz-create/magicsearch/internal/domain"
)

// Legality is the play status of a card in one format.
type Legality string

const (
	// Legal means the card may be played in the format.
	Legal Legality = "Legal"
	// Banned means the card may not be played in the format.
	Banned Legality = "Banned"
	// Restricted means the card is limited to one copy in the format.
	Restricted Legality = "Restricted"
)

// ParseLegality maps a stored name back to the enumeration.
func ParseLegality(s string) (Legality, error) {
	switch Legality(s) {
	case Legal, Banned, Restricted:
		return Legality(s), nil
	}
	return "", fmt.Errorf("unknown legality %q", s)
}

// LeadershipSkills marks which commander-like formats a card can lead.
type LeadershipSkills struct {
	Brawl       bool `json:"brawl"`
	Commander   bool `json:"commander"`
	Oathbreaker bool `json:"oathbreaker"`
}

// ForeignData is a localized printing of a card.
type ForeignData struct {
	Language   string `json:"language"`
	Name       string `json:"name"`
	Text       string `json:"text,omitempty"`
	Type       string `json:"type,omitempty"`
	FlavorText string `json:"flavor_text,omitempty"`
}

// Ruling is a dated official clarification.
type Ruling struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

// Card is the central aggregate. Power, toughness, loyalty and defense are
// strings because printed values can be non-numeric ("*", "1+*").
type Card struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	TypeLine        string  `json:"type_line"`
	ManaCost        string  `json:"mana_cost,omitempty"`
	ManaValue       float64 `json:"mana_value"`
	Power           string  `json:"power,omitempty"`
	Toughness       string  `json:"toughness,omitempty"`
	Loyalty         string  `json:"loyalty,omitempty"`
	Defense         string  `json:"defense,omitempty"`
	Text            string  `json:"text,omitempty"`
	Layout          string  `json:"layout,omitempty"`
	Side            string  `json:"side,omitempty"`
	IsFunny         bool    `json:"is_funny"`
	IsReserved      bool    `json:"is_reserved"`
	HasAltDeckLimit bool    `json:"has_alternative_deck_limit"`
	EdhrecRank      int     `json:"edhrec_rank,omitempty"`
	EdhrecSaltiness float64 `json:"edhrec_saltiness,omitempty"`

	Colors         []string `json:"colors"`
	ColorIdentity  []string `json:"color_identity"`
	ColorIndicator []string `json:"color_indicator"`
	Keywords       []string `json:"keywords"`
	Types          []string `json:"types"`
	Subtypes       []string `json:"subtypes"`
	Supertypes     []string `json:"supertypes"`
	Printings      []string `json:"printings"`

	Leadership   LeadershipSkills    `json:"leadership_skills"`
	Legalities   map[string]Legality `json:"legalities"`
	PurchaseURLs map[string]string   `json:"purchase_urls"`
	ForeignData  []ForeignData       `json:"foreign_data"`
	Rulings      []Ruling            `json:"rulings"`

	// Embedding is computed from EmbeddingText, never supplied by clients.
	Embedding []float32 `json:"-"`
}

// Validate checks the aggregate before a write.
func (c *Card) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidCard)
	}
	if c.TypeLine == "" {
		return fmt.Errorf("%w: type line is required", domain.ErrInvalidCard)
	}
	if c.ManaValue < 0 {
		return fmt.Errorf("%w: mana value must be non-negative", domain.ErrInvalidCard)
	}
	for format, l := range c.Legalities {
		if _, err := ParseLegality(string(l)); err != nil {
			return fmt.Errorf("%w: legalities[%s]: %v", domain.ErrInvalidCard, format, err)
		}
	}
	return nil
}

// Normalize replaces nil collections with empty ones so a card always
// round-trips with every collection present.
func (c *Card) Normalize() {
	if c.Colors == nil {
		c.Colors = []string{}
	}
	if c.ColorIdentity == nil {
		c.ColorIdentity = []string{}
	}
	if c.ColorIndicator == nil {
		c.ColorIndicator = []string{}
	}
	if c.Keywords == nil {
		c.Keywords = []string{}
	}
	if c.Types == nil {
		c.Types = []string{}
	}
	if c.Subtypes == nil {
		c.Subtypes = []string{}
	}
	if c.Supertypes == nil {
		c.Supertypes = []string{}
	}
	if c.Printings == nil {
		c.Printings = []string{}
	}
	if c.Legalities == nil {
		c.Legalities = map[string]Legality{}
	}
	if c.PurchaseURLs == nil {
		c.PurchaseURLs = map[string]string{}
	}
	if c.ForeignData == nil {
		c.ForeignData = []ForeignData{}
	}
	if c.Rulings == nil {
		c.Rulings = []Ruling{}
	}
}

// EmbeddingText renders the canonical text the embedding is computed from.
// Any field change that feeds this rendering requires re-embedding.
func (c *Card) EmbeddingText() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteString("\n")
	b.WriteString(c.TypeLine)
	if c.ManaCost != "" {
		b.WriteString("\nMana cost: ")
		b.WriteString(c.ManaCost)
	}
	if len(c.Keywords) > 0 {
		b.WriteString("\nKeywords: ")
		b.WriteString(strings.Join(c.Keywords, ", "))
	}
	if c.Text != "" {
		b.WriteString("\n")
		b.WriteString(c.Text)
	}
	switch {
	case c.Power != "" && c.Toughness != "":
		fmt.Fprintf(&b, "\n%s/%s", c.Power, c.Toughness)
	case c.Loyalty != "":
		fmt.Fprintf(&b, "\nLoyalty: %s", c.Loyalty)
	case c.Defense != "":
		fmt.Fprintf(&b, "\nDefense: %s", c.Defense)
	}
	return b.String()
}
