package magicsearch

// Legality is the play status of a card in one format.
type Legality string

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

// Card mirrors the server's card aggregate.
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
}

// Filter is one search constraint. Kind is one of higher_than, lower_than,
// equal_to, positive, negative; Value is a number for the first three and a
// string (or bool for boolean attributes) for the last two.
type Filter struct {
	Variable string `json:"variable"`
	Kind     string `json:"kind"`
	Value    any    `json:"value"`
}

// SemanticResult is one semantic search hit.
type SemanticResult struct {
	Card     Card    `json:"card"`
	Distance float64 `json:"distance"`
}

// User is a registered account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Health is the server health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type cardList struct {
	Items []Card `json:"items"`
	Total int    `json:"total"`
}

type semanticList struct {
	Items []SemanticResult `json:"items"`
	Total int              `json:"total"`
}
