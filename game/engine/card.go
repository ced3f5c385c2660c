package engine

import (
	"fmt"
	"strings"
)

// NewLaboratory creates the start card for the given laboratory colour
func NewLaboratory(color string) Card {
	return Card{Kind: Laboratory, Color: color}
}

// NewMolecule creates a resting molecule card
func NewMolecule(species Species, protection Protection) Card {
	return Card{Kind: Molecule, Species: species, Protection: protection}
}

// NewMembrane creates one half of a membrane pair
func NewMembrane(pairID string) Card {
	return Card{Kind: Membrane, PairID: pairID}
}

// NewReaction creates a reaction card
func NewReaction(kind ReactionKind) Card {
	return Card{Kind: Reaction, Reaction: kind}
}

// Validate checks that the payload matches the card kind
func (c Card) Validate() error {
	switch c.Kind {
	case Laboratory:
		if c.Color == "" {
			return fmt.Errorf("laboratory card requires a color")
		}
		if c.Species != "" || c.Protection != "" || c.PairID != "" || c.Reaction != "" {
			return fmt.Errorf("laboratory card carries foreign payload")
		}
	case Molecule:
		if !c.Species.Valid() {
			return fmt.Errorf("molecule card has unknown species %q", c.Species)
		}
		if !c.Protection.Valid() {
			return fmt.Errorf("molecule card has unknown protection %q", c.Protection)
		}
		if c.Color != "" || c.PairID != "" || c.Reaction != "" {
			return fmt.Errorf("molecule card carries foreign payload")
		}
	case Membrane:
		if strings.TrimSpace(c.PairID) == "" {
			return fmt.Errorf("membrane card requires a pair id")
		}
		if c.Color != "" || c.Species != "" || c.Protection != "" || c.Reaction != "" {
			return fmt.Errorf("membrane card carries foreign payload")
		}
	case Reaction:
		if !c.Reaction.Valid() {
			return fmt.Errorf("reaction card has unknown kind %q", c.Reaction)
		}
		if c.Color != "" || c.Species != "" || c.Protection != "" || c.PairID != "" {
			return fmt.Errorf("reaction card carries foreign payload")
		}
	default:
		return fmt.Errorf("unknown card kind %q", c.Kind)
	}
	return nil
}

// Equal reports whether two cards have the same identity
func (c Card) Equal(other Card) bool {
	return c == other
}

// Form returns the molecule form of a molecule card
func (c Card) Form() (MoleculeForm, bool) {
	if c.Kind != Molecule {
		return MoleculeForm{}, false
	}
	return MoleculeForm{Species: c.Species, Protection: c.Protection}, true
}

// Matches reports whether c is a molecule card showing exactly the given form
func (c Card) Matches(form MoleculeForm) bool {
	f, ok := c.Form()
	return ok && f == form
}

// Token returns the compact layout notation for the card
func (c Card) Token() string {
	switch c.Kind {
	case Laboratory:
		return "lab:" + c.Color
	case Molecule:
		token := speciesTokens[c.Species]
		if c.Protection != Neutral && c.Protection != "" {
			token += "+" + string(c.Protection)
		}
		return token
	case Membrane:
		return "mem:" + c.PairID
	case Reaction:
		return "rxn:" + reactionTokens[c.Reaction]
	}
	return "?"
}

func (c Card) String() string {
	return c.Token()
}

var speciesTokens = map[Species]string{
	Glycine: "gly",
	Serine:  "ser",
}

var reactionTokens = map[ReactionKind]string{
	BocToggle:       "boc",
	BnToggle:        "bn",
	EnzymeIsomerize: "enzyme",
}

// ParseCard parses the layout notation used in board configs:
//
//	lab:<color>            laboratory
//	gly, ser, gly+boc      molecule (species with an optional +boc or +bn)
//	mem:<pair>             membrane
//	rxn:boc|bn|enzyme      reaction
func ParseCard(token string) (Card, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return Card{}, fmt.Errorf("empty card token")
	}

	var card Card
	if prefix, rest, ok := strings.Cut(token, ":"); ok {
		switch prefix {
		case "lab":
			card = NewLaboratory(rest)
		case "mem":
			card = NewMembrane(rest)
		case "rxn":
			kind, err := parseReactionToken(rest)
			if err != nil {
				return Card{}, err
			}
			card = NewReaction(kind)
		default:
			return Card{}, fmt.Errorf("unknown card prefix %q in %q", prefix, token)
		}
	} else {
		form, err := ParseForm(token)
		if err != nil {
			return Card{}, err
		}
		card = NewMolecule(form.Species, form.Protection)
	}

	if err := card.Validate(); err != nil {
		return Card{}, fmt.Errorf("card %q: %w", token, err)
	}
	return card, nil
}

// ParseForm parses a molecule form such as "ser" or "gly+boc"
func ParseForm(token string) (MoleculeForm, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	speciesPart, protectionPart, _ := strings.Cut(token, "+")

	form := MoleculeForm{Protection: Neutral}
	switch speciesPart {
	case "gly", "glycine":
		form.Species = Glycine
	case "ser", "serine":
		form.Species = Serine
	default:
		return MoleculeForm{}, fmt.Errorf("unknown species %q", speciesPart)
	}

	switch protectionPart {
	case "", "neutral":
	case "boc":
		form.Protection = BocProtected
	case "bn":
		form.Protection = BnProtected
	default:
		return MoleculeForm{}, fmt.Errorf("unknown protecting group %q", protectionPart)
	}
	return form, nil
}

func parseReactionToken(s string) (ReactionKind, error) {
	switch s {
	case "boc", "boc_toggle":
		return BocToggle, nil
	case "bn", "bn_toggle":
		return BnToggle, nil
	case "enzyme", "enzyme_isomerize":
		return EnzymeIsomerize, nil
	}
	return "", fmt.Errorf("unknown reaction %q", s)
}

// ParseLayout converts layout tokens into cards
func ParseLayout(tokens []string) ([]Card, error) {
	cards := make([]Card, 0, len(tokens))
	for i, token := range tokens {
		card, err := ParseCard(token)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// FormatLayout is the inverse of ParseLayout
func FormatLayout(cards []Card) []string {
	tokens := make([]string, len(cards))
	for i, card := range cards {
		tokens[i] = card.Token()
	}
	return tokens
}
