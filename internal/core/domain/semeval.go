package domain

import "fmt"

// POS is the part-of-speech tag of a semeval export.
type POS string

// Valid part-of-speech tags.
const (
	POSVerb POS = "v"
	POSNoun POS = "n"
)

// ParsePOS validates a tag. An empty tag selects POSVerb.
func ParsePOS(s string) (POS, error) {
	switch p := POS(s); p {
	case "":
		return POSVerb, nil
	case POSVerb, POSNoun:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q (must be either \"v\" or \"n\")", ErrInvalidPOS, s)
	}
}
