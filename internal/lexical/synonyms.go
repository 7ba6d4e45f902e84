package lexical

// synonymGroups maps a banking domain term to its equivalence set. A query
// word belonging to a group counts as a hit when any member of that group
// appears in a document's title or content.
var synonymGroups = map[string][]string{
	"loan":     {"loan", "lending", "credit", "financing", "borrow"},
	"auto":     {"auto", "car", "vehicle", "automotive"},
	"account":  {"account", "checking", "savings", "deposit"},
	"card":     {"card", "credit", "debit", "cardholder"},
	"mortgage": {"mortgage", "home", "property", "refinance"},
	"invest":   {"invest", "investment", "portfolio", "retirement", "brokerage"},
	"rate":     {"rate", "interest", "apr", "apy"},
	"fee":      {"fee", "charge", "cost", "penalty"},
	"security": {"security", "fraud", "protection", "authentication"},
	"business": {"business", "commercial", "merchant", "payroll"},
	"transfer": {"transfer", "wire", "ach", "payment"},
	"crypto":   {"crypto", "cryptocurrency", "bitcoin", "ethereum", "blockchain"},
}

// wordToGroups is the reverse index from a word to every group containing it.
var wordToGroups = buildReverseIndex()

func buildReverseIndex() map[string][]string {
	idx := make(map[string][]string)
	for key, members := range synonymGroups {
		seen := map[string]bool{}
		for _, m := range append([]string{key}, members...) {
			if !seen[m] {
				idx[m] = append(idx[m], key)
				seen[m] = true
			}
		}
	}
	return idx
}
