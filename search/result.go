package search

// Doc is one searchable block record, typically derived from a block
// analysis plus its README text.
type Doc struct {
	Name        string
	Description string
	Variants    []string
	Classes     []string
	Text        string
}

// Match is one ranked search result.
type Match struct {
	Name        string   `json:"name"`
	Score       float64  `json:"score"`
	Description string   `json:"description,omitempty"`
	Variants    []string `json:"variants,omitempty"`
}

// Matches is a ranked result list.
type Matches []Match

// Names returns the matched block names in rank order.
func (m Matches) Names() []string {
	names := make([]string, len(m))
	for i, match := range m {
		names[i] = match.Name
	}
	return names
}

// FilterByMinScore returns the matches scoring at least min, keeping
// rank order.
func (m Matches) FilterByMinScore(min float64) Matches {
	filtered := make(Matches, 0, len(m))
	for _, match := range m {
		if match.Score >= min {
			filtered = append(filtered, match)
		}
	}
	return filtered
}
