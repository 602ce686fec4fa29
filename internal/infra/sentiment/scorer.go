package sentiment

import "strings"

// Scorer rates a piece of text from -1 (negative) to +1 (positive).
// The word-list implementation below is deliberately simple; keeping it
// behind this interface lets a model-backed scorer slot in without touching
// the aggregation control flow.
type Scorer interface {
	Score(text string) float64
}

var _ Scorer = (*WordListScorer)(nil)

// WordListScorer counts occurrences from two fixed vocabularies.
type WordListScorer struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

var defaultPositive = []string{
	"win", "winning", "won", "strong", "dominant", "unbeaten", "confident",
	"fit", "returns", "boost", "form", "streak", "favourite", "favorite",
	"impressive", "clean",
}

var defaultNegative = []string{
	"lose", "losing", "lost", "weak", "injured", "injury", "doubt", "crisis",
	"suspended", "banned", "struggle", "struggling", "pressure", "sacked",
	"winless", "conceded",
}

func NewWordListScorer() *WordListScorer {
	s := &WordListScorer{
		positive: make(map[string]struct{}, len(defaultPositive)),
		negative: make(map[string]struct{}, len(defaultNegative)),
	}
	for _, w := range defaultPositive {
		s.positive[w] = struct{}{}
	}
	for _, w := range defaultNegative {
		s.negative[w] = struct{}{}
	}
	return s
}

func (s *WordListScorer) Score(text string) float64 {
	var pos, neg int
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		w := strings.Trim(raw, ".,:;!?'\"()[]")
		if _, ok := s.positive[w]; ok {
			pos++
		}
		if _, ok := s.negative[w]; ok {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}
