package refmatch

import (
	"strings"

	"github.com/corredora-austral/policy-cli/internal/textutil"
)

// Strategy selects the fuzzy scoring function used by the similarity pass.
// The two scorers are deliberately independent: word overlap handles long
// descriptive labels ("VEHICULOS DE PASEO USO PARTICULAR"), edit distance
// handles short codes and names where a one-letter OCR slip matters.
// Neither subsumes the other; call sites choose per field type.
type Strategy string

const (
	WordOverlap  Strategy = "word_overlap"
	EditDistance Strategy = "edit_distance"
)

// Score computes the similarity of two canonical strings in [0,1] using the
// selected strategy.
func (s Strategy) Score(a, b string) float64 {
	if s == EditDistance {
		return editSimilarity(a, b)
	}
	return wordOverlap(a, b)
}

// wordOverlap scores by how many words of length >2 on either side appear
// as a substring of (or contain) a word on the other side, over the larger
// word count.
func wordOverlap(a, b string) float64 {
	wa := textutil.Words(a, 2)
	wb := textutil.Words(b, 2)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	hits := 0
	for _, w := range wa {
		if wordMatches(w, wb) {
			hits++
		}
	}

	denom := len(wa)
	if len(wb) > denom {
		denom = len(wb)
	}
	return float64(hits) / float64(denom)
}

func wordMatches(w string, candidates []string) bool {
	for _, c := range candidates {
		if strings.Contains(w, c) || strings.Contains(c, w) {
			return true
		}
	}
	return false
}

// editSimilarity is 1 - levenshtein(a,b)/max(len(a),len(b)), floored at 0.
func editSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	ar, br := []rune(a), []rune(b)
	denom := len(ar)
	if len(br) > denom {
		denom = len(br)
	}
	d := levenshtein(ar, br)
	sim := 1 - float64(d)/float64(denom)
	if sim < 0 {
		return 0
	}
	return sim
}

func levenshtein(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i, ca := range a {
		curr[0] = i + 1
		for j, cb := range b {
			ins := curr[j] + 1
			del := prev[j+1] + 1
			sub := prev[j]
			if ca != cb {
				sub++
			}
			curr[j+1] = min3(ins, del, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
