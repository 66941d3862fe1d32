package textrank

import (
	"math"
	"sort"
	"strings"
)

// TargetCount derives how many sentences a summary should keep:
// min(max(minSentences, ceil(n*ratio)), n). Very short articles still get
// at least one sentence and the summary never exceeds the source.
func TargetCount(n int, ratio float64, minSentences int) int {
	if n <= 0 {
		return 0
	}
	if minSentences < 1 {
		minSentences = 1
	}
	target := int(math.Ceil(float64(n) * ratio))
	if target < minSentences {
		target = minSentences
	}
	if target > n {
		target = n
	}
	return target
}

// Summarize selects the targetCount highest-scored sentences, restores
// original document order and joins them with single spaces. Ties go to
// the earlier sentence, which keeps selection deterministic and stable
// as targetCount grows.
func Summarize(sentences []Sentence, scores []float64, targetCount int) string {
	n := len(sentences)
	if n == 0 || targetCount <= 0 {
		return ""
	}
	if n == 1 {
		return sentences[0].Text
	}
	if targetCount > n {
		targetCount = n
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := scoreAt(scores, order[a]), scoreAt(scores, order[b])
		if sa != sb {
			return sa > sb
		}
		return order[a] < order[b]
	})

	selected := order[:targetCount]
	sort.Ints(selected)

	parts := make([]string, 0, targetCount)
	for _, idx := range selected {
		parts = append(parts, sentences[idx].Text)
	}
	return strings.Join(parts, " ")
}

func scoreAt(scores []float64, i int) float64 {
	if i < len(scores) {
		return scores[i]
	}
	return 0
}

// SummarizeText runs the whole chain over raw body text: split, build the
// similarity graph, rank, select. The second return value is false when
// ranking hit the iteration cap before converging (best-effort scores are
// still used).
func SummarizeText(body string, opts Options, ratio float64, minSentences int) (string, bool) {
	sentences := SplitSentences(body)
	if len(sentences) == 0 {
		return "", true
	}

	result := Rank(BuildGraph(sentences), opts)
	target := TargetCount(len(sentences), ratio, minSentences)
	return Summarize(sentences, result.Scores, target), result.Converged
}
