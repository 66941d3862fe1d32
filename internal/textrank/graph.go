package textrank

import "math"

// Graph is a weighted undirected similarity graph over sentences. Weights
// are symmetric; the diagonal is unused.
type Graph struct {
	Sentences []Sentence
	weights   [][]float64
}

// BuildGraph computes pairwise sentence similarity. Graphs of size 0 or 1
// are legal and simply have no edges.
func BuildGraph(sentences []Sentence) *Graph {
	n := len(sentences)
	g := &Graph{
		Sentences: sentences,
		weights:   make([][]float64, n),
	}
	for i := range g.weights {
		g.weights[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := similarity(sentences[i].Tokens, sentences[j].Tokens)
			g.weights[i][j] = w
			g.weights[j][i] = w
		}
	}
	return g
}

// Len returns the number of sentences in the graph.
func (g *Graph) Len() int {
	return len(g.Sentences)
}

// Weight returns the edge weight between sentences i and j.
func (g *Graph) Weight(i, j int) float64 {
	return g.weights[i][j]
}

// similarity is overlap count normalized by log sentence sizes:
// |A ∩ B| / (log(|A|+1) + log(|B|+1)). Zero when either token set is
// empty, so token-free sentences neither crash the pipeline nor attract
// rank mass.
func similarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	shared := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}

	return float64(shared) / (math.Log(float64(len(a))+1) + math.Log(float64(len(b))+1))
}
