package textrank

// Options controls the ranking iteration. The damping factor is a tunable
// default, not a hard constant.
type Options struct {
	Damping       float64
	Epsilon       float64
	MaxIterations int
}

// DefaultOptions returns the standard TextRank parameters.
func DefaultOptions() Options {
	return Options{
		Damping:       0.85,
		Epsilon:       1e-4,
		MaxIterations: 100,
	}
}

// RankResult holds the final sentence scores, indexed by sentence Index.
// Converged is false when the iteration cap was hit first; the scores are
// still usable best-effort values.
type RankResult struct {
	Scores     []float64
	Iterations int
	Converged  bool
}

// Rank runs power iteration over the similarity graph. All scores start at
// 1/N; each round redistributes score along weighted edges with damping.
// Terminates when the summed absolute delta drops below Epsilon or after
// MaxIterations rounds.
func Rank(g *Graph, opts Options) RankResult {
	n := g.Len()
	if n == 0 {
		return RankResult{Scores: []float64{}, Converged: true}
	}
	if n == 1 {
		// No edges to iterate over; the single sentence keeps the
		// whole initial score mass.
		return RankResult{Scores: []float64{1}, Converged: true}
	}

	if opts.Damping <= 0 || opts.Damping >= 1 {
		opts.Damping = 0.85
	}
	if opts.Epsilon <= 0 {
		opts.Epsilon = 1e-4
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 100
	}

	// Total outgoing weight per node. Nodes with zero out-weight
	// contribute nothing instead of dividing by zero.
	outSum := make([]float64, n)
	for j := 0; j < n; j++ {
		var sum float64
		for k := 0; k < n; k++ {
			if k != j {
				sum += g.Weight(j, k)
			}
		}
		outSum[j] = sum
	}

	// Two reusable buffers swapped between iterations.
	scores := make([]float64, n)
	next := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}

	base := (1 - opts.Damping) / float64(n)

	for iter := 1; iter <= opts.MaxIterations; iter++ {
		for i := 0; i < n; i++ {
			var acc float64
			for j := 0; j < n; j++ {
				if j == i || outSum[j] == 0 {
					continue
				}
				if w := g.Weight(i, j); w > 0 {
					acc += w / outSum[j] * scores[j]
				}
			}
			next[i] = base + opts.Damping*acc
		}

		var delta float64
		for i := 0; i < n; i++ {
			d := next[i] - scores[i]
			if d < 0 {
				d = -d
			}
			delta += d
		}

		scores, next = next, scores

		if delta < opts.Epsilon {
			return RankResult{Scores: scores, Iterations: iter, Converged: true}
		}
	}

	return RankResult{Scores: scores, Iterations: opts.MaxIterations, Converged: false}
}
