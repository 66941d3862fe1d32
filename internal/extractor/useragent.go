package extractor

import (
	"math/rand"
	"sync"
)

// Fixed pool of desktop browser identities. Rotating across attempts
// lowers the chance of a site blocking repeated requests.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/134.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:136.0) Gecko/20100101 Firefox/136.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.3 Safari/605.1.15",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:135.0) Gecko/20100101 Firefox/135.0",
}

type agentPool struct {
	mu     sync.Mutex
	agents []string
	rand   *rand.Rand
}

func newAgentPool() *agentPool {
	return &agentPool{
		agents: userAgents,
		rand:   rand.New(rand.NewSource(rand.Int63())),
	}
}

// next picks a pseudo-random identity from the pool.
func (p *agentPool) next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.agents[p.rand.Intn(len(p.agents))]
}
