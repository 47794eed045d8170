// Package urlgen produces synthetic URL datasets for exercising the ranker.
//
// Generated URLs follow scheme://sub.sub.tld[:port]/path[?query][#fragment].
// All randomness comes from the *rand.Rand passed to New, so a seed fully
// determines the output.
package urlgen

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strings"
)

var (
	schemes         = []string{"http", "https", "ftp", "mailto", "file", "data", "irc"}
	topLevelDomains = []string{"com", "org", "net", "int", "edu", "gov", "mil", "arpa"}
)

const (
	subDomains   = 2
	maxPathParts = 3
	maxQueryArgs = 3

	// a generated URL starts a burst of repeats with this probability
	repeatProbability = 0.001
	repeatFactor      = 5000
)

// Generator draws random URLs.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator drawing from rng.
func New(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// NewSeeded creates a generator with its own source seeded by seed.
func NewSeeded(seed int64) *Generator {
	return New(rand.New(rand.NewSource(seed)))
}

func (g *Generator) word() string {
	n := 1 + g.rng.Intn(10)
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + g.rng.Intn(26))
	}
	return string(b)
}

// URL returns one random URL.
func (g *Generator) URL() string {
	var b strings.Builder
	b.WriteString(schemes[g.rng.Intn(len(schemes))])
	b.WriteString("://")
	for i := 0; i < subDomains; i++ {
		b.WriteString(g.word())
		b.WriteByte('.')
	}
	b.WriteString(topLevelDomains[g.rng.Intn(len(topLevelDomains))])
	if g.rng.Float64() > 0.9 {
		fmt.Fprintf(&b, ":%d", 1000+g.rng.Intn(10000))
	}
	for i, n := 0, 1+g.rng.Intn(maxPathParts); i < n; i++ {
		b.WriteByte('/')
		b.WriteString(g.word())
	}
	if g.rng.Intn(2) == 0 {
		b.WriteByte('?')
		for i, n := 0, 1+g.rng.Intn(maxQueryArgs); i < n; i++ {
			if i > 0 {
				b.WriteByte('&')
			}
			b.WriteString(g.word())
			b.WriteByte('=')
			b.WriteString(g.word())
		}
	}
	if g.rng.Intn(2) == 0 {
		b.WriteByte('#')
		b.WriteString(g.word())
	}
	return b.String()
}

// Write emits total lines to w. Now and then a URL is repeated in a burst
// so the dataset has a heavy head.
func (g *Generator) Write(w io.Writer, total int64) error {
	bw := bufio.NewWriter(w)
	for i := int64(0); i < total; i++ {
		url := g.URL()
		bw.WriteString(url)
		bw.WriteByte('\n')

		if g.rng.Float64() >= repeatProbability {
			continue
		}
		limit := int((repeatProbability + g.rng.Float64()) * repeatFactor)
		if limit < 1 {
			continue
		}
		repeats := min(int64(g.rng.Intn(limit)), total-1-i)
		for j := int64(0); j < repeats; j++ {
			bw.WriteString(url)
			bw.WriteByte('\n')
		}
		i += repeats
	}
	return bw.Flush()
}
