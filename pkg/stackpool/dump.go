package stackpool

import (
	"fmt"
	"strings"
)

// DumpStack renders the values of the chain rooted at x in head-first
// order, in the form "[ v1 v2 ... vn ]". Intended for debugging and
// tests, not a stable serialization format.
func (p *Pool[T]) DumpStack(x Index) (string, error) {
	it, err := p.Begin(x)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	sb.WriteString("[ ")

	for !it.Limit() {
		fmt.Fprintf(&sb, "%v ", *it.Value())
		it = it.Next()
	}

	sb.WriteString("]")

	return sb.String(), nil
}

// DumpPool renders the raw arena in physical order, free slots included
// with whatever stale values they hold, in the form "pool = [ v1 ... vn ]".
func (p *Pool[T]) DumpPool() string {
	p.ensureBooted()

	var sb strings.Builder

	sb.WriteString("pool = [ ")

	for i := range p.nodes {
		fmt.Fprintf(&sb, "%v ", p.nodes[i].value)
	}

	sb.WriteString("]")

	return sb.String()
}
