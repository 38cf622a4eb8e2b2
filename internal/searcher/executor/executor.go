// Package executor evaluates compiled boolean queries against a finalized
// index. Operands are sorted posting lists; AND, OR and NOT reduce to
// linear merges, so each operator costs O(|a|+|b|).
package executor

import (
	"log/slog"

	"github.com/AKNosov/InfSearch/internal/indexer/index"
	"github.com/AKNosov/InfSearch/internal/searcher/parser"
)

// SearchResult is the JSON shape served by the search API. IDs is always
// strictly ascending; URLs carries the mapped keys for the first page of
// hits.
type SearchResult struct {
	Query     string   `json:"query"`
	TotalHits int      `json:"total_hits"`
	IDs       []int    `json:"ids"`
	URLs      []string `json:"urls,omitempty"`
}

// Executor runs queries against one finalized BooleanIndex.
type Executor struct {
	idx    *index.BooleanIndex
	logger *slog.Logger
}

func New(idx *index.BooleanIndex) *Executor {
	return &Executor{
		idx:    idx,
		logger: slog.Default().With("component", "query-executor"),
	}
}

// Search compiles and evaluates a query, returning the sorted ids of all
// matching documents. Malformed queries degrade to empty sub-results
// rather than errors.
func (e *Executor) Search(query string) []int {
	postfix := parser.Compile(query)
	hits := e.eval(postfix)
	e.logger.Debug("query evaluated",
		"query", query,
		"postfix_len", len(postfix),
		"hits", len(hits),
	)
	return hits
}

// eval runs the postfix program over an operand stack of posting lists.
// Operator underflow pushes an empty operand; an empty program yields an
// empty result.
func (e *Executor) eval(postfix []parser.Token) []int {
	var stack [][]int

	pop := func() []int {
		if len(stack) == 0 {
			return nil
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top
	}

	for _, tk := range postfix {
		switch tk.Type {
		case parser.TokenTerm:
			stack = append(stack, e.idx.Postings(tk.Term))

		case parser.TokenNot:
			a := pop()
			stack = append(stack, complement(e.idx.AllDocs(), a))

		case parser.TokenAnd:
			if len(stack) < 2 {
				stack = append(stack, nil)
				continue
			}
			b, a := pop(), pop()
			stack = append(stack, intersect(a, b))

		case parser.TokenOr:
			if len(stack) < 2 {
				stack = append(stack, nil)
				continue
			}
			b, a := pop(), pop()
			stack = append(stack, union(a, b))
		}
	}

	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

// intersect returns a ∩ b by dual-cursor merge.
func intersect(a, b []int) []int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]int, 0, n)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// union returns a ∪ b; equal heads collapse to one emit.
func union(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || (i < len(a) && a[i] < b[j]):
			out = append(out, a[i])
			i++
		case i == len(a) || b[j] < a[i]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// complement returns u \ b for sorted u and b.
func complement(u, b []int) []int {
	out := make([]int, 0, len(u))
	i, j := 0, 0
	for i < len(u) {
		switch {
		case j == len(b) || u[i] < b[j]:
			out = append(out, u[i])
			i++
		case u[i] == b[j]:
			i++
			j++
		default:
			j++
		}
	}
	return out
}
