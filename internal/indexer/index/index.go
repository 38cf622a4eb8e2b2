// Package index maintains the in-memory boolean inverted index: one
// sorted posting list per stem plus the universe of all indexed document
// ids. Building appends in document-arrival order; Finalize makes every
// list sorted and unique, after which the index is read-only and safe for
// concurrent queries.
package index

import (
	"sort"

	"github.com/AKNosov/InfSearch/internal/indexer/hashtable"
	"github.com/AKNosov/InfSearch/internal/indexer/stemmer"
	"github.com/AKNosov/InfSearch/internal/indexer/tokenizer"
)

// DefaultTableSize pre-sizes the term table for a web-scale corpus.
const DefaultTableSize = 1 << 20

// Document is one immutable input record. Key is an opaque label (a url
// in practice) kept by the caller; the index stores only the id.
type Document struct {
	ID   int
	Key  string
	Text string
}

// BooleanIndex maps stems to posting lists and tracks the document
// universe used as the NOT operand.
type BooleanIndex struct {
	docsCount int
	allDocs   []int
	table     *hashtable.Table
}

// New creates an empty index with a term table of the given initial
// capacity; sizes below 1 fall back to DefaultTableSize.
func New(tableSize int) *BooleanIndex {
	if tableSize < 1 {
		tableSize = DefaultTableSize
	}
	return &BooleanIndex{table: hashtable.New(tableSize)}
}

// AddDocument tokenizes and stems the document text and appends the id to
// the posting list of every distinct resulting stem. The id enters the
// universe even when the text produces no terms.
func (b *BooleanIndex) AddDocument(doc Document) {
	if doc.ID+1 > b.docsCount {
		b.docsCount = doc.ID + 1
	}
	b.allDocs = append(b.allDocs, doc.ID)

	tokens := tokenizer.Tokenize(doc.Text)
	terms := make([]string, 0, len(tokens))
	for _, t := range tokens {
		term := stemmer.Stem(t)
		if len(term) < 2 {
			continue
		}
		terms = append(terms, term)
	}

	sort.Strings(terms)
	terms = uniqStrings(terms)

	for _, term := range terms {
		lst := b.table.GetOrInsert(term)
		*lst = append(*lst, doc.ID)
	}
}

// Finalize sorts and de-duplicates the universe and every posting list.
// It must run before queries; running it again is a no-op.
func (b *BooleanIndex) Finalize() {
	sort.Ints(b.allDocs)
	b.allDocs = uniqInts(b.allDocs)

	b.table.ForEach(func(_ string, lst *[]int) {
		sort.Ints(*lst)
		*lst = uniqInts(*lst)
	})
}

// Postings returns the posting list for term, or an empty list for
// unknown terms. Callers must treat the result as read-only.
func (b *BooleanIndex) Postings(term string) []int {
	return b.table.Find(term)
}

// AllDocs returns the document universe.
func (b *BooleanIndex) AllDocs() []int {
	return b.allDocs
}

// DocsCount returns max(id)+1 over all added documents, a size hint for
// parallel id-indexed arrays.
func (b *BooleanIndex) DocsCount() int {
	return b.docsCount
}

// TermsCount returns the number of distinct terms.
func (b *BooleanIndex) TermsCount() int {
	return b.table.Size()
}

func uniqStrings(s []string) []string {
	if len(s) < 2 {
		return s
	}
	k := 1
	for i := 1; i < len(s); i++ {
		if s[i] != s[k-1] {
			s[k] = s[i]
			k++
		}
	}
	return s[:k]
}

func uniqInts(s []int) []int {
	if len(s) < 2 {
		return s
	}
	k := 1
	for i := 1; i < len(s); i++ {
		if s[i] != s[k-1] {
			s[k] = s[i]
			k++
		}
	}
	return s[:k]
}
