package index

import (
	"reflect"
	"testing"

	"github.com/AKNosov/InfSearch/internal/indexer/stemmer"
)

func buildCorpus() *BooleanIndex {
	idx := New(64)
	docs := []Document{
		{ID: 0, Key: "u0", Text: "нефть и газ европа"},
		{ID: 1, Key: "u1", Text: "газ россия"},
		{ID: 2, Key: "u2", Text: "нефть санкции европа"},
		{ID: 3, Key: "u3", Text: "машины машина мотор"},
	}
	for _, d := range docs {
		idx.AddDocument(d)
	}
	idx.Finalize()
	return idx
}

func TestPostings(t *testing.T) {
	idx := buildCorpus()

	if got := idx.Postings(stemmer.Stem("нефть")); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("postings(нефть) = %v, want [0 2]", got)
	}
	if got := idx.Postings(stemmer.Stem("газ")); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("postings(газ) = %v, want [0 1]", got)
	}
	// Two inflections of one lemma in one document collapse to a single
	// posting.
	if got := idx.Postings(stemmer.Stem("машина")); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("postings(машина) = %v, want [3]", got)
	}
	if got := idx.Postings("квазар"); len(got) != 0 {
		t.Errorf("postings(квазар) = %v, want empty", got)
	}
}

func TestUniverseAndCounts(t *testing.T) {
	idx := buildCorpus()

	if got := idx.AllDocs(); !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Errorf("AllDocs() = %v", got)
	}
	if idx.DocsCount() != 4 {
		t.Errorf("DocsCount() = %d, want 4", idx.DocsCount())
	}
	if idx.TermsCount() == 0 {
		t.Error("TermsCount() = 0")
	}
}

func TestUniverseKeepsEmptyDocuments(t *testing.T) {
	idx := New(64)
	idx.AddDocument(Document{ID: 0, Key: "u0", Text: "газ"})
	idx.AddDocument(Document{ID: 1, Key: "u1", Text: "... !!!"})
	idx.Finalize()

	if got := idx.AllDocs(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("AllDocs() = %v, want [0 1]", got)
	}
}

func TestPostingInvariants(t *testing.T) {
	idx := buildCorpus()
	universe := idx.AllDocs()

	inUniverse := make(map[int]struct{}, len(universe))
	for _, id := range universe {
		inUniverse[id] = struct{}{}
	}

	for _, term := range []string{"нефт", "газ", "европ", "росс", "санкц", "машин", "мотор"} {
		postings := idx.Postings(term)
		for i, id := range postings {
			if i > 0 && postings[i-1] >= id {
				t.Errorf("postings(%s) not strictly ascending: %v", term, postings)
			}
			if _, ok := inUniverse[id]; !ok {
				t.Errorf("postings(%s) id %d outside universe", term, id)
			}
		}
	}
}

func TestFinalizeIdempotent(t *testing.T) {
	idx := buildCorpus()
	before := append([]int(nil), idx.Postings("нефт")...)
	universe := append([]int(nil), idx.AllDocs()...)

	idx.Finalize()

	if !reflect.DeepEqual(idx.Postings("нефт"), before) {
		t.Errorf("re-finalize changed postings: %v", idx.Postings("нефт"))
	}
	if !reflect.DeepEqual(idx.AllDocs(), universe) {
		t.Errorf("re-finalize changed universe: %v", idx.AllDocs())
	}
}

func TestDocsCountHighWater(t *testing.T) {
	idx := New(64)
	idx.AddDocument(Document{ID: 9, Key: "u9", Text: "газ"})
	idx.Finalize()
	if idx.DocsCount() != 10 {
		t.Errorf("DocsCount() = %d, want 10", idx.DocsCount())
	}
}

func TestCrossDocumentDuplicatesCollapse(t *testing.T) {
	idx := New(64)
	idx.AddDocument(Document{ID: 0, Key: "u0", Text: "газ"})
	idx.AddDocument(Document{ID: 0, Key: "u0", Text: "газ"})
	idx.Finalize()

	if got := idx.Postings("газ"); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("postings(газ) = %v, want [0]", got)
	}
	if got := idx.AllDocs(); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("AllDocs() = %v, want [0]", got)
	}
}
