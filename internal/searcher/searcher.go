// Package searcher owns the serving side of the engine: it builds
// finalized index snapshots from the page store and answers boolean
// queries against the current snapshot. A snapshot is immutable once
// built, so queries run concurrently without locks; rebuilds assemble a
// fresh snapshot off to the side and swap it in atomically.
package searcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/AKNosov/InfSearch/internal/indexer/index"
	"github.com/AKNosov/InfSearch/internal/searcher/executor"
	"github.com/AKNosov/InfSearch/pkg/config"
	"github.com/AKNosov/InfSearch/pkg/metrics"
)

// PageSource streams stored pages in insertion order with dense ids; the
// Postgres page store implements it.
type PageSource interface {
	ForEachPage(ctx context.Context, limit int, fn func(id int, url, text string) error) (int, error)
}

// Snapshot is one finalized index plus the id→url mapping that was built
// alongside it.
type Snapshot struct {
	Index   *index.BooleanIndex
	Exec    *executor.Executor
	URLs    []string
	BuiltAt time.Time
}

// Stats describes the current snapshot for the stats endpoint.
type Stats struct {
	Docs    int       `json:"docs"`
	Terms   int       `json:"terms"`
	BuiltAt time.Time `json:"built_at"`
}

// Service loads pages, builds snapshots, and serves queries.
type Service struct {
	source  PageSource
	cfg     config.IndexerConfig
	metrics *metrics.Metrics
	current atomic.Pointer[Snapshot]
	logger  *slog.Logger
}

// New creates a Service over the given page source.
func New(src PageSource, cfg config.IndexerConfig, m *metrics.Metrics) *Service {
	return &Service{
		source:  src,
		cfg:     cfg,
		metrics: m,
		logger:  slog.Default().With("component", "searcher"),
	}
}

// Rebuild streams the stored pages (at most cfg.LoadLimit of them when
// it is above 0) into a fresh index, finalizes it,
// and swaps the new snapshot in. Queries keep hitting the old snapshot
// until the swap.
func (s *Service) Rebuild(ctx context.Context) error {
	start := time.Now()

	idx := index.New(s.cfg.InitialTableSize)
	urls := make([]string, 0, 4096)

	progressEvery := s.cfg.ProgressEvery
	if progressEvery < 1 {
		progressEvery = 2000
	}

	n, err := s.source.ForEachPage(ctx, s.cfg.LoadLimit, func(id int, url, text string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		urls = append(urls, url)
		idx.AddDocument(index.Document{ID: id, Key: url, Text: text})
		if (id+1)%progressEvery == 0 {
			s.logger.Info("indexing progress", "docs", id+1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading pages: %w", err)
	}

	idx.Finalize()
	elapsed := time.Since(start)

	snap := &Snapshot{
		Index:   idx,
		Exec:    executor.New(idx),
		URLs:    urls,
		BuiltAt: time.Now().UTC(),
	}
	s.current.Store(snap)

	if s.metrics != nil {
		s.metrics.DocsIndexedTotal.Add(float64(n))
		s.metrics.IndexBuildSeconds.Observe(elapsed.Seconds())
		s.metrics.IndexDocs.Set(float64(n))
		s.metrics.IndexTerms.Set(float64(idx.TermsCount()))
	}
	s.logger.Info("index rebuilt",
		"docs", n,
		"terms", idx.TermsCount(),
		"elapsed", elapsed,
	)
	return nil
}

// Current returns the active snapshot, or nil before the first build.
func (s *Service) Current() *Snapshot {
	return s.current.Load()
}

// Search runs a query against the current snapshot and returns the
// sorted matching ids. Before the first build it returns no hits and
// reports false.
func (s *Service) Search(query string) ([]int, bool) {
	snap := s.current.Load()
	if snap == nil {
		return nil, false
	}
	return snap.Exec.Search(query), true
}

// URL maps a document id back to its url within the given snapshot; ids
// outside it map to the empty string.
func (s *Service) URL(snap *Snapshot, id int) string {
	if snap == nil || id < 0 || id >= len(snap.URLs) {
		return ""
	}
	return snap.URLs[id]
}

// Stats reports the current snapshot's document and term counts.
func (s *Service) Stats() (Stats, bool) {
	snap := s.current.Load()
	if snap == nil {
		return Stats{}, false
	}
	return Stats{
		Docs:    len(snap.URLs),
		Terms:   snap.Index.TermsCount(),
		BuiltAt: snap.BuiltAt,
	}, true
}
