// search is the interactive front-end: it loads pages from Postgres,
// builds the boolean index once, and evaluates queries typed on stdin,
// printing hit counts and the first matching urls.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/AKNosov/InfSearch/internal/indexer/index"
	"github.com/AKNosov/InfSearch/internal/ingestion/store"
	"github.com/AKNosov/InfSearch/internal/searcher/executor"
	"github.com/AKNosov/InfSearch/pkg/config"
	"github.com/AKNosov/InfSearch/pkg/logger"
	"github.com/AKNosov/InfSearch/pkg/postgres"
)

const printLimit = 20

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	limit := flag.Int("limit", 0, "max pages to index (0 = all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *limit > 0 {
		cfg.Indexer.LoadLimit = *limit
	}

	logger.Setup(cfg.Logging.Level, "text")

	pg, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pg.Close()
	pageStore := store.New(pg)

	idx := index.New(cfg.Indexer.InitialTableSize)
	urls := make([]string, 0, 4096)

	progressEvery := cfg.Indexer.ProgressEvery
	if progressEvery < 1 {
		progressEvery = 2000
	}

	ctx := context.Background()

	start := time.Now()
	n, err := pageStore.ForEachPage(ctx, cfg.Indexer.LoadLimit, func(id int, url, text string) error {
		urls = append(urls, url)
		idx.AddDocument(index.Document{ID: id, Key: url, Text: text})
		if (id+1)%progressEvery == 0 {
			fmt.Fprintf(os.Stderr, "Indexed docs: %d\r", id+1)
		}
		return nil
	})
	if err != nil {
		slog.Error("loading pages failed", "error", err)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, "\nFinalize index...")
	idx.Finalize()

	elapsed := time.Since(start)
	fmt.Fprintf(os.Stderr, "Indexed: %d docs\n", n)
	fmt.Fprintf(os.Stderr, "Index build time: %.2f sec\n", elapsed.Seconds())
	if elapsed > 0 {
		fmt.Fprintf(os.Stderr, "Speed: %.0f docs/sec\n", float64(n)/elapsed.Seconds())
	}

	exec := executor.New(idx)

	fmt.Println("Boolean search ready.")
	fmt.Println("Syntax: AND OR NOT, parentheses. Implicit AND between terms.")
	fmt.Println("Examples:")
	fmt.Println("  нефть AND газ")
	fmt.Println("  (нефть OR газ) AND NOT европа")
	fmt.Println("Ctrl+D to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		hits := exec.Search(scanner.Text())
		fmt.Printf("hits: %d\n", len(hits))

		k := len(hits)
		if k > printLimit {
			k = printLimit
		}
		for i := 0; i < k; i++ {
			id := hits[i]
			if id >= 0 && id < len(urls) {
				fmt.Printf("  %s\n", urls[id])
			}
		}
		if len(hits) > k {
			fmt.Printf("  ... (%d more)\n", len(hits)-k)
		}
	}
}
