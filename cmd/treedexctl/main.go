// Command treedexctl is a thin, out-of-process consumer of the treedex
// engine: it loads a JSON corpus fixture of already-parsed documents
// (parsing Markdown/source into that shape is a separate indexer's job)
// and drives search/list/tree/stats over it. It stands in for the
// outer protocol surface that would normally wrap the engine.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/solwren/treedex"
)

var (
	configPath  string
	corpusPath  string
	glossaryPath string
)

func main() {
	root := &cobra.Command{
		Use:   "treedexctl",
		Short: "Query a treedex corpus fixture from the command line",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "treedex.yaml", "path to YAML config")
	root.PersistentFlags().StringVar(&corpusPath, "corpus", "corpus.json", "path to a JSON array of IndexedDocument fixtures")
	root.PersistentFlags().StringVar(&glossaryPath, "glossary", "", "path to a YAML glossary file, overrides config")

	root.AddCommand(searchCmd(), listCmd(), treeCmd(), statsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildEngine() (*treedex.Engine, error) {
	cfg, err := treedex.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger, cleanup, err := treedex.SetupLogging(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: logging setup degraded:", err)
	}
	defer cleanup()

	engine := treedex.NewEngine(logger)
	if err := engine.SetRanking(cfg.RankingParams()); err != nil {
		return nil, err
	}
	if err := engine.SetCollectionWeights(cfg.Collections); err != nil {
		return nil, err
	}

	gp := glossaryPath
	if gp == "" {
		gp = cfg.GlossaryPath
	}
	if gp != "" {
		data, err := os.ReadFile(gp)
		if err != nil {
			return nil, err
		}
		var entries map[string][]string
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, err
		}
		engine.LoadGlossary(entries)
	}

	data, err := os.ReadFile(corpusPath)
	if err != nil {
		return nil, err
	}
	var docs []treedex.IndexedDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, err
	}
	if err := engine.Load(docs); err != nil {
		return nil, err
	}

	return engine, nil
}

func searchCmd() *cobra.Command {
	var limit int
	var collection string
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run a ranked search against the corpus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}
			results := engine.Search(args[0], treedex.SearchOptions{Limit: limit, Collection: collection})
			return printJSON(results)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum results")
	cmd.Flags().StringVar(&collection, "collection", "", "restrict to one collection")
	return cmd
}

func listCmd() *cobra.Command {
	var tag, query, collection string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries with optional filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}
			result := engine.List(treedex.ListOptions{
				Tag: tag, Query: query, Collection: collection,
				Limit: limit, Offset: offset,
			})
			return printJSON(result)
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "filter by tag substring")
	cmd.Flags().StringVar(&query, "query", "", "filter by title/description/path substring")
	cmd.Flags().StringVar(&collection, "collection", "", "filter by collection")
	cmd.Flags().IntVar(&limit, "limit", 50, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")
	return cmd
}

func treeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [doc-id]",
		Short: "Print a document's section tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}
			tree := engine.GetTree(args[0])
			if tree == nil {
				return fmt.Errorf("no such document: %s", args[0])
			}
			return printJSON(tree)
		},
	}
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print corpus-wide statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}
			return printJSON(engine.GetStats())
		},
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
