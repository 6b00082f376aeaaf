package pincite

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pincite/pincite"
	"github.com/pincite/pincite/pkg/config"
	pinciteLogger "github.com/pincite/pincite/pkg/logger"
	"github.com/pincite/pincite/pkg/store"
	"github.com/pincite/pincite/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process <document-id> <page-file>...",
	Short: "Process a document into addressable segments",
	Long: `Process reads one text file per page, in argument order, segments the
document and stores it. The resulting citation references are stable: the
same input always produces the same references.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runProcess,
}

var searchCmd = &cobra.Command{
	Use:   "search <document-id> <query>",
	Short: "Search a processed document",
	Args:  cobra.ExactArgs(2),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(searchCmd)

	processCmd.Flags().String("title", "", "Document title")
	searchCmd.Flags().String("mode", "hybrid", "Search mode (exact, proximity, entity, semantic, hybrid)")
}

func newLocalClient(cfg *config.Config) (*pincite.Client, error) {
	entityPatterns, err := loadEntityPatterns(cfg)
	if err != nil {
		return nil, err
	}

	db, err := store.NewDocumentStore(&store.StoreConfig{
		Type: store.StoreType(cfg.Store.Type),
		Path: cfg.Store.Path,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create document store: %w", err)
	}

	return pincite.NewClient(&pincite.Config{
		Logger:         pinciteLogger.New(cfg.Log.Level, cfg.Log.Format),
		Store:          db,
		EntityPatterns: entityPatterns,
	})
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := newLocalClient(cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()
	defer client.Close(ctx)

	documentID := args[0]
	pages := make(map[int]string, len(args)-1)
	for i, path := range args[1:] {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read page file %s: %w", path, err)
		}
		pages[i+1] = string(content)
	}

	title, _ := cmd.Flags().GetString("title")
	result, err := client.ProcessDocument(ctx, pincite.Document{
		ID:    documentID,
		Title: title,
		Pages: pages,
	})
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	fmt.Printf("Processed %s: %d segments from %d pages\n", result.DocumentID, result.TotalSegments, len(pages))
	kinds := make([]string, 0, len(result.SegmentCounts))
	for kind := range result.SegmentCounts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Printf("  %-8s %d\n", kind, result.SegmentCounts[kind])
	}
	if len(result.Integrity.Issues) > 0 {
		fmt.Printf("Integrity issues: %d\n", len(result.Integrity.Issues))
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := newLocalClient(cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()
	defer client.Close(ctx)

	documentID, query := args[0], args[1]
	if _, err := client.Reprocess(ctx, documentID); err != nil {
		return fmt.Errorf("document %s is not in the store: %w", documentID, err)
	}

	modeFlag, _ := cmd.Flags().GetString("mode")
	mode := types.SearchMode(modeFlag)
	if !mode.Valid() {
		return fmt.Errorf("invalid search mode: %s", modeFlag)
	}

	results := client.Search(documentID, query, mode)
	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}
	for _, seg := range results {
		fmt.Printf("%s\t%s\n", seg.Reference(types.SegmentSentence), seg.Content)
	}
	return nil
}
