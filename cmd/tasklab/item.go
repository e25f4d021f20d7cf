package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/tasklab/catalog"
	"github.com/amonks/tasklab/internal/markdown"
	"github.com/amonks/tasklab/internal/ui"
	"github.com/spf13/cobra"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Browse the generated item catalog",
}

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog items",
	Args:  cobra.NoArgs,
	RunE:  runItemList,
}

var itemShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a catalog item",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemShow,
}

var itemCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List item categories",
	Args:  cobra.NoArgs,
	RunE:  runItemCategories,
}

var (
	itemCount    int
	itemQuery    string
	itemCategory string
	itemJSON     bool
)

func init() {
	rootCmd.AddCommand(itemCmd)
	itemCmd.AddCommand(itemListCmd, itemShowCmd, itemCategoriesCmd)

	itemCmd.PersistentFlags().IntVar(&itemCount, "count", catalog.DefaultCount, "Number of items to generate")
	itemListCmd.Flags().StringVarP(&itemQuery, "query", "q", "", "Search titles and descriptions")
	itemListCmd.Flags().StringVarP(&itemCategory, "category", "c", catalog.CategoryAll, "Filter by category")
	itemListCmd.Flags().BoolVar(&itemJSON, "json", false, "Output as JSON")
	itemShowCmd.Flags().BoolVar(&itemJSON, "json", false, "Output as JSON")
}

func generateItems() ([]catalog.Item, error) {
	if itemCount < 0 {
		return nil, fmt.Errorf("count must not be negative: %d", itemCount)
	}
	return catalog.Generate(itemCount, time.Now()), nil
}

func runItemList(cmd *cobra.Command, _ []string) error {
	items, err := generateItems()
	if err != nil {
		return err
	}
	items = catalog.Search(catalog.FilterByCategory(items, itemCategory), itemQuery)

	out := cmd.OutOrStdout()
	if itemJSON {
		if items == nil {
			items = []catalog.Item{}
		}
		return encodeJSON(out, items)
	}
	if len(items) == 0 {
		fmt.Fprintln(out, "No items found.")
		return nil
	}
	fmt.Fprint(out, formatItemTable(items))
	return nil
}

func runItemShow(cmd *cobra.Command, args []string) error {
	items, err := generateItems()
	if err != nil {
		return err
	}
	item, err := catalog.Find(items, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if itemJSON {
		return encodeJSON(out, item)
	}
	fmt.Fprint(out, formatItemDetail(item))
	return nil
}

func runItemCategories(cmd *cobra.Command, _ []string) error {
	items, err := generateItems()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, category := range catalog.Categories(items) {
		fmt.Fprintln(out, category)
	}
	return nil
}

func formatItemTable(items []catalog.Item) string {
	builder := ui.NewTableBuilder([]string{"ID", "CATEGORY", "PRI", "STATUS", "TITLE"}, len(items))
	for _, item := range items {
		builder.AddRow(item.ID, item.Category, string(item.Priority), string(item.Status), ui.TruncateTableCell(item.Title))
	}
	return builder.String()
}

func formatItemDetail(item catalog.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID:       %s\n", item.ID)
	fmt.Fprintf(&b, "Title:    %s\n", item.Title)
	fmt.Fprintf(&b, "Category: %s\n", item.Category)
	fmt.Fprintf(&b, "Priority: %s\n", item.Priority)
	fmt.Fprintf(&b, "Status:   %s\n", item.Status)
	fmt.Fprintf(&b, "Order:    %d\n", item.Metadata.Order)
	fmt.Fprintf(&b, "Created:  %s\n", item.CreatedAt.Format(detailTimeLayout))
	fmt.Fprintf(&b, "Updated:  %s\n", item.UpdatedAt.Format(detailTimeLayout))
	if description := markdown.Reflow(item.Description, detailLineWidth-2); description != "" {
		fmt.Fprintf(&b, "\nDescription:\n%s\n", description)
	}
	return b.String()
}
