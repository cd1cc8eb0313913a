package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <id>",
	Short: "Show where a conversation is archived",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "List archived conversations matching filters",
	Long: `Lists index entries matching every given filter. Filters are exact
matches; --tag matches conversations carrying that tag.`,
	RunE: runFind,
}

func init() {
	findCmd.Flags().String("company", "", "partition key, e.g. Acme_Inc")
	findCmd.Flags().String("tag", "", "tag name")
	findCmd.Flags().String("customer", "", "customer email")
	findCmd.Flags().String("status", "", "conversation status")
	findCmd.Flags().IntP("limit", "n", 0, "maximum number of results (0 = all)")
	findCmd.Flags().Bool("json", false, "print entries as JSON")
	rootCmd.AddCommand(lookupCmd, findCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	s, err := requireServices("index service")
	if err != nil {
		return err
	}

	entry, err := s.Index.Lookup(cmd.Context(), args[0])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("conversation %s is not in the index (run 'hsarchive index rebuild' after a sync)", args[0])
	}
	if err != nil {
		return fmt.Errorf("looking up %s: %w", args[0], err)
	}

	cmd.Printf("ID:       %s\n", entry.ID)
	cmd.Printf("Subject:  %s\n", entry.Subject)
	cmd.Printf("Company:  %s\n", entry.Company)
	cmd.Printf("Customer: %s\n", entry.Customer)
	cmd.Printf("Status:   %s\n", entry.Status)
	cmd.Printf("Tags:     %s\n", strings.Join(entry.Tags, ", "))
	cmd.Printf("Path:     %s\n", entry.Path)
	return nil
}

func runFind(cmd *cobra.Command, _ []string) error {
	s, err := requireServices("index service")
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	filter := domain.IndexFilter{}
	filter.Company, _ = flags.GetString("company")
	filter.Tag, _ = flags.GetString("tag")
	filter.Customer, _ = flags.GetString("customer")
	filter.Status, _ = flags.GetString("status")
	limit, _ := flags.GetInt("limit")
	asJSON, _ := flags.GetBool("json")

	entries, err := s.Index.Find(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("searching index: %w", err)
	}
	total := len(entries)
	if limit > 0 && total > limit {
		entries = entries[:limit]
	}

	if asJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding entries: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if total == 0 {
		cmd.Println("No matching conversations.")
		return nil
	}
	for _, e := range entries {
		cmd.Printf("%-10s %-24s %-8s %s\n", e.ID, e.Company, e.Status, e.Subject)
	}
	if len(entries) < total {
		cmd.Printf("Showing %d of %d matches.\n", len(entries), total)
	} else {
		cmd.Printf("%d matches.\n", total)
	}
	return nil
}
