package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cetrics/nexdawn-storefront/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search the catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	done := make(chan search.State, 8)
	engine, err := search.NewEngine(search.EngineParams{
		Querier:       a.client,
		Debounce:      a.cfg.Search.DebounceWindow,
		MinTermLength: a.cfg.Search.MinTermLength,
		Logger:        a.logg,
		OnUpdate:      func(state search.State) { done <- state },
	})
	if err != nil {
		return err
	}
	defer engine.Close()

	engine.SetTerm(cmd.Context(), args[0])

	timeout := a.cfg.Search.DebounceWindow + a.cfg.API.Timeout + time.Second
	deadline := time.After(timeout)
	for {
		select {
		case state := <-done:
			if state.IsSearching || state.Term != args[0] {
				continue
			}
			return printResults(cmd, state)
		case <-deadline:
			return fmt.Errorf("search timed out after %s", timeout)
		}
	}
}

func printResults(cmd *cobra.Command, state search.State) error {
	if len(state.Results) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No products match %q\n", state.Term)
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range state.Results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%d\n",
			p.ID, p.Name, p.CategoryName, p.EffectivePrice(), p.StockQuantity)
	}
	return w.Flush()
}
