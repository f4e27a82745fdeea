package cli

import (
	"fmt"
	"math/rand/v2"

	"github.com/kittengames/kittengames/internal/catalog"
	"github.com/spf13/cobra"
)

var (
	randomCategory string
	randomJSON     bool
)

func init() {
	randomCmd.Flags().StringVarP(&randomCategory, "category", "c", "", "Pick only from this category")
	randomCmd.Flags().BoolVar(&randomJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(randomCmd)
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Pick a random game",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := catalog.ParseCategory(randomCategory)
		if err != nil {
			return err
		}
		entries, err := loadCatalog(cmd)
		if err != nil {
			return err
		}

		e, err := catalog.Random(catalog.Filter(entries, "", category), rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
		if err != nil {
			return fmt.Errorf("picking a game: %w", err)
		}
		return printLaunch(cmd, catalog.LaunchFor(e), randomJSON)
	},
}
