package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Product catalog web application",
	Long: `catalog serves the product catalog: listings, detail pages, the
create/edit form with photo upload, and deletion.

Run "catalog serve" to start the HTTP server and "catalog seed" to load the
demo categories and products.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(newServeCmd(), newSeedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
