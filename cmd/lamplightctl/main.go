package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag     string
	profileFlag string
	rootCmd     = &cobra.Command{
		Use:   "lamplightctl",
		Short: "CLI client for the Lamp & Light plan service",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Plan service base URL")
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "Profile ID")

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Daily plan operations",
	}
	planCmd.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "Generate (or fetch) today's plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			if profileFlag == "" {
				return fmt.Errorf("--profile required")
			}
			return runPlanToday(apiFlag, profileFlag, os.Stdout)
		},
	})
	rootCmd.AddCommand(planCmd)

	recapCmd := &cobra.Command{
		Use:   "recap",
		Short: "Weekly recap operations",
	}
	recapCmd.AddCommand(&cobra.Command{
		Use:   "week",
		Short: "Generate (or fetch) this week's recap",
		RunE: func(cmd *cobra.Command, args []string) error {
			if profileFlag == "" {
				return fmt.Errorf("--profile required")
			}
			return runRecapWeek(apiFlag, profileFlag, os.Stdout)
		},
	})
	rootCmd.AddCommand(recapCmd)

	entryCmd := &cobra.Command{
		Use:   "entry",
		Short: "Journal entry operations",
	}
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a journal or prayer entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _ := cmd.Flags().GetString("kind")
			content, _ := cmd.Flags().GetString("content")
			tags, _ := cmd.Flags().GetStringSlice("tags")
			if profileFlag == "" {
				return fmt.Errorf("--profile required")
			}
			return runEntryAdd(apiFlag, profileFlag, kind, content, tags, os.Stdout)
		},
	}
	addCmd.Flags().StringP("kind", "k", "journal", "Entry kind (journal, prayer)")
	addCmd.Flags().StringP("content", "c", "", "Entry text (required)")
	addCmd.Flags().StringSlice("tags", nil, "Comma-separated theme tags")
	_ = addCmd.MarkFlagRequired("content")
	entryCmd.AddCommand(addCmd)
	rootCmd.AddCommand(entryCmd)

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Local content cache operations",
	}
	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached devotional content",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			return runCachePurge(dir, os.Stdout)
		},
	}
	purgeCmd.Flags().StringP("dir", "d", "", "Cache directory (default ~/.lamplight/aicache)")
	cacheCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(cacheCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
