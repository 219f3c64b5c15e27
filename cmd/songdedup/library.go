// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/songdedup/internal/dedup"
	"github.com/pdiddy/songdedup/internal/library"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the song library (import, list, export, history)",
	Long: `Library manages the local SQLite song library that scan and resolve
read from when no --input file is given.`,
}

// --- import subcommand ---

var libraryImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import songs from a YAML or JSON file",
	Long: `Import reads a list of songs (or a mapping with a "songs" key) from a
YAML or JSON file and adds them to the library. Songs already present
are updated in place; unchanged songs are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		store, err := library.NewStore(libraryConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := store.Import(ctx, args[0], cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d song(s) failed to import", summary.Failed)
		}
		return nil
	},
}

// --- list subcommand ---

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the songs in the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		store, err := library.NewStore(libraryConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		songs, err := store.Songs(ctx)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(songs)
		}

		if len(songs) == 0 {
			fmt.Fprintln(w, "Library is empty.")
			return nil
		}
		fmt.Fprintf(w, "%-24s  %-40s  %-6s  %-5s  %s\n", "ID", "Title", "Lyrics", "Media", "Created")
		fmt.Fprintln(w, strings.Repeat("-", 100))
		for _, s := range songs {
			lyrics := "no"
			if strings.TrimSpace(s.Lyrics) != "" {
				lyrics = "yes"
			}
			fmt.Fprintf(w, "%-24s  %-40s  %-6s  %-5s  %s\n", s.ID, dedup.Truncate(s.Title, 40), lyrics, s.MediaFlags(), s.CreatedAt)
		}
		fmt.Fprintf(w, "\n%d songs\n", len(songs))
		return nil
	},
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Export the library to YAML or JSON",
	Long: `Export writes every song in the library to FILE. A .json extension
writes JSON; anything else writes YAML. The output can be imported again
or passed to scan --input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		store, err := library.NewStore(libraryConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Export(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d songs to %s\n", n, args[0])
		return nil
	},
}

// --- history subcommand ---

var libraryHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show songs deleted by resolve --apply",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		store, err := library.NewStore(libraryConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		deletions, err := store.Deletions(ctx)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(deletions) == 0 {
			fmt.Fprintln(w, "No deletions recorded.")
			return nil
		}
		fmt.Fprintf(w, "%-20s  %-24s  %-40s  %s\n", "Deleted", "ID", "Title", "Reason")
		fmt.Fprintln(w, strings.Repeat("-", 110))
		for _, d := range deletions {
			fmt.Fprintf(w, "%-20s  %-24s  %-40s  %s\n", d.DeletedAt, d.ID, d.Title, d.Reason)
		}
		return nil
	},
}

func init() {
	libraryListCmd.Flags().Bool("json", false, "output songs as JSON")

	libraryCmd.AddCommand(libraryImportCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryExportCmd)
	libraryCmd.AddCommand(libraryHistoryCmd)

	rootCmd.AddCommand(libraryCmd)
}
