// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/songdedup/internal/library"
	"github.com/pdiddy/songdedup/internal/resolve"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Pick a keeper for every duplicate group and list songs to remove",
	Long: `Resolve scans for duplicates, then ranks each group's songs: more
attached media first (audio outweighs an image), then the oldest song,
then title order. The top song is kept; the rest join the removal set,
which is the union over every group in every collection.

A song can be kept in one collection and removable in another; such songs
are listed as conflicts and stay in the removal set unless
--keep-conflicts is given. With --apply the removal set is deleted from
the library and recorded in its deletion history.`,
	RunE: runResolve,
}

// resolveOutput is the JSON/YAML form of a resolve run.
type resolveOutput struct {
	resolve.Resolution `yaml:",inline"`
	Removals           []string `json:"removals" yaml:"removals"`
	Deleted            int      `json:"deleted" yaml:"deleted"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	apply, _ := cmd.Flags().GetBool("apply")
	input, _ := cmd.Flags().GetString("input")
	if apply && input != "" {
		return fmt.Errorf("--apply deletes from the library and cannot be combined with --input")
	}

	cfg, err := dedupConfig(cmd)
	if err != nil {
		return err
	}
	songs, err := loadSongs(ctx, cmd)
	if err != nil {
		return err
	}
	report, err := buildReport(ctx, songs, cfg.CheckOptions)
	if err != nil {
		return err
	}

	selector, err := resolve.NewSelector(cfg.Locale)
	if err != nil {
		return err
	}
	res, err := selector.ResolveReport(report)
	if err != nil {
		return fmt.Errorf("resolving duplicates: %w", err)
	}

	if keep, _ := cmd.Flags().GetBool("keep-conflicts"); keep {
		res.Keep(res.Conflicts...)
	}
	protect, _ := cmd.Flags().GetStringSlice("protect")
	res.Keep(protect...)

	out := resolveOutput{Resolution: res, Removals: res.Removals.IDs()}

	if apply && len(out.Removals) > 0 {
		store, err := library.NewStore(libraryConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		out.Deleted, err = store.Delete(ctx, out.Removals, "duplicate resolution")
		if err != nil {
			return err
		}
		logger.Info("applied resolution", "deleted", out.Deleted, "library", store.Dir())
	}

	format, _ := cmd.Flags().GetString("format")
	return writeResolution(out, format, apply, cmd.OutOrStdout())
}

func writeResolution(out resolveOutput, format string, applied bool, w io.Writer) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		data, err := yaml.Marshal(out)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "table", "":
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}

	if len(out.Groups) == 0 {
		fmt.Fprintln(w, "No duplicates found.")
		return nil
	}

	fmt.Fprintf(w, "%-5s  %-14s  %-24s  %s\n", "Group", "Check", "Keep", "Remove")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for i, g := range out.Groups {
		fmt.Fprintf(w, "%-5d  %-14s  %-24s  %s\n",
			i+1, string(g.Mode)+" "+string(g.Field), g.Keeper.ID, strings.Join(g.RemovableIDs(), ", "))
	}

	if len(out.Conflicts) > 0 {
		fmt.Fprintf(w, "\nkept in one group but removable in another: %s\n", strings.Join(out.Conflicts, ", "))
	}

	fmt.Fprintf(w, "\n%d songs to remove", len(out.Removals))
	if applied {
		fmt.Fprintf(w, " (%d deleted)", out.Deleted)
	}
	fmt.Fprintln(w)
	for _, id := range out.Removals {
		fmt.Fprintf(w, "  %s\n", id)
	}
	return nil
}

func init() {
	addCheckFlags(resolveCmd)
	resolveCmd.Flags().String("locale", resolve.DefaultLocale, "locale for ordering titles when picking keepers")
	resolveCmd.Flags().Bool("apply", false, "delete the removal set from the library")
	resolveCmd.Flags().Bool("keep-conflicts", false, "never remove a song that is a keeper in some group")
	resolveCmd.Flags().StringSlice("protect", nil, "song IDs that must never be removed (comma-separated)")

	rootCmd.AddCommand(resolveCmd)
}
