// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/songdedup/internal/similarity"
)

var similarityCmd = &cobra.Command{
	Use:   "similarity A B",
	Short: "Show how similar two titles or lyrics are",
	Long: `Similarity prints the similarity of two strings as a percentage,
using the same normalization and edit-distance ratio as scan. Use
--raw to compare the strings exactly as given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		algo, _ := cmd.Flags().GetString("algorithm")
		raw, _ := cmd.Flags().GetBool("raw")

		var (
			score float64
			err   error
		)
		if raw {
			score, err = similarity.Score(args[0], args[1], similarity.Algorithm(algo))
		} else {
			score, err = similarity.Compare(args[0], args[1], similarity.Algorithm(algo))
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%.1f%% similar\n", score*100)
		return nil
	},
}

func init() {
	similarityCmd.Flags().String("algorithm", string(similarity.Levenshtein), "levenshtein or jaro-winkler")
	similarityCmd.Flags().Bool("raw", false, "skip normalization")

	rootCmd.AddCommand(similarityCmd)
}
