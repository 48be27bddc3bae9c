package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"flickvault/internal/config"
	"flickvault/internal/library"
	"flickvault/internal/textutil"
)

func newCollectionsCommand(ctx *commandContext) *cobra.Command {
	collectionsCmd := &cobra.Command{
		Use:   "collections",
		Short: "Collection utilities",
	}
	collectionsCmd.AddCommand(newCollectionsListCommand(ctx))
	return collectionsCmd
}

func newCollectionsListCommand(ctx *commandContext) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--user is required")
			}
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				user, err := store.GetUserByName(cmd.Context(), username)
				if err != nil {
					return err
				}
				if user == nil {
					return fmt.Errorf("user %q not found", username)
				}
				summaries, err := store.ListCollections(cmd.Context(), user.ID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(summaries) == 0 {
					fmt.Fprintln(out, "No collections")
					return nil
				}

				rows := make([][]string, 0, len(summaries))
				for _, summary := range summaries {
					rows = append(rows, []string{
						strconv.FormatInt(summary.ID, 10),
						summary.Name,
						textutil.DisplayTitle(summary.MediaType),
						strconv.Itoa(summary.MovieCount),
						formatMinRating(summary.MinRating),
						formatParent(summary.ParentID),
						summary.CreatedAt.Format("2006-01-02"),
					})
				}
				headers := []string{"ID", "Name", "Type", "Movies", "Min Rating", "Parent", "Created"}
				aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}
				if shouldRenderPlain(out) {
					for _, row := range rows {
						fmt.Fprintln(out, strings.Join(row, "\t"))
					}
					return nil
				}
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Owner whose collections to list")
	return cmd
}

func formatMinRating(minRating *float64) string {
	if minRating == nil {
		return "-"
	}
	return strconv.FormatFloat(*minRating, 'f', 1, 64)
}

func formatParent(parentID *int64) string {
	if parentID == nil {
		return "-"
	}
	return strconv.FormatInt(*parentID, 10)
}
