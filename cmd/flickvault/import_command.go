package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"flickvault/internal/config"
	"flickvault/internal/importer"
	"flickvault/internal/library"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "import <collection> <file.json>",
		Short: "Import movies from a JSON file into a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collectionName := strings.TrimSpace(args[0])
			filePath := args[1]
			if username == "" {
				return fmt.Errorf("--user is required")
			}

			data, err := os.ReadFile(filePath)
			if err != nil {
				return fmt.Errorf("read %s: %w", filePath, err)
			}
			movies, err := importer.Extract(data)
			if err != nil {
				return fmt.Errorf("extract movies: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Found %d movies in %s\n", len(movies), filePath)

			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				user, err := store.GetUserByName(cmd.Context(), username)
				if err != nil {
					return err
				}
				if user == nil {
					return fmt.Errorf("user %q not found", username)
				}

				collection, err := findOrCreateCollection(cmd, store, user.ID, collectionName)
				if err != nil {
					return err
				}

				result, err := store.AddMoviesBatch(cmd.Context(), collection.ID, user.ID, movies)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Added: %d, Skipped: %d, Total: %d\n",
					result.Added, result.Skipped, result.Added+result.Skipped)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Owner of the target collection")
	return cmd
}

func findOrCreateCollection(cmd *cobra.Command, store *library.Store, userID int64, name string) (*library.Collection, error) {
	summaries, err := store.ListCollections(cmd.Context(), userID)
	if err != nil {
		return nil, err
	}
	for _, summary := range summaries {
		if summary.Name == name {
			fmt.Fprintf(cmd.OutOrStdout(), "Using existing collection: %s (id=%d)\n", name, summary.ID)
			collection := summary.Collection
			return &collection, nil
		}
	}
	collection, err := store.CreateCollection(cmd.Context(), userID, name, "", "movie", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created collection: %s (id=%d)\n", name, collection.ID)
	return collection, nil
}
