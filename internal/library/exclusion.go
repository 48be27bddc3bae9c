package library

import (
	"context"
	"fmt"
	"sort"

	"flickvault/internal/services"
	"flickvault/internal/textutil"
)

// AncestorTitles returns the normalized titles present in a collection
// and every ancestor reachable through parent links, sorted for stable
// output. The walk is iterative with an explicit visited set: parent
// links form a tree by construction, but the guard bounds traversal
// even against corrupted data. Only collections owned by the user are
// followed.
func (s *Store) AncestorTitles(ctx context.Context, collectionID, userID int64) ([]string, error) {
	start, err := s.GetCollection(ctx, collectionID, userID)
	if err != nil {
		return nil, err
	}
	if start == nil {
		return nil, services.Wrap(services.ErrNotFound, "library", "ancestor titles", fmt.Sprintf("collection %d not found", collectionID), nil)
	}

	titles := make(map[string]struct{})
	visited := make(map[int64]struct{})
	current := start
	for current != nil {
		if _, seen := visited[current.ID]; seen {
			break
		}
		visited[current.ID] = struct{}{}

		movies, err := s.CollectionMovies(ctx, current.ID)
		if err != nil {
			return nil, err
		}
		for _, movie := range movies {
			normalized := textutil.NormalizeTitle(movie.Title)
			if normalized != "" {
				titles[normalized] = struct{}{}
			}
		}

		if current.ParentID == nil {
			break
		}
		current, err = s.GetCollection(ctx, *current.ParentID, userID)
		if err != nil {
			return nil, err
		}
	}

	out := make([]string, 0, len(titles))
	for title := range titles {
		out = append(out, title)
	}
	sort.Strings(out)
	return out, nil
}
