package generation

import (
	"fmt"
	"strings"
)

const promptPreamble = `You are a film and television curator. Given a description of a themed collection, respond with a single JSON object and nothing else: no prose, no markdown, no code fences.`

// buildSystemPrompt renders the generation contract for one request.
// The exclusion instruction is advisory: downstream stages do not
// re-check it, so a model that ignores it can still surface an excluded
// title in the final result.
func buildSystemPrompt(req Request) string {
	listField := "movies"
	entryNoun := "movies"
	if req.Kind == KindShow {
		listField = "shows"
		entryNoun = "TV shows"
	}

	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\n\nThe object must have exactly these top-level fields:\n")
	b.WriteString(`  "name": a short collection title` + "\n")
	b.WriteString(`  "description": one or two sentences describing the collection` + "\n")
	fmt.Fprintf(&b, "  %q: a list of exactly %d %s, each {\"title\": string, \"year\": integer}\n", listField, req.effectiveCount(), entryNoun)
	b.WriteString("\nOrder the list by relevance to the description, most relevant first.")
	if req.MinRating != nil {
		fmt.Fprintf(&b, "\nPrefer well-regarded titles likely to hold a rating of at least %.1f out of 10.", *req.MinRating)
	}
	if len(req.ExcludeTitles) > 0 {
		b.WriteString("\nDo not include any of these titles, which the user already has:\n")
		for _, title := range req.ExcludeTitles {
			fmt.Fprintf(&b, "  - %s\n", title)
		}
	}
	return b.String()
}
