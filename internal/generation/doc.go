// Package generation implements the prompt-to-collection pipeline: a
// language model proposes candidate titles, each candidate is enriched
// against TMDB in relevance order, a rating filter trims the list to
// the requested count, and progress is streamed to the caller as a
// single-pass event sequence.
package generation
