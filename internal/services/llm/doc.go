// Package llm wraps the OpenRouter chat completion API for candidate
// generation. Requests are single-shot: a failed or unparseable
// completion is reported to the caller rather than retried, since the
// generation pipeline treats any model failure as terminal for the run.
package llm
