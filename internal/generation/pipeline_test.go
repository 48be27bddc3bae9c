package generation_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"flickvault/internal/generation"
	"flickvault/internal/logging"
	"flickvault/internal/services/tmdb"
)

type fakeCompleter struct {
	content   string
	err       error
	panicWith any
	calls     int
	gotSystem string
	gotUser   string
}

func (f *fakeCompleter) CompleteJSON(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.gotSystem = systemPrompt
	f.gotUser = userPrompt
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.content, f.err
}

type fakeMatcher struct {
	matches map[string]*tmdb.Match
	errs    map[string]error
	queried []string
}

func (f *fakeMatcher) BestMatch(_ context.Context, title string, _ int, _ string) (*tmdb.Match, error) {
	f.queried = append(f.queried, title)
	if err, ok := f.errs[title]; ok {
		return nil, err
	}
	return f.matches[title], nil
}

func rating(v float64) *float64 { return &v }

func match(id int64, r *float64) *tmdb.Match {
	return &tmdb.Match{
		TMDBID:    id,
		IMDBID:    "tt0000001",
		Overview:  "overview",
		PosterURL: "https://image.tmdb.org/t/p/w500/p.jpg",
		Rating:    r,
	}
}

func run(t *testing.T, completer *fakeCompleter, matcher *fakeMatcher, req generation.Request) []generation.Event {
	t.Helper()
	pipeline := generation.New(completer, matcher, logging.NewNop())
	var events []generation.Event
	pipeline.Run(context.Background(), req, func(ev generation.Event) {
		events = append(events, ev)
	})
	return events
}

func checkStream(t *testing.T, events []generation.Event) generation.Event {
	t.Helper()
	if len(events) == 0 {
		t.Fatal("no events emitted")
	}
	terminal := events[len(events)-1]
	if terminal.Kind != generation.EventComplete && terminal.Kind != generation.EventError {
		t.Fatalf("last event is %s, want terminal", terminal.Kind)
	}
	prevFound := 0
	for _, ev := range events[:len(events)-1] {
		if ev.Kind != generation.EventProgress {
			t.Fatalf("non-terminal event of kind %s", ev.Kind)
		}
		if ev.Progress.Found < prevFound {
			t.Fatalf("found decreased from %d to %d", prevFound, ev.Progress.Found)
		}
		if ev.Progress.Found > ev.Progress.Needed {
			t.Fatalf("found %d exceeds needed %d", ev.Progress.Found, ev.Progress.Needed)
		}
		prevFound = ev.Progress.Found
	}
	return terminal
}

func TestRunAllEnrichedInOrder(t *testing.T) {
	completer := &fakeCompleter{content: `{"name":"Sci-Fi Classics","description":"Genre landmarks.","movies":[{"title":"The Matrix","year":1999},{"title":"Alien","year":1979},{"title":"Blade Runner","year":1982}]}`}
	matcher := &fakeMatcher{matches: map[string]*tmdb.Match{
		"The Matrix":   match(1, rating(8.2)),
		"Alien":        match(2, rating(8.1)),
		"Blade Runner": match(3, rating(7.9)),
	}}

	events := run(t, completer, matcher, generation.Request{Prompt: "sci-fi classics", Count: 3, Kind: generation.KindMovie})
	terminal := checkStream(t, events)
	if terminal.Kind != generation.EventComplete {
		t.Fatalf("terminal = %s (%s)", terminal.Kind, terminal.Message)
	}
	if got := len(events); got != 4 {
		t.Fatalf("expected 3 progress + 1 terminal, got %d events", got)
	}

	result := terminal.Result
	if result.Name != "Sci-Fi Classics" {
		t.Fatalf("name = %q", result.Name)
	}
	wantOrder := []string{"The Matrix", "Alien", "Blade Runner"}
	if len(result.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(result.Items))
	}
	for i, item := range result.Items {
		if item.Title != wantOrder[i] {
			t.Fatalf("item %d = %q, want %q", i, item.Title, wantOrder[i])
		}
		if !item.Matched() {
			t.Fatalf("item %q not enriched", item.Title)
		}
		if item.Overview == "" || item.PosterURL == "" || item.Rating == nil {
			t.Fatalf("matched item %q missing enrichment fields", item.Title)
		}
	}
	if completer.calls != 1 {
		t.Fatalf("model called %d times, want 1", completer.calls)
	}
}

func TestRunMalformedModelOutput(t *testing.T) {
	completer := &fakeCompleter{content: "sorry, I cannot do that"}
	matcher := &fakeMatcher{}

	events := run(t, completer, matcher, generation.Request{Prompt: "anything", Count: 3, Kind: generation.KindMovie})
	if len(events) != 1 {
		t.Fatalf("expected only the terminal error, got %d events", len(events))
	}
	if events[0].Kind != generation.EventError {
		t.Fatalf("terminal = %s", events[0].Kind)
	}
	if len(matcher.queried) != 0 {
		t.Fatal("enrichment should not run after parse failure")
	}
}

func TestRunMissingRequiredFields(t *testing.T) {
	cases := map[string]string{
		"no name":        `{"description":"x","movies":[{"title":"A","year":2000}]}`,
		"no list":        `{"name":"X","description":"x"}`,
		"empty list":     `{"name":"X","description":"x","movies":[]}`,
		"wrong kind key": `{"name":"X","description":"x","shows":[{"title":"A","year":2000}]}`,
	}
	for label, content := range cases {
		events := run(t, &fakeCompleter{content: content}, &fakeMatcher{}, generation.Request{Prompt: "p", Count: 2, Kind: generation.KindMovie})
		if len(events) != 1 || events[0].Kind != generation.EventError {
			t.Errorf("%s: expected single error event, got %+v", label, events)
		}
	}
}

func TestRunStripsCodeFences(t *testing.T) {
	completer := &fakeCompleter{content: "```json\n{\"name\":\"Fenced\",\"description\":\"d\",\"movies\":[{\"title\":\"Heat\",\"year\":1995}]}\n```"}
	matcher := &fakeMatcher{matches: map[string]*tmdb.Match{"Heat": match(7, rating(8.0))}}

	events := run(t, completer, matcher, generation.Request{Prompt: "crime", Count: 1, Kind: generation.KindMovie})
	terminal := checkStream(t, events)
	if terminal.Kind != generation.EventComplete {
		t.Fatalf("terminal = %s (%s)", terminal.Kind, terminal.Message)
	}
}

func TestRunOverfetchAndTrim(t *testing.T) {
	titles := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
	var entries []string
	for _, title := range titles {
		entries = append(entries, `{"title":"`+title+`","year":2000}`)
	}
	completer := &fakeCompleter{content: `{"name":"Rated","description":"d","movies":[` + strings.Join(entries, ",") + `]}`}

	// Six of ten clear the 7.0 threshold.
	matches := map[string]*tmdb.Match{}
	passing := map[string]bool{"A": true, "C": true, "D": true, "F": true, "H": true, "J": true}
	for i, title := range titles {
		score := 6.0
		if passing[title] {
			score = 8.0
		}
		matches[title] = match(int64(i+1), rating(score))
	}
	matcher := &fakeMatcher{matches: matches}

	events := run(t, completer, matcher, generation.Request{Prompt: "p", Count: 5, Kind: generation.KindMovie, MinRating: rating(7.0)})
	if !strings.Contains(completer.gotSystem, "exactly 10") {
		t.Fatalf("system prompt should request count plus margin, got %q", completer.gotSystem)
	}
	terminal := checkStream(t, events)
	if terminal.Kind != generation.EventComplete {
		t.Fatalf("terminal = %s (%s)", terminal.Kind, terminal.Message)
	}
	items := terminal.Result.Items
	if len(items) != 5 {
		t.Fatalf("items = %d, want 5", len(items))
	}
	wantOrder := []string{"A", "C", "D", "F", "H"}
	for i, item := range items {
		if item.Title != wantOrder[i] {
			t.Fatalf("item %d = %q, want %q", i, item.Title, wantOrder[i])
		}
		if item.Rating == nil || *item.Rating < 7.0 {
			t.Fatalf("item %q below threshold", item.Title)
		}
	}
}

func TestRunUnderDelivery(t *testing.T) {
	completer := &fakeCompleter{content: `{"name":"Sparse","description":"d","movies":[{"title":"A","year":2000},{"title":"B","year":2001},{"title":"C","year":2002}]}`}
	matcher := &fakeMatcher{matches: map[string]*tmdb.Match{
		"A": match(1, rating(9.0)),
		"B": match(2, rating(5.0)),
		"C": match(3, rating(7.5)),
	}}

	events := run(t, completer, matcher, generation.Request{Prompt: "p", Count: 5, Kind: generation.KindMovie, MinRating: rating(7.0)})
	terminal := checkStream(t, events)
	if terminal.Kind != generation.EventComplete {
		t.Fatalf("under-delivery must complete, got %s (%s)", terminal.Kind, terminal.Message)
	}
	if len(terminal.Result.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(terminal.Result.Items))
	}
}

func TestRunExclusionIsAdvisoryOnly(t *testing.T) {
	completer := &fakeCompleter{content: `{"name":"Desert","description":"d","movies":[{"title":"Dune","year":2021}]}`}
	matcher := &fakeMatcher{matches: map[string]*tmdb.Match{"Dune": match(1, nil)}}

	events := run(t, completer, matcher, generation.Request{
		Prompt:        "desert epics",
		Count:         1,
		Kind:          generation.KindMovie,
		ExcludeTitles: []string{"dune"},
	})
	if !strings.Contains(completer.gotSystem, "dune") {
		t.Fatal("system prompt should carry the exclusion instruction")
	}
	terminal := checkStream(t, events)
	if terminal.Kind != generation.EventComplete {
		t.Fatalf("terminal = %s", terminal.Kind)
	}
	// The pipeline does not re-filter; a model that ignores the
	// instruction surfaces the excluded title.
	if len(terminal.Result.Items) != 1 || terminal.Result.Items[0].Title != "Dune" {
		t.Fatalf("items = %+v", terminal.Result.Items)
	}
}

func TestRunEnrichmentFailureDegrades(t *testing.T) {
	completer := &fakeCompleter{content: `{"name":"Mixed","description":"d","movies":[{"title":"Good","year":2000},{"title":"Broken","year":2001},{"title":"Missing","year":2002}]}`}
	matcher := &fakeMatcher{
		matches: map[string]*tmdb.Match{"Good": match(1, rating(8.0))},
		errs:    map[string]error{"Broken": errors.New("tmdb /search/movie returned 500")},
	}

	events := run(t, completer, matcher, generation.Request{Prompt: "p", Count: 3, Kind: generation.KindMovie})
	terminal := checkStream(t, events)
	if terminal.Kind != generation.EventComplete {
		t.Fatalf("terminal = %s (%s)", terminal.Kind, terminal.Message)
	}
	items := terminal.Result.Items
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	for _, item := range items[1:] {
		if item.Matched() {
			t.Fatalf("item %q should be unmatched", item.Title)
		}
		if item.Overview != "" || item.PosterURL != "" || item.Rating != nil || item.IMDBID != "" {
			t.Fatalf("unmatched item %q carries enrichment fields", item.Title)
		}
	}
}

func TestRunMissingCredentials(t *testing.T) {
	matcher := &fakeMatcher{}
	req := generation.Request{Prompt: "p", Count: 1, Kind: generation.KindMovie}

	pipeline := generation.New(nil, matcher, logging.NewNop())
	var events []generation.Event
	pipeline.Run(context.Background(), req, func(ev generation.Event) { events = append(events, ev) })
	if len(events) != 1 || events[0].Kind != generation.EventError {
		t.Fatalf("expected single error event, got %+v", events)
	}
	if !strings.Contains(events[0].Message, "configuration") {
		t.Fatalf("message = %q", events[0].Message)
	}

	completer := &fakeCompleter{}
	pipeline = generation.New(completer, nil, logging.NewNop())
	events = nil
	pipeline.Run(context.Background(), req, func(ev generation.Event) { events = append(events, ev) })
	if len(events) != 1 || events[0].Kind != generation.EventError {
		t.Fatalf("expected single error event, got %+v", events)
	}
	if completer.calls != 0 {
		t.Fatal("model must not be called without a TMDB credential")
	}
}

func TestRunRequestValidation(t *testing.T) {
	cases := []generation.Request{
		{Prompt: "", Count: 1, Kind: generation.KindMovie},
		{Prompt: "p", Count: 0, Kind: generation.KindMovie},
		{Prompt: "p", Count: 1, Kind: "podcast"},
		{Prompt: "p", Count: 1, Kind: generation.KindMovie, MinRating: rating(11)},
	}
	for i, req := range cases {
		completer := &fakeCompleter{}
		events := run(t, completer, &fakeMatcher{}, req)
		if len(events) != 1 || events[0].Kind != generation.EventError {
			t.Errorf("case %d: expected single error event, got %+v", i, events)
		}
		if completer.calls != 0 {
			t.Errorf("case %d: model called for invalid request", i)
		}
	}
}

func TestRunGeneratingPanicRecovered(t *testing.T) {
	completer := &fakeCompleter{panicWith: "boom"}
	events := run(t, completer, &fakeMatcher{}, generation.Request{Prompt: "p", Count: 1, Kind: generation.KindMovie})
	if len(events) != 1 || events[0].Kind != generation.EventError {
		t.Fatalf("expected single error event, got %+v", events)
	}
	if !strings.Contains(events[0].Message, "panic") {
		t.Fatalf("message = %q", events[0].Message)
	}
}

func TestRunCancellationStopsBetweenCandidates(t *testing.T) {
	completer := &fakeCompleter{content: `{"name":"N","description":"d","movies":[{"title":"A","year":2000},{"title":"B","year":2001},{"title":"C","year":2002}]}`}
	ctx, cancel := context.WithCancel(context.Background())
	matcher := &cancelingMatcher{cancel: cancel, after: 1}

	pipeline := generation.New(completer, matcher, logging.NewNop())
	var events []generation.Event
	pipeline.Run(ctx, generation.Request{Prompt: "p", Count: 3, Kind: generation.KindMovie}, func(ev generation.Event) {
		events = append(events, ev)
	})

	if matcher.calls != 1 {
		t.Fatalf("matcher called %d times after cancellation, want 1", matcher.calls)
	}
	terminal := events[len(events)-1]
	if terminal.Kind != generation.EventError {
		t.Fatalf("terminal = %s", terminal.Kind)
	}
}

type cancelingMatcher struct {
	cancel context.CancelFunc
	after  int
	calls  int
}

func (m *cancelingMatcher) BestMatch(context.Context, string, int, string) (*tmdb.Match, error) {
	m.calls++
	if m.calls == m.after {
		m.cancel()
	}
	return nil, nil
}

func TestRunNameOverride(t *testing.T) {
	completer := &fakeCompleter{content: `{"name":"Model Name","description":"d","movies":[{"title":"A","year":2000}]}`}
	matcher := &fakeMatcher{matches: map[string]*tmdb.Match{"A": match(1, nil)}}

	events := run(t, completer, matcher, generation.Request{Prompt: "p", Count: 1, Kind: generation.KindMovie, Name: "My Picks"})
	terminal := checkStream(t, events)
	if terminal.Result.Name != "My Picks" {
		t.Fatalf("name = %q, want override", terminal.Result.Name)
	}
}

func TestRunShowKindUsesShowsList(t *testing.T) {
	completer := &fakeCompleter{content: `{"name":"TV","description":"d","shows":[{"title":"Breaking Bad","year":2008}]}`}
	matcher := &fakeMatcher{matches: map[string]*tmdb.Match{"Breaking Bad": match(1, rating(8.9))}}

	events := run(t, completer, matcher, generation.Request{Prompt: "prestige tv", Count: 1, Kind: generation.KindShow})
	terminal := checkStream(t, events)
	if terminal.Kind != generation.EventComplete {
		t.Fatalf("terminal = %s (%s)", terminal.Kind, terminal.Message)
	}
	if terminal.Result.Items[0].Kind != generation.KindShow {
		t.Fatalf("item kind = %q", terminal.Result.Items[0].Kind)
	}
}

func TestRunShowKindAcceptsMoviesKey(t *testing.T) {
	// Models sometimes label show entries "movies"; the parser accepts
	// that when the "shows" key is absent.
	completer := &fakeCompleter{content: `{"name":"TV","description":"d","movies":[{"title":"Breaking Bad","year":2008}]}`}
	matcher := &fakeMatcher{matches: map[string]*tmdb.Match{"Breaking Bad": match(1, rating(8.9))}}

	events := run(t, completer, matcher, generation.Request{Prompt: "prestige tv", Count: 1, Kind: generation.KindShow})
	terminal := checkStream(t, events)
	if terminal.Kind != generation.EventComplete {
		t.Fatalf("terminal = %s (%s)", terminal.Kind, terminal.Message)
	}
	if len(terminal.Result.Items) != 1 || terminal.Result.Items[0].Kind != generation.KindShow {
		t.Fatalf("items = %+v", terminal.Result.Items)
	}
}

func TestRunProgressCapAtNeeded(t *testing.T) {
	completer := &fakeCompleter{content: `{"name":"N","description":"d","movies":[{"title":"A","year":1},{"title":"B","year":2},{"title":"C","year":3},{"title":"D","year":4}]}`}
	matcher := &fakeMatcher{matches: map[string]*tmdb.Match{
		"A": match(1, rating(8.0)),
		"B": match(2, rating(8.0)),
		"C": match(3, rating(8.0)),
		"D": match(4, rating(8.0)),
	}}

	events := run(t, completer, matcher, generation.Request{Prompt: "p", Count: 2, Kind: generation.KindMovie})
	terminal := checkStream(t, events)
	if terminal.Kind != generation.EventComplete {
		t.Fatalf("terminal = %s", terminal.Kind)
	}
	if len(terminal.Result.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(terminal.Result.Items))
	}
}

func TestFilterRoundsBeforeComparing(t *testing.T) {
	completer := &fakeCompleter{content: `{"name":"Edge","description":"d","movies":[{"title":"High","year":2000},{"title":"Low","year":2001}]}`}
	matcher := &fakeMatcher{matches: map[string]*tmdb.Match{
		"High": match(1, rating(7.04)),
		"Low":  match(2, rating(6.94)),
	}}

	events := run(t, completer, matcher, generation.Request{Prompt: "p", Count: 2, Kind: generation.KindMovie, MinRating: rating(7.0)})
	terminal := checkStream(t, events)
	items := terminal.Result.Items
	if len(items) != 1 || items[0].Title != "High" {
		t.Fatalf("items = %+v, want only High (7.04 rounds to 7.0, 6.94 to 6.9)", items)
	}
}
