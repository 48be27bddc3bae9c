package importer_test

import (
	"errors"
	"testing"

	"flickvault/internal/importer"
)

func TestExtractPlainArray(t *testing.T) {
	data := []byte(`[
		{"title": "Dune", "year": 2021, "trakt_id": 12345, "imdb_id": "tt1160419", "tmdb_id": 438631},
		{"title": "Alien", "year": 1979}
	]`)
	movies, err := importer.Extract(data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("got %d movies", len(movies))
	}
	if movies[0].Title != "Dune" || movies[0].Year != 2021 || movies[0].TraktID != 12345 {
		t.Fatalf("first = %+v", movies[0])
	}
	if movies[0].IMDBID != "tt1160419" || movies[0].TMDBID != 438631 {
		t.Fatalf("ids = %+v", movies[0])
	}
	if movies[1].Kind != "movie" {
		t.Fatalf("kind = %q", movies[1].Kind)
	}
}

func TestExtractWatchlistObject(t *testing.T) {
	data := []byte(`{
		"already_added": [{"title": "Dune"}],
		"remaining": [{"title": "Alien"}, {"title": "Blade Runner"}],
		"other": "ignored"
	}`)
	movies, err := importer.Extract(data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(movies) != 3 {
		t.Fatalf("got %d movies", len(movies))
	}
	if movies[0].Title != "Dune" || movies[1].Title != "Alien" || movies[2].Title != "Blade Runner" {
		t.Fatalf("order = %+v", movies)
	}
}

func TestExtractMoviesKey(t *testing.T) {
	data := []byte(`{"movies": [{"title": "Heat", "year": "1995"}]}`)
	movies, err := importer.Extract(data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(movies) != 1 || movies[0].Year != 1995 {
		t.Fatalf("movies = %+v", movies)
	}
}

func TestExtractSingleObject(t *testing.T) {
	movies, err := importer.Extract([]byte(`{"title": "Heat", "overview": "Crime saga."}`))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(movies) != 1 || movies[0].Overview != "Crime saga." {
		t.Fatalf("movies = %+v", movies)
	}
}

func TestExtractStringIDs(t *testing.T) {
	movies, err := importer.Extract([]byte(`[{"title": "Heat", "trakt_id": "555", "tmdb_id": "949"}]`))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if movies[0].TraktID != 555 || movies[0].TMDBID != 949 {
		t.Fatalf("ids = %+v", movies[0])
	}
}

func TestExtractMissingTitleDefaults(t *testing.T) {
	movies, err := importer.Extract([]byte(`[{"year": 2001}]`))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if movies[0].Title != "Unknown" {
		t.Fatalf("title = %q", movies[0].Title)
	}
}

func TestExtractErrors(t *testing.T) {
	if _, err := importer.Extract([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := importer.Extract([]byte("")); err == nil {
		t.Fatal("expected empty input error")
	}
	if _, err := importer.Extract([]byte(`{"count": 3}`)); !errors.Is(err, importer.ErrNoMovies) {
		t.Fatalf("expected ErrNoMovies, got %v", err)
	}
	if _, err := importer.Extract([]byte(`[]`)); !errors.Is(err, importer.ErrNoMovies) {
		t.Fatalf("expected ErrNoMovies for empty list, got %v", err)
	}
}
