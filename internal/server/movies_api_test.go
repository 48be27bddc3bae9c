package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type collectionPayload struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MediaType   string   `json:"media_type"`
	MovieCount  int      `json:"movie_count"`
	PosterURLs  []string `json:"poster_urls"`
	Movies      []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"movies"`
}

func createCollection(t *testing.T, e *env, token, name string) collectionPayload {
	t.Helper()
	resp := e.request(t, http.MethodPost, "/api/collections", token,
		map[string]string{"name": name, "description": "test", "media_type": "movie"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create collection status = %d", resp.StatusCode)
	}
	var collection collectionPayload
	decodeResponse(t, resp, &collection)
	return collection
}

func TestCollectionLifecycle(t *testing.T) {
	e := newTestEnv(t)
	session := e.register(t, "alice", "hunter2")
	collection := createCollection(t, e, session.Token, "Noir")

	resp := e.request(t, http.MethodGet, "/api/collections", session.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list []collectionPayload
	decodeResponse(t, resp, &list)
	if len(list) != 1 || list[0].Name != "Noir" || list[0].MovieCount != 0 {
		t.Fatalf("list = %+v", list)
	}

	resp = e.request(t, http.MethodPut, "/api/collections/"+itoa(collection.ID), session.Token,
		map[string]string{"name": "Classic Noir", "description": "renamed"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}
	var updated collectionPayload
	decodeResponse(t, resp, &updated)
	if updated.Name != "Classic Noir" {
		t.Fatalf("updated name = %q", updated.Name)
	}

	resp = e.request(t, http.MethodDelete, "/api/collections/"+itoa(collection.ID), session.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp = e.request(t, http.MethodGet, "/api/collections/"+itoa(collection.ID), session.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", resp.StatusCode)
	}
}

func TestCollectionOwnershipIsolation(t *testing.T) {
	e := newTestEnv(t)
	alice := e.register(t, "alice", "hunter2")
	bob := e.register(t, "bob", "hunter2")
	collection := createCollection(t, e, alice.Token, "Noir")

	resp := e.request(t, http.MethodGet, "/api/collections/"+itoa(collection.ID), bob.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("cross-user get status = %d", resp.StatusCode)
	}
	resp = e.request(t, http.MethodGet, "/api/collections", bob.Token, nil)
	var list []collectionPayload
	decodeResponse(t, resp, &list)
	if len(list) != 0 {
		t.Fatalf("bob sees %d collections", len(list))
	}
}

func TestAddAndRemoveMovie(t *testing.T) {
	e := newTestEnv(t)
	session := e.register(t, "alice", "hunter2")
	collection := createCollection(t, e, session.Token, "Noir")

	resp := e.request(t, http.MethodPost, "/api/collections/"+itoa(collection.ID)+"/movies", session.Token,
		map[string]any{"title": "Heat", "year": 1995, "tmdb_id": 949, "imdb_id": "tt0113277"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add movie status = %d", resp.StatusCode)
	}
	var movie struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}
	decodeResponse(t, resp, &movie)
	if movie.Title != "Heat" {
		t.Fatalf("movie = %+v", movie)
	}

	resp = e.request(t, http.MethodGet, "/api/collections/"+itoa(collection.ID), session.Token, nil)
	var detail collectionPayload
	decodeResponse(t, resp, &detail)
	if len(detail.Movies) != 1 || detail.Movies[0].Title != "Heat" {
		t.Fatalf("detail movies = %+v", detail.Movies)
	}

	resp = e.request(t, http.MethodDelete,
		"/api/collections/"+itoa(collection.ID)+"/movies/"+itoa(movie.ID), session.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("remove status = %d", resp.StatusCode)
	}
	resp = e.request(t, http.MethodDelete,
		"/api/collections/"+itoa(collection.ID)+"/movies/"+itoa(movie.ID), session.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second remove status = %d", resp.StatusCode)
	}
}

func TestAddMoviesBatch(t *testing.T) {
	e := newTestEnv(t)
	session := e.register(t, "alice", "hunter2")
	collection := createCollection(t, e, session.Token, "Noir")

	resp := e.request(t, http.MethodPost, "/api/collections/"+itoa(collection.ID)+"/movies/batch", session.Token,
		map[string]any{"movies": []map[string]any{
			{"title": "Heat", "year": 1995},
			{"title": "Collateral", "year": 2004},
			{"title": "Heat", "year": 1995, "imdb_id": ""},
		}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("batch status = %d", resp.StatusCode)
	}
	var result struct {
		Added   int `json:"added"`
		Skipped int `json:"skipped"`
		Total   int `json:"total"`
	}
	decodeResponse(t, resp, &result)
	// The duplicate Heat entry has no external ids, so dedup cannot
	// collapse it; it lands as a separate row.
	if result.Total != 3 || result.Added != 3 {
		t.Fatalf("batch result = %+v", result)
	}
}

func TestImportEndpoint(t *testing.T) {
	e := newTestEnv(t)
	session := e.register(t, "alice", "hunter2")
	collection := createCollection(t, e, session.Token, "Watchlist")

	payload := `{"already_added": [{"title": "Dune", "year": 2021, "trakt_id": 1}],
		"remaining": [{"title": "Alien", "year": 1979, "trakt_id": 2}]}`
	req, err := http.NewRequest(http.MethodPost,
		e.ts.URL+"/api/collections/"+itoa(collection.ID)+"/import",
		bytes.NewReader([]byte(payload)))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+session.Token)
	resp, err := e.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import status = %d", resp.StatusCode)
	}
	var result struct {
		Added int `json:"added"`
	}
	decodeResponse(t, resp, &result)
	if result.Added != 2 {
		t.Fatalf("imported %d movies", result.Added)
	}
}

func TestSearchMovies(t *testing.T) {
	e := newTestEnv(t)
	session := e.register(t, "alice", "hunter2")
	collection := createCollection(t, e, session.Token, "Noir")

	resp := e.request(t, http.MethodPost, "/api/collections/"+itoa(collection.ID)+"/movies", session.Token,
		map[string]any{"title": "Heat", "year": 1995})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add movie status = %d", resp.StatusCode)
	}

	resp = e.request(t, http.MethodGet, "/api/movies/search?q=hea", session.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status = %d", resp.StatusCode)
	}
	var hits []struct {
		Title       string   `json:"title"`
		Collections []string `json:"collections"`
	}
	decodeResponse(t, resp, &hits)
	if len(hits) != 1 || hits[0].Title != "Heat" {
		t.Fatalf("hits = %+v", hits)
	}
	if len(hits[0].Collections) != 1 || hits[0].Collections[0] != "Noir" {
		t.Fatalf("collections = %v", hits[0].Collections)
	}

	resp = e.request(t, http.MethodGet, "/api/movies/search?q=", session.Token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty query status = %d", resp.StatusCode)
	}
}

func TestMovieDetailsMergesCatalog(t *testing.T) {
	fakeTMDB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/949" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":           949,
			"title":        "Heat",
			"tagline":      "A Los Angeles crime saga.",
			"runtime":      170,
			"vote_average": 7.916,
			"vote_count":   7000,
			"genres":       []map[string]any{{"id": 28, "name": "Action"}, {"id": 80, "name": "Crime"}},
		})
	}))
	defer fakeTMDB.Close()

	e := newTestEnv(t)
	e.cfg.TMDB.BaseURL = fakeTMDB.URL
	e.cfg.TMDB.APIKey = "tmdb-key"
	session := e.register(t, "alice", "hunter2")
	collection := createCollection(t, e, session.Token, "Noir")

	resp := e.request(t, http.MethodPost, "/api/collections/"+itoa(collection.ID)+"/movies", session.Token,
		map[string]any{"title": "Heat", "year": 1995, "tmdb_id": 949})
	var movie struct {
		ID int64 `json:"id"`
	}
	decodeResponse(t, resp, &movie)

	resp = e.request(t, http.MethodGet, "/api/movies/"+itoa(movie.ID)+"/details", session.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("details status = %d", resp.StatusCode)
	}
	var details map[string]any
	decodeResponse(t, resp, &details)
	if details["tagline"] != "A Los Angeles crime saga." {
		t.Fatalf("tagline = %v", details["tagline"])
	}
	if details["runtime"] != float64(170) {
		t.Fatalf("runtime = %v", details["runtime"])
	}
	if details["rating"] != 7.9 {
		t.Fatalf("rating = %v", details["rating"])
	}
}

func TestMovieDetailsWithoutCatalogKey(t *testing.T) {
	e := newTestEnv(t)
	session := e.register(t, "alice", "hunter2")
	collection := createCollection(t, e, session.Token, "Noir")

	resp := e.request(t, http.MethodPost, "/api/collections/"+itoa(collection.ID)+"/movies", session.Token,
		map[string]any{"title": "Heat", "year": 1995, "tmdb_id": 949})
	var movie struct {
		ID int64 `json:"id"`
	}
	decodeResponse(t, resp, &movie)

	resp = e.request(t, http.MethodGet, "/api/movies/"+itoa(movie.ID)+"/details", session.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("details status = %d", resp.StatusCode)
	}
	var details map[string]any
	decodeResponse(t, resp, &details)
	if details["title"] != "Heat" {
		t.Fatalf("title = %v", details["title"])
	}
	if _, ok := details["tagline"]; ok {
		t.Fatal("unexpected live metadata without a key")
	}
}
