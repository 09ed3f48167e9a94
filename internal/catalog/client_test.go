package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artkeep/artkeep/internal/layout"
)

func TestClient_Libraries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/library/sections", r.URL.Path)
		assert.Equal(t, "test-token", r.Header.Get("X-Plex-Token"))

		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer>
  <Directory key="1" title="Movies" type="movie"/>
  <Directory key="2" title="TV Shows" type="show"/>
  <Directory key="3" title="Music" type="artist"/>
</MediaContainer>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", nil)
	libs, err := client.Libraries(context.Background())
	require.NoError(t, err)

	require.Len(t, libs, 2, "music sections are filtered out")
	assert.Equal(t, "Movies", libs[0].Title)
	assert.Equal(t, layout.Movie, libs[0].Kind)
	assert.Equal(t, "TV Shows", libs[1].Title)
	assert.Equal(t, layout.Show, libs[1].Kind)
}

func TestClient_Items(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/library/sections/1/all", r.URL.Path)
		assert.Equal(t, "50", r.Header.Get("X-Plex-Container-Start"))
		assert.Equal(t, "50", r.Header.Get("X-Plex-Container-Size"))

		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer size="2" totalSize="123">
  <Video ratingKey="101" title="Dune" year="2021" type="movie">
    <Media><Part file="/movies/Dune (2021)/Dune.2021.mkv"/></Media>
  </Video>
  <Video ratingKey="102" title="Arrival" year="2016" type="movie">
    <Media><Part file="/movies/Arrival (2016)/Arrival.mkv"/></Media>
  </Video>
</MediaContainer>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", nil)
	lib := Library{Key: "1", Title: "Movies", Kind: layout.Movie}
	items, total, err := client.Items(context.Background(), lib, 50, 50)
	require.NoError(t, err)

	assert.Equal(t, 123, total)
	require.Len(t, items, 2)
	assert.Equal(t, "101", items[0].RatingKey)
	assert.Equal(t, "Dune", items[0].Title)
	assert.Equal(t, "Dune (2021)", items[0].FolderTitle)
	assert.Equal(t, "Movies", items[0].Library)
	assert.Equal(t, "Dune (2021)", items[0].DiskTitle())
}

func TestClient_ItemsShows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer size="1" totalSize="1">
  <Directory ratingKey="201" title="The Office (US)" year="2005" type="show">
    <Location path="/tv/The Office/"/>
  </Directory>
</MediaContainer>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", nil)
	lib := Library{Key: "2", Title: "TV Shows", Kind: layout.Show}
	items, _, err := client.Items(context.Background(), lib, 0, 50)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, layout.Show, items[0].Kind)
	assert.Equal(t, "The Office", items[0].FolderTitle, "trailing slash trimmed")
}

func TestClient_Seasons(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/library/metadata/201/children", r.URL.Path)
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer>
  <Directory ratingKey="301" title="Specials" type="season" index="0"/>
  <Directory ratingKey="302" title="Season 1" type="season" index="1"/>
  <Directory ratingKey="303" title="Season 2" type="season" index="2"/>
</MediaContainer>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", nil)
	seasons, err := client.Seasons(context.Background(), "201")
	require.NoError(t, err)

	require.Len(t, seasons, 3)
	assert.Equal(t, 0, seasons[0].Index)
	assert.Equal(t, "Specials", seasons[0].Title)
	assert.Equal(t, 2, seasons[2].Index)
}

func TestClient_Candidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/library/metadata/101/posters":
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer>
  <Photo key="/library/metadata/101/thumb/1" provider="local" selected="1"/>
  <Photo key="https://image.tmdb.org/t/p/original/abc.jpg" provider="tmdb" selected="0"/>
</MediaContainer>`))
		case "/library/metadata/101/arts":
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(`<?xml version="1.0"?><MediaContainer><Photo key="/art/1" provider="fanarttv"/></MediaContainer>`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", nil)

	posters, err := client.Candidates(context.Background(), "101", layout.Poster)
	require.NoError(t, err)
	require.Len(t, posters, 2)
	assert.Equal(t, "local", posters[0].Provider)
	assert.True(t, posters[0].Selected)
	assert.Equal(t, "tmdb", posters[1].Provider)

	arts, err := client.Candidates(context.Background(), "101", layout.Background)
	require.NoError(t, err)
	require.Len(t, arts, 1)
	assert.Equal(t, "fanarttv", arts[0].Provider)
}

func TestClient_FetchImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/library/metadata/101/thumb/1", r.URL.Path)
		assert.Equal(t, "test-token", r.Header.Get("X-Plex-Token"), "server-relative keys carry the token")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", nil)
	data, err := client.FetchImage(context.Background(), Candidate{Key: "/library/metadata/101/thumb/1"})
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestClient_Item(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/library/metadata/201":
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(`<?xml version="1.0"?>
<MediaContainer librarySectionTitle="TV Shows">
  <Directory ratingKey="201" title="The Office" year="2005" type="show">
    <Location path="/tv/The Office"/>
  </Directory>
</MediaContainer>`))
		case "/library/metadata/201/children":
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(`<?xml version="1.0"?>
<MediaContainer>
  <Directory ratingKey="302" title="Season 1" type="season" index="1"/>
</MediaContainer>`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", nil)
	item, err := client.Item(context.Background(), "201")
	require.NoError(t, err)

	assert.Equal(t, "TV Shows", item.Library)
	assert.Equal(t, layout.Show, item.Kind)
	require.Len(t, item.Seasons, 1)
	assert.Equal(t, 1, item.Seasons[0].Index)
}
