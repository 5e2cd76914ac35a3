package sources

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWallhaven_FetchBuildsSearchRequest(t *testing.T) {
	var gotQuery string
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data":[
			{"id":"wh1","path":"https://w.example/full/wh1.jpg"},
			{"id":"wh2","path":"https://w.example/full/wh2.png"}
		]}`))
	})

	w := NewWallhaven(client)
	w.BaseURL = server.URL

	candidates, err := w.Fetch(context.Background(), Query{Text: "forest", Sorting: "random", Page: 3}, 2)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "forest", candidates[0].Title)

	assert.Contains(t, gotQuery, "q=forest")
	assert.Contains(t, gotQuery, "categories=100")
	assert.Contains(t, gotQuery, "purity=100")
	assert.Contains(t, gotQuery, "sorting=random")
	assert.Contains(t, gotQuery, "atleast=1920x1080")
	assert.Contains(t, gotQuery, "ratios=16x9")
	assert.Contains(t, gotQuery, "page=3")
}

func TestWallhaven_DefaultsSortingAndPage(t *testing.T) {
	var gotQuery string
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	w := NewWallhaven(client)
	w.BaseURL = server.URL

	candidates, err := w.Fetch(context.Background(), Query{Text: "sky"}, 1)
	require.NoError(t, err)
	assert.Nil(t, candidates)
	assert.Contains(t, gotQuery, "sorting=toplist")
	assert.Contains(t, gotQuery, "page=1")
}

func TestWallhaven_VariesOffsetForPartialRequests(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"id":"a","path":"pa"},{"id":"b","path":"pb"},{"id":"c","path":"pc"}
		]}`))
	})

	w := NewWallhaven(client)
	w.BaseURL = server.URL
	w.now = func() time.Time { return time.Unix(0, 7) }

	candidates, err := w.Fetch(context.Background(), Query{Text: "sky"}, 1)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	// offset = 7 mod 3 = 1
	assert.Equal(t, "b", candidates[0].RemoteID)
}

func TestWallhaven_FullPageKeepsOrder(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"a","path":"pa"},{"id":"b","path":"pb"}]}`))
	})

	w := NewWallhaven(client)
	w.BaseURL = server.URL

	candidates, err := w.Fetch(context.Background(), Query{Text: "sky"}, 2)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "a", candidates[0].RemoteID)
	assert.Equal(t, "b", candidates[1].RemoteID)
}

func TestWallhaven_NeedsNoKey(t *testing.T) {
	w := NewWallhaven(nil)
	assert.False(t, w.RequiresKey())
	assert.NotEmpty(t, w.RandomTemplate())
}
