package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/onyxhabits/onyx/internal/model"
	"github.com/onyxhabits/onyx/internal/repository"
)

func writeTestJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type providerStub struct {
	server        *httptest.Server
	refreshes     atomic.Int32
	expireFirstAt atomic.Bool
}

func newProviderStub(t *testing.T) *providerStub {
	t.Helper()
	stub := &providerStub{}
	stub.expireFirstAt.Store(true)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /spotify/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if _, _, ok := r.BasicAuth(); !ok {
			http.Error(w, "missing client auth", http.StatusUnauthorized)
			return
		}
		switch r.Form.Get("grant_type") {
		case "authorization_code":
			writeTestJSON(w, map[string]any{"access_token": "access-1", "refresh_token": "refresh-1", "token_type": "Bearer", "expires_in": 3600})
		case "refresh_token":
			stub.refreshes.Add(1)
			writeTestJSON(w, map[string]any{"access_token": "access-2", "token_type": "Bearer", "expires_in": 3600})
		}
	})
	mux.HandleFunc("GET /spotify/api/me/player/currently-playing", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer access-1" && stub.expireFirstAt.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeTestJSON(w, map[string]any{
			"is_playing":  true,
			"progress_ms": 1200,
			"item": map[string]any{
				"name":        "Song",
				"duration_ms": 180000,
				"artists":     []map[string]string{{"name": "A"}, {"name": "B"}},
				"album":       map[string]any{"images": []map[string]string{{"url": "https://img/1"}, {"url": "https://img/2"}}},
			},
		})
	})
	mux.HandleFunc("PUT /spotify/api/me/player/play", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("PUT /spotify/api/me/player/pause", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("POST /spotify/api/me/player/next", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("POST /notion/token", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, map[string]any{"access_token": "notion-1", "token_type": "bearer", "workspace_name": "Acme", "workspace_icon": "🏢"})
	})
	mux.HandleFunc("POST /notion/api/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Notion-Version") != notionVersion || r.Header.Get("Authorization") != "Bearer notion-1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var body struct {
			PageSize int `json:"page_size"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.PageSize != 3 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeTestJSON(w, map[string]any{"results": []map[string]any{
			{
				"id": "p1", "url": "https://notion.so/p1", "last_edited_time": "2026-10-14T09:00:00.000Z",
				"icon":       map[string]string{"emoji": "📚"},
				"properties": map[string]any{"title": map[string]any{"title": []map[string]string{{"plain_text": "Reading list"}}}},
			},
			{
				"id": "p2", "url": "https://notion.so/p2", "last_edited_time": "2026-10-13T09:00:00.000Z",
				"properties": map[string]any{"Name": map[string]any{"title": []map[string]string{{"plain_text": "Goals"}}}},
			},
			{"id": "p3", "url": "https://notion.so/p3", "last_edited_time": "2026-10-12T09:00:00.000Z"},
		}})
	})

	stub.server = httptest.NewServer(mux)
	t.Cleanup(stub.server.Close)
	return stub
}

func newIntegrationService(t *testing.T, app *testApp, stub *providerStub) *IntegrationService {
	base := stub.server.URL
	return NewIntegrationService(repository.NewIntegrationRepository(app.db), IntegrationConfig{
		SpotifyClientID:     "spotify-id",
		SpotifyClientSecret: "spotify-secret",
		SpotifyRedirectURI:  "http://localhost:5173/callback",
		NotionClientID:      "notion-id",
		NotionClientSecret:  "notion-secret",
		NotionRedirectURI:   "http://localhost:5173/callback",
		SpotifyEndpoint:     &oauth2.Endpoint{AuthURL: base + "/spotify/authorize", TokenURL: base + "/spotify/token", AuthStyle: oauth2.AuthStyleInHeader},
		NotionEndpoint:      &oauth2.Endpoint{AuthURL: base + "/notion/authorize", TokenURL: base + "/notion/token", AuthStyle: oauth2.AuthStyleInHeader},
		SpotifyAPIURL:       base + "/spotify/api",
		NotionAPIURL:        base + "/notion/api",
	})
}

func TestIntegrationService_Disabled(t *testing.T) {
	app := newTestApp(t)
	svc := NewIntegrationService(repository.NewIntegrationRepository(app.db), IntegrationConfig{})

	_, err := svc.SpotifyAuthURL()
	assert.ErrorIs(t, err, ErrIntegrationDisabled)
	_, err = svc.NotionAuthURL()
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestIntegrationService_AuthURLs(t *testing.T) {
	app := newTestApp(t)
	svc := newIntegrationService(t, app, newProviderStub(t))

	raw, err := svc.SpotifyAuthURL()
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "spotify", u.Query().Get("state"))
	assert.Equal(t, "user-read-currently-playing user-read-playback-state user-modify-playback-state", u.Query().Get("scope"))
	assert.Equal(t, "code", u.Query().Get("response_type"))

	raw, err = svc.NotionAuthURL()
	require.NoError(t, err)
	u, err = url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "notion", u.Query().Get("state"))
	assert.Equal(t, "user", u.Query().Get("owner"))
}

func TestIntegrationService_SpotifyRefreshesOnceOnUnauthorized(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	stub := newProviderStub(t)
	svc := newIntegrationService(t, app, stub)
	ada := app.register(t, "ada")

	status, err := svc.SpotifyStatus(ctx, ada.ID)
	require.NoError(t, err)
	assert.False(t, status.IsConnected)

	assert.ErrorIs(t, svc.ConnectSpotify(ctx, ada.ID, " "), ErrAuthorizationMissing)
	require.NoError(t, svc.ConnectSpotify(ctx, ada.ID, "code-1"))

	status, err = svc.SpotifyStatus(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, &SpotifyStatus{
		IsConnected: true,
		IsPlaying:   true,
		Track: &SpotifyTrack{
			Name:     "Song",
			Artist:   "A, B",
			AlbumArt: "https://img/1",
			Progress: 1200,
			Duration: 180000,
		},
	}, status)
	assert.EqualValues(t, 1, stub.refreshes.Load())

	stored, err := repository.NewIntegrationRepository(app.db).ByProvider(ctx, ada.ID, model.ProviderSpotify)
	require.NoError(t, err)
	assert.Equal(t, "access-2", stored.AccessToken)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, "refresh-1", *stored.RefreshToken, "refresh token survives a response without one")

	// The refreshed token is used directly from now on.
	_, err = svc.SpotifyStatus(ctx, ada.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stub.refreshes.Load())
}

func TestIntegrationService_SpotifyControl(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	stub := newProviderStub(t)
	stub.expireFirstAt.Store(false)
	svc := newIntegrationService(t, app, stub)
	ada := app.register(t, "ada")

	assert.ErrorIs(t, svc.SpotifyControl(ctx, ada.ID, SpotifyPlay), ErrIntegrationMissing)

	require.NoError(t, svc.ConnectSpotify(ctx, ada.ID, "code-1"))
	assert.NoError(t, svc.SpotifyControl(ctx, ada.ID, SpotifyPlay))
	assert.ErrorIs(t, svc.SpotifyControl(ctx, ada.ID, SpotifyPause), ErrNoActiveDevice)
	assert.ErrorIs(t, svc.SpotifyControl(ctx, ada.ID, SpotifyNext), ErrPremiumRequired)
	assert.Error(t, svc.SpotifyControl(ctx, ada.ID, SpotifyPrevious))
}

func TestIntegrationService_Notion(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	svc := newIntegrationService(t, app, newProviderStub(t))
	ada := app.register(t, "ada")

	status, err := svc.NotionStatus(ctx, ada.ID)
	require.NoError(t, err)
	assert.False(t, status.IsConnected)

	_, err = svc.NotionPages(ctx, ada.ID)
	assert.ErrorIs(t, err, ErrIntegrationMissing)

	require.NoError(t, svc.ConnectNotion(ctx, ada.ID, "code-1"))

	status, err = svc.NotionStatus(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, &NotionStatus{IsConnected: true, WorkspaceName: "Acme", WorkspaceIcon: "🏢"}, status)

	pages, err := svc.NotionPages(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, NotionPage{ID: "p1", Title: "Reading list", URL: "https://notion.so/p1", Icon: "📚", LastEdited: "2026-10-14T09:00:00.000Z"}, *pages[0])
	assert.Equal(t, "Goals", pages[1].Title)
	assert.Equal(t, "📄", pages[1].Icon)
	assert.Equal(t, "Untitled", pages[2].Title)

	require.NoError(t, svc.Disconnect(ctx, ada.ID, "notion"))
	status, err = svc.NotionStatus(ctx, ada.ID)
	require.NoError(t, err)
	assert.False(t, status.IsConnected)

	assert.ErrorIs(t, svc.Disconnect(ctx, ada.ID, "dropbox"), ErrNotFound)
}
