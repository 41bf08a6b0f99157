package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/onyxhabits/onyx/internal/model"
	"github.com/onyxhabits/onyx/internal/repository"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/spotify"
)

const (
	spotifyAPIURL = "https://api.spotify.com/v1"
	notionAPIURL  = "https://api.notion.com/v1"
	notionVersion = "2022-06-28"
)

var notionEndpoint = oauth2.Endpoint{
	AuthURL:   "https://api.notion.com/v1/oauth/authorize",
	TokenURL:  "https://api.notion.com/v1/oauth/token",
	AuthStyle: oauth2.AuthStyleInHeader,
}

type IntegrationConfig struct {
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRedirectURI  string
	NotionClientID      string
	NotionClientSecret  string
	NotionRedirectURI   string

	// Overrides for the provider endpoints, empty means production.
	SpotifyEndpoint *oauth2.Endpoint
	NotionEndpoint  *oauth2.Endpoint
	SpotifyAPIURL   string
	NotionAPIURL    string
}

type SpotifyTrack struct {
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	AlbumArt string `json:"albumArt,omitempty"`
	Progress int    `json:"progress"`
	Duration int    `json:"duration"`
}

type SpotifyStatus struct {
	IsConnected bool          `json:"isConnected"`
	IsPlaying   bool          `json:"isPlaying"`
	Track       *SpotifyTrack `json:"track,omitempty"`
	Error       string        `json:"error,omitempty"`
}

type NotionStatus struct {
	IsConnected   bool   `json:"isConnected"`
	WorkspaceName string `json:"workspaceName,omitempty"`
	WorkspaceIcon string `json:"workspaceIcon,omitempty"`
}

type NotionPage struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Icon       string `json:"icon"`
	LastEdited string `json:"lastEdited"`
}

// SpotifyAction is a playback control exposed to the client.
type SpotifyAction string

const (
	SpotifyPlay     SpotifyAction = "play"
	SpotifyPause    SpotifyAction = "pause"
	SpotifyNext     SpotifyAction = "next"
	SpotifyPrevious SpotifyAction = "previous"
)

func (a SpotifyAction) method() string {
	if a == SpotifyPlay || a == SpotifyPause {
		return http.MethodPut
	}
	return http.MethodPost
}

type IntegrationService struct {
	repo       repository.IntegrationRepository
	spotify    *oauth2.Config
	notion     *oauth2.Config
	spotifyAPI string
	notionAPI  string
	httpClient *http.Client
}

func NewIntegrationService(repo repository.IntegrationRepository, cfg IntegrationConfig) *IntegrationService {
	spotifyEndpoint := spotify.Endpoint
	if cfg.SpotifyEndpoint != nil {
		spotifyEndpoint = *cfg.SpotifyEndpoint
	}
	notion := notionEndpoint
	if cfg.NotionEndpoint != nil {
		notion = *cfg.NotionEndpoint
	}

	s := &IntegrationService{
		repo:       repo,
		spotifyAPI: orDefault(cfg.SpotifyAPIURL, spotifyAPIURL),
		notionAPI:  orDefault(cfg.NotionAPIURL, notionAPIURL),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	if cfg.SpotifyClientID != "" {
		s.spotify = &oauth2.Config{
			ClientID:     cfg.SpotifyClientID,
			ClientSecret: cfg.SpotifyClientSecret,
			RedirectURL:  cfg.SpotifyRedirectURI,
			Endpoint:     spotifyEndpoint,
			Scopes:       []string{"user-read-currently-playing", "user-read-playback-state", "user-modify-playback-state"},
		}
	}
	if cfg.NotionClientID != "" {
		s.notion = &oauth2.Config{
			ClientID:     cfg.NotionClientID,
			ClientSecret: cfg.NotionClientSecret,
			RedirectURL:  cfg.NotionRedirectURI,
			Endpoint:     notion,
		}
	}

	return s
}

func (s *IntegrationService) SpotifyAuthURL() (string, error) {
	if s.spotify == nil {
		return "", ErrIntegrationDisabled
	}
	return s.spotify.AuthCodeURL("spotify"), nil
}

func (s *IntegrationService) ConnectSpotify(ctx context.Context, userID, code string) error {
	if s.spotify == nil {
		return ErrIntegrationDisabled
	}
	if strings.TrimSpace(code) == "" {
		return ErrAuthorizationMissing
	}

	token, err := s.spotify.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange spotify code: %w", err)
	}

	integration := &model.Integration{
		UserID:      userID,
		Provider:    model.ProviderSpotify,
		AccessToken: token.AccessToken,
	}
	setTokenFields(integration, token)

	err = s.repo.Upsert(ctx, integration)
	if err != nil {
		return fmt.Errorf("failed to save integration: %w", err)
	}

	slog.Info("integration connected", "user_id", userID, "provider", model.ProviderSpotify)
	return nil
}

// SpotifyStatus never fails for a connected user; API problems are reported in the
// Error field so the client can still show the integration as connected.
func (s *IntegrationService) SpotifyStatus(ctx context.Context, userID string) (*SpotifyStatus, error) {
	resp, err := s.spotifyRequest(ctx, userID, http.MethodGet, "/me/player/currently-playing")
	if errors.Is(err, ErrIntegrationMissing) {
		return &SpotifyStatus{IsConnected: false}, nil
	}
	if err != nil {
		slog.Error("failed to fetch spotify status", "error", err, "user_id", userID)
		return &SpotifyStatus{IsConnected: true, Error: "Failed to fetch status"}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return &SpotifyStatus{IsConnected: true, IsPlaying: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		slog.Error("spotify status request failed", "status", resp.StatusCode, "user_id", userID)
		return &SpotifyStatus{IsConnected: true, Error: "Failed to fetch status"}, nil
	}

	var playing struct {
		IsPlaying  bool `json:"is_playing"`
		ProgressMS int  `json:"progress_ms"`
		Item       *struct {
			Name       string `json:"name"`
			DurationMS int    `json:"duration_ms"`
			Artists    []struct {
				Name string `json:"name"`
			} `json:"artists"`
			Album struct {
				Images []struct {
					URL string `json:"url"`
				} `json:"images"`
			} `json:"album"`
		} `json:"item"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&playing); err != nil {
		slog.Error("failed to decode spotify status", "error", err, "user_id", userID)
		return &SpotifyStatus{IsConnected: true, Error: "Failed to fetch status"}, nil
	}

	status := &SpotifyStatus{IsConnected: true, IsPlaying: playing.IsPlaying}
	if item := playing.Item; item != nil {
		artists := make([]string, 0, len(item.Artists))
		for _, a := range item.Artists {
			artists = append(artists, a.Name)
		}
		status.Track = &SpotifyTrack{
			Name:     item.Name,
			Artist:   strings.Join(artists, ", "),
			Progress: playing.ProgressMS,
			Duration: item.DurationMS,
		}
		if len(item.Album.Images) > 0 {
			status.Track.AlbumArt = item.Album.Images[0].URL
		}
	}
	return status, nil
}

func (s *IntegrationService) SpotifyControl(ctx context.Context, userID string, action SpotifyAction) error {
	resp, err := s.spotifyRequest(ctx, userID, action.method(), "/me/player/"+string(action))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrNoActiveDevice
	case resp.StatusCode == http.StatusForbidden:
		return ErrPremiumRequired
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("spotify %s failed with status %d: %s", action, resp.StatusCode, body)
	}
}

// spotifyRequest calls the Web API with the stored token, refreshing it once on 401.
func (s *IntegrationService) spotifyRequest(ctx context.Context, userID, method, path string) (*http.Response, error) {
	if s.spotify == nil {
		return nil, ErrIntegrationDisabled
	}

	integration, err := s.integration(ctx, userID, model.ProviderSpotify)
	if err != nil {
		return nil, err
	}

	resp, err := s.apiRequest(ctx, method, s.spotifyAPI+path, integration.AccessToken, nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	resp.Body.Close()

	slog.Info("spotify token expired, refreshing", "user_id", userID)
	accessToken, err := s.refreshSpotify(ctx, integration)
	if err != nil {
		return nil, err
	}

	return s.apiRequest(ctx, method, s.spotifyAPI+path, accessToken, nil, nil)
}

func (s *IntegrationService) refreshSpotify(ctx context.Context, integration *model.Integration) (string, error) {
	if integration.RefreshToken == nil || *integration.RefreshToken == "" {
		return "", fmt.Errorf("no refresh token available")
	}

	// An empty access token forces the token source to refresh.
	token, err := s.spotify.TokenSource(ctx, &oauth2.Token{RefreshToken: *integration.RefreshToken}).Token()
	if err != nil {
		return "", fmt.Errorf("failed to refresh spotify token: %w", err)
	}

	integration.AccessToken = token.AccessToken
	setTokenFields(integration, token)

	err = s.repo.UpdateTokens(ctx, integration)
	if err != nil {
		return "", fmt.Errorf("failed to save refreshed token: %w", err)
	}

	return token.AccessToken, nil
}

func (s *IntegrationService) NotionAuthURL() (string, error) {
	if s.notion == nil {
		return "", ErrIntegrationDisabled
	}
	return s.notion.AuthCodeURL("notion", oauth2.SetAuthURLParam("owner", "user")), nil
}

func (s *IntegrationService) ConnectNotion(ctx context.Context, userID, code string) error {
	if s.notion == nil {
		return ErrIntegrationDisabled
	}
	if strings.TrimSpace(code) == "" {
		return ErrAuthorizationMissing
	}

	token, err := s.notion.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange notion code: %w", err)
	}

	meta := model.NotionMetadata{}
	if name, ok := token.Extra("workspace_name").(string); ok {
		meta.WorkspaceName = name
	}
	if icon, ok := token.Extra("workspace_icon").(string); ok {
		meta.WorkspaceIcon = icon
	}
	metadata, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode notion metadata: %w", err)
	}

	err = s.repo.Upsert(ctx, &model.Integration{
		UserID:      userID,
		Provider:    model.ProviderNotion,
		AccessToken: token.AccessToken,
		Metadata:    string(metadata),
	})
	if err != nil {
		return fmt.Errorf("failed to save integration: %w", err)
	}

	slog.Info("integration connected", "user_id", userID, "provider", model.ProviderNotion)
	return nil
}

func (s *IntegrationService) NotionStatus(ctx context.Context, userID string) (*NotionStatus, error) {
	integration, err := s.integration(ctx, userID, model.ProviderNotion)
	if errors.Is(err, ErrIntegrationMissing) {
		return &NotionStatus{IsConnected: false}, nil
	}
	if err != nil {
		return nil, err
	}

	meta := integration.NotionMetadata()
	if meta.WorkspaceName == "" {
		meta.WorkspaceName = "Workspace"
	}
	return &NotionStatus{IsConnected: true, WorkspaceName: meta.WorkspaceName, WorkspaceIcon: meta.WorkspaceIcon}, nil
}

// NotionPages returns the three most recently edited pages.
func (s *IntegrationService) NotionPages(ctx context.Context, userID string) ([]*NotionPage, error) {
	integration, err := s.integration(ctx, userID, model.ProviderNotion)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]any{
		"filter":    map[string]string{"value": "page", "property": "object"},
		"sort":      map[string]string{"direction": "descending", "timestamp": "last_edited_time"},
		"page_size": 3,
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.apiRequest(ctx, http.MethodPost, s.notionAPI+"/search", integration.AccessToken, body,
		map[string]string{"Notion-Version": notionVersion})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("notion search failed with status %d", resp.StatusCode)
	}

	var result struct {
		Results []struct {
			ID             string `json:"id"`
			URL            string `json:"url"`
			LastEditedTime string `json:"last_edited_time"`
			Icon           *struct {
				Emoji string `json:"emoji"`
			} `json:"icon"`
			Properties map[string]struct {
				Title []struct {
					PlainText string `json:"plain_text"`
				} `json:"title"`
			} `json:"properties"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode notion search: %w", err)
	}

	pages := make([]*NotionPage, 0, len(result.Results))
	for _, r := range result.Results {
		page := &NotionPage{ID: r.ID, URL: r.URL, LastEdited: r.LastEditedTime, Title: "Untitled", Icon: "📄"}
		for _, key := range []string{"title", "Name"} {
			if prop, ok := r.Properties[key]; ok && len(prop.Title) > 0 {
				page.Title = prop.Title[0].PlainText
				break
			}
		}
		if r.Icon != nil && r.Icon.Emoji != "" {
			page.Icon = r.Icon.Emoji
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// Disconnect forgets the stored token for provider.
func (s *IntegrationService) Disconnect(ctx context.Context, userID, provider string) error {
	provider = strings.ToUpper(provider)
	if provider != model.ProviderSpotify && provider != model.ProviderNotion {
		return newError(ErrNotFound, "Unknown integration")
	}

	err := s.repo.Delete(ctx, userID, provider)
	if err != nil {
		return fmt.Errorf("failed to delete integration: %w", err)
	}

	slog.Info("integration disconnected", "user_id", userID, "provider", provider)
	return nil
}

func (s *IntegrationService) integration(ctx context.Context, userID, provider string) (*model.Integration, error) {
	integration, err := s.repo.ByProvider(ctx, userID, provider)
	if errors.Is(err, repository.ErrIntegrationNotFound) {
		return nil, ErrIntegrationMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get integration: %w", err)
	}
	return integration, nil
}

func (s *IntegrationService) apiRequest(ctx context.Context, method, url, accessToken string, body []byte, headers map[string]string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}).SetAuthHeader(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	return resp, nil
}

func setTokenFields(integration *model.Integration, token *oauth2.Token) {
	if token.RefreshToken != "" {
		refresh := token.RefreshToken
		integration.RefreshToken = &refresh
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		integration.ExpiresAt = &expiry
	}
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
