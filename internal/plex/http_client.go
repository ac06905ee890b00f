package plex

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"reelqueue/internal/config"
	"reelqueue/internal/services"
)

const userAgent = "reelqueue/0.1.0"

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPClient implements Client against a live Plex Media Server.
type HTTPClient struct {
	baseURL string
	token   string
	client  HTTPDoer

	mu       sync.Mutex
	sections map[string]string
}

// NewHTTPClient builds a client from daemon configuration.
func NewHTTPClient(cfg *config.Config) *HTTPClient {
	timeout := time.Duration(cfg.Plex.RequestTimeout) * time.Second
	return NewHTTPClientWith(cfg.Plex.URL, cfg.Plex.Token, &http.Client{Timeout: timeout})
}

// NewHTTPClientWith wires an explicit HTTP backend, used by tests.
func NewHTTPClientWith(baseURL, token string, client HTTPDoer) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  client,
	}
}

type xmlDirectory struct {
	Key   string `xml:"key,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type xmlTag struct {
	ID  string `xml:"id,attr"`
	Tag string `xml:"tag,attr"`
}

type xmlVideo struct {
	RatingKey        string   `xml:"ratingKey,attr"`
	Title            string   `xml:"title,attr"`
	GrandparentTitle string   `xml:"grandparentTitle,attr"`
	Type             string   `xml:"type,attr"`
	Year             int      `xml:"year,attr"`
	LibrarySection   string   `xml:"librarySectionTitle,attr"`
	Directors        []xmlTag `xml:"Director"`
	Session          struct {
		ID string `xml:"id,attr"`
	} `xml:"Session"`
	User struct {
		Title string `xml:"title,attr"`
	} `xml:"User"`
	Player struct {
		Title string `xml:"title,attr"`
		State string `xml:"state,attr"`
	} `xml:"Player"`
}

type xmlMediaContainer struct {
	Size        int            `xml:"size,attr"`
	Videos      []xmlVideo     `xml:"Video"`
	Directories []xmlDirectory `xml:"Directory"`
}

func (c *HTTPClient) Exists(ctx context.Context, section, title string) (bool, error) {
	key, err := c.sectionKey(ctx, section)
	if err != nil {
		return false, err
	}

	// The title filter matches substrings, so exactness is re-checked
	// against the returned entries.
	query := url.Values{"title": {title}}
	path := fmt.Sprintf("/library/sections/%s/all", key)
	var container xmlMediaContainer
	if err := c.get(ctx, path, query, &container); err != nil {
		return false, err
	}

	for _, video := range container.Videos {
		if video.Title == title {
			return true, nil
		}
	}
	for _, dir := range container.Directories {
		if dir.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (c *HTTPClient) Search(ctx context.Context, keyword string) ([]MediaItem, error) {
	query := url.Values{"query": {keyword}}
	var container xmlMediaContainer
	if err := c.get(ctx, "/search", query, &container); err != nil {
		return nil, err
	}

	items := make([]MediaItem, 0, len(container.Videos)+len(container.Directories))
	for _, video := range container.Videos {
		items = append(items, MediaItem{
			RatingKey: video.RatingKey,
			Title:     video.Title,
			Kind:      MediaKind(video.Type),
			Year:      video.Year,
			Section:   video.LibrarySection,
		})
	}
	for _, dir := range container.Directories {
		if dir.Type != string(KindShow) {
			continue
		}
		items = append(items, MediaItem{
			RatingKey: dir.Key,
			Title:     dir.Title,
			Kind:      KindShow,
		})
	}
	return items, nil
}

func (c *HTTPClient) SameDirector(ctx context.Context, section, title string) (Director, []MediaItem, error) {
	key, err := c.sectionKey(ctx, section)
	if err != nil {
		return Director{}, nil, err
	}

	query := url.Values{"title": {title}}
	path := fmt.Sprintf("/library/sections/%s/all", key)
	var container xmlMediaContainer
	if err := c.get(ctx, path, query, &container); err != nil {
		return Director{}, nil, err
	}

	var director Director
	for _, video := range container.Videos {
		if video.Title != title || len(video.Directors) == 0 {
			continue
		}
		director = Director{ID: video.Directors[0].ID, Tag: video.Directors[0].Tag}
		break
	}
	if director.ID == "" {
		return Director{}, nil, services.Wrap(services.ErrNotFound, "plex", "same-director",
			fmt.Sprintf("no movie titled %q with director credit in section %q", title, section), nil)
	}

	byDirector := url.Values{"director": {director.ID}}
	var credits xmlMediaContainer
	if err := c.get(ctx, path, byDirector, &credits); err != nil {
		return Director{}, nil, err
	}

	items := make([]MediaItem, 0, len(credits.Videos))
	for _, video := range credits.Videos {
		items = append(items, MediaItem{
			RatingKey: video.RatingKey,
			Title:     video.Title,
			Kind:      MediaKind(video.Type),
			Year:      video.Year,
			Section:   section,
		})
	}
	return director, items, nil
}

func (c *HTTPClient) Sessions(ctx context.Context) ([]Session, error) {
	var container xmlMediaContainer
	if err := c.get(ctx, "/status/sessions", nil, &container); err != nil {
		return nil, err
	}

	sessions := make([]Session, 0, len(container.Videos))
	for _, video := range container.Videos {
		sessions = append(sessions, Session{
			SessionID:        video.Session.ID,
			Title:            video.Title,
			GrandparentTitle: video.GrandparentTitle,
			User:             video.User.Title,
			Player:           video.Player.Title,
			State:            video.Player.State,
		})
	}
	return sessions, nil
}

func (c *HTTPClient) TerminateSession(ctx context.Context, sessionID, reason string) error {
	query := url.Values{"sessionId": {sessionID}}
	if reason != "" {
		query.Set("reason", reason)
	}
	return c.do(ctx, http.MethodGet, "/status/sessions/terminate", query)
}

func (c *HTTPClient) SetRemotePublish(ctx context.Context, enabled bool) error {
	query := url.Values{"PublishServerOnPlexOnlineKey": {strconv.FormatBool(enabled)}}
	return c.do(ctx, http.MethodPut, "/:/prefs", query)
}

func (c *HTTPClient) sectionKey(ctx context.Context, section string) (string, error) {
	sections, err := c.ensureSections(ctx)
	if err != nil {
		return "", err
	}
	key, ok := sections[strings.ToLower(section)]
	if !ok {
		return "", services.Wrap(services.ErrNotFound, "plex", "sections",
			fmt.Sprintf("library section %q not found", section), nil)
	}
	return key, nil
}

func (c *HTTPClient) ensureSections(ctx context.Context) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sections != nil {
		return c.sections, nil
	}

	var container xmlMediaContainer
	if err := c.get(ctx, "/library/sections", nil, &container); err != nil {
		return nil, err
	}

	sections := make(map[string]string, len(container.Directories))
	for _, dir := range container.Directories {
		if dir.Key == "" || dir.Title == "" {
			continue
		}
		sections[strings.ToLower(dir.Title)] = dir.Key
	}
	c.sections = sections
	return sections, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out *xmlMediaContainer) error {
	resp, err := c.roundTrip(ctx, http.MethodGet, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrCatalogUnavailable, "plex", path, "decode response", err)
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values) error {
	resp, err := c.roundTrip(ctx, method, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *HTTPClient) roundTrip(ctx context.Context, method, path string, query url.Values) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrCatalogUnavailable, "plex", path, "build request", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrCatalogUnavailable, "plex", path, "request failed", err)
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		return nil, services.Wrap(services.ErrCatalogUnavailable, "plex", path,
			fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	return resp, nil
}
