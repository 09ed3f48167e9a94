package catalog

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/artkeep/artkeep/internal/layout"
)

// Candidate is one downloadable artwork option for an item or season.
type Candidate struct {
	Provider string // e.g. "tmdb", "fanarttv", "local"
	Key      string // server path or absolute URL to the image
	Selected bool
}

// Client talks to the Plex Media Server API. All operations are read-only.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a catalog client.
func NewClient(baseURL, token string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		log:     log.With("component", "catalog"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type sectionsResponse struct {
	XMLName  xml.Name     `xml:"MediaContainer"`
	Sections []sectionXML `xml:"Directory"`
}

type sectionXML struct {
	Key   string `xml:"key,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// Libraries returns all movie and show library sections. Other section
// types (music, photos) are filtered out.
func (c *Client) Libraries(ctx context.Context) ([]Library, error) {
	var result sectionsResponse
	if err := c.getXML(ctx, "/library/sections", nil, &result); err != nil {
		return nil, err
	}

	var libs []Library
	for _, sec := range result.Sections {
		var kind layout.ItemKind
		switch sec.Type {
		case "movie":
			kind = layout.Movie
		case "show":
			kind = layout.Show
		default:
			continue
		}
		libs = append(libs, Library{Key: sec.Key, Title: sec.Title, Kind: kind})
	}
	return libs, nil
}

type itemsResponse struct {
	XMLName      xml.Name       `xml:"MediaContainer"`
	TotalSize    int            `xml:"totalSize,attr"`
	Size         int            `xml:"size,attr"`
	SectionTitle string         `xml:"librarySectionTitle,attr"`
	Videos       []videoXML     `xml:"Video"`
	Directories  []directoryXML `xml:"Directory"`
}

type videoXML struct {
	RatingKey string     `xml:"ratingKey,attr"`
	Title     string     `xml:"title,attr"`
	Year      int        `xml:"year,attr"`
	Type      string     `xml:"type,attr"`
	Media     []mediaXML `xml:"Media"`
}

type mediaXML struct {
	Parts []partXML `xml:"Part"`
}

type partXML struct {
	File string `xml:"file,attr"`
}

type directoryXML struct {
	RatingKey string        `xml:"ratingKey,attr"`
	Title     string        `xml:"title,attr"`
	Year      int           `xml:"year,attr"`
	Type      string        `xml:"type,attr"`
	Index     int           `xml:"index,attr"`
	Locations []locationXML `xml:"Location"`
}

type locationXML struct {
	Path string `xml:"path,attr"`
}

// Items returns one page of a library section's items plus the section's
// total item count. Seasons are not populated here; use Seasons per show.
func (c *Client) Items(ctx context.Context, lib Library, start, size int) ([]Item, int, error) {
	headers := map[string]string{
		"X-Plex-Container-Start": strconv.Itoa(start),
		"X-Plex-Container-Size":  strconv.Itoa(size),
	}
	var result itemsResponse
	if err := c.getXML(ctx, "/library/sections/"+lib.Key+"/all", headers, &result); err != nil {
		return nil, 0, err
	}

	items := make([]Item, 0, result.Size)
	for _, v := range result.Videos {
		if v.Type != "movie" {
			continue
		}
		it := Item{
			RatingKey: v.RatingKey,
			Kind:      layout.Movie,
			Title:     v.Title,
			Year:      v.Year,
			Library:   lib.Title,
		}
		if len(v.Media) > 0 && len(v.Media[0].Parts) > 0 {
			it.FolderTitle = folderTitleFromMovieFile(v.Media[0].Parts[0].File)
		}
		items = append(items, it)
	}
	for _, d := range result.Directories {
		if d.Type != "show" {
			continue
		}
		it := Item{
			RatingKey: d.RatingKey,
			Kind:      layout.Show,
			Title:     d.Title,
			Year:      d.Year,
			Library:   lib.Title,
		}
		if len(d.Locations) > 0 {
			it.FolderTitle = folderTitleFromLocation(d.Locations[0].Path)
		}
		items = append(items, it)
	}

	total := result.TotalSize
	if total == 0 {
		total = len(items)
	}
	return items, total, nil
}

// Seasons returns the ordered seasons of a show.
func (c *Client) Seasons(ctx context.Context, ratingKey string) ([]SeasonRef, error) {
	var result itemsResponse
	if err := c.getXML(ctx, "/library/metadata/"+ratingKey+"/children", nil, &result); err != nil {
		return nil, err
	}

	var seasons []SeasonRef
	for _, d := range result.Directories {
		if d.Type != "season" {
			continue
		}
		seasons = append(seasons, SeasonRef{
			RatingKey: d.RatingKey,
			Index:     d.Index,
			Title:     d.Title,
		})
	}
	return seasons, nil
}

// Item fetches a single item by rating key, with seasons populated for
// shows.
func (c *Client) Item(ctx context.Context, ratingKey string) (*Item, error) {
	var result itemsResponse
	if err := c.getXML(ctx, "/library/metadata/"+ratingKey, nil, &result); err != nil {
		return nil, err
	}

	var it *Item
	for _, v := range result.Videos {
		if v.Type == "movie" {
			m := Item{RatingKey: v.RatingKey, Kind: layout.Movie, Title: v.Title, Year: v.Year}
			if len(v.Media) > 0 && len(v.Media[0].Parts) > 0 {
				m.FolderTitle = folderTitleFromMovieFile(v.Media[0].Parts[0].File)
			}
			it = &m
			break
		}
	}
	if it == nil {
		for _, d := range result.Directories {
			if d.Type == "show" {
				s := Item{RatingKey: d.RatingKey, Kind: layout.Show, Title: d.Title, Year: d.Year}
				if len(d.Locations) > 0 {
					s.FolderTitle = folderTitleFromLocation(d.Locations[0].Path)
				}
				it = &s
				break
			}
		}
	}
	if it == nil {
		return nil, fmt.Errorf("item %s not found", ratingKey)
	}

	it.Library = result.SectionTitle
	if it.Kind == layout.Show {
		seasons, err := c.Seasons(ctx, ratingKey)
		if err != nil {
			return nil, err
		}
		it.Seasons = seasons
	}
	return it, nil
}

type photosResponse struct {
	XMLName xml.Name   `xml:"MediaContainer"`
	Photos  []photoXML `xml:"Photo"`
}

type photoXML struct {
	Key      string `xml:"key,attr"`
	Provider string `xml:"provider,attr"`
	Selected int    `xml:"selected,attr"`
}

// Candidates lists the available artwork options for an item or season, in
// the order the server reports them. The provider tag identifies the
// artwork source (tmdb, fanarttv, local upload, ...).
func (c *Client) Candidates(ctx context.Context, ratingKey string, asset layout.AssetKind) ([]Candidate, error) {
	endpoint := "/library/metadata/" + ratingKey + "/posters"
	if asset == layout.Background {
		endpoint = "/library/metadata/" + ratingKey + "/arts"
	}

	var result photosResponse
	if err := c.getXML(ctx, endpoint, nil, &result); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(result.Photos))
	for _, p := range result.Photos {
		candidates = append(candidates, Candidate{
			Provider: p.Provider,
			Key:      p.Key,
			Selected: p.Selected == 1,
		})
	}
	return candidates, nil
}

// FetchImage downloads the image bytes for a candidate. Keys that are not
// absolute URLs are resolved against the media server.
func (c *Client) FetchImage(ctx context.Context, cand Candidate) ([]byte, error) {
	url := cand.Key
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = c.baseURL + cand.Key
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if strings.HasPrefix(url, c.baseURL) {
		req.Header.Set("X-Plex-Token", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}

type searchResponse struct {
	XMLName     xml.Name       `xml:"MediaContainer"`
	Videos      []videoXML     `xml:"Video"`
	Directories []directoryXML `xml:"Directory"`
}

// Search queries the catalog for movies and shows matching the query.
func (c *Client) Search(ctx context.Context, query string) ([]Item, error) {
	var result searchResponse
	if err := c.getXML(ctx, "/search?query="+url.QueryEscape(query), nil, &result); err != nil {
		return nil, err
	}

	var items []Item
	for _, v := range result.Videos {
		if v.Type == "movie" {
			items = append(items, Item{RatingKey: v.RatingKey, Kind: layout.Movie, Title: v.Title, Year: v.Year})
		}
	}
	for _, d := range result.Directories {
		if d.Type == "show" {
			items = append(items, Item{RatingKey: d.RatingKey, Kind: layout.Show, Title: d.Title, Year: d.Year})
		}
	}
	return items, nil
}

// getXML performs a GET against the server and decodes the XML response.
func (c *Client) getXML(ctx context.Context, endpoint string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/xml")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
