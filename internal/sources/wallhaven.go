package sources

import (
	"context"
	"fmt"
	"net/url"
	"time"

	json "github.com/goccy/go-json"

	"wallshift/internal/models"
)

// Wallhaven search defaults: General category only, SFW purity, landscape
// resolutions that fit a desktop.
const (
	wallhavenCategories = "100"
	wallhavenPurity     = "100"
	wallhavenAtLeast    = "1920x1080"
	wallhavenRatios     = "16x9"
)

var wallhavenTemplates = []string{
	"nature landscape wallpaper",
	"mountain scenery 4k",
	"ocean waves beach",
	"forest trees green",
	"galaxy stars nebula",
	"city night lights",
	"aurora borealis",
	"sunset clouds orange",
	"lake reflection",
	"snow winter peaks",
	"desert sand dunes",
	"waterfall jungle",
}

// Wallhaven needs no API key for SFW content.
type Wallhaven struct {
	client  *Client
	BaseURL string
	now     func() time.Time
}

func NewWallhaven(client *Client) *Wallhaven {
	return &Wallhaven{
		client:  client,
		BaseURL: "https://wallhaven.cc/api/v1",
		now:     time.Now,
	}
}

func (w *Wallhaven) Tag() string { return models.SourceWallhaven }

func (w *Wallhaven) RequiresKey() bool { return false }

func (w *Wallhaven) RandomTemplate() string { return pickTemplate(wallhavenTemplates) }

type wallhavenWallpaper struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

func (w *Wallhaven) Fetch(ctx context.Context, q Query, count int) ([]Candidate, error) {
	sorting := q.Sorting
	if sorting == "" {
		sorting = "toplist"
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	endpoint := fmt.Sprintf(
		"%s/search?q=%s&categories=%s&purity=%s&sorting=%s&atleast=%s&ratios=%s&page=%d",
		w.BaseURL, url.QueryEscape(q.Text),
		wallhavenCategories, wallhavenPurity, sorting,
		wallhavenAtLeast, wallhavenRatios, page,
	)

	body, _, err := w.client.GetJSON(ctx, w.Tag(), endpoint, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Data []wallhavenWallpaper `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &FetchError{Kind: ErrMalformed, Source: w.Tag(), Err: err}
	}
	if len(result.Data) == 0 {
		return nil, nil
	}

	// When asked for fewer results than the page holds, start at a varying
	// offset so the silent path doesn't keep landing on the same wallpaper.
	offset := 0
	if count < len(result.Data) {
		offset = int(w.now().UnixNano()) % len(result.Data)
		if offset < 0 {
			offset = -offset
		}
	}

	candidates := make([]Candidate, 0, count)
	for i := 0; i < len(result.Data) && len(candidates) < count; i++ {
		wp := result.Data[(offset+i)%len(result.Data)]
		candidates = append(candidates, Candidate{
			RemoteID:    wp.ID,
			DownloadURL: wp.Path,
			Title:       q.Text,
		})
	}

	return candidates, nil
}
