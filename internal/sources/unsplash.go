package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"

	"wallshift/internal/models"
)

// Unsplash hourly quota as published for demo-tier API keys.
const unsplashQuota = 50

// Curated themes for the silent path. Enhanced keywords that reliably
// return desktop-grade results rather than portrait stock photos.
var unsplashTemplates = []string{
	"nature landscape scenic",
	"mountain scenery 4k",
	"ocean waves sunset",
	"forest trees green",
	"lake reflection water",
	"waterfall jungle tropical",
	"deep space galaxy",
	"galaxy nebula stars",
	"aurora borealis northern lights",
	"sunset clouds orange",
	"sunrise golden hour",
	"city night lights",
	"dark aesthetic moody",
	"neon cyberpunk city",
	"snow winter peaks",
	"desert sand dunes",
	"autumn leaves forest",
	"macro nature flowers",
	"abstract art colorful",
	"minimal background gradient",
}

type Unsplash struct {
	client  *Client
	apiKey  string
	BaseURL string

	lastRateUsed   uint32
	lastRateValid  bool
}

func NewUnsplash(client *Client, apiKey string) *Unsplash {
	return &Unsplash{
		client:  client,
		apiKey:  apiKey,
		BaseURL: "https://api.unsplash.com",
	}
}

func (u *Unsplash) Tag() string { return models.SourceUnsplash }

func (u *Unsplash) RequiresKey() bool { return true }

func (u *Unsplash) RandomTemplate() string { return pickTemplate(unsplashTemplates) }

type unsplashPhoto struct {
	ID             string `json:"id"`
	URLs           struct {
		Raw string `json:"raw"`
	} `json:"urls"`
	Description    string `json:"description"`
	AltDescription string `json:"alt_description"`
	User           struct {
		Name string `json:"name"`
	} `json:"user"`
}

func (u *Unsplash) Fetch(ctx context.Context, q Query, count int) ([]Candidate, error) {
	if u.apiKey == "" {
		return nil, &FetchError{Kind: ErrAuth, Source: u.Tag(), Err: fmt.Errorf("no API key configured")}
	}

	endpoint := fmt.Sprintf(
		"%s/search/photos?client_id=%s&query=%s&per_page=%d&order_by=relevant&orientation=landscape&content_filter=high",
		u.BaseURL, u.apiKey, url.QueryEscape(q.Text), count,
	)

	body, headers, err := u.client.GetJSON(ctx, u.Tag(), endpoint, nil)
	if err != nil {
		return nil, err
	}

	// The response carries the authoritative remaining budget; remember it
	// so the engine can correct the local window counter.
	u.lastRateValid = false
	if remaining := headers.Get("X-Ratelimit-Remaining"); remaining != "" {
		if n, perr := strconv.ParseUint(remaining, 10, 32); perr == nil && n <= unsplashQuota {
			u.lastRateUsed = unsplashQuota - uint32(n)
			u.lastRateValid = true
		}
	}

	var result struct {
		Results []unsplashPhoto `json:"results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &FetchError{Kind: ErrMalformed, Source: u.Tag(), Err: err}
	}

	candidates := make([]Candidate, 0, len(result.Results))
	for _, p := range result.Results {
		title := p.Description
		if title == "" {
			title = p.AltDescription
		}
		if title == "" {
			title = p.User.Name
		}
		if title == "" {
			title = "Unsplash"
		}
		candidates = append(candidates, Candidate{
			RemoteID:    p.ID,
			DownloadURL: p.URLs.Raw + "&w=1920&q=90",
			Title:       title,
		})
		if len(candidates) >= count {
			break
		}
	}

	return candidates, nil
}

func (u *Unsplash) LastRateUsed() (uint32, bool) {
	return u.lastRateUsed, u.lastRateValid
}
