package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"

	"wallshift/internal/models"
)

const (
	pexelsOrientation = "landscape"
	pexelsSize        = "large"
)

var pexelsTemplates = []string{
	"nature landscape wallpaper",
	"mountain scenery 4k",
	"ocean waves beach",
	"forest trees green",
	"lake reflection water",
	"waterfall jungle tropical",
	"night sky stars",
	"galaxy stars nebula",
	"aurora borealis northern lights",
	"sunset clouds orange",
	"sunrise golden hour",
	"city architecture skyline",
	"city night lights",
	"modern architecture building",
	"snow winter peaks",
	"desert sand dunes",
	"autumn leaves forest",
	"abstract art colorful",
	"minimal background gradient",
	"clouds atmosphere dramatic",
}

type Pexels struct {
	client  *Client
	apiKey  string
	BaseURL string
}

func NewPexels(client *Client, apiKey string) *Pexels {
	return &Pexels{
		client:  client,
		apiKey:  apiKey,
		BaseURL: "https://api.pexels.com/v1",
	}
}

func (p *Pexels) Tag() string { return models.SourcePexels }

func (p *Pexels) RequiresKey() bool { return true }

func (p *Pexels) RandomTemplate() string { return pickTemplate(pexelsTemplates) }

type pexelsPhoto struct {
	ID  uint64 `json:"id"`
	Src struct {
		Original string `json:"original"`
		Large2x  string `json:"large2x"`
	} `json:"src"`
	Alt          string `json:"alt"`
	Photographer string `json:"photographer"`
}

func (p *Pexels) Fetch(ctx context.Context, q Query, count int) ([]Candidate, error) {
	if p.apiKey == "" {
		return nil, &FetchError{Kind: ErrAuth, Source: p.Tag(), Err: fmt.Errorf("no API key configured")}
	}

	endpoint := fmt.Sprintf(
		"%s/search?query=%s&orientation=%s&size=%s&per_page=%d",
		p.BaseURL, url.QueryEscape(q.Text), pexelsOrientation, pexelsSize, count,
	)

	body, _, err := p.client.GetJSON(ctx, p.Tag(), endpoint, map[string]string{
		"Authorization": p.apiKey,
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Photos []pexelsPhoto `json:"photos"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &FetchError{Kind: ErrMalformed, Source: p.Tag(), Err: err}
	}

	candidates := make([]Candidate, 0, len(result.Photos))
	for _, photo := range result.Photos {
		title := photo.Alt
		if title == "" {
			title = photo.Photographer
		}
		if title == "" {
			title = "Pexels"
		}
		candidates = append(candidates, Candidate{
			RemoteID:    strconv.FormatUint(photo.ID, 10),
			DownloadURL: photo.Src.Large2x,
			Title:       title,
		})
		if len(candidates) >= count {
			break
		}
	}

	return candidates, nil
}
