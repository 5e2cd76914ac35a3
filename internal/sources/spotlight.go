package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"wallshift/internal/models"
)

// Spotlight serves Microsoft's curated 4K selection. It needs no API key
// and has no documented rate limit, which makes it the unconditional
// fallback for every other source.
type Spotlight struct {
	client  *Client
	BaseURL string
}

func NewSpotlight(client *Client) *Spotlight {
	return &Spotlight{
		client:  client,
		BaseURL: "https://fd.api.iris.microsoft.com/v4/api/selection",
	}
}

func (s *Spotlight) Tag() string { return models.SourceSpotlight }

func (s *Spotlight) RequiresKey() bool { return false }

func (s *Spotlight) RandomTemplate() string { return "" }

// Fetch returns up to count candidates. The API nests each image record as
// a JSON string inside the batch payload, so the body is probed with gjson
// rather than unmarshalled into rigid structs.
func (s *Spotlight) Fetch(ctx context.Context, _ Query, count int) ([]Candidate, error) {
	url := fmt.Sprintf("%s?placement=88000820&bcnt=%d&country=US&locale=en-US&fmt=json", s.BaseURL, count)

	body, _, err := s.client.GetJSON(ctx, s.Tag(), url, nil)
	if err != nil {
		return nil, err
	}

	items := gjson.GetBytes(body, "batchrsp.items")
	if !items.Exists() || !items.IsArray() {
		return nil, &FetchError{Kind: ErrMalformed, Source: s.Tag(), Err: fmt.Errorf("missing batchrsp.items")}
	}

	var candidates []Candidate
	for _, item := range items.Array() {
		inner := gjson.Parse(item.Get("item").String())
		asset := inner.Get("ad.landscapeImage.asset").String()
		if asset == "" {
			continue
		}

		id := inner.Get("ad.entityId").String()
		if id == "" {
			// No entity id on this item; the trailing URL segment is stable
			// enough to deduplicate on.
			parts := strings.Split(asset, "/")
			id = parts[len(parts)-1]
		}

		title := inner.Get("ad.title").String()
		if title == "" {
			title = "Spotlight"
		}

		candidates = append(candidates, Candidate{
			RemoteID:    id,
			DownloadURL: asset,
			Title:       title,
		})
		if len(candidates) >= count {
			break
		}
	}

	return candidates, nil
}
