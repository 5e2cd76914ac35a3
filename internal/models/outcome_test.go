package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTickStatus_String(t *testing.T) {
	assert.Equal(t, "background_changed", TickBackgroundChanged.String())
	assert.Equal(t, "no_pool_available", TickNoPoolAvailable.String())
	assert.Equal(t, "no_change_needed", TickNoChangeNeeded.String())
	assert.Equal(t, "error", TickError.String())
}

func TestItemStatus_String(t *testing.T) {
	assert.Equal(t, "downloaded", ItemDownloaded.String())
	assert.Equal(t, "duplicate", ItemDuplicate.String())
	assert.Equal(t, "failed", ItemFailed.String())
}

func TestFetchReport_Downloaded(t *testing.T) {
	r := &FetchReport{
		Source: SourceUnsplash,
		Items: []FetchItem{
			{RemoteID: "a", Status: ItemDownloaded},
			{RemoteID: "b", Status: ItemDuplicate},
			{RemoteID: "c", Status: ItemDownloaded},
			{RemoteID: "d", Status: ItemFailed},
		},
	}
	assert.Equal(t, 2, r.Downloaded())
	assert.Equal(t, 0, (&FetchReport{}).Downloaded())
}
