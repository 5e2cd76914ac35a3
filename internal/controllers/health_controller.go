package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"wallshift/internal/rotation"
	"wallshift/internal/statefile"
	"wallshift/internal/structures"
)

type HealthController struct {
	conf      *structures.Config
	store     statefile.StoreInterface
	pool      rotation.PoolListerInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	ActiveSource  string  `json:"active_source"`
	PoolSize      int     `json:"pool_size"`
	Cursor        uint64  `json:"cursor"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	poolSize := 0
	if files, err := hc.pool.List(); err == nil {
		poolSize = len(files)
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		ActiveSource:  hc.conf.Sources.Active,
		PoolSize:      poolSize,
		Cursor:        hc.store.State().Rotation.Cursor,
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(conf *structures.Config, store statefile.StoreInterface, pool rotation.PoolListerInterface) *HealthController {
	return &HealthController{
		conf:      conf,
		store:     store,
		pool:      pool,
		startTime: time.Now(),
	}
}
