package rotation

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	json "github.com/goccy/go-json"

	"wallshift/internal/models"
	"wallshift/internal/platform"
	"wallshift/internal/providers"
	"wallshift/internal/sources"
	"wallshift/internal/statefile"
	"wallshift/internal/structures"
)

// EngineInterface is what the core exposes to its invoker: one scheduled
// rotation tick, the interactive fetch cycle, and the ledger/pool
// reconciliation pass.
type EngineInterface interface {
	RunRotationTick(ctx context.Context) models.TickOutcome
	RunFetchCycle(ctx context.Context, src sources.Source, q sources.Query, count int) (*models.FetchReport, error)
	Reconcile() error
}

type Engine struct {
	conf       *structures.Config
	store      statefile.StoreInterface
	pool       PoolListerInterface
	background platform.BackgroundController
	registry   *sources.Registry
	client     *sources.Client
	limiter    RateLimiterInterface
	ledger     LedgerInterface
	seq        SequencerInterface
	cache      providers.CacheProviderInterface
	metrics    providers.MetricsProviderInterface
	logger     providers.Logger
	silent     providers.SilentLogInterface
	now        func() time.Time
}

func NewEngine(
	conf *structures.Config,
	store statefile.StoreInterface,
	pool PoolListerInterface,
	background platform.BackgroundController,
	registry *sources.Registry,
	client *sources.Client,
	limiter RateLimiterInterface,
	ledger LedgerInterface,
	seq SequencerInterface,
	cache providers.CacheProviderInterface,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
	silent providers.SilentLogInterface,
) EngineInterface {
	return &Engine{
		conf:       conf,
		store:      store,
		pool:       pool,
		background: background,
		registry:   registry,
		client:     client,
		limiter:    limiter,
		ledger:     ledger,
		seq:        seq,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
		silent:     silent,
		now:        time.Now,
	}
}

// RunRotationTick runs one scheduled rotation step. Errors in the silent
// path are absorbed: nothing returned here may terminate the scheduling
// mechanism, only describe what happened.
func (e *Engine) RunRotationTick(ctx context.Context) models.TickOutcome {
	start := e.now()
	outcome := e.runTick(ctx)
	e.metrics.IncTicks(outcome.Status.String())
	e.metrics.ObserveTickDuration(e.now().Sub(start))
	return outcome
}

func (e *Engine) runTick(ctx context.Context) models.TickOutcome {
	e.silent.Logf("=== rotation tick started ===")

	if err := e.Reconcile(); err != nil {
		e.silent.Logf("reconcile skipped: %v", err)
	}

	files, err := e.pool.List()
	if err != nil {
		return models.TickOutcome{Status: models.TickError, Err: err}
	}

	if len(files) == 0 {
		e.silent.Logf("pool empty, fetching one image")
		if _, ok := e.fetchOneSilent(ctx); !ok {
			e.silent.Logf("nothing fetched, ending tick without change")
			return models.TickOutcome{Status: models.TickNoPoolAvailable}
		}
		if files, err = e.pool.List(); err != nil {
			return models.TickOutcome{Status: models.TickError, Err: err}
		}
		if len(files) == 0 {
			return models.TickOutcome{Status: models.TickNoPoolAvailable}
		}
	}
	e.metrics.SetPoolSize(len(files))

	st := e.store.State()
	cursor := st.Rotation.Cursor
	size := uint64(len(files))
	target := cursor % size

	// Manual-change detection: if a human set a pool file out-of-band,
	// resynchronize the cursor to continue after it. One resync pass per
	// tick; an unreadable or unmanaged background skips detection.
	if current, ok := e.background.Current(); ok && current != "" {
		if !samePath(current, files[target].Path) {
			if pos, found := poolIndex(files, current); found {
				cursor = uint64(pos) + 1
				st.Rotation.Cursor = cursor
				if err := e.store.Save(); err != nil {
					return models.TickOutcome{Status: models.TickError, Err: err}
				}
				target = cursor % size
				e.silent.Logf("manual change detected at position %d, cursor resynced to %d", pos, cursor)
			} else {
				e.silent.Logf("current background is not in the pool, ignoring")
			}
		}
	}

	if cursor >= size {
		return e.rotateExhausted(ctx, cursor)
	}

	return e.applyBackground(files[target].Path, cursor)
}

// rotateExhausted handles the every-image-already-shown case: fetch one
// new image and display the file with the highest sequence prefix. The
// cursor keeps counting forward; it is never reset to zero.
func (e *Engine) rotateExhausted(ctx context.Context, cursor uint64) models.TickOutcome {
	e.silent.Logf("pool exhausted at cursor %d, fetching a new image", cursor)

	if _, ok := e.fetchOneSilent(ctx); !ok {
		e.silent.Logf("exhaustion fetch yielded nothing")
	}

	files, err := e.pool.List()
	if err != nil {
		return models.TickOutcome{Status: models.TickError, Err: err}
	}

	newest, ok := NewestByOrdinal(files)
	if !ok {
		// Nothing with a sequence prefix exists and the fetch produced no
		// file: end the tick silently with no cursor mutation.
		return models.TickOutcome{Status: models.TickNoChangeNeeded}
	}

	return e.applyBackground(newest.Path, cursor)
}

// applyBackground sets the chosen file and advances the cursor. A failing
// OS call does not roll the cursor back: retrying the same target forever
// would wedge the rotation on a permanently broken platform API.
func (e *Engine) applyBackground(path string, cursor uint64) models.TickOutcome {
	setErr := e.background.Set(path)

	st := e.store.State()
	now := e.now()
	st.Rotation.Cursor = cursor + 1
	st.Rotation.LastChange = &now

	persistStart := e.now()
	if err := e.store.Save(); err != nil {
		return models.TickOutcome{Status: models.TickError, Path: path, Err: err}
	}
	e.metrics.ObservePersistenceDuration(e.now().Sub(persistStart))

	if setErr != nil {
		e.silent.Logf("set background failed: %v", setErr)
		return models.TickOutcome{Status: models.TickError, Path: path, Err: setErr}
	}

	e.silent.Logf("background set to %s, cursor now %d", filepath.Base(path), cursor+1)
	return models.TickOutcome{Status: models.TickBackgroundChanged, Path: path}
}

// fetchOneSilent walks the fallback chain until one source yields a new
// downloaded file. Every failure is logged and absorbed.
func (e *Engine) fetchOneSilent(ctx context.Context) (string, bool) {
	for _, src := range e.registry.Chain(e.conf.Sources.Active) {
		path, err := e.fetchSilentFrom(ctx, src)
		if err != nil {
			e.metrics.IncFetches(src.Tag(), "error")
			e.silent.Logf("silent fetch from %s failed: %v", src.Tag(), err)
			continue
		}
		e.metrics.IncFetches(src.Tag(), "ok")
		return path, true
	}
	return "", false
}

func (e *Engine) fetchSilentFrom(ctx context.Context, src sources.Source) (string, error) {
	tag := src.Tag()

	if err := e.limiter.CheckAndReserve(tag); err != nil {
		return "", err
	}

	candidates, err := src.Fetch(ctx, e.silentQuery(src), 1)
	if err != nil {
		return "", err
	}
	if err := e.limiter.Commit(tag); err != nil {
		return "", err
	}
	e.reconcileRate(src)

	for _, cand := range candidates {
		if !e.ledger.IsNew(tag, cand.RemoteID) {
			continue
		}
		path, err := e.download(ctx, tag, cand)
		if err != nil {
			return "", err
		}
		if err := e.ledger.Record(tag, cand.RemoteID); err != nil {
			return "", err
		}
		return path, nil
	}

	return "", fmt.Errorf("%s returned no new candidates", tag)
}

// silentQuery builds the non-interactive search: the persisted theme when
// one is set, otherwise a curated template. Wallhaven additionally gets
// random sorting and a varying page so repeated ticks don't converge on
// the same image.
func (e *Engine) silentQuery(src sources.Source) sources.Query {
	ss := e.store.State().SourceFor(src.Tag())

	text := ss.Theme
	if text == "" || text == "random" {
		text = src.RandomTemplate()
	}

	q := sources.Query{Text: text}
	if src.Tag() == models.SourceWallhaven {
		q.Sorting = "random"
		q.Page = int(e.now().UnixMilli()%5) + 1
	}
	return q
}

// RunFetchCycle is the interactive fetch path. Errors before any download
// abort the cycle and surface to the invoker; per-candidate failures are
// recorded in the report and never abort the remaining items.
func (e *Engine) RunFetchCycle(ctx context.Context, src sources.Source, q sources.Query, count int) (*models.FetchReport, error) {
	if count < 1 {
		count = 1
	}
	tag := src.Tag()
	report := &models.FetchReport{Source: tag}

	candidates, cached := e.cachedCandidates(tag, q, count)
	if !cached {
		if err := e.limiter.CheckAndReserve(tag); err != nil {
			return nil, err
		}
		var err error
		candidates, err = src.Fetch(ctx, q, count)
		if err != nil {
			e.metrics.IncFetches(tag, "error")
			return nil, err
		}
		if err = e.limiter.Commit(tag); err != nil {
			return nil, err
		}
		e.reconcileRate(src)
		e.metrics.IncFetches(tag, "ok")
		e.storeCandidates(tag, q, count, candidates)
	}

	for _, cand := range candidates {
		if !e.ledger.IsNew(tag, cand.RemoteID) {
			report.Items = append(report.Items, models.FetchItem{
				RemoteID: cand.RemoteID, Title: cand.Title, Status: models.ItemDuplicate,
			})
			continue
		}

		path, err := e.download(ctx, tag, cand)
		if err != nil {
			report.Items = append(report.Items, models.FetchItem{
				RemoteID: cand.RemoteID, Title: cand.Title, Status: models.ItemFailed, Err: err,
			})
			continue
		}
		if err = e.ledger.Record(tag, cand.RemoteID); err != nil {
			return report, err
		}

		report.Items = append(report.Items, models.FetchItem{
			RemoteID: cand.RemoteID, Title: cand.Title, Status: models.ItemDownloaded, Path: path,
		})
	}

	return report, nil
}

// Reconcile drops ledger entries whose file no longer exists in the pool.
// IDs embedded in filenames may be truncated to eight characters, so the
// match is substring containment in both directions.
func (e *Engine) Reconcile() error {
	files, err := e.pool.List()
	if err != nil {
		return err
	}

	for _, tag := range models.KnownSources {
		var fileIDs []string
		for _, f := range files {
			if !BelongsTo(f.Name, tag) {
				continue
			}
			if id := IDSegment(f.Name); id != "" {
				fileIDs = append(fileIDs, id)
			}
		}

		removed, err := e.ledger.Retain(tag, func(id string) bool {
			for _, fid := range fileIDs {
				if strings.Contains(fid, id) || strings.Contains(id, fid) {
					return true
				}
			}
			return false
		})
		if err != nil {
			return err
		}
		if removed > 0 {
			e.logger.Infof(providers.TypeState, "Reconciled %s ledger: removed %d stale entries", tag, removed)
		}
	}

	return nil
}

// download reserves an ordinal, then streams the image to disk. The
// ordinal is already durable when the download starts, so a failure here
// leaves a gap but can never cause a reused prefix.
func (e *Engine) download(ctx context.Context, tag string, cand sources.Candidate) (string, error) {
	prefix, err := e.seq.NextPrefix()
	if err != nil {
		return "", err
	}

	name := prefix + tag + "_" + sanitizeTitle(cand.Title) + "_" + shortID(cand.RemoteID) + extFromURL(cand.DownloadURL)
	path := filepath.Join(e.pool.Dir(), name)

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if _, err = e.client.Download(ctx, tag, cand.DownloadURL, file); err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}
	if err = file.Close(); err != nil {
		os.Remove(path)
		return "", err
	}

	e.metrics.IncDownloads(tag)
	return path, nil
}

func (e *Engine) reconcileRate(src sources.Source) {
	if reporter, ok := src.(sources.RateReporter); ok {
		if used, valid := reporter.LastRateUsed(); valid {
			if err := e.limiter.Reconcile(src.Tag(), used); err != nil {
				e.logger.Warnf(providers.TypeState, "Rate reconcile for %s failed: %s", src.Tag(), err)
			}
		}
	}
}

func (e *Engine) cachedCandidates(tag string, q sources.Query, count int) ([]sources.Candidate, bool) {
	data, ok := e.cache.Get(candidateCacheKey(tag, q, count))
	if !ok {
		return nil, false
	}
	var candidates []sources.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, false
	}
	return candidates, true
}

func (e *Engine) storeCandidates(tag string, q sources.Query, count int, candidates []sources.Candidate) {
	if len(candidates) == 0 {
		return
	}
	if data, err := json.Marshal(candidates); err == nil {
		e.cache.Set(candidateCacheKey(tag, q, count), data)
	}
}

func candidateCacheKey(tag string, q sources.Query, count int) string {
	return fmt.Sprintf("%s|%s|%s|%d|%d", tag, q.Text, q.Sorting, q.Page, count)
}

// sanitizeTitle reduces a candidate title to a filename-safe segment:
// alphanumerics and spaces only, at most 30 runes, spaces as underscores.
func sanitizeTitle(title string) string {
	var b strings.Builder
	taken := 0
	for _, r := range title {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' {
			continue
		}
		b.WriteRune(r)
		taken++
		if taken >= 30 {
			break
		}
	}
	s := strings.TrimSpace(b.String())
	if s == "" {
		return "image"
	}
	return strings.ReplaceAll(s, " ", "_")
}

// shortID truncates a remote id to the eight characters embedded in the
// filename. Reconciliation tolerates this truncation.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func extFromURL(downloadURL string) string {
	u, err := url.Parse(downloadURL)
	if err != nil {
		return ".jpg"
	}
	switch ext := strings.ToLower(filepath.Ext(u.Path)); ext {
	case ".jpg", ".jpeg", ".png", ".bmp":
		return ext
	default:
		return ".jpg"
	}
}

// samePath compares background paths leniently: full cleaned paths first,
// then base names, because some platforms report the active wallpaper
// through a copied or re-rooted path.
func samePath(a, b string) bool {
	if strings.EqualFold(filepath.Clean(a), filepath.Clean(b)) {
		return true
	}
	return strings.EqualFold(filepath.Base(a), filepath.Base(b))
}

func poolIndex(files []PoolFile, path string) (int, bool) {
	for i, f := range files {
		if samePath(f.Path, path) {
			return i, true
		}
	}
	return 0, false
}
