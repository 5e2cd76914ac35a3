package rotation

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"wallshift/internal/structures"
)

// PoolFile is one image in the wallpaper directory.
type PoolFile struct {
	Name    string
	Path    string
	ModTime time.Time
}

type PoolListerInterface interface {
	List() ([]PoolFile, error)
	Dir() string
}

// DirPool lists the wallpaper directory filtered to known image
// extensions, sorted by filename so the sequence prefix yields
// chronological order.
type DirPool struct {
	dir  string
	exts map[string]struct{}
}

func NewDirPool(conf *structures.Config) (PoolListerInterface, error) {
	if err := os.MkdirAll(conf.Rotation.WallpaperDir, 0o755); err != nil {
		return nil, err
	}

	exts := make(map[string]struct{}, len(conf.Rotation.Extensions))
	for _, ext := range conf.Rotation.Extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}

	return &DirPool{dir: conf.Rotation.WallpaperDir, exts: exts}, nil
}

func (p *DirPool) Dir() string {
	return p.dir
}

func (p *DirPool) List() ([]PoolFile, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, err
	}

	files := make([]PoolFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := p.exts[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, PoolFile{
			Name:    entry.Name(),
			Path:    filepath.Join(p.dir, entry.Name()),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// ParseOrdinal extracts the numeric sequence prefix from a filename.
// Exactly four leading digits followed by '_' are required; anything else
// is a legacy or foreign file.
func ParseOrdinal(name string) (uint64, bool) {
	if len(name) < 6 || name[4] != '_' {
		return 0, false
	}
	for i := 0; i < 4; i++ {
		if name[i] < '0' || name[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(name[:4], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NewestByOrdinal returns the file with the highest numeric sequence
// prefix. This is not the same as the alphabetically-last filename, which
// breaks as soon as an unprefixed legacy file coexists in the pool.
func NewestByOrdinal(files []PoolFile) (PoolFile, bool) {
	var newest PoolFile
	var best uint64
	found := false
	for _, f := range files {
		n, ok := ParseOrdinal(f.Name)
		if !ok {
			continue
		}
		if !found || n > best {
			newest = f
			best = n
			found = true
		}
	}
	return newest, found
}

// IDSegment extracts the dedup id embedded in a pool filename: the last
// '_'-separated segment before the extension. IDs longer than eight
// characters were truncated when the filename was built, so matching
// against the ledger uses substring containment in both directions.
func IDSegment(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	idx := strings.LastIndexByte(base, '_')
	if idx < 0 || idx+1 >= len(base) {
		return ""
	}
	return base[idx+1:]
}

// BelongsTo reports whether a pool filename was downloaded from the given
// source, based on the embedded source tag.
func BelongsTo(name, source string) bool {
	return strings.Contains(name, "_"+source+"_")
}
