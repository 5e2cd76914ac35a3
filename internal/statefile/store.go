package statefile

import (
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"wallshift/internal/models"
	"wallshift/internal/providers"
	"wallshift/internal/structures"
)

const backupSuffix = ".bak.zst"

// StoreInterface is the durable state record. Loaded once at startup,
// saved as a whole file after every mutating step.
type StoreInterface interface {
	State() *models.State
	Save() error
	Reset() error
	Path() string
}

type Store struct {
	path       string
	state      *models.State
	compressor CompressorInterface
	logger     providers.Logger
}

func NewStore(conf *structures.Config, compressor CompressorInterface, logger providers.Logger) (StoreInterface, error) {
	s := &Store{
		path:       conf.Persistence.StatePath,
		compressor: compressor,
		logger:     logger,
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, err
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) State() *models.State {
	return s.state
}

func (s *Store) Path() string {
	return s.path
}

// load reads the state file, falling back to the compressed rollback
// snapshot and finally to defaults. A corrupt file never fails startup.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		s.state = models.NewState()
		return nil
	}

	state, err := decodeState(data)
	if err == nil {
		s.adopt(state)
		return nil
	}
	s.logger.Warnf(providers.TypeState, "State file unreadable, trying rollback snapshot: %s", err)

	if backup, rerr := os.ReadFile(s.path + backupSuffix); rerr == nil {
		if raw, derr := s.compressor.Decompress(backup); derr == nil {
			if state, perr := decodeState(raw); perr == nil {
				s.logger.Warnf(providers.TypeState, "Recovered state from rollback snapshot")
				s.adopt(state)
				return nil
			}
		}
	}

	s.logger.Warnf(providers.TypeState, "No usable state found, starting from defaults")
	s.state = models.NewState()
	return nil
}

func (s *Store) adopt(state *models.State) {
	for _, repair := range state.Normalize() {
		s.logger.Warnf(providers.TypeState, "State repaired: %s", repair)
	}
	s.state = state
}

func decodeState(data []byte) (*models.State, error) {
	var state models.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Save writes the whole state atomically: snapshot the previous file,
// write to a temp file, fsync, rename over the target. A crash mid-write
// can never leave a torn state file behind.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}

	if prev, rerr := os.ReadFile(s.path); rerr == nil {
		if packed, cerr := s.compressor.Compress(prev); cerr == nil {
			if werr := os.WriteFile(s.path+backupSuffix, packed, 0o644); werr != nil {
				s.logger.Warnf(providers.TypeState, "Could not write rollback snapshot: %s", werr)
			}
		}
	}

	tmpFile := s.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, s.path)
}

// Reset re-initializes all persisted fields to defaults. Downloaded files
// are untouched.
func (s *Store) Reset() error {
	s.state = models.NewState()
	return s.Save()
}
