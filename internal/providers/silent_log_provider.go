package providers

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"wallshift/internal/structures"
)

// SilentLogInterface is the append-only diagnostic log for the scheduled
// rotation path. Nothing written here is ever shown in the interactive UI;
// it exists so a broken auto-change can be diagnosed after the fact.
type SilentLogInterface interface {
	Logf(format string, args ...interface{})
	Close() error
}

type SilentLog struct {
	mu  sync.Mutex
	out *lumberjack.Logger
}

func NewSilentLogProvider(conf *structures.Config) SilentLogInterface {
	return &SilentLog{
		out: &lumberjack.Logger{
			Filename:   filepath.Join(conf.Logger.Dir, "rotation.log"),
			MaxSize:    conf.Logger.SilentLogMaxMB,
			MaxBackups: 2,
		},
	}
}

func (s *SilentLog) Logf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "[%s] ", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(s.out, format, args...)
	fmt.Fprintln(s.out)
}

func (s *SilentLog) Close() error {
	return s.out.Close()
}
