package cli

import (
	"context"
	"fmt"
	"os"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/on-the-ground/effect_ive_store/examples/scoreboard"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// resultsFile appends one JSON line per recorded result.
type resultsFile struct {
	mu    sync.Mutex
	path  string
	match string
}

func (f *resultsFile) record(_ context.Context, s scoreboard.State) error {
	line, err := json.Marshal(scoreboard.ResultOf(f.match, s))
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open results %s: %w", f.path, err)
	}
	if _, err := fh.Write(append(line, '\n')); err != nil {
		_ = fh.Close()
		return fmt.Errorf("write results %s: %w", f.path, err)
	}
	return fh.Close()
}
