package repositories

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"loadboard-service/internal/domain"
	"loadboard-service/internal/platform/obs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// FileStateGateway keeps the AppState document in a local JSON file, the
// device-local storage variant. Writes go to a temp file that is renamed
// over the original, and a sibling .lock file serializes access across
// processes (a running server and a dbtool invocation). The flock handle
// is not re-entrant across goroutines, so mu guards in-process access.
type FileStateGateway struct {
	Path string
	mu   sync.Mutex
	lock *flock.Flock
}

func NewFileStateGateway(path string) *FileStateGateway {
	return &FileStateGateway{
		Path: path,
		lock: flock.New(path + ".lock"),
	}
}

func (f *FileStateGateway) Load(ctx context.Context) (_ domain.AppState, err error) {
	defer obs.Time(ctx, "file.state.Load")(&err)

	if err := f.ensureDir(); err != nil {
		return domain.AppState{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.lock.RLock(); err != nil {
		return domain.AppState{}, fmt.Errorf("load app state: lock %q: %w", f.Path, err)
	}
	defer func() { _ = f.lock.Unlock() }()

	b, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.AppState{}, domain.ErrNoState
	}
	if err != nil {
		return domain.AppState{}, fmt.Errorf("load app state: read %q: %w", f.Path, err)
	}

	return domain.DecodeAppState(b)
}

func (f *FileStateGateway) Save(ctx context.Context, state domain.AppState) (err error) {
	defer obs.Time(ctx, "file.state.Save")(&err)

	doc, err := domain.EncodeAppState(state)
	if err != nil {
		return fmt.Errorf("save app state: %w", err)
	}

	if err := f.ensureDir(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("save app state: lock %q: %w", f.Path, err)
	}
	defer func() { _ = f.lock.Unlock() }()

	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, doc, 0o644); err != nil {
		return fmt.Errorf("save app state: write %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save app state: rename %q: %w", tmp, err)
	}

	return nil
}

func (f *FileStateGateway) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("file state gateway: create dir for %q: %w", f.Path, err)
	}
	return nil
}
