package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

const defaultDebounce = 150 * time.Millisecond

var (
	photoExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	movieExts = map[string]bool{".mov": true, ".mp4": true, ".mjpeg": true, ".avi": true}
)

// DirOptions configures a DirLibrary.
type DirOptions struct {
	// Access is the initial authorization. NotDetermined prompts on first use.
	Access AuthorizationStatus
	// GrantOnPrompt is the answer a prompt gives.
	GrantOnPrompt bool
	// Debounce groups bursts of file events into one change.
	Debounce time.Duration
}

// DirLibrary is a Library backed by a directory. Photos and movies sharing a
// base name form a live photo. Assets are ordered newest first.
type DirLibrary struct {
	dir    string
	opts   DirOptions
	logger *slog.Logger

	mu      sync.Mutex
	access  AuthorizationStatus
	assets  []Asset
	subs    map[int]func(Change)
	nextSub int

	scanMu sync.Mutex
}

// OpenDir creates dir if needed and reads its current contents.
func OpenDir(dir string, opts DirOptions, logger *slog.Logger) (*DirLibrary, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("library: create %s: %w", dir, err)
	}
	l := &DirLibrary{
		dir:    dir,
		opts:   opts,
		logger: logger.With("component", "library", "dir", dir),
		access: opts.Access,
		subs:   make(map[int]func(Change)),
	}
	assets, err := scanDir(dir)
	if err != nil {
		return nil, err
	}
	l.assets = assets
	return l, nil
}

// Dir returns the backing directory.
func (l *DirLibrary) Dir() string { return l.dir }

func (l *DirLibrary) AuthorizationStatus() AuthorizationStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.access
}

func (l *DirLibrary) RequestAuthorization(done func(AuthorizationStatus)) {
	l.mu.Lock()
	if l.access == AuthorizationNotDetermined {
		if l.opts.GrantOnPrompt {
			l.access = AuthorizationAuthorized
		} else {
			l.access = AuthorizationDenied
		}
		l.logger.Info("library authorization resolved", "status", l.access.String())
	}
	st := l.access
	l.mu.Unlock()
	go done(st)
}

func (l *DirLibrary) PerformChanges(req CreateRequest, done func(Asset, error)) {
	a, err := l.create(req)
	if err == nil {
		l.Rescan()
	}
	go done(a, err)
}

func (l *DirLibrary) create(req CreateRequest) (Asset, error) {
	if l.AuthorizationStatus() != AuthorizationAuthorized {
		return Asset{}, ErrNotAuthorized
	}
	id := uuid.NewString()
	switch {
	case len(req.Photo) > 0:
		photo := filepath.Join(l.dir, id+".jpg")
		if req.PairedMovie != "" {
			movie := filepath.Join(l.dir, id+movieExt(req.PairedMovie))
			if err := copyFileAtomic(req.PairedMovie, movie); err != nil {
				return Asset{}, fmt.Errorf("library: store paired movie: %w", err)
			}
		}
		if err := writeFileAtomic(photo, req.Photo); err != nil {
			return Asset{}, fmt.Errorf("library: store photo: %w", err)
		}
		kind := KindPhoto
		if req.PairedMovie != "" {
			kind = KindLivePhoto
		}
		return Asset{ID: id, Kind: kind, Path: photo}, nil
	case req.Video != "":
		movie := filepath.Join(l.dir, id+movieExt(req.Video))
		if err := copyFileAtomic(req.Video, movie); err != nil {
			return Asset{}, fmt.Errorf("library: store video: %w", err)
		}
		return Asset{ID: id, Kind: KindVideo, Path: movie}, nil
	}
	return Asset{}, ErrEmptyRequest
}

func movieExt(path string) string {
	if ext := strings.ToLower(filepath.Ext(path)); movieExts[ext] {
		return ext
	}
	return ".mov"
}

func (l *DirLibrary) Assets() []Asset {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Asset(nil), l.assets...)
}

func (l *DirLibrary) Subscribe(fn func(Change)) func() {
	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	l.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, id)
			l.mu.Unlock()
		})
	}
}

// Rescan reads the directory and notifies subscribers when it changed.
func (l *DirLibrary) Rescan() {
	l.scanMu.Lock()
	defer l.scanMu.Unlock()
	after, err := scanDir(l.dir)
	if err != nil {
		l.logger.Error("library scan failed", "error", err)
		return
	}
	l.mu.Lock()
	before := l.assets
	l.assets = after
	subs := make([]func(Change), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.mu.Unlock()

	diff := ComputeDiff(before, after)
	if diff.IsEmpty() {
		return
	}
	l.logger.Debug("library changed",
		"removed", len(diff.Removed), "inserted", len(diff.Inserted),
		"changed", len(diff.Changed), "moved", len(diff.Moves))
	c := Change{Before: before, After: after, Diff: diff}
	for _, fn := range subs {
		fn(c)
	}
}

// Watch rescans after file system changes until ctx ends.
func (l *DirLibrary) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("library: new watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(l.dir); err != nil {
		return fmt.Errorf("library: watch %s: %w", l.dir, err)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if isTempName(filepath.Base(ev.Name)) || ev.Op == fsnotify.Chmod {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(l.opts.Debounce, l.Rescan)
			} else {
				timer.Reset(l.opts.Debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn("library watcher error", "error", err)
		}
	}
}

func isTempName(name string) bool {
	return strings.HasPrefix(name, ".")
}

func scanDir(dir string) ([]Asset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("library: read %s: %w", dir, err)
	}
	type pair struct {
		photo, movie       string
		photoInfo, movInfo os.FileInfo
	}
	byBase := make(map[string]*pair)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || isTempName(name) {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if !photoExts[ext] && !movieExts[ext] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		base := strings.TrimSuffix(name, filepath.Ext(name))
		p := byBase[base]
		if p == nil {
			p = &pair{}
			byBase[base] = p
		}
		if photoExts[ext] {
			p.photo, p.photoInfo = filepath.Join(dir, name), info
		} else {
			p.movie, p.movInfo = filepath.Join(dir, name), info
		}
	}

	assets := make([]Asset, 0, len(byBase))
	for base, p := range byBase {
		switch {
		case p.photo != "" && p.movie != "":
			mod := p.photoInfo.ModTime()
			if p.movInfo.ModTime().After(mod) {
				mod = p.movInfo.ModTime()
			}
			assets = append(assets, Asset{ID: base, Kind: KindLivePhoto, Path: p.photo, PairedMovie: p.movie,
				Modified: mod, Size: p.photoInfo.Size() + p.movInfo.Size()})
		case p.photo != "":
			assets = append(assets, Asset{ID: base, Kind: KindPhoto, Path: p.photo,
				Modified: p.photoInfo.ModTime(), Size: p.photoInfo.Size()})
		default:
			assets = append(assets, Asset{ID: base, Kind: KindVideo, Path: p.movie,
				Modified: p.movInfo.ModTime(), Size: p.movInfo.Size()})
		}
	}
	sort.Slice(assets, func(i, j int) bool {
		if !assets[i].Modified.Equal(assets[j].Modified) {
			return assets[i].Modified.After(assets[j].Modified)
		}
		return assets[i].ID < assets[j].ID
	})
	return assets, nil
}

// writeFileAtomic writes through a hidden temporary file and renames it so
// watchers never see a partial asset.
func writeFileAtomic(dst string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	return commitTemp(tmp, dst)
}

func copyFileAtomic(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	return commitTemp(tmp, dst)
}

func commitTemp(tmp *os.File, dst string) error {
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return errors.Join(fmt.Errorf("rename to %s", dst), err)
	}
	return nil
}

var (
	_ Library    = (*DirLibrary)(nil)
	_ Observable = (*DirLibrary)(nil)
)
