// Package fs provides a file-based frame source for offline runs: detection
// frames recorded as JSON files are replayed through the node as if they had
// arrived over the wire.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/wsu-pmp/object-detection-node/internal/domain"
	"github.com/wsu-pmp/object-detection-node/internal/ports"
	"github.com/wsu-pmp/object-detection-node/pkg/log"
)

// ReplaySource implements ports.FrameSource over a directory of frame JSON
// files. Existing files are delivered in lexical order; unless constructed
// in once mode, the directory is then watched and newly created files are
// delivered as they land.
//
// Writers are expected to drop files atomically (write to a temp name, then
// rename into the directory).
type ReplaySource struct {
	dir     string
	once    bool
	logger  log.Logger
	watcher *fsnotify.Watcher

	pending []string
	seen    map[string]bool
}

// NewReplaySource scans dir for *.json frame files and, unless once is set,
// starts watching for new ones.
func NewReplaySource(dir string, once bool, logger log.Logger) (*ReplaySource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read replay dir: %w", err)
	}

	s := &ReplaySource{
		dir:    dir,
		once:   once,
		logger: logger,
		seen:   make(map[string]bool),
	}
	for _, e := range entries {
		if e.IsDir() || !isFrameFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		s.pending = append(s.pending, path)
		s.seen[path] = true
	}
	sort.Strings(s.pending)

	if !once {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("create watcher: %w", err)
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watch replay dir: %w", err)
		}
		s.watcher = watcher
	}

	return s, nil
}

// Next returns the next replayable frame. Unreadable or malformed files are
// logged and skipped. In once mode Next returns ports.ErrNoMoreFrames when
// the directory is drained; otherwise it blocks for new files.
func (s *ReplaySource) Next(ctx context.Context) (domain.ObjectFrame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.ObjectFrame{}, err
		}

		if len(s.pending) > 0 {
			path := s.pending[0]
			s.pending = s.pending[1:]

			frame, err := loadFrame(path)
			if err != nil {
				s.logger.Warn("skipping frame file",
					log.String("path", path),
					log.Err(err),
				)
				continue
			}
			return frame, nil
		}

		if s.once {
			return domain.ObjectFrame{}, ports.ErrNoMoreFrames
		}

		select {
		case <-ctx.Done():
			return domain.ObjectFrame{}, ctx.Err()
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return domain.ObjectFrame{}, ports.ErrNoMoreFrames
			}
			s.observe(ev)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return domain.ObjectFrame{}, ports.ErrNoMoreFrames
			}
			s.logger.Warn("replay watcher", log.Err(err))
		}
	}
}

// observe queues a newly appeared frame file. Create and Rename both fire
// for the atomic write-then-rename drop pattern; the seen map keeps a file
// from being replayed twice.
func (s *ReplaySource) observe(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	if !isFrameFile(filepath.Base(ev.Name)) || s.seen[ev.Name] {
		return
	}
	s.pending = append(s.pending, ev.Name)
	s.seen[ev.Name] = true
}

// Close stops the watcher if one is running.
func (s *ReplaySource) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

func isFrameFile(name string) bool {
	return strings.HasSuffix(name, ".json") && !strings.HasPrefix(name, ".")
}

// loadFrame reads and decodes one recorded frame file. The file layout is
// the same JSON schema the UDP transport uses.
func loadFrame(path string) (domain.ObjectFrame, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.ObjectFrame{}, err
	}
	var r domain.FrameRecord
	if err := json.Unmarshal(b, &r); err != nil {
		return domain.ObjectFrame{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return r.ToFrame(), nil
}
