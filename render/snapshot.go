/*
DESCRIPTION
  snapshot.go provides periodic saving of annotated frames to disk.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/anthonynsimon/bild/imgio"
)

// Snapshotter writes the latest annotated frame of each camera to
// <dir>/camera-<id>.png, at most once per interval per camera.
type Snapshotter struct {
	dir      string
	interval time.Duration

	mu   sync.Mutex
	last map[string]time.Time
}

// NewSnapshotter returns a Snapshotter writing to dir, creating it if needed.
func NewSnapshotter(dir string, interval time.Duration) (*Snapshotter, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("could not create snapshot directory: %w", err)
	}
	return &Snapshotter{dir: dir, interval: interval, last: make(map[string]time.Time)}, nil
}

// Path returns the snapshot file of camera.
func (s *Snapshotter) Path(camera string) string {
	return filepath.Join(s.dir, "camera-"+camera+".png")
}

// Due reports whether a snapshot of camera should be taken at now.
func (s *Snapshotter) Due(camera string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.last[camera]
	return !ok || now.Sub(last) >= s.interval
}

// Save writes img as the snapshot of camera if one is due at now. Readers
// never see a partly written file.
func (s *Snapshotter) Save(camera string, img image.Image, now time.Time) (bool, error) {
	if !s.Due(camera, now) {
		return false, nil
	}

	path := s.Path(camera)
	tmp := path + ".tmp"
	err := imgio.Save(tmp, img, imgio.PNGEncoder())
	if err != nil {
		return false, fmt.Errorf("could not save snapshot: %w", err)
	}
	err = os.Rename(tmp, path)
	if err != nil {
		return false, fmt.Errorf("could not move snapshot into place: %w", err)
	}

	s.mu.Lock()
	s.last[camera] = now
	s.mu.Unlock()
	return true, nil
}
