/*
DESCRIPTION
  imgdir.go provides an implementation of the Source interface for a
  directory of still images.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package imgdir provides an implementation of Source for directories of
// images, played back in name order.
package imgdir

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ausocean/parkwatch/device"
	"github.com/ausocean/parkwatch/monitor/config"
	"github.com/ausocean/utils/logging"
)

// Extensions lists the file extensions, in lower case, treated as frames.
var Extensions = []string{".png", ".jpg", ".jpeg"}

// Dir is an implementation of the Source interface for a directory of
// images.
type Dir struct {
	dir       string
	files     []string
	next      int
	loop      bool
	isRunning bool
	log       logging.Logger
	mu        sync.Mutex
}

// New returns a new Dir reading images from dir. Playback restarts from the
// first image when exhausted unless Set is called with SinglePass.
func New(l logging.Logger, dir string) *Dir { return &Dir{log: l, dir: dir, loop: true} }

// Name returns the name of the device.
func (d *Dir) Name() string { return "ImageDir" }

// Set considers the SinglePass field of c.
func (d *Dir) Set(c config.Config) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loop = !c.SinglePass
	return nil
}

// Start lists the images of the directory.
func (d *Dir) Start() error {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return fmt.Errorf("could not read image directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(d.dir, e.Name()))
	}
	if len(files) == 0 {
		return fmt.Errorf("no images in %s", d.dir)
	}
	sort.Strings(files)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.files = files
	d.next = 0
	d.isRunning = true
	d.log.Debug("image directory opened", "dir", d.dir, "images", len(files))
	return nil
}

// Stop ends playback.
func (d *Dir) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.isRunning = false
	return nil
}

// IsRunning is used to determine if the directory is being played.
func (d *Dir) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.isRunning
}

// Frame loads the next image. An unreadable image yields an error wrapping
// device.ErrNoFrame.
func (d *Dir) Frame() (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.isRunning {
		return nil, errors.New("image directory not started")
	}

	if d.next == len(d.files) {
		if !d.loop {
			return nil, io.EOF
		}
		d.log.Info("looping image directory", "dir", d.dir)
		d.next = 0
	}

	path := d.files[d.next]
	d.next++
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open %s: %v", device.ErrNoFrame, path, err)
	}
	return img, nil
}

func isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
