/*
DESCRIPTION
  ffmpeg.go provides an implementation of Source for anything ffmpeg can
  decode, such as video files, network streams and webcams.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ffmpeg provides an implementation of Source that decodes video
// with an ffmpeg process.
package ffmpeg

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	mjpeg "github.com/ausocean/parkwatch/codec/jpeg"
	"github.com/ausocean/parkwatch/device"
	"github.com/ausocean/parkwatch/monitor/config"
	"github.com/ausocean/utils/logging"
)

// Used to indicate package in logging.
const pkg = "ffmpeg: "

// Binary is the ffmpeg executable used by new sources.
var Binary = "ffmpeg"

// FFmpeg is an implementation of the Source interface that uses an ffmpeg
// process to transcode its input to MJPEG, which is read from a pipe.
type FFmpeg struct {
	path      string
	log       logging.Logger
	p         *proc
	loop      bool
	fps       uint
	isRunning bool
	mu        sync.Mutex
}

// proc is one run of the ffmpeg process.
type proc struct {
	cmd    *exec.Cmd
	out    io.ReadCloser
	s      *mjpeg.Scanner
	stderr chan struct{} // Closed once stderr has been read to the end.
	last   string        // Last line written to stderr.

	once sync.Once
	err  error
}

// wait waits for the process to exit, after stderr has been drained, and
// returns its exit error. It may be called more than once.
func (p *proc) wait() error {
	p.once.Do(func() {
		<-p.stderr
		p.err = p.cmd.Wait()
	})
	return p.err
}

// New returns a new FFmpeg reading from path.
func New(l logging.Logger, path string) *FFmpeg {
	return &FFmpeg{log: l, path: path, loop: true}
}

// Name returns the name of the device.
func (f *FFmpeg) Name() string {
	return "FFmpeg"
}

// Set considers the SinglePass and FileFPS fields of c. Devices such as
// /dev/video0 are never looped.
func (f *FFmpeg) Set(c config.Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loop = !c.SinglePass && !isDevice(f.path)
	f.fps = c.FileFPS
	return nil
}

// Args returns the ffmpeg arguments used to decode the source.
func (f *FFmpeg) Args() []string {
	var args []string
	if f.loop {
		args = append(args, "-stream_loop", "-1")
	}
	args = append(args, "-i", f.path)
	if f.fps != 0 {
		args = append(args, "-r", fmt.Sprint(f.fps))
	}
	return append(args, "-f", "mjpeg", "-q:v", "3", "-loglevel", "error", "-")
}

// Start will build the required arguments for ffmpeg and then execute the
// command, piping video output where we can read using the Frame method.
func (f *FFmpeg) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.isRunning {
		return nil
	}

	args := f.Args()
	f.log.Info(pkg+"ffmpeg args", "args", strings.Join(args, " "))
	p := &proc{cmd: exec.Command(Binary, args...), stderr: make(chan struct{})}

	var err error
	p.out, err = p.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create pipe: %w", err)
	}

	stderr, err := p.cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("could not pipe command error: %w", err)
	}

	f.log.Info(pkg + "starting ffmpeg")
	err = p.cmd.Start()
	if err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	p.s = mjpeg.NewScanner(p.out)
	f.p = p
	f.isRunning = true

	go f.logStderr(p, stderr)

	f.log.Info(pkg+"ffmpeg started", "path", f.path)
	return nil
}

// logStderr logs each line ffmpeg writes to stderr until the pipe closes.
func (f *FFmpeg) logStderr(p *proc, r io.Reader) {
	defer close(p.stderr)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		p.last = sc.Text()
		f.log.Error(pkg+"error from ffmpeg stderr", "error", p.last)
	}
}

// Stop will kill the ffmpeg process and wait for it to exit.
func (f *FFmpeg) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.isRunning {
		return nil
	}
	f.isRunning = false
	if f.p == nil {
		return errors.New("ffmpeg process was never started")
	}
	err := f.p.cmd.Process.Kill()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("could not kill ffmpeg process: %w", err)
	}
	f.p.out.Close()
	f.p.wait()
	return nil
}

// Frame implements Source. If the ffmpeg output ends because the process
// failed, or ends at all while looping, the returned error describes the
// exit. Otherwise the end of the output is reported as io.EOF, as it is once
// the source is stopped.
func (f *FFmpeg) Frame() (image.Image, error) {
	f.mu.Lock()
	p := f.p
	running := f.isRunning
	loop := f.loop
	f.mu.Unlock()
	if !running || p == nil {
		return nil, errors.New("ffmpeg not streaming")
	}

	b, err := p.s.Next()
	switch {
	case err == nil:
	case !f.IsRunning():
		return nil, io.EOF
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return nil, f.end(p, loop)
	default:
		return nil, fmt.Errorf("could not read ffmpeg output: %w", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: could not decode jpeg: %v", device.ErrNoFrame, err)
	}
	return img, nil
}

// end returns the error for the end of the output of p.
func (f *FFmpeg) end(p *proc, loop bool) error {
	err := p.wait()
	if !f.IsRunning() {
		return io.EOF
	}
	switch {
	case err != nil && p.last != "":
		return fmt.Errorf("ffmpeg exited: %w: %s", err, p.last)
	case err != nil:
		return fmt.Errorf("ffmpeg exited: %w", err)
	case loop:
		return errors.New("ffmpeg output ended while looping")
	}
	return io.EOF
}

// IsRunning is used to determine if the ffmpeg process is running.
func (f *FFmpeg) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isRunning
}

func isDevice(path string) bool {
	return strings.HasPrefix(path, "/dev/")
}
