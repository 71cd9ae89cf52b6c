/*
NAME
  lex.go

DESCRIPTION
  lex.go provides a scanner to extract separate JPEG images from a JPEG stream.
  This could either be a series of descrete JPEG images, or an MJPEG stream.

AUTHOR
  Dan Kortschak <dan@ausocean.org>
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package jpeg provides splitting of MJPEG byte streams into JPEG images.
package jpeg

import (
	"bufio"
	"errors"
	"io"
)

// MaxFrameSize is the largest JPEG image a Scanner will buffer.
const MaxFrameSize = 32 << 20

// ErrFrameTooLarge is returned when an image exceeds MaxFrameSize.
var ErrFrameTooLarge = errors.New("jpeg frame exceeds maximum size")

// Scanner reads successive JPEG images from an MJPEG stream.
type Scanner struct {
	r *bufio.Reader
}

// NewScanner returns a Scanner reading from src.
func NewScanner(src io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(src)}
}

// Next returns the next JPEG image, from its start of image marker to the
// matching end of image marker. Embedded images, such as EXIF thumbnails,
// are kept within their parent. Bytes before a start of image marker are
// discarded. Next returns io.EOF when the stream ends between images and
// io.ErrUnexpectedEOF when it ends within one.
func (s *Scanner) Next() ([]byte, error) {
	err := s.seekStart()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 2, 4<<10)
	buf[0], buf[1] = 0xff, 0xd8
	nImg := 1

	var last byte
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}

		buf = append(buf, b)
		if len(buf) > MaxFrameSize {
			return nil, ErrFrameTooLarge
		}

		if last == 0xff && b == 0xd8 {
			nImg++
		}

		if last == 0xff && b == 0xd9 {
			nImg--
		}

		if nImg == 0 {
			return buf, nil
		}

		last = b
	}
}

// seekStart consumes bytes up to and including the next start of image
// marker.
func (s *Scanner) seekStart() error {
	var last byte
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return err
		}
		if last == 0xff && b == 0xd8 {
			return nil
		}
		last = b
	}
}
