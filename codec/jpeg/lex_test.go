/*
NAME
  lex_test.go

DESCRIPTION
  lex_test.go provides testing for the scanner in lex.go.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var jpegTests = []struct {
	name  string
	input []byte
	want  [][]byte
	err   error
}{
	{
		name: "empty",
		err:  io.EOF,
	},
	{
		name:  "null",
		input: []byte{0xff, 0xd8, 0xff, 0xd9},
		want:  [][]byte{{0xff, 0xd8, 0xff, 0xd9}},
		err:   io.EOF,
	},
	{
		name: "full",
		input: []byte{
			0xff, 0xd8, 'f', 'u', 'l', 'l', 0xff, 0xd9,
			0xff, 0xd8, 'f', 'r', 'a', 'm', 'e', 0xff, 0xd9,
			0xff, 0xd8, 'w', 'i', 't', 'h', 0xff, 0xd9,
			0xff, 0xd8, 'l', 'e', 'n', 'g', 't', 'h', 0xff, 0xd9,
			0xff, 0xd8, 's', 'p', 'r', 'e', 'a', 'd', 0xff, 0xd9,
		},
		want: [][]byte{
			{0xff, 0xd8, 'f', 'u', 'l', 'l', 0xff, 0xd9},
			{0xff, 0xd8, 'f', 'r', 'a', 'm', 'e', 0xff, 0xd9},
			{0xff, 0xd8, 'w', 'i', 't', 'h', 0xff, 0xd9},
			{0xff, 0xd8, 'l', 'e', 'n', 'g', 't', 'h', 0xff, 0xd9},
			{0xff, 0xd8, 's', 'p', 'r', 'e', 'a', 'd', 0xff, 0xd9},
		},
		err: io.EOF,
	},
	{
		name: "nested",
		input: []byte{
			0xff, 0xd8, 'a', 0xff, 0xd8, 't', 'h', 'u', 'm', 'b', 0xff, 0xd9, 'b', 0xff, 0xd9,
		},
		want: [][]byte{
			{0xff, 0xd8, 'a', 0xff, 0xd8, 't', 'h', 'u', 'm', 'b', 0xff, 0xd9, 'b', 0xff, 0xd9},
		},
		err: io.EOF,
	},
	{
		name: "leading and trailing garbage",
		input: []byte{
			'x', 'y', 0xff, 0xd8, 'o', 'k', 0xff, 0xd9, 'z', 'z',
		},
		want: [][]byte{{0xff, 0xd8, 'o', 'k', 0xff, 0xd9}},
		err:  io.EOF,
	},
	{
		name: "truncated",
		input: []byte{
			0xff, 0xd8, 'o', 'k', 0xff, 0xd9,
			0xff, 0xd8, 'c', 'u', 't',
		},
		want: [][]byte{{0xff, 0xd8, 'o', 'k', 0xff, 0xd9}},
		err:  io.ErrUnexpectedEOF,
	},
}

func TestScanner(t *testing.T) {
	for _, test := range jpegTests {
		s := NewScanner(bytes.NewReader(test.input))
		var got [][]byte
		var err error
		for {
			var b []byte
			b, err = s.Next()
			if err != nil {
				break
			}
			got = append(got, b)
		}
		if !errors.Is(err, test.err) {
			t.Errorf("unexpected error for %q: got:%v want:%v", test.name, err, test.err)
		}
		if !cmp.Equal(got, test.want) {
			t.Errorf("unexpected result for %q:\ngot :%#v\nwant:%#v", test.name, got, test.want)
		}
	}
}
