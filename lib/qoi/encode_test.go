// Copyright 2026 The Qoi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package qoi

import (
	"bytes"
	"errors"
	"testing"
)

// newRow returns a width × 1 image holding pixels.
func newRow(channels Channels, pixels ...Pixel) *Image {
	return &Image{
		Header: Header{
			Width:      uint32(len(pixels)),
			Height:     1,
			Channels:   channels,
			ColorSpace: ColorSpaceSRGB,
		},
		Pix: pixels,
	}
}

func mustEncode(t *testing.T, m *Image) []byte {
	t.Helper()
	enc, err := EncodeImage(m)
	if err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	return enc
}

// chunkStream returns the bytes between the header and the end marker.
func chunkStream(t *testing.T, enc []byte) []byte {
	t.Helper()
	if len(enc) < (HeaderLen + len(EndMarker)) {
		t.Fatalf("encoding is too short: %d bytes", len(enc))
	}
	if got := string(enc[len(enc)-len(EndMarker):]); got != EndMarker {
		t.Fatalf("end marker: got % 02X", got)
	}
	return enc[HeaderLen : len(enc)-len(EndMarker)]
}

func TestEncodeHeader(t *testing.T) {
	m, err := NewImage(100, 200, ChannelsRGBA, ColorSpaceLinear)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	enc := mustEncode(t, m)

	want := []byte{'q', 'o', 'i', 'f', 0, 0, 0, 100, 0, 0, 0, 200, 4, 1}
	if got := enc[:HeaderLen]; !bytes.Equal(got, want) {
		t.Fatalf("got % 02X, want % 02X", got, want)
	}
}

func TestEncodeRunSplitting(t *testing.T) {
	pixels := make([]Pixel, 130)
	for i := range pixels {
		pixels[i] = startPixel
	}
	enc := mustEncode(t, newRow(ChannelsRGBA, pixels...))

	want := []byte{
		TagRun | 61, // run 62
		TagRun | 61, // run 62
		TagRun | 5,  // run 6
	}
	if got := chunkStream(t, enc); !bytes.Equal(got, want) {
		t.Fatalf("got %08b, want %08b", got, want)
	}
}

func TestEncode(t *testing.T) {
	red := Pixel{128, 0, 0, 255}
	green := Pixel{0, 127, 0, 255}

	testCases := []struct {
		name   string
		pixels []Pixel
		want   []byte
	}{{
		name:   "rgb",
		pixels: []Pixel{red},
		want:   []byte{TagRGB, 128, 0, 0},
	}, {
		name:   "rgba",
		pixels: []Pixel{{0, 0, 0, 128}},
		want:   []byte{TagRGBA, 0, 0, 0, 128},
	}, {
		name:   "index",
		pixels: []Pixel{red, green, red},
		want: []byte{
			TagRGB, 128, 0, 0,
			TagRGB, 0, 127, 0,
			TagIndex | 53,
		},
	}, {
		name:   "run then rgb",
		pixels: []Pixel{red, red, red, red, {128, 129, 0, 255}},
		want: []byte{
			TagRGB, 128, 0, 0,
			TagRun | 2,
			TagRGB, 128, 129, 0,
		},
	}, {
		name: "max length run",
		pixels: func() []Pixel {
			p := make([]Pixel, 64)
			for i := range p {
				p[i] = red
			}
			return p
		}(),
		want: []byte{
			TagRGB, 128, 0, 0,
			TagRun | 61,
			TagRun | 0,
		},
	}, {
		// The start pixel is cached by the run, so it is an INDEX afterwards.
		name:   "index after run of the start pixel",
		pixels: []Pixel{startPixel, startPixel, {127, 0, 0, 255}, startPixel},
		want: []byte{
			TagRun | 1,
			TagRGB, 127, 0, 0,
			TagIndex | 53,
		},
	}, {
		name:   "run at the end",
		pixels: []Pixel{red, green, green},
		want: []byte{
			TagRGB, 128, 0, 0,
			TagRGB, 0, 127, 0,
			TagRun | 0,
		},
	}, {
		name:   "alpha change with identical rgb",
		pixels: []Pixel{{10, 20, 30, 255}, {10, 20, 30, 128}},
		want: []byte{
			TagRGB, 10, 20, 30,
			TagRGBA, 10, 20, 30, 128,
		},
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			enc := mustEncode(t, newRow(ChannelsRGBA, tc.pixels...))
			if got := chunkStream(t, enc); !bytes.Equal(got, tc.want) {
				t.Fatalf("got %08b, want %08b", got, tc.want)
			}
		})
	}
}

func TestEncodeThreeChannelsIgnoresAlpha(t *testing.T) {
	opaque := mustEncode(t, newRow(ChannelsRGB, Pixel{1, 2, 3, 255}, Pixel{9, 9, 9, 255}))
	transparent := mustEncode(t, newRow(ChannelsRGB, Pixel{1, 2, 3, 0}, Pixel{9, 9, 9, 17}))
	if !bytes.Equal(opaque, transparent) {
		t.Fatalf("got % 02X, want % 02X", transparent, opaque)
	}
	for _, b := range chunkStream(t, transparent) {
		if b == TagRGBA {
			t.Fatalf("3-channel encoding contains an RGBA chunk: % 02X", transparent)
		}
	}
}

func TestEncodeEndMarker(t *testing.T) {
	enc := mustEncode(t, newRow(ChannelsRGBA, Pixel{1, 2, 3, 4}))
	if got := enc[len(enc)-8:]; !bytes.Equal(got, []byte{0, 0, 0, 0, 0, 0, 0, 1}) {
		t.Fatalf("got % 02X", got)
	}
}

func TestEncodeMaxEncodedLen(t *testing.T) {
	// Alternating alpha makes every pixel an RGBA chunk, the worst case.
	m, err := NewImage(7, 3, ChannelsRGBA, ColorSpaceSRGB)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	for i := range m.Pix {
		m.Pix[i] = Pixel{uint8(i * 40), uint8(i * 90), uint8(i * 13), uint8(1 + (i % 2))}
	}
	enc := mustEncode(t, m)
	if got, want := len(enc), MaxEncodedLen(m.Header); got != want {
		t.Fatalf("len: got %d, want %d", got, want)
	}
}

func TestEncodeValidation(tt *testing.T) {
	testCases := []struct {
		name string
		m    *Image
		want error
	}{{
		name: "nil",
		m:    nil,
		want: ErrNilImage,
	}, {
		name: "zero width",
		m:    &Image{Header: Header{Width: 0, Height: 1, Channels: ChannelsRGBA}},
		want: ErrZeroDimension,
	}, {
		name: "zero height",
		m:    &Image{Header: Header{Width: 1, Height: 0, Channels: ChannelsRGBA}},
		want: ErrZeroDimension,
	}, {
		name: "too few pixels",
		m:    &Image{Header: Header{Width: 2, Height: 2, Channels: ChannelsRGBA}, Pix: make([]Pixel, 3)},
		want: ErrPixelCountMismatch,
	}, {
		name: "too many pixels",
		m:    &Image{Header: Header{Width: 2, Height: 2, Channels: ChannelsRGB}, Pix: make([]Pixel, 5)},
		want: ErrPixelCountMismatch,
	}, {
		name: "bad channels",
		m:    &Image{Header: Header{Width: 1, Height: 1, Channels: 2}, Pix: make([]Pixel, 1)},
		want: ErrInvalidChannels,
	}, {
		name: "bad color space",
		m:    &Image{Header: Header{Width: 1, Height: 1, Channels: ChannelsRGB, ColorSpace: 2}, Pix: make([]Pixel, 1)},
		want: ErrInvalidColorSpace,
	}}

	for _, tc := range testCases {
		enc, err := EncodeImage(tc.m)
		if !errors.Is(err, tc.want) {
			tt.Errorf("tc=%q: got %v, want %v", tc.name, err, tc.want)
			continue
		}
		var ve ValidationError
		if !errors.As(err, &ve) {
			tt.Errorf("tc=%q: %v is not a ValidationError", tc.name, err)
		}
		if enc != nil {
			tt.Errorf("tc=%q: got %d bytes, want nil", tc.name, len(enc))
		}
	}
}

func TestNewImage(t *testing.T) {
	if _, err := NewImage(0, 5, ChannelsRGB, ColorSpaceSRGB); !errors.Is(err, ErrZeroDimension) {
		t.Fatalf("zero width: got %v, want %v", err, ErrZeroDimension)
	}
	m, err := NewImage(3, 2, ChannelsRGB, ColorSpaceLinear)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	if len(m.Pix) != 6 {
		t.Fatalf("len(Pix): got %d, want 6", len(m.Pix))
	}
	m.SetPixel(2, 1, Pixel{1, 2, 3, 4})
	if got := m.Pix[5]; got != (Pixel{1, 2, 3, 4}) {
		t.Fatalf("SetPixel: got %v", got)
	}
	if got := m.PixelAt(2, 1); got != (Pixel{1, 2, 3, 4}) {
		t.Fatalf("PixelAt: got %v", got)
	}
}
