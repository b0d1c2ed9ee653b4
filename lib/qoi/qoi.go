// Copyright 2026 The Qoi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package qoi implements the QOI (Quite OK Image) lossless image file format.
//
// A QOI file is a 14 byte header, a sequence of byte-aligned chunks and an 8
// byte end marker. Each chunk encodes one pixel (as a full color, a reference
// into a 64 entry cache of recently seen colors, or a small difference from
// the previous pixel) or a run of up to 62 copies of the previous pixel.
//
// The encoder and decoder each keep their own copy of the color cache and of
// the previous pixel, and must update them identically for every pixel. That
// state is local to each EncodeImage or DecodeImage call, so independent
// images can be processed concurrently.
//
// QOI is specified at https://qoiformat.org/qoi-specification.pdf
package qoi

import (
	"image/color"
)

// Magic is the byte string prefix of every QOI image file.
const Magic = "qoif"

// HeaderLen is the size, in bytes, of a QOI file header.
const HeaderLen = 14

// EndMarker is the byte string that follows the last chunk.
const EndMarker = "\x00\x00\x00\x00\x00\x00\x00\x01"

// Chunk tags. The 8-bit tags (TagRGB and TagRGBA) take precedence over the
// 2-bit tags, whose low 6 bits carry the chunk's payload.
const (
	TagIndex = byte(0b00_000000)
	TagDiff  = byte(0b01_000000)
	TagLuma  = byte(0b10_000000)
	TagRun   = byte(0b11_000000)
	TagRGB   = byte(0b11111110)
	TagRGBA  = byte(0b11111111)

	tagMask = byte(0b11_000000)
)

// maxRunLength is the longest run a single RUN chunk holds. Run lengths 63 and
// 64 would collide with TagRGB and TagRGBA.
const maxRunLength = 62

var (
	ErrBadMagic           = FormatError("bad magic")
	ErrBadChannels        = FormatError("bad channel count")
	ErrBadColorSpace      = FormatError("bad color space")
	ErrBadDimensions      = FormatError("zero width or height")
	ErrBadEndMarker       = FormatError("bad end marker")
	ErrImageTooLarge      = FormatError("image is too large")
	ErrShortHeader        = FormatError("short header")
	ErrTruncated          = FormatError("truncated chunk stream")
	ErrZeroDimension      = ValidationError("zero width or height")
	ErrPixelCountMismatch = ValidationError("pixel count does not match width × height")
	ErrInvalidChannels    = ValidationError("channel count is neither 3 nor 4")
	ErrInvalidColorSpace  = ValidationError("color space is neither 0 nor 1")
	ErrNilImage           = ValidationError("nil image")
)

// A FormatError reports that the input is not a valid QOI byte stream.
type FormatError string

func (e FormatError) Error() string { return "qoi: invalid format: " + string(e) }

// A ValidationError reports that an Image cannot be encoded because it is
// malformed.
type ValidationError string

func (e ValidationError) Error() string { return "qoi: invalid image: " + string(e) }

// Channels is the number of color channels declared in the header. It does not
// change how pixels are held in memory, only whether alpha is meaningful.
type Channels uint8

const (
	ChannelsRGB  = Channels(3)
	ChannelsRGBA = Channels(4)
)

func (c Channels) valid() bool {
	return (c == ChannelsRGB) || (c == ChannelsRGBA)
}

// ColorSpace is carried in the header but never interpreted by this package.
type ColorSpace uint8

const (
	// ColorSpaceSRGB means sRGB color channels with a linear alpha channel.
	ColorSpaceSRGB = ColorSpace(0)
	// ColorSpaceLinear means all channels are linear.
	ColorSpaceLinear = ColorSpace(1)
)

func (c ColorSpace) valid() bool {
	return (c == ColorSpaceSRGB) || (c == ColorSpaceLinear)
}

// Pixel is a non-premultiplied 8-bit-per-channel color. It has the same
// layout as color.NRGBA and implements color.Color.
type Pixel struct {
	R, G, B, A uint8
}

// startPixel is the implicit previous pixel before the first one of an image.
var startPixel = Pixel{0, 0, 0, 0xFF}

// RGBA implements color.Color.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	return color.NRGBA(p).RGBA()
}

// hash returns p's slot in the color cache.
func (p Pixel) hash() uint8 {
	return uint8((uint32(p.R)*3 + uint32(p.G)*5 + uint32(p.B)*7 + uint32(p.A)*11) % cacheSize)
}
