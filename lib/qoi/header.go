// Copyright 2026 The Qoi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package qoi

// Header is the fixed size image descriptor at the start of a QOI file.
type Header struct {
	Width      uint32
	Height     uint32
	Channels   Channels
	ColorSpace ColorSpace
}

// PixelCount returns Width × Height.
func (h Header) PixelCount() uint64 {
	return uint64(h.Width) * uint64(h.Height)
}

// AppendHeader appends the HeaderLen byte encoding of h to dst. It does not
// validate h.
func AppendHeader(dst []byte, h Header) []byte {
	dst = append(dst, Magic...)
	dst = appendU32BE(dst, h.Width)
	dst = appendU32BE(dst, h.Height)
	return append(dst, byte(h.Channels), byte(h.ColorSpace))
}

// ParseHeader decodes the header at the start of src. Any bytes after the
// first HeaderLen are ignored.
func ParseHeader(src []byte) (Header, error) {
	if len(src) < HeaderLen {
		if (len(src) < len(Magic)) || (string(src[:len(Magic)]) != Magic) {
			return Header{}, ErrBadMagic
		}
		return Header{}, ErrShortHeader
	} else if string(src[:len(Magic)]) != Magic {
		return Header{}, ErrBadMagic
	}

	h := Header{
		Width:      readU32BE(src[4:]),
		Height:     readU32BE(src[8:]),
		Channels:   Channels(src[12]),
		ColorSpace: ColorSpace(src[13]),
	}
	if !h.Channels.valid() {
		return Header{}, ErrBadChannels
	} else if !h.ColorSpace.valid() {
		return Header{}, ErrBadColorSpace
	} else if (h.Width == 0) || (h.Height == 0) {
		return Header{}, ErrBadDimensions
	}
	return h, nil
}

// MaxEncodedLen returns the largest number of bytes that EncodeImage can
// produce for an image with header h.
func MaxEncodedLen(h Header) int {
	perPixel := uint64(4)
	if h.Channels == ChannelsRGBA {
		perPixel = 5
	}
	return int(HeaderLen + (h.PixelCount() * perPixel) + uint64(len(EndMarker)))
}

func appendU32BE(b []byte, u uint32) []byte {
	return append(b,
		uint8(u>>24),
		uint8(u>>16),
		uint8(u>>8),
		uint8(u>>0),
	)
}

func readU32BE(b []byte) uint32 {
	_ = b[3] // Early bounds check.
	return (uint32(b[0]) << 24) |
		(uint32(b[1]) << 16) |
		(uint32(b[2]) << 8) |
		(uint32(b[3]) << 0)
}
