// Copyright 2026 The Qoi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package qoi

import (
	"image"
	"image/color"
)

// Image is an in-memory QOI image: a Header plus Width × Height pixels in
// row-major order.
//
// It implements image.Image, with bounds anchored at the origin.
type Image struct {
	Header
	Pix []Pixel
}

// NewImage returns an Image with all pixels set to the zero Pixel.
//
// It returns an error if width or height is zero, or if channels or cs is out
// of range.
func NewImage(width uint32, height uint32, channels Channels, cs ColorSpace) (*Image, error) {
	h := Header{
		Width:      width,
		Height:     height,
		Channels:   channels,
		ColorSpace: cs,
	}
	if err := h.validate(); err != nil {
		return nil, err
	}
	return &Image{
		Header: h,
		Pix:    make([]Pixel, h.PixelCount()),
	}, nil
}

func (h Header) validate() error {
	if (h.Width == 0) || (h.Height == 0) {
		return ErrZeroDimension
	} else if !h.Channels.valid() {
		return ErrInvalidChannels
	} else if !h.ColorSpace.valid() {
		return ErrInvalidColorSpace
	}
	return nil
}

// Validate reports whether m can be encoded.
func (m *Image) Validate() error {
	if m == nil {
		return ErrNilImage
	} else if err := m.Header.validate(); err != nil {
		return err
	} else if uint64(len(m.Pix)) != m.PixelCount() {
		return ErrPixelCountMismatch
	}
	return nil
}

// PixelAt returns the pixel at (x, y). It panics if (x, y) is out of bounds.
func (m *Image) PixelAt(x int, y int) Pixel {
	return m.Pix[m.offset(x, y)]
}

// SetPixel sets the pixel at (x, y). It panics if (x, y) is out of bounds.
func (m *Image) SetPixel(x int, y int, p Pixel) {
	m.Pix[m.offset(x, y)] = p
}

func (m *Image) offset(x int, y int) int {
	if (uint(x) >= uint(m.Width)) || (uint(y) >= uint(m.Height)) {
		panic("qoi: pixel coordinates out of bounds")
	}
	return (y * int(m.Width)) + x
}

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(m.Width), int(m.Height))
}

// At implements image.Image. Out-of-bounds coordinates yield transparent
// black, as for the standard library's image types.
func (m *Image) At(x int, y int) color.Color {
	return m.NRGBAAt(x, y)
}

// NRGBAAt is like At but returns a concrete color type.
func (m *Image) NRGBAAt(x int, y int) color.NRGBA {
	if (uint(x) >= uint(m.Width)) || (uint(y) >= uint(m.Height)) {
		return color.NRGBA{}
	}
	return color.NRGBA(m.Pix[(y*int(m.Width))+x])
}

// Opaque reports whether every pixel has full alpha.
func (m *Image) Opaque() bool {
	for _, p := range m.Pix {
		if p.A != 0xFF {
			return false
		}
	}
	return true
}

// NRGBA returns a copy of m as an *image.NRGBA.
func (m *Image) NRGBA() *image.NRGBA {
	dst := image.NewNRGBA(m.Bounds())
	for i, p := range m.Pix {
		dst.Pix[(4*i)+0] = p.R
		dst.Pix[(4*i)+1] = p.G
		dst.Pix[(4*i)+2] = p.B
		dst.Pix[(4*i)+3] = p.A
	}
	return dst
}
