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
	"io"
	"math"
	"os"

	"golang.org/x/image/draw"
)

func init() {
	image.RegisterFormat("qoi", Magic, Decode, DecodeConfig)
}

// ErrDimensionsTooLarge means that an image.Image's bounds do not fit in a
// QOI header.
var ErrDimensionsTooLarge = ValidationError("width or height exceeds 2³²-1")

// DecodeConfig reads a QOI image configuration from r. It reads exactly
// HeaderLen bytes.
func DecodeConfig(r io.Reader) (image.Config, error) {
	buf := [HeaderLen]byte{}
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return image.Config{}, err
	}
	h, err := ParseHeader(buf[:])
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

// Decode reads a QOI image from r. The concrete type of the result is *Image.
func Decode(r io.Reader) (image.Image, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m, err := DecodeImage(src, nil)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// EncodeOptions are optional arguments to Encode and FromImage. The zero value
// is valid and means to use the default configuration.
type EncodeOptions struct {
	// If zero, the default is ChannelsRGB when every source pixel is opaque
	// and ChannelsRGBA otherwise. A source *Image keeps its own Channels.
	Channels Channels

	// ColorSpace is written to the header as is. A source *Image keeps its
	// own ColorSpace unless Channels is also set.
	ColorSpace ColorSpace
}

// Encode writes src to w in the QOI format.
//
// options may be nil, which means to use the default configuration.
func Encode(w io.Writer, src image.Image, options *EncodeOptions) error {
	m, err := FromImage(src, options)
	if err != nil {
		return err
	}
	enc, err := EncodeImage(m)
	if err != nil {
		return err
	}
	_, err = w.Write(enc)
	return err
}

// FromImage converts src to an *Image, un-premultiplying alpha if necessary.
// The result does not share pixel memory with src.
//
// options may be nil, which means to use the default configuration.
func FromImage(src image.Image, options *EncodeOptions) (*Image, error) {
	if src == nil {
		return nil, ErrNilImage
	}
	b := src.Bounds()
	bW, bH := b.Dx(), b.Dy()
	if (bW <= 0) || (bH <= 0) {
		return nil, ErrZeroDimension
	} else if (uint64(bW) > math.MaxUint32) || (uint64(bH) > math.MaxUint32) {
		return nil, ErrDimensionsTooLarge
	}

	m := &Image{
		Header: Header{
			Width:  uint32(bW),
			Height: uint32(bH),
		},
		Pix: make([]Pixel, bW*bH),
	}

	switch src := src.(type) {
	case *Image:
		copy(m.Pix, src.Pix)
		if (options == nil) || (options.Channels == 0) {
			m.Channels = src.Channels
			m.ColorSpace = src.ColorSpace
			options = nil
		}

	case *image.NRGBA:
		copyNRGBA(m.Pix, src, b)

	case *image.RGBA:
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := src.RGBAAt(x, y)
				if c.A == 0xFF {
					m.Pix[i] = Pixel{c.R, c.G, c.B, c.A}
				} else {
					m.Pix[i] = Pixel(color.NRGBAModel.Convert(c).(color.NRGBA))
				}
				i++
			}
		}

	default:
		tmp := image.NewNRGBA(b)
		draw.Draw(tmp, b, src, b.Min, draw.Src)
		copyNRGBA(m.Pix, tmp, b)
	}

	if options != nil {
		m.Channels = options.Channels
		m.ColorSpace = options.ColorSpace
	}
	if m.Channels == 0 {
		m.Channels = ChannelsRGBA
		if m.Opaque() {
			m.Channels = ChannelsRGB
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func copyNRGBA(dst []Pixel, src *image.NRGBA, b image.Rectangle) {
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := src.Pix[src.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			dst[i] = Pixel{row[(4*x)+0], row[(4*x)+1], row[(4*x)+2], row[(4*x)+3]}
			i++
		}
	}
}

// ReadFile reads and decodes the named QOI file.
func ReadFile(name string) (*Image, error) {
	src, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return DecodeImage(src, nil)
}

// WriteFile encodes m and writes it to the named file, creating it if
// necessary.
func WriteFile(name string, m *Image) error {
	enc, err := EncodeImage(m)
	if err != nil {
		return err
	}
	return os.WriteFile(name, enc, 0666)
}
