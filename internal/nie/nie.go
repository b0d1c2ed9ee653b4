// Copyright 2026 The Qoi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package nie implements the NIE (Naive) image file format.
//
// It is an incomplete implementation (and hence an internal package), only
// providing the 8 bits per channel, non-premultiplied BGRA variant ("bn4")
// that the github.com/nigeltao/qoi module uses as a raw pixel dump.
//
// NIE is specified at
// https://github.com/google/wuffs/blob/main/doc/spec/nie-spec.md
package nie

import (
	"errors"
	"image"
	"image/color"
)

// MagicBN4 is the byte string prefix of every NIE bn4 file.
const MagicBN4 = "\x6E\xC3\xAF\x45\xFFbn4"

const headerLen = 16

var (
	ErrBadArgument     = errors.New("nie: bad argument")
	ErrNotANIEFile     = errors.New("nie: not a NIE bn4 file")
	ErrImageIsTooLarge = errors.New("nie: image is too large")
)

// NRGBAImage is an image that can report non-premultiplied colors directly,
// such as *image.NRGBA or *qoi.Image.
type NRGBAImage interface {
	image.Image
	NRGBAAt(x int, y int) color.NRGBA
}

// EncodeBN4 encodes m as a NIE file in BGRA order, non-premultiplied alpha, 4
// bytes per pixel (8 bits per channel).
func EncodeBN4(m image.Image) (ret []byte, retErr error) {
	if m == nil {
		return nil, ErrBadArgument
	}
	b := m.Bounds()
	if (b.Dx() > 0x7FFFFFFF) || (b.Dy() > 0x7FFFFFFF) {
		return nil, ErrImageIsTooLarge
	}

	ret = make([]byte, 0, headerLen+(4*b.Dx()*b.Dy()))
	ret = append(ret, MagicBN4...)
	ret = appendU32LE(ret, uint32(b.Dx()))
	ret = appendU32LE(ret, uint32(b.Dy()))

	if m, ok := m.(NRGBAImage); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				at := m.NRGBAAt(x, y)
				ret = append(ret, at.B, at.G, at.R, at.A)
			}
		}
		return ret, nil
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			at := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			ret = append(ret, at.B, at.G, at.R, at.A)
		}
	}
	return ret, nil
}

// DecodeBN4 decodes a NIE bn4 file.
func DecodeBN4(src []byte) (*image.NRGBA, error) {
	if (len(src) < headerLen) || (string(src[:len(MagicBN4)]) != MagicBN4) {
		return nil, ErrNotANIEFile
	}
	width := readU32LE(src[8:])
	height := readU32LE(src[12:])
	if (width > 0x7FFFFFFF) || (height > 0x7FFFFFFF) {
		return nil, ErrNotANIEFile
	} else if uint64(len(src)-headerLen) != (4 * uint64(width) * uint64(height)) {
		return nil, ErrNotANIEFile
	}

	m := image.NewNRGBA(image.Rect(0, 0, int(width), int(height)))
	p := src[headerLen:]
	for i := 0; i < len(p); i += 4 {
		m.Pix[i+0] = p[i+2]
		m.Pix[i+1] = p[i+1]
		m.Pix[i+2] = p[i+0]
		m.Pix[i+3] = p[i+3]
	}
	return m, nil
}

func appendU32LE(b []byte, u uint32) []byte {
	return append(b,
		uint8(u>>0),
		uint8(u>>8),
		uint8(u>>16),
		uint8(u>>24),
	)
}

func readU32LE(b []byte) uint32 {
	return (uint32(b[0]) << 0) |
		(uint32(b[1]) << 8) |
		(uint32(b[2]) << 16) |
		(uint32(b[3]) << 24)
}
