// Copyright 2026 The Qoi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package qoi

// DefaultMaxPixels is the largest Width × Height that DecodeImage accepts when
// DecodeOptions.MaxPixels is zero. At the worst case of 5 bytes per pixel, it
// bounds the input at 2GB.
const DefaultMaxPixels = 400_000_000

// DecodeOptions are optional arguments to DecodeImage. The zero value is valid
// and means to use the default configuration.
type DecodeOptions struct {
	// RequireEndMarker means that the bytes after the last chunk must be
	// exactly the EndMarker. By default, decoding stops once every pixel is
	// known and whatever follows is ignored.
	RequireEndMarker bool

	// MaxPixels bounds the Width × Height declared in the header, checked
	// before any pixel memory is allocated. Zero means DefaultMaxPixels.
	MaxPixels uint64
}

// DecodeImage decodes the QOI byte stream src.
//
// options may be nil, which means to use the default configuration.
//
// All errors are FormatErrors. In particular, a chunk stream that ends before
// Width × Height pixels are decoded is ErrTruncated.
func DecodeImage(src []byte, options *DecodeOptions) (*Image, error) {
	h, err := ParseHeader(src)
	if err != nil {
		return nil, err
	}

	maxPixels := uint64(DefaultMaxPixels)
	if (options != nil) && (options.MaxPixels != 0) {
		maxPixels = options.MaxPixels
	}
	if h.PixelCount() > maxPixels {
		return nil, ErrImageTooLarge
	}

	m := &Image{
		Header: h,
		Pix:    make([]Pixel, h.PixelCount()),
	}
	d := decoder{
		state: newState(),
		src:   src,
		pos:   HeaderLen,
	}
	if err := d.decode(m.Pix); err != nil {
		return nil, err
	}

	if (options != nil) && options.RequireEndMarker &&
		(string(src[d.pos:]) != EndMarker) {
		return nil, ErrBadEndMarker
	}
	return m, nil
}

type decoder struct {
	state
	src []byte
	pos int
}

// decode fills dst from the chunk stream, one chunk per iteration.
func (d *decoder) decode(dst []Pixel) error {
	for i := 0; i < len(dst); {
		if d.pos >= len(d.src) {
			return ErrTruncated
		}
		b0 := d.src[d.pos]
		d.pos++
		p := d.prev

		switch {
		case b0 == TagRGB:
			if (len(d.src) - d.pos) < 3 {
				return ErrTruncated
			}
			s := d.src[d.pos : d.pos+3]
			p.R, p.G, p.B = s[0], s[1], s[2]
			d.pos += 3

		case b0 == TagRGBA:
			if (len(d.src) - d.pos) < 4 {
				return ErrTruncated
			}
			s := d.src[d.pos : d.pos+4]
			p = Pixel{s[0], s[1], s[2], s[3]}
			d.pos += 4

		case (b0 & tagMask) == TagIndex:
			p = d.cache.lookup(b0)

		case (b0 & tagMask) == TagDiff:
			p.R += ((b0 >> 4) & 0x03) - 2
			p.G += ((b0 >> 2) & 0x03) - 2
			p.B += ((b0 >> 0) & 0x03) - 2

		case (b0 & tagMask) == TagLuma:
			if d.pos >= len(d.src) {
				return ErrTruncated
			}
			b1 := d.src[d.pos]
			d.pos++
			dg := int(b0&0x3F) - 32
			p.R = uint8(int(p.R) + dg + int(b1>>4) - 8)
			p.G = uint8(int(p.G) + dg)
			p.B = uint8(int(p.B) + dg + int(b1&0x0F) - 8)

		default: // TagRun.
			n := min(int(b0&0x3F)+1, len(dst)-i)
			for ; n > 0; n-- {
				dst[i] = p
				d.emit(p)
				i++
			}
			continue
		}

		dst[i] = p
		d.emit(p)
		i++
	}
	return nil
}
