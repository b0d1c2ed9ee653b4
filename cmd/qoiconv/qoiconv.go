// Copyright 2026 The Qoi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// qoiconv decodes and encodes the QOI (Quite OK Image) lossless image file
// format.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/nigeltao/qoi/internal/nie"
	"github.com/nigeltao/qoi/lib/qoi"
	"golang.org/x/image/bmp"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	decodeFlag     = flag.Bool("decode", false, "whether to decode the input")
	encodeFlag     = flag.Bool("encode", false, "whether to encode the input")
	outputFlag     = flag.String("output", "", "output format")
	channelsFlag   = flag.Int("channels", 0, "channel count to declare when encoding: 0 (auto), 3 or 4")
	colorSpaceFlag = flag.String("colorspace", "srgb", "color space to declare when encoding: srgb or linear")
	strictFlag     = flag.Bool("strict", false, "whether decoding requires a valid end marker")
	verboseFlag    = flag.Bool("v", false, "whether to print a summary to stderr")
)

const usageStr = `qoiconv decodes and encodes the QOI lossless image file format.

Usage: choose one of

    qoiconv -decode [path]
    qoiconv -encode [path]

The path to the input image file is optional. If omitted, stdin is read.

When decoding you can also pass one of these flags (before the path):

    -output=bmp
    -output=nie-bn4
    -output=png (this is the default)
    -strict (reject a missing or malformed end marker)

When encoding you can also pass one of these flags (before the path):

    -output=qoi (this is the default)
    -output=qoi.zst (QOI wrapped in a Zstandard frame)
    -channels=3 or -channels=4 (the default, 0, picks 4 only if needed)
    -colorspace=linear (the default is srgb)

Pass -v to print a one line summary to stderr.

The output image is written to stdout.

Decode inputs QOI, optionally Zstandard compressed, and outputs BMP/NIE/PNG.
Encode inputs BMP, GIF, JPEG, PNG, QOI, TIFF or WEBP and outputs QOI.
`

var (
	ErrBadChannelsFlag   = errors.New("main: bad -channels flag")
	ErrBadColorSpaceFlag = errors.New("main: bad -colorspace flag")
	ErrBadOutputFlag     = errors.New("main: bad -output flag")
)

// zstdMagic starts every Zstandard frame.
const zstdMagic = "\x28\xB5\x2F\xFD"

func main() {
	if err := main1(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	flag.Usage = func() { os.Stderr.WriteString(usageStr) }
	flag.Parse()

	inFile := os.Stdin
	switch flag.NArg() {
	case 0:
		// No-op.
	case 1:
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		inFile = f
	default:
		return errors.New("too many filenames; the maximum is one")
	}

	c, err := configFromFlags()
	if err != nil {
		return err
	}

	if *decodeFlag && !*encodeFlag {
		return decode(os.Stdout, inFile, c)
	}
	if !*decodeFlag && *encodeFlag {
		return encode(os.Stdout, inFile, c)
	}
	return errors.New("must specify exactly one of -decode, -encode or -help")
}

// config holds the parsed flags.
type config struct {
	output     string
	channels   qoi.Channels
	colorSpace qoi.ColorSpace
	strict     bool

	// summary, if non-nil, receives a one line description of the conversion.
	summary io.Writer
}

func configFromFlags() (c config, retErr error) {
	c.output = *outputFlag
	c.strict = *strictFlag
	if *verboseFlag {
		c.summary = os.Stderr
	}

	switch *channelsFlag {
	case 0:
		// No-op.
	case 3:
		c.channels = qoi.ChannelsRGB
	case 4:
		c.channels = qoi.ChannelsRGBA
	default:
		return config{}, ErrBadChannelsFlag
	}

	switch *colorSpaceFlag {
	case "", "srgb":
		c.colorSpace = qoi.ColorSpaceSRGB
	case "linear":
		c.colorSpace = qoi.ColorSpaceLinear
	default:
		return config{}, ErrBadColorSpaceFlag
	}
	return c, nil
}

func decode(w io.Writer, r io.Reader, c config) error {
	switch c.output {
	case "", "bmp", "nie-bn4", "png":
		// No-op.
	default:
		return ErrBadOutputFlag
	}

	src, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	srcLen := len(src)
	if bytes.HasPrefix(src, []byte(zstdMagic)) {
		if src, err = unzstd(src); err != nil {
			return err
		}
	}

	m, err := qoi.DecodeImage(src, &qoi.DecodeOptions{RequireEndMarker: c.strict})
	if err != nil {
		return err
	}

	cw := &countingWriter{w: w}
	switch c.output {
	case "bmp":
		err = bmp.Encode(cw, m.NRGBA())
	case "nie-bn4":
		var dst []byte
		if dst, err = nie.EncodeBN4(m); err == nil {
			_, err = cw.Write(dst)
		}
	default:
		err = png.Encode(cw, m.NRGBA())
	}
	if err != nil {
		return err
	}
	c.printSummary(m.Header, srcLen, cw.n)
	return nil
}

func encode(w io.Writer, r io.Reader, c config) error {
	switch c.output {
	case "", "qoi", "qoi.zst":
		// No-op.
	default:
		return ErrBadOutputFlag
	}

	cr := &countingReader{r: r}
	src, _, err := image.Decode(cr)
	if err != nil {
		return err
	}

	var options *qoi.EncodeOptions
	if c.channels != 0 {
		options = &qoi.EncodeOptions{Channels: c.channels, ColorSpace: c.colorSpace}
	} else if c.colorSpace != qoi.ColorSpaceSRGB {
		options = &qoi.EncodeOptions{ColorSpace: c.colorSpace}
	}
	m, err := qoi.FromImage(src, options)
	if err != nil {
		return err
	}
	dst, err := qoi.EncodeImage(m)
	if err != nil {
		return err
	}
	if c.output == "qoi.zst" {
		if dst, err = zstdCompress(dst); err != nil {
			return err
		}
	}

	if _, err := w.Write(dst); err != nil {
		return err
	}
	c.printSummary(m.Header, cr.n, len(dst))
	return nil
}

func (c config) printSummary(h qoi.Header, inLen int, outLen int) {
	if c.summary == nil {
		return
	}
	fmt.Fprintf(c.summary, "qoiconv: %d×%d, %d channels, color space %d, %d bytes in, %d bytes out\n",
		h.Width, h.Height, h.Channels, h.ColorSpace, inLen, outLen)
}

func zstdCompress(src []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(src, nil), nil
}

func unzstd(src []byte) ([]byte, error) {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
	)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(src, nil)
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
