// Copyright 2026 The Qoi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package qoi

// EncodeImage returns the QOI encoding of m.
//
// The only errors are ValidationErrors describing why m is malformed. Every
// pixel value is representable, so encoding never fails part way through.
//
// For a 3-channel image, every pixel's alpha is treated as 0xFF.
func EncodeImage(m *Image) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	e := encoder{
		state: newState(),
		dst:   make([]byte, 0, MaxEncodedLen(m.Header)),
	}
	e.dst = AppendHeader(e.dst, m.Header)

	if m.Channels == ChannelsRGB {
		for _, p := range m.Pix {
			p.A = 0xFF
			e.encodePixel(p)
		}
	} else {
		for _, p := range m.Pix {
			e.encodePixel(p)
		}
	}
	e.flushRun()

	return append(e.dst, EndMarker...), nil
}

type encoder struct {
	state
	dst []byte
	run uint8
}

func (e *encoder) encodePixel(p Pixel) {
	if p == e.prev {
		e.run++
		if e.run == maxRunLength {
			e.flushRun()
		}
		e.emit(p)
		return
	}

	e.flushRun()
	e.dst = appendChunk(e.dst, e.choose(p))
	e.emit(p)
}

func (e *encoder) flushRun() {
	if e.run > 0 {
		e.dst = appendChunk(e.dst, chunk{kind: chunkRun, n: e.run})
		e.run = 0
	}
}
