// Copyright 2026 The Qoi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package qoi

// chunkKind enumerates the six chunk encodings, in encoder priority order.
type chunkKind uint8

const (
	chunkRun = chunkKind(iota + 1)
	chunkIndex
	chunkDiff
	chunkLuma
	chunkRGBA
	chunkRGB
)

func (k chunkKind) String() string {
	switch k {
	case chunkRun:
		return "RUN"
	case chunkIndex:
		return "INDEX"
	case chunkDiff:
		return "DIFF"
	case chunkLuma:
		return "LUMA"
	case chunkRGBA:
		return "RGBA"
	case chunkRGB:
		return "RGB"
	}
	return "invalid"
}

// chunk is one encoded unit before serialization.
//
// For chunkRun, n is the run length (1 ..= maxRunLength). For chunkIndex, n is
// the cache slot. For chunkDiff and chunkLuma, dr, dg and db hold the already
// biased fields. For chunkRGB and chunkRGBA, p is the literal pixel.
type chunk struct {
	kind       chunkKind
	n          uint8
	dr, dg, db uint8
	p          Pixel
}

// delta returns cur - prev, wrapped modulo 256 and read as a signed value in
// [-128, 127]. Go defines uint8 subtraction to wrap, so this is identical on
// every platform.
func delta(cur uint8, prev uint8) int {
	return int(int8(cur - prev))
}

// choose picks the chunk for p, given that p differs from s.prev. The guards
// are evaluated in priority order and the first match wins. Runs (the highest
// priority) are accumulated by the encoder loop before choose is called.
func (s *state) choose(p Pixel) chunk {
	if index := p.hash(); s.cache.lookup(index) == p {
		return chunk{kind: chunkIndex, n: index}
	}

	if p.A != s.prev.A {
		return chunk{kind: chunkRGBA, p: p}
	}

	dr := delta(p.R, s.prev.R)
	dg := delta(p.G, s.prev.G)
	db := delta(p.B, s.prev.B)

	if (-2 <= dr) && (dr <= 1) &&
		(-2 <= dg) && (dg <= 1) &&
		(-2 <= db) && (db <= 1) {
		return chunk{
			kind: chunkDiff,
			dr:   uint8(dr + 2),
			dg:   uint8(dg + 2),
			db:   uint8(db + 2),
		}
	}

	drdg, dbdg := dr-dg, db-dg
	if (-32 <= dg) && (dg <= 31) &&
		(-8 <= drdg) && (drdg <= 7) &&
		(-8 <= dbdg) && (dbdg <= 7) {
		return chunk{
			kind: chunkLuma,
			dg:   uint8(dg + 32),
			dr:   uint8(drdg + 8),
			db:   uint8(dbdg + 8),
		}
	}

	return chunk{kind: chunkRGB, p: p}
}

// appendChunk appends the wire encoding of c to dst.
func appendChunk(dst []byte, c chunk) []byte {
	switch c.kind {
	case chunkRun:
		return append(dst, TagRun|(c.n-1))
	case chunkIndex:
		return append(dst, TagIndex|c.n)
	case chunkDiff:
		return append(dst, TagDiff|(c.dr<<4)|(c.dg<<2)|c.db)
	case chunkLuma:
		return append(dst, TagLuma|c.dg, (c.dr<<4)|c.db)
	case chunkRGBA:
		return append(dst, TagRGBA, c.p.R, c.p.G, c.p.B, c.p.A)
	case chunkRGB:
		return append(dst, TagRGB, c.p.R, c.p.G, c.p.B)
	}
	panic("unreachable")
}
