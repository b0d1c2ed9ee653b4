// Copyright 2026 The Qoi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package qoi

const cacheSize = 64

// colorCache is a direct mapped table of previously seen pixels. A slot is
// overwritten whenever a pixel hashes to it. The zero value has every slot set
// to Pixel{0, 0, 0, 0}.
type colorCache [cacheSize]Pixel

func (c *colorCache) lookup(index uint8) Pixel {
	return c[index&(cacheSize-1)]
}

func (c *colorCache) update(p Pixel) {
	c[p.hash()] = p
}

// state is what an encoder and a decoder must agree on after every pixel.
type state struct {
	cache colorCache
	prev  Pixel
}

func newState() state {
	return state{prev: startPixel}
}

// emit records p as the latest pixel. It is called once per output pixel,
// including every pixel of a run.
func (s *state) emit(p Pixel) {
	s.cache.update(p)
	s.prev = p
}
