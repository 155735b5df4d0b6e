// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

// Package sha256 is a SHA-256 implementation that hashes single message
// blocks as plain 32-bit words, the way a GPU kernel does.
package sha256

import "encoding/binary"

const (
	// Size is the size of a SHA-256 digest in bytes.
	Size = 32

	// BlockSize is the SHA-256 block size in bytes.
	BlockSize = 64

	// MaxSingleBlockMessage is the longest message that still fits one
	// padded block (64 - 1 marker byte - 8 length bytes).
	MaxSingleBlockMessage = BlockSize - 9
)

// IV is the initial SHA-256 chaining value.
var IV = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// digest is a streaming SHA-256 state for messages longer than one block.
type digest struct {
	h   [8]uint32
	x   [BlockSize]byte
	nx  int
	len uint64
}

func newDigest() *digest {
	return &digest{h: IV}
}

func (d *digest) Write(p []byte) (int, error) {
	n := len(p)
	d.len += uint64(n)
	if d.nx > 0 {
		c := copy(d.x[d.nx:], p)
		d.nx += c
		if d.nx == BlockSize {
			blockBytes(&d.h, d.x[:])
			d.nx = 0
		}
		p = p[c:]
	}
	for len(p) >= BlockSize {
		blockBytes(&d.h, p[:BlockSize])
		p = p[BlockSize:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
	return n, nil
}

func (d *digest) checkSum() [Size]byte {
	length := d.len
	var tmp [BlockSize + 8]byte
	tmp[0] = 0x80
	var t uint64
	if length%BlockSize < 56 {
		t = 56 - length%BlockSize
	} else {
		t = BlockSize + 56 - length%BlockSize
	}
	binary.BigEndian.PutUint64(tmp[t:], length<<3)
	d.Write(tmp[:t+8])

	return WordsToBytes(d.h)
}

// Sum256 returns the SHA-256 digest of data.
func Sum256(data []byte) [Size]byte {
	if len(data) <= MaxSingleBlockMessage {
		blk, _ := PadBlock(data)
		return WordsToBytes(SumBlock(&blk))
	}
	d := newDigest()
	d.Write(data)
	return d.checkSum()
}

// DoubleSum256 returns SHA-256 applied to the raw digest of SHA-256(data).
func DoubleSum256(data []byte) [Size]byte {
	first := Sum256(data)
	blk, _ := PadBlock(first[:])
	return WordsToBytes(SumBlock(&blk))
}

// WordsToBytes serialises a chaining value as a big-endian digest.
func WordsToBytes(h [8]uint32) [Size]byte {
	var out [Size]byte
	for i, w := range h {
		binary.BigEndian.PutUint32(out[i*4:], w)
	}
	return out
}
