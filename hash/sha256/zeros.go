// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package sha256

import "math/bits"

// MaxZeroNibbles is the number of hex digits in a digest.
const MaxZeroNibbles = Size * 2

// LeadingZeroNibbles counts the leading '0' hex digits of digest.
func LeadingZeroNibbles(digest []byte) int {
	count := 0
	for _, b := range digest {
		if b == 0 {
			count += 2
			continue
		}
		if b>>4 == 0 {
			count++
		}
		break
	}
	return count
}

// LeadingZeroNibblesWords counts the leading zero hex digits of a digest
// still held as chaining words.
func LeadingZeroNibblesWords(h [8]uint32) int {
	count := 0
	for _, w := range h {
		if w == 0 {
			count += 8
			continue
		}
		count += bits.LeadingZeros32(w) / 4
		break
	}
	return count
}

// HasNibbleZeros reports whether the first target hex digits of the state
// are zero: whole words first, then the remaining high bits of the next one.
func HasNibbleZeros(h [8]uint32, target int) bool {
	if target <= 0 {
		return true
	}
	if target > MaxZeroNibbles {
		return false
	}
	nbits := target * 4
	for i := 0; i < nbits/32; i++ {
		if h[i] != 0 {
			return false
		}
	}
	if rem := nbits % 32; rem != 0 {
		if h[nbits/32]>>(32-rem) != 0 {
			return false
		}
	}
	return true
}
