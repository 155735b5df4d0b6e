// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package nonce

import (
	stdsha256 "crypto/sha256"
	"encoding/hex"
	"math/big"
	"testing"
)

func TestVerify(t *testing.T) {
	tests := []struct {
		name     string
		nonce    *big.Int
		cubeDiff uint64
		zeroDiff uint64
		mode     Mode
		valid    bool
		reason   string
	}{
		{"eight is two cubed", big.NewInt(8), 2, 0, Single, true, ReasonValid},
		{"nine is not a cube", big.NewInt(9), 1, 0, Single, false, ReasonNotCube},
		{"root not divisible", big.NewInt(27), 2, 0, Single, false, ReasonNotDivisible},
		{"zero difficulty", big.NewInt(8), 0, 0, Single, false, ReasonInvalidDifficulty},
		{"too many zeros", big.NewInt(8), 2, 64, Single, false, ReasonInsufficientZeros},
		{"double mode", big.NewInt(8), 2, 0, Double, true, ReasonValid},
		{"zero nonce", big.NewInt(0), 5, 0, Single, true, ReasonValid},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := Verify(test.nonce, test.cubeDiff, test.zeroDiff, test.mode)
			if res.Valid != test.valid || res.Reason != test.reason {
				t.Fatalf("got valid=%v reason=%q, want valid=%v reason=%q", res.Valid, res.Reason, test.valid, test.reason)
			}
		})
	}
}

func TestVerifyDigest(t *testing.T) {
	res := Verify(big.NewInt(8), 2, 0, Single)
	want := stdsha256.Sum256([]byte{0x08})
	if res.Digest != hex.EncodeToString(want[:]) {
		t.Fatalf("digest %s, want %x", res.Digest, want)
	}
	if res.Root.Int64() != 2 {
		t.Fatalf("root %s", res.Root)
	}

	res = Verify(big.NewInt(8), 2, 0, Double)
	first := stdsha256.Sum256([]byte("HAHA\x08\x00"))
	second := stdsha256.Sum256(first[:])
	if res.Digest != hex.EncodeToString(second[:]) {
		t.Fatalf("double digest %s, want %x", res.Digest, second)
	}
}

func TestVerifyFailureHasNoDigest(t *testing.T) {
	res := Verify(big.NewInt(9), 1, 0, Single)
	if res.Digest != "" || res.Zeros != 0 {
		t.Fatalf("unexpected digest on failed cube check: %+v", res)
	}
}

func TestVerifyOutsideFixedDomain(t *testing.T) {
	// (2^43)^3 = 2^129 does not fit the 128-bit fixed layout
	root := new(big.Int).Lsh(bigOne, 43)
	res := VerifyScheme(Cube(root), 1, 0, Scheme{Encoding: Fixed, Mode: Double})
	if res.Valid || res.Reason != ReasonOutsideDomain {
		t.Fatalf("got %+v", res)
	}

	res = VerifyScheme(Cube(root), 1, 0, CanonicalScheme(Double))
	if !res.Valid {
		t.Fatalf("unbounded encoding must accept %s: %+v", root, res)
	}
}
