// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package nonce

import (
	"encoding/hex"
	"errors"
	"math/big"

	"github.com/flokiorg/cube-miner/hash/sha256"
)

const (
	ReasonValid             = "Valid!"
	ReasonNotCube           = "not a perfect cube"
	ReasonNotDivisible      = "cube root not divisible by difficulty"
	ReasonInsufficientZeros = "insufficient leading zeros"
	ReasonInvalidDifficulty = "invalid cube difficulty"
	ReasonOutsideDomain     = "nonce outside encoding domain"
)

// VerificationResult reports why a nonce was accepted or rejected. Digest
// and Zeros are only set once the cube checks passed.
type VerificationResult struct {
	Valid  bool
	Digest string
	Zeros  int
	Root   *big.Int
	Reason string
}

// Verify checks a nonce under the canonical scheme of mode.
func Verify(nonce *big.Int, cubeDifficulty, zeroDifficulty uint64, mode Mode) VerificationResult {
	return VerifyScheme(nonce, cubeDifficulty, zeroDifficulty, CanonicalScheme(mode))
}

// VerifyScheme checks that nonce is a perfect cube whose root is a multiple
// of cubeDifficulty and whose digest has at least zeroDifficulty leading
// zero hex digits.
func VerifyScheme(nonce *big.Int, cubeDifficulty, zeroDifficulty uint64, scheme Scheme) VerificationResult {
	if cubeDifficulty == 0 {
		return VerificationResult{Reason: ReasonInvalidDifficulty}
	}

	isCube, root := CubeRoot(nonce)
	if !isCube {
		return VerificationResult{Reason: ReasonNotCube}
	}

	if new(big.Int).Rem(root, new(big.Int).SetUint64(cubeDifficulty)).Sign() != 0 {
		return VerificationResult{Root: root, Reason: ReasonNotDivisible}
	}

	digest, err := scheme.Digest(nonce)
	if err != nil {
		if errors.Is(err, ErrDomainOverflow) {
			return VerificationResult{Root: root, Reason: ReasonOutsideDomain}
		}
		return VerificationResult{Root: root, Reason: err.Error()}
	}

	res := VerificationResult{
		Digest: hex.EncodeToString(digest[:]),
		Zeros:  sha256.LeadingZeroNibbles(digest[:]),
		Root:   root,
	}
	if uint64(res.Zeros) < zeroDifficulty {
		res.Reason = ReasonInsufficientZeros
		return res
	}

	res.Valid = true
	res.Reason = ReasonValid
	return res
}
