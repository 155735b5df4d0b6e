// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package mining

import (
	"fmt"
	"math"
	"math/big"

	. "github.com/flokiorg/cube-miner/mining/algo/common"
	"github.com/flokiorg/cube-miner/mining/pb"
	"github.com/flokiorg/cube-miner/nonce"
)

func paramsFromRequest(req *pb.SearchRequest) Params {
	return Params{
		Difficulty:  req.Difficulty,
		TargetZeros: int(req.TargetZeros),
		MaxK:        req.MaxK,
		MaxMatches:  int(req.MaxMatches),
	}
}

func requestFromParams(p Params, strategy string, scheme nonce.Scheme) *pb.SearchRequest {
	return &pb.SearchRequest{
		Difficulty:  p.Difficulty,
		TargetZeros: uint32(p.TargetZeros),
		MaxK:        p.MaxK,
		MaxMatches:  uint32(p.MaxMatches),
		Strategy:    strategy,
		Scheme:      scheme.String(),
	}
}

func replyFromResultSet(rs *ResultSet) *pb.SearchReply {
	reply := &pb.SearchReply{
		Matches:   make([]*pb.Match, 0, len(rs.Matches)),
		Checked:   rs.Checked,
		Stop:      string(rs.Stop),
		Saturated: uint32(rs.Saturated),
		Skipped:   rs.Skipped,
	}
	for _, m := range rs.Matches {
		reply.Matches = append(reply.Matches, &pb.Match{
			Index:  m.Index,
			Root:   m.Root.String(),
			Nonce:  m.Nonce.String(),
			Digest: m.Digest,
			Zeros:  uint32(m.Zeros),
		})
	}
	return reply
}

func resultSetFromReply(reply *pb.SearchReply) (*ResultSet, error) {
	rs := &ResultSet{
		Matches:   make([]Match, 0, len(reply.Matches)),
		Checked:   reply.Checked,
		Stop:      StopReason(reply.Stop),
		Saturated: int(reply.Saturated),
		Skipped:   reply.Skipped,
	}
	for _, m := range reply.Matches {
		root, ok := new(big.Int).SetString(m.Root, 10)
		if !ok {
			return nil, fmt.Errorf("match %d: invalid root %q", m.Index, m.Root)
		}
		n, ok := new(big.Int).SetString(m.Nonce, 10)
		if !ok {
			return nil, fmt.Errorf("match %d: invalid nonce %q", m.Index, m.Nonce)
		}
		rs.Matches = append(rs.Matches, Match{
			Index:  m.Index,
			Root:   root,
			Nonce:  n,
			Digest: m.Digest,
			Zeros:  int(m.Zeros),
		})
	}
	return rs, nil
}

// ParseSchemeOrCanonical accepts "mode", "mode/encoding" or an empty string,
// which selects double hashing with its canonical encoding.
func ParseSchemeOrCanonical(input string) (nonce.Scheme, error) {
	if input == "" {
		return nonce.CanonicalScheme(nonce.Double), nil
	}
	return nonce.ParseScheme(input)
}

func verifyRequest(n string, cubeDifficulty, zeroDifficulty uint64, scheme nonce.Scheme) *pb.VerifyRequest {
	return &pb.VerifyRequest{
		Nonce:          n,
		CubeDifficulty: cubeDifficulty,
		ZeroDifficulty: uint32(min(zeroDifficulty, math.MaxUint32)),
		Scheme:         scheme.String(),
	}
}
