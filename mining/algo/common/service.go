// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

import (
	"context"

	"github.com/flokiorg/cube-miner/mining/pb"
)

type ClientService interface {
	Search(context.Context, *pb.SearchRequest, int, float64) (*pb.SearchReply, error)
	Verify(context.Context, *pb.VerifyRequest, int, float64) (*pb.VerifyReply, error)
}
