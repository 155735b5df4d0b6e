// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package mining

import (
	"context"

	. "github.com/flokiorg/cube-miner/mining/algo/common"
	"github.com/flokiorg/cube-miner/nonce"
)

// RemoteSearcher delegates searches to a cubeminer server.
type RemoteSearcher struct {
	client            ClientService
	strategy          string
	scheme            nonce.Scheme
	maxRetries        int
	maxBackoffSeconds float64
}

func NewRemoteSearcher(client ClientService, strategy string, scheme nonce.Scheme, maxRetries int, maxBackoffSeconds float64) *RemoteSearcher {
	return &RemoteSearcher{
		client:            client,
		strategy:          strategy,
		scheme:            scheme,
		maxRetries:        maxRetries,
		maxBackoffSeconds: maxBackoffSeconds,
	}
}

func (r *RemoteSearcher) Name() string {
	return "remote/" + r.strategy
}

func (r *RemoteSearcher) Search(ctx context.Context, p Params, stats *Stats) (*ResultSet, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	reply, err := r.client.Search(ctx, requestFromParams(p, r.strategy, r.scheme), r.maxRetries, r.maxBackoffSeconds)
	if err != nil {
		if ctx.Err() != nil {
			return &ResultSet{Stop: StopCancelled}, nil
		}
		return nil, err
	}

	rs, err := resultSetFromReply(reply)
	if err != nil {
		return nil, err
	}
	if stats != nil {
		stats.Checked.Add(rs.Checked)
		stats.Skipped.Add(rs.Skipped)
	}
	return rs, nil
}

// RemoteVerify checks a nonce on the server.
func RemoteVerify(ctx context.Context, client ClientService, n string, cubeDifficulty, zeroDifficulty uint64, scheme nonce.Scheme, maxRetries int, maxBackoffSeconds float64) (nonce.VerificationResult, error) {
	reply, err := client.Verify(ctx, verifyRequest(n, cubeDifficulty, zeroDifficulty, scheme), maxRetries, maxBackoffSeconds)
	if err != nil {
		return nonce.VerificationResult{}, err
	}
	return nonce.VerificationResult{
		Valid:  reply.Valid,
		Digest: reply.Digest,
		Zeros:  int(reply.Zeros),
		Reason: reply.Reason,
	}, nil
}
