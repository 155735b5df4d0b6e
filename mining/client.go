// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package mining

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/flokiorg/cube-miner/mining/pb"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

type Client struct {
	conn        *grpc.ClientConn
	miner       pb.MinerClient
	backoffUnit time.Duration
}

// NewClient initializes a new gRPC client
func NewClient(server string, dialTimeout time.Duration, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(server, opts...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to gRPC server")
		return nil, err
	}

	health := healthpb.NewHealthClient(conn)

	// Health check
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	resp, err := health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err == nil && resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		err = fmt.Errorf("server status %s", resp.GetStatus())
	}
	if err != nil {
		conn.Close()
		log.Error().Err(err).Msg("Health check failed, closing connection")
		return nil, fmt.Errorf("health check failed: %w", err)
	}

	log.Info().Msg("client initialized successfully")
	return &Client{
		conn:        conn,
		miner:       pb.NewMinerClient(conn),
		backoffUnit: time.Second,
	}, nil
}

// retry calls fn until it succeeds, fails with a code other than
// Unavailable, or maxRetries retries were spent.
func (c *Client) retry(ctx context.Context, method string, maxRetries int, maxBackoffSeconds float64, fn func() error) error {
	var attempt int

	for {
		err := fn()
		if err == nil {
			return nil
		}
		if status.Code(err) != codes.Unavailable {
			return err
		}

		attempt++
		if attempt > maxRetries {
			log.Error().
				Str("method", method).
				Int("attempts", attempt).
				Err(err).
				Msg("Giving up after multiple attempts")
			return fmt.Errorf("%s failed after %d attempts: %w", method, attempt, err)
		}

		backoff := time.Duration(math.Min(maxBackoffSeconds, math.Pow(2, float64(attempt))) * float64(c.backoffUnit))
		log.Warn().
			Str("method", method).
			Int("attempts", attempt).
			Dur("retry_after", backoff).
			Err(err).
			Msg("Retrying...")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func (c *Client) Search(ctx context.Context, req *pb.SearchRequest, maxRetries int, maxBackoffSeconds float64) (*pb.SearchReply, error) {
	log.Info().
		Uint64("difficulty", req.Difficulty).
		Uint32("zeros", req.TargetZeros).
		Uint64("maxk", req.MaxK).
		Msg("Submitting search...")

	var reply *pb.SearchReply
	err := c.retry(ctx, "search", maxRetries, maxBackoffSeconds, func() (err error) {
		reply, err = c.miner.Search(ctx, req)
		return err
	})
	return reply, err
}

func (c *Client) Verify(ctx context.Context, req *pb.VerifyRequest, maxRetries int, maxBackoffSeconds float64) (*pb.VerifyReply, error) {
	var reply *pb.VerifyReply
	err := c.retry(ctx, "verify", maxRetries, maxBackoffSeconds, func() (err error) {
		reply, err = c.miner.Verify(ctx, req)
		return err
	})
	return reply, err
}

func (c *Client) Close() {
	c.conn.Close()
}
