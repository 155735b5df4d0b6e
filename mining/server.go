// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package mining

import (
	"context"
	"errors"
	"io"
	"math/big"
	"net"
	"time"

	"github.com/flokiorg/cube-miner/mining/algo"
	. "github.com/flokiorg/cube-miner/mining/algo/common"
	"github.com/flokiorg/cube-miner/mining/pb"
	"github.com/flokiorg/cube-miner/nonce"
	"github.com/flokiorg/cube-miner/utils"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

type ServerOptions struct {
	Threads     uint8
	Partition   utils.PartitionFunc
	MaxKLimit   uint64
	DeviceIndex int
}

// Server exposes search and verification over gRPC. Every Search request
// runs its own search with the requested strategy and scheme.
type Server struct {
	pb.UnimplementedMinerServer

	opts   ServerOptions
	logger zerolog.Logger
	health *health.Server
}

func NewServer(opts ServerOptions, logger zerolog.Logger) *Server {
	return &Server{
		opts:   opts,
		logger: logger,
		health: health.NewServer(),
	}
}

func (s *Server) Search(ctx context.Context, req *pb.SearchRequest) (*pb.SearchReply, error) {
	scheme, err := ParseSchemeOrCanonical(req.Scheme)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if s.opts.MaxKLimit > 0 && req.MaxK > s.opts.MaxKLimit {
		return nil, status.Errorf(codes.InvalidArgument, "max_k %d exceeds the server limit %d", req.MaxK, s.opts.MaxKLimit)
	}

	searcher, err := algo.Parse(req.Strategy, algo.Options{
		Threads:     s.opts.Threads,
		Scheme:      scheme,
		Partition:   s.opts.Partition,
		DeviceIndex: s.opts.DeviceIndex,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	if c, ok := searcher.(io.Closer); ok {
		defer c.Close()
	}

	rs, err := NewMiner(searcher, 0, s.logger).Search(ctx, paramsFromRequest(req))
	if err != nil {
		return nil, toStatus(err)
	}
	if rs.Stop == StopCancelled && ctx.Err() != nil {
		return nil, status.FromContextError(ctx.Err()).Err()
	}
	return replyFromResultSet(rs), nil
}

func (s *Server) Verify(ctx context.Context, req *pb.VerifyRequest) (*pb.VerifyReply, error) {
	n, ok := new(big.Int).SetString(req.Nonce, 10)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "invalid nonce %q", req.Nonce)
	}
	scheme, err := ParseSchemeOrCanonical(req.Scheme)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	res := nonce.VerifyScheme(n, req.CubeDifficulty, uint64(req.ZeroDifficulty), scheme)
	return &pb.VerifyReply{
		Valid:  res.Valid,
		Digest: res.Digest,
		Zeros:  uint32(res.Zeros),
		Reason: res.Reason,
	}, nil
}

// Register adds the Miner and health services to g.
func (s *Server) Register(g *grpc.Server) {
	pb.RegisterMinerServer(g, s)
	healthpb.RegisterHealthServer(g, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
}

// Serve runs a gRPC server on lis until ctx is done.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	g := grpc.NewServer()
	s.Register(g)

	go func() {
		<-ctx.Done()
		s.health.Shutdown()
		stopped := make(chan struct{})
		go func() {
			g.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(5 * time.Second):
			g.Stop()
		}
	}()

	s.logger.Info().Msgf("serving on %s", lis.Addr())
	if err := g.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, ErrInvalidParams), errors.Is(err, ErrUnsupportedAlgo):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrDeviceUnavailable):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
