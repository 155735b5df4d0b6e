// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

import "time"

const (
	DefaultServerPort = 9900
)

// StrategyOptions select and tune the search strategy.
type StrategyOptions struct {
	Algo      string `short:"a" long:"algo" default:"cpu" description:"Search strategy (cpu, gpu, opencl)"`
	Threads   uint8  `short:"t" long:"threads" description:"Number of threads to use (default: all available threads)"`
	Mode      string `short:"m" long:"mode" default:"double" description:"Hash mode (single, double)"`
	Encoding  string `short:"e" long:"encoding" description:"Preimage encoding (minimal, prefixed, fixed); defaults to the mode's canonical encoding"`
	Partition string `long:"partition" default:"uniform" description:"CPU work partitioning (uniform, adaptive)"`
	BatchSize uint32 `long:"batch" description:"GPU batch size in indices"`
	FirstHit  bool   `long:"firsthit" description:"GPU: stop after the first batch with a hit"`
	NoRescan  bool   `long:"norescan" description:"GPU: do not rescan saturated batches"`
	Device    int    `long:"device" description:"OpenCL device index"`
}

// RemoteOptions point a command at a cubeminer server.
type RemoteOptions struct {
	Server            string        `short:"s" long:"server" description:"Run against a cubeminer server host:port instead of locally"`
	Timeout           time.Duration `long:"timeout" default:"10s" description:"GRPC dial timeout (e.g., 5s, 1m)"`
	MaxRetries        int           `long:"retryMaxAttempts" default:"5" description:"Maximum number of retry attempts before giving up"`
	MaxBackoffSeconds float64       `long:"retryMaxBackoff" default:"30" description:"Maximum backoff time in seconds before retrying"`
}

type SearchCommand struct {
	StrategyOptions
	RemoteOptions

	Difficulty  uint64        `short:"d" long:"difficulty" default:"630" description:"Cube difficulty: roots are multiples of it"`
	TargetZeros int           `short:"z" long:"zeros" default:"6" description:"Required leading zero hex digits"`
	MaxK        uint64        `short:"k" long:"maxk" default:"1000000" description:"Largest index k to evaluate"`
	MaxMatches  int           `short:"n" long:"matches" default:"5" description:"Stop after this many matches"`
	Output      string        `short:"o" long:"output" description:"Write the results to a .yaml or .json file"`
	Progress    time.Duration `long:"progress" default:"1s" description:"Progress log interval, 0 disables"`
}

type VerifyCommand struct {
	RemoteOptions

	Nonce          string `long:"nonce" description:"Decimal nonce to verify"`
	Input          string `short:"i" long:"input" description:"Re-verify every nonce of a results file"`
	CubeDifficulty uint64 `short:"d" long:"difficulty" default:"1" description:"Cube difficulty"`
	ZeroDifficulty uint64 `short:"z" long:"zeros" description:"Required leading zero hex digits"`
	Mode           string `short:"m" long:"mode" default:"double" description:"Hash mode (single, double)"`
	Encoding       string `short:"e" long:"encoding" description:"Preimage encoding (minimal, prefixed, fixed)"`
}

type SweepCommand struct {
	StrategyOptions

	Targets      []int    `long:"target" description:"Zero targets to sweep (default: 5 6 7 8)"`
	MaxK         []uint64 `long:"maxk" description:"Index bound per target"`
	MaxMatches   []int    `long:"matches" description:"Match cap per target"`
	Difficulties []uint64 `long:"difficulty" description:"Difficulties tried in order for each target (default: 10 5 3 2 1)"`
	Output       string   `short:"o" long:"output" description:"Write the results to a .yaml or .json file"`
}

type ServeCommand struct {
	Listen    string `short:"l" long:"listen" default:":9900" description:"Address to serve the gRPC API on"`
	Threads   uint8  `short:"t" long:"threads" description:"Threads per search (default: all available threads)"`
	Partition string `long:"partition" default:"uniform" description:"CPU work partitioning (uniform, adaptive)"`
	MaxK      uint64 `long:"maxkLimit" default:"100000000" description:"Largest max_k a request may ask for"`
	Device    int    `long:"device" description:"OpenCL device index"`
}

type Config struct {
	ConfigFile string `short:"c" long:"config" description:"Path to configuration file"`
	LogLevel   string `long:"loglevel" default:"info" description:"Log level (debug, info, warn, error)"`
	Version    bool   `short:"v" description:"Print version"`

	Search SearchCommand `command:"search" description:"Search cube nonces with enough leading zero digits"`
	Verify VerifyCommand `command:"verify" description:"Verify a nonce or a results file"`
	Sweep  SweepCommand  `command:"sweep" description:"Search increasing zero targets, trying several difficulties"`
	Serve  ServeCommand  `command:"serve" description:"Serve search and verify over gRPC"`
}
