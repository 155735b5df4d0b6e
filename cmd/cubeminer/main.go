// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package main

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	. "github.com/flokiorg/cube-miner/common"
	"github.com/flokiorg/cube-miner/mining"
	"github.com/flokiorg/cube-miner/mining/algo"
	"github.com/flokiorg/cube-miner/mining/algo/common"
	"github.com/flokiorg/cube-miner/nonce"
	"github.com/flokiorg/cube-miner/store"
	"github.com/flokiorg/cube-miner/utils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "cubeminer.conf"
	defaultLogFilename    = "cubeminer.log"
)

var (
	parser *flags.Parser
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {

	var cfg Config
	parser = flags.NewParser(&cfg, flags.Default|flags.PassDoubleDash)
	parser.SubcommandsOptional = true

	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}

	if cfg.Version {
		fmt.Println("Version:", utils.Version)
		return
	}

	if parser.Active == nil {
		exitWithError("a command is required", nil)
	}

	configFilepath, err := utils.GetFullPath(defaultConfigFilename)
	if err != nil {
		exitWithError("unexpected error", err)
	}
	if opt := parser.FindOptionByShortName('c'); !optionDefined(opt) && utils.FileExists(configFilepath) {
		cfg.ConfigFile = configFilepath
	}

	if cfg.ConfigFile != "" {
		err := flags.NewIniParser(parser).ParseFile(cfg.ConfigFile)
		if err != nil {
			exitWithError("Failed to parse configuration file", err)
		}
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		exitWithError(fmt.Sprintf("invalid log level: %s", cfg.LogLevel), err)
	}
	zerolog.SetGlobalLevel(level)

	logDir, err := getLogDir(cfg.ConfigFile)
	if err != nil {
		exitWithError("failed", err)
	}
	logger := utils.CreateFileLogger(filepath.Join(logDir, defaultLogFilename))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch parser.Active.Name {
	case "search":
		err = runSearch(ctx, &cfg.Search, logger)
	case "verify":
		err = runVerify(ctx, &cfg.Verify)
	case "sweep":
		err = runSweep(ctx, &cfg.Sweep, logger)
	case "serve":
		err = runServe(ctx, &cfg.Serve, logger)
	}
	if err != nil {
		log.Error().Err(err).Msgf("%s failed", parser.Active.Name)
		stop()
		os.Exit(1)
	}
}

func runSearch(ctx context.Context, cfg *SearchCommand, logger zerolog.Logger) error {
	scheme, err := parseScheme(cfg.Mode, cfg.Encoding)
	if err != nil {
		exitWithError("Invalid hash scheme", err)
	}
	threads := validateThreads(cfg.Threads)

	params := common.Params{
		Difficulty:  cfg.Difficulty,
		TargetZeros: cfg.TargetZeros,
		MaxK:        cfg.MaxK,
		MaxMatches:  cfg.MaxMatches,
	}
	if err := params.Validate(); err != nil {
		exitWithError("Invalid search parameters", err)
	}

	var searcher algo.Searcher
	if cfg.Server != "" {
		client, err := dial(&cfg.RemoteOptions)
		if err != nil {
			return err
		}
		defer client.Close()
		searcher = mining.NewRemoteSearcher(client, cfg.Algo, scheme, cfg.MaxRetries, cfg.MaxBackoffSeconds)
	} else {
		searcher, err = localSearcher(&cfg.StrategyOptions, threads, scheme)
		if err != nil {
			return err
		}
		if c, ok := searcher.(io.Closer); ok {
			defer c.Close()
		}
	}

	fmt.Println("\nConfiguration:")
	fmt.Printf("  Strategy: %s\n", searcher.Name())
	fmt.Printf("  Threads: %d\n", threads)
	fmt.Printf("  Scheme: %s\n", scheme)
	fmt.Print("\n\n")

	miner := mining.NewMiner(searcher, cfg.Progress, logger)
	rs, err := miner.Search(ctx, params)
	if err != nil {
		return err
	}
	printResults(rs)

	if cfg.Output != "" {
		if err := store.Save(cfg.Output, store.FromResultSet(searcher.Name(), scheme, params, rs)); err != nil {
			return err
		}
		log.Info().Msgf("results written to %s", cfg.Output)
	}
	return nil
}

func runVerify(ctx context.Context, cfg *VerifyCommand) error {
	if cfg.Input != "" {
		f, err := store.Load(cfg.Input)
		if err != nil {
			return err
		}
		failures, err := f.Verify()
		if err != nil {
			return err
		}
		for _, failure := range failures {
			log.Warn().Uint64("k", failure.Index).Msg(failure.Reason)
		}
		log.Info().Msgf("%d/%d stored nonces verified (%s, d=%d, zeros=%d)", len(f.Matches)-len(failures), len(f.Matches), f.Scheme, f.Difficulty, f.TargetZeros)
		if len(failures) > 0 {
			return fmt.Errorf("%d stored nonces failed verification", len(failures))
		}
		return nil
	}

	if opt := parser.Active.FindOptionByLongName("nonce"); !optionDefined(opt) {
		exitWithError("A nonce (--nonce) or an input file (-i, --input) is required.", nil)
	}
	scheme, err := parseScheme(cfg.Mode, cfg.Encoding)
	if err != nil {
		exitWithError("Invalid hash scheme", err)
	}

	var res nonce.VerificationResult
	if cfg.Server != "" {
		client, err := dial(&cfg.RemoteOptions)
		if err != nil {
			return err
		}
		defer client.Close()
		if res, err = mining.RemoteVerify(ctx, client, cfg.Nonce, cfg.CubeDifficulty, cfg.ZeroDifficulty, scheme, cfg.MaxRetries, cfg.MaxBackoffSeconds); err != nil {
			return err
		}
	} else {
		n, ok := new(big.Int).SetString(cfg.Nonce, 10)
		if !ok {
			exitWithError(fmt.Sprintf("invalid nonce: %s", cfg.Nonce), nil)
		}
		res = nonce.VerifyScheme(n, cfg.CubeDifficulty, cfg.ZeroDifficulty, scheme)
	}

	fmt.Printf("Valid: %v\n", res.Valid)
	fmt.Printf("Reason: %s\n", res.Reason)
	if res.Digest != "" {
		fmt.Printf("Digest: %s\n", res.Digest)
		fmt.Printf("Zeros: %d\n", res.Zeros)
	}
	return nil
}

func runSweep(ctx context.Context, cfg *SweepCommand, logger zerolog.Logger) error {
	scheme, err := parseScheme(cfg.Mode, cfg.Encoding)
	if err != nil {
		exitWithError("Invalid hash scheme", err)
	}
	threads := validateThreads(cfg.Threads)

	steps := mining.DefaultSweepSteps
	if len(cfg.Targets) > 0 {
		if len(cfg.MaxK) != len(cfg.Targets) || len(cfg.MaxMatches) != len(cfg.Targets) {
			exitWithError("--target, --maxk and --matches must be given the same number of times", nil)
		}
		steps = make([]mining.SweepStep, len(cfg.Targets))
		for i := range cfg.Targets {
			steps[i] = mining.SweepStep{TargetZeros: cfg.Targets[i], MaxK: cfg.MaxK[i], MaxMatches: cfg.MaxMatches[i]}
		}
	}
	difficulties := mining.DefaultSweepDifficulties
	if len(cfg.Difficulties) > 0 {
		difficulties = cfg.Difficulties
	}

	searcher, err := localSearcher(&cfg.StrategyOptions, threads, scheme)
	if err != nil {
		return err
	}
	if c, ok := searcher.(io.Closer); ok {
		defer c.Close()
	}

	results, err := mining.NewMiner(searcher, 0, logger).Sweep(ctx, steps, difficulties)
	for _, res := range results {
		if res.Difficulty == 0 {
			fmt.Printf("\nzeros=%d: nothing found up to k=%d\n", res.Step.TargetZeros, res.Step.MaxK)
			continue
		}
		fmt.Printf("\nzeros=%d: found with difficulty %d\n", res.Step.TargetZeros, res.Difficulty)
		printResults(res.Result)

		if cfg.Output != "" {
			path := sweepOutput(cfg.Output, res.Step.TargetZeros)
			params := common.Params{Difficulty: res.Difficulty, TargetZeros: res.Step.TargetZeros, MaxK: res.Step.MaxK, MaxMatches: res.Step.MaxMatches}
			if err := store.Save(path, store.FromResultSet(searcher.Name(), scheme, params, res.Result)); err != nil {
				return err
			}
			log.Info().Msgf("results written to %s", path)
		}
	}
	return err
}

func runServe(ctx context.Context, cfg *ServeCommand, logger zerolog.Logger) error {
	partition, err := utils.ParsePartition(cfg.Partition)
	if err != nil {
		exitWithError("Invalid partition strategy", err)
	}

	server := mining.NewServer(mining.ServerOptions{
		Threads:     validateThreads(cfg.Threads),
		Partition:   partition,
		MaxKLimit:   cfg.MaxK,
		DeviceIndex: cfg.Device,
	}, logger)
	return server.ListenAndServe(ctx, cfg.Listen)
}

func localSearcher(cfg *StrategyOptions, threads uint8, scheme nonce.Scheme) (algo.Searcher, error) {
	partition, err := utils.ParsePartition(cfg.Partition)
	if err != nil {
		exitWithError("Invalid partition strategy", err)
	}

	searcher, err := algo.Parse(cfg.Algo, algo.Options{
		Threads:        threads,
		Scheme:         scheme,
		Partition:      partition,
		BatchSize:      cfg.BatchSize,
		StopOnFirstHit: cfg.FirstHit,
		DisableRescan:  cfg.NoRescan,
		DeviceIndex:    cfg.Device,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid algo %s: %w", cfg.Algo, err)
	}
	return searcher, nil
}

func dial(cfg *RemoteOptions) (*mining.Client, error) {
	server, err := utils.ValidateAndNormalizeURI(cfg.Server, DefaultServerPort)
	if err != nil {
		exitWithError("Invalid server endpoint", err)
	}
	return mining.NewClient(server, cfg.Timeout)
}

func parseScheme(mode, encoding string) (nonce.Scheme, error) {
	if encoding == "" {
		return mining.ParseSchemeOrCanonical(mode)
	}
	return nonce.ParseScheme(mode + "/" + encoding)
}

func validateThreads(threads uint8) uint8 {
	if opt := parser.Active.FindOptionByShortName('t'); !optionDefined(opt) || threads == 0 {
		return common.DefaultThreadsMax
	}
	if threads > common.DefaultThreadsMax {
		log.Warn().Msgf("Threads should not exceed the recommended limit: %d", common.DefaultThreadsMax)
	}
	return threads
}

func printResults(rs *common.ResultSet) {
	fmt.Printf("\n%-4s %-12s %-6s %-64s %s\n", "#", "k", "zeros", "digest", "nonce")
	for i, m := range rs.Matches {
		fmt.Printf("%-4d %-12d %-6d %-64s %s\n", i+1, m.Index, m.Zeros, m.Digest, m.Nonce)
	}
	if best, ok := rs.Best(); ok {
		fmt.Printf("\nbest: k=%d zeros=%d root=%s\n", best.Index, best.Zeros, best.Root)
	}
	fmt.Printf("\nstop: %s | checked: %d | skipped: %d\n\n", rs.Stop, rs.Checked, rs.Skipped)
}

func sweepOutput(output string, zeros int) string {
	ext := filepath.Ext(output)
	return fmt.Sprintf("%s-z%d%s", strings.TrimSuffix(output, ext), zeros, ext)
}

func getLogDir(configPath string) (string, error) {
	if _, err := os.Stat(configPath); err == nil {
		return filepath.Dir(configPath), nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check config file: %w", err)
	}

	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return filepath.Dir(exePath), nil
}

func exitWithError(msg string, err error) {
	log.Error().Err(err).Msg(msg)
	fmt.Println()
	parser.WriteHelp(os.Stdout)
	os.Exit(1)
}

func optionDefined(opt *flags.Option) bool {
	return opt != nil && opt.IsSet()
}
