// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

// Package store persists search results so precomputed nonces can be
// reloaded and checked again later.
package store

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/flokiorg/cube-miner/mining/algo/common"
	"github.com/flokiorg/cube-miner/nonce"
	"gopkg.in/yaml.v3"
)

type Entry struct {
	Index  uint64 `json:"index" yaml:"index"`
	Root   string `json:"root" yaml:"root"`
	Nonce  string `json:"nonce" yaml:"nonce"`
	Digest string `json:"digest" yaml:"digest"`
	Zeros  int    `json:"zeros" yaml:"zeros"`
}

// File is the on-disk form of one search. Big integers are decimal strings.
type File struct {
	Created     time.Time `json:"created" yaml:"created"`
	Searcher    string    `json:"searcher" yaml:"searcher"`
	Scheme      string    `json:"scheme" yaml:"scheme"`
	Difficulty  uint64    `json:"difficulty" yaml:"difficulty"`
	TargetZeros int       `json:"target_zeros" yaml:"target_zeros"`
	MaxK        uint64    `json:"max_k" yaml:"max_k"`
	MaxMatches  int       `json:"max_matches" yaml:"max_matches"`
	Checked     uint64    `json:"checked" yaml:"checked"`
	Skipped     uint64    `json:"skipped" yaml:"skipped"`
	Stop        string    `json:"stop" yaml:"stop"`
	Saturated   int       `json:"saturated,omitempty" yaml:"saturated,omitempty"`
	Matches     []Entry   `json:"matches" yaml:"matches"`
}

func FromResultSet(searcher string, scheme nonce.Scheme, p Params, rs *ResultSet) *File {
	f := &File{
		Created:     time.Now().UTC().Truncate(time.Second),
		Searcher:    searcher,
		Scheme:      scheme.String(),
		Difficulty:  p.Difficulty,
		TargetZeros: p.TargetZeros,
		MaxK:        p.MaxK,
		MaxMatches:  p.MaxMatches,
		Checked:     rs.Checked,
		Skipped:     rs.Skipped,
		Stop:        string(rs.Stop),
		Saturated:   rs.Saturated,
		Matches:     make([]Entry, 0, len(rs.Matches)),
	}
	for _, m := range rs.Matches {
		f.Matches = append(f.Matches, Entry{
			Index:  m.Index,
			Root:   m.Root.String(),
			Nonce:  m.Nonce.String(),
			Digest: m.Digest,
			Zeros:  m.Zeros,
		})
	}
	return f
}

func (f *File) Params() Params {
	return Params{
		Difficulty:  f.Difficulty,
		TargetZeros: f.TargetZeros,
		MaxK:        f.MaxK,
		MaxMatches:  f.MaxMatches,
	}
}

// ResultSet converts the file back into a ResultSet.
func (f *File) ResultSet() (*ResultSet, error) {
	rs := &ResultSet{
		Checked:   f.Checked,
		Skipped:   f.Skipped,
		Stop:      StopReason(f.Stop),
		Saturated: f.Saturated,
		Matches:   make([]Match, 0, len(f.Matches)),
	}
	for _, e := range f.Matches {
		root, ok := new(big.Int).SetString(e.Root, 10)
		if !ok {
			return nil, fmt.Errorf("k=%d: invalid root %q", e.Index, e.Root)
		}
		n, ok := new(big.Int).SetString(e.Nonce, 10)
		if !ok {
			return nil, fmt.Errorf("k=%d: invalid nonce %q", e.Index, e.Nonce)
		}
		rs.Matches = append(rs.Matches, Match{
			Index:  e.Index,
			Root:   root,
			Nonce:  n,
			Digest: e.Digest,
			Zeros:  e.Zeros,
		})
	}
	return rs, nil
}

// Failure is a stored match that no longer verifies.
type Failure struct {
	Index  uint64
	Reason string
}

// Verify checks every stored nonce against the file's difficulty, target and
// scheme. A stored digest or zero count that disagrees with the recomputed
// one is reported too.
func (f *File) Verify() ([]Failure, error) {
	scheme, err := nonce.ParseScheme(f.Scheme)
	if err != nil {
		return nil, err
	}

	var failures []Failure
	for _, e := range f.Matches {
		n, ok := new(big.Int).SetString(e.Nonce, 10)
		if !ok {
			failures = append(failures, Failure{Index: e.Index, Reason: fmt.Sprintf("invalid nonce %q", e.Nonce)})
			continue
		}

		res := nonce.VerifyScheme(n, f.Difficulty, uint64(f.TargetZeros), scheme)
		switch {
		case !res.Valid:
			failures = append(failures, Failure{Index: e.Index, Reason: res.Reason})
		case res.Digest != e.Digest:
			failures = append(failures, Failure{Index: e.Index, Reason: "digest mismatch"})
		case res.Zeros != e.Zeros:
			failures = append(failures, Failure{Index: e.Index, Reason: "zero count mismatch"})
		}
	}
	return failures, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Save writes f to path, as JSON when the extension is .json and YAML
// otherwise.
func Save(path string, f *File) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(f, "", "  ")
	} else {
		data, err = yaml.Marshal(f)
	}
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	f := new(File)
	if isJSON(path) {
		err = json.Unmarshal(data, f)
	} else {
		err = yaml.Unmarshal(data, f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return f, nil
}
