// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package gpu

import (
	"context"
	"errors"
	"os"
	"testing"

	. "github.com/flokiorg/cube-miner/mining/algo/common"
	"github.com/flokiorg/cube-miner/mining/algo/cpu"
	"github.com/flokiorg/cube-miner/nonce"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout}).Level(zerolog.InfoLevel)
}

func sameMatches(t *testing.T, a, b *ResultSet) {
	t.Helper()
	if len(a.Matches) != len(b.Matches) {
		t.Fatalf("%d matches vs %d", len(a.Matches), len(b.Matches))
	}
	for i := range a.Matches {
		x, y := a.Matches[i], b.Matches[i]
		if x.Index != y.Index || x.Zeros != y.Zeros || x.Digest != y.Digest ||
			x.Root.Cmp(y.Root) != 0 || x.Nonce.Cmp(y.Nonce) != 0 {
			t.Fatalf("match %d differs: %+v vs %+v", i, x, y)
		}
	}
}

func TestParityWithCPU(t *testing.T) {
	schemes := []nonce.Scheme{
		nonce.CanonicalScheme(nonce.Single),
		nonce.CanonicalScheme(nonce.Double),
		{Encoding: nonce.Fixed, Mode: nonce.Double},
		{Encoding: nonce.Fixed, Mode: nonce.Single},
	}
	params := Params{Difficulty: 630, TargetZeros: 2, MaxK: 5000, MaxMatches: 1000}

	for _, scheme := range schemes {
		t.Run(scheme.String(), func(t *testing.T) {
			want, err := cpu.NewSearcher(cpu.Options{Threads: 4, Scheme: scheme}).Search(context.Background(), params, nil)
			if err != nil {
				t.Fatal(err)
			}
			got, err := NewSearcher(Options{Device: NewSoftwareDevice(4), Scheme: scheme, BatchSize: 777}).Search(context.Background(), params, nil)
			if err != nil {
				t.Fatal(err)
			}
			if got.Stop != want.Stop || got.Checked != want.Checked {
				t.Fatalf("stop %s/%s checked %d/%d", got.Stop, want.Stop, got.Checked, want.Checked)
			}
			if len(want.Matches) == 0 {
				t.Fatal("expected some matches at two zero nibbles")
			}
			sameMatches(t, got, want)
		})
	}
}

func TestSmallestInput(t *testing.T) {
	s := NewSearcher(Options{Device: NewSoftwareDevice(2), Scheme: nonce.CanonicalScheme(nonce.Single)})
	rs, err := s.Search(context.Background(), Params{Difficulty: 1, TargetZeros: 0, MaxK: 1, MaxMatches: 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rs.Matches) != 1 || rs.Matches[0].Index != 1 || rs.Matches[0].Nonce.Int64() != 1 {
		t.Fatalf("unexpected result %+v", rs)
	}
}

func TestSaturatedBatchRescan(t *testing.T) {
	params := Params{Difficulty: 5, TargetZeros: 0, MaxK: 1000, MaxMatches: 5000}

	s := NewSearcher(Options{Device: NewSoftwareDevice(4), Scheme: nonce.CanonicalScheme(nonce.Double), BatchSize: 1000, Capacity: 2})
	rs, err := s.Search(context.Background(), params, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rs.Matches) != 1000 || rs.Saturated != 0 {
		t.Fatalf("rescan lost matches: %d found, %d saturated", len(rs.Matches), rs.Saturated)
	}
}

func TestSaturatedBatchWithoutRescan(t *testing.T) {
	params := Params{Difficulty: 5, TargetZeros: 0, MaxK: 1000, MaxMatches: 5000}

	s := NewSearcher(Options{Device: NewSoftwareDevice(4), Scheme: nonce.CanonicalScheme(nonce.Double), BatchSize: 500, Capacity: 3, DisableRescan: true})
	rs, err := s.Search(context.Background(), params, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rs.Saturated != 2 || len(rs.Matches) != 6 {
		t.Fatalf("saturated=%d matches=%d", rs.Saturated, len(rs.Matches))
	}
}

func TestStopOnFirstHit(t *testing.T) {
	s := NewSearcher(Options{Device: NewSoftwareDevice(2), Scheme: nonce.CanonicalScheme(nonce.Double), BatchSize: 100, StopOnFirstHit: true})
	rs, err := s.Search(context.Background(), Params{Difficulty: 630, TargetZeros: 1, MaxK: 100000, MaxMatches: 1000}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rs.Stop != StopFirstHit || len(rs.Matches) == 0 {
		t.Fatalf("stop=%s matches=%d", rs.Stop, len(rs.Matches))
	}
	if rs.Checked%100 != 0 || rs.Checked >= 100000 {
		t.Fatalf("checked %d", rs.Checked)
	}
	last := rs.Checked
	for _, m := range rs.Matches {
		if m.Index <= last-100 {
			t.Fatalf("match %d lies before the hit batch", m.Index)
		}
	}
}

func TestCapStopsBatches(t *testing.T) {
	s := NewSearcher(Options{Device: NewSoftwareDevice(2), Scheme: nonce.CanonicalScheme(nonce.Single), BatchSize: 64})
	rs, err := s.Search(context.Background(), Params{Difficulty: 2, TargetZeros: 0, MaxK: 1 << 30, MaxMatches: 5}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rs.Stop != StopCapped || len(rs.Matches) != 5 || rs.Checked != 64 {
		t.Fatalf("stop=%s matches=%d checked=%d", rs.Stop, len(rs.Matches), rs.Checked)
	}
}

type countingDevice struct {
	Device
	launches int
	items    uint64
}

func (d *countingDevice) Launch(ctx context.Context, batch Batch, out *SlotBuffer) error {
	d.launches++
	d.items += uint64(batch.Size)
	return d.Device.Launch(ctx, batch, out)
}

func TestCapStopsRescan(t *testing.T) {
	device := &countingDevice{Device: NewSoftwareDevice(4)}
	s := NewSearcher(Options{Device: device, Scheme: nonce.CanonicalScheme(nonce.Single), BatchSize: 1 << 16})
	rs, err := s.Search(context.Background(), Params{Difficulty: 1, TargetZeros: 0, MaxK: 1 << 16, MaxMatches: 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rs.Stop != StopCapped || len(rs.Matches) != 1 {
		t.Fatalf("stop=%s matches=%d", rs.Stop, len(rs.Matches))
	}
	// the first launch saturates and already fills the cap
	if device.launches != 1 || device.items != 1<<16 {
		t.Fatalf("%d launches evaluated %d work-items", device.launches, device.items)
	}
}

func TestDomainClamp(t *testing.T) {
	s := NewSearcher(Options{Device: NewSoftwareDevice(2), Scheme: nonce.CanonicalScheme(nonce.Single)})
	rs, err := s.Search(context.Background(), Params{Difficulty: 1 << 40, TargetZeros: 0, MaxK: 100, MaxMatches: 100}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rs.Checked != 6 || rs.Skipped != 94 || len(rs.Matches) != 6 {
		t.Fatalf("checked=%d skipped=%d matches=%d", rs.Checked, rs.Skipped, len(rs.Matches))
	}
	for _, m := range rs.Matches {
		if res := nonce.Verify(m.Nonce, 1<<40, 0, nonce.Single); !res.Valid || res.Digest != m.Digest {
			t.Fatalf("k=%d does not verify", m.Index)
		}
	}
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSearcher(Options{Device: NewSoftwareDevice(2), Scheme: nonce.CanonicalScheme(nonce.Single)})
	rs, err := s.Search(ctx, Params{Difficulty: 1, TargetZeros: 10, MaxK: 1 << 30, MaxMatches: 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rs.Stop != StopCancelled || rs.Checked != 0 {
		t.Fatalf("stop=%s checked=%d", rs.Stop, rs.Checked)
	}
}

func TestInvalidParams(t *testing.T) {
	s := NewSearcher(Options{Scheme: nonce.CanonicalScheme(nonce.Single)})
	if _, err := s.Search(context.Background(), Params{Difficulty: 1, TargetZeros: 65, MaxK: 1, MaxMatches: 1}, nil); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
}
