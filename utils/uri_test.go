// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package utils

import "testing"

func TestValidateAndNormalizeURI(t *testing.T) {
	tests := []struct {
		input string
		want  string
		fail  bool
	}{
		{"localhost", "localhost:9900", false},
		{"127.0.0.1:5000", "127.0.0.1:5000", false},
		{"grpc://miner.local:7000", "miner.local:7000", false},
		{":9000", "localhost:9000", false},
		{"[::1]", "[::1]:9900", false},
		{"host:abc", "", true},
		{"host:70000", "", true},
		{"  ", "", true},
	}

	for _, test := range tests {
		got, err := ValidateAndNormalizeURI(test.input, 9900)
		if test.fail {
			if err == nil {
				t.Fatalf("%q: expected error, got %q", test.input, got)
			}
			continue
		}
		if err != nil || got != test.want {
			t.Fatalf("%q: got (%q, %v) want %q", test.input, got, err, test.want)
		}
	}
}
