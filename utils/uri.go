// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package utils

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// ValidateAndNormalizeURI turns "host", "host:port" or "scheme://host:port"
// into a "host:port" dial target, adding defaultPort when none is given.
func ValidateAndNormalizeURI(uri string, defaultPort int) (string, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", errors.New("empty endpoint")
	}

	if strings.Contains(uri, "://") {
		u, err := url.Parse(uri)
		if err != nil {
			return "", fmt.Errorf("invalid endpoint %q: %w", uri, err)
		}
		uri = u.Host
	}

	host, port, err := net.SplitHostPort(uri)
	if err != nil {
		host, port = strings.Trim(uri, "[]"), strconv.Itoa(defaultPort)
	}
	if host == "" {
		host = "localhost"
	}
	p, err := strconv.Atoi(port)
	if err != nil || p <= 0 || p > 65535 {
		return "", fmt.Errorf("invalid port %q", port)
	}
	return net.JoinHostPort(host, port), nil
}
