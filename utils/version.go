// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package utils

// Version is overridden at link time with -ldflags "-X".
var Version = "0.1.0-dev"
