// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version holds the build version, overridable at link time
// with -ldflags "-X .../internal/version.Version=v1.2.3".
package version

// Version is the build version string.
var Version = "dev"
