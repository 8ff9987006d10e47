// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package validate holds the pure input checks for contact form submissions
// and lead status values.
package validate
