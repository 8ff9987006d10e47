// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ratelimit counts requests per key in fixed windows.

Keys are built by the caller, usually "<scope>:<client-ip>", so each protected
route keeps its own budget. The first hit on a key opens a window; every hit
inside it is counted, allowed or not, until the window expires.

	limiter := ratelimit.NewInMemory(5, 15*time.Minute)
	limiter := ratelimit.NewRedis(client, 5, 15*time.Minute)

	d, err := limiter.Allow(ctx, "login:203.0.113.7")
	if err == nil && !d.Allowed {
		// reject until d.ResetAt
	}

The Redis limiter returns errors wrapping ErrBackend. Callers decide whether to
fail open.
*/
package ratelimit
