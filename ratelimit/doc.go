// Package ratelimit implements the two cooperating admission gates used by
// the batch generation pipeline.
//
// RPMLimiter enforces a global requests-per-minute ceiling with a token
// bucket: capacity refills continuously as a real number and is consumed in
// whole units per admitted request.
//
// AdaptiveLimiter bounds simultaneous in-flight requests with a resizable
// permit pool: the window grows slowly while requests keep succeeding and
// shrinks sharply when the upstream API reports rate limiting.
//
// Callers acquire from the AdaptiveLimiter first, then the RPMLimiter, so
// concurrency admission gates rate admission. Both acquires are
// context-aware; neither limiter sleeps while holding its internal lock.
package ratelimit
