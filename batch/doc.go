// Package batch coordinates concurrent image generation with adaptive
// throttling and per-item retry.
//
// The Runner fans out one goroutine per item. Every item acquires a permit
// from a shared ratelimit.AdaptiveLimiter, then a token from a shared
// ratelimit.RPMLimiter, then invokes the imagegen.Provider. Failures are
// classified by kind: quota rejections shrink the concurrency window and
// retry with exponential backoff, transient server failures retry without
// touching the window, and everything else fails the item immediately. One
// item's failure never aborts its siblings.
//
// Results come back in submission order; per-run statistics count every item
// exactly once as successful, failed, or skipped.
package batch
