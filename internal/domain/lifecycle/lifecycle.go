// Package lifecycle holds shared settings for component start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds a single start or stop hook, such as a database ping or an HTTP shutdown.
const DefaultTimeout = 10 * time.Second
