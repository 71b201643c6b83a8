//go:build tinygo

package fiber

// TinyGo's runtime does not implement runtime/debug.Stack; a fiber
// panic is still reported, just without a symbolized trace attached.
func captureStack() []byte { return nil }
