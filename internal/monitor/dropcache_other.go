//go:build !linux

package monitor

// dropFileCache has no portable equivalent off Linux; the read phase may
// be served from cache there, which the benchmark accepts.
func dropFileCache(path string) {}
