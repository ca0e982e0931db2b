//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd || windows)

package kv

import "os"

// Platforms without flock or LockFileEx get no cross-process locking; the
// temp file and rename still keep each write whole.
func lockFile(*os.File, bool) error { return nil }

func unlockFile(*os.File) error { return nil }
