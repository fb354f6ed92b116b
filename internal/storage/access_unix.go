//go:build unix

package storage

import "golang.org/x/sys/unix"

// Writable reports whether the process may create entries in dir.
func Writable(dir string) bool {
	return unix.Access(dir, unix.W_OK|unix.X_OK) == nil
}

// Readable reports whether the process may list dir.
func Readable(dir string) bool {
	return unix.Access(dir, unix.R_OK|unix.X_OK) == nil
}
