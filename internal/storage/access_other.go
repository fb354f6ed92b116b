//go:build !unix

package storage

import (
	"errors"
	"io"
	"os"
)

// Writable reports whether the process may create entries in dir.
func Writable(dir string) bool {
	f, err := os.CreateTemp(dir, ".pastebox-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

// Readable reports whether the process may list dir.
func Readable(dir string) bool {
	f, err := os.Open(dir)
	if err != nil {
		return false
	}
	defer f.Close()
	_, err = f.Readdirnames(1)
	return err == nil || errors.Is(err, io.EOF)
}
