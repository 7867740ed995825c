package writers

import (
	"io"
	"os"
)

// LazyWriteCloser delays creating its writer until the first Write, so an
// output file is only created once there is something to put in it.
type LazyWriteCloser struct {
	init   func() (io.WriteCloser, error)
	writer io.WriteCloser
}

func NewLazyWriteCloser(init func() (io.WriteCloser, error)) *LazyWriteCloser {
	return &LazyWriteCloser{init: init}
}

// NewLazyFile truncates or creates path on first write.
func NewLazyFile(path string) *LazyWriteCloser {
	return NewLazyWriteCloser(func() (io.WriteCloser, error) {
		return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	})
}

func (f *LazyWriteCloser) Write(p []byte) (int, error) {
	if f.writer == nil {
		w, err := f.init()
		if err != nil {
			return 0, err
		}
		f.writer = w
	}
	return f.writer.Write(p)
}

// Opened reports whether the underlying writer has been created.
func (f *LazyWriteCloser) Opened() bool {
	return f.writer != nil
}

func (f *LazyWriteCloser) Close() error {
	if f.writer == nil {
		return nil
	}
	return f.writer.Close()
}

// Output returns stdout for "-" and a lazy file otherwise.
func Output(location string) io.WriteCloser {
	if location == StdoutName {
		return nopCloser{os.Stdout}
	}
	return NewLazyFile(location)
}

// StdoutName selects standard output in place of a file path.
const StdoutName = "-"

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
