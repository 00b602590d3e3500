//go:build !js && !wasm

// Package native provides an OS-backed platform.Platform: the real
// filesystem and stdio console an interpreter uses outside of a browser
// or other sandboxed embedding.
package native

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/tqscript/tqscript/pkg/platform"
)

// NativeFileSystem implements platform.FileSystem against the OS filesystem.
type NativeFileSystem struct{}

func (NativeFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (NativeFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (NativeFileSystem) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func (NativeFileSystem) Delete(path string) error {
	return os.Remove(path)
}

func (NativeFileSystem) ListDir(path string) ([]platform.FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	infos := make([]platform.FileInfo, 0, len(entries))
	for _, e := range entries {
		fi, err := e.Info()
		if err != nil {
			return nil, err
		}
		infos = append(infos, platform.FileInfo{
			Name:  filepath.Base(fi.Name()),
			Size:  fi.Size(),
			IsDir: e.IsDir(),
		})
	}
	return infos, nil
}

// NativeConsole implements platform.Console over arbitrary reader/writer
// streams, defaulting to stdio.
type NativeConsole struct {
	input  io.Reader
	output io.Writer
	reader *bufio.Reader
}

func (c *NativeConsole) Print(text string) {
	w := c.writer()
	io.WriteString(w, text)
}

func (c *NativeConsole) PrintLn(text string) {
	w := c.writer()
	io.WriteString(w, text)
	io.WriteString(w, "\n")
}

func (c *NativeConsole) ReadLine() (string, error) {
	if c.reader == nil {
		in := c.input
		if in == nil {
			in = os.Stdin
		}
		c.reader = bufio.NewReader(in)
	}
	line, err := c.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return trimTrailingNewline(line), nil
}

func (c *NativeConsole) writer() io.Writer {
	if c.output == nil {
		return os.Stdout
	}
	return c.output
}

func trimTrailingNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		s = s[:n-1]
		if n := len(s); n > 0 && s[n-1] == '\r' {
			s = s[:n-1]
		}
	}
	return s
}

// NativePlatform is the default OS-backed platform.Platform implementation.
type NativePlatform struct {
	fs      NativeFileSystem
	console *NativeConsole
}

// NewNativePlatform constructs a platform.Platform backed by the OS
// filesystem and stdio console.
func NewNativePlatform() platform.Platform {
	return &NativePlatform{console: &NativeConsole{}}
}

func (p *NativePlatform) FS() platform.FileSystem { return p.fs }
func (p *NativePlatform) Console() platform.Console { return p.console }
func (p *NativePlatform) Now() time.Time            { return time.Now() }
func (p *NativePlatform) Sleep(d time.Duration)      { time.Sleep(d) }
