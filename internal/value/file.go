package value

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// FileHandle wraps an open file (or standard stream) as a runtime value,
// backing the open/read_line/write/close built-ins. It is the Go analogue
// of the reference implementation's FileHandle object variant, which wraps
// either a real file or one of the process's standard streams.
type FileHandle struct {
	Name   string
	file   *os.File
	reader *bufio.Reader
	closed bool
	std    bool // true for stdin/stdout/stderr: Close is a no-op
}

// NewFile opens path for reading or writing (mode "r" or "w"/"a").
func NewFile(path, mode string) (*FileHandle, error) {
	var flag int
	switch mode {
	case "r":
		flag = os.O_RDONLY
	case "w":
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case "a":
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		return nil, fmt.Errorf("invalid file mode %q", mode)
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileHandle{Name: path, file: f, reader: bufio.NewReader(f)}, nil
}

// NewStdStream wraps one of the process's standard streams.
func NewStdStream(name string, f *os.File) *FileHandle {
	fh := &FileHandle{Name: name, file: f, std: true}
	if f == os.Stdin {
		fh.reader = bufio.NewReader(f)
	}
	return fh
}

func (f *FileHandle) Type() string   { return "file" }
func (f *FileHandle) String() string { return fmt.Sprintf("<file %s>", f.Name) }
func (f *FileHandle) Truth() bool    { return !f.closed }

// Read satisfies io.Reader, letting a FileHandle opened for reading feed a
// packet.Reader directly (see the pcap_open built-in).
func (f *FileHandle) Read(p []byte) (int, error) {
	if f.closed {
		return 0, fmt.Errorf("read from closed file %s", f.Name)
	}
	if f.reader != nil {
		return f.reader.Read(p)
	}
	return f.file.Read(p)
}

// ReadLine reads a single line (without its trailing newline). io.EOF is
// returned unwrapped so callers can distinguish clean end-of-file from a
// real read error.
func (f *FileHandle) ReadLine() (string, error) {
	if f.closed {
		return "", fmt.Errorf("read from closed file %s", f.Name)
	}
	if f.reader == nil {
		return "", fmt.Errorf("file %s is not open for reading", f.Name)
	}
	line, err := f.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	if line == "" && err == io.EOF {
		return "", io.EOF
	}
	return line, nil
}

// Write appends s to the file.
func (f *FileHandle) Write(s string) (int, error) {
	if f.closed {
		return 0, fmt.Errorf("write to closed file %s", f.Name)
	}
	return f.file.WriteString(s)
}

// Close closes the underlying file. Closing a standard stream is a no-op.
func (f *FileHandle) Close() error {
	if f.std || f.closed {
		f.closed = true
		return nil
	}
	f.closed = true
	return f.file.Close()
}
