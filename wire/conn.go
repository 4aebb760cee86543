package wire

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/kestrelwl/wl/internal/set"
)

func xdgRuntimeDir() (string, error) {
	dir, ok := os.LookupEnv("XDG_RUNTIME_DIR")
	if !ok {
		return "", errors.New("wayland: XDG_RUNTIME_DIR is not set")
	}
	return dir, nil
}

// SocketPath determines the path to the Wayland Unix domain socket
// based on $XDG_RUNTIME_DIR and $WAYLAND_DISPLAY. It does not attempt
// to determine if the value corresponds to an actual socket.
func SocketPath() (string, error) {
	runtimeDir, err := xdgRuntimeDir()
	if err != nil {
		return "", err
	}

	v, ok := os.LookupEnv("WAYLAND_DISPLAY")
	if !ok {
		v = "wayland-0"
	}
	if filepath.IsAbs(v) {
		return v, nil
	}

	return filepath.Join(runtimeDir, v), nil
}

// NewSocketPath generates a valid path for opening a new socket to
// listen on, choosing the first unused "wayland-N" name in
// $XDG_RUNTIME_DIR.
func NewSocketPath() (string, error) {
	dir, err := xdgRuntimeDir()
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	names := make(set.Set[int], len(entries))
	for _, ent := range entries {
		after, ok := strings.CutPrefix(ent.Name(), "wayland-")
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(after, 10, 0)
		if err != nil {
			continue
		}
		names.Add(int(n))
	}

	var num int
	for names.Has(num) {
		num++
	}

	return filepath.Join(dir, fmt.Sprintf("wayland-%v", num)), nil
}

// Conn represents a low-level Wayland connection: a Unix-domain
// stream socket plus the FIFO of file descriptors received via
// ancillary data but not yet claimed by a message field. It is not
// generally used directly; client.Display wraps it.
type Conn struct {
	conn *net.UnixConn
	fds  []int
}

// NewConn wraps an already-connected Unix socket. After this is
// called, use the returned Conn's Close method instead of calling c's
// directly.
func NewConn(c *net.UnixConn) *Conn {
	return &Conn{conn: c}
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// Read implements io.Reader by performing a ReadMsgUnix call, parsing
// any ancillary SCM_RIGHTS blocks it carries and appending the file
// descriptors they contain to the connection's FIFO queue, in
// arrival order.
func (c *Conn) Read(buf []byte) (int, error) {
	oob := make([]byte, unix.CmsgSpace(len(buf)))
	n, oobn, _, _, err := c.conn.ReadMsgUnix(buf, oob)
	if oobn > 0 {
		if parseErr := c.parseFDs(oob[:oobn]); parseErr != nil {
			return n, errors.Join(err, parseErr)
		}
	}
	return n, err
}

func (c *Conn) parseFDs(data []byte) error {
	cmsgs, err := unix.ParseSocketControlMessage(data)
	if err != nil {
		return fmt.Errorf("parse socket control messages: %w", err)
	}
	for _, cmsg := range cmsgs {
		fds, err := unix.ParseUnixRights(&cmsg)
		if err != nil {
			if errors.Is(err, unix.EINVAL) {
				continue
			}
			return fmt.Errorf("parse unix control message: %w", err)
		}
		c.fds = append(c.fds, fds...)
	}
	return nil
}

// TakeFD pops the oldest file descriptor queued via ancillary data.
// ReadMessage moves every fd queued by the end of its frame into the
// returned MessageBuffer, where MessageBuffer.ReadFile hands them out;
// TakeFD does not see those fds, only ones received by Read calls
// made outside ReadMessage.
func (c *Conn) TakeFD() (*os.File, error) {
	if len(c.fds) == 0 {
		return nil, ErrEmptyFdQueue
	}

	fd := c.fds[0]
	c.fds = c.fds[1:]
	return os.NewFile(uintptr(fd), ""), nil
}

// takeFDs drains every fd currently queued, handing message-scoped
// ownership to the MessageBuffer that just finished reading a frame.
func (c *Conn) takeFDs() []int {
	if len(c.fds) == 0 {
		return nil
	}
	fds := c.fds
	c.fds = nil
	return fds
}

// Dial opens a connection to the Wayland socket based on the current
// environment. It follows the procedure outlined at
// https://wayland-book.com/protocol-design/wire-protocol.html#transports
func Dial() (*Conn, error) {
	if v, ok := os.LookupEnv("WAYLAND_SOCKET"); ok {
		fd, err := strconv.ParseInt(v, 10, 0)
		if err != nil {
			return nil, fmt.Errorf("parse WAYLAND_SOCKET fd: %w", err)
		}
		file := os.NewFile(uintptr(fd), "WAYLAND_SOCKET")
		defer file.Close()

		c, err := net.FileConn(file)
		if err != nil {
			return nil, fmt.Errorf("open WAYLAND_SOCKET connection: %w", err)
		}
		return NewConn(c.(*net.UnixConn)), nil
	}

	path, err := SocketPath()
	if err != nil {
		return nil, err
	}

	s, err := net.Dial("unix", path)
	if err != nil {
		return nil, err
	}
	return NewConn(s.(*net.UnixConn)), nil
}
