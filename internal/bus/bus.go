package bus

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

const SockName = "control.sock"
const PidName = "echoscribe.pid"
const ProtoVer = "1.0"

const dialTimeout = 2 * time.Second

var ErrDaemonRunning = errors.New("daemon already running")

// ~/.cache/echoscribe
func runtimeDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "echoscribe"), nil
}

func getSockPath() (string, error) {
	dir, err := runtimeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SockName), nil
}

func getPidPath() (string, error) {
	dir, err := runtimeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, PidName), nil
}

// ~/.cache/echoscribe/control.sock
func SockPath() (string, error) {
	return getSockPath()
}

// ~/.cache/echoscribe/echoscribe.pid
func PidPath() (string, error) {
	return getPidPath()
}

type socketManager struct {
	path string
}

func (s *socketManager) listen() (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, err
	}
	_ = os.Remove(s.path) // stale socket from last run
	return net.Listen("unix", s.path)
}

func (s *socketManager) dial() (net.Conn, error) {
	return net.DialTimeout("unix", s.path, dialTimeout)
}

// send writes one request line and reads one response line.
func (s *socketManager) send(req Request) (string, error) {
	c, err := s.dial()
	if err != nil {
		return "", err
	}
	defer c.Close()

	if _, err := c.Write([]byte(req.String())); err != nil {
		return "", err
	}

	resp, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		return "", err
	}
	return resp, nil
}

func defaultSocket() (*socketManager, error) {
	path, err := getSockPath()
	if err != nil {
		return nil, err
	}
	return &socketManager{path: path}, nil
}

func Listen() (net.Listener, error) {
	s, err := defaultSocket()
	if err != nil {
		return nil, err
	}
	return s.listen()
}

func Dial() (net.Conn, error) {
	s, err := defaultSocket()
	if err != nil {
		return nil, err
	}
	return s.dial()
}

// SendCommand sends cmd with an optional argument to the running daemon and
// returns the raw response line.
func SendCommand(cmd byte, arg string) (string, error) {
	s, err := defaultSocket()
	if err != nil {
		return "", err
	}
	return s.send(Request{Cmd: cmd, Arg: arg})
}

type pidManager struct {
	path string
}

func (p *pidManager) create() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(p.path, []byte(strconv.Itoa(os.Getpid())), 0o600)
}

func (p *pidManager) remove() error {
	return os.Remove(p.path)
}

// checkExisting fails if the pid file names a live process. Stale or invalid
// pid files are removed.
func (p *pidManager) checkExisting() error {
	pidData, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(pidData)))
	if err != nil || !p.isProcessAlive(pid) {
		_ = os.Remove(p.path)
		return nil
	}

	return fmt.Errorf("%w with PID %d", ErrDaemonRunning, pid)
}

func (p *pidManager) isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func defaultPid() (*pidManager, error) {
	path, err := getPidPath()
	if err != nil {
		return nil, err
	}
	return &pidManager{path: path}, nil
}

func CheckExistingDaemon() error {
	p, err := defaultPid()
	if err != nil {
		return err
	}
	return p.checkExisting()
}

func CreatePidFile() error {
	p, err := defaultPid()
	if err != nil {
		return err
	}
	return p.create()
}

func RemovePidFile() error {
	p, err := defaultPid()
	if err != nil {
		return err
	}
	return p.remove()
}
