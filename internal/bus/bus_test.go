package bus

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestPidManagerBasics(t *testing.T) {
	tempDir := t.TempDir()
	testPidManager := &pidManager{
		path: filepath.Join(tempDir, PidName),
	}

	t.Run("create and remove PID file", func(t *testing.T) {
		if err := testPidManager.create(); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		pidData, err := os.ReadFile(testPidManager.path)
		if err != nil {
			t.Fatalf("failed to read PID file: %v", err)
		}
		expectedPid := strconv.Itoa(os.Getpid())
		if string(pidData) != expectedPid {
			t.Errorf("PID file contains %q, expected %q", string(pidData), expectedPid)
		}

		if err := testPidManager.remove(); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		if _, err := os.Stat(testPidManager.path); !os.IsNotExist(err) {
			t.Error("PID file should not exist after removal")
		}
	})

	t.Run("checkExisting with no PID file", func(t *testing.T) {
		if err := testPidManager.checkExisting(); err != nil {
			t.Errorf("checkExisting should not error when no PID file exists: %v", err)
		}
	})

	t.Run("checkExisting with current process", func(t *testing.T) {
		if err := testPidManager.create(); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		defer testPidManager.remove()

		err := testPidManager.checkExisting()
		if !errors.Is(err, ErrDaemonRunning) {
			t.Errorf("checkExisting should report a running daemon, got %v", err)
		}
	})

	t.Run("checkExisting with stale PID file", func(t *testing.T) {
		if err := os.WriteFile(testPidManager.path, []byte("99999999"), 0o600); err != nil {
			t.Fatalf("failed to write stale PID file: %v", err)
		}

		if err := testPidManager.checkExisting(); err != nil {
			t.Errorf("checkExisting should succeed with stale PID: %v", err)
		}
		if _, err := os.Stat(testPidManager.path); !os.IsNotExist(err) {
			t.Error("stale PID file should be removed")
		}
	})

	t.Run("checkExisting with invalid PID file", func(t *testing.T) {
		if err := os.WriteFile(testPidManager.path, []byte("invalid"), 0o600); err != nil {
			t.Fatalf("failed to write invalid PID file: %v", err)
		}

		if err := testPidManager.checkExisting(); err != nil {
			t.Errorf("checkExisting should succeed with invalid PID: %v", err)
		}
		if _, err := os.Stat(testPidManager.path); !os.IsNotExist(err) {
			t.Error("invalid PID file should be removed")
		}
	})
}

func TestIsProcessAlive(t *testing.T) {
	pm := &pidManager{}

	if !pm.isProcessAlive(os.Getpid()) {
		t.Error("current process should be alive")
	}
	if pm.isProcessAlive(99999999) {
		t.Error("non-existent process should not be alive")
	}
	if pm.isProcessAlive(0) || pm.isProcessAlive(-1) {
		t.Error("non-positive pids should not be alive")
	}
}

func TestSocketManagerBasics(t *testing.T) {
	testSocketManager := &socketManager{
		path: filepath.Join(t.TempDir(), SockName),
	}

	t.Run("listen and send", func(t *testing.T) {
		listener, err := testSocketManager.listen()
		if err != nil {
			t.Fatalf("listen failed: %v", err)
		}
		defer listener.Close()

		got := make(chan Request, 1)
		go func() {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			defer conn.Close()

			line, err := bufio.NewReader(conn).ReadString('\n')
			if err != nil {
				return
			}
			req, _ := ParseRequest(line)
			got <- req
			fmt.Fprint(conn, OK("staged"))
		}()

		resp, err := testSocketManager.send(Request{Cmd: CmdUpload, Arg: "/tmp/my clip.mp3"})
		if err != nil {
			t.Fatalf("send failed: %v", err)
		}
		if resp != "OK staged\n" {
			t.Errorf("got %q, expected %q", resp, "OK staged\n")
		}

		req := <-got
		if req.Cmd != CmdUpload || req.Arg != "/tmp/my clip.mp3" {
			t.Errorf("server received %+v", req)
		}
	})

	t.Run("dial without listener", func(t *testing.T) {
		os.Remove(testSocketManager.path)
		if _, err := testSocketManager.dial(); err == nil {
			t.Error("dial should fail when no listener exists")
		}
	})
}

func TestSendCommandIntegration(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	listener, err := Listen()
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer listener.Close()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()

				line, err := bufio.NewReader(c).ReadString('\n')
				if err != nil {
					return
				}
				req, err := ParseRequest(line)
				if err != nil {
					fmt.Fprint(c, Err(err.Error()))
					return
				}

				switch req.Cmd {
				case CmdToggle:
					fmt.Fprint(c, OK("recording"))
				case CmdStatus:
					fmt.Fprint(c, Status(map[string]string{"status": "idle"}))
				case CmdVersion:
					fmt.Fprint(c, Status(map[string]string{"proto": ProtoVer}))
				case CmdTranscript:
					fmt.Fprint(c, Text("line one\nline two"))
				case CmdQuit:
					fmt.Fprint(c, OK("quitting"))
				default:
					fmt.Fprint(c, Err(fmt.Sprintf("unknown command %q", req.Cmd)))
				}
			}(conn)
		}
	}()

	tests := []struct {
		cmd      byte
		expected string
	}{
		{CmdToggle, "OK recording\n"},
		{CmdStatus, "STATUS status=idle\n"},
		{CmdVersion, fmt.Sprintf("STATUS proto=%s\n", ProtoVer)},
		{CmdTranscript, "TEXT \"line one\\nline two\"\n"},
		{CmdQuit, "OK quitting\n"},
		{'?', "ERR unknown command '?'\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.cmd), func(t *testing.T) {
			resp, err := SendCommand(tt.cmd, "")
			if err != nil {
				t.Fatalf("SendCommand failed: %v", err)
			}
			if resp != tt.expected {
				t.Errorf("command %c: got %q, expected %q", tt.cmd, resp, tt.expected)
			}
		})
	}
}

func TestPathFunctions(t *testing.T) {
	cacheDir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheDir)

	sock, err := SockPath()
	if err != nil {
		t.Fatalf("SockPath failed: %v", err)
	}
	if sock != filepath.Join(cacheDir, "echoscribe", SockName) {
		t.Errorf("unexpected socket path %s", sock)
	}

	pid, err := PidPath()
	if err != nil {
		t.Fatalf("PidPath failed: %v", err)
	}
	if pid != filepath.Join(cacheDir, "echoscribe", PidName) {
		t.Errorf("unexpected pid path %s", pid)
	}
}

func TestPublicPidAPI(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if err := CheckExistingDaemon(); err != nil {
		t.Errorf("CheckExistingDaemon should succeed when no daemon running: %v", err)
	}
	if err := CreatePidFile(); err != nil {
		t.Fatalf("CreatePidFile failed: %v", err)
	}
	if err := CheckExistingDaemon(); !errors.Is(err, ErrDaemonRunning) {
		t.Errorf("CheckExistingDaemon should see our own pid, got %v", err)
	}
	if err := RemovePidFile(); err != nil {
		t.Fatalf("RemovePidFile failed: %v", err)
	}
	pidPath, _ := PidPath()
	if _, err := os.Stat(pidPath); !os.IsNotExist(err) {
		t.Error("PID file should not exist after RemovePidFile")
	}
}
