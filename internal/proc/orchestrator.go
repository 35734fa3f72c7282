// internal/proc/orchestrator.go

// Package proc runs external processes for the dashboard: short remote
// commands over ssh, long-lived streams (docker logs -f), and argv
// construction for full-terminal handoffs. ssh and rsync are invoked as
// binaries from PATH; no ssh library is linked.
package proc

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strconv"
	"time"

	"sshdock/internal/apperr"
	"sshdock/internal/logging"
	"sshdock/internal/models"
)

// DefaultTimeout bounds one-shot remote commands so a dead host surfaces
// as an error instead of a hung dashboard.
const DefaultTimeout = 15 * time.Second

// Result is the outcome of a one-shot remote command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// LineStream delivers output of a long-lived remote command line by line.
// Cancel is safe to call more than once and always reaps the process.
type LineStream interface {
	Lines() <-chan string
	Cancel()
}

// Runner executes remote commands on a host. The app layer depends on
// this interface so reducers stay testable with a fake.
type Runner interface {
	// Run executes command on host and waits for it. A non-zero remote
	// exit is reported in Result, not as an error; err covers failures to
	// run at all.
	Run(ctx context.Context, host *models.Host, command string) (*Result, error)
	// Stream starts command on host and returns its merged output as a
	// line channel, closed when the process exits.
	Stream(host *models.Host, command string) (LineStream, error)
}

// ExecRunner is the production Runner, shelling out to ssh.
type ExecRunner struct{}

func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, host *models.Host, command string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	args := append(remoteArgs(host), command)
	cmd := exec.CommandContext(ctx, "ssh", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.Debug("proc", "run on %s: %s", host.Alias, command)
	err := cmd.Run()

	result := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperr.Newf(apperr.Process, "command timed out on %s", host.Alias)
		}
		return nil, apperr.New(apperr.Process, "failed to run ssh", err)
	}
	return result, nil
}

func (r *ExecRunner) Stream(host *models.Host, command string) (LineStream, error) {
	args := append(remoteArgs(host), command)
	cmd := exec.Command("ssh", args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, apperr.New(apperr.Process, "failed to open stream pipe", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, apperr.New(apperr.Process, "failed to start ssh", err)
	}
	logging.Debug("proc", "stream on %s: %s", host.Alias, command)

	s := &execStream{
		cmd:      cmd,
		lines:    make(chan string, 256),
		canceled: make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.pump(stdout)
	return s, nil
}

type execStream struct {
	cmd      *exec.Cmd
	lines    chan string
	canceled chan struct{}
	done     chan struct{}
	stopped  bool
}

func (s *execStream) Lines() <-chan string {
	return s.lines
}

// pump copies process output into the line channel, then reaps the
// process and closes the channel. Sends never block forever: a canceled
// stream drops lines instead of deadlocking against a reader that left.
func (s *execStream) pump(out io.Reader) {
	r := bufio.NewScanner(out)
	r.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for r.Scan() {
		select {
		case s.lines <- r.Text():
		case <-s.canceled:
		}
	}
	s.cmd.Wait()
	close(s.lines)
	close(s.done)
}

func (s *execStream) Cancel() {
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.canceled)

	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	// Wait for the pump to reap the process so no zombie is left behind.
	select {
	case <-s.done:
	case <-time.After(3 * time.Second):
		logging.Warn("proc", "stream did not exit after kill")
	}
}

// remoteArgs builds the ssh argv prefix for non-interactive remote
// commands: connection parameters but none of the host's interactive
// flags (no -t, no forwarding).
func remoteArgs(host *models.Host) []string {
	args := []string{"-o", "BatchMode=yes"}
	args = append(args, connectionArgs(host)...)
	args = append(args, target(host))
	return args
}

// connectionArgs are the parameters shared by every ssh invocation for a
// host. The alias is passed as the destination so unmanaged directives in
// the SSH config still apply; explicit flags win over the config file.
func connectionArgs(host *models.Host) []string {
	var args []string
	if host.User != "" {
		args = append(args, "-l", host.User)
	}
	if host.Port != 0 {
		args = append(args, "-p", strconv.Itoa(host.Port))
	}
	for _, f := range host.IdentityFiles {
		args = append(args, "-i", f)
	}
	if host.ProxyJump != "" {
		args = append(args, "-J", host.ProxyJump)
	}
	return args
}

func target(host *models.Host) string {
	if host.Alias != "" {
		return host.Alias
	}
	return host.Hostname
}

// SessionCommand builds the interactive ssh command for a full-terminal
// session: connection parameters, the host's saved ssh flags, and an
// optional login-shell override.
func SessionCommand(host *models.Host) *exec.Cmd {
	args := connectionArgs(host)
	args = append(args, host.SSHFlags...)
	if host.Shell != "" {
		// Force a tty, then replace the remote default shell.
		args = append(args, "-t", target(host), "exec "+host.Shell+" -l")
	} else {
		args = append(args, target(host))
	}
	return exec.Command("ssh", args...)
}

// RsyncRequest describes one transfer between the local machine and a
// host.
type RsyncRequest struct {
	Host       *models.Host
	LocalPath  string
	RemotePath string
	Upload     bool // true: local -> remote
	Compress   bool
}

// RsyncCommand builds the rsync command for a transfer, tunneling over
// ssh with the host's connection parameters.
func RsyncCommand(req RsyncRequest) *exec.Cmd {
	args := []string{"-a", "--progress"}
	if req.Compress {
		args = append(args, "-z")
	}

	sshArgs := append([]string{"ssh"}, connectionArgs(req.Host)...)
	args = append(args, "-e", joinArgs(sshArgs))

	remote := target(req.Host) + ":" + req.RemotePath
	if req.Host.User != "" {
		remote = req.Host.User + "@" + target(req.Host) + ":" + req.RemotePath
	}

	if req.Upload {
		args = append(args, req.LocalPath, remote)
	} else {
		args = append(args, remote, req.LocalPath)
	}
	return exec.Command("rsync", args...)
}

// joinArgs renders an argv as the single shell word rsync expects for -e,
// quoting arguments with spaces.
func joinArgs(args []string) string {
	var b bytes.Buffer
	for i, a := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		if bytes.ContainsAny([]byte(a), " \t") {
			b.WriteByte('\'')
			b.WriteString(a)
			b.WriteByte('\'')
		} else {
			b.WriteString(a)
		}
	}
	return b.String()
}
