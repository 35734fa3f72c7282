// internal/app/commands.go

package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"sshdock/internal/apperr"
	"sshdock/internal/docker"
	"sshdock/internal/models"
	"sshdock/internal/proc"
)

const statsInterval = 2 * time.Second

// fetchContainers refreshes docker ps and the script index in one round
// trip pair.
func fetchContainers(runner proc.Runner, host *models.Host, all bool, scriptsRoot string) tea.Cmd {
	return func() tea.Msg {
		res, err := runner.Run(context.Background(), host, docker.PsCommand(all))
		if err != nil {
			return containersMsg{alias: host.Alias, err: err}
		}
		if res.ExitCode != 0 {
			return containersMsg{alias: host.Alias, err: remoteError("docker ps", res)}
		}
		containers := docker.ParseContainers(res.Stdout)

		scripts := map[string]string{}
		if scriptsRoot != "" {
			// Script discovery failing should not break the listing.
			if idx, err := runner.Run(context.Background(), host, docker.FindScriptsCommand(scriptsRoot)); err == nil {
				scripts = docker.ParseScriptIndex(idx.Stdout)
			}
		}
		for _, c := range containers {
			c.ScriptPath = scripts[c.Name]
		}
		return containersMsg{alias: host.Alias, containers: containers, scripts: scripts}
	}
}

// runContainerAction executes a one-shot docker verb (start, stop, ...).
func runContainerAction(runner proc.Runner, host *models.Host, verb, command, name string) tea.Cmd {
	return func() tea.Msg {
		res, err := runner.Run(context.Background(), host, command)
		if err != nil {
			return actionDoneMsg{verb: verb, name: name, err: err}
		}
		if res.ExitCode != 0 {
			return actionDoneMsg{verb: verb, name: name, err: remoteError("docker "+verb, res)}
		}
		return actionDoneMsg{verb: verb, name: name}
	}
}

// runDeploy executes a deployment script to completion. Scripts pull
// images, so this streams instead of using the one-shot timeout.
func runDeploy(runner proc.Runner, host *models.Host, scriptPath, name string) tea.Cmd {
	return func() tea.Msg {
		stream, err := runner.Stream(host, docker.RunScriptCommand(scriptPath))
		if err != nil {
			return deployDoneMsg{name: name, err: err}
		}
		var lines []string
		for line := range stream.Lines() {
			lines = append(lines, line)
		}
		return deployDoneMsg{name: name, output: strings.Join(lines, "\n")}
	}
}

// startLogStream opens docker logs for the container. follow keeps the
// stream alive; otherwise it ends after the tail is delivered.
func startLogStream(runner proc.Runner, host *models.Host, containerID string, tail int, follow bool, gen int) tea.Cmd {
	return func() tea.Msg {
		stream, err := runner.Stream(host, docker.LogsCommand(containerID, tail, follow))
		if err != nil {
			return streamStartedMsg{gen: gen, err: err}
		}
		return streamStartedMsg{gen: gen, stream: stream}
	}
}

// readLogBatch blocks for the next line, then drains whatever else is
// ready so one message carries a burst instead of one line each.
func readLogBatch(stream proc.LineStream, gen int) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-stream.Lines()
		if !ok {
			return logBatchMsg{gen: gen, closed: true}
		}
		lines := []string{line}
		for len(lines) < 500 {
			select {
			case next, ok := <-stream.Lines():
				if !ok {
					return logBatchMsg{gen: gen, lines: lines, closed: true}
				}
				lines = append(lines, next)
			default:
				return logBatchMsg{gen: gen, lines: lines}
			}
		}
		return logBatchMsg{gen: gen, lines: lines}
	}
}

func statsTick(gen int) tea.Cmd {
	return tea.Tick(statsInterval, func(time.Time) tea.Msg {
		return statsTickMsg{gen: gen}
	})
}

func fetchStats(runner proc.Runner, host *models.Host, containerID string, gen int) tea.Cmd {
	return func() tea.Msg {
		res, err := runner.Run(context.Background(), host, docker.StatsCommand(containerID))
		if err != nil {
			return statsMsg{gen: gen, err: err}
		}
		if res.ExitCode != 0 {
			return statsMsg{gen: gen, err: remoteError("docker stats", res)}
		}
		stats, err := docker.ParseStats(res.Stdout)
		return statsMsg{gen: gen, stats: stats, err: err}
	}
}

func fetchProcesses(runner proc.Runner, host *models.Host, containerID string) tea.Cmd {
	return func() tea.Msg {
		res, err := runner.Run(context.Background(), host, docker.TopCommand(containerID))
		if err != nil {
			return processesMsg{err: err}
		}
		if res.ExitCode != 0 {
			return processesMsg{err: remoteError("docker top", res)}
		}
		return processesMsg{procs: docker.ParseProcesses(res.Stdout)}
	}
}

func fetchInspect(runner proc.Runner, host *models.Host, containerID string) tea.Cmd {
	return func() tea.Msg {
		res, err := runner.Run(context.Background(), host, docker.InspectCommand(containerID))
		if err != nil {
			return inspectMsg{err: err}
		}
		if res.ExitCode != 0 {
			return inspectMsg{err: remoteError("docker inspect", res)}
		}
		info, err := docker.ParseInspect(res.Stdout)
		return inspectMsg{info: info, err: err}
	}
}

func fetchEnv(runner proc.Runner, host *models.Host, containerID string) tea.Cmd {
	return func() tea.Msg {
		res, err := runner.Run(context.Background(), host, docker.EnvCommand(containerID))
		if err != nil {
			return envMsg{err: err}
		}
		if res.ExitCode != 0 {
			return envMsg{err: remoteError("docker exec env", res)}
		}
		return envMsg{entries: docker.ParseEnv(res.Stdout)}
	}
}

// reloadRegistry re-reads the SSH config and metadata from disk,
// discarding unsaved in-memory state.
func reloadRegistry(store Store) tea.Cmd {
	return func() tea.Msg {
		reg, err := store.Load()
		return reloadedMsg{reg: reg, err: err}
	}
}

// fetchLocalDir lists a local directory for the rsync file browser,
// shaped like the remote listings: parent first, directories before
// files, alphabetical within each group.
func fetchLocalDir(dir string) tea.Cmd {
	return func() tea.Msg {
		dirents, err := os.ReadDir(dir)
		if err != nil {
			return dirListingMsg{path: dir, err: apperr.New(apperr.Process, "cannot list "+dir, err)}
		}
		var dirs, files []models.FileEntry
		for _, e := range dirents {
			entry := models.FileEntry{Name: e.Name(), IsDir: e.IsDir()}
			if entry.IsDir {
				dirs = append(dirs, entry)
			} else {
				files = append(files, entry)
			}
		}
		entries := make([]models.FileEntry, 0, len(dirs)+len(files)+1)
		if dir != "/" {
			entries = append(entries, models.ParentEntry())
		}
		entries = append(entries, dirs...)
		entries = append(entries, files...)
		return dirListingMsg{path: dir, entries: entries}
	}
}

func fetchDir(runner proc.Runner, host *models.Host, path string) tea.Cmd {
	return func() tea.Msg {
		res, err := runner.Run(context.Background(), host, docker.ListDirCommand(path))
		if err != nil {
			return dirListingMsg{path: path, err: err}
		}
		if res.ExitCode != 0 {
			return dirListingMsg{path: path, err: remoteError("ls", res)}
		}
		return dirListingMsg{path: path, entries: docker.ParseDirListing(res.Stdout)}
	}
}

func loadScript(runner proc.Runner, host *models.Host, path string) tea.Cmd {
	return func() tea.Msg {
		res, err := runner.Run(context.Background(), host, docker.CatCommand(path))
		if err != nil {
			return scriptLoadedMsg{path: path, err: err}
		}
		if res.ExitCode != 0 {
			return scriptLoadedMsg{path: path, err: remoteError("cat", res)}
		}
		return scriptLoadedMsg{path: path, content: res.Stdout}
	}
}

func saveScript(runner proc.Runner, host *models.Host, path, content string) tea.Cmd {
	return func() tea.Msg {
		res, err := runner.Run(context.Background(), host, docker.WriteScriptCommand(path, content))
		if err != nil {
			return scriptSavedMsg{path: path, err: err}
		}
		if res.ExitCode != 0 {
			return scriptSavedMsg{path: path, err: remoteError("script write", res)}
		}
		return scriptSavedMsg{path: path}
	}
}

// openSession hands the terminal to an interactive ssh process.
func openSession(host *models.Host) tea.Cmd {
	alias := host.Alias
	return tea.ExecProcess(proc.SessionCommand(host), func(err error) tea.Msg {
		return sessionFinishedMsg{alias: alias, err: err}
	})
}

// runRsync hands the terminal to rsync so its progress output is visible.
func runRsync(req proc.RsyncRequest) tea.Cmd {
	return tea.ExecProcess(proc.RsyncCommand(req), func(err error) tea.Msg {
		return rsyncFinishedMsg{err: err}
	})
}

// yankSSHCommand copies the equivalent ssh invocation to the clipboard.
func yankSSHCommand(host *models.Host) tea.Cmd {
	return func() tea.Msg {
		command := strings.Join(proc.SessionCommand(host).Args, " ")
		if err := clipboard.WriteAll(command); err != nil {
			return yankedMsg{err: apperr.New(apperr.Process, "failed to copy to clipboard", err)}
		}
		return yankedMsg{command: command}
	}
}

// scanLocalKeys lists private key files in ~/.ssh for the key selector.
func scanLocalKeys() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	sshDir := filepath.Join(homeDir, ".ssh")
	entries, err := os.ReadDir(sshDir)
	if err != nil {
		return nil
	}

	skip := map[string]bool{
		"config": true, "known_hosts": true, "known_hosts.old": true,
		"authorized_keys": true, "sshdock.json": true,
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || skip[name] || strings.HasSuffix(name, ".pub") {
			continue
		}
		keys = append(keys, filepath.Join("~/.ssh", name))
	}
	return keys
}

// remoteError wraps a non-zero remote exit, preferring stderr for the
// message.
func remoteError(what string, res *proc.Result) error {
	detail := strings.TrimSpace(res.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(res.Stdout)
	}
	if detail == "" {
		return apperr.Newf(apperr.Process, "%s failed (exit %d)", what, res.ExitCode)
	}
	if i := strings.Index(detail, "\n"); i >= 0 {
		detail = detail[:i]
	}
	return apperr.Newf(apperr.Process, "%s failed: %s", what, detail)
}
