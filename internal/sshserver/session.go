// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"taskweave-cli/internal/args"
	"taskweave-cli/internal/engine"
	"taskweave-cli/internal/registry"
	"taskweave-cli/pkg/types"
)

// taskMiddleware dispatches session commands: list, run, or an interactive
// shell when the session carries no command.
func (s *Server) taskMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			argv := sess.Command()
			if len(argv) == 0 {
				s.runInteractiveShell(sess)
				return
			}

			switch argv[0] {
			case "list":
				s.handleList(sess)
			case "run":
				s.handleRun(sess, argv[1:])
			default:
				fmt.Fprintf(sess.Stderr(), "unknown command %q (available: list, run <task> [args...])\n", argv[0])
				_ = sess.Exit(1)
			}
		}
	}
}

// handleList writes the registered tasks, root tasks first with their
// subtasks indented beneath them.
func (s *Server) handleList(sess ssh.Session) {
	fmt.Fprint(sess, renderTaskList(s.reg))
	_ = sess.Exit(0)
}

// handleRun looks up the named task, parses the remaining tokens against its
// schema, and invokes it with the session's streams.
func (s *Server) handleRun(sess ssh.Session, argv []string) {
	if len(argv) == 0 {
		fmt.Fprintln(sess.Stderr(), "usage: run <task> [--param value...] [positional...]")
		_ = sess.Exit(1)
		return
	}

	task, err := s.reg.Lookup(argv[0])
	if err != nil {
		fmt.Fprintf(sess.Stderr(), "%v\n", err)
		_ = sess.Exit(1)
		return
	}

	raw, err := args.BuildRaw(task.Parameters(), argv[1:])
	if err != nil {
		fmt.Fprintf(sess.Stderr(), "%v\n", err)
		_ = sess.Exit(1)
		return
	}

	env := &engine.Environment{
		Out:     sess,
		ErrOut:  sess.Stderr(),
		WorkDir: s.cfg.WorkDir,
		Logger:  s.logger,
	}
	runner := engine.NewRunner(s.reg, s.resolver, env, s.logger)

	s.logger.Info("remote task run", "task", task.ID().String(), "user", sess.User())
	result, err := runner.RunTask(sess.Context(), task, raw)
	if err != nil {
		fmt.Fprintf(sess.Stderr(), "%v\n", err)
		if code, ok := result.(types.ExitCode); ok {
			_ = sess.Exit(int(code))
			return
		}
		_ = sess.Exit(1)
		return
	}

	if code, ok := result.(types.ExitCode); ok {
		_ = sess.Exit(int(code))
		return
	}
	_ = sess.Exit(0)
}

// renderTaskList returns the plain-text task listing sent to list sessions.
func renderTaskList(reg *registry.Registry) string {
	roots := reg.RootTasks()
	if len(roots) == 0 {
		return "no tasks registered\n"
	}

	var b strings.Builder
	for _, task := range roots {
		writeTaskLine(&b, task, 0)
		for _, sub := range reg.Subtasks(task.ID()) {
			writeTaskLine(&b, sub, 1)
		}
	}
	return b.String()
}

func writeTaskLine(b *strings.Builder, task *registry.Task, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(task.ID().String())
	if desc := task.Description(); !desc.IsEmpty() {
		b.WriteString("\t")
		b.WriteString(desc.String())
	}
	b.WriteString("\n")
}

// runInteractiveShell starts an interactive shell session in the project
// directory.
func (s *Server) runInteractiveShell(sess ssh.Session) {
	cmd := exec.CommandContext(sess.Context(), s.cfg.DefaultShell)
	cmd.Dir = s.cfg.WorkDir
	cmd.Env = append(os.Environ(), sess.Environ()...)

	ptyReq, winCh, isPty := sess.Pty()
	if isPty {
		cmd.Env = append(cmd.Env, fmt.Sprintf("TERM=%s", ptyReq.Term))
	}

	term, err := startShellTerminal(cmd)
	if err != nil {
		fmt.Fprintf(sess.Stderr(), "Error starting shell: %v\n", err)
		_ = sess.Exit(1)
		return
	}
	defer func() { _ = term.Close() }()

	go func() {
		for win := range winCh {
			term.Resize(win.Width, win.Height)
		}
	}()

	term.Attach(sess)

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			_ = sess.Exit(exitErr.ExitCode())
			return
		}
	}
	_ = sess.Exit(0)
}
