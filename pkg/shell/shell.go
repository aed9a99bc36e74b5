// Package shell interprets smartroute command lines against an engine.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/Sherolroses/Transport/pkg/graph"
	"github.com/Sherolroses/Transport/pkg/routing"
)

var (
	// ErrUsage is returned for unknown commands and malformed arguments.
	ErrUsage = errors.New("shell: usage")
	// ErrQuit is returned by the quit command.
	ErrQuit = errors.New("shell: quit")
	// ErrCommandsFailed is returned by Run when at least one line failed.
	ErrCommandsFailed = errors.New("shell: commands failed")
)

// Engine is the set of network operations the shell drives.
type Engine interface {
	AddIntersection(ctx context.Context, id graph.NodeID, name string) error
	UpdateIntersection(ctx context.Context, id graph.NodeID, name string) error
	RemoveIntersection(ctx context.Context, id graph.NodeID) (int, error)
	AddRoute(ctx context.Context, from, to graph.NodeID, distance int) error
	UpdateRoute(ctx context.Context, from, to graph.NodeID, distance int) (int, error)
	RemoveRoute(ctx context.Context, from, to graph.NodeID) (int, error)
	Neighbors(ctx context.Context, id graph.NodeID) (graph.Node, error)
	SortedNeighbors(ctx context.Context, id graph.NodeID) (graph.Node, []graph.Edge, error)
	SearchRoute(ctx context.Context, from, to graph.NodeID) (routing.DirectRoute, error)
	ShortestPath(ctx context.Context, from, to graph.NodeID, hour int) (*routing.Path, error)
	Network(ctx context.Context) *graph.Snapshot
	Components(ctx context.Context) [][]graph.NodeID
	Impact(ctx context.Context, id graph.NodeID) (*graph.RemovalReport, error)
	Matrix(ctx context.Context, ids []graph.NodeID, hour int) (*routing.Matrix, error)
}

// Shell executes command lines.
type Shell struct {
	eng      Engine
	commands []command
	byName   map[string]*command
}

func New(eng Engine) *Shell {
	s := &Shell{eng: eng, byName: make(map[string]*command)}
	s.commands = s.table()
	for i := range s.commands {
		c := &s.commands[i]
		s.byName[c.name] = c
		for _, alias := range c.aliases {
			s.byName[alias] = c
		}
	}
	return s
}

// Exec runs one command line and writes its output to w. Blank lines and
// lines starting with # do nothing.
func (s *Shell) Exec(ctx context.Context, line string, w io.Writer) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	words, err := shellquote.Split(line)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(words) == 0 {
		return nil
	}

	c, ok := s.byName[strings.ToLower(words[0])]
	if !ok {
		return fmt.Errorf("%w: unknown command %q (try help)", ErrUsage, words[0])
	}
	args := words[1:]
	if len(args) < c.minArgs || (c.maxArgs >= 0 && len(args) > c.maxArgs) {
		return fmt.Errorf("%w: %s", ErrUsage, c.usage)
	}
	return c.run(ctx, args, w)
}

// Run executes every line from r, printing failures and carrying on.
// Quit stops early without error.
func (s *Shell) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	failed, total := 0, 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := sc.Text()
		total++
		err := s.Exec(ctx, line, w)
		switch {
		case err == nil:
		case errors.Is(err, ErrQuit):
			return summarize(failed, total)
		default:
			failed++
			fmt.Fprintf(w, "error: %v\n", err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	return summarize(failed, total)
}

func summarize(failed, total int) error {
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d lines: %w", failed, total, ErrCommandsFailed)
}

func parseID(s string) (graph.NodeID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: intersection id %q is not an integer", ErrUsage, s)
	}
	return graph.NodeID(n), nil
}

func parseInt(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrUsage, what, s)
	}
	return n, nil
}

func parseIDs(args []string) ([]graph.NodeID, error) {
	ids := make([]graph.NodeID, len(args))
	for i, a := range args {
		id, err := parseID(a)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
