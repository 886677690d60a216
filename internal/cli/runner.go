// Package cli runs one tracker invocation: load state, apply at most one
// command, print the outcome and save.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/thraizz/combat-tracker/internal/encounter"
	"github.com/thraizz/combat-tracker/internal/store"
	"github.com/thraizz/combat-tracker/internal/table"
	"go.uber.org/zap"
)

// Options configures a Runner.
type Options struct {
	StatePath string
	// Archiver receives the encounter on reset. Nil disables archiving and
	// the restore command.
	Archiver *store.Archiver
	Logger   *zap.Logger
}

// Runner executes tracker command lines.
type Runner struct {
	opts   Options
	logger *zap.Logger
	out    io.Writer
	errOut io.Writer
}

// NewRunner creates a runner writing results to out and diagnostics to errOut.
func NewRunner(opts Options, out, errOut io.Writer) *Runner {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		opts:   opts,
		logger: logger,
		out:    out,
		errOut: errOut,
	}
}

// Run executes args and returns the process exit code.
func (r *Runner) Run(args []string) int {
	inv, err := Parse(args)
	if err != nil {
		_, _ = fmt.Fprintf(r.errOut, "error: %s\n", strings.TrimPrefix(err.Error(), ErrUsage.Error()+": "))
		r.printUsage()
		return 2
	}
	if inv.Action == ActionHelp {
		r.printUsage()
		return 0
	}

	e := store.Load(r.opts.StatePath, r.logger)

	code := 0
	switch inv.Action {
	case ActionCommand:
		r.runCommand(e, inv.Command)
	case ActionUndo:
		r.runUndo(e)
	case ActionReset:
		e, code = r.runReset(e)
	case ActionRestore:
		e, code = r.runRestore(e, inv.ArchiveID)
	case ActionShow:
		r.show(e)
	case ActionLog:
		r.showLog(e)
	}

	if err := store.Save(e, r.opts.StatePath); err != nil {
		r.logger.Error("failed to save encounter state",
			zap.String("path", r.opts.StatePath),
			zap.Error(err),
		)
		_, _ = fmt.Fprintf(r.errOut, "error: save encounter: %v\n", err)
		return 1
	}
	return code
}

func (r *Runner) runCommand(e *encounter.Engine, cmd encounter.Command) {
	// The active participant before an advance decides how exhaustion reads.
	prev, prevErr := e.Current()
	res, err := e.ProcessCommand(cmd)
	if err != nil {
		if errors.Is(err, encounter.ErrNoLivingParticipant) && prevErr == nil && !prev.IsDead() {
			r.printf("No other living participants\n")
			return
		}
		r.printEffectError(cmd, err)
		return
	}

	switch c := cmd.(type) {
	case encounter.Damage:
		p := res.Participant
		switch {
		case p.IsDead():
			r.printf("%s Killed\n", p.Name)
		case p.TracksHealth():
			r.printf("%s: %s\n", p.Name, p.DisplayHealth())
		default:
			r.printf("%s does not track health\n", p.Name)
		}
	case encounter.Heal:
		p := res.Participant
		if p.TracksHealth() {
			r.printf("%s %s\n", p.Name, p.DisplayHealth())
		} else {
			r.printf("%s does not track health\n", p.Name)
		}
	case encounter.StartEncounter, encounter.AdvanceTurn:
		r.printf("%s's turn\n", res.Participant.Name)
	case encounter.Nudge:
		if !res.Swapped {
			r.printf("%s has no tied participant ahead to swap with\n", c.Name)
		}
	}
}

func (r *Runner) printEffectError(cmd encounter.Command, err error) {
	switch {
	case errors.Is(err, encounter.ErrNotFound):
		r.printf("%s not found\n", targetName(cmd))
	case errors.Is(err, encounter.ErrNoLivingParticipant):
		r.printf("No living participants\n")
	case errors.Is(err, encounter.ErrEmptyRoster):
		r.printf("No participants in the encounter\n")
	default:
		_, _ = fmt.Fprintf(r.errOut, "error: %v\n", err)
	}
}

func (r *Runner) runUndo(e *encounter.Engine) {
	evt, ok, err := e.Undo()
	if !ok {
		return
	}
	switch {
	case errors.Is(err, encounter.ErrUndoUnsupported):
		_, _ = fmt.Fprintf(r.errOut, "Cannot undo %q\n", Describe(evt.Command))
	case errors.Is(err, encounter.ErrNotFound):
		r.printf("Undid %q (%s no longer present)\n", Describe(evt.Command), targetName(evt.Command))
	case err != nil:
		_, _ = fmt.Fprintf(r.errOut, "error: %v\n", err)
	default:
		r.printf("Undid %q\n", Describe(evt.Command))
	}
}

func (r *Runner) runReset(e *encounter.Engine) (*encounter.Engine, int) {
	if r.opts.Archiver != nil && (len(e.Roster()) > 0 || len(e.History()) > 0) {
		info, err := r.opts.Archiver.Archive(e)
		if err != nil {
			_, _ = fmt.Fprintf(r.errOut, "error: archive encounter: %v\n", err)
			return e, 1
		}
		r.printf("Archived encounter %s\n", info.ID)
	}
	return encounter.NewEngine(r.logger), 0
}

func (r *Runner) runRestore(e *encounter.Engine, id string) (*encounter.Engine, int) {
	if r.opts.Archiver == nil {
		_, _ = fmt.Fprintln(r.errOut, "error: archiving is disabled")
		return e, 1
	}
	restored, info, err := r.opts.Archiver.Load(id)
	if err != nil {
		_, _ = fmt.Fprintf(r.errOut, "error: restore encounter: %v\n", err)
		return e, 1
	}
	r.printf("Restored encounter %s (round %d, %d participants)\n", info.ID, info.Round, info.Participants)
	return restored, 0
}

func (r *Runner) show(e *encounter.Engine) {
	if e.Started() {
		r.printf("Round %d\n", e.Round())
	}
	tbl := table.New("TURN", "NAME", "INITIATIVE", "HP")
	for i, p := range e.Roster() {
		marker := ""
		if e.Started() && i == e.Turn() {
			marker = ">"
		}
		tbl.AddRow(marker, p.Name, strconv.Itoa(p.Initiative), p.DisplayHealth())
	}
	if err := tbl.Render(r.out); err != nil {
		r.logger.Warn("failed to render roster", zap.Error(err))
	}
}

func (r *Runner) showLog(e *encounter.Engine) {
	tbl := table.New("#", "ROUND", "ACTION")
	for i, evt := range e.History() {
		tbl.AddRow(strconv.Itoa(i+1), strconv.Itoa(evt.Round), Describe(evt.Command))
	}
	if err := tbl.Render(r.out); err != nil {
		r.logger.Warn("failed to render history", zap.Error(err))
	}
}

func (r *Runner) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func (r *Runner) printUsage() {
	_, _ = fmt.Fprint(r.errOut, `usage: tracker [-config file] <command> [args]

commands:
  add, a <name> <initiative> [hp]  add a player, or a monster when hp is given
  damage, dg <name> <amount>       remove health from a monster
  heal <name> <amount>             heal a monster
  nudge <name>                     move ahead of a tied participant
  start                            start the encounter
  next                             move to the next living participant
  undo                             undo the last action
  reset --confirm                  archive and clear the encounter
  restore <archive-id>             replace the encounter with an archived one
  show, ls                         show the encounter
  log                              show the action history
`)
}

// Describe renders a command in the same form it is typed on the command
// line, e.g. "damage Goblin 4".
func Describe(cmd encounter.Command) string {
	switch c := cmd.(type) {
	case encounter.Damage:
		return fmt.Sprintf("damage %s %d", c.Name, c.Amount)
	case encounter.Heal:
		return fmt.Sprintf("heal %s %d", c.Name, c.Amount)
	case encounter.AddParticipant:
		if c.HP != nil {
			return fmt.Sprintf("add %s %d %d", c.Name, c.Initiative, *c.HP)
		}
		return fmt.Sprintf("add %s %d", c.Name, c.Initiative)
	case encounter.Nudge:
		return "nudge " + c.Name
	case encounter.AdvanceTurn:
		return "next"
	case encounter.StartEncounter:
		return "start"
	default:
		return string(cmd.Kind())
	}
}

func targetName(cmd encounter.Command) string {
	switch c := cmd.(type) {
	case encounter.Damage:
		return c.Name
	case encounter.Heal:
		return c.Name
	case encounter.AddParticipant:
		return c.Name
	case encounter.Nudge:
		return c.Name
	default:
		return ""
	}
}
