package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/thraizz/combat-tracker/internal/encounter"
)

// Action is what a single invocation asks for.
type Action int

const (
	// ActionCommand applies Invocation.Command through the engine.
	ActionCommand Action = iota
	ActionUndo
	ActionReset
	ActionShow
	ActionLog
	ActionRestore
	ActionHelp
)

// Argument ranges are half-open: [min, max).
const (
	maxInitiative = 100
	maxHP         = 1000
	maxAmount     = 1000
)

// ErrUsage marks errors caused by malformed command lines.
var ErrUsage = errors.New("usage")

// Invocation is a parsed command line.
type Invocation struct {
	Action    Action
	Command   encounter.Command
	ArchiveID string
}

// Parse translates command-line arguments into an Invocation.
func Parse(args []string) (Invocation, error) {
	if len(args) == 0 {
		return Invocation{}, usageErrorf("missing command")
	}

	name, rest := args[0], args[1:]
	switch name {
	case "add", "a":
		if len(rest) < 2 || len(rest) > 3 {
			return Invocation{}, usageErrorf("usage: add <name> <initiative> [hp]")
		}
		initiative, err := parseBounded("initiative", rest[1], maxInitiative)
		if err != nil {
			return Invocation{}, err
		}
		cmd := encounter.AddParticipant{Name: rest[0], Initiative: initiative}
		if len(rest) == 3 {
			hp, err := parseBounded("hp", rest[2], maxHP)
			if err != nil {
				return Invocation{}, err
			}
			cmd.HP = &hp
		}
		return command(cmd), nil

	case "damage", "dg":
		target, amount, err := parseNameAmount("damage", rest)
		if err != nil {
			return Invocation{}, err
		}
		return command(encounter.Damage{Name: target, Amount: amount}), nil

	case "heal":
		target, amount, err := parseNameAmount("heal", rest)
		if err != nil {
			return Invocation{}, err
		}
		return command(encounter.Heal{Name: target, Amount: amount}), nil

	case "nudge":
		if len(rest) != 1 {
			return Invocation{}, usageErrorf("usage: nudge <name>")
		}
		return command(encounter.Nudge{Name: rest[0]}), nil

	case "start":
		if err := noArgs(name, rest); err != nil {
			return Invocation{}, err
		}
		return command(encounter.StartEncounter{}), nil

	case "next":
		if err := noArgs(name, rest); err != nil {
			return Invocation{}, err
		}
		return command(encounter.AdvanceTurn{}), nil

	case "undo":
		if err := noArgs(name, rest); err != nil {
			return Invocation{}, err
		}
		return Invocation{Action: ActionUndo}, nil

	case "reset":
		fs := flag.NewFlagSet("reset", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		confirm := fs.Bool("confirm", false, "confirm the reset")
		if err := fs.Parse(rest); err != nil {
			return Invocation{}, usageErrorf("reset: %v", err)
		}
		if fs.NArg() > 0 {
			return Invocation{}, usageErrorf("reset: unexpected argument %q", fs.Arg(0))
		}
		if !*confirm {
			return Invocation{}, usageErrorf("reset removes every participant; rerun with --confirm")
		}
		return Invocation{Action: ActionReset}, nil

	case "show", "ls":
		if err := noArgs(name, rest); err != nil {
			return Invocation{}, err
		}
		return Invocation{Action: ActionShow}, nil

	case "log":
		if err := noArgs(name, rest); err != nil {
			return Invocation{}, err
		}
		return Invocation{Action: ActionLog}, nil

	case "restore":
		if len(rest) != 1 {
			return Invocation{}, usageErrorf("usage: restore <archive-id>")
		}
		return Invocation{Action: ActionRestore, ArchiveID: rest[0]}, nil

	case "help", "-h", "--help":
		return Invocation{Action: ActionHelp}, nil

	default:
		return Invocation{}, usageErrorf("unknown command: %s", name)
	}
}

func command(cmd encounter.Command) Invocation {
	return Invocation{Action: ActionCommand, Command: cmd}
}

func parseNameAmount(verb string, rest []string) (string, int, error) {
	if len(rest) != 2 {
		return "", 0, usageErrorf("usage: %s <name> <amount>", verb)
	}
	amount, err := parseBounded("amount", rest[1], maxAmount)
	if err != nil {
		return "", 0, err
	}
	return rest[0], amount, nil
}

func parseBounded(field, raw string, limit int) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, usageErrorf("%s must be a whole number, got %q", field, raw)
	}
	if v < 0 || v >= limit {
		return 0, usageErrorf("%s must be in 0..%d, got %d", field, limit-1, v)
	}
	return v, nil
}

func noArgs(name string, rest []string) error {
	if len(rest) > 0 {
		return usageErrorf("%s takes no arguments", name)
	}
	return nil
}

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}
