// Package config collects the command-line configuration for the editor
// binary: which file(s) to open, the Live Share role (none/host/joiner),
// and logging options.
//
// Configuration precedence is simple: command-line flags only, parsed
// once at startup and validated by Setup before the editor enters raw
// mode.
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/lineshare/lineshare/internal/errs"
)

const (
	// DefaultLogLevel is the verbosity dlog uses when --logLevel is unset.
	DefaultLogLevel string = "info"
	// DefaultLogDir is where dlog writes its async log file.
	DefaultLogDir string = "~/.liveedit/log"
)

// Role describes whether this process runs standalone or takes part in a
// Live Share session.
type Role int

const (
	// RoleNone runs the editor with no network replication.
	RoleNone Role = iota
	// RoleHost accepts joiner connections and relays ops star-topology.
	RoleHost
	// RoleJoin dials a host and replicates every local mutation to it.
	RoleJoin
)

// Args summarizes every flag the editor binary accepts.
type Args struct {
	Files         []string
	HostAddr      string
	JoinAddr      string
	LogDir        string
	LogLevel      string
	Pprof         string
	Version       bool
	Role          Role
}

// String renders Args for diagnostic logging.
func (a *Args) String() string {
	var sb strings.Builder
	sb.WriteString("Args(")
	fmt.Fprintf(&sb, "Files:%v,", a.Files)
	fmt.Fprintf(&sb, "HostAddr:%q,", a.HostAddr)
	fmt.Fprintf(&sb, "JoinAddr:%q,", a.JoinAddr)
	fmt.Fprintf(&sb, "LogDir:%q,", a.LogDir)
	fmt.Fprintf(&sb, "LogLevel:%q,", a.LogLevel)
	fmt.Fprintf(&sb, "Role:%v", a.Role)
	sb.WriteString(")")
	return sb.String()
}

// Setup fills in defaults and validates the parsed flags. additionalArgs
// are the positional filenames left over after flag.Parse().
func Setup(args *Args, additionalArgs []string) error {
	if args.LogDir == "" {
		args.LogDir = DefaultLogDir
	}
	if args.LogLevel == "" {
		args.LogLevel = DefaultLogLevel
	}

	if args.HostAddr != "" && args.JoinAddr != "" {
		return errs.Wrap(errs.ErrBadArgs, "--host and --join are mutually exclusive")
	}
	switch {
	case args.HostAddr != "":
		args.Role = RoleHost
	case args.JoinAddr != "":
		args.Role = RoleJoin
	default:
		args.Role = RoleNone
	}

	args.Files = append(args.Files, additionalArgs...)
	if len(args.Files) == 0 {
		return errs.Wrap(errs.ErrBadArgs, "at least one filename is required")
	}
	if len(args.Files) > 2 {
		return errs.Wrap(errs.ErrTooManyFiles, fmt.Sprintf("got %d", len(args.Files)))
	}
	return nil
}

// RegisterFlags wires Args into the standard flag package, mirroring the
// teacher's flat flag.*Var registration in cmd/dtail.
func RegisterFlags(args *Args) {
	flag.StringVar(&args.HostAddr, "host", "", "Start a Live Share host listening on this address (e.g. :7543)")
	flag.StringVar(&args.JoinAddr, "join", "", "Join a Live Share host at this address (host:port)")
	flag.StringVar(&args.LogDir, "logDir", "", "Directory for the diagnostic log file")
	flag.StringVar(&args.LogLevel, "logLevel", "", "Log level: trace, debug, info, warn, error")
	flag.StringVar(&args.Pprof, "pprof", "", "Start a pprof debug listener at this address")
	flag.BoolVar(&args.Version, "version", false, "Display version and exit")
}
