// Command lineedit is a terminal line editor with optional real-time
// collaborative editing over a Live Share TCP session.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strings"

	"github.com/lineshare/lineshare/internal/config"
	"github.com/lineshare/lineshare/internal/dispatch"
	"github.com/lineshare/lineshare/internal/dlog"
	"github.com/lineshare/lineshare/internal/editor"
	"github.com/lineshare/lineshare/internal/liveshare"
	"github.com/lineshare/lineshare/internal/render"
	"github.com/lineshare/lineshare/internal/session"
	"github.com/lineshare/lineshare/internal/shutdown"
	"github.com/lineshare/lineshare/internal/termio"
	"github.com/lineshare/lineshare/internal/version"
)

func main() {
	var args config.Args
	config.RegisterFlags(&args)
	flag.Parse()

	if args.Version {
		version.PrintAndExit()
	}
	if err := config.Setup(&args, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dlog.Start(ctx, args.LogDir, dlog.ParseLevel(args.LogLevel))
	dlog.Editor.Info("starting", version.String(), args.String())

	if args.Pprof != "" {
		go http.ListenAndServe(args.Pprof, nil)
		dlog.Editor.Info("started pprof", args.Pprof)
	}

	sess := session.New(len(args.Files))
	for i, filename := range args.Files {
		st, err := editor.Load(filename)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		sess.Slots[i] = &session.EditorSlot{State: st}
	}

	var transport dispatch.Transport
	switch args.Role {
	case config.RoleHost:
		host, err := liveshare.NewHost(sess, args.HostAddr)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		} else {
			go host.Serve(ctx)
			transport = host
			dlog.Live.Info("hosting", args.HostAddr)
		}
	case config.RoleJoin:
		joiner, err := liveshare.DialJoiner(sess, args.JoinAddr)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		} else {
			go joiner.Run(ctx)
			transport = joiner
			defer joiner.Close()
			dlog.Live.Info("joined", args.JoinAddr)
		}
	}

	term, err := termio.Open()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer term.Restore()

	d := dispatch.New(sess, transport)
	d.SearchTermReader = func() string { return readSearchTerm(term) }

	reader := termio.NewReader(bufio.NewReader(os.Stdin))
	requestCh := shutdown.RequestCh(ctx)

	run(d, sess, reader, requestCh)

	for _, slot := range sess.Slots {
		if slot == nil {
			continue
		}
		if err := slot.State.Save(); err != nil {
			dlog.Editor.Error("final save failed", err)
		}
	}
	dlog.Flush()
}

func run(d *dispatch.Dispatcher, sess *session.Session, reader *termio.Reader, requestCh <-chan struct{}) {
	for {
		render.Draw(os.Stdout, sess.Active().State, d)

		select {
		case <-requestCh:
			return
		default:
		}

		ev, err := reader.Next()
		if err != nil {
			return
		}
		d.HandleKey(ev)
		if d.Quitting() {
			return
		}
	}
}

// readSearchTerm momentarily returns the terminal to cooked mode to
// accept the search term line, per §4.3. Raw mode has already been
// entered for the session, so this is a best-effort line read off the
// same stdin stream the keystroke reader otherwise drives byte by byte.
func readSearchTerm(term *termio.Terminal) string {
	term.Restore()
	defer term.ReenterRaw()

	fmt.Fprint(os.Stdout, "search: ")
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			break
		}
		if buf[0] == '\n' || buf[0] == '\r' {
			break
		}
		sb.WriteByte(buf[0])
	}
	return sb.String()
}
