package main

import (
	"fmt"
	"io"

	"github.com/abihf/rollcall"
	"github.com/abihf/rollcall/protocol"
)

// terminalNotifier prints notices; errors go to errOut.
type terminalNotifier struct {
	out    io.Writer
	errOut io.Writer
}

func (t *terminalNotifier) Notify(n rollcall.Notice) {
	printNotice(t.out, t.errOut, n.Kind.String(), n.Message)
}

func printNotice(out, errOut io.Writer, kind, message string) {
	w := out
	if kind == rollcall.KindError.String() {
		w = errOut
	}
	fmt.Fprintf(w, "[%s] %s\n", kind, message)
}

func printRemoteNotices(out, errOut io.Writer, notices []protocol.Notice) {
	for _, n := range notices {
		printNotice(out, errOut, n.Kind, n.Message)
	}
}
