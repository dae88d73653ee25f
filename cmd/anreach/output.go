package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/anreach/internal/presentation/report"
	"github.com/aretw0/anreach/internal/presentation/trace"
	"github.com/aretw0/anreach/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Output formats of a report.
const (
	formatText     = "text"
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

func terminalFd(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	return int(f.Fd()), true
}

// colourProfile keeps colours for terminals only.
func colourProfile(w io.Writer) termenv.Profile {
	if _, ok := terminalFd(w); !ok {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).EnvColorProfile()
}

func renderMarkdown(w io.Writer, md string) (string, error) {
	render, err := report.NewPlainRenderer()
	if fd, ok := terminalFd(w); ok {
		width, _, sizeErr := term.GetSize(fd)
		if sizeErr != nil {
			width = 0
		}
		render, err = report.NewRenderer(width)
	}
	if err != nil {
		return "", err
	}
	return render(md)
}

// writeReport prints r in format. verbose adds the trace and its moves to
// the text format.
func writeReport(w io.Writer, net *domain.Network, r *domain.Report, format string, verbose bool) error {
	switch format {
	case formatJSON:
		return report.WriteJSON(w, r)
	case formatMarkdown:
		out, err := renderMarkdown(w, report.Markdown(net, r))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	case formatText, "":
	default:
		return fmt.Errorf("unknown format %q (want text, markdown or json)", format)
	}

	if _, err := fmt.Fprintln(w, r.Message(net)); err != nil {
		return err
	}
	if !verbose || r.Trace == nil {
		return nil
	}
	p := trace.NewPrinter(w, net, trace.WithProfile(colourProfile(w)))
	if err := p.Print(r.Trace); err != nil {
		return err
	}
	return p.PrintMoves(r.Trace)
}
