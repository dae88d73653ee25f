package report

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"   __ _ _ __  _ __ ___  __ _  ___| |__",
	"  / _` | '_ \\| '__/ _ \\/ _` |/ __| '_ \\",
	" | (_| | | | | | |  __/ (_| | (__| | | |",
	"  \\__,_|_| |_|_|  \\___|\\__,_|\\___|_| |_|",
}

var bannerColours = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9"}

// PrintBanner writes the anreach banner to w, coloured when w is a
// terminal.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(out)
	for i, l := range bannerLines {
		fmt.Fprintln(out, out.String(l).Foreground(out.Color(bannerColours[i])))
	}
	fmt.Fprintln(out)
}
