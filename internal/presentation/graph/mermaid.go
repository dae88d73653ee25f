// Package graph renders local causality graphs as Mermaid flowcharts.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/anreach/internal/lcg"
)

// Overlay carries analysis data to display on the graph.
type Overlay struct {
	// Bounds, when set, annotates every vertex with its bound.
	Bounds []lcg.Bound
}

// GenerateMermaid produces a Mermaid flowchart of g.
// Vertex kinds get their own shape:
// - LocalState: [Rectangle]
// - Objective: ([Stadium])
// - Solution: ((Circle))
// - Transition: [[Subroutine]]
// The root is highlighted.
func GenerateMermaid(g *lcg.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	vertices := g.Vertices()
	for i, v := range vertices {
		opener, closer := "[", "]"
		switch v.Kind {
		case lcg.KindObjective:
			opener, closer = "([", "])"
		case lcg.KindSolution:
			opener, closer = "((", "))"
		case lcg.KindTransition:
			opener, closer = "[[", "]]"
		}

		label := escapeLabel(g.Label(i))
		if overlay != nil && i < len(overlay.Bounds) {
			label = fmt.Sprintf("%s <br/> %s", label, overlay.Bounds[i])
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", vertexID(i), opener, label, closer)
	}

	for i, v := range vertices {
		for _, s := range v.Succ {
			fmt.Fprintf(&sb, "    %s --> %s\n", vertexID(i), vertexID(s))
		}
	}

	if root := g.Root(); root >= 0 {
		sb.WriteString("\n    %% Root\n")
		// Black text keeps the contrast on light and dark themes.
		sb.WriteString("    classDef root fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		fmt.Fprintf(&sb, "    class %s root;\n", vertexID(root))
	}
	return sb.String()
}

func vertexID(i int) string {
	return fmt.Sprintf("v%d", i)
}

// escapeLabel keeps labels inside Mermaid quotes.
func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	s = strings.ReplaceAll(s, "{", "#123;")
	s = strings.ReplaceAll(s, "}", "#125;")
	return s
}
