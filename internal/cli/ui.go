package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/storeblocks/pkg/pipeline"
)

// uiOut receives status output. Rendered HTML goes to stdout, so status
// lines go to stderr.
var uiOut io.Writer = os.Stderr

// =============================================================================
// Palette and Styles
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorValue  = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

// Exported styles are shared with the preview TUI.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleLink      = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorMuted)
	StyleValue     = lipgloss.NewStyle().Foreground(colorValue)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorOK)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleLabel       = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCached      = lipgloss.NewStyle().Foreground(colorOK)
	styleComputed    = lipgloss.NewStyle().Foreground(colorLabel)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)
)

const (
	iconArrow  = "→"
	iconCached = "cached"
	iconFresh  = "fresh"
)

// =============================================================================
// Status Lines
// =============================================================================

// statusKind is the leading icon of a status line. body styles the message
// itself; the zero style leaves it plain.
type statusKind struct {
	icon string
	mark lipgloss.Style
	body lipgloss.Style
}

var (
	statusSuccess = statusKind{icon: "✓", mark: lipgloss.NewStyle().Foreground(colorOK)}
	statusError   = statusKind{icon: "✗", mark: lipgloss.NewStyle().Foreground(colorFail)}
	statusWarning = statusKind{icon: "!", mark: lipgloss.NewStyle().Foreground(colorWarn), body: StyleWarning}
	statusInfo    = statusKind{icon: "›", mark: lipgloss.NewStyle().Foreground(colorLabel)}
)

func (k statusKind) line(format string, args ...any) string {
	return k.mark.Render(k.icon) + " " + k.body.Render(fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) {
	fmt.Fprintln(uiOut, statusSuccess.line(format, args...))
}
func printError(format string, args ...any) { fmt.Fprintln(uiOut, statusError.line(format, args...)) }
func printWarning(format string, args ...any) {
	fmt.Fprintln(uiOut, statusWarning.line(format, args...))
}
func printInfo(format string, args ...any) { fmt.Fprintln(uiOut, statusInfo.line(format, args...)) }

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a file the command wrote.
func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Pipeline Output
// =============================================================================

// statsLine summarizes a render on a single line, e.g.
// "6 blocks · 5 rendered · 1 skipped · 2 cached · fresh".
func statsLine(s pipeline.Stats, c pipeline.CacheInfo) string {
	parts := []string{fmt.Sprintf("%d blocks", s.Blocks), fmt.Sprintf("%d rendered", s.Rendered)}
	if skipped := s.Unknown + s.Invalid; skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", skipped))
	}
	if c.BlockHits > 0 {
		parts = append(parts, fmt.Sprintf("%d cached", c.BlockHits))
	}

	var b strings.Builder
	b.WriteString("  ")
	for i, part := range parts {
		if i > 0 {
			b.WriteString(StyleDim.Render(" · "))
		}
		b.WriteString(StyleDim.Render(part))
	}
	b.WriteString(StyleDim.Render(" · "))
	if c.PageHit {
		b.WriteString(styleCached.Render(iconCached))
	} else {
		b.WriteString(styleComputed.Render(iconFresh))
	}
	return b.String()
}

func printStats(s pipeline.Stats, c pipeline.CacheInfo) {
	fmt.Fprintln(uiOut, statsLine(s, c))
}

// printTimings prints the per-stage durations of a render.
func printTimings(s pipeline.Stats) {
	printKeyValue("fetch", s.FetchTime.Round(time.Microsecond).String())
	printKeyValue("resolve", s.ResolveTime.Round(time.Microsecond).String())
	printKeyValue("render", s.RenderTime.Round(time.Microsecond).String())
}

// printIssues lists blocks that were skipped or degraded.
func printIssues(issues []pipeline.Issue) {
	for _, is := range issues {
		printWarning("%s", is.String())
	}
}
