package adforge

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

var (
	headerStyle  = color.New(color.FgCyan, color.Bold)
	warningStyle = color.New(color.FgYellow, color.Bold)
	errorStyle   = color.New(color.FgRed, color.Bold)
	infoStyle    = color.New(color.FgCyan)
	stepStyle    = color.New(color.FgMagenta, color.Bold)
	outputStyle  = color.New(color.FgGreen)
	borderStyle  = color.New(color.FgWhite, color.Faint)
	mutedStyle   = color.New(color.FgHiBlack)
	addedStyle   = color.New(color.FgGreen)
	removedStyle = color.New(color.FgRed)
)

const (
	boxTopLeft     = "┌"
	boxTopRight    = "┐"
	boxBottomLeft  = "└"
	boxBottomRight = "┘"
	boxHorizontal  = "─"
	boxVertical    = "│"
	bullet         = "•"
	arrow          = "→"
	checkmark      = "✓"
	xmark          = "✗"
	hourglass      = "⏳"
)

// maxBoxWidth bounds the script box so long lines wrap instead of
// stretching past a typical terminal.
const maxBoxWidth = 76

// Console prints user-facing progress. A nil *Console discards everything.
type Console struct {
	w io.Writer
}

// NewConsole returns a Console writing to w, or to stdout when w is nil.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{w: w}
}

func (c *Console) printf(style *color.Color, format string, args ...any) {
	if c == nil {
		return
	}
	text := fmt.Sprintf(format, args...)
	if style != nil {
		text = style.Sprint(text)
	}
	fmt.Fprintln(c.w, text)
}

// Heading prints a section title.
func (c *Console) Heading(title string) {
	if c == nil {
		return
	}
	fmt.Fprintln(c.w)
	c.printf(headerStyle, "%s", title)
}

// Step announces work that is about to start.
func (c *Console) Step(format string, args ...any) {
	c.printf(stepStyle, "%s %s", arrow, fmt.Sprintf(format, args...))
}

// Waiting marks a long-running operation.
func (c *Console) Waiting(format string, args ...any) {
	c.printf(infoStyle, "%s %s", hourglass, fmt.Sprintf(format, args...))
}

func (c *Console) Success(format string, args ...any) {
	c.printf(outputStyle, "%s %s", checkmark, fmt.Sprintf(format, args...))
}

func (c *Console) Warn(format string, args ...any) {
	c.printf(warningStyle, "! %s", fmt.Sprintf(format, args...))
}

func (c *Console) Error(format string, args ...any) {
	c.printf(errorStyle, "%s %s", xmark, fmt.Sprintf(format, args...))
}

func (c *Console) Info(format string, args ...any) {
	c.printf(nil, "%s", fmt.Sprintf(format, args...))
}

// Field prints a labelled value as a bullet item.
func (c *Console) Field(label, value string) {
	if c == nil {
		return
	}
	fmt.Fprintf(c.w, "  %s %s %s\n", mutedStyle.Sprint(bullet), infoStyle.Sprint(label+":"), value)
}

// Brief prints the gathered campaign facts.
func (c *Console) Brief(brief CampaignBrief, avatarID string) {
	c.Heading("Campaign summary")
	c.Field("Product", brief.ProductName)
	c.Field("Audience", brief.Audience)
	c.Field("Tone", brief.Tone)
	if avatarID != "" {
		c.Field("Avatar", avatarID)
	}
}

// Script prints the script inside a box.
func (c *Console) Script(script *Script) {
	if c == nil || script == nil {
		return
	}
	title := fmt.Sprintf(" Ad script (revision %d) ", script.Revision)
	c.box(title, script.Text)
}

func (c *Console) box(title, body string) {
	lines := wrapLines(body, maxBoxWidth)
	width := displayWidth(title) + 2
	for _, line := range lines {
		if w := displayWidth(line); w > width {
			width = w
		}
	}

	top := boxTopLeft + boxHorizontal + title +
		strings.Repeat(boxHorizontal, width-displayWidth(title)+1) + boxTopRight
	fmt.Fprintln(c.w, borderStyle.Sprint(top))
	for _, line := range lines {
		pad := strings.Repeat(" ", width-displayWidth(line))
		fmt.Fprintf(c.w, "%s %s%s %s\n",
			borderStyle.Sprint(boxVertical), line, pad, borderStyle.Sprint(boxVertical))
	}
	bottom := boxBottomLeft + strings.Repeat(boxHorizontal, width+2) + boxBottomRight
	fmt.Fprintln(c.w, borderStyle.Sprint(bottom))
}

// Diff prints a unified diff, colouring added and removed lines.
func (c *Console) Diff(diff string) {
	if c == nil || diff == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprintln(c.w, mutedStyle.Sprint(line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprintln(c.w, infoStyle.Sprint(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(c.w, addedStyle.Sprint(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(c.w, removedStyle.Sprint(line))
		default:
			fmt.Fprintln(c.w, line)
		}
	}
}

// Banner prints the end-of-run summary.
func (c *Console) Banner(result *RenderResult) {
	if c == nil || result == nil {
		return
	}
	fmt.Fprintln(c.w)
	c.printf(headerStyle, "%s", strings.Repeat("=", 50))
	if result.Placeholder {
		c.printf(warningStyle, "PLACEHOLDER VIDEO (rendering failed, this is not a real video)")
	} else {
		c.printf(outputStyle, "%s Your ad video is ready!", checkmark)
	}
	c.printf(headerStyle, "%s", strings.Repeat("=", 50))
	if result.JobID != "" {
		c.Field("Job ID", result.JobID)
	}
	c.Field("Video URL", result.RemoteURL)
	if result.LocalPath != "" {
		c.Field("Saved to", result.LocalPath)
	}
}

// wrapLines splits text on newlines and wraps each line at width display
// columns, breaking on spaces where possible.
func wrapLines(text string, width int) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.ReplaceAll(line, "\t", "    ")
		for displayWidth(line) > width {
			cut := runewidth.Truncate(line, width, "")
			if i := strings.LastIndex(cut, " "); i > 0 {
				cut = cut[:i]
			}
			out = append(out, cut)
			line = strings.TrimLeft(line[len(cut):], " ")
		}
		out = append(out, line)
	}
	return out
}

// stripANSI removes ANSI escape sequences from text for length calculation
func stripANSI(text string) string {
	result := strings.Builder{}
	inEscape := false

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\x1b' && i+1 < len(runes) && runes[i+1] == '[' {
			inEscape = true
			i++
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

// displayWidth calculates the display width of text, accounting for wide
// characters and colour codes.
func displayWidth(text string) int {
	return runewidth.StringWidth(stripANSI(text))
}
