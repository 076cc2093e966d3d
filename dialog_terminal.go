package adforge

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	promptStyle  = color.New(color.FgCyan, color.Bold)
	invalidStyle = color.New(color.FgYellow)
)

// TerminalDialog implements Dialog using stdin/stdout. End of input and
// context cancellation while a prompt is waiting are reported as a canceled
// dialog.
type TerminalDialog struct {
	reader  *bufio.Reader
	out     io.Writer
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

var _ Dialog = &TerminalDialog{}

// NewTerminalDialog creates a Dialog that prompts via stdin/stdout.
func NewTerminalDialog() *TerminalDialog {
	return NewTerminalDialogWithOptions(TerminalDialogOptions{})
}

// TerminalDialogOptions configures a TerminalDialog.
type TerminalDialogOptions struct {
	In  io.Reader
	Out io.Writer
}

// NewTerminalDialogWithOptions creates a Dialog with custom input/output.
func NewTerminalDialogWithOptions(opts TerminalDialogOptions) *TerminalDialog {
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	// One reader for the lifetime of the dialog so buffered input is not
	// lost between prompts.
	return &TerminalDialog{reader: bufio.NewReader(in), out: out}
}

func (d *TerminalDialog) Show(ctx context.Context, in *DialogInput) (*DialogOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.Confirm {
		return d.showConfirm(ctx, in)
	}
	return d.showInput(ctx, in)
}

func (d *TerminalDialog) showConfirm(ctx context.Context, in *DialogInput) (*DialogOutput, error) {
	d.printHeader(in)

	defaultHint := "y/n"
	if in.Default == "true" {
		defaultHint = "Y/n"
	} else if in.Default == "false" {
		defaultHint = "y/N"
	}
	promptStyle.Fprintf(d.out, "%s (%s): ", in.Message, defaultHint)

	line, err := d.readLine(ctx)
	if err != nil {
		return d.interrupted(err)
	}
	if strings.TrimSpace(line) == "" {
		return &DialogOutput{Confirmed: in.Default == "true"}, nil
	}
	return &DialogOutput{Confirmed: IsAffirmative(line)}, nil
}

func (d *TerminalDialog) showInput(ctx context.Context, in *DialogInput) (*DialogOutput, error) {
	d.printHeader(in)

	for {
		if in.Default != "" {
			promptStyle.Fprintf(d.out, "%s [%s]: ", in.Message, in.Default)
		} else {
			promptStyle.Fprintf(d.out, "%s: ", in.Message)
		}

		line, err := d.readLine(ctx)
		if err != nil {
			return d.interrupted(err)
		}
		text := strings.TrimSpace(line)
		if text == "" && in.Default != "" {
			text = in.Default
		}
		if in.Validate != nil {
			if err := in.Validate(text); err != nil {
				invalidStyle.Fprintf(d.out, "Invalid: %v\n", err)
				continue
			}
		}
		return &DialogOutput{Text: text}, nil
	}
}

func (d *TerminalDialog) printHeader(in *DialogInput) {
	if in.Title == "" {
		return
	}
	fmt.Fprintln(d.out)
	fmt.Fprintf(d.out, "=== %s ===\n", in.Title)
}

func (d *TerminalDialog) interrupted(err error) (*DialogOutput, error) {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		fmt.Fprintln(d.out)
		return &DialogOutput{Canceled: true}, nil
	}
	return nil, err
}

// readLine returns the next line without its terminator. A final line
// without a newline is returned as is; io.EOF is only reported when no input
// is left. A read abandoned because ctx ended is picked up by the next call.
func (d *TerminalDialog) readLine(ctx context.Context) (string, error) {
	if d.pending == nil {
		ch := make(chan lineResult, 1)
		d.pending = ch
		go func() {
			line, err := d.reader.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-d.pending:
		d.pending = nil
		if res.err != nil {
			if res.err == io.EOF && res.line != "" {
				return strings.TrimRight(res.line, "\r\n"), nil
			}
			return "", res.err
		}
		return strings.TrimRight(res.line, "\r\n"), nil
	}
}
