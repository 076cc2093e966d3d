package adforge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrNoAnswer is returned by ScriptedDialog when no answer is queued for a
// prompt.
var ErrNoAnswer = errors.New("no scripted answer")

// ScriptedDialog answers prompts from per-ID queues. It stands in for the
// human in the demo and in tests. When a queue is empty the ID's fallback is
// used; with no fallback either, Show returns ErrNoAnswer.
type ScriptedDialog struct {
	mu        sync.Mutex
	answers   map[string][]string
	fallbacks map[string]string
	asked     []string
	echo      io.Writer
}

var _ Dialog = &ScriptedDialog{}

// NewScriptedDialog returns an empty ScriptedDialog.
func NewScriptedDialog() *ScriptedDialog {
	return &ScriptedDialog{
		answers:   map[string][]string{},
		fallbacks: map[string]string{},
	}
}

// Answer queues answers for a prompt ID, consumed in order.
func (d *ScriptedDialog) Answer(id string, answers ...string) *ScriptedDialog {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.answers[id] = append(d.answers[id], answers...)
	return d
}

// Fallback sets the answer used once the queue for id is empty.
func (d *ScriptedDialog) Fallback(id, answer string) *ScriptedDialog {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fallbacks[id] = answer
	return d
}

// Echo writes each question and its scripted answer to w, so a demo run
// reads like an interactive one.
func (d *ScriptedDialog) Echo(w io.Writer) *ScriptedDialog {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.echo = w
	return d
}

// Asked returns the prompt IDs shown so far, in order.
func (d *ScriptedDialog) Asked() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.asked))
	copy(out, d.asked)
	return out
}

// Count returns how many times the prompt id was shown.
func (d *ScriptedDialog) Count(id string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, asked := range d.asked {
		if asked == id {
			n++
		}
	}
	return n
}

func (d *ScriptedDialog) Show(ctx context.Context, in *DialogInput) (*DialogOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.asked = append(d.asked, in.ID)
	for {
		answer, queued, ok := d.next(in.ID)
		if !ok {
			return nil, fmt.Errorf("%w for prompt %q", ErrNoAnswer, in.ID)
		}
		if d.echo != nil {
			fmt.Fprintf(d.echo, "%s %s\n", in.Message, answer)
		}
		if in.Confirm {
			return &DialogOutput{Confirmed: IsAffirmative(answer)}, nil
		}
		if in.Validate != nil {
			if err := in.Validate(answer); err != nil {
				// A rejected fallback would be offered again forever
				if !queued {
					return nil, fmt.Errorf("scripted answer for prompt %q: %w", in.ID, err)
				}
				continue
			}
		}
		return &DialogOutput{Text: answer}, nil
	}
}

// next pops the queue for id, or returns its fallback with queued=false.
func (d *ScriptedDialog) next(id string) (answer string, queued bool, ok bool) {
	if queue := d.answers[id]; len(queue) > 0 {
		d.answers[id] = queue[1:]
		return queue[0], true, true
	}
	answer, ok = d.fallbacks[id]
	return answer, false, ok
}
