// Package console implements the terminal surface of the provisioner:
// operator prompts, status lines, tables and QR codes.
package console

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mdp/qrterminal/v3"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/atomic"
)

// Console renders to out and asks questions on the controlling
// terminal. It implements both the Prompter and Reporter contracts of
// the orchestration core.
type Console struct {
	out  io.Writer
	busy atomic.Bool
}

// New returns a console writing to out. A nil out defaults to stdout.
func New(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

// Confirm asks a yes/no question, blocking until the operator answers.
func (c *Console) Confirm(question string, defaultYes bool) (bool, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return false, errors.New("another prompt is already in progress")
	}
	defer c.busy.Store(false)

	answer := defaultYes
	if err := survey.AskOne(&survey.Confirm{Message: question, Default: defaultYes}, &answer); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return answer, nil
}

// Input asks for a single line, re-prompting until validate accepts the
// answer. Validation failures stay inside the prompt loop.
func (c *Console) Input(question string, validate func(string) error) (string, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return "", errors.New("another prompt is already in progress")
	}
	defer c.busy.Store(false)

	var opts []survey.AskOpt
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, ok := ans.(string)
			if !ok {
				return errors.New("expected a text answer")
			}
			return validate(s)
		}))
	}

	var answer string
	if err := survey.AskOne(&survey.Input{Message: question}, &answer, opts...); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return answer, nil
}

// Info prints a status line.
func (c *Console) Info(msg string) {
	fmt.Fprintln(c.out, msg)
}

// Warn prints a warning line.
func (c *Console) Warn(msg string) {
	fmt.Fprintf(c.out, "warning: %s\n", msg)
}

// Table renders a titled table.
func (c *Console) Table(title string, header []string, rows [][]string) {
	if title != "" {
		fmt.Fprintln(c.out, title)
	}
	table := tablewriter.NewWriter(c.out)
	table.SetHeader(header)
	table.AppendBulk(rows)
	table.Render()
}

// QR renders a scannable code for the URL, half-block style to keep it
// compact on standard terminals.
func (c *Console) QR(url string) {
	qrterminal.GenerateHalfBlock(url, qrterminal.L, c.out)
}
