// Package prompt supplies the yes/no confirmation gate. One gate is chosen
// per run: interactive gates block on operator input, unattended gates
// approve everything while keeping the questions on record.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kitout-sh/kitout/internal/logger"
)

// Gate answers yes/no questions. The default is offered when the operator
// just presses enter; unattended implementations ignore it.
type Gate interface {
	Confirm(question string, def bool) bool
}

// Interactive reads answers from the operator. A run blocks at each question
// until a usable answer arrives.
type Interactive struct {
	in  *bufio.Reader
	out io.Writer
	log *logger.Logger
}

// NewInteractive creates a gate reading from in and writing prompts to out.
func NewInteractive(in io.Reader, out io.Writer, log *logger.Logger) *Interactive {
	return &Interactive{
		in:  bufio.NewReader(in),
		out: out,
		log: log,
	}
}

// Confirm renders the question with its default marked, then blocks for
// input. Empty input takes the default, anything unrecognised re-asks, and
// a closed input stream counts as a decline.
func (g *Interactive) Confirm(question string, def bool) bool {
	suffix := "[y/N]"
	if def {
		suffix = "[Y/n]"
	}

	for {
		fmt.Fprintf(g.out, "%s %s ", question, suffix)

		line, err := g.in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(g.out)
			g.record(question, false, "input closed")
			return false
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			g.record(question, def, "default")
			return def
		case "y", "yes":
			g.record(question, true, "answered")
			return true
		case "n", "no":
			g.record(question, false, "answered")
			return false
		default:
			fmt.Fprintln(g.out, "Please answer y or n.")
		}
	}
}

func (g *Interactive) record(question string, answer bool, how string) {
	g.log.WithFields(map[string]any{
		"question": question,
		"answer":   answerWord(answer),
		"via":      how,
	}).Info("Confirmation")
}

// Unattended approves every question immediately. Each question is still
// logged with its auto-answer so the transcript shows what would have been
// asked: unattended mode is observable-yes, not silent-yes.
type Unattended struct {
	log *logger.Logger
}

// NewUnattended creates an auto-approving gate.
func NewUnattended(log *logger.Logger) *Unattended {
	return &Unattended{log: log}
}

// Confirm returns true without blocking.
func (g *Unattended) Confirm(question string, _ bool) bool {
	g.log.WithFields(map[string]any{
		"question": question,
		"answer":   "yes",
		"via":      "unattended",
	}).Info("Confirmation")
	return true
}

func answerWord(answer bool) string {
	if answer {
		return "yes"
	}
	return "no"
}
