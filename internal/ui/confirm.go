package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) (bool, error) { return f(prompt) }

var (
	// Accept confirms without asking.
	Accept Confirmer = ConfirmFunc(func(string) (bool, error) { return true, nil })

	// Decline refuses without asking.
	Decline Confirmer = ConfirmFunc(func(string) (bool, error) { return false, nil })
)

// Prompt asks on Out and reads a y/N answer from In.
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

// Confirm implements Confirmer. Only "y" and "yes" (any case) confirm;
// end of input declines.
func (p Prompt) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(p.Out, "%s [y/N] ", prompt)

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
