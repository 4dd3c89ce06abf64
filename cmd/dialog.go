package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/desertthunder/karalib/internal/ui"
)

// stdinDialog backs the engine's confirm/prompt/alert interactions with the
// terminal. Scripted invocations can bypass confirmations with assumeYes
// (the --yes flag) and pre-queue prompt answers from command arguments.
type stdinDialog struct {
	mu          sync.Mutex
	in          *bufio.Reader
	out         io.Writer
	assumeYes   bool
	promptQueue []string
}

func newStdinDialog(in io.Reader, out io.Writer) *stdinDialog {
	return &stdinDialog{in: bufio.NewReader(in), out: out}
}

// queuePrompt makes the next Prompt call return answer without reading stdin.
func (d *stdinDialog) queuePrompt(answer string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.promptQueue = append(d.promptQueue, answer)
}

func (d *stdinDialog) Confirm(message string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.assumeYes {
		return true, nil
	}

	fmt.Fprintf(d.out, "%s [s/N] ", message)
	line, err := d.readLine()
	if err != nil {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (d *stdinDialog) Prompt(message, defaultValue string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.promptQueue) > 0 {
		answer := d.promptQueue[0]
		d.promptQueue = d.promptQueue[1:]
		return answer, nil
	}

	if defaultValue != "" {
		fmt.Fprintf(d.out, "%s [%s] ", message, defaultValue)
	} else {
		fmt.Fprintf(d.out, "%s ", message)
	}

	line, err := d.readLine()
	if err != nil {
		return "", err
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

func (d *stdinDialog) Alert(message string) {
	fmt.Fprintln(d.out, ui.Warn(message))
}

// readLine tolerates a missing trailing newline on the final stdin line.
func (d *stdinDialog) readLine() (string, error) {
	line, err := d.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return line, nil
}
