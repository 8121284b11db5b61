package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// errBack is returned by a prompter when the user asks for the previous
// step.
var errBack = errors.New("back")

// errCancelled is returned when the user abandons the wizard.
var errCancelled = errors.New("wizard cancelled")

// prompter asks the questions of the guided wizard. Select returns an index
// into options; current is the preselected index or -1.
type prompter interface {
	Select(message string, options []string, current int) (int, error)
	Input(message, current string) (string, error)
	Hosts(message, current string) (string, error)
	Secret(message string) (string, error)
	Confirm(message string, current bool) (bool, error)
}

// backInput typed at any plain prompt goes back one step.
const backInput = "<"

type plainPrompter struct {
	input        io.Reader
	output       io.Writer
	reader       *bufio.Reader
	secretReader func(fd int) ([]byte, error)
}

func newPlainPrompter(input io.Reader, output io.Writer) *plainPrompter {
	return &plainPrompter{
		input:        input,
		output:       output,
		reader:       bufio.NewReader(input),
		secretReader: term.ReadPassword,
	}
}

func (p *plainPrompter) Select(message string, options []string, current int) (int, error) {
	fmt.Fprintln(p.output, message)
	for i, option := range options {
		marker := " "
		if i == current {
			marker = "*"
		}
		fmt.Fprintf(p.output, " %s%d) %s\n", marker, i+1, option)
	}

	prompt := fmt.Sprintf("Option [1-%d]: ", len(options))
	if current >= 0 && current < len(options) {
		prompt = fmt.Sprintf("Option [1-%d, Enter=%d]: ", len(options), current+1)
	}

	for {
		choice, err := readTrimmedLine(p.reader, p.output, prompt)
		if err != nil {
			return -1, fmt.Errorf("read %s: %w", strings.ToLower(message), err)
		}

		if choice == backInput {
			return -1, errBack
		}

		if choice == "" && current >= 0 && current < len(options) {
			return current, nil
		}

		index, err := strconv.Atoi(choice)
		if err != nil || index < 1 || index > len(options) {
			fmt.Fprintf(p.output, "Invalid option %q. Enter 1-%d.\n", choice, len(options))
			continue
		}

		return index - 1, nil
	}
}

func (p *plainPrompter) Input(message, current string) (string, error) {
	prompt := message + ": "
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]: ", message, current)
	}

	value, err := readTrimmedLine(p.reader, p.output, prompt)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(message), err)
	}

	switch value {
	case backInput:
		return "", errBack
	case "":
		return current, nil
	}

	return value, nil
}

// Hosts reads lines until an empty one. An empty first line keeps current.
func (p *plainPrompter) Hosts(message, current string) (string, error) {
	fmt.Fprintf(p.output, "%s (one per line, empty line to finish)\n", message)
	if current != "" {
		fmt.Fprintf(p.output, "Current: %s\n", strings.ReplaceAll(current, "\n", ", "))
	}

	var lines []string
	for {
		line, err := readTrimmedLine(p.reader, p.output, "> ")
		if err != nil {
			if errors.Is(err, io.EOF) && len(lines) > 0 {
				break
			}
			return "", fmt.Errorf("read hosts: %w", err)
		}

		if line == backInput {
			return "", errBack
		}

		if line == "" {
			break
		}

		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return current, nil
	}

	return strings.Join(lines, "\n"), nil
}

// Secret reads without echo on a terminal.
func (p *plainPrompter) Secret(message string) (string, error) {
	fmt.Fprintf(p.output, "%s: ", message)

	if inputFile, ok := p.input.(*os.File); ok && term.IsTerminal(int(inputFile.Fd())) {
		value, err := p.secretReader(int(inputFile.Fd()))
		fmt.Fprintln(p.output)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", strings.ToLower(message), err)
		}

		return strings.TrimSpace(string(value)), nil
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && strings.TrimSpace(line) == "" {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(message), err)
	}

	value := strings.TrimSpace(line)
	if value == backInput {
		return "", errBack
	}

	return value, nil
}

func (p *plainPrompter) Confirm(message string, current bool) (bool, error) {
	suffix := " [y/N]: "
	if current {
		suffix = " [Y/n]: "
	}

	for {
		answer, err := readTrimmedLine(p.reader, p.output, message+suffix)
		if err != nil {
			return false, fmt.Errorf("read %s: %w", strings.ToLower(message), err)
		}

		switch strings.ToLower(answer) {
		case "":
			return current, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		case backInput:
			return false, errBack
		default:
			fmt.Fprintln(p.output, "Please answer yes or no.")
		}
	}
}
