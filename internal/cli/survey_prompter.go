package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	surveycore "github.com/AlecAivazis/survey/v2/core"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"
)

var askSurveyOne = func(prompt survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
	return survey.AskOne(prompt, response, opts...)
}

// surveyPrompter asks with arrow-key prompts. Esc goes back one step and
// Ctrl+C cancels the wizard.
type surveyPrompter struct {
	cmd *cobra.Command
}

func newSurveyPrompter(cmd *cobra.Command) *surveyPrompter {
	fmt.Fprintln(cmd.OutOrStdout(), "Use Up/Down arrows and Enter to answer, Esc to go back.")
	return &surveyPrompter{cmd: cmd}
}

func (p *surveyPrompter) Select(message string, options []string, current int) (int, error) {
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: 10,
		Filter: func(filter string, value string, _ int) bool {
			if strings.TrimSpace(filter) == "" {
				return true
			}

			return strings.Contains(strings.ToLower(value), strings.ToLower(filter))
		},
		FilterMessage: "Filter:",
	}
	if current >= 0 && current < len(options) {
		prompt.Default = options[current]
	}

	index := -1
	if err := p.ask(prompt, &index); err != nil {
		return -1, err
	}

	return index, nil
}

func (p *surveyPrompter) Input(message, current string) (string, error) {
	value := ""
	if err := p.ask(&survey.Input{Message: message, Default: current}, &value); err != nil {
		return "", err
	}

	return strings.TrimSpace(value), nil
}

func (p *surveyPrompter) Hosts(message, current string) (string, error) {
	value := ""
	prompt := &survey.Multiline{
		Message: message + " (one per line)",
		Default: current,
	}
	if err := p.ask(prompt, &value); err != nil {
		return "", err
	}

	return value, nil
}

func (p *surveyPrompter) Secret(message string) (string, error) {
	value := ""
	if err := p.ask(&survey.Password{Message: message}, &value); err != nil {
		return "", err
	}

	return strings.TrimSpace(value), nil
}

func (p *surveyPrompter) Confirm(message string, current bool) (bool, error) {
	value := current
	if err := p.ask(&survey.Confirm{Message: message, Default: current}, &value); err != nil {
		return false, err
	}

	return value, nil
}

func (p *surveyPrompter) ask(prompt survey.Prompt, response interface{}) error {
	colorEnabled := surveyColorsEnabled()
	previousDisableColor := surveycore.DisableColor
	surveycore.DisableColor = !colorEnabled
	defer func() {
		surveycore.DisableColor = previousDisableColor
	}()

	questionFormat := "default"
	selectFocusFormat := "default"
	if colorEnabled {
		questionFormat = "cyan"
		selectFocusFormat = "cyan"
	}

	options := []survey.AskOpt{survey.WithIcons(func(icons *survey.IconSet) {
		icons.Question.Text = ">"
		icons.Question.Format = questionFormat
		icons.SelectFocus.Text = ">"
		icons.SelectFocus.Format = selectFocusFormat
	})}

	var escInput *escBackReader
	inputFile, inputOK := p.cmd.InOrStdin().(*os.File)
	outputFile, outputOK := p.cmd.OutOrStdout().(*os.File)
	if inputOK && outputOK {
		escInput = newEscBackReader(inputFile)
		options = append(options, survey.WithStdio(escInput, outputFile, outputFile))
	}

	err := askSurveyOne(prompt, response, options...)
	if errors.Is(err, terminal.InterruptErr) {
		if escInput != nil && escInput.ConsumeBackPressed() {
			return errBack
		}

		return errCancelled
	}

	return err
}

func surveyColorsEnabled() bool {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return false
	}

	termValue := strings.TrimSpace(strings.ToLower(os.Getenv("TERM")))
	return termValue != "dumb"
}
