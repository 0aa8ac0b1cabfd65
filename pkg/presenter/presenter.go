// Package presenter writes user-facing CLI output: results, warnings, errors
// and prompts, coloured when the terminal allows it.
package presenter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Presenter is the CLI output surface.
type Presenter interface {
	Error(err error, context string)
	Success(message string)
	Warning(message string)
	Info(message string)
	Section(title string)
	Field(label, value string)
	Confirm(question string) bool
	Separator()
	SetQuiet(quiet bool)
	IsQuiet() bool
}

// TerminalPresenter implements Presenter for terminal output.
type TerminalPresenter struct {
	output      io.Writer
	errorOutput io.Writer
	input       io.Reader
	colorMode   ColorMode
	quiet       bool
}

// ColorMode selects when output is coloured.
type ColorMode int

const (
	// ColorAuto colours output when writing to a terminal
	ColorAuto ColorMode = iota
	// ColorAlways forces colour
	ColorAlways
	// ColorNever disables colour
	ColorNever
)

// ColorEnv overrides colour detection: always/force, never/off or auto.
const ColorEnv = "AGENTDIR_COLOR"

// New creates a presenter on stdout and stderr.
func New() *TerminalPresenter {
	return NewWithOptions(os.Stdout, os.Stderr, detectColorMode())
}

// NewWithOptions creates a presenter with custom writers.
func NewWithOptions(output, errorOutput io.Writer, colorMode ColorMode) *TerminalPresenter {
	p := &TerminalPresenter{
		output:      output,
		errorOutput: errorOutput,
		input:       os.Stdin,
		colorMode:   colorMode,
	}

	switch colorMode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	case ColorAuto:
	}

	return p
}

// SetInput replaces the reader Confirm reads answers from.
func (p *TerminalPresenter) SetInput(r io.Reader) {
	p.input = r
}

func detectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}

	switch os.Getenv(ColorEnv) {
	case "always", "force":
		return ColorAlways
	case "never", "off":
		return ColorNever
	default:
		return ColorAuto
	}
}

// Error writes err to stderr. It is shown in quiet mode too.
func (p *TerminalPresenter) Error(err error, context string) {
	if err == nil {
		return
	}

	errorColor := color.New(color.FgRed, color.Bold)
	if context != "" {
		errorColor.Fprintf(p.errorOutput, "[ERROR] %s: %v\n", context, err)
	} else {
		errorColor.Fprintf(p.errorOutput, "[ERROR] %v\n", err)
	}
}

func (p *TerminalPresenter) Success(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgGreen, color.Bold).Fprintf(p.output, "✓ %s\n", message)
}

func (p *TerminalPresenter) Warning(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgYellow, color.Bold).Fprintf(p.output, "⚠ %s\n", message)
}

func (p *TerminalPresenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.output, "%s\n", message)
}

// Section writes an underlined header.
func (p *TerminalPresenter) Section(title string) {
	if p.quiet {
		return
	}

	headerColor := color.New(color.Bold)
	headerColor.Fprintf(p.output, "%s\n", title)
	headerColor.Fprintf(p.output, "%s\n", strings.Repeat("-", len([]rune(title))))
}

// Field writes an aligned "label: value" line.
func (p *TerminalPresenter) Field(label, value string) {
	if p.quiet {
		return
	}
	color.New(color.Faint).Fprintf(p.output, "%-12s", label+":")
	fmt.Fprintf(p.output, " %s\n", value)
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (p *TerminalPresenter) Confirm(question string) bool {
	color.New(color.FgCyan).Fprintf(p.output, "%s [y/N]: ", question)

	response, err := bufio.NewReader(p.input).ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (p *TerminalPresenter) Separator() {
	if p.quiet {
		return
	}
	color.New(color.Faint).Fprintf(p.output, "%s\n", strings.Repeat("-", 60))
}

func (p *TerminalPresenter) SetQuiet(quiet bool) {
	p.quiet = quiet
}

func (p *TerminalPresenter) IsQuiet() bool {
	return p.quiet
}

var defaultPresenter = New()

// Default returns the shared presenter behind the package-level helpers.
func Default() *TerminalPresenter {
	return defaultPresenter
}

// Error writes an error using the default presenter.
func Error(err error, context string) {
	defaultPresenter.Error(err, context)
}

// Success writes a success message using the default presenter.
func Success(message string) {
	defaultPresenter.Success(message)
}

// Warning writes a warning using the default presenter.
func Warning(message string) {
	defaultPresenter.Warning(message)
}

// Info writes a message using the default presenter.
func Info(message string) {
	defaultPresenter.Info(message)
}

// Section writes a header using the default presenter.
func Section(title string) {
	defaultPresenter.Section(title)
}

// Field writes a label and value using the default presenter.
func Field(label, value string) {
	defaultPresenter.Field(label, value)
}

// Confirm asks a yes/no question using the default presenter.
func Confirm(question string) bool {
	return defaultPresenter.Confirm(question)
}

// Separator writes a separator using the default presenter.
func Separator() {
	defaultPresenter.Separator()
}

// SetQuiet toggles quiet mode on the default presenter.
func SetQuiet(quiet bool) {
	defaultPresenter.SetQuiet(quiet)
}

// IsQuiet reports whether the default presenter is quiet.
func IsQuiet() bool {
	return defaultPresenter.IsQuiet()
}
