package console_reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/eosio-testing/cluster-bootstrap-module/bootstrap-module/impl/launcher_rest_client"
)

// Verbosity selects the reporting strategy at construction time; it gates
// observability output only, never control flow.
type Verbosity int

const (
	VerbositySilent Verbosity = iota
	VerbosityShort
	VerbosityPrompted
	VerbosityFull
)

const (
	timestampFormat = "2006-01-02 15:04:05"

	labelColumnWidth = 24
	helpColumnWidth  = 46

	responsePrompt = "response> "
)

// VerbosityFromLevel maps the numeric -v level onto a strategy: 0 is silent,
// 1 short, 2 prompted, 3 and above full.
func VerbosityFromLevel(level int) Verbosity {
	switch {
	case level <= 0:
		return VerbositySilent
	case level == 1:
		return VerbosityShort
	case level == 2:
		return VerbosityPrompted
	default:
		return VerbosityFull
	}
}

// ConsoleReporter renders call progress and configuration tables on the
// console. It satisfies launcher_rest_client.Reporter.
type ConsoleReporter struct {
	verbosity Verbosity
	out       io.Writer

	headerStyle   lipgloss.Style
	emphasisStyle lipgloss.Style
	successStyle  lipgloss.Style
	warningStyle  lipgloss.Style
	failureStyle  lipgloss.Style
}

func NewConsoleReporter(verbosityLevel int, monochrome bool) *ConsoleReporter {
	return newConsoleReporter(verbosityLevel, monochrome, os.Stdout)
}

func newConsoleReporter(verbosityLevel int, monochrome bool, out io.Writer) *ConsoleReporter {
	reporter := &ConsoleReporter{
		verbosity: VerbosityFromLevel(verbosityLevel),
		out:       out,
	}
	if monochrome {
		plain := lipgloss.NewStyle()
		reporter.headerStyle = plain
		reporter.emphasisStyle = plain
		reporter.successStyle = plain
		reporter.warningStyle = plain
		reporter.failureStyle = plain
	} else {
		reporter.headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
		reporter.emphasisStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
		reporter.successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
		reporter.warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
		reporter.failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	}
	return reporter
}

// Section prints a banner line introducing the next phase of the run.
func (reporter *ConsoleReporter) Section(title string) {
	if reporter.verbosity == VerbositySilent {
		return
	}
	fmt.Fprintln(reporter.out, reporter.headerStyle.Render(title))
}

// SystemInfo prints the timestamps and platform the run executes under.
func (reporter *ConsoleReporter) SystemInfo() {
	if reporter.verbosity == VerbositySilent {
		return
	}
	reporter.Section("system info")
	now := time.Now()
	fmt.Fprintf(reporter.out, "%-70v%v\n", "UTC Time", now.UTC().Format(timestampFormat))
	fmt.Fprintf(reporter.out, "%-70v%v\n", "Local Time", now.Format(timestampFormat))
	fmt.Fprintf(reporter.out, "%-70v%v/%v\n", "Platform", runtime.GOOS, runtime.GOARCH)
}

// ConfigEntry prints one resolved setting; values that differ from their
// built-in default are emphasized.
func (reporter *ConsoleReporter) ConfigEntry(label string, help string, value interface{}, defaultValue interface{}) {
	if reporter.verbosity == VerbositySilent {
		return
	}
	rendered := fmt.Sprintf("%v", value)
	if fmt.Sprintf("%v", value) != fmt.Sprintf("%v", defaultValue) {
		rendered = reporter.emphasisStyle.Render(rendered)
	}
	fmt.Fprintf(
		reporter.out,
		"%-*v%-*v%v\n",
		labelColumnWidth,
		reporter.warningStyle.Render(label),
		helpColumnWidth,
		help,
		rendered,
	)
}

// ==================================================================================================
//                                launcher_rest_client.Reporter
// ==================================================================================================

func (reporter *ConsoleReporter) Header(endpoint string) {
	reporter.Section(strings.ReplaceAll(endpoint, "_", " "))
}

func (reporter *ConsoleReporter) Request(attempt *launcher_rest_client.Attempt) {
	if reporter.verbosity == VerbositySilent {
		return
	}
	fmt.Fprintln(reporter.out, attempt.URL)
	fmt.Fprintln(reporter.out, indentJson(attempt.RequestBody))
}

func (reporter *ConsoleReporter) RetryFailure(attempt *launcher_rest_client.Attempt) {
	if reporter.verbosity == VerbositySilent {
		return
	}
	if attempt.TransportErr != nil {
		fmt.Fprintln(reporter.out, reporter.failureStyle.Render(fmt.Sprintf("transport error: %v", attempt.TransportErr)))
	} else {
		fmt.Fprintln(reporter.out, reporter.failureStyle.Render(fmt.Sprintf("<Response [%v]>", attempt.StatusCode)))
	}
	fmt.Fprintln(reporter.out, "Retrying ...")
}

func (reporter *ConsoleReporter) Response(attempt *launcher_rest_client.Attempt) {
	statusLine := fmt.Sprintf("<Response [%v]>", attempt.StatusCode)
	if attempt.Succeeded() {
		statusLine = reporter.successStyle.Render(statusLine)
	} else {
		statusLine = reporter.failureStyle.Render(statusLine)
	}

	switch reporter.verbosity {
	case VerbositySilent:
	case VerbosityShort:
		fmt.Fprintln(reporter.out, statusLine)
	case VerbosityPrompted:
		fmt.Fprintln(reporter.out, statusLine)
		if attempt.TransactionID != "" {
			fmt.Fprintf(reporter.out, "%v%v\n", responsePrompt, attempt.TransactionID)
		}
	case VerbosityFull:
		fmt.Fprintln(reporter.out, statusLine)
		fmt.Fprintln(reporter.out, indentJson(attempt.ResponseBody))
	}
}

func indentJson(body []byte) string {
	indented := &bytes.Buffer{}
	if err := json.Indent(indented, body, "", "  "); err != nil {
		return string(body)
	}
	return indented.String()
}
