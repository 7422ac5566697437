package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"armoury/internal/sensors"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// withSpinner shows a spinner on stderr while fn runs. It stays silent when
// stderr is not a terminal.
func withSpinner(suffix string, fn func() error) error {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return fn()
	}
	s := spinner.New(spinner.CharSets[21], 120*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	s.Start()
	defer s.Stop()
	return fn()
}

func header(w io.Writer, title string) {
	fmt.Fprintln(w, headerStyle.Render(title))
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
}

func row(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "  %-22s %v\n", label+":", value)
}

func yesNo(b bool) string {
	if b {
		return okStyle.Render("yes")
	}
	return errStyle.Render("no")
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func formatTemp(t *float64, th sensors.Thresholds) string {
	if t == nil {
		return "n/a"
	}
	text := fmt.Sprintf("%.1f°C", *t)
	switch th.Check(*t) {
	case sensors.AlertCritical:
		return errStyle.Render(text + " (critical)")
	case sensors.AlertWarning:
		return warnStyle.Render(text + " (warning)")
	}
	return text
}

func formatPercent(p *int) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d%%", *p)
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func ptrIf[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}
	return &v
}
