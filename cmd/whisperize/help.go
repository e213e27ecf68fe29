package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor = lipgloss.Color("#5F87AF")
	mutedColor  = lipgloss.Color("#888888")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginTop(1)

	flagStyle = lipgloss.NewStyle().
			Bold(true)

	defaultStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#AF0000"))
)

// helpPrinter renders kong's model with lipgloss styling.
func helpPrinter(_ kong.HelpOptions, ctx *kong.Context) error {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("whisperize"))
	sb.WriteString("\n")
	sb.WriteString(ctx.Model.Help)
	sb.WriteString("\n")

	sb.WriteString(sectionStyle.Render("Usage:"))
	fmt.Fprintf(&sb, "\n  %s [flags] <input> <output>\n", ctx.Model.Name)

	sb.WriteString(sectionStyle.Render("Arguments:"))
	sb.WriteString("\n")
	for _, arg := range ctx.Model.Node.Positional {
		fmt.Fprintf(&sb, "  %s  %s\n", flagStyle.Render(arg.Summary()), arg.Help)
	}

	sb.WriteString(sectionStyle.Render("Flags:"))
	sb.WriteString("\n")
	for _, f := range ctx.Model.Node.Flags {
		name := "--" + f.Name
		if f.Short != 0 {
			name = fmt.Sprintf("-%c, %s", f.Short, name)
		}
		fmt.Fprintf(&sb, "  %s  %s", flagStyle.Render(name), f.Help)
		if f.HasDefault && f.Default != "" {
			sb.WriteString(" ")
			sb.WriteString(defaultStyle.Render("(default: " + f.Default + ")"))
		}
		sb.WriteString("\n")
	}

	fmt.Fprint(ctx.Stdout, sb.String())
	return nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorStyle.Render("Error:"), err)
}
