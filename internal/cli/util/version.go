package util

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/testnotifier/testnotifier/internal/build"
	"github.com/testnotifier/testnotifier/internal/progress"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for testnotifier",
		Example: `  # Show version info
  testnotifier version

  # Plain output (for scripts)
  testnotifier version --plain

  # Machine-readable
  testnotifier version --yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			info := build.GetInfo()
			if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
				return printYAMLVersion(out, info)
			}
			if plain, _ := cmd.Flags().GetBool("plain"); plain {
				printPlainVersion(out, info)
				return nil
			}
			printPrettyVersion(out, info, progress.CapabilitiesFor(out))
			return nil
		},
	}
	cmd.Flags().Bool("plain", false, "Plain output without formatting")
	cmd.Flags().Bool("yaml", false, "YAML output")
	cmd.MarkFlagsMutuallyExclusive("plain", "yaml")
	return cmd
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer, info build.Info) {
	fmt.Fprintf(w, "testnotifier %s\n", info.Version)
	fmt.Fprintf(w, "commit: %s\n", info.Commit)
	fmt.Fprintf(w, "built: %s\n", info.BuildDate)
	fmt.Fprintf(w, "go: %s\n", info.GoVersion)
	fmt.Fprintf(w, "platform: %s\n", info.Platform)
}

func printYAMLVersion(w io.Writer, info build.Info) error {
	data, err := yaml.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshaling version info: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// box drawing characters, unicode and ASCII
type boxChars struct {
	topLeft, topRight, bottomLeft, bottomRight, horizontal, vertical string
}

var (
	unicodeBox = boxChars{"╭", "╮", "╰", "╯", "─", "│"}
	asciiBox   = boxChars{"+", "+", "+", "+", "-", "|"}
)

const boxWidth = 44

// printPrettyVersion prints the version info inside a box
func printPrettyVersion(w io.Writer, info build.Info, caps progress.TerminalCapabilities) {
	box := asciiBox
	if caps.SupportsUnicode {
		box = unicodeBox
	}

	label := color.New(color.FgYellow)
	value := color.New(color.FgWhite, color.Bold)
	title := color.New(color.FgCyan, color.Bold)
	for _, c := range []*color.Color{label, value, title} {
		if caps.SupportsColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	rows := []struct {
		label string
		value string
	}{
		{"Version", info.Version},
		{"Commit", truncateCommit(info.Commit)},
		{"Built", info.BuildDate},
		{"Go", info.GoVersion},
		{"Platform", info.Platform},
	}

	inner := boxWidth - 2
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  "+title.Sprint("testnotifier"))
	fmt.Fprintln(w, box.topLeft+strings.Repeat(box.horizontal, inner)+box.topRight)
	for _, r := range rows {
		// padding is computed on the uncoloured text
		text := fmt.Sprintf("  %10s    %s", r.label, r.value)
		pad := inner - len([]rune(text))
		if pad < 1 {
			pad = 1
		}
		line := fmt.Sprintf("  %s    %s", label.Sprintf("%10s", r.label), value.Sprint(r.value))
		fmt.Fprintln(w, box.vertical+line+strings.Repeat(" ", pad)+box.vertical)
	}
	fmt.Fprintln(w, box.bottomLeft+strings.Repeat(box.horizontal, inner)+box.bottomRight)
	fmt.Fprintln(w)
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
