package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/IdaCy/RNTupleTTreeChecker/cmd/checker"
)

var (
	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#04B575"))

	mismatchStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5F87"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB454"))

	passBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#04B575"))

	failBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF5F87"))
)

// outputReport renders the report in the configured format and writes it
// to the output file, or stdout when none is set.
func outputReport(report *checker.Report, config *CheckConfig) error {
	var rendered string
	switch config.OutputFormat {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize report: %w", err)
		}
		rendered = string(data) + "\n"
	default:
		rendered = renderTextReport(report, config.Verbose)
	}

	if config.OutputFile != "" {
		if err := os.WriteFile(config.OutputFile, []byte(rendered), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", config.OutputFile, err)
		}
		return nil
	}

	fmt.Print(rendered)
	return nil
}

// renderTextReport builds the sectioned text report. Clean sections are
// suppressed unless verbose is set; any discrepancy is always shown. When
// every section is clean and suppressed, a single all-clear line stands in
// for the whole report.
func renderTextReport(report *checker.Report, verbose bool) string {
	var b strings.Builder
	printed := false

	verdict := passBadge.Render(" TRUE ")
	if !report.Passed {
		verdict = failBadge.Render(" FALSE ")
	}
	b.WriteString(fmt.Sprintf("%s %s vs %s\n\n", verdict, report.TreeName, report.NTupleName))

	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, line := range lines {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")
		printed = true
	}

	section("Entries", entryLines(report, verbose))
	section("Field counts", fieldCountLines(report, verbose))
	section("Field names", fieldNameLines(report, verbose))
	section("Field types", fieldTypeLines(report, verbose))
	section("Collection totals", subfieldLines(report, verbose))
	section("Distributions", distributionLines(report, verbose))
	section("Problems", problemLines(report))

	if !printed {
		b.WriteString(okStyle.Render(fmt.Sprintf("✅ %s and %s agree on entries, fields, types, and distributions", report.TreeName, report.NTupleName)))
		b.WriteString("\n")
	}
	return b.String()
}

func entryLines(report *checker.Report, verbose bool) []string {
	if report.EntriesMatch() && !verbose {
		return nil
	}
	line := fmt.Sprintf("%s: %d entries, %s: %d entries", report.TreeName, report.TreeEntries, report.NTupleName, report.NTupleEntries)
	if report.EntriesMatch() {
		return []string{okStyle.Render(line)}
	}
	return []string{mismatchStyle.Render(line + "  (mismatch)")}
}

func fieldCountLines(report *checker.Report, verbose bool) []string {
	if report.FieldCountsMatch() && !verbose {
		return nil
	}
	line := fmt.Sprintf("%s: %d fields, %s: %d fields", report.TreeName, len(report.TreeFields), report.NTupleName, len(report.NTupleFields))
	if report.FieldCountsMatch() {
		return []string{okStyle.Render(line)}
	}
	return []string{mismatchStyle.Render(line + "  (mismatch)")}
}

func fieldNameLines(report *checker.Report, verbose bool) []string {
	if report.NamesMatch() && !verbose {
		return nil
	}
	var lines []string
	for _, match := range report.Matches {
		switch {
		case match.Complete():
			if verbose {
				lines = append(lines, okStyle.Render(fmt.Sprintf("%-24s present on both sides", match.Name())))
			}
		case match.Tree != nil:
			lines = append(lines, mismatchStyle.Render(fmt.Sprintf("%-24s only in %s  (No match)", match.Name(), report.TreeName)))
		default:
			lines = append(lines, mismatchStyle.Render(fmt.Sprintf("%-24s only in %s  (No match)", match.Name(), report.NTupleName)))
		}
	}
	return lines
}

func fieldTypeLines(report *checker.Report, verbose bool) []string {
	if report.TypesExact() && !verbose {
		return nil
	}
	var lines []string
	for _, tc := range report.Types {
		line := fmt.Sprintf("%-24s %s vs %s", tc.Name, spellingOrAbsent(tc.TreeType), spellingOrAbsent(tc.NTupleType))
		switch tc.Class {
		case checker.ClassExact:
			if verbose {
				lines = append(lines, okStyle.Render(line))
			}
		case checker.ClassNearMatch:
			lines = append(lines, warnStyle.Render(line+"  (no exact match)"))
		case checker.ClassMissing:
			lines = append(lines, mismatchStyle.Render(line+"  (missing)"))
		default:
			lines = append(lines, mismatchStyle.Render(line+"  (type mismatch)"))
		}
	}
	return lines
}

func spellingOrAbsent(s string) string {
	if s == "" {
		return "(absent)"
	}
	return s
}

func subfieldLines(report *checker.Report, verbose bool) []string {
	if report.SubfieldsMatch() && !verbose {
		return nil
	}
	var lines []string
	for _, sc := range report.Subfields {
		line := fmt.Sprintf("%-24s %s: %d elements (%s), %s: %d elements (%s)",
			sc.FieldName,
			report.TreeName, sc.TreeTotal, spellingOrAbsent(sc.TreeElem),
			report.NTupleName, sc.NTupleTotal, spellingOrAbsent(sc.NTupleElem))
		if sc.Matches() {
			if verbose {
				lines = append(lines, okStyle.Render(line))
			}
		} else {
			lines = append(lines, mismatchStyle.Render(line+"  (mismatch)"))
		}
	}
	return lines
}

func distributionLines(report *checker.Report, verbose bool) []string {
	if report.DistributionsMatch() && !verbose {
		return nil
	}
	var lines []string
	for _, dp := range report.Distributions {
		if dp.Match && !verbose {
			continue
		}
		style := okStyle
		tag := ""
		if !dp.Match {
			style = mismatchStyle
			tag = "  (mismatch)"
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s pool%s", dp.TypeLabel, tag)))
		lines = append(lines, "  "+summaryLine(report.TreeName, dp.Tree))
		lines = append(lines, "  "+summaryLine(report.NTupleName, dp.NTuple))
		if dp.HasChiSquare {
			lines = append(lines, fmt.Sprintf("  chi-square: %.6g", dp.ChiSquare))
		}
	}
	return lines
}

func summaryLine(name string, s checker.DistributionSummary) string {
	if s.Empty() {
		return fmt.Sprintf("%s: no values", name)
	}
	return fmt.Sprintf("%s: count=%d mean=%.6g stddev=%.6g", name, s.Count, s.Mean, s.StdDev)
}

func problemLines(report *checker.Report) []string {
	var lines []string
	for _, p := range report.Problems {
		lines = append(lines, warnStyle.Render("⚠️  "+p))
	}
	return lines
}
