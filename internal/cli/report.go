package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/mgpai22/vttkit/internal/subtitle"
)

// printIssues lists at most show issues (all when show <= 0). On a terminal
// they are rendered as a table, otherwise as one "[Line n] KIND: message"
// line each so the output stays greppable.
func printIssues(w io.Writer, issues []subtitle.Issue, show int) {
	if len(issues) == 0 {
		return
	}

	shown := issues
	if show > 0 && len(shown) > show {
		shown = shown[:show]
	}

	if isTerminalWriter(w) {
		fmt.Fprintln(w, renderIssueTable(shown))
	} else {
		for _, issue := range shown {
			fmt.Fprintln(w, issue.String())
			if issue.Raw != "" {
				fmt.Fprintf(w, "  > %s\n", issue.Raw)
			}
		}
	}

	if rest := len(issues) - len(shown); rest > 0 {
		fmt.Fprintf(w, "... (%d more)\n", rest)
	}
}

func renderIssueTable(issues []subtitle.Issue) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Line", "Kind", "Message", "Source"})
	for _, issue := range issues {
		tw.AppendRow(table.Row{strconv.Itoa(issue.Line), string(issue.Kind), issue.Message, issue.Raw})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, WidthMax: 60},
	})
	return tw.Render()
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
