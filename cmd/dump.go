package cmd

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"mnavtracker/extract"
	"mnavtracker/normalize"
	"mnavtracker/textindex"

	"github.com/spf13/cobra"
)

var dumpRange struct {
	from, to int
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the text index of the rendered page to re-map field positions",
	Long: `dump renders the page the same way a run does and prints the text
index entries between --from and --to, flagging entries that hold digits,
followed by the raw and normalized value of every mapped field. Nothing is
published.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		renderer, err := newRenderer(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer renderer.Close()

		rendered, err := renderer.Render(cmd.Context(), cfg.URL, cfg.Settle)
		if err != nil {
			return err
		}
		index, err := textindex.Build(rendered)
		if err != nil {
			return err
		}

		writeDump(cmd.OutOrStdout(), index, extract.DefaultFieldMap, dumpRange.from, dumpRange.to)
		return nil
	},
}

func init() {
	dumpCmd.Flags().IntVar(&dumpRange.from, "from", 70, "first 1-based position")
	dumpCmd.Flags().IntVar(&dumpRange.to, "to", 110, "last 1-based position")
	rootCmd.AddCommand(dumpCmd)
}

func writeDump(w io.Writer, index textindex.Index, fields extract.FieldMap, from, to int) {
	fmt.Fprintf(w, "text index: %d entries, showing %d..%d\n", len(index), from, to)
	for _, e := range index.Range(from, to) {
		mark := ""
		if strings.IndexFunc(e.Text, unicode.IsDigit) >= 0 {
			mark = "  <- digits"
		}
		fmt.Fprintf(w, "[%d] %q%s\n", e.Position, e.Text, mark)
	}

	fmt.Fprintln(w, "\nmapped fields:")
	for _, name := range fields.Names() {
		raw := extract.Get(index, fields[name])
		fmt.Fprintf(w, "%-16s [%d] %q -> %v\n", name, fields[name], raw, normalize.Scale(name, normalize.Clean(raw)))
	}
}
