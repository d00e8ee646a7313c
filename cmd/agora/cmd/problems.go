package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/agora/internal/adapters/store"
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "List the configured problem set",
	RunE:  listProblems,
}

func init() {
	rootCmd.AddCommand(problemsCmd)

	problemsCmd.Flags().String("problems", "", "path to the problem file (.json or .yaml)")
	_ = viper.BindPFlag("problems.path", problemsCmd.Flags().Lookup("problems"))
}

func listProblems(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	problems, err := store.NewFileProblemSource(cfg.Problems.Path).Load(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tDIFFICULTY\tQUESTION")
	for _, p := range problems {
		question := p.Question
		if len(question) > 60 {
			question = question[:60] + "..."
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, orDash(p.Category), orDash(p.Difficulty), question)
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
