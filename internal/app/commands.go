package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"seqsearch/core/alphabet"
	"seqsearch/internal/config"
	"seqsearch/internal/errors"
	"seqsearch/internal/jsonutil"
	"seqsearch/internal/version"
	"seqsearch/internal/writers"
)

func (r *runner) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "seqsearch",
		Short:         "Search query sequences against a sequence database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Mark(err, errors.ErrInvalidConfig)
	})
	root.AddCommand(
		r.searchCmd(alphabet.Nucleotide, "nucleotide", "Search nucleotide queries (both strands by default)", "dna"),
		r.searchCmd(alphabet.Protein, "protein", "Search protein queries"),
		r.versionCmd(),
	)
	return root
}

func (r *runner) searchCmd(a alphabet.Alphabet, use, short string, aliases ...string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   short,
		Args:    cobra.NoArgs,
		Example: "  seqsearch " + use + " --query q.fa --db ref.fa --out hits.csv",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r.started = true
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			r.noMatchCode = cfg.NoMatchExitCode
			sum, err := r.search(cmd.Context(), a, cfg)
			if err != nil {
				return err
			}
			r.noHits = sum.QueriesWithHits == 0
			return nil
		},
	}
	config.RegisterFlags(cmd.Flags(), a.Strands)
	cmd.Flags().SortFlags = false
	return cmd
}

type versionInfo struct {
	Version string   `json:"version"`
	Go      string   `json:"go"`
	Formats []string `json:"output_formats"`
}

func (r *runner) versionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versionInfo{Version: version.Version, Go: runtime.Version(), Formats: writers.Formats()}
			if asJSON {
				return jsonutil.EncodePretty(cmd.OutOrStdout(), info)
			}
			cmd.Printf("seqsearch version %s (%s)\n", info.Version, info.Go)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print version information as JSON")
	return cmd
}
