package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikogura/ats-match/pkg/service"
)

//nolint:gochecknoglobals // Cobra boilerplate
var industriesTaxonomy bool

//nolint:gochecknoglobals // Cobra boilerplate
var industriesCmd = &cobra.Command{
	Use:   "industries",
	Short: "List the supported industries",
	Long: `Lists the industries advertised to clients. With --taxonomy, also lists the
industries of the loaded taxonomy and their skill vocabularies.`,
	RunE: runIndustries,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(industriesCmd)
	industriesCmd.Flags().BoolVar(&industriesTaxonomy, "taxonomy", false, "Also list the loaded taxonomy")
}

func runIndustries(cmd *cobra.Command, args []string) (err error) {
	out := cmd.OutOrStdout()

	for _, name := range service.SupportedIndustries {
		fmt.Fprintln(out, name)
	}

	if !industriesTaxonomy {
		return err
	}

	rt, err := setup()
	if err != nil {
		return err
	}

	tax := rt.engine.Taxonomy()
	fmt.Fprintf(out, "\nTaxonomy (%s):\n", taxonomySource(rt.cfg.TaxonomyLocation))
	for _, name := range tax.Industries() {
		profile, _ := tax.ProfileFor(name)
		fmt.Fprintf(out, "  %s\n", name)
		fmt.Fprintf(out, "    keywords: %s\n", strings.Join(profile.Keywords, ", "))
		fmt.Fprintf(out, "    skills:   %s\n", strings.Join(tax.SkillsFor(name), ", "))
	}

	if universal := tax.UniversalSkills(); len(universal) > 0 {
		fmt.Fprintf(out, "  universal skills: %s\n", strings.Join(universal, ", "))
	}

	return err
}
