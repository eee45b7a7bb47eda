// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf-resolver/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the effective publisher rules",
	Long: `Rules prints the publisher rule table the resolver will use: the
built-in rules merged with any YAML overlay from --rules-file or config.`,
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().String("rules-file", "", "YAML publisher rules merged over the built-ins")

	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	rulesFile, _ := cmd.Flags().GetString("rules-file")
	if rulesFile == "" {
		rulesFile = viper.GetString("rules_file")
	}
	registry, err := rules.Load(rulesFile)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PREFIX\tPUBLISHER\tSCRAPE\tPROXY\tCAPTCHA RISK\tPDF TEMPLATE")
	for _, rule := range registry.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rule.Prefix, rule.Name,
			yesNo(rule.SupportsScraping), yesNo(rule.RequiresProxy), yesNo(rule.CaptchaRisk),
			rule.PDFTemplate)
	}
	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
