// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-resolver/internal/resolver"
	"github.com/pdiddy/pdf-resolver/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [identifiers...]",
	Short: "Resolve a publication's identifiers to a PDF access status",
	Long: `Resolve locates a downloadable PDF for one publication. Identifiers can
be passed as flags (--doi, --arxiv, --bibcode) or as positional arguments,
which are classified by shape: DOIs (with or without a doi.org prefix),
arXiv IDs (with or without the arXiv: prefix), and 19-character bibcodes.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("doi", "", "DOI of the publication")
	resolveCmd.Flags().String("arxiv", "", "arXiv identifier")
	resolveCmd.Flags().String("bibcode", "", "astronomy bibcode")
	resolveCmd.Flags().String("scan-url", "", "scanned-archive URL known for this record")
	resolveCmd.Flags().String("priority", "", "source priority: preprint or publisher (default publisher)")
	resolveCmd.Flags().Bool("use-proxy", false, "qualify URLs through the library proxy")
	resolveCmd.Flags().String("proxy-url", "", "library proxy prefix (default from config or .secrets/proxy-url)")
	resolveCmd.Flags().String("rules-file", "", "YAML publisher rules merged over the built-ins")
	resolveCmd.Flags().Bool("no-scrape", false, "skip the landing-page scraping step")
	resolveCmd.Flags().Bool("json", false, "print the access status as JSON")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	pub, err := publicationFromFlags(cmd, args)
	if err != nil {
		return err
	}

	settings, err := buildSettings(cmd)
	if err != nil {
		return err
	}
	log, err := buildLogger(cmd)
	if err != nil {
		return err
	}
	res, cleanup, err := buildResolver(cmd, log)
	if err != nil {
		return err
	}
	defer cleanup()

	status := res.Resolve(cmd.Context(), pub, settings)

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			return fmt.Errorf("encoding status: %w", err)
		}
	} else {
		printStatus(os.Stdout, status)
	}

	if status.State == types.AccessUnavailable {
		cmd.SilenceUsage = true
		return fmt.Errorf("no PDF available (%s)", status.Reason)
	}
	return nil
}

// publicationFromFlags builds the identifier bundle from flags plus any
// positional identifiers, classified by shape.
func publicationFromFlags(cmd *cobra.Command, args []string) (types.Publication, error) {
	var pub types.Publication
	pub.DOI, _ = cmd.Flags().GetString("doi")
	pub.ArxivID, _ = cmd.Flags().GetString("arxiv")
	pub.Bibcode, _ = cmd.Flags().GetString("bibcode")
	pub.ScanURL, _ = cmd.Flags().GetString("scan-url")

	for _, arg := range args {
		idType, normalized := resolver.Classify(arg)
		switch idType {
		case resolver.TypeDOI:
			pub.DOI = normalized
		case resolver.TypeArxiv:
			pub.ArxivID = normalized
		case resolver.TypeBibcode:
			pub.Bibcode = normalized
		default:
			return pub, fmt.Errorf("unrecognized identifier format: %q", arg)
		}
	}

	if !pub.HasIdentifier() {
		return pub, fmt.Errorf("provide at least one identifier (DOI, arXiv ID, or bibcode)")
	}
	return pub, nil
}

// printStatus writes a human-readable access status line.
func printStatus(w io.Writer, status types.PDFAccessStatus) {
	switch status.State {
	case types.AccessAvailable:
		suffix := ""
		if status.Source.Fallback {
			suffix = " (fallback)"
		}
		fmt.Fprintf(w, "available via %s%s: %s\n", status.Source.DisplayName, suffix, status.Source.URL)
	case types.AccessRequiresProxy:
		fmt.Fprintf(w, "available through library proxy via %s: %s\n", status.Source.DisplayName, status.Source.URL)
	case types.AccessCaptchaBlocked:
		fmt.Fprintf(w, "blocked by CAPTCHA at %s; open in a browser: %s\n", status.Publisher, status.BrowserURL)
	case types.AccessPaywalled:
		fmt.Fprintf(w, "paywalled by %s; open in a browser: %s\n", status.Publisher, status.BrowserURL)
	case types.AccessUnavailable:
		fmt.Fprintf(w, "unavailable: %s\n", status.Reason)
	}
}
