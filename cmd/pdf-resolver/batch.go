// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-resolver/internal/resolver"
	"github.com/pdiddy/pdf-resolver/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch <identifiers-file>",
	Short: "Resolve many publications from an identifiers file",
	Long: `Batch reads one identifier per line (DOI, arXiv ID, or bibcode; lines
starting with # are skipped) and resolves them concurrently, printing one
status line per record plus a summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().Int("concurrency", 4, "number of concurrent resolutions")
	batchCmd.Flags().String("priority", "", "source priority: preprint or publisher (default publisher)")
	batchCmd.Flags().Bool("use-proxy", false, "qualify URLs through the library proxy")
	batchCmd.Flags().String("proxy-url", "", "library proxy prefix (default from config or .secrets/proxy-url)")
	batchCmd.Flags().String("rules-file", "", "YAML publisher rules merged over the built-ins")
	batchCmd.Flags().Bool("no-scrape", false, "skip the landing-page scraping step")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	identifiers, pubs, err := readIdentifiers(args[0])
	if err != nil {
		return err
	}
	if len(pubs) == 0 {
		return fmt.Errorf("no identifiers found in %s", args[0])
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

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	statuses := res.ResolveBatch(cmd.Context(), pubs, settings, concurrency)

	var accessible, blocked, unavailable int
	for i, status := range statuses {
		fmt.Fprintf(os.Stdout, "%-30s ", identifiers[i])
		printStatus(os.Stdout, status)
		switch {
		case status.Accessible():
			accessible++
		case status.NeedsUserAction():
			blocked++
		default:
			unavailable++
		}
	}
	fmt.Fprintf(os.Stdout, "\nBatch summary: %d accessible, %d need user action, %d unavailable (total: %d)\n",
		accessible, blocked, unavailable, len(statuses))

	if unavailable > 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("%d record(s) had no PDF", unavailable)
	}
	return nil
}

// readIdentifiers parses the batch input file: one identifier per line,
// blank lines and # comments skipped. The raw identifier strings are
// kept for output labels.
func readIdentifiers(path string) ([]string, []types.Publication, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening identifiers file: %w", err)
	}
	defer f.Close()

	var identifiers []string
	var pubs []types.Publication

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var pub types.Publication
		idType, normalized := resolver.Classify(line)
		switch idType {
		case resolver.TypeDOI:
			pub.DOI = normalized
		case resolver.TypeArxiv:
			pub.ArxivID = normalized
		case resolver.TypeBibcode:
			pub.Bibcode = normalized
		default:
			return nil, nil, fmt.Errorf("unrecognized identifier format: %q", line)
		}
		identifiers = append(identifiers, line)
		pubs = append(pubs, pub)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading identifiers file: %w", err)
	}
	return identifiers, pubs, nil
}
