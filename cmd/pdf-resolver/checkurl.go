// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-resolver/internal/validate"
	"github.com/pdiddy/pdf-resolver/pkg/types"
)

var checkURLCmd = &cobra.Command{
	Use:   "check-url <url>",
	Short: "Classify a single URL with a HEAD probe",
	Long: `Check-url runs the URL validator against one URL and prints the
classification: valid PDF, HTML content, auth-required, CAPTCHA challenge,
rate-limited, not found, or network error.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckURL,
}

func init() {
	rootCmd.AddCommand(checkURLCmd)
}

func runCheckURL(cmd *cobra.Command, args []string) error {
	log, err := buildLogger(cmd)
	if err != nil {
		return err
	}
	validator := validate.New(types.ValidateConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: defaultUserAgent},
	}, log)

	result := validator.Validate(cmd.Context(), args[0])

	switch result.Kind {
	case types.ValidationPDF:
		if result.ContentLength > 0 {
			fmt.Fprintf(os.Stdout, "valid PDF (%d bytes): %s\n", result.ContentLength, result.URL)
		} else {
			fmt.Fprintf(os.Stdout, "valid PDF: %s\n", result.URL)
		}
	case types.ValidationHTML:
		fmt.Fprintf(os.Stdout, "HTML content, not a direct PDF: %s\n", result.URL)
	case types.ValidationRequiresAuth:
		fmt.Fprintf(os.Stdout, "authentication required (%s): %s\n", result.AuthType, result.URL)
	case types.ValidationCaptcha:
		fmt.Fprintf(os.Stdout, "CAPTCHA challenge at %s: %s\n", result.Domain, result.URL)
	case types.ValidationRateLimited:
		if result.RetryAfter > 0 {
			fmt.Fprintf(os.Stdout, "rate limited (retry after %s): %s\n", result.RetryAfter, result.URL)
		} else {
			fmt.Fprintf(os.Stdout, "rate limited: %s\n", result.URL)
		}
	case types.ValidationNotFound:
		fmt.Fprintf(os.Stdout, "not found: %s\n", result.URL)
	default:
		cmd.SilenceUsage = true
		return fmt.Errorf("network error for %s: %s", result.URL, result.Err)
	}
	return nil
}
