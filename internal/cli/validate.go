package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"tcorea.dev/internal/catalog"
	"tcorea.dev/internal/nav"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the data file for duplicate ids and unknown types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			list, err := newSource(cfg).Fetch(cmd.Context())
			if err != nil {
				return fmt.Errorf("reading %s: %w", dataLocation(cfg), err)
			}
			issues := catalog.Validate(list)
			groups := nav.Classify(list.Projects)

			out := cmd.OutOrStdout()
			if asJSON {
				type jsonIssue struct {
					Severity string `json:"severity"`
					Index    int    `json:"index"`
					ID       string `json:"id"`
					Message  string `json:"message"`
				}
				report := struct {
					Projects    int         `json:"projects"`
					Navigation  int         `json:"navigation_projects"`
					CaseStudies int         `json:"navigation_case_studies"`
					Issues      []jsonIssue `json:"issues"`
				}{
					Projects:    len(list.Projects),
					Navigation:  len(groups.Projects),
					CaseStudies: len(groups.CaseStudies),
					Issues:      []jsonIssue{},
				}
				for _, is := range issues {
					report.Issues = append(report.Issues, jsonIssue{string(is.Severity), is.Index, is.ID, is.Message})
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "%d projects (%d projects, %d case studies in navigation)\n",
					len(list.Projects), len(groups.Projects), len(groups.CaseStudies))
				for _, is := range issues {
					fmt.Fprintln(out, is.String())
				}
			}

			if catalog.HasErrors(issues) {
				return fmt.Errorf("%s has errors", dataLocation(cfg))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
