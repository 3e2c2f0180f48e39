package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-searchform/internal/prompt"
	"github.com/goliatone/go-searchform/pkg/field"
	"github.com/goliatone/go-searchform/pkg/openapi"
	"github.com/goliatone/go-searchform/pkg/validation"
)

// errInvalidInput is returned after the validation messages have been
// printed so the process exits non-zero.
var errInvalidInput = errors.New("search values are invalid")

func newFieldsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the registered search fields in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tLABEL\tTYPE\tWIDGET\tFLEX\tPARAMS")
			for _, desc := range a.form.Registry().Entries() {
				params := []string{desc.ParamName()}
				desc.WalkRelated(func(rel field.Related) {
					params = append(params, rel.Name)
				})
				flex := "-"
				if desc.Flex > 0 {
					flex = fmt.Sprint(desc.Flex)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", desc.Key, desc.Label, desc.Type, desc.Widget, flex, strings.Join(params, ","))
			}
			return w.Flush()
		},
	}
}

func newBuildCmd(a *app) *cobra.Command {
	var (
		assignments []string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Validate values and print the search query parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			values, err := parseAssignments(a.form.Registry(), assignments)
			if err != nil {
				return err
			}
			params, err := a.form.Submit(values)
			if err != nil {
				printReport(cmd.ErrOrStderr(), a.form.Validate(values))
				return errInvalidInput
			}
			return writeParams(cmd.OutOrStdout(), params, asJSON || a.cfg.Output.Format == "json")
		},
	}
	cmd.Flags().StringArrayVarP(&assignments, "set", "s", nil, "Field value as key=value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print parameters as a JSON object")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	var assignments []string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check values against the field validators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			values, err := parseAssignments(a.form.Registry(), assignments)
			if err != nil {
				return err
			}
			report := a.form.Validate(values)
			if !report.Valid() {
				printReport(cmd.ErrOrStderr(), report)
				return errInvalidInput
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return err
		},
	}
	cmd.Flags().StringArrayVarP(&assignments, "set", "s", nil, "Field value as key=value (repeatable)")
	return cmd
}

func newChipsCmd(a *app) *cobra.Command {
	var assignments []string
	cmd := &cobra.Command{
		Use:   "chips",
		Short: "Show the selected values with resolved display names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			values, err := parseAssignments(a.form.Registry(), assignments)
			if err != nil {
				return err
			}
			for _, chip := range a.form.Chips(cmd.Context(), values) {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", chip.Label, chip.Display); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&assignments, "set", "s", nil, "Field value as key=value (repeatable)")
	return cmd
}

func newParamsCmd(a *app) *cobra.Command {
	var (
		format string
		opts   openapi.DocumentOptions
	)
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Describe the search query parameters as an OpenAPI document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := openapi.Document(cmd.Context(), a.form.Registry(), opts)
			if err != nil {
				return err
			}
			var out []byte
			switch strings.ToLower(format) {
			case "yaml", "yml":
				out, err = openapi.MarshalYAML(doc)
			case "json":
				out, err = json.MarshalIndent(doc, "", "  ")
				out = append(out, '\n')
			default:
				return fmt.Errorf("unknown format %q: use \"yaml\" or \"json\"", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", `Output format: "yaml" or "json"`)
	cmd.Flags().StringVar(&opts.Path, "path", "/search", "Search endpoint path")
	cmd.Flags().StringVar(&opts.Title, "title", "search", "Document title")
	cmd.Flags().StringVar(&opts.OperationID, "operation-id", "search", "Operation identifier")
	cmd.Flags().StringVar(&opts.Summary, "summary", "", "Operation summary")
	return cmd
}

func newPromptCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Ask for every field interactively and print the query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			records := a.form.Lookups(ctx, nil)
			values, err := prompt.New(prompt.NewSurveyDriver(), a.logger).Ask(ctx, a.form.Registry(), records)
			if err != nil {
				if errors.Is(err, prompt.ErrAborted) {
					fmt.Fprintln(cmd.ErrOrStderr(), "aborted")
				}
				return err
			}
			params, err := a.form.Submit(values)
			if err != nil {
				printReport(cmd.ErrOrStderr(), a.form.Validate(values))
				return errInvalidInput
			}
			return writeParams(cmd.OutOrStdout(), params, asJSON || a.cfg.Output.Format == "json")
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print parameters as a JSON object")
	return cmd
}

func writeParams(w io.Writer, params field.Params, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(params)
	}
	_, err := fmt.Fprintln(w, params.Encode())
	return err
}

func printReport(w io.Writer, report validation.Report) {
	for _, issue := range report.Issues() {
		fmt.Fprintf(w, "%s: %s\n", issue.Field, issue.Message)
	}
}
