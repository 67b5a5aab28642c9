package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/contract"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/schemafile"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func policyFlags(cmd *cobra.Command, policy *validation.Policy) {
	cmd.Flags().BoolVar(&policy.EnforceRequired, "enforce-required", false, "reject empty required fields")
	cmd.Flags().BoolVar(&policy.EnforceAllowedDomains, "enforce-domains", false, "reject emails outside allowedDomains")
	cmd.Flags().BoolVar(&policy.EnforceOptions, "enforce-options", false, "reject values outside a field's options")
}

func newValidateCmd() *cobra.Command {
	var (
		valuesPath string
		strict     bool
		policy     validation.Policy
	)
	cmd := &cobra.Command{
		Use:   "validate <schema>",
		Short: "Check a schema, and optionally a submission payload against it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := components.NewDefaultRegistry()
			result, err := loadSchema(cmd.Context(), registry, args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			report := validation.CheckSchema(registry, result.Schema)
			for _, issue := range report.Issues {
				fmt.Fprintf(out, "%s: %s\n", issue.Path, issue.Message)
			}
			if !report.Valid || len(result.Issues) > 0 {
				return fmt.Errorf("schema %s is invalid", args[0])
			}
			fmt.Fprintf(out, "schema %s: %d fields ok\n", result.Schema.DisplayName(), len(result.Schema.Fields))
			if valuesPath == "" {
				return nil
			}

			values, err := readValues(valuesPath)
			if err != nil {
				return err
			}
			errs, err := validation.Check(registry, result.Schema, values, policy)
			if err != nil {
				return err
			}
			if strict {
				c, err := contract.Build(result.Schema, contract.WithPolicy(policy), contract.WithStrictBounds(true))
				if err != nil {
					return err
				}
				errs = append(errs, c.Check(values)...)
			}
			for _, e := range errs {
				fmt.Fprintf(out, "%s: %s\n", e.FieldID, e.Message)
			}
			if errs.HasErrors() {
				return fmt.Errorf("payload %s is invalid", valuesPath)
			}
			fmt.Fprintln(out, "payload ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON submission payload to check")
	cmd.Flags().BoolVar(&strict, "strict", false, "also check the payload against the OpenAPI contract")
	policyFlags(cmd, &policy)
	return cmd
}

func newContractCmd() *cobra.Command {
	var (
		format string
		strict bool
		policy validation.Policy
	)
	cmd := &cobra.Command{
		Use:   "contract <schema>",
		Short: "Print the OpenAPI document describing a schema's submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := components.NewDefaultRegistry()
			result, err := loadSchema(cmd.Context(), registry, args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			c, err := contract.Build(result.Schema, contract.WithPolicy(policy), contract.WithStrictBounds(strict))
			if err != nil {
				return err
			}
			var data []byte
			switch schemafile.Format(format) {
			case schemafile.FormatYAML:
				data, err = c.YAML()
			case schemafile.FormatJSON:
				data, err = c.JSON()
			default:
				return fmt.Errorf("unsupported format %q", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", string(schemafile.FormatJSON), "output format (json, yaml)")
	cmd.Flags().BoolVar(&strict, "strict", false, "include bounds and reject unknown keys")
	policyFlags(cmd, &policy)
	return cmd
}

func readValues(path string) (model.Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	var values model.Values
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values: %w", err)
	}
	return values, nil
}
