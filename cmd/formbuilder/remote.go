package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/gateway"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
)

func newPublishCmd() *cobra.Command {
	var server, sessionID, name string
	cmd := &cobra.Command{
		Use:   "publish <schema>",
		Short: "Publish a schema to a form server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(server)
			if err != nil {
				return err
			}
			result, err := loadSchema(cmd.Context(), components.NewDefaultRegistry(), args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ref, err := client.CreateForm(cmd.Context(), gateway.CreateRequest{
				Name:      name,
				Schema:    result.Schema,
				SessionID: sessionID,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ref.ID, ref.URL)
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "form server base URL")
	cmd.Flags().StringVar(&sessionID, "session", "", "creator session id")
	cmd.Flags().StringVar(&name, "name", "", "form name (defaults to the schema name)")
	return cmd
}

func newFillCmd() *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "fill <uuid>",
		Short: "Fill in a published form in the terminal and submit it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(server)
			if err != nil {
				return err
			}
			form, err := client.FetchForm(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			schema := form.Schema
			if schema.Name == "" {
				schema.Name = form.Name
			}
			terminal, err := tui.New(
				tui.WithStrategies(components.NewDefaultRegistry()),
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.ErrOrStderr())),
			)
			if err != nil {
				return err
			}
			return terminal.Fill(cmd.Context(), schema, func(ctx context.Context, values model.Values) error {
				_, err := client.Submit(ctx, form.ID, values)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "form server base URL")
	return cmd
}

func newListCmd() *cobra.Command {
	var server, sessionID, admin string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the forms of a session, or every form with an admin credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(server)
			if err != nil {
				return err
			}
			forms, err := client.ListForms(cmd.Context(), gateway.Scope{SessionID: sessionID, AdminCredential: admin})
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "UUID\tNAME\tFIELDS\tCREATED")
			for _, form := range forms {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", form.ID, form.Name, len(form.Schema.Fields), form.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "form server base URL")
	cmd.Flags().StringVar(&sessionID, "session", "", "creator session id")
	cmd.Flags().StringVar(&admin, "admin", "", "admin credential")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var server, admin string
	cmd := &cobra.Command{
		Use:   "delete <uuid>",
		Short: "Delete a published form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(server)
			if err != nil {
				return err
			}
			if err := client.DeleteForm(cmd.Context(), args[0], admin); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "form server base URL")
	cmd.Flags().StringVar(&admin, "admin", "", "admin credential")
	return cmd
}
