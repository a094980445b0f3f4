package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewImportCommand creates the import command.
func NewImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <wca-competition-id>",
		Short: "Import a competition and its competitors from the WCA website",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newAPIClient(opts.Server).ImportCompetition(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Imported %s (%s)\n", resp.Name, resp.WcaID)
			fmt.Fprintf(cmd.OutOrStdout(), "Competitors: %d imported, %d skipped\n", resp.PersonsImported, resp.PersonsSkipped)
			return nil
		},
	}
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Refresh the stored WCIF of the imported competition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := newAPIClient(opts.Server).SyncCompetition(cmd.Context())
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				comp.Wcif = nil
				return writeJSON(cmd.OutOrStdout(), comp)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Synced %s at %s\n",
				comp.WcaID, comp.UpdatedAt.Local().Format("15:04:05"))
			return nil
		},
	}
}

// NewResultsCommand creates the results command.
func NewResultsCommand(opts *RootOptions) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "results <round-id>",
		Short: "Show the results of a round and their WCA Live divergence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := newAPIClient(opts.Server).RoundResults(cmd.Context(), args[0], search)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			renderResults(cmd.OutOrStdout(), list)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "filter by name, WCA id or registrant id")
	return cmd
}

// NewResubmitCommand creates the resubmit command.
func NewResubmitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resubmit <result-id>",
		Short: "Send the whole scorecard of a result to WCA Live again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newAPIClient(opts.Server).Resubmit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}

// NewIncidentsCommand creates the incidents command.
func NewIncidentsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "incidents",
		Short: "List attempts waiting for a delegate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := newAPIClient(opts.Server).UnresolvedIncidents(cmd.Context())
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			renderIncidents(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
