package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/resflow/resflow/internal/ingest"
	"github.com/resflow/resflow/pkg/mailparse"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "resflow",
		Short: "Parse reservation emails from the command line",
	}
	rootCmd.Version = version
	rootCmd.AddCommand(parseCmd(), providersCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse one inbound message (JSON) from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			var msg ingest.InboundMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				return fmt.Errorf("decode message: %w", err)
			}

			payload, err := mailparse.DefaultRegistry().ParseEmail(msg.ParserInput())
			if err != nil {
				return err
			}
			if payload == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "no registered provider matched")
				return nil
			}

			out, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List registered providers in dispatch order",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range mailparse.DefaultRegistry().Providers() {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}
