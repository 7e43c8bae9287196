package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ipresolver/internal/cidr"
	"ipresolver/internal/config"
	"ipresolver/internal/model"
	"ipresolver/internal/resolver"
	"ipresolver/internal/service"
)

type resolveOutput struct {
	CIDR   string              `json:"cidr"`
	Result model.AddressResult `json:"result"`
	Error  *string             `json:"error"`
}

func newResolveCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "resolve [cidr...]",
		Short: "Print the first host address of each CIDR as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" && len(args) == 0 {
				return fmt.Errorf("at least one CIDR or --file is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			r := resolver.NewResolver(cidr.NewParser(), logger)
			if file != "" {
				return resolveFile(cmd, r, logger, file)
			}
			return resolveArgs(cmd.OutOrStdout(), r, args)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read CIDRs from file, one per line (- for stdin)")
	return cmd
}

func resolveArgs(w io.Writer, r *resolver.Resolver, args []string) error {
	enc := json.NewEncoder(w)
	failed := 0

	for _, arg := range args {
		var encodeErr error
		r.GetFirstIPAddress(arg, func(result model.AddressResult, err error) {
			out := resolveOutput{CIDR: arg, Result: result}
			if err != nil {
				failed++
				msg := err.Error()
				out.Error = &msg
			}
			encodeErr = enc.Encode(out)
		})
		if encodeErr != nil {
			return encodeErr
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d CIDRs could not be resolved", failed, len(args))
	}
	return nil
}

func resolveFile(cmd *cobra.Command, r *resolver.Resolver, logger *zap.Logger, file string) error {
	in := cmd.InOrStdin()
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	batch := service.NewBatchResolver(service.Direct{Resolver: r}, logger)
	items, stats, err := batch.ResolveBatch(cmd.Context(), in)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}

	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d CIDRs could not be resolved", stats.Failed, stats.Resolved+stats.Failed)
	}
	return nil
}
