package main

import (
	"fmt"
	"strconv"

	"github.com/mikepea/marks/pkg/marks/config"
	"github.com/mikepea/marks/pkg/marks/shorturl"
	"github.com/spf13/cobra"
)

func aliasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias",
		Short: "Convert between link ids and short aliases",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "encode [id]",
		Short: "Print the alias of a link id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := codecFromConfig()
			if err != nil {
				return err
			}
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), codec.Encode(id))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "decode [alias]",
		Short: "Print the link id an alias stands for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := codecFromConfig()
			if err != nil {
				return err
			}
			id, err := codec.Decode(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	})

	return cmd
}

// codecFromConfig builds the codec for the configured SEED.
func codecFromConfig() (*shorturl.Codec, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, err
	}
	return shorturl.New(cfg.Seed), nil
}
