package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cosmic-codex/internal/config"
	"github.com/tartampluch/go-cosmic-codex/internal/worldevents"
)

func newKeyCmd() *cobra.Command {
	key := &cobra.Command{
		Use:   config.CmdKey,
		Short: config.CmdShortKey,
	}
	key.AddCommand(&cobra.Command{
		Use:   config.CmdKeySet,
		Short: config.CmdShortKeySet,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), config.MsgKeyPrompt)

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("%s: %w", config.ErrKeyRead, err)
			}
			if err := worldevents.StoreNewsArchiveKey(line); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), config.MsgKeyStored)
			return err
		},
	})
	return key
}
