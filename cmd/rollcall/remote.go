package main

import (
	"fmt"
	"net"
	"os/user"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/abihf/rollcall/protocol"
)

var remoteCmd = &cobra.Command{
	Use:       "remote mark|list|reset",
	Short:     "Ask a running rollcalld to take attendance or manage its ledger",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"mark", "list", "reset"},
	RunE: func(cmd *cobra.Command, args []string) error {
		action := protocol.Action(strings.ToUpper(args[0]))

		conn, err := net.Dial("unix", conf.Socket)
		if err != nil {
			return errors.Wrap(err, "Can not reach rollcalld")
		}
		defer conn.Close()

		client := "rollcall"
		if u, err := user.Current(); err == nil {
			client = u.Username
		}
		if err := protocol.WriteReq(conn, action, client); err != nil {
			return errors.Wrap(err, "Can not send request")
		}
		res, err := protocol.NewReader(conn).Res()
		if err != nil {
			return errors.Wrap(err, "Can not read response")
		}

		printRemoteNotices(cmd.OutOrStdout(), cmd.ErrOrStderr(), res.Notices)
		for _, r := range res.Records {
			fmt.Fprintln(cmd.OutOrStdout(), r.String())
		}
		if res.Status != protocol.StatusSuccess {
			return errors.New(res.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(remoteCmd)
}
