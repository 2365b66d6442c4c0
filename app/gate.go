package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BayiPanel/BayiPanel/internal/client"
	"github.com/BayiPanel/BayiPanel/internal/navigation"
)

func init() { //nolint: gochecknoinits
	addCredentialFlags(gateCmd)

	rootCmd.AddCommand(gateCmd)
}

var gateCmd = &cobra.Command{
	Use:   "gate <path>",
	Short: "Log in and print whether the user may open path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := login(ctx)
		if err != nil {
			return err
		}
		defer s.close(ctx)

		out := cmd.OutOrStdout()
		menu := navigation.DefaultMenu()

		gate := client.NewGate(s.cache, navigation.Routes(menu), s.policy,
			client.WithNotify(func(d client.Decision) {
				if d.State == client.Checking {
					_, _ = fmt.Fprintf(out, "checking %s ...\n", d.Module)
				}
			}))

		d := gate.Enter(ctx, args[0], s.user.Role)

		titles := make([]string, 0)
		for _, item := range navigation.Trail(menu, d.Path) {
			titles = append(titles, item.Title)
		}

		if len(titles) > 0 {
			_, _ = fmt.Fprintln(out, strings.Join(titles, " / "))
		}

		switch {
		case d.State == client.Authorized:
			_, err = fmt.Fprintf(out, "%s: authorized\n", d.Path)
		case d.Transient:
			_, err = fmt.Fprintf(out, "%s: denied, permissions could not be checked (%v); try again\n", d.Path, d.Err)
		default:
			_, err = fmt.Fprintf(out, "%s: access denied, view permission on %s is required\n", d.Path, d.Module)
		}

		return err
	},
}
