package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BayiPanel/BayiPanel/internal/navigation"
)

func init() { //nolint: gochecknoinits
	addCredentialFlags(menuCmd)

	rootCmd.AddCommand(menuCmd)
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Log in and print the menu the user's role may see",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		s, err := login(ctx)
		if err != nil {
			return err
		}
		defer s.close(ctx)

		out := cmd.OutOrStdout()

		if _, err = s.cache.Resolve(ctx, s.user.Role); err != nil {
			// fail closed: the menu below only holds static entries
			_, _ = fmt.Fprintf(out, "! permissions could not be loaded: %v\n", err)
		}

		res := navigation.Filter(navigation.DefaultMenu(), s.user.Role, s.cache.Snapshot(), s.policy)

		_, _ = fmt.Fprintf(out, "%s (%s)\n", s.user.Username, s.user.Role)

		if res.Pending {
			_, err = fmt.Fprintln(out, "  loading ...")
			return err
		}

		printEntries(out, res.Entries, 1)

		return nil
	},
}

func printEntries(w io.Writer, entries []navigation.Entry, depth int) {
	indent := strings.Repeat("  ", depth)

	for _, e := range entries {
		if e.URL == "" {
			_, _ = fmt.Fprintf(w, "%s%s\n", indent, e.Title)
		} else {
			_, _ = fmt.Fprintf(w, "%s%s  %s\n", indent, e.Title, e.URL)
		}

		printEntries(w, e.Children, depth+1)
	}
}
