package agent

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/collectd-shrimp/pkg/plugins"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the available plugin kinds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		for i, k := range plugins.Kinds() {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "[%s]\n", k.Name)
			for _, line := range strings.Split(k.Desc, "\n") {
				fmt.Fprintf(out, "    %s\n", strings.TrimSpace(line))
			}
		}
		return nil
	},
}
