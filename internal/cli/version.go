package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soyeahso/telcoassist/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of telcoassist",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Info())
		},
	}
}
