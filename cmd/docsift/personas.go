package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docsift/internal/query"
)

func newPersonasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "personas",
		Short: "List the built-in personas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, p := range query.Personas {
				fmt.Fprintln(w, titleStyle.Render(p.Name))
				fmt.Fprintln(w, "  vocabulary: "+strings.Join(p.Vocabulary, ", "))
				fmt.Fprintln(w, mutedStyle.Render("  e.g. "+p.ExampleObjective))
			}
			fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Any other name is used as is; an empty persona becomes %q.", query.CustomPersona)))
			return nil
		},
	}
}
