package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keller/citefmt/internal/style"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List supported citation styles",
	RunE: func(cmd *cobra.Command, args []string) error {
		if humanOutput {
			for _, st := range style.All() {
				fmt.Println(st)
			}
			return nil
		}
		return outputJSON(struct {
			Styles []style.Style `json:"styles"`
		}{Styles: style.All()})
	},
}

func init() {
	rootCmd.AddCommand(stylesCmd)
}
