package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Show the configured tag vocabulary",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(headerStyle.Render("Tags (type as #shortcut in note text)"))
		for _, info := range svc.TagReference() {
			line := fmt.Sprintf("  #%-6s %-16s %s",
				tagStyle.Render(info.Shortcut), info.FullName, info.Description)
			if info.IsDefault {
				line += "  " + defaultStyle.Render("(default)")
			}
			fmt.Println(line)
		}
		return nil
	},
}
