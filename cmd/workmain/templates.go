package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List, show and validate report templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		infos, err := svc.ListTemplates()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println(subtleStyle.Render("no templates found"))
			return nil
		}
		for _, info := range infos {
			line := fmt.Sprintf("%s  %s",
				titleStyle.Render(info.Name),
				subtleStyle.Render(fmt.Sprintf("v%s, %d sections, %s", info.Version, info.SectionsCount, info.OutputFormat)))
			fmt.Println(line)
			if info.Description != "" {
				fmt.Println("  " + info.Description)
			}
		}
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a template as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl, err := svc.GetTemplate(args[0], true)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(tmpl, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var templatesValidateCmd = &cobra.Command{
	Use:   "validate [name]",
	Short: "Validate one template, or all when no name is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			problems, err := svc.ValidateTemplate(args[0])
			if err != nil {
				return err
			}
			printProblems(args[0], problems)
			return nil
		}

		results, err := svc.ValidateAll()
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println(okStyle.Render("✓ all templates valid"))
			return nil
		}
		names := make([]string, 0, len(results))
		for name := range results {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			printProblems(name, results[name])
		}
		return nil
	},
}

func printProblems(name string, problems []string) {
	if len(problems) == 0 {
		fmt.Printf("%s %s\n", okStyle.Render("✓"), name)
		return
	}
	fmt.Printf("%s %s\n", errStyle.Render("✗"), name)
	for _, p := range problems {
		fmt.Println("  - " + p)
	}
}

func init() {
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	templatesCmd.AddCommand(templatesValidateCmd)
}
