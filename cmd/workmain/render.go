package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lockdwn20/workmain/internal/renderer"
)

var (
	renderDate       string
	renderUser       string
	renderRecipients []string
	renderUseAI      bool
	renderPreview    bool
)

var renderCmd = &cobra.Command{
	Use:   "render <template>",
	Short: "Render a report from a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reportDate, err := parseDateFlag(renderDate)
		if err != nil {
			return err
		}

		if renderPreview {
			out, err := svc.PreviewReport(cmd.Context(), args[0], reportDate)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		}

		result, err := svc.RenderReport(cmd.Context(), renderer.RenderRequest{
			TemplateName: args[0],
			ReportDate:   reportDate,
			UserFullName: renderUser,
			Recipients:   renderRecipients,
			UseAI:        renderUseAI,
		})
		if err != nil {
			return err
		}

		fmt.Println(result.Output)
		fmt.Println(subtleStyle.Render(fmt.Sprintf(
			"rendered %s (%s .. %s, ai=%v)",
			result.TemplateName,
			result.DateRange.Start.Format("2006-01-02"),
			result.DateRange.End.Format("2006-01-02"),
			result.AIUsed)))
		return nil
	},
}

// parseDateFlag accepts an ISO date or empty for today.
func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return d, nil
}

func init() {
	renderCmd.Flags().StringVarP(&renderDate, "date", "d", "", "report date (YYYY-MM-DD, default today)")
	renderCmd.Flags().StringVar(&renderUser, "name", "", "override the reporting user's full name")
	renderCmd.Flags().StringSliceVar(&renderRecipients, "to", nil, "recipient names for the subject line")
	renderCmd.Flags().BoolVar(&renderUseAI, "ai", false, "generate section prose via the configured AI provider")
	renderCmd.Flags().BoolVar(&renderPreview, "preview", false, "render data only, no AI, output only")
}
