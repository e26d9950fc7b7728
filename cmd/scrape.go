package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"linkedin-scraper/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
)

var scrapeJSON bool

var scrapeCmd = &cobra.Command{
	Use:   "scrape <profile-url>",
	Short: "Scrape a single LinkedIn profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := orch.Scrape(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if scrapeJSON {
			data, err := json.MarshalIndent(profile, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		renderProfile(profile)
		return nil
	},
}

func renderProfile(p *models.Profile) {
	fmt.Println(titleStyle.Render(p.FullName))
	printField("Headline", p.Headline)
	printField("Location", joinNonEmpty(p.City, p.State, p.Country))
	printField("Gender", p.Gender)
	printField("Degree", p.Degree)
	printField("Worked previously", p.WorkedPreviously)
	printField("Scraped at", p.ScrapedAt)

	if len(p.WorkExperiences) > 0 {
		fmt.Println(titleStyle.Render("Experience"))
		for _, w := range p.WorkExperiences {
			line := w.JobTitle
			if w.CompanyName != "" {
				line += " @ " + w.CompanyName
			}
			fmt.Println(labelStyle.Render("  • ") + valueStyle.Render(line))
			if dates := formatDates(w.StartDate, w.EndDate, w.StillWorking); dates != "" {
				fmt.Println(valueStyle.Render("    " + dates))
			}
		}
	}

	if len(p.EducationExperiences) > 0 {
		fmt.Println(titleStyle.Render("Education"))
		for _, e := range p.EducationExperiences {
			line := e.CollegeName
			if e.CourseName != "" {
				line += ", " + e.CourseName
			}
			fmt.Println(labelStyle.Render("  • ") + valueStyle.Render(line))
		}
	}

	if len(p.ProjectExperiences) > 0 {
		fmt.Println(titleStyle.Render("Projects"))
		for _, pr := range p.ProjectExperiences {
			fmt.Println(labelStyle.Render("  • ") + valueStyle.Render(pr.ProjectName))
		}
	}

	if len(p.Skills) > 0 {
		fmt.Println(titleStyle.Render("Skills"))
		for _, s := range p.Skills {
			fmt.Println(labelStyle.Render("  • ") + valueStyle.Render(s))
		}
	}
}

func printField(label, value string) {
	if value == "" {
		return
	}
	fmt.Println(labelStyle.Render(label+": ") + valueStyle.Render(value))
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}

func formatDates(start, end string, current bool) string {
	switch {
	case start == "" && end == "":
		return ""
	case current:
		return start + " - Present"
	case end == "":
		return start
	default:
		return start + " - " + end
	}
}

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeJSON, "json", false, "print the raw JSON record")
	rootCmd.AddCommand(scrapeCmd)
}
