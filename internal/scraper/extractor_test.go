package scraper

import (
	_ "embed"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"linkedin-scraper/pkg/models"
)

//go:embed testdata/profile.html
var profileFixture string

const fixtureURL = "https://www.linkedin.com/in/jane-q-public/"

func TestExtractIdentity(t *testing.T) {
	e := &Extractor{}
	p, err := e.Extract(profileFixture, fixtureURL)
	require.NoError(t, err)

	require.Equal(t, "Jane Q. Public", p.FullName)
	require.Equal(t, "Jane", p.FirstName)
	require.Equal(t, "Q. Public", p.LastName)
	require.Equal(t, "Senior Platform Engineer", p.Headline)
	require.Equal(t, "https://media.example.com/jane.jpg", p.ImageURL)
	require.Equal(t, "LinkedIn", p.Source)
	require.Equal(t, fixtureURL, p.LinkedInURL)

	require.Equal(t, "San Francisco", p.City)
	require.Equal(t, "CA", p.State)
	require.Equal(t, "United States", p.Country)
	require.Equal(t, "Female", p.Gender)

	require.NotEmpty(t, p.ScrapedAt)
}

func TestExtractExperience(t *testing.T) {
	e := &Extractor{}
	p, err := e.Extract(profileFixture, fixtureURL)
	require.NoError(t, err)

	// the duplicate Staff Engineer entry and the nameless entry are
	// dropped, document order is preserved
	require.Len(t, p.WorkExperiences, 3)

	staff := p.WorkExperiences[0]
	require.Equal(t, "Staff Engineer", staff.JobTitle)
	require.Equal(t, "Initech", staff.CompanyName)
	require.Equal(t, "Full-time", staff.WorkType)
	require.Equal(t, "Jan 2020", staff.StartDate)
	require.Equal(t, "", staff.EndDate)
	require.True(t, staff.StillWorking)
	require.Equal(t, "San Francisco Bay Area", staff.Location)
	// first occurrence wins: the duplicate's description must not leak in
	require.Equal(t, "Platform team lead for the billing stack.", staff.Description)

	qa := p.WorkExperiences[1]
	require.Equal(t, "QA Engineer", qa.JobTitle)
	require.Equal(t, "Globex", qa.CompanyName)
	require.Equal(t, "Mar 2016", qa.StartDate)
	require.Equal(t, "Feb 2018", qa.EndDate)
	require.False(t, qa.StillWorking)
	// no per-entry location in the markup, falls back to the profile's
	require.Equal(t, "San Francisco, CA, United States", qa.Location)

	require.Equal(t, "Software Engineer", p.WorkExperiences[2].JobTitle)
	require.Equal(t, "Hooli", p.WorkExperiences[2].CompanyName)

	require.Equal(t, "yes", p.WorkedPreviously)
}

func TestExtractEducation(t *testing.T) {
	e := &Extractor{}
	p, err := e.Extract(profileFixture, fixtureURL)
	require.NoError(t, err)

	// the item without a college name is discarded
	require.Len(t, p.EducationExperiences, 1)

	edu := p.EducationExperiences[0]
	require.Equal(t, "State University", edu.CollegeName)
	require.Equal(t, "Bachelor of Science", edu.CourseName)
	require.Equal(t, "Computer Science", edu.Field)
	require.Equal(t, "Aug 2012", edu.StartDate)
	require.Equal(t, "May 2016", edu.EndDate)
	require.False(t, edu.StillStudying)
	require.Equal(t, "Bachelor of Science", edu.EducationType)
	require.Equal(t, "Bachelor of Science, Computer Science", edu.Description)

	require.Equal(t, "Bachelor of Science", p.Degree)
}

func TestExtractProjects(t *testing.T) {
	e := &Extractor{}
	p, err := e.Extract(profileFixture, fixtureURL)
	require.NoError(t, err)

	// the screenshot caption and the duplicate are excluded
	require.Len(t, p.ProjectExperiences, 2)

	gateway := p.ProjectExperiences[0]
	require.Equal(t, "Payment Gateway", gateway.ProjectName)
	require.Equal(t, "Jan 2021", gateway.StartDate)
	require.Equal(t, "", gateway.EndDate)
	require.True(t, gateway.StillWorking)
	require.Equal(t, "Multi-currency payment routing service.", gateway.Description)

	require.Equal(t, "CLI Tool", p.ProjectExperiences[1].ProjectName)
}

func TestExtractSkills(t *testing.T) {
	e := &Extractor{}
	p, err := e.Extract(profileFixture, fixtureURL)
	require.NoError(t, err)

	require.Equal(t, []string{"Go", "Distributed Systems", "Kubernetes"}, p.Skills)
}

func TestExtractEmptyDocument(t *testing.T) {
	e := &Extractor{}
	p, err := e.Extract("<html><body></body></html>", fixtureURL)
	require.NoError(t, err)

	// a missing title is a soft success, not an error
	require.Equal(t, "", p.FullName)
	require.Equal(t, "no", p.WorkedPreviously)
	require.Equal(t, "", p.Degree)
	require.Empty(t, p.WorkExperiences)
	require.Empty(t, p.ProjectExperiences)
	require.Empty(t, p.EducationExperiences)
	require.Empty(t, p.Skills)
}

func TestExtractMobileName(t *testing.T) {
	html := `<html><body>
		<h1>Desktop Name</h1>
		<section class="top-card-layout__card">
			<h1 class="top-card-layout__title">Mobile Name</h1>
		</section>
	</body></html>`

	desktop := &Extractor{}
	p, err := desktop.Extract(html, fixtureURL)
	require.NoError(t, err)
	require.Equal(t, "Desktop Name", p.FullName)

	mobile := &Extractor{Mobile: true}
	p, err = mobile.Extract(html, fixtureURL)
	require.NoError(t, err)
	require.Equal(t, "Mobile Name", p.FullName)

	// mobile falls back to the plain h1 when the mobile title is absent
	p, err = mobile.Extract("<html><body><h1>Only H1</h1></body></html>", fixtureURL)
	require.NoError(t, err)
	require.Equal(t, "Only H1", p.FullName)
}

func mustParseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestSectionParsersReportMarkupMismatch(t *testing.T) {
	// entries exist but none carries the expected name markup
	doc := mustParseDoc(t, `<html><body>
		<section><div id="experience"></div><div><ul>
			<li><em>unexpected shape</em></li>
			<li><em>another one</em></li>
		</ul></div></section>
	</body></html>`)

	items, err := parseExperience(doc, "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "none of 2 entries")
	require.Empty(t, items)

	// an absent section is a success with no items
	items, err = parseExperience(mustParseDoc(t, "<html><body></body></html>"), "")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestParseProjectsAllArtifactsIsNotAFailure(t *testing.T) {
	doc := mustParseDoc(t, `<html><body>
		<section><div id="projects"></div><div><ul>
			<li><div class="t-bold"><span aria-hidden="true">Screenshot 2024-01-01.png</span></div></li>
			<li><div class="t-bold"><span aria-hidden="true">diagram.svg</span></div></li>
		</ul></div></section>
	</body></html>`)

	// every entry parsed, the filter excluded them on purpose
	items, err := parseProjects(doc)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestExtractDegradesFailedSectionOnly(t *testing.T) {
	html := `<html><body>
		<h1>Jane Q. Public</h1>
		<section><div id="experience"></div><div><ul>
			<li><em>unexpected shape</em></li>
		</ul></div></section>
		<section><div id="skills"></div><div><ul>
			<li><div class="hoverable-link-text"><span aria-hidden="true">Go</span></div></li>
		</ul></div></section>
	</body></html>`

	e := &Extractor{}
	p, err := e.Extract(html, fixtureURL)
	require.NoError(t, err)

	// the broken section comes back empty, the healthy one still parses
	require.Empty(t, p.WorkExperiences)
	require.NotNil(t, p.WorkExperiences)
	require.Equal(t, "no", p.WorkedPreviously)
	require.Equal(t, []string{"Go"}, p.Skills)
}

func TestSectionResultOrEmpty(t *testing.T) {
	ok := sectionResult[string]{Items: []string{"a"}}
	require.Equal(t, []string{"a"}, ok.orEmpty("skills"))

	failed := sectionResult[string]{Err: errors.New("markup drift")}
	require.Equal(t, []string{}, failed.orEmpty("skills"))

	absent := sectionResult[string]{}
	require.Equal(t, []string{}, absent.orEmpty("skills"))
}

func TestDedupeOrderPreserving(t *testing.T) {
	in := []models.WorkExperience{
		{JobTitle: "A", CompanyName: "X", Description: "first"},
		{JobTitle: "B", CompanyName: "X"},
		{JobTitle: "A", CompanyName: "X", Description: "second"},
		{JobTitle: "C", CompanyName: "Y"},
	}
	out := dedupeWork(in)
	require.Len(t, out, 3)
	require.Equal(t, "A", out[0].JobTitle)
	require.Equal(t, "first", out[0].Description)
	require.Equal(t, "B", out[1].JobTitle)
	require.Equal(t, "C", out[2].JobTitle)

	// same title at a different company is not a duplicate
	other := dedupeWork([]models.WorkExperience{
		{JobTitle: "A", CompanyName: "X"},
		{JobTitle: "A", CompanyName: "Y"},
	})
	require.Len(t, other, 2)
}
