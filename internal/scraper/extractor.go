package scraper

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"linkedin-scraper/pkg/models"
)

// Selectors for the desktop profile layout. The surrounding structure is
// unstable, so sections are located through the stable id anchor inside
// them rather than by position.
const (
	selName        = "h1"
	selMobileName  = ".top-card-layout__title"
	selHeadline    = "div.text-body-medium.break-words"
	selLocation    = ".text-body-small.inline.t-black--light.break-words"
	selPhoto       = "div.pv-top-card--photo img"
	selPronouns    = "span.text-body-small.v-align-middle"
	selLinkText    = `div.hoverable-link-text span[aria-hidden="true"]`
	selBoldText    = `span.t-bold span[aria-hidden="true"]`
	selBoldDivText = `div.t-bold span[aria-hidden="true"]`
	selMetaLine    = "span.t-14.t-normal"
	selDateLine    = "span.t-14.t-normal.t-black--light"
	selDescription = ".inline-show-more-text--is-collapsed"
	metaSeparator  = " · "
)

// Extractor turns rendered profile markup into a normalized Profile.
// Missing optional fields never raise; every field has a defined empty
// default. Sections are fault isolated through sectionResult: one section
// failing yields an empty result for that section and leaves the others
// alone.
type Extractor struct {
	// Mobile switches the name lookup to the m.linkedin layout
	Mobile bool
}

// sectionResult is one section's parse outcome: the extracted items, or
// the reason the section's markup could not be parsed. An absent section
// is a success with no items, not a failure.
type sectionResult[T any] struct {
	Items []T
	Err   error
}

func section[T any](items []T, err error) sectionResult[T] {
	return sectionResult[T]{Items: items, Err: err}
}

// orEmpty resolves the result to its items, degrading a failed section to
// an empty slice after logging the reason.
func (r sectionResult[T]) orEmpty(name string) []T {
	if r.Err != nil {
		slog.Warn("profile section did not parse", "section", name, "reason", r.Err)
		return []T{}
	}
	if r.Items == nil {
		return []T{}
	}
	return r.Items
}

// Extract parses the serialized page content. A document without an h1
// title is a soft success with an empty fullName, navigation and timeout
// failures surface earlier in the pipeline.
func (e *Extractor) Extract(htmlContent, profileURL string) (*models.Profile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	name := e.fullName(doc)
	firstName, lastName := splitName(name)

	location := strings.TrimSpace(doc.Find(selLocation).First().Text())
	city, state, country := splitLocation(location)

	pronounText := strings.ToLower(strings.TrimSpace(doc.Find(selPronouns).First().Text()))

	profile := &models.Profile{
		FullName:    name,
		FirstName:   firstName,
		LastName:    lastName,
		Headline:    strings.TrimSpace(doc.Find(selHeadline).First().Text()),
		ImageURL:    doc.Find(selPhoto).First().AttrOr("src", ""),
		Source:      "LinkedIn",
		City:        city,
		State:       state,
		Gender:      inferGender(pronounText),
		Country:     country,
		LinkedInURL: profileURL,
		ScrapedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	profile.WorkExperiences = section(parseExperience(doc, location)).orEmpty("experience")
	profile.ProjectExperiences = section(parseProjects(doc)).orEmpty("projects")
	profile.EducationExperiences = section(parseEducation(doc, location)).orEmpty("education")
	profile.Skills = section(parseSkills(doc)).orEmpty("skills")

	profile.WorkedPreviously = "no"
	if len(profile.WorkExperiences) > 0 {
		profile.WorkedPreviously = "yes"
	}
	if len(profile.EducationExperiences) > 0 {
		edu := profile.EducationExperiences[0]
		profile.Degree = firstNonEmpty(edu.CourseName, edu.EducationType, edu.Field)
	}

	return profile, nil
}

func (e *Extractor) fullName(doc *goquery.Document) string {
	if e.Mobile {
		if name := strings.TrimSpace(doc.Find(selMobileName).First().Text()); name != "" {
			return name
		}
	}
	return strings.TrimSpace(doc.Find(selName).First().Text())
}

// sectionByAnchor finds the section element containing the given id
// marker, e.g. "#experience".
func sectionByAnchor(doc *goquery.Document, anchor string) *goquery.Selection {
	return doc.Find("section").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find(anchor).Length() > 0
	})
}

// sectionItems returns the section's top level list items in document
// order.
func sectionItems(sec *goquery.Selection) *goquery.Selection {
	return sec.ChildrenFiltered("div").Find("ul > li")
}

func parseExperience(doc *goquery.Document, fallbackLocation string) ([]models.WorkExperience, error) {
	sec := sectionByAnchor(doc, "#experience")
	if sec.Length() == 0 {
		return nil, nil
	}

	var out []models.WorkExperience
	items := sectionItems(sec)
	items.Each(func(_ int, li *goquery.Selection) {
		// prefer the richer inline-link text, fall back to the bold node
		role := strings.TrimSpace(li.Find(selLinkText).First().Text())
		if role == "" {
			role = strings.TrimSpace(li.Find(selBoldText).First().Text())
		}
		if role == "" {
			return
		}

		companyName, workType := splitMeta(li.Find(selMetaLine).First().Text())

		dateRange := strings.TrimSpace(li.Find(selDateLine).First().Text())
		start, end, stillWorking := parseDateRange(dateRange)

		location := strings.TrimSpace(li.Find(selDateLine).Eq(1).Text())
		if location == "" {
			location = fallbackLocation
		}

		out = append(out, models.WorkExperience{
			JobTitle:     role,
			CompanyName:  companyName,
			StartDate:    start,
			EndDate:      end,
			Skills:       []string{},
			StillWorking: stillWorking,
			Description:  collapseWhitespace(li.Find(selDescription).Text()),
			Location:     location,
			WorkType:     workType,
		})
	})

	if items.Length() > 0 && len(out) == 0 {
		return nil, fmt.Errorf("none of %d entries matched the expected markup", items.Length())
	}
	return dedupeWork(out), nil
}

func parseProjects(doc *goquery.Document) ([]models.ProjectExperience, error) {
	sec := sectionByAnchor(doc, "#projects")
	if sec.Length() == 0 {
		return nil, nil
	}

	var out []models.ProjectExperience
	items := sectionItems(sec)
	// artifacts are a deliberate exclusion, not a parse failure
	matched := 0
	items.Each(func(_ int, li *goquery.Selection) {
		name := strings.TrimSpace(li.Find(selBoldDivText).First().Text())
		if name == "" {
			return
		}
		matched++
		if isImageArtifact(name) {
			return
		}

		dateRange := strings.TrimSpace(li.Find(selMetaLine).First().Text())
		start, end, stillWorking := parseDateRange(dateRange)

		out = append(out, models.ProjectExperience{
			ProjectName:  name,
			StartDate:    start,
			EndDate:      end,
			Skills:       []string{},
			StillWorking: stillWorking,
			Description:  collapseWhitespace(li.Find(selDescription).Text()),
			GitURL:       "",
			HostURL:      "",
		})
	})

	if items.Length() > 0 && matched == 0 {
		return nil, fmt.Errorf("none of %d entries matched the expected markup", items.Length())
	}
	return dedupeProjects(out), nil
}

func parseEducation(doc *goquery.Document, location string) ([]models.EducationExperience, error) {
	sec := sectionByAnchor(doc, "#education")
	if sec.Length() == 0 {
		return nil, nil
	}

	var out []models.EducationExperience
	items := sectionItems(sec)
	items.Each(func(_ int, li *goquery.Selection) {
		collegeName := strings.TrimSpace(li.Find(selLinkText).First().Text())
		if collegeName == "" {
			// markup did not match the expected shape
			return
		}

		degreeLine := strings.TrimSpace(li.Find(selMetaLine).First().Text())
		courseName, field := splitDegreeLine(degreeLine)

		dateRange := strings.TrimSpace(li.Find(selDateLine).First().Text())
		start, end, stillStudying := parseDateRange(dateRange)

		out = append(out, models.EducationExperience{
			CourseName:    courseName,
			Field:         field,
			CollegeName:   collegeName,
			StartDate:     start,
			EndDate:       end,
			Skills:        []string{},
			StillStudying: stillStudying,
			Description:   degreeLine,
			Grade:         "",
			Location:      location,
			EducationType: courseName,
		})
	})

	if items.Length() > 0 && len(out) == 0 {
		return nil, fmt.Errorf("none of %d entries matched the expected markup", items.Length())
	}
	return out, nil
}

func parseSkills(doc *goquery.Document) ([]string, error) {
	sec := sectionByAnchor(doc, "#skills")
	if sec.Length() == 0 {
		return nil, nil
	}

	var out []string
	sec.Find(selLinkText + ", " + selBoldDivText).
		Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				out = append(out, text)
			}
		})

	if items := sectionItems(sec); items.Length() > 0 && len(out) == 0 {
		return nil, fmt.Errorf("none of %d entries matched the expected markup", items.Length())
	}
	return dedupeStrings(out), nil
}

// splitMeta splits a "Company · Full-time" meta line into its entity name
// and sub-type.
func splitMeta(raw string) (name, subType string) {
	parts := strings.SplitN(strings.TrimSpace(raw), metaSeparator, 2)
	name = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		subType = strings.TrimSpace(parts[1])
	}
	return name, subType
}

// splitDegreeLine splits a "Bachelor of Science, Computer Science" line
// into degree and field.
func splitDegreeLine(raw string) (degree, field string) {
	parts := strings.SplitN(raw, ",", 2)
	degree = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		field = strings.TrimSpace(parts[1])
	}
	return degree, field
}

// dedupeWork keeps the first occurrence per (jobTitle, companyName) key,
// preserving document order. Later duplicates are dropped even when they
// carry more complete fields.
func dedupeWork(in []models.WorkExperience) []models.WorkExperience {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, w := range in {
		key := w.JobTitle + "|" + w.CompanyName
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, w)
	}
	return out
}

func dedupeProjects(in []models.ProjectExperience) []models.ProjectExperience {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, p := range in {
		if seen[p.ProjectName] {
			continue
		}
		seen[p.ProjectName] = true
		out = append(out, p)
	}
	return out
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
