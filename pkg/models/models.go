package models

// Cookie is a single browser session cookie, in the same JSON shape the
// cookie file has always used so files written by older deployments keep
// loading.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain,omitempty"`
	Path     string  `json:"path,omitempty"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	SameSite string  `json:"sameSite,omitempty"`
}

// SessionCookieName is the LinkedIn authentication cookie. A session is
// valid if and only if this cookie is present.
const SessionCookieName = "li_at"

// WorkExperience is one entry of the experience section
type WorkExperience struct {
	JobTitle     string   `json:"jobTitle"`
	CompanyName  string   `json:"companyName"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Skills       []string `json:"skills"`
	StillWorking bool     `json:"stillWorking"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	WorkType     string   `json:"workType"` // Full-time, Internship, etc.
}

// ProjectExperience is one entry of the projects section
type ProjectExperience struct {
	ProjectName  string   `json:"projectName"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Skills       []string `json:"skills"`
	StillWorking bool     `json:"stillWorking"`
	Description  string   `json:"description"`
	GitURL       string   `json:"gitUrl"`
	HostURL      string   `json:"hostUrl"`
}

// EducationExperience is one entry of the education section
type EducationExperience struct {
	CourseName    string   `json:"courseName"`
	Field         string   `json:"field"`
	CollegeName   string   `json:"collegeName"`
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
	Skills        []string `json:"skills"`
	StillStudying bool     `json:"stillStudying"`
	Description   string   `json:"description"`
	Grade         string   `json:"grade"`
	Location      string   `json:"location"`
	EducationType string   `json:"educationType"`
}

// Profile is the normalized result of one profile scrape. It is built once
// per successful scrape and never mutated afterwards.
type Profile struct {
	FullName  string `json:"fullName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Headline  string `json:"headline"`
	ImageURL  string `json:"imageUrl"`
	Source    string `json:"source"`
	City      string `json:"city"`
	State     string `json:"state"`
	Gender    string `json:"gender"`
	Country   string `json:"country"`

	LinkedInURL string `json:"linkedinUrl"`

	// "yes" when at least one work experience was found, "no" otherwise
	WorkedPreviously string `json:"workedPreviously"`

	// first non-empty of the newest education's course name, type or field
	Degree string `json:"degree"`

	WorkExperiences      []WorkExperience      `json:"workExperiences"`
	ProjectExperiences   []ProjectExperience   `json:"projectExperiences"`
	EducationExperiences []EducationExperience `json:"educationExperiences"`
	Skills               []string              `json:"skills"`

	ScrapedAt string `json:"scrapedAt"`
}
