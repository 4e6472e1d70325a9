package models

// OutputFormat is the document-level output format of a report template.
type OutputFormat string

const (
	OutputMarkdown OutputFormat = "markdown"
	OutputHTML     OutputFormat = "html"
	OutputText     OutputFormat = "text"
)

// SectionFormat selects how a section's content is generated when AI is not
// used. The set is closed; the renderer dispatches through a strategy per
// format rather than comparing strings inline.
type SectionFormat string

const (
	FormatBullets      SectionFormat = "bullets"
	FormatProse        SectionFormat = "prose"
	FormatTimeSummary  SectionFormat = "time_summary"
	FormatNumberedList SectionFormat = "numbered_list"
)

// DataSource names a record kind a section may pull from.
type DataSource string

const (
	SourceNotes       DataSource = "notes"
	SourceTimeEntries DataSource = "time_entries"
	SourceMeetings    DataSource = "meetings"
	SourceProjects    DataSource = "projects"
	SourceClockify    DataSource = "clockify"
)

// Template describes a report's shape. Templates are hand-authored JSON
// documents, loaded by name from the template store.
type Template struct {
	Name              string        `json:"name"`
	TemplateType      string        `json:"template_type,omitempty"`
	Description       string        `json:"description,omitempty"`
	Version           string        `json:"version,omitempty"`
	RecipientType     string        `json:"recipient_type,omitempty"`
	OutputFormat      string        `json:"output_format"`
	SubjectLine       string        `json:"subject_line,omitempty"`
	Sections          []Section     `json:"sections"`
	Delivery          *DeliveryMeta `json:"delivery,omitempty"`
	AIProviderDefault string        `json:"ai_provider_default,omitempty"`
}

// Section is one named block within a template. Sections are ordered and not
// addressable outside their template.
type Section struct {
	Name          string    `json:"name"`
	Title         string    `json:"title"`
	Required      bool      `json:"required,omitempty"`
	DataSources   []string  `json:"data_sources,omitempty"`
	TagFilter     TagFilter `json:"tag_filter,omitempty"`
	Format        string    `json:"format,omitempty"`
	AIProvider    string    `json:"ai_provider,omitempty"`
	AIInstruction string    `json:"ai_instruction,omitempty"`
}

// TagFilter controls which records a section selects. Include uses OR
// semantics, exclude uses AND-NOT semantics; when a tag appears in both,
// exclude wins.
type TagFilter struct {
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// DeliveryMeta is optional delivery metadata carried on a template. The
// engine does not act on it.
type DeliveryMeta struct {
	Method     string   `json:"method,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
	Schedule   string   `json:"schedule,omitempty"`
}

// Clone returns a deep copy. Cached templates are treated as immutable, so
// every mutation (variable substitution, section addition) works on a copy.
func (t *Template) Clone() *Template {
	cp := *t
	cp.Sections = make([]Section, len(t.Sections))
	for i, s := range t.Sections {
		sc := s
		sc.DataSources = append([]string(nil), s.DataSources...)
		sc.TagFilter.Include = append([]string(nil), s.TagFilter.Include...)
		sc.TagFilter.Exclude = append([]string(nil), s.TagFilter.Exclude...)
		cp.Sections[i] = sc
	}
	if t.Delivery != nil {
		d := *t.Delivery
		d.Recipients = append([]string(nil), t.Delivery.Recipients...)
		cp.Delivery = &d
	}
	return &cp
}

// SectionByName returns the named section, or nil if the template has none.
func (t *Template) SectionByName(name string) *Section {
	for i := range t.Sections {
		if t.Sections[i].Name == name {
			return &t.Sections[i]
		}
	}
	return nil
}

// TemplateInfo is a lightweight metadata view of a template.
type TemplateInfo struct {
	Name              string `json:"name"`
	TemplateType      string `json:"template_type,omitempty"`
	Description       string `json:"description,omitempty"`
	Version           string `json:"version"`
	RecipientType     string `json:"recipient_type,omitempty"`
	SectionsCount     int    `json:"sections_count"`
	OutputFormat      string `json:"output_format"`
	AIProviderDefault string `json:"ai_provider_default,omitempty"`
}

// Info summarizes the template for listings.
func (t *Template) Info() TemplateInfo {
	version := t.Version
	if version == "" {
		version = "1.0"
	}
	return TemplateInfo{
		Name:              t.Name,
		TemplateType:      t.TemplateType,
		Description:       t.Description,
		Version:           version,
		RecipientType:     t.RecipientType,
		SectionsCount:     len(t.Sections),
		OutputFormat:      t.OutputFormat,
		AIProviderDefault: t.AIProviderDefault,
	}
}
