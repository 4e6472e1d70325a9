// Package renderer implements the report rendering pipeline: load a
// template, validate it, substitute variables, resolve the date range for
// the report type, fetch and format data per section, and compose the final
// document.
package renderer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lockdwn20/workmain/internal/ai"
	apperrors "github.com/lockdwn20/workmain/internal/errors"
	"github.com/lockdwn20/workmain/internal/models"
	"github.com/lockdwn20/workmain/internal/storage"
	"github.com/lockdwn20/workmain/internal/validation"
)

// Renderer orchestrates a template render. Rendering is all-or-nothing: a
// load or validation failure aborts with no partial output.
type Renderer struct {
	store     *storage.TemplateStore
	validator *validation.Validator
	fields    *FieldManager
	style     *StyleAdapter
	providers *ai.Registry
	logger    *zap.Logger

	configuredUserName string
	defaultRecipients  []string
	defaultProvider    string
}

// Options configures a Renderer beyond its required collaborators.
type Options struct {
	// UserFullName from persisted configuration; explicit render arguments
	// and the environment override both take precedence.
	UserFullName string
	// Recipients used when a render call supplies none.
	Recipients []string
	// DefaultProvider is used when neither section nor template names one.
	DefaultProvider string
	Logger          *zap.Logger
}

// New creates a renderer. The provider registry may be nil when AI rendering
// is never requested.
func New(store *storage.TemplateStore, validator *validation.Validator, fields *FieldManager, style *StyleAdapter, providers *ai.Registry, opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		store:              store,
		validator:          validator,
		fields:             fields,
		style:              style,
		providers:          providers,
		logger:             logger,
		configuredUserName: opts.UserFullName,
		defaultRecipients:  opts.Recipients,
		defaultProvider:    opts.DefaultProvider,
	}
}

// RenderRequest names the inputs of one render call.
type RenderRequest struct {
	TemplateName string
	// ReportDate defaults to today when zero.
	ReportDate time.Time
	// UserFullName overrides the environment and configured values.
	UserFullName string
	Recipients   []string
	UseAI        bool
}

// Render runs the full pipeline and returns the composed document plus
// structured metadata.
func (r *Renderer) Render(ctx context.Context, req RenderRequest) (*models.RenderResult, error) {
	reportDate := req.ReportDate
	if reportDate.IsZero() {
		reportDate = time.Now()
	}

	tmpl, err := r.store.Load(req.TemplateName, false)
	if err != nil {
		return nil, err
	}
	if err := r.validator.ValidateAndRaise(tmpl); err != nil {
		return nil, err
	}

	userName := ResolveUserName(req.UserFullName, r.configuredUserName)
	recipients := req.Recipients
	if recipients == nil {
		recipients = r.defaultRecipients
	}
	variables := BuildVariables(reportDate, userName, recipients)

	// Cached templates are immutable; substitution works on a copy.
	tmpl = tmpl.Clone()
	tmpl.SubjectLine = SubstituteVariables(tmpl.SubjectLine, variables)

	start, end := DateRangeForReportType(tmpl.TemplateType, reportDate)

	r.logger.Debug("rendering template",
		zap.String("template", req.TemplateName),
		zap.String("type", tmpl.TemplateType),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Bool("ai", req.UseAI))

	sections := make([]models.RenderedSection, 0, len(tmpl.Sections))
	for i := range tmpl.Sections {
		rendered, err := r.renderSection(ctx, tmpl, &tmpl.Sections[i], start, end, req.UseAI)
		if err != nil {
			return nil, fmt.Errorf("rendering section %q: %w", tmpl.Sections[i].Name, err)
		}
		sections = append(sections, rendered)
	}

	version := tmpl.Version
	if version == "" {
		version = "1.0"
	}

	return &models.RenderResult{
		ID:           uuid.NewString(),
		TemplateName: req.TemplateName,
		TemplateType: tmpl.TemplateType,
		SubjectLine:  tmpl.SubjectLine,
		Sections:     sections,
		Output:       composeOutput(tmpl, sections),
		GeneratedAt:  time.Now(),
		ReportDate:   reportDate,
		DateRange:    models.DateRange{Start: start, End: end},
		AIUsed:       req.UseAI,
		Version:      version,
	}, nil
}

// Preview renders without AI and returns only the composed document.
func (r *Renderer) Preview(ctx context.Context, templateName string, reportDate time.Time) (string, error) {
	result, err := r.Render(ctx, RenderRequest{
		TemplateName: templateName,
		ReportDate:   reportDate,
	})
	if err != nil {
		return "", err
	}
	return result.Output, nil
}

func (r *Renderer) renderSection(ctx context.Context, tmpl *models.Template, section *models.Section, start, end time.Time, useAI bool) (models.RenderedSection, error) {
	data, err := r.fields.GetSectionData(section, start, end)
	if err != nil {
		return models.RenderedSection{}, err
	}
	formatted := r.fields.FormatSectionOutput(data)

	var content string
	if useAI {
		content, err = r.generateWithAI(ctx, tmpl, section, data)
	} else {
		content, err = formatContent(section.Format, data, section.Required, r.style.FallbackLine())
	}
	if err != nil {
		return models.RenderedSection{}, err
	}

	return models.RenderedSection{
		Name:          section.Name,
		Title:         section.Title,
		Content:       content,
		Data:          data,
		FormattedData: formatted,
	}, nil
}

func (r *Renderer) generateWithAI(ctx context.Context, tmpl *models.Template, section *models.Section, data models.SectionData) (string, error) {
	if r.providers == nil {
		return "", apperrors.New(apperrors.CodeUnsupported, "AI rendering requested but no providers are configured")
	}

	provider := section.AIProvider
	if provider == "" {
		provider = tmpl.AIProviderDefault
	}
	if provider == "" {
		provider = r.defaultProvider
	}

	generator, err := r.providers.Get(provider)
	if err != nil {
		return "", err
	}

	prompt := r.style.BuildAIPrompt(section.Name, section.AIInstruction, data, tmpl.TemplateType)
	content, err := generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating content via %s: %w", provider, err)
	}
	return strings.TrimSpace(content), nil
}

// composeOutput joins the subject line and section blocks. Each section gets
// a level-4 heading followed by its content, blocks separated by a blank
// line. Section order matches the template's declared order.
func composeOutput(tmpl *models.Template, sections []models.RenderedSection) string {
	var lines []string

	if tmpl.SubjectLine != "" {
		lines = append(lines, "**Subject:** "+tmpl.SubjectLine)
		lines = append(lines, "")
	}

	for _, section := range sections {
		lines = append(lines, "#### "+section.Title)
		lines = append(lines, section.Content)
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
