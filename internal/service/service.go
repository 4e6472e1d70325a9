// Package service provides the business logic tying the tag pipeline, the
// repositories, the template store and the renderer together. The CLI talks
// only to this layer.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/lockdwn20/workmain/internal/ai"
	"github.com/lockdwn20/workmain/internal/config"
	apperrors "github.com/lockdwn20/workmain/internal/errors"
	"github.com/lockdwn20/workmain/internal/models"
	"github.com/lockdwn20/workmain/internal/renderer"
	"github.com/lockdwn20/workmain/internal/repository"
	"github.com/lockdwn20/workmain/internal/storage"
	"github.com/lockdwn20/workmain/internal/tags"
	"github.com/lockdwn20/workmain/internal/validation"
)

// Service is the application facade.
type Service struct {
	cfg       *config.Config
	db        *repository.DB
	notes     *repository.Notes
	entries   *repository.TimeEntries
	meetings  *repository.Meetings
	projects  *repository.Projects
	store     *storage.TemplateStore
	tagSys    *tags.System
	validator *validation.Validator
	renderer  *renderer.Renderer
	logger    *zap.Logger
}

// New wires a service from configuration. The style and vocabulary files are
// optional; missing ones fall back to built-in defaults.
func New(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := repository.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store, err := storage.NewTemplateStore(cfg.TemplatesDir)
	if err != nil {
		return nil, err
	}

	tagCfg, err := tags.LoadConfig(cfg.TagsFile)
	if err != nil {
		logger.Warn("tag config not loadable, using defaults", zap.String("path", cfg.TagsFile), zap.Error(err))
		tagCfg = tags.DefaultConfig()
	}
	tagSys := tags.NewSystem(tagCfg)

	vocab, err := validation.LoadVocabulary(cfg.VocabFile, tagSys.ValidFullNames())
	if err != nil {
		logger.Warn("vocabulary not loadable, using defaults", zap.String("path", cfg.VocabFile), zap.Error(err))
		vocab = validation.DefaultVocabulary(tagSys.ValidFullNames())
	}
	validator := validation.New(vocab)

	style, err := storage.LoadStyle(cfg.StyleFile)
	if err != nil {
		logger.Debug("style config not loadable, prompts use defaults", zap.String("path", cfg.StyleFile))
		style = nil
	}

	notes := repository.NewNotes(db)
	entries := repository.NewTimeEntries(db)
	meetings := repository.NewMeetings(db)
	projects := repository.NewProjects(db)

	var providers *ai.Registry
	if cfg.AI.Enabled {
		providers = ai.NewRegistry()
		providers.Register(ai.NewClient("claude", cfg.AI.BaseURL, cfg.AI.Model, logger))
		providers.Register(ai.NewClient("gemini", cfg.AI.BaseURL, cfg.AI.Model, logger))
	}

	fields := renderer.NewFieldManager(notes, entries, meetings, projects, tagSys)
	rend := renderer.New(store, validator, fields, renderer.NewStyleAdapter(style), providers, renderer.Options{
		UserFullName:    cfg.UserFullName,
		Recipients:      cfg.Recipients,
		DefaultProvider: cfg.AI.DefaultProvider,
		Logger:          logger,
	})

	return &Service{
		cfg:       cfg,
		db:        db,
		notes:     notes,
		entries:   entries,
		meetings:  meetings,
		projects:  projects,
		store:     store,
		tagSys:    tagSys,
		validator: validator,
		renderer:  rend,
		logger:    logger,
	}, nil
}

// Close releases the database.
func (s *Service) Close() error {
	return s.db.Close()
}

// Tags exposes the tag system for display helpers.
func (s *Service) Tags() *tags.System {
	return s.tagSys
}

// NoteResult reports a note creation, including any invalid tag shortcuts
// the caller may want to surface. Invalid tags never abort the save.
type NoteResult struct {
	Note        *models.Note
	InvalidTags []string
}

// AddNote runs free text through the tag pipeline and stores the note. The
// default tag applies only when the text carried no hashtags at all. An
// optional meeting title links (or creates) a meeting.
func (s *Service) AddNote(text, meetingTitle string, projectName string) (*NoteResult, error) {
	clean, fullTags, invalid := s.tagSys.ProcessTags(text, true)
	if clean == "" {
		return nil, apperrors.InvalidInput("note text is empty after tag extraction")
	}

	var meetingID *int64
	source := "ad-hoc"
	if meetingTitle != "" {
		meeting, err := s.meetings.FindOrCreate(meetingTitle, time.Time{})
		if err != nil {
			return nil, err
		}
		meetingID = &meeting.ID
		source = "meeting"
	}

	var projectID *int64
	if projectName != "" {
		project, err := s.projects.GetByName(projectName)
		if err != nil {
			return nil, err
		}
		if project == nil {
			return nil, apperrors.NotFound("project", projectName)
		}
		projectID = &project.ID
	}

	note, err := s.notes.Create(clean, fullTags, projectID, meetingID, source)
	if err != nil {
		return nil, err
	}

	s.logger.Info("note added",
		zap.Int64("id", note.ID),
		zap.Strings("tags", note.Tags),
		zap.Strings("invalid_tags", invalid))

	return &NoteResult{Note: note, InvalidTags: invalid}, nil
}

// NotesForDate returns the notes created on a date, optionally tag-filtered.
func (s *Service) NotesForDate(day time.Time, include, exclude []string) ([]*models.Note, error) {
	return s.notes.GetByDate(day, include, exclude)
}

// SearchNotes does a keyword search ordered by relevance.
func (s *Service) SearchNotes(keyword string, limit int) ([]*models.Note, error) {
	return s.notes.Search(keyword, limit, nil, nil)
}

// AddTimeEntry parses the free-text duration and optional time of day, runs
// the description through the tag pipeline, and stores the entry.
func (s *Service) AddTimeEntry(description, duration, entryTime, category string, entryDate time.Time) (*models.TimeEntry, []string, error) {
	hours, err := repository.ParseDuration(duration)
	if err != nil {
		return nil, nil, err
	}

	clock := ""
	if entryTime != "" {
		clock, err = repository.ParseClock(entryTime)
		if err != nil {
			return nil, nil, err
		}
	}

	clean, fullTags, invalid := s.tagSys.ProcessTags(description, true)
	if clean == "" {
		return nil, nil, apperrors.InvalidInput("description is empty after tag extraction")
	}
	if entryDate.IsZero() {
		entryDate = time.Now()
	}

	entry, err := s.entries.Create(clean, hours, entryDate, clock, category, nil, fullTags)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("time entry added",
		zap.Int64("id", entry.ID),
		zap.Float64("hours", entry.DurationHours),
		zap.String("category", entry.Category))

	return entry, invalid, nil
}

// EntriesForDate returns the entries logged on a date.
func (s *Service) EntriesForDate(day time.Time, category string) ([]*models.TimeEntry, error) {
	return s.entries.GetByDate(day, category)
}

// DaySummary aggregates one day's logged time.
type DaySummary struct {
	Date          time.Time
	TotalHours    float64
	CategoryHours map[string]float64
	EntryCount    int
}

// SummarizeDay computes the time summary for one date.
func (s *Service) SummarizeDay(day time.Time) (*DaySummary, error) {
	entries, err := s.entries.GetByDate(day, "")
	if err != nil {
		return nil, err
	}
	breakdown, err := s.entries.BreakdownByCategory(day, day)
	if err != nil {
		return nil, err
	}
	total, err := s.entries.TotalHoursByDate(day, "")
	if err != nil {
		return nil, err
	}
	return &DaySummary{
		Date:          day,
		TotalHours:    total,
		CategoryHours: breakdown,
		EntryCount:    len(entries),
	}, nil
}

// ListTemplates returns template metadata sorted by name.
func (s *Service) ListTemplates() ([]models.TemplateInfo, error) {
	names, err := s.store.List()
	if err != nil {
		return nil, err
	}
	infos := make([]models.TemplateInfo, 0, len(names))
	for _, name := range names {
		tmpl, err := s.store.Load(name, false)
		if err != nil {
			// Broken templates still show up in listings via ValidateAll;
			// plain listing skips them.
			s.logger.Warn("skipping unloadable template", zap.String("name", name), zap.Error(err))
			continue
		}
		infos = append(infos, tmpl.Info())
	}
	return infos, nil
}

// GetTemplate loads one template by name.
func (s *Service) GetTemplate(name string, reload bool) (*models.Template, error) {
	return s.store.Load(name, reload)
}

// SaveTemplate validates and persists a template. Validation problems are
// returned to the caller, who chooses whether to save anyway.
func (s *Service) SaveTemplate(tmpl *models.Template, force bool) ([]string, error) {
	problems := s.validator.Validate(tmpl)
	if len(problems) > 0 && !force {
		return problems, apperrors.ValidationFailed(problems)
	}
	if err := s.store.Save(tmpl); err != nil {
		return problems, err
	}
	return problems, nil
}

// ValidateTemplate reports every problem in a named template.
func (s *Service) ValidateTemplate(name string) ([]string, error) {
	tmpl, err := s.store.Load(name, true)
	if err != nil {
		return nil, err
	}
	return s.validator.Validate(tmpl), nil
}

// ValidateAll validates every stored template and returns problems keyed by
// template name. Templates that fail to load report their load error; the
// batch never aborts on one bad document.
func (s *Service) ValidateAll() (map[string][]string, error) {
	templates, failures := s.store.LoadAll(true)

	results := make(map[string][]string)
	for name, err := range failures {
		results[name] = []string{err.Error()}
	}
	for name, tmpl := range templates {
		if problems := s.validator.Validate(tmpl); len(problems) > 0 {
			results[name] = problems
		}
	}
	return results, nil
}

// RenderReport runs the full render pipeline.
func (s *Service) RenderReport(ctx context.Context, req renderer.RenderRequest) (*models.RenderResult, error) {
	return s.renderer.Render(ctx, req)
}

// PreviewReport renders without AI and returns the composed document.
func (s *Service) PreviewReport(ctx context.Context, templateName string, reportDate time.Time) (string, error) {
	return s.renderer.Preview(ctx, templateName, reportDate)
}

// MeetingsForDate lists meetings starting on a date.
func (s *Service) MeetingsForDate(day time.Time) ([]*models.Meeting, error) {
	return s.meetings.GetByDate(day)
}

// FindMeetings fuzzy-matches meeting titles at the given threshold.
func (s *Service) FindMeetings(title string, threshold float64) ([]repository.MeetingMatch, error) {
	return s.meetings.FuzzyMatch(title, threshold)
}

// TagReference describes the configured tag vocabulary for help output,
// sorted by shortcut.
func (s *Service) TagReference() []TagInfo {
	shortcuts := s.tagSys.ValidShortcuts()
	sort.Strings(shortcuts)

	infos := make([]TagInfo, 0, len(shortcuts))
	for _, shortcut := range shortcuts {
		full := s.tagSys.ConvertToFullNames([]string{shortcut})
		info := TagInfo{
			Shortcut:    shortcut,
			Description: s.tagSys.Description(shortcut),
			IsDefault:   shortcut == s.tagSys.DefaultTag(),
		}
		if len(full) == 1 {
			info.FullName = full[0]
		}
		infos = append(infos, info)
	}
	return infos
}

// TagInfo is one row of the tag reference.
type TagInfo struct {
	Shortcut    string
	FullName    string
	Description string
	IsDefault   bool
}
