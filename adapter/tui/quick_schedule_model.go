package tui

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/rosterkit/internal/dialogs"
	"github.com/felixgeelhaar/rosterkit/internal/forms"
	"github.com/felixgeelhaar/rosterkit/internal/modal"
	"github.com/felixgeelhaar/rosterkit/internal/schedule/domain"
	"github.com/felixgeelhaar/rosterkit/internal/validation"
)

var (
	eventIDPattern   = regexp.MustCompile(`^\d+$`)
	startTimePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4D96FF")).
			Padding(0, 1)
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

type submitDoneMsg struct {
	outcome domain.MutationOutcome
	err     error
}

type validationUpdateMsg struct {
	update domain.ValidationUpdate
}

// QuickScheduleModel is the terminal quick-schedule dialog: a modal form
// that validates the proposed assignment as the user types and submits it
// through the mutation protocol on confirm.
type QuickScheduleModel struct {
	logger *slog.Logger

	employee *FieldAdapter
	event    *FieldAdapter
	date     *FieldAdapter
	start    *FieldAdapter
	submit   *Button

	surface *SurfaceAdapter
	manager *modal.Manager
	form    *forms.Form
	dialog  *dialogs.QuickScheduleDialog

	validator *validation.Client
	updates   chan domain.ValidationUpdate
	status    string

	width  int
	height int
}

// NewQuickScheduleModel wires the dialog against a mutation submitter and
// an optional validation client.
func NewQuickScheduleModel(submitter dialogs.Submitter, validator *validation.Client, logger *slog.Logger) *QuickScheduleModel {
	if logger == nil {
		logger = slog.Default()
	}

	m := &QuickScheduleModel{
		logger:    logger,
		employee:  NewField("employee_id", "Employee", "EMP1"),
		event:     NewField("event_id", "Event", "42"),
		date:      NewField("date", "Date", "2025-10-15"),
		start:     NewField("time", "Time", "09:00"),
		submit:    NewButton("submit", "Schedule"),
		validator: validator,
		updates:   make(chan domain.ValidationUpdate, 8),
	}

	m.form = forms.New(logger).WithAnnouncer(forms.LogAnnouncer{Logger: logger})
	m.form.Bind(m.employee, forms.Required{})
	m.form.Bind(m.event, forms.Required{}, forms.Pattern{Expr: eventIDPattern, Message: "event must be numeric"})
	m.form.Bind(m.date, forms.Required{}, forms.Date{})
	m.form.Bind(m.start, forms.Required{}, forms.Pattern{Expr: startTimePattern, Message: "time must be HH:MM"})

	m.surface = NewSurface(m.employee, m.event, m.date, m.start, m.submit)
	m.manager = modal.NewManager(m.surface, logger)
	m.dialog = dialogs.NewQuickScheduleDialog(submitter, logger)
	m.dialog.Protocol().WithCloser(m.manager)

	return m
}

// Init opens the modal and starts the cursor blink.
func (m *QuickScheduleModel) Init() tea.Cmd {
	m.manager.Open(m.surface, modal.Options{
		OnCloseRequest: func(modal.CloseReason) bool {
			return m.dialog.Protocol().CloseAllowed()
		},
	})
	return tea.Batch(textinput.Blink, m.waitForValidation())
}

// Update routes keys through the focus trap and everything else to the
// focused input.
func (m *QuickScheduleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.manager.HandleKey(modal.KeyTab)
			return m, nil
		case "shift+tab":
			m.manager.HandleKey(modal.KeyShiftTab)
			return m, nil
		case "esc":
			if m.manager.HandleKey(modal.KeyEscape) {
				return m, tea.Quit
			}
			return m, nil
		case "enter":
			if m.submit.Focused() && !m.submit.Disabled() {
				return m, m.submitCmd()
			}
			return m, nil
		}
		cmd := m.updateFocusedField(msg)
		return m, tea.Batch(cmd, m.revalidateCmd())

	case submitDoneMsg:
		m.submit.SetDisabled(false)
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		if msg.outcome.Kind == domain.OutcomeSuccess {
			return m, m.clearCacheCmd()
		}
		return m, nil

	case validationUpdateMsg:
		m.applyValidationUpdate(msg.update)
		return m, m.waitForValidation()
	}

	return m, nil
}

// View renders the modal frame with fields, validation status, and any
// conflict set from the last rejected submission.
func (m *QuickScheduleModel) View() string {
	if !m.manager.IsOpen() {
		if msg, ok := m.dialog.Protocol().TakeConfirmation(); ok {
			m.status = msg
		}
		return validStyle.Render(m.status) + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quick Schedule"))
	b.WriteString("\n\n")
	for _, field := range []*FieldAdapter{m.employee, m.event, m.date, m.start} {
		b.WriteString(field.View())
		b.WriteString("\n\n")
	}

	for _, conflict := range m.dialog.Protocol().Conflicts() {
		line := conflict.Message
		if conflict.Detail != "" {
			line += " (" + conflict.Detail + ")"
		}
		b.WriteString(errorStyle.Render(line))
		b.WriteString("\n")
	}
	if msg := m.dialog.Protocol().ErrorMessage(); msg != "" {
		b.WriteString(errorStyle.Render(msg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.submit.View())
	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status))
	}

	return frameStyle.Render(b.String()) + "\n"
}

func (m *QuickScheduleModel) updateFocusedField(msg tea.Msg) tea.Cmd {
	for _, field := range []*FieldAdapter{m.employee, m.event, m.date, m.start} {
		if field.Focused() {
			return field.Update(msg)
		}
	}
	return nil
}

// revalidateCmd pushes the current selection through the validation client.
// Debouncing and caching happen inside the client; the callback stream is
// bridged back into the update loop through the updates channel.
func (m *QuickScheduleModel) revalidateCmd() tea.Cmd {
	if m.validator == nil {
		return nil
	}
	m.syncSelection()
	req := m.dialog.ValidationRequest()
	if req.Validate() != nil {
		return nil
	}
	m.validator.Validate(context.Background(), req, func(update domain.ValidationUpdate) {
		m.updates <- update
	})
	return nil
}

func (m *QuickScheduleModel) waitForValidation() tea.Cmd {
	return func() tea.Msg {
		return validationUpdateMsg{update: <-m.updates}
	}
}

func (m *QuickScheduleModel) applyValidationUpdate(update domain.ValidationUpdate) {
	switch update.Kind {
	case domain.UpdateLoading:
		m.status = "checking availability..."
	case domain.UpdateFailed:
		m.status = "validation unavailable: " + update.Err.Error()
	case domain.UpdateCompleted:
		if update.Result.MaySubmit() {
			m.status = "slot available"
		} else {
			m.status = "slot has conflicts"
		}
	}
}

func (m *QuickScheduleModel) syncSelection() {
	m.dialog.SelectEmployee(m.employee.Value())
	if id, err := strconv.ParseInt(m.event.Value(), 10, 64); err == nil {
		m.dialog.SelectEvent(id)
	}
	if at, err := time.Parse("2006-01-02 15:04", m.date.Value()+" "+m.start.Value()); err == nil {
		m.dialog.SetStart(at)
	}
}

func (m *QuickScheduleModel) submitCmd() tea.Cmd {
	ctx := context.Background()
	if !m.form.Submit(ctx) {
		return nil
	}
	m.syncSelection()
	if !m.dialog.CanSubmit() {
		return nil
	}
	m.submit.SetDisabled(true)
	return func() tea.Msg {
		outcome, err := m.dialog.Submit(ctx)
		return submitDoneMsg{outcome: outcome, err: err}
	}
}

// clearCacheCmd invalidates cached validations once a mutation landed, so a
// reopened dialog re-checks the same fingerprint.
func (m *QuickScheduleModel) clearCacheCmd() tea.Cmd {
	if m.validator == nil {
		return nil
	}
	return func() tea.Msg {
		if err := m.validator.ClearCache(context.Background()); err != nil {
			m.logger.Warn("cache invalidation failed", slog.String("error", err.Error()))
		}
		return nil
	}
}

var _ tea.Model = (*QuickScheduleModel)(nil)
