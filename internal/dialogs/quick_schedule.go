package dialogs

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/rosterkit/internal/schedule/domain"
)

// QuickScheduleDialog creates a schedule record in one step: pick an
// employee, an event, and a start, then submit. The same selection also
// feeds the validation pipeline while the user is still editing.
type QuickScheduleDialog struct {
	protocol *Protocol

	employeeID      string
	eventID         int64
	scheduleAt      time.Time
	durationMinutes int
}

// NewQuickScheduleDialog creates a quick-schedule dialog.
func NewQuickScheduleDialog(submitter Submitter, logger *slog.Logger) *QuickScheduleDialog {
	return &QuickScheduleDialog{protocol: NewProtocol(domain.MutationQuickSchedule, submitter, logger)}
}

// Protocol exposes the submit lifecycle for wiring and inspection.
func (d *QuickScheduleDialog) Protocol() *Protocol { return d.protocol }

// SelectEmployee picks the employee being scheduled.
func (d *QuickScheduleDialog) SelectEmployee(employeeID string) {
	d.employeeID = employeeID
	d.protocol.NoteSelectionChanged()
}

// SelectEvent picks the event the schedule belongs to.
func (d *QuickScheduleDialog) SelectEvent(eventID int64) {
	d.eventID = eventID
	d.protocol.NoteSelectionChanged()
}

// SetStart picks the schedule start.
func (d *QuickScheduleDialog) SetStart(at time.Time) {
	d.scheduleAt = at
	d.protocol.NoteSelectionChanged()
}

// SetDuration overrides the default slot length in minutes.
func (d *QuickScheduleDialog) SetDuration(minutes int) {
	d.durationMinutes = minutes
	d.protocol.NoteSelectionChanged()
}

// Request assembles the proposed assignment from the current selection.
func (d *QuickScheduleDialog) Request() domain.QuickScheduleRequest {
	return domain.QuickScheduleRequest{
		EmployeeID:      d.employeeID,
		EventID:         d.eventID,
		ScheduleAt:      d.scheduleAt,
		DurationMinutes: d.durationMinutes,
	}
}

// ValidationRequest maps the current selection onto the validation pipeline
// so the dialog can surface conflicts before the user submits.
func (d *QuickScheduleDialog) ValidationRequest() domain.ValidationRequest {
	return domain.ValidationRequest{
		EmployeeID:      d.employeeID,
		EventID:         d.eventID,
		ScheduleAt:      d.scheduleAt,
		DurationMinutes: d.durationMinutes,
	}
}

// CanSubmit reports whether the selection is complete and no submission is
// in flight.
func (d *QuickScheduleDialog) CanSubmit() bool {
	return d.Request().Validate() == nil && d.protocol.Phase() == PhaseEditing
}

// Submit sends the assignment.
func (d *QuickScheduleDialog) Submit(ctx context.Context) (domain.MutationOutcome, error) {
	return d.protocol.Submit(ctx, d.Request())
}
