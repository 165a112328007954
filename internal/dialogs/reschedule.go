package dialogs

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/rosterkit/internal/schedule/domain"
)

// RescheduleDialog moves an existing schedule record to a new date and time.
type RescheduleDialog struct {
	protocol *Protocol

	scheduleID int64
	newDate    string
	newTime    string
}

// NewRescheduleDialog creates a reschedule dialog for the given schedule.
func NewRescheduleDialog(scheduleID int64, submitter Submitter, logger *slog.Logger) *RescheduleDialog {
	return &RescheduleDialog{
		protocol:   NewProtocol(domain.MutationReschedule, submitter, logger),
		scheduleID: scheduleID,
	}
}

// Protocol exposes the submit lifecycle for wiring and inspection.
func (d *RescheduleDialog) Protocol() *Protocol { return d.protocol }

// SetDate picks the target date, YYYY-MM-DD.
func (d *RescheduleDialog) SetDate(date string) {
	d.newDate = date
	d.protocol.NoteSelectionChanged()
}

// SetTime picks the target time, HH:MM.
func (d *RescheduleDialog) SetTime(t string) {
	d.newTime = t
	d.protocol.NoteSelectionChanged()
}

// Request assembles the proposed move from the current selection.
func (d *RescheduleDialog) Request() domain.RescheduleRequest {
	return domain.RescheduleRequest{ScheduleID: d.scheduleID, NewDate: d.newDate, NewTime: d.newTime}
}

// CanSubmit reports whether the selection is complete and no submission is
// in flight.
func (d *RescheduleDialog) CanSubmit() bool {
	return d.Request().Validate() == nil && d.protocol.Phase() == PhaseEditing
}

// Submit sends the move.
func (d *RescheduleDialog) Submit(ctx context.Context) (domain.MutationOutcome, error) {
	return d.protocol.Submit(ctx, d.Request())
}
