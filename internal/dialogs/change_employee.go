package dialogs

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/rosterkit/internal/schedule/domain"
)

// ChangeEmployeeDialog reassigns an existing schedule record to another
// employee.
type ChangeEmployeeDialog struct {
	protocol *Protocol

	scheduleID    int64
	newEmployeeID string
}

// NewChangeEmployeeDialog creates a reassignment dialog for the given
// schedule.
func NewChangeEmployeeDialog(scheduleID int64, submitter Submitter, logger *slog.Logger) *ChangeEmployeeDialog {
	return &ChangeEmployeeDialog{
		protocol:   NewProtocol(domain.MutationChangeEmployee, submitter, logger),
		scheduleID: scheduleID,
	}
}

// Protocol exposes the submit lifecycle for wiring and inspection.
func (d *ChangeEmployeeDialog) Protocol() *Protocol { return d.protocol }

// SelectEmployee picks the replacement employee.
func (d *ChangeEmployeeDialog) SelectEmployee(employeeID string) {
	d.newEmployeeID = employeeID
	d.protocol.NoteSelectionChanged()
}

// Request assembles the proposed reassignment from the current selection.
func (d *ChangeEmployeeDialog) Request() domain.ChangeEmployeeRequest {
	return domain.ChangeEmployeeRequest{ScheduleID: d.scheduleID, NewEmployeeID: d.newEmployeeID}
}

// CanSubmit reports whether the selection is complete and no submission is
// in flight.
func (d *ChangeEmployeeDialog) CanSubmit() bool {
	return d.Request().Validate() == nil && d.protocol.Phase() == PhaseEditing
}

// Submit sends the reassignment.
func (d *ChangeEmployeeDialog) Submit(ctx context.Context) (domain.MutationOutcome, error) {
	return d.protocol.Submit(ctx, d.Request())
}
