package dialogs

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/rosterkit/internal/schedule/domain"
)

// TradeDialog swaps two schedule records between employees. The user picks
// both sides of the trade; submit stays disabled until the pair is complete
// and distinct.
type TradeDialog struct {
	protocol *Protocol

	scheduleID1 int64
	scheduleID2 int64
}

// NewTradeDialog creates a trade dialog backed by the given submitter.
func NewTradeDialog(submitter Submitter, logger *slog.Logger) *TradeDialog {
	return &TradeDialog{protocol: NewProtocol(domain.MutationTrade, submitter, logger)}
}

// Protocol exposes the submit lifecycle for wiring and inspection.
func (d *TradeDialog) Protocol() *Protocol { return d.protocol }

// SelectFirst picks the schedule offered up for trade.
func (d *TradeDialog) SelectFirst(scheduleID int64) {
	d.scheduleID1 = scheduleID
	d.protocol.NoteSelectionChanged()
}

// SelectSecond picks the schedule requested in return.
func (d *TradeDialog) SelectSecond(scheduleID int64) {
	d.scheduleID2 = scheduleID
	d.protocol.NoteSelectionChanged()
}

// Request assembles the proposed trade from the current selection.
func (d *TradeDialog) Request() domain.TradeRequest {
	return domain.TradeRequest{ScheduleID1: d.scheduleID1, ScheduleID2: d.scheduleID2}
}

// CanSubmit reports whether the selection is complete and no submission is
// in flight.
func (d *TradeDialog) CanSubmit() bool {
	return d.Request().Validate() == nil && d.protocol.Phase() == PhaseEditing
}

// Submit sends the trade.
func (d *TradeDialog) Submit(ctx context.Context) (domain.MutationOutcome, error) {
	return d.protocol.Submit(ctx, d.Request())
}
