package dialogs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rosterkit/internal/events"
	"github.com/felixgeelhaar/rosterkit/internal/schedule/domain"
)

// stubSubmitter returns a scripted outcome, optionally blocking until
// released so tests can observe the submitting phase.
type stubSubmitter struct {
	mu      sync.Mutex
	calls   int
	outcome domain.MutationOutcome
	err     error
	block   chan struct{}
}

func (s *stubSubmitter) SubmitMutation(_ context.Context, _ domain.MutationRequest) (domain.MutationOutcome, error) {
	s.mu.Lock()
	s.calls++
	block := s.block
	outcome, err := s.outcome, s.err
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	return outcome, err
}

func (s *stubSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type countingCloser struct{ closes int }

func (c *countingCloser) Close() { c.closes++ }

func staleTargetConflicts() []domain.Conflict {
	return []domain.Conflict{{
		Type:     "stale_target",
		Message:  "Target schedule no longer exists",
		Severity: domain.SeverityError,
	}}
}

func recordingDispatcher(t *testing.T) (*events.Dispatcher, *[]string) {
	t.Helper()
	var names []string
	var mu sync.Mutex
	d := events.NewDispatcher(nil)
	d.Register(events.ConsumerFunc{
		Names: []string{
			events.SignalDialogSubmitted,
			events.SignalDialogConflict,
			events.SignalDialogSucceeded,
			events.SignalViewReload,
		},
		Fn: func(_ context.Context, sig events.Signal) error {
			mu.Lock()
			names = append(names, sig.Name)
			mu.Unlock()
			return nil
		},
	})
	return d, &names
}

func TestProtocol_SuccessClosesDialogAndRequestsReload(t *testing.T) {
	sub := &stubSubmitter{outcome: domain.SuccessOutcome()}
	closer := &countingCloser{}
	dispatcher, names := recordingDispatcher(t)

	dialog := NewTradeDialog(sub, nil)
	dialog.Protocol().WithDispatcher(dispatcher).WithCloser(closer)
	dialog.SelectFirst(101)
	dialog.SelectSecond(202)
	require.True(t, dialog.CanSubmit())

	outcome, err := dialog.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSuccess, outcome.Kind)

	assert.Equal(t, PhaseSuccess, dialog.Protocol().Phase())
	assert.Equal(t, 1, closer.closes)
	assert.Equal(t, []string{
		events.SignalDialogSubmitted,
		events.SignalDialogSucceeded,
		events.SignalViewReload,
	}, *names)

	msg, ok := dialog.Protocol().TakeConfirmation()
	require.True(t, ok)
	assert.Equal(t, "Schedules traded", msg)
	_, ok = dialog.Protocol().TakeConfirmation()
	assert.False(t, ok, "confirmation is transient")
}

func TestProtocol_ConflictPreservesDialogContext(t *testing.T) {
	sub := &stubSubmitter{outcome: domain.ConflictOutcome(staleTargetConflicts())}
	closer := &countingCloser{}

	dialog := NewTradeDialog(sub, nil)
	dialog.Protocol().WithCloser(closer)
	dialog.SelectFirst(101)
	dialog.SelectSecond(202)

	outcome, err := dialog.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeConflict, outcome.Kind)

	// Dialog stays open in editing, selections intact, submit re-enabled.
	assert.Equal(t, 0, closer.closes)
	assert.Equal(t, PhaseEditing, dialog.Protocol().Phase())
	assert.Equal(t, int64(101), dialog.Request().ScheduleID1)
	assert.Equal(t, int64(202), dialog.Request().ScheduleID2)
	assert.True(t, dialog.CanSubmit())

	conflicts := dialog.Protocol().Conflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, "stale_target", conflicts[0].Type)
	assert.Equal(t, "Target schedule no longer exists", conflicts[0].Message)
}

func TestProtocol_NewSelectionClearsConflictDisplay(t *testing.T) {
	sub := &stubSubmitter{outcome: domain.ConflictOutcome(staleTargetConflicts())}

	dialog := NewTradeDialog(sub, nil)
	dialog.SelectFirst(101)
	dialog.SelectSecond(202)
	_, err := dialog.Submit(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, dialog.Protocol().Conflicts())

	dialog.SelectSecond(303)
	assert.Nil(t, dialog.Protocol().Conflicts(), "fresh attempt clears the display")
}

func TestProtocol_TransportErrorKeepsEditingWithMessage(t *testing.T) {
	sub := &stubSubmitter{err: errors.New("connection refused")}

	dialog := NewRescheduleDialog(7, sub, nil)
	dialog.SetDate("2025-10-20")
	dialog.SetTime("14:00")

	outcome, err := dialog.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFailure, outcome.Kind)

	assert.Equal(t, PhaseEditing, dialog.Protocol().Phase())
	assert.Equal(t, "connection refused", dialog.Protocol().ErrorMessage())
	assert.True(t, dialog.CanSubmit())
}

func TestProtocol_IncompleteSelectionNeverReachesNetwork(t *testing.T) {
	sub := &stubSubmitter{outcome: domain.SuccessOutcome()}

	dialog := NewChangeEmployeeDialog(7, sub, nil)
	assert.False(t, dialog.CanSubmit())

	_, err := dialog.Submit(context.Background())
	require.ErrorIs(t, err, domain.ErrIncompleteSelection)
	assert.Equal(t, 0, sub.callCount())
	assert.Equal(t, PhaseEditing, dialog.Protocol().Phase())
}

func TestProtocol_RefusesReentryAndCloseWhileSubmitting(t *testing.T) {
	sub := &stubSubmitter{outcome: domain.SuccessOutcome(), block: make(chan struct{})}

	dialog := NewChangeEmployeeDialog(7, sub, nil)
	dialog.SelectEmployee("EMP2")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = dialog.Submit(context.Background())
	}()

	require.Eventually(t, func() bool {
		return dialog.Protocol().Phase() == PhaseSubmitting
	}, time.Second, time.Millisecond)

	assert.False(t, dialog.Protocol().CloseAllowed())
	assert.False(t, dialog.CanSubmit())
	_, err := dialog.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(sub.block)
	<-done
	assert.Equal(t, 1, sub.callCount())
	assert.True(t, dialog.Protocol().CloseAllowed())
}

func TestProtocol_RejectsSubmitAfterSuccess(t *testing.T) {
	sub := &stubSubmitter{outcome: domain.SuccessOutcome()}

	dialog := NewQuickScheduleDialog(sub, nil)
	dialog.SelectEmployee("EMP1")
	dialog.SelectEvent(42)
	dialog.SetStart(time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC))

	_, err := dialog.Submit(context.Background())
	require.NoError(t, err)

	_, err = dialog.Submit(context.Background())
	assert.ErrorIs(t, err, ErrDialogClosed)
	assert.Equal(t, 1, sub.callCount())
}

func TestProtocol_ConflictEmitsSignal(t *testing.T) {
	sub := &stubSubmitter{outcome: domain.ConflictOutcome(staleTargetConflicts())}
	dispatcher, names := recordingDispatcher(t)

	dialog := NewTradeDialog(sub, nil)
	dialog.Protocol().WithDispatcher(dispatcher)
	dialog.SelectFirst(1)
	dialog.SelectSecond(2)

	_, err := dialog.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		events.SignalDialogSubmitted,
		events.SignalDialogConflict,
	}, *names)
}

func TestQuickScheduleDialog_ValidationRequestMirrorsSelection(t *testing.T) {
	dialog := NewQuickScheduleDialog(&stubSubmitter{}, nil)
	dialog.SelectEmployee("EMP1")
	dialog.SelectEvent(42)
	dialog.SetStart(time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC))
	dialog.SetDuration(120)

	req := dialog.ValidationRequest()
	assert.Equal(t, "EMP1|42|2025-10-15T09:00:00|120", req.Fingerprint())
}
