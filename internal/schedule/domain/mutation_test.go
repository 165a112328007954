package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeRequest_Validate(t *testing.T) {
	assert.NoError(t, TradeRequest{ScheduleID1: 1, ScheduleID2: 2}.Validate())
	assert.ErrorIs(t, TradeRequest{ScheduleID1: 1}.Validate(), ErrIncompleteSelection)
	assert.ErrorIs(t, TradeRequest{ScheduleID2: 2}.Validate(), ErrIncompleteSelection)
	assert.Error(t, TradeRequest{ScheduleID1: 7, ScheduleID2: 7}.Validate())
}

func TestTradeRequest_Body(t *testing.T) {
	body, err := json.Marshal(TradeRequest{ScheduleID1: 11, ScheduleID2: 22}.Body())
	require.NoError(t, err)
	assert.JSONEq(t, `{"schedule_1_id":11,"schedule_2_id":22}`, string(body))
}

func TestRescheduleRequest_Validate(t *testing.T) {
	valid := RescheduleRequest{ScheduleID: 5, NewDate: "2025-10-20", NewTime: "14:30"}
	assert.NoError(t, valid.Validate())

	assert.ErrorIs(t, RescheduleRequest{ScheduleID: 5, NewDate: "2025-10-20"}.Validate(), ErrIncompleteSelection)
	assert.Error(t, RescheduleRequest{ScheduleID: 5, NewDate: "20/10/2025", NewTime: "14:30"}.Validate())
	assert.Error(t, RescheduleRequest{ScheduleID: 5, NewDate: "2025-10-20", NewTime: "2pm"}.Validate())
}

func TestChangeEmployeeRequest_Validate(t *testing.T) {
	assert.NoError(t, ChangeEmployeeRequest{ScheduleID: 3, NewEmployeeID: "EMP9"}.Validate())
	assert.ErrorIs(t, ChangeEmployeeRequest{ScheduleID: 3}.Validate(), ErrIncompleteSelection)
}

func TestQuickScheduleRequest_Body_DefaultsDuration(t *testing.T) {
	req := QuickScheduleRequest{
		EmployeeID: "EMP1",
		EventID:    42,
		ScheduleAt: time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC),
	}

	body, err := json.Marshal(req.Body())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"employee_id": "EMP1",
		"event_id": 42,
		"schedule_datetime": "2025-10-15T09:00:00",
		"duration_minutes": 120
	}`, string(body))
}

func TestMutationKinds(t *testing.T) {
	assert.Equal(t, MutationTrade, TradeRequest{}.Kind())
	assert.Equal(t, MutationReschedule, RescheduleRequest{}.Kind())
	assert.Equal(t, MutationChangeEmployee, ChangeEmployeeRequest{}.Kind())
	assert.Equal(t, MutationQuickSchedule, QuickScheduleRequest{}.Kind())
}

func TestMutationOutcome_Constructors(t *testing.T) {
	success := SuccessOutcome()
	assert.Equal(t, OutcomeSuccess, success.Kind)

	conflicts := []Conflict{{Type: "stale_target", Message: "Target schedule no longer exists", Severity: SeverityError}}
	conflict := ConflictOutcome(conflicts)
	assert.Equal(t, OutcomeConflict, conflict.Kind)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, "stale_target", conflict.Conflicts[0].Type)

	failure := FailureOutcome("server unavailable")
	assert.Equal(t, OutcomeFailure, failure.Kind)
	assert.Equal(t, "server unavailable", failure.Message)
}
