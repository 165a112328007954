package forms

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rosterkit/internal/events"
)

// stubField is a concurrency-safe Field for tests.
type stubField struct {
	mu          sync.Mutex
	name        string
	value       string
	invalidMsgs []string
	validCalls  int
	clearCalls  int
	focusCalls  int
}

func newStubField(name, value string) *stubField {
	return &stubField{name: name, value: value}
}

func (s *stubField) Name() string { return s.name }

func (s *stubField) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *stubField) MarkInvalid(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidMsgs = append(s.invalidMsgs, message)
}

func (s *stubField) MarkValid() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validCalls++
}

func (s *stubField) ClearValidation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCalls++
}

func (s *stubField) Focus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focusCalls++
}

func (s *stubField) lastInvalidMsg() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.invalidMsgs) == 0 {
		return ""
	}
	return s.invalidMsgs[len(s.invalidMsgs)-1]
}

func (s *stubField) focused() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focusCalls
}

// recordingAnnouncer captures announcements.
type recordingAnnouncer struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingAnnouncer) Announce(message string, assertive bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func TestForm_RequiredBeforePattern(t *testing.T) {
	form := New(nil)
	field := newStubField("employee_id", "")
	// Pattern declared first; dispatch order still runs required first.
	form.Bind(field,
		Pattern{Expr: regexp.MustCompile(`^EMP\d+$`), Message: "bad format"},
		Required{Message: "employee is required"},
	)

	ok, err := form.ValidateField(context.Background(), "employee_id")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "employee is required", field.lastInvalidMsg())
}

func TestForm_PatternAfterRequiredPasses(t *testing.T) {
	form := New(nil)
	field := newStubField("employee_id", "EMP42")
	form.Bind(field,
		Required{},
		Pattern{Expr: regexp.MustCompile(`^EMP\d+$`), Message: "bad format"},
	)

	ok, err := form.ValidateField(context.Background(), "employee_id")
	require.NoError(t, err)
	assert.True(t, ok)

	state, _ := form.State("employee_id")
	assert.Equal(t, StatusValid, state.Status)
	assert.True(t, state.Touched)
}

func TestForm_OptionalEmptyFieldPasses(t *testing.T) {
	form := New(nil)
	field := newStubField("notes", "")
	form.Bind(field,
		MaxLength{Value: 10},
		Pattern{Expr: regexp.MustCompile(`^[a-z]+$`)},
		Email{},
	)

	ok, err := form.ValidateField(context.Background(), "notes")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestForm_FormatAndRangeRules(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
		value string
		valid bool
	}{
		{"email ok", []Rule{Email{}}, "ops@example.com", true},
		{"email bad", []Rule{Email{}}, "not-an-email", false},
		{"date ok", []Rule{Date{}}, "2025-10-15", true},
		{"date bad", []Rule{Date{}}, "15/10/2025", false},
		{"min ok", []Rule{Min{Value: 30}}, "45", true},
		{"min under", []Rule{Min{Value: 30}}, "15", false},
		{"min non-numeric", []Rule{Min{Value: 30}}, "abc", false},
		{"max over", []Rule{Max{Value: 480}}, "600", false},
		{"minlength short", []Rule{MinLength{Value: 3}}, "ab", false},
		{"maxlength long", []Rule{MaxLength{Value: 3}}, "abcd", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := New(nil)
			field := newStubField("f", tt.value)
			form.Bind(field, tt.rules...)

			ok, err := form.ValidateField(context.Background(), "f")
			require.NoError(t, err)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestForm_MatchesCrossField(t *testing.T) {
	form := New(nil)
	first := newStubField("start_time", "09:00")
	second := newStubField("confirm_time", "10:00")
	form.Bind(first)
	form.Bind(second, Matches{Field: "start_time", Message: "times differ"})

	ok, err := form.ValidateField(context.Background(), "confirm_time")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "times differ", second.lastInvalidMsg())

	second.value = "09:00"
	ok, err = form.ValidateField(context.Background(), "confirm_time")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestForm_CustomPredicate(t *testing.T) {
	form := New(nil)
	field := newStubField("slot", "taken")
	form.Bind(field, Custom{
		Fn:      func(v string) bool { return v != "taken" },
		Message: "slot unavailable",
	})

	ok, err := form.ValidateField(context.Background(), "slot")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "slot unavailable", field.lastInvalidMsg())
}

func TestForm_AsyncRuleMarksPending(t *testing.T) {
	form := New(nil)
	field := newStubField("employee_id", "EMP1")

	var statusDuringAsync FieldStatus
	form.Bind(field, Async{
		Fn: func(ctx context.Context, v string) (bool, error) {
			state, _ := form.State("employee_id")
			statusDuringAsync = state.Status
			return true, nil
		},
	})

	ok, err := form.ValidateField(context.Background(), "employee_id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, StatusPending, statusDuringAsync)

	state, _ := form.State("employee_id")
	assert.Equal(t, StatusValid, state.Status)
}

func TestForm_AsyncPredicateErrorFailsField(t *testing.T) {
	form := New(nil)
	field := newStubField("employee_id", "EMP1")
	form.Bind(field, Async{
		Fn: func(ctx context.Context, v string) (bool, error) {
			return false, errors.New("lookup failed")
		},
		Message: "could not verify employee",
	})

	ok, err := form.ValidateField(context.Background(), "employee_id")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "could not verify employee", field.lastInvalidMsg())
}

func TestForm_InvalidToPendingOnRevalidation(t *testing.T) {
	form := New(nil)
	field := newStubField("employee_id", "")
	form.Bind(field, Required{})

	_, err := form.ValidateField(context.Background(), "employee_id")
	require.NoError(t, err)
	state, _ := form.State("employee_id")
	require.Equal(t, StatusInvalid, state.Status)

	field.value = "EMP1"
	ok, err := form.ValidateField(context.Background(), "employee_id")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestForm_ClearFieldValidationReturnsToPristine(t *testing.T) {
	form := New(nil)
	field := newStubField("employee_id", "")
	form.Bind(field, Required{})

	_, err := form.ValidateField(context.Background(), "employee_id")
	require.NoError(t, err)

	form.ClearFieldValidation("employee_id")

	state, _ := form.State("employee_id")
	assert.Equal(t, StatusPristine, state.Status)
	assert.Empty(t, state.Message)
	assert.False(t, state.Touched)
	assert.Equal(t, 1, field.clearCalls)
}

func TestForm_ValidateFormAnnouncesOnce(t *testing.T) {
	announcer := &recordingAnnouncer{}
	form := New(nil).WithAnnouncer(announcer)

	form.Bind(newStubField("a", ""), Required{})
	form.Bind(newStubField("b", ""), Required{})
	form.Bind(newStubField("c", "fine"), Required{})

	ok := form.ValidateForm(context.Background())
	assert.False(t, ok)

	require.Len(t, announcer.messages, 1)
	assert.Equal(t, "2 validation errors", announcer.messages[0])
}

func TestForm_ValidateFormSuccessAnnouncement(t *testing.T) {
	announcer := &recordingAnnouncer{}
	form := New(nil).WithAnnouncer(announcer)
	form.Bind(newStubField("a", "x"), Required{})

	ok := form.ValidateForm(context.Background())
	assert.True(t, ok)
	require.Len(t, announcer.messages, 1)
	assert.Equal(t, "all fields valid", announcer.messages[0])
}

func TestForm_SubmitFocusesFirstInvalidField(t *testing.T) {
	dispatcher := events.NewDispatcher(nil)
	var signals []string
	dispatcher.Register(events.ConsumerFunc{
		Names: []string{events.SignalFormValidationFailed, events.SignalFormValidationPassed},
		Fn: func(ctx context.Context, sig events.Signal) error {
			signals = append(signals, sig.Name)
			return nil
		},
	})

	form := New(nil).WithDispatcher(dispatcher)
	first := newStubField("a", "")
	second := newStubField("b", "")
	form.Bind(first, Required{})
	form.Bind(second, Required{})

	ok := form.Submit(context.Background())
	assert.False(t, ok)
	assert.Equal(t, 1, first.focused())
	assert.Equal(t, 0, second.focused())
	assert.Equal(t, []string{events.SignalFormValidationFailed}, signals)

	first.value = "x"
	second.value = "y"
	ok = form.Submit(context.Background())
	assert.True(t, ok)
	assert.Equal(t, []string{events.SignalFormValidationFailed, events.SignalFormValidationPassed}, signals)
}

func TestForm_ValidateFieldUnknownName(t *testing.T) {
	form := New(nil)
	_, err := form.ValidateField(context.Background(), "ghost")
	assert.Error(t, err)
}
