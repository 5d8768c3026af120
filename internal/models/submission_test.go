package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestGradeUpdate_Normalize(t *testing.T) {
	testCases := []struct {
		name           string
		upd            GradeUpdate
		expectedStatus *string
	}{
		{
			name:           "grade alone forces graded status",
			upd:            GradeUpdate{Grade: strPtr("A")},
			expectedStatus: strPtr(StatusGraded),
		},
		{
			name:           "feedback alone forces graded status",
			upd:            GradeUpdate{Feedback: strPtr("solid work")},
			expectedStatus: strPtr(StatusGraded),
		},
		{
			name:           "caller-supplied status loses to grade",
			upd:            GradeUpdate{Status: strPtr(StatusPending), Grade: strPtr("B")},
			expectedStatus: strPtr(StatusGraded),
		},
		{
			name:           "status-only update kept as-is",
			upd:            GradeUpdate{Status: strPtr(StatusPending)},
			expectedStatus: strPtr(StatusPending),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.upd.Normalize()
			if assert.NotNil(t, tc.upd.Status) {
				assert.Equal(t, *tc.expectedStatus, *tc.upd.Status)
			}
		})
	}
}

func TestGradeUpdate_IsEmpty(t *testing.T) {
	assert.True(t, (&GradeUpdate{}).IsEmpty())
	assert.False(t, (&GradeUpdate{Grade: strPtr("A")}).IsEmpty())
}

func TestTaskUpdate_IsEmpty(t *testing.T) {
	assert.True(t, (&TaskUpdate{}).IsEmpty())

	locked := true
	assert.False(t, (&TaskUpdate{IsLocked: &locked}).IsEmpty())
	assert.False(t, (&TaskUpdate{Title: strPtr("Lab 1")}).IsEmpty())
}
