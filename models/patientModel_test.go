package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeInMonthsDayCorrection(t *testing.T) {
	patient := Patient{BirthDate: time.Date(2020, time.January, 15, 0, 0, 0, 0, time.Local)}

	at := func(year int, month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	}

	assert.Equal(t, 11, patient.AgeInMonths(at(2021, time.January, 14)))
	assert.Equal(t, 12, patient.AgeInMonths(at(2021, time.January, 15)))
	assert.Equal(t, 12, patient.AgeInMonths(at(2021, time.February, 14)))
	assert.Equal(t, 0, patient.AgeInMonths(at(2020, time.January, 15)))
}

func TestPatientPassword(t *testing.T) {
	var patient Patient
	require.NoError(t, patient.SetPassword("rahasia1"))

	assert.NotEqual(t, "rahasia1", patient.PasswordHash)
	assert.True(t, patient.CheckPassword("rahasia1"))
	assert.False(t, patient.CheckPassword("Rahasia1"))
}
