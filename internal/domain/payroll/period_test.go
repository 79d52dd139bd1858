package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arijentek/hr-backend-go/internal/pkg/validator"
)

func TestPeriod_Validate(t *testing.T) {
	assert.NoError(t, Period{Month: 6, Year: 2025}.Validate())

	err := Period{Month: 13, Year: 1999}.Validate()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 2)
}

func TestPeriod_Bounds(t *testing.T) {
	p := Period{Month: 2, Year: 2024} // leap year

	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), p.Start())
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), p.End())
	assert.Equal(t, 29, p.Days())
	assert.Equal(t, "2024-02", p.String())
}

func TestPeriod_Completed(t *testing.T) {
	p := Period{Month: 6, Year: 2025}

	assert.False(t, p.Completed(time.Date(2025, time.June, 30, 23, 59, 59, 0, time.UTC)))
	assert.True(t, p.Completed(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Completed(time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC)))
}
