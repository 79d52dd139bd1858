package payroll

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arijentek/hr-backend-go/internal/domain/attendance"
	"github.com/arijentek/hr-backend-go/internal/domain/employee"
	"github.com/arijentek/hr-backend-go/internal/domain/holiday"
	"github.com/arijentek/hr-backend-go/internal/domain/payroll"
)

// June 2025: 30 days, Sundays on 1, 8, 15, 22, 29 => 25 working days.
var june = payroll.Period{Month: 6, Year: 2025}

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func strRef(s string) *string { return &s }

func testEmployee() employee.Employee {
	return employee.Employee{ID: "emp-1", FullName: "Asha Verma", Status: employee.StatusActive}
}

func testRules() payroll.StatutoryRules {
	upTo := func(v int64) *decimal.Decimal {
		d := decimal.NewFromInt(v)
		return &d
	}
	return payroll.StatutoryRules{
		PFRate:         decimal.NewFromFloat(0.12),
		PFWageCeiling:  decimal.NewFromInt(15000),
		ESIRate:        decimal.NewFromFloat(0.0075),
		ESIWageCeiling: decimal.NewFromInt(21000),
		DefaultPTState: "Maharashtra",
		PTSlabs: map[string][]payroll.PTSlab{
			"Maharashtra": {
				{UpTo: upTo(15000), Amount: decimal.Zero},
				{UpTo: upTo(25000), Amount: decimal.NewFromInt(150)},
				{UpTo: nil, Amount: decimal.NewFromInt(200)},
			},
		},
	}
}

func standardComponents() []payroll.SalaryComponent {
	return []payroll.SalaryComponent{
		{Name: "Basic", Abbr: "BASIC", Kind: payroll.ComponentKindEarning, Statutory: payroll.StatutoryNone, Formula: strRef("base * 0.5"), IsActive: true},
		{Name: "House Rent Allowance", Abbr: "HRA", Kind: payroll.ComponentKindEarning, Statutory: payroll.StatutoryNone, Formula: strRef("basic * 0.4"), IsActive: true},
		{Name: "Special Allowance", Abbr: "SA", Kind: payroll.ComponentKindEarning, Statutory: payroll.StatutoryNone, Formula: strRef("base - basic - hra"), IsActive: true},
		{Name: "Professional Tax", Abbr: "PT", Kind: payroll.ComponentKindDeduction, Statutory: payroll.StatutoryProfessionalTax, IsActive: true},
		{Name: "Provident Fund", Abbr: "PF", Kind: payroll.ComponentKindDeduction, Statutory: payroll.StatutoryProvidentFund, IsActive: true},
		{Name: "Employee State Insurance", Abbr: "ESI", Kind: payroll.ComponentKindDeduction, Statutory: payroll.StatutoryESI, IsActive: true},
		{Name: "Income Tax", Abbr: "TDS", Kind: payroll.ComponentKindDeduction, Statutory: payroll.StatutoryTDS, IsActive: true},
	}
}

func testInput(base int64, components []payroll.SalaryComponent) CalculationInput {
	return CalculationInput{
		Employee: testEmployee(),
		Period:   june,
		Assignment: payroll.StructureAssignment{
			ID:         "ssa-1",
			EmployeeID: "emp-1",
			Base:       decimal.NewFromInt(base),
			FromDate:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			Structure: payroll.SalaryStructure{
				ID:         "struct-1",
				Name:       "Standard Salary Structure",
				IsActive:   true,
				Components: components,
			},
		},
		Rules: testRules(),
	}
}

// fullAttendance marks every working day of June present, minus any holidays.
func fullAttendance(holidays ...time.Time) []attendance.AttendanceDay {
	skip := make(map[string]bool)
	for _, h := range holidays {
		skip[h.Format("2006-01-02")] = true
	}

	var days []attendance.AttendanceDay
	for d := june.Start(); !d.After(june.End()); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday || skip[d.Format("2006-01-02")] {
			continue
		}
		days = append(days, attendance.AttendanceDay{
			EmployeeID: "emp-1", Date: d, Status: attendance.DayStatusPresent, WorkedHours: 9,
		})
	}
	return days
}

func setStatus(days []attendance.AttendanceDay, date time.Time, status attendance.DayStatus) []attendance.AttendanceDay {
	for i := range days {
		if days[i].Date.Equal(date) {
			days[i].Status = status
		}
	}
	return days
}

func dropDay(days []attendance.AttendanceDay, date time.Time) []attendance.AttendanceDay {
	out := days[:0]
	for _, d := range days {
		if !d.Date.Equal(date) {
			out = append(out, d)
		}
	}
	return out
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "got %s, want %s", got.String(), want)
}

func assertIdentity(t *testing.T, b payroll.Breakdown) {
	t.Helper()
	assert.True(t, b.PaymentDays.Add(b.LOPDays).Equal(b.TotalWorkingDays),
		"payment %s + lop %s != working days %s", b.PaymentDays, b.LOPDays, b.TotalWorkingDays)
}

func TestCalculate_FullAttendance(t *testing.T) {
	t.Parallel()

	in := testInput(30000, standardComponents())
	in.Days = fullAttendance()

	b, err := Calculate(in)
	require.NoError(t, err)

	assertDec(t, "25", b.TotalWorkingDays)
	assertDec(t, "25", b.PaymentDays)
	assertDec(t, "0", b.LOPDays)
	assertIdentity(t, b)

	basic, ok := b.Earning("BASIC")
	require.True(t, ok)
	assertDec(t, "15000", basic)
	hra, _ := b.Earning("HRA")
	assertDec(t, "6000", hra)
	sa, _ := b.Earning("SA")
	assertDec(t, "9000", sa)

	assertDec(t, "30000", b.Gross)
	assertDec(t, "0", b.LOPAmount)
	assertDec(t, "30000", b.AdjustedGross)

	pt, _ := b.Deduction("PT")
	assertDec(t, "200", pt)
	pf, _ := b.Deduction("PF")
	assertDec(t, "1800", pf)
	_, hasESI := b.Deduction("ESI")
	assert.False(t, hasESI, "ESI must not apply above the wage ceiling")
	_, hasLOP := b.Deduction("LOP")
	assert.False(t, hasLOP)

	assertDec(t, "2000", b.TotalDeductions)
	assertDec(t, "28000", b.Net)
	assert.Empty(t, b.Warnings)
}

func TestCalculate_AbsencesCauseLOP(t *testing.T) {
	t.Parallel()

	in := testInput(30000, standardComponents())
	days := fullAttendance()
	days = setStatus(days, day(3), attendance.DayStatusAbsent)
	days = setStatus(days, day(4), attendance.DayStatusAbsent)
	in.Days = days

	b, err := Calculate(in)
	require.NoError(t, err)

	assertDec(t, "23", b.PaymentDays)
	assertDec(t, "2", b.LOPDays)
	assertIdentity(t, b)

	// gross stays full, the shortfall lands on the LOP line
	assertDec(t, "30000", b.Gross)
	assertDec(t, "2400", b.LOPAmount) // 30000 / 25 * 2
	assertDec(t, "27600", b.AdjustedGross)

	lop, ok := b.Deduction("LOP")
	require.True(t, ok)
	assertDec(t, "2400", lop)
	pt, _ := b.Deduction("PT")
	assertDec(t, "200", pt)

	assertDec(t, "4400", b.TotalDeductions)
	assertDec(t, "25600", b.Net)
}

func TestCalculate_HalfDayCountsHalf(t *testing.T) {
	t.Parallel()

	in := testInput(30000, standardComponents())
	in.Days = setStatus(fullAttendance(), day(5), attendance.DayStatusHalfDay)

	b, err := Calculate(in)
	require.NoError(t, err)

	assertDec(t, "24.5", b.PaymentDays)
	assertDec(t, "0.5", b.LOPDays)
	assertDec(t, "600", b.LOPAmount) // 30000 / 25 * 0.5
	assertIdentity(t, b)
}

func TestCalculate_MissingWorkingDaysCountAbsent(t *testing.T) {
	t.Parallel()

	in := testInput(30000, standardComponents())
	days := fullAttendance()
	days = dropDay(days, day(10))
	days = dropDay(days, day(11))
	days = dropDay(days, day(12))
	in.Days = days

	b, err := Calculate(in)
	require.NoError(t, err)

	assertDec(t, "22", b.PaymentDays)
	assertDec(t, "3", b.LOPDays)
	assertIdentity(t, b)
}

func TestCalculate_PaidLeaveIsPayable(t *testing.T) {
	t.Parallel()

	in := testInput(30000, standardComponents())
	in.Days = setStatus(fullAttendance(), day(6), attendance.DayStatusOnLeave)

	b, err := Calculate(in)
	require.NoError(t, err)

	assertDec(t, "25", b.PaymentDays)
	assertDec(t, "0", b.LOPDays)
}

func TestCalculate_HolidayReducesWorkingDays(t *testing.T) {
	t.Parallel()

	in := testInput(30000, standardComponents())
	in.Holidays = []holiday.Holiday{{ID: "h-1", Date: day(2), Name: "Founders Day"}}
	in.Days = fullAttendance(day(2))

	b, err := Calculate(in)
	require.NoError(t, err)

	assertDec(t, "24", b.TotalWorkingDays)
	assertDec(t, "24", b.PaymentDays)
	assertDec(t, "0", b.LOPDays)
	assertIdentity(t, b)
}

func TestCalculate_ESIBoundaryInclusive(t *testing.T) {
	t.Parallel()

	in := testInput(21000, standardComponents())
	in.Days = fullAttendance()

	b, err := Calculate(in)
	require.NoError(t, err)

	assertDec(t, "21000", b.AdjustedGross)
	esi, ok := b.Deduction("ESI")
	require.True(t, ok, "ESI applies at exactly the wage ceiling")
	assertDec(t, "157.5", esi) // 0.75% of 21000

	pt, _ := b.Deduction("PT")
	assertDec(t, "150", pt)
	pf, _ := b.Deduction("PF")
	assertDec(t, "1260", pf) // 12% of 10500
}

func TestCalculate_ESIAboveCeilingSkipped(t *testing.T) {
	t.Parallel()

	in := testInput(22000, standardComponents())
	in.Days = fullAttendance()

	b, err := Calculate(in)
	require.NoError(t, err)

	assertDec(t, "22000", b.AdjustedGross)
	_, hasESI := b.Deduction("ESI")
	assert.False(t, hasESI)
}

func TestCalculate_PFWageCeiling(t *testing.T) {
	t.Parallel()

	in := testInput(40000, standardComponents())
	in.Days = fullAttendance()

	b, err := Calculate(in)
	require.NoError(t, err)

	basic, _ := b.Earning("BASIC")
	assertDec(t, "20000", basic)
	pf, _ := b.Deduction("PF")
	assertDec(t, "1800", pf) // capped at 12% of 15000
}

func TestCalculate_PFOptOut(t *testing.T) {
	t.Parallel()

	in := testInput(30000, standardComponents())
	in.Employee.PFOptOut = true
	in.Days = fullAttendance()

	b, err := Calculate(in)
	require.NoError(t, err)

	_, hasPF := b.Deduction("PF")
	assert.False(t, hasPF)
}

func TestCalculate_UnknownStateFallsBackToDefaultSlabs(t *testing.T) {
	t.Parallel()

	in := testInput(30000, standardComponents())
	in.Employee.State = strRef("Delhi")
	in.Days = fullAttendance()

	b, err := Calculate(in)
	require.NoError(t, err)

	pt, ok := b.Deduction("PT")
	require.True(t, ok)
	assertDec(t, "200", pt)
}

func TestCalculate_TDSPassthrough(t *testing.T) {
	t.Parallel()

	in := testInput(30000, standardComponents())
	in.Days = fullAttendance()
	in.TDSAmount = decimal.NewFromInt(2500)

	b, err := Calculate(in)
	require.NoError(t, err)

	tds, ok := b.Deduction("TDS")
	require.True(t, ok)
	assertDec(t, "2500", tds)
}

func TestCalculate_FixedComponentProration(t *testing.T) {
	t.Parallel()

	components := []payroll.SalaryComponent{
		{Name: "Basic", Abbr: "BASIC", Kind: payroll.ComponentKindEarning, Formula: strRef("base * 0.5"), IsActive: true},
		{Name: "Conveyance Allowance", Abbr: "CA", Kind: payroll.ComponentKindEarning, Amount: decimal.NewFromInt(1600), DependsOnPaymentDays: true, IsActive: true},
	}

	in := testInput(30000, components)
	days := fullAttendance()
	for _, d := range []int{3, 4, 5, 6, 7} {
		days = setStatus(days, day(d), attendance.DayStatusAbsent)
	}
	in.Days = days

	b, err := Calculate(in)
	require.NoError(t, err)

	assertDec(t, "20", b.PaymentDays)
	ca, _ := b.Earning("CA")
	assertDec(t, "1280", ca) // 1600 / 25 * 20
	basic, _ := b.Earning("BASIC")
	assertDec(t, "15000", basic) // formulas are not prorated again
}

func TestCalculate_NonProratedFixedComponent(t *testing.T) {
	t.Parallel()

	components := []payroll.SalaryComponent{
		{Name: "Basic", Abbr: "BASIC", Kind: payroll.ComponentKindEarning, Formula: strRef("base * 0.5"), IsActive: true},
		{Name: "Conveyance Allowance", Abbr: "CA", Kind: payroll.ComponentKindEarning, Amount: decimal.NewFromInt(1600), DependsOnPaymentDays: false, IsActive: true},
	}

	in := testInput(30000, components)
	in.Days = setStatus(fullAttendance(), day(3), attendance.DayStatusAbsent)

	b, err := Calculate(in)
	require.NoError(t, err)

	ca, _ := b.Earning("CA")
	assertDec(t, "1600", ca)
}

func TestCalculate_NetFlooredAtZero(t *testing.T) {
	t.Parallel()

	components := []payroll.SalaryComponent{
		{Name: "Basic", Abbr: "BASIC", Kind: payroll.ComponentKindEarning, Formula: strRef("base * 0.5"), IsActive: true},
		{Name: "Loan Recovery", Abbr: "LOAN", Kind: payroll.ComponentKindDeduction, Amount: decimal.NewFromInt(5000), IsActive: true},
	}

	in := testInput(1000, components)
	in.Days = fullAttendance()

	b, err := Calculate(in)
	require.NoError(t, err)

	assertDec(t, "500", b.Gross)
	assertDec(t, "5000", b.TotalDeductions)
	assertDec(t, "0", b.Net)
	require.Len(t, b.Warnings, 1)
	assert.Contains(t, b.Warnings[0], "floored to zero")
}

func TestCalculate_JoiningMidMonth(t *testing.T) {
	t.Parallel()

	in := testInput(30000, standardComponents())
	joined := day(16)
	in.Employee.DateOfJoining = &joined

	// punches only exist from the joining date
	var days []attendance.AttendanceDay
	for _, d := range fullAttendance() {
		if !d.Date.Before(joined) {
			days = append(days, d)
		}
	}
	in.Days = days

	b, err := Calculate(in)
	require.NoError(t, err)

	// June 16-30 has 13 working days; the rest of the month is loss of pay
	assertDec(t, "25", b.TotalWorkingDays)
	assertDec(t, "13", b.PaymentDays)
	assertDec(t, "12", b.LOPDays)
	assertIdentity(t, b)
}

func TestCalculate_OpenDayWarnsAndCountsAbsent(t *testing.T) {
	t.Parallel()

	in := testInput(30000, standardComponents())
	in.Days = setStatus(fullAttendance(), day(9), attendance.DayStatusOpen)

	b, err := Calculate(in)
	require.NoError(t, err)

	assertDec(t, "24", b.PaymentDays)
	assertDec(t, "1", b.LOPDays)
	require.NotEmpty(t, b.Warnings)
	assert.Contains(t, b.Warnings[0], "still open")
}

func TestCalculate_Deterministic(t *testing.T) {
	t.Parallel()

	in := testInput(30000, standardComponents())
	in.Days = setStatus(fullAttendance(), day(3), attendance.DayStatusAbsent)

	first, err := Calculate(in)
	require.NoError(t, err)
	second, err := Calculate(in)
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(first, second), "Calculate must be a pure function of its input")
}

func TestCalculate_ZeroEarningReadableByLaterFormulas(t *testing.T) {
	t.Parallel()

	components := []payroll.SalaryComponent{
		{Name: "Basic", Abbr: "BASIC", Kind: payroll.ComponentKindEarning, Formula: strRef("base * 0.5"), IsActive: true},
		{Name: "Variable Bonus", Abbr: "VB", Kind: payroll.ComponentKindEarning, Amount: decimal.Zero, IsActive: true},
		{Name: "Matched Allowance", Abbr: "MA", Kind: payroll.ComponentKindEarning, Formula: strRef("vb * 2 + 100"), IsActive: true},
	}

	in := testInput(30000, components)
	in.Days = fullAttendance()

	b, err := Calculate(in)
	require.NoError(t, err)

	// the zero bonus reads as 0 downstream but gets no line of its own
	_, hasVB := b.Earning("VB")
	assert.False(t, hasVB)
	ma, ok := b.Earning("MA")
	require.True(t, ok)
	assertDec(t, "100", ma)
	assertDec(t, "15100", b.Gross)
}

func TestCalculate_UnknownVariableInFormula(t *testing.T) {
	t.Parallel()

	components := []payroll.SalaryComponent{
		{Name: "Broken", Abbr: "BRK", Kind: payroll.ComponentKindEarning, Formula: strRef("base * bonus_factor"), IsActive: true},
	}

	in := testInput(30000, components)
	in.Days = fullAttendance()

	_, err := Calculate(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bonus_factor")
}
