package payroll

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arijentek/hr-backend-go/internal/domain/attendance"
	"github.com/arijentek/hr-backend-go/internal/domain/employee"
	"github.com/arijentek/hr-backend-go/internal/domain/holiday"
	"github.com/arijentek/hr-backend-go/internal/domain/payroll"
	"github.com/arijentek/hr-backend-go/internal/pkg/formula"
)

// CalculationInput carries everything Calculate needs, loaded up front by the
// service layer. Calculate itself performs no I/O.
type CalculationInput struct {
	Employee   employee.Employee
	Period     payroll.Period
	Assignment payroll.StructureAssignment
	Days       []attendance.AttendanceDay
	Holidays   []holiday.Holiday
	Rules      payroll.StatutoryRules
	TDSAmount  decimal.Decimal
}

// Calculate derives the full payslip breakdown for one employee and period.
// It is deterministic: preview and generation call it with the same inputs
// and get the same result.
//
// Working days exclude Sundays and holidays. Payable value per working day:
// present 1, half day 0.5, paid leave 1, absent 0; days with no record and
// days outside the employee's active window count 0. Loss of pay is the gap
// between working days and payment days, so payment_days + lop_days equals
// total_working_days exactly.
func Calculate(in CalculationInput) (payroll.Breakdown, error) {
	holidaySet := make(map[string]bool, len(in.Holidays))
	for _, h := range in.Holidays {
		holidaySet[h.Date.Format("2006-01-02")] = true
	}

	dayByDate := make(map[string]attendance.AttendanceDay, len(in.Days))
	for _, d := range in.Days {
		dayByDate[d.Date.Format("2006-01-02")] = d
	}

	start := in.Period.Start()
	end := in.Period.End()

	totalWorkingDays := decimal.Zero
	paymentDays := decimal.Zero
	var warnings []string

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		if d.Weekday() == time.Sunday || holidaySet[key] {
			continue
		}
		totalWorkingDays = totalWorkingDays.Add(decimal.NewFromInt(1))

		if !activeOn(in.Employee, d) {
			continue
		}

		day, ok := dayByDate[key]
		if !ok {
			continue // no record on a working day counts absent
		}
		switch day.Status {
		case attendance.DayStatusPresent, attendance.DayStatusOnLeave:
			paymentDays = paymentDays.Add(decimal.NewFromInt(1))
		case attendance.DayStatusHalfDay:
			paymentDays = paymentDays.Add(decimal.NewFromFloat(0.5))
		case attendance.DayStatusOpen:
			warnings = append(warnings, fmt.Sprintf("attendance for %s is still open, counted as absent", key))
		}
	}

	lopDays := totalWorkingDays.Sub(paymentDays)

	vars := formula.Vars{
		"base":               in.Assignment.Base,
		"payment_days":       paymentDays,
		"total_working_days": totalWorkingDays,
		"lop_days":           lopDays,
	}

	// Earnings in declared order. Each evaluated line is rounded and then
	// visible to later formulas under its abbr.
	var earnings []payroll.BreakdownLine
	gross := decimal.Zero
	for _, c := range in.Assignment.Structure.Components {
		if c.Kind != payroll.ComponentKindEarning || !c.IsActive {
			continue
		}

		amount, err := componentAmount(c, vars, paymentDays, totalWorkingDays)
		if err != nil {
			return payroll.Breakdown{}, fmt.Errorf("component %s: %w", c.Name, err)
		}

		// a zero component gets no breakdown line but must still read as 0
		// in later formulas
		vars[strings.ToLower(c.Abbr)] = amount
		if amount.IsZero() {
			continue
		}

		earnings = append(earnings, payroll.BreakdownLine{Name: c.Name, Abbr: c.Abbr, Amount: amount})
		gross = gross.Add(amount)
	}

	lopAmount := decimal.Zero
	if totalWorkingDays.IsPositive() && lopDays.IsPositive() {
		lopAmount = gross.Div(totalWorkingDays).Mul(lopDays).Round(2)
	}
	adjustedGross := gross.Sub(lopAmount)
	vars["gross_pay"] = adjustedGross

	var deductions []payroll.BreakdownLine
	if lopAmount.IsPositive() {
		deductions = append(deductions, payroll.BreakdownLine{Name: "Loss of Pay", Abbr: "LOP", Amount: lopAmount})
	}

	for _, c := range in.Assignment.Structure.Components {
		if c.Kind != payroll.ComponentKindDeduction || !c.IsActive {
			continue
		}

		var amount decimal.Decimal
		var err error
		switch c.Statutory {
		case payroll.StatutoryProfessionalTax:
			amount = professionalTax(adjustedGross, in.Employee, in.Rules)
		case payroll.StatutoryProvidentFund:
			amount = providentFund(earnings, in.Employee, in.Rules)
		case payroll.StatutoryESI:
			amount = esi(adjustedGross, in.Rules)
		case payroll.StatutoryTDS:
			amount = in.TDSAmount.Round(2)
		default:
			amount, err = componentAmount(c, vars, paymentDays, totalWorkingDays)
			if err != nil {
				return payroll.Breakdown{}, fmt.Errorf("component %s: %w", c.Name, err)
			}
		}
		if amount.IsZero() {
			continue
		}

		deductions = append(deductions, payroll.BreakdownLine{Name: c.Name, Abbr: c.Abbr, Amount: amount})
	}

	totalDeductions := decimal.Zero
	for _, d := range deductions {
		totalDeductions = totalDeductions.Add(d.Amount)
	}

	net := gross.Sub(totalDeductions)
	if net.IsNegative() {
		warnings = append(warnings, fmt.Sprintf("deductions exceed gross by %s, net pay floored to zero", net.Neg().StringFixed(2)))
		net = decimal.Zero
	}

	return payroll.Breakdown{
		EmployeeID:       in.Employee.ID,
		PeriodMonth:      in.Period.Month,
		PeriodYear:       in.Period.Year,
		TotalWorkingDays: totalWorkingDays,
		PaymentDays:      paymentDays,
		LOPDays:          lopDays,
		Earnings:         earnings,
		Deductions:       deductions,
		Gross:            gross,
		LOPAmount:        lopAmount,
		AdjustedGross:    adjustedGross,
		TotalDeductions:  totalDeductions,
		Net:              net,
		Warnings:         warnings,
	}, nil
}

// componentAmount resolves one non-statutory component. Formula components
// are evaluated as written: they already see payment_days, so they are never
// prorated again. Fixed amounts are prorated by payment days unless the
// component opts out.
func componentAmount(c payroll.SalaryComponent, vars formula.Vars, paymentDays, totalWorkingDays decimal.Decimal) (decimal.Decimal, error) {
	if c.Formula != nil && *c.Formula != "" {
		amount, err := formula.Eval(*c.Formula, vars)
		if err != nil {
			return decimal.Zero, err
		}
		return amount.Round(2), nil
	}

	amount := c.Amount
	if c.DependsOnPaymentDays && totalWorkingDays.IsPositive() {
		amount = amount.Div(totalWorkingDays).Mul(paymentDays)
	}
	return amount.Round(2), nil
}

func activeOn(emp employee.Employee, d time.Time) bool {
	if emp.DateOfJoining != nil && d.Before(*emp.DateOfJoining) {
		return false
	}
	if emp.RelievingDate != nil && d.After(*emp.RelievingDate) {
		return false
	}
	return true
}

// professionalTax looks up the flat slab amount for the employee's state on
// the LOP-adjusted gross. Unknown states fall back to the default state table.
func professionalTax(adjustedGross decimal.Decimal, emp employee.Employee, rules payroll.StatutoryRules) decimal.Decimal {
	state := rules.DefaultPTState
	if emp.State != nil && *emp.State != "" {
		state = *emp.State
	}
	slabs, ok := rules.PTSlabs[state]
	if !ok {
		slabs = rules.PTSlabs[rules.DefaultPTState]
	}

	for _, slab := range slabs {
		if slab.UpTo == nil || adjustedGross.LessThanOrEqual(*slab.UpTo) {
			return slab.Amount.Round(2)
		}
	}
	return decimal.Zero
}

// providentFund is the employee contribution: PFRate of the Basic earning,
// with the PF base capped at the wage ceiling. Opted-out employees pay none.
func providentFund(earnings []payroll.BreakdownLine, emp employee.Employee, rules payroll.StatutoryRules) decimal.Decimal {
	if emp.PFOptOut {
		return decimal.Zero
	}

	basic := decimal.Zero
	for _, e := range earnings {
		if strings.EqualFold(e.Abbr, "basic") {
			basic = e.Amount
			break
		}
	}
	if !basic.IsPositive() {
		return decimal.Zero
	}

	if basic.GreaterThan(rules.PFWageCeiling) {
		basic = rules.PFWageCeiling
	}
	return basic.Mul(rules.PFRate).Round(2)
}

// esi applies only while the LOP-adjusted gross is within the wage ceiling,
// boundary inclusive.
func esi(adjustedGross decimal.Decimal, rules payroll.StatutoryRules) decimal.Decimal {
	if !adjustedGross.IsPositive() || adjustedGross.GreaterThan(rules.ESIWageCeiling) {
		return decimal.Zero
	}
	return adjustedGross.Mul(rules.ESIRate).Round(2)
}
