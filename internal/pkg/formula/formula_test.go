package formula

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vars(pairs map[string]float64) Vars {
	v := make(Vars, len(pairs))
	for k, f := range pairs {
		v[k] = decimal.NewFromFloat(f)
	}
	return v
}

func TestEval_Arithmetic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
		vars Vars
		want string
	}{
		{"literal", "42", nil, "42"},
		{"decimal literal", "0.75", nil, "0.75"},
		{"addition", "1 + 2", nil, "3"},
		{"precedence", "2 + 3 * 4", nil, "14"},
		{"parentheses", "(2 + 3) * 4", nil, "20"},
		{"unary minus", "-5 + 8", nil, "3"},
		{"division", "30000 / 25 * 2", nil, "2400"},
		{"variable", "base * 0.5", vars(map[string]float64{"base": 30000}), "15000"},
		{"case insensitive variable", "BASE * 0.5", vars(map[string]float64{"base": 30000}), "15000"},
		{"chained subtraction", "base - basic - hra", vars(map[string]float64{"base": 30000, "basic": 15000, "hra": 6000}), "9000"},
		{"proration", "base * payment_days / total_working_days", vars(map[string]float64{"base": 25000, "payment_days": 20, "total_working_days": 25}), "20000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.expr, tt.vars)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got.String(), tt.want)
		})
	}
}

func TestEval_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty formula", func(t *testing.T) {
		_, err := Eval("   ", nil)
		assert.ErrorIs(t, err, ErrEmptyFormula)
	})

	t.Run("division by zero", func(t *testing.T) {
		_, err := Eval("1 / 0", nil)
		assert.ErrorIs(t, err, ErrDivisionByZero)
	})

	t.Run("unknown variable", func(t *testing.T) {
		_, err := Eval("base * bonus", vars(map[string]float64{"base": 1000}))
		var unknownErr *UnknownVariableError
		require.ErrorAs(t, err, &unknownErr)
		assert.Equal(t, "bonus", unknownErr.Name)
	})

	t.Run("trailing garbage", func(t *testing.T) {
		_, err := Eval("1 + 2 )", nil)
		assert.Error(t, err)
	})

	t.Run("missing closing parenthesis", func(t *testing.T) {
		_, err := Eval("(1 + 2", nil)
		assert.Error(t, err)
	})

	t.Run("no function calls", func(t *testing.T) {
		_, err := Eval("max(1, 2)", vars(map[string]float64{"max": 1}))
		assert.Error(t, err)
	})

	t.Run("malformed number", func(t *testing.T) {
		_, err := Eval("1.2.3", nil)
		assert.Error(t, err)
	})
}

func TestEval_KeepsPrecision(t *testing.T) {
	t.Parallel()

	// 1/3 of a salary keeps more than float precision until rounded
	got, err := Eval("10000 / 3", nil)
	require.NoError(t, err)
	assert.Equal(t, "3333.33", got.Round(2).String())
}
