package salary

import (
	"testing"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSalaryRequest_CommissionRate(t *testing.T) {
	tests := []struct {
		name    string
		rate    string
		wantErr bool
	}{
		{"zero", "0", false},
		{"upper bound", "100", false},
		{"above 100", "100.01", true},
		{"negative", "-1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := CreateSalaryRequest{
				StaffID:        "5f1d7c2a-8b3e-4c6d-9a0f-2e4b6c8d0a13",
				BaseSalary:     decimal.NewFromInt(150000),
				CommissionRate: decimal.RequireFromString(tt.rate),
				EffectiveDate:  "2025-03-01",
			}
			err := req.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Equal(t, "commission_rate", errs[0].Field)
		})
	}
}
