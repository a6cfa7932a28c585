package usecase

import (
	"fmt"
	"math"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/internal/model"
)

// percentTolerance absorbs float noise when checking that installment
// percentages sum to 100.
const percentTolerance = 0.01

// ValidateInstallments reports whether the percentages are all non-negative
// and sum to 100 within tolerance.
func ValidateInstallments(installments []model.InstallmentInput) bool {
	if len(installments) == 0 {
		return false
	}
	var sum float64
	for _, inst := range installments {
		if inst.Percentage < 0 {
			return false
		}
		sum += inst.Percentage
	}
	return math.Abs(sum-100) <= percentTolerance
}

// BuildPaymentPlan materializes concrete installment amounts for a total.
// Each installment is rounded to 2 decimal places independently, so the sum of
// amounts may drift from the total by less than a cent per installment; that
// slop is accepted rather than corrected by remainder absorption.
func BuildPaymentPlan(total float64, currency string, installments []model.InstallmentInput) (*entity.PaymentPlan, error) {
	if !ValidateInstallments(installments) {
		return nil, fmt.Errorf("installment percentages must be non-negative and sum to 100")
	}

	plan := &entity.PaymentPlan{
		TotalAmount: total,
		Currency:    currency,
	}
	for i, inst := range installments {
		plan.Installments = append(plan.Installments, entity.Installment{
			InstallmentNumber: i + 1,
			Percentage:        inst.Percentage,
			Amount:            roundHalfUp(total * inst.Percentage / 100),
			Status:            entity.InstallmentPending,
			Description:       inst.Description,
		})
	}
	return plan, nil
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// Named presets offered to admins; a fully custom list goes through the same
// builder.

func PresetTwentyEighty() []model.InstallmentInput {
	return []model.InstallmentInput{
		{Percentage: 20, Description: "Entrada"},
		{Percentage: 80, Description: "Pagamento final"},
	}
}

func PresetTwentyThirtyFifty() []model.InstallmentInput {
	return []model.InstallmentInput{
		{Percentage: 20, Description: "Entrada"},
		{Percentage: 30, Description: "Parcela intermediária"},
		{Percentage: 50, Description: "Pagamento final"},
	}
}

func PresetQuarterSplit() []model.InstallmentInput {
	return []model.InstallmentInput{
		{Percentage: 25, Description: "Parcela 1"},
		{Percentage: 25, Description: "Parcela 2"},
		{Percentage: 25, Description: "Parcela 3"},
		{Percentage: 25, Description: "Parcela 4"},
	}
}
