package model

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/agriview/fertilizer-optimizer/pkg/constants"
)

// validate is stateless after construction and safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateOptimizationRequest checks an optimization request and returns a
// *ValidationError describing the first violation found.
func ValidateOptimizationRequest(req *OptimizationRequest) error {
	if req == nil {
		return NewValidationError("request", "request", "must not be nil")
	}
	if len(req.Fields) == 0 {
		return NewValidationError("request", "fields", "at least one field required")
	}
	if len(req.Products) == 0 {
		return NewValidationError("request", "products", "at least one product required")
	}
	for i := range req.Fields {
		if err := validateStruct(subjectID("field", i, req.Fields[i].ID), &req.Fields[i]); err != nil {
			return err
		}
	}
	for i := range req.Products {
		if err := validateStruct(subjectID("product", i, req.Products[i].ID), &req.Products[i]); err != nil {
			return err
		}
	}
	if err := validateStruct("constraints", &req.Constraints); err != nil {
		return err
	}
	if budget := req.Constraints.Budget; budget != nil {
		if err := validateStruct("budget_constraint", budget); err != nil {
			return err
		}
		if budget.FlexibilityPercent < constants.MinBudgetFlexibilityPercent || budget.FlexibilityPercent > constants.MaxBudgetFlexibilityPercent {
			return NewRangeError("budget_constraint", "FlexibilityPercent", budget.FlexibilityPercent,
				constants.MinBudgetFlexibilityPercent, constants.MaxBudgetFlexibilityPercent)
		}
		// Zero means no utilization target was requested.
		if budget.UtilizationTarget != 0 &&
			(budget.UtilizationTarget < constants.MinUtilizationTarget || budget.UtilizationTarget > constants.MaxUtilizationTarget) {
			return NewRangeError("budget_constraint", "UtilizationTarget", budget.UtilizationTarget,
				constants.MinUtilizationTarget, constants.MaxUtilizationTarget)
		}
	}
	if err := validateStruct("goals", &req.Goals); err != nil {
		return err
	}
	return validateStruct("request", req)
}

// ValidateBudgetRequired checks that the request carries a budget
// constraint, as the multi-objective optimizer requires.
func ValidateBudgetRequired(req *OptimizationRequest) error {
	if req.Constraints.Budget == nil {
		return NewValidationError("budget_constraint", "budget", "required for budget-constrained optimization")
	}
	return nil
}

// ValidateBreakEvenRequest checks a break-even request, including the Monte
// Carlo iteration range when that stage is enabled.
func ValidateBreakEvenRequest(req *BreakEvenRequest) error {
	if req == nil {
		return NewValidationError("request", "request", "must not be nil")
	}
	opt := OptimizationRequest{
		Fields:      req.Fields,
		Products:    req.Products,
		Constraints: req.Constraints,
		Goals:       req.Goals,
		Method:      req.Method,
	}
	if err := ValidateOptimizationRequest(&opt); err != nil {
		return err
	}
	if req.CostOverrides != nil {
		if err := validateStruct("cost_overrides", req.CostOverrides); err != nil {
			return err
		}
	}
	if req.Flags.MonteCarlo && req.Iterations != 0 {
		if req.Iterations < constants.MinMonteCarloIterations || req.Iterations > constants.MaxMonteCarloIterations {
			return NewRangeError("monte_carlo", "iterations",
				float64(req.Iterations), constants.MinMonteCarloIterations, constants.MaxMonteCarloIterations)
		}
	}
	return nil
}

func subjectID(kind string, index int, id string) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("%s[%d]", kind, index)
}

// validateStruct runs struct-tag validation and translates the first
// failure into a *ValidationError carrying the subject id.
func validateStruct(subject string, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewValidationError(subject, "input", err.Error())
	}
	fe := fieldErrs[0]
	return NewValidationError(subject, fe.Field(), tagMessage(fe))
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s (got %v)", fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("must be at least %s (got %v)", fe.Param(), fe.Value())
	case "lt":
		return fmt.Sprintf("must be less than %s (got %v)", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be at most %s (got %v)", fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s] (got %v)", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %s validation (got %v)", fe.Tag(), fe.Value())
	}
}
