// Package api contains the API contract definitions for the financial data
// normalization service. Version v1 is the current stable API version.
package api

import (
	"finsight/internal/normalize"
	"finsight/internal/services"
)

// ColumnMappingRequest maps logical roles to source column names.
type ColumnMappingRequest struct {
	DateColumn     string `json:"date_column,omitempty"`
	AmountColumn   string `json:"amount_column,omitempty"`
	CategoryColumn string `json:"category_column,omitempty"`
	ConceptColumn  string `json:"concept_column,omitempty"`
	DebitColumn    string `json:"debit_column,omitempty"`
	CreditColumn   string `json:"credit_column,omitempty"`
	BudgetColumn   string `json:"budget_column,omitempty"`
	ActualColumn   string `json:"actual_column,omitempty"`
}

// RulesRequest toggles pipeline stages. Nil booleans take the documented
// defaults: detection and empty-row/column pruning on, transforms off.
type RulesRequest struct {
	Unpivot            bool     `json:"unpivot"`
	UnpivotYearColumns []string `json:"unpivot_year_columns,omitempty"`
	DebitCreditMerge   bool     `json:"debit_credit_merge"`
	InvertNegatives    bool     `json:"invert_negatives"`
	AutoDetectFormat   *bool    `json:"auto_detect_format,omitempty"`
	DropEmptyRows      *bool    `json:"drop_empty_rows,omitempty"`
	DropEmptyColumns   *bool    `json:"drop_empty_columns,omitempty"`
}

// NormalizeRequest is the body of POST /api/normalize.
type NormalizeRequest struct {
	Data    any                   `json:"data" validate:"required"`
	Mapping *ColumnMappingRequest `json:"mapping,omitempty"`
	Rules   *RulesRequest         `json:"rules,omitempty"`
}

// ToMapping converts the request mapping to the engine's configuration.
func (r *NormalizeRequest) ToMapping() normalize.ColumnMapping {
	if r.Mapping == nil {
		return normalize.ColumnMapping{}
	}
	return normalize.ColumnMapping{
		Date:     r.Mapping.DateColumn,
		Amount:   r.Mapping.AmountColumn,
		Category: r.Mapping.CategoryColumn,
		Concept:  r.Mapping.ConceptColumn,
		Debit:    r.Mapping.DebitColumn,
		Credit:   r.Mapping.CreditColumn,
		Budget:   r.Mapping.BudgetColumn,
		Actual:   r.Mapping.ActualColumn,
	}
}

// ToRules converts the request rules to the engine's configuration, applying
// defaults for unset booleans.
func (r *NormalizeRequest) ToRules() normalize.Rules {
	rules := normalize.DefaultRules()
	if r.Rules == nil {
		return rules
	}
	rules.Unpivot = r.Rules.Unpivot
	rules.UnpivotYearColumns = r.Rules.UnpivotYearColumns
	rules.DebitCreditMerge = r.Rules.DebitCreditMerge
	rules.InvertNegatives = r.Rules.InvertNegatives
	if r.Rules.AutoDetectFormat != nil {
		rules.AutoDetectFormat = *r.Rules.AutoDetectFormat
	}
	if r.Rules.DropEmptyRows != nil {
		rules.DropEmptyRows = *r.Rules.DropEmptyRows
	}
	if r.Rules.DropEmptyColumns != nil {
		rules.DropEmptyColumns = *r.Rules.DropEmptyColumns
	}
	return rules
}

// AnalysisParamsRequest carries optional analysis parameters.
type AnalysisParamsRequest struct {
	InitialBalance float64 `json:"initial_balance"`
}

// AnalysisRequest is the body of POST /api/analyses.
type AnalysisRequest struct {
	AnalysisType string                `json:"analysis_type" validate:"required,oneof=yearly_summary monthly_summary budget_variance cash_flow all"`
	Params       AnalysisParamsRequest `json:"params"`
}

// ToParams converts the request parameters to the service's configuration.
func (r *AnalysisRequest) ToParams() services.AnalysisParams {
	return services.AnalysisParams{InitialBalance: r.Params.InitialBalance}
}
