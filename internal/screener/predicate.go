// Package screener evaluates filter criteria against stocks.
package screener

import (
	"fmt"
	"math"
	"stock-screener/internal/dto"
)

// equalTolerance is the absolute difference under which "=" holds.
const equalTolerance = 0.01

type verdict int

const (
	evaluable verdict = iota
	// neverSatisfied criteria fail every stock.
	neverSatisfied
	// alwaysSatisfied criteria pass every stock that has the operand.
	alwaysSatisfied
)

// inspect classifies an enabled criterion and explains anything that keeps it from being
// evaluated as written.
func inspect(c dto.FilterCriterion) (verdict, string) {
	switch {
	case c.Operator == "":
		return neverSatisfied, "operator is empty"
	case math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0):
		return neverSatisfied, "threshold is not a finite number"
	case c.MaxThreshold != nil && (math.IsNaN(*c.MaxThreshold) || math.IsInf(*c.MaxThreshold, 0)):
		return neverSatisfied, "maxThreshold is not a finite number"
	case !c.IndicatorType.IsFilterable():
		return neverSatisfied, fmt.Sprintf("unknown indicator type %q", c.IndicatorType)
	case c.Operator == dto.OperatorBetween && c.IndicatorType != dto.IndicatorPrice:
		return neverSatisfied, "between is only supported for PRICE"
	case !c.Operator.Known():
		return alwaysSatisfied, fmt.Sprintf("unrecognized operator %q is ignored", c.Operator)
	}
	return evaluable, ""
}

// Warnings returns one data-quality message for every enabled criterion that will not be
// evaluated as written.
func Warnings(criteria []dto.FilterCriterion) []string {
	var out []string
	for _, c := range criteria {
		if !c.Enabled {
			continue
		}
		if v, reason := inspect(c); v != evaluable {
			out = append(out, fmt.Sprintf("criterion %d (%s %s): %s", c.ID, c.IndicatorType, c.Operator, reason))
		}
	}
	return out
}

// operand resolves the number a criterion compares against. PRICE reads the stock price; every
// other type reads the stock's current indicator of that type.
func operand(stock *dto.Stock, t dto.IndicatorType) (float64, bool) {
	if t == dto.IndicatorPrice {
		return stock.Price, true
	}
	return stock.IndicatorValue(t)
}

// Evaluate reports whether stock satisfies c. Disabled criteria always hold. A stock that lacks
// the targeted indicator never matches.
func Evaluate(stock *dto.Stock, c dto.FilterCriterion) bool {
	if !c.Enabled {
		return true
	}
	v, _ := inspect(c)
	if v == neverSatisfied {
		return false
	}

	value, ok := operand(stock, c.IndicatorType)
	if !ok {
		return false
	}
	if v == alwaysSatisfied {
		return true
	}
	return compare(value, c)
}

func compare(value float64, c dto.FilterCriterion) bool {
	switch c.Operator {
	case dto.OperatorGreater:
		return value > c.Threshold
	case dto.OperatorLess:
		return value < c.Threshold
	case dto.OperatorGreaterEqual:
		return value >= c.Threshold
	case dto.OperatorLessEqual:
		return value <= c.Threshold
	case dto.OperatorEqual:
		return math.Abs(value-c.Threshold) < equalTolerance
	case dto.OperatorBetween:
		lower, upper := c.Bounds()
		return value >= lower && value <= upper
	}
	return true
}

// Match reports whether stock satisfies every criterion.
func Match(stock *dto.Stock, criteria []dto.FilterCriterion) bool {
	for _, c := range criteria {
		if !Evaluate(stock, c) {
			return false
		}
	}
	return true
}
