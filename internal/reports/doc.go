// Package reports derives financial summaries from normalized tabular data:
// yearly statement summaries, monthly transaction summaries, budget variance
// analysis and cash flow projections. Each report validates that the input
// has the shape it needs and returns a sentinel error otherwise.
package reports
