// Package services provides domain services for rules that span more than
// one aggregate or need zone settings:
//   - AvailabilityMatcher: which awaiting orders a driver may see
//   - EarningsAccrual: the earning a delivered order produces
//   - ETAEstimator: straight-line expected delivery time
package services
