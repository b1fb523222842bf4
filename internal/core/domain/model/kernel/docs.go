// Package kernel provides the value objects shared by every aggregate of the
// fulfillment engine:
//   - UUID: identifiers for orders, drivers, earnings and payouts
//   - Money and Rate: integer minor-unit amounts and basis-point percentages
//   - GeoPoint: WGS84 coordinates with haversine distance
//   - DeliveryCode: bcrypt-hashed proof-of-delivery code
//   - DomainEvent, BaseEvent and EventRecorder: facts raised by aggregates
//
// Value objects are immutable and carry a guard.ConstructorGuard, so a zero
// value fails Validate instead of silently meaning "0 in no currency".
package kernel
