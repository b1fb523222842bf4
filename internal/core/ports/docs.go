// Package ports defines the contracts between the core and its adapters:
// repositories bound to a unit of work, the live location cache, event
// publishers and the zone configuration source.
package ports
