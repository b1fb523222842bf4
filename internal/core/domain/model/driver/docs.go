// Package driver contains the Driver aggregate and the location samples
// drivers push while on shift.
package driver
