// Package order contains the Order aggregate and its fulfillment state
// machine.
//
// An order enters as AwaitingDriver when checkout confirms a basket. A nearby
// driver claims it (Assigned), collects it (PickedUp), leaves for the customer
// (OutForDelivery) and proves the hand-off with the customer's delivery code
// (Delivered). The driver may hand it back with Reject, or end it with Cancel.
//
// Each transition raises a StatusChangedEvent that persistence writes to the
// outbox in the same transaction.
package order
