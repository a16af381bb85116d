// Package order provides the Order aggregate of the order service together with
// its value objects and error taxonomy.
//
// The package includes:
//   - Order: identity, owner, items, price and lifecycle status
//   - Item: a product/quantity line
//   - Status: the forward-only lifecycle Ordered -> Shipped -> Delivered
//   - EmailDetails: the confirmation projection sent to the notification service
//   - InvalidOrderItemError: the single error kind for unpriceable or malformed items
//
// Key business rules:
//   - Orders always contain at least one item
//   - The owning user of an order never changes
//   - Delivered orders cannot be deleted
package order
