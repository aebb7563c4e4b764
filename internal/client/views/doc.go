// Package views holds the stateful screens of the client: the product
// listing and detail, the owner's product list, the product form and the
// profile form.
//
// A view reports failures through a Notifier as transient notices. The one
// exception is a missing product, which puts ProductDetail into a terminal
// state instead. Every view guards its operations against repeated
// submission and drops results that arrive after Close.
package views
