// Package service contains the business logic.
//
// It sits between the handler layer and the upstream client.
// It receives a validated query from the handler, calls the
// NYT API and turns whatever comes back into a response envelope.
package service
