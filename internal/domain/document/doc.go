// Package document contains the Document bounded context.
// It defines the section model handed to document renderers and the stored
// artifacts (care plans, invoices, workouts, meal plans, contracts) that are
// assembled into sections on every render request.
package document
