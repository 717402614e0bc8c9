// Package sanitizer normalizes guest contact data before validation
// and storage.
//
// All normalization functions are idempotent - applying them multiple
// times produces the same result. Functions handle invalid input
// gracefully, typically by returning the trimmed original or an empty
// string rather than errors.
//
// Normalization includes:
//   - Phone numbers: convert to E.164 format (+[country][number])
//   - Names and labels: collapse whitespace, trim leading/trailing spaces
//   - Mail addresses: trim and lowercase the domain part
package sanitizer
