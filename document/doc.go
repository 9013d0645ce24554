// Package document models a single document while its source is being
// parsed for indexing. Fields land in named binary slots; each slot accepts
// exactly one value, so a duplicate field in one document is caught at write
// time instead of silently overwriting the first occurrence.
package document
