// Package sentinel provides a const-declarable error type.
//
// Errors declared as sentinel.Error constants cannot be reassigned at
// runtime and compare correctly under errors.Is, making them suitable for
// the package-level sentinels exported by objectpool.
package sentinel
