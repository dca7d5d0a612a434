// Package errors provides foundational, type-safe error primitives used across bitacora.
//
// A build either aborts (fatal: configuration, data fetch, template and write
// failures) or degrades a single item (warning: media download failures).
// ClassifiedError carries that distinction together with a category and a
// structured context so the CLI and the preview server can present it.
//
// Example usage:
//
//	err := errors.FetchError("data endpoint returned non-200").
//		WithContext("service", "Blogs").
//		WithContext("status", resp.StatusCode).
//		Build()
package errors
