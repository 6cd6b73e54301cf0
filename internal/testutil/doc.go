// Package testutil holds fixtures shared by the package and integration
// tests: temporary repository trees and concurrency-safe capture buffers.
package testutil
