// Package utils provides internal utility functions for the Red API service.
// This package is not intended to be imported by external code.
//
// It contains:
//   - Great-circle distance calculation over route geometry
//   - Shared string normalization helpers
package utils
