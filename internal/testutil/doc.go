// Package testutil provides fluent builders for constructing test fixtures
// (pre-populated memory stores) used across package tests.
package testutil
