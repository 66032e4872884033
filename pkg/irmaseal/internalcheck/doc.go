// Package internalcheck holds static policy tests for the irmaseal-go
// library.
//
// Its tests load the non-test sources of pkg/irmaseal and internal/ibe and
// walk their syntax trees: TestNoDirectByteComparison rejects == and != on
// byte slices and byte arrays, and TestNoHexFormatting rejects %x and %X
// verbs in fmt and log format strings. The package exports nothing.
//
// # Internal Use Only
//
// This package is part of the internal implementation and should not be
// imported by applications using the irmaseal-go library. Use the public API
// provided by pkg/irmaseal instead.
package internalcheck
