// SPDX-License-Identifier: Apache-2.0
package errors

// Diagnostic codes, grouped by pipeline stage:
// L0xxx lexical, P1xxx parser, S2xxx semantic, T3xxx table/build.
const (
	CodeUnexpectedCharacter = "L0001"
	CodeRegexSyntax         = "L0002"
	CodeResourceLimit       = "L0003"

	CodeParseError = "P1001"

	CodeDuplicateDeclaration = "S2001"
	CodeUndefinedVariable    = "S2002"
	CodeInvalidContext       = "S2003"
	CodeAssignToConstant     = "S2004"
	CodeArityMismatch        = "S2005"

	CodeTableLoad = "T3001"
)
