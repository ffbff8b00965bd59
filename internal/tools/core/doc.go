// Package core provides general-purpose tools with no external collaborators.
//
// Tools:
//   - getStringLength: Count the Unicode code points of a string
package core
