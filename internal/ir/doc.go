// Package ir provides the value domain shared by the expression engine.
//
// All other internal packages import ir; ir imports nothing internal.
// Graph records, evaluation results and canonical trees are all IRValues.
//
// Key design constraints:
//   - NO float types anywhere - use int64 for numbers
//   - Records are IRObject, lists are IRArray
//   - MarshalCanonical is the only encoding used for persistence and ids
package ir
