// Package match suggests intended column names for misspelt or
// differently-formatted input headers.
//
// Key functions:
//   - NormalizeHeader: folds a header to a comparable form
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks candidate names against a header
//   - Overlap: scores how well a header set fits an expected column set
package match
