// pkg/normalize/errors.go
package normalize

import "fmt"

// CoercionError reports a categorical field whose raw value falls
// outside its expected domain. Silent defaulting would corrupt the
// boolean semantics every downstream consumer assumes, so the load
// pass fails loudly instead.
type CoercionError struct {
	Row    int    // 1-based data row number
	Column string // source column name
	Value  string // offending raw value
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("row %d: column %s holds unexpected value %q", e.Row, e.Column, e.Value)
}
