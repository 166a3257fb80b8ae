package validator

import (
	"github.com/webosose/pbnjson-go/schema"
	"github.com/webosose/pbnjson-go/value"
)

func checkNumeric(n *schema.Node, v *value.Value, path string) []*Error {
	if v.Kind() != value.Number {
		return nil
	}
	f, _ := v.AsF64()
	var errs []*Error

	if n.HasMinimum {
		if n.ExclusiveMin {
			if f <= n.Minimum {
				errs = append(errs, newError(CodeNumberTooSmall, path, "%v must be greater than %v", f, n.Minimum))
			}
		} else if f < n.Minimum {
			errs = append(errs, newError(CodeNumberTooSmall, path, "%v must be at least %v", f, n.Minimum))
		}
	}
	if n.HasMaximum {
		if n.ExclusiveMax {
			if f >= n.Maximum {
				errs = append(errs, newError(CodeNumberTooBig, path, "%v must be less than %v", f, n.Maximum))
			}
		} else if f > n.Maximum {
			errs = append(errs, newError(CodeNumberTooBig, path, "%v must be at most %v", f, n.Maximum))
		}
	}
	if n.HasMultipleOf {
		q := f / n.MultipleOf
		if q != float64(int64(q)) {
			errs = append(errs, newError(CodeUnexpectedValue, path, "%v is not a multiple of %v", f, n.MultipleOf))
		}
	}
	return errs
}
