package validator

import (
	"fmt"

	"github.com/webosose/pbnjson-go/schema"
	"github.com/webosose/pbnjson-go/value"
)

func checkArray(n *schema.Node, v *value.Value, path string) []*Error {
	if v.Kind() != value.Array {
		return nil
	}
	size := v.Size()
	var errs []*Error

	if n.HasMinItems && size < n.MinItems {
		errs = append(errs, newError(CodeArrayTooShort, path, "has %d items, minimum is %d", size, n.MinItems))
	}
	if n.HasMaxItems && size > n.MaxItems {
		errs = append(errs, newError(CodeArrayTooLong, path, "has %d items, maximum is %d", size, n.MaxItems))
	}
	if n.UniqueItems {
		for i := 0; i < size; i++ {
			for j := i + 1; j < size; j++ {
				if value.Equal(value.ArrayGet(v, i), value.ArrayGet(v, j)) {
					errs = append(errs, newError(CodeArrayHasDuplicates, path, "items %d and %d are equal", i, j))
					break
				}
			}
		}
	}

	switch {
	case n.Items != nil:
		for i := 0; i < size; i++ {
			errs = append(errs, validateNode(n.Items, value.ArrayGet(v, i), fmt.Sprintf("%s/%d", path, i))...)
		}
	case len(n.ItemsTuple) > 0:
		for i := 0; i < size; i++ {
			item := value.ArrayGet(v, i)
			itemPath := fmt.Sprintf("%s/%d", path, i)
			if i < len(n.ItemsTuple) {
				errs = append(errs, validateNode(n.ItemsTuple[i], item, itemPath)...)
				continue
			}
			if !n.HasAdditionalItems || n.AdditionalItemsBool {
				if n.AdditionalItems != nil {
					errs = append(errs, validateNode(n.AdditionalItems, item, itemPath)...)
				}
				continue
			}
			errs = append(errs, newError(CodePropertyNotAllowed, itemPath, "item beyond the tuple schema is not allowed"))
		}
	}
	return errs
}
