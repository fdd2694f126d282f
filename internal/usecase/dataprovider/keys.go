package dataprovider

import (
	"github.com/kailas-cloud/dataprovider/internal/domain"
	"github.com/kailas-cloud/dataprovider/internal/domain/model"
)

// KeySpec selects how model keys are derived. The zero value falls back to
// the model type's identity, then to the model's position.
type KeySpec[M model.Model] struct {
	field string
	fn    func(m M) any
}

// KeyByField keys each model by the value of one of its fields.
func KeyByField[M model.Model](field string) KeySpec[M] {
	return KeySpec[M]{field: field}
}

// KeyByFunc keys each model by the return value of fn.
func KeyByFunc[M model.Model](fn func(m M) any) KeySpec[M] {
	return KeySpec[M]{fn: fn}
}

// keyOf derives the key of the model at position i. identity is the identity
// declared by the model's type, if any.
func (k KeySpec[M]) keyOf(i int, m M, identity []string) (any, error) {
	switch {
	case k.field != "":
		return fieldValue(i, m, k.field)
	case k.fn != nil:
		return k.fn(m), nil
	case len(identity) == 1:
		return fieldValue(i, m, identity[0])
	case len(identity) > 1:
		composite := make(map[string]any, len(identity))
		for _, f := range identity {
			v, err := fieldValue(i, m, f)
			if err != nil {
				return nil, err
			}
			composite[f] = v
		}
		return composite, nil
	default:
		return i, nil
	}
}

func fieldValue[M model.Model](i int, m M, field string) (any, error) {
	v, ok := m.Field(field)
	if !ok {
		return nil, &domain.KeyExtractionError{Field: field, Index: i}
	}
	return v, nil
}
