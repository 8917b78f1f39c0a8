package models

// Field is one named cell of a Record.
type Field struct {
	Key   string
	Value string
}

// Record is an ordered mapping of column name to value.
type Record []Field

// Keys returns the field names in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}

	return keys
}

// Get returns the value for key and whether it was present.
func (r Record) Get(key string) (string, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}

	return "", false
}
