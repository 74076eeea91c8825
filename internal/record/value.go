package record

// Value is the content of one record field. A value that is not Set, or
// that carries no data, is the absent sentinel.
type Value struct {
	Data string `json:"data,omitempty"`
	Set  bool   `json:"set"`
}

// Absent is written to a field to mean "no value".
var Absent = Value{}

// Of wraps a string payload as a present field value.
func Of(data string) Value {
	return Value{Data: data, Set: true}
}

// IsAbsent reports whether v should be treated as "no value".
func (v Value) IsAbsent() bool {
	return !v.Set || v.Data == ""
}

// Record is the host form record a field widget is bound to. Widgets read
// their bound field when they mount and write it back through Update.
type Record interface {
	Value(field string) Value
	Update(field string, v Value)
}
