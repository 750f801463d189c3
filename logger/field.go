package logger

import "strconv"

// Field is a key and its already formatted value, appended to a message as
// key=value by TextPrinter and as its own member by JSONPrinter.
type Field struct {
	Key   string
	Value string
}

type Fields []Field

func StringField(key, value string) Field {
	return Field{Key: key, Value: value}
}

func IntField(key string, value int) Field {
	return Field{Key: key, Value: strconv.Itoa(value)}
}

// QuotedField quotes value, for values that may contain whitespace (paths,
// command lines).
func QuotedField(key, value string) Field {
	return Field{Key: key, Value: strconv.Quote(value)}
}
