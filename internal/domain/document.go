package domain

// StdinPath is the path that selects standard input instead of a file.
const StdinPath = "-"

// Document is a decoded input. Raw always holds JSON text, also for
// documents read from YAML.
type Document struct {
	Path  string
	Raw   []byte
	Value any
}

func (d Document) IsStdin() bool {
	return d.Path == StdinPath
}
