package types

type OutputFormat string

const (
	OutputFormatWebM OutputFormat = "webm"
	OutputFormatGIF  OutputFormat = "gif"
)

// Extension returns the file extension for the format, including the dot.
func (f OutputFormat) Extension() string {
	return "." + string(f)
}

// Valid reports whether f is a format the converters can produce.
func (f OutputFormat) Valid() bool {
	return f == OutputFormatWebM || f == OutputFormatGIF
}
