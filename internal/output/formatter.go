package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Formatter renders a report into bytes.
type Formatter interface {
	Name() string
	Format(r *Report) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(r *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(r *Report) ([]byte, error) { return f.F(r) }

var formatters = map[string]Formatter{
	"console": ConsoleFormatter{},
	"json":    JSONFormatter{Pretty: true},
	"csv":     CSVFormatter{},
	"html":    HTMLFormatter{},
	"pdf":     PDFFormatter{},
	"xlsx":    XLSXFormatter{},
}

var formatAliases = map[string]string{
	"text":    "console",
	"verbose": "console",
	"excel":   "xlsx",
	"brief":   "pdf",
}

var extensions = map[string]string{
	"console": "txt",
	"json":    "json",
	"csv":     "csv",
	"html":    "html",
	"pdf":     "pdf",
	"xlsx":    "xlsx",
}

// AvailableFormatterNames lists the registered formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists alternative names accepted by GetFormatterByName.
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// GetFormatterByName returns the formatter registered under name or one of its
// aliases, or nil.
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// Extension returns the file extension used for a formatter's output.
func Extension(name string) string {
	if ext, ok := extensions[name]; ok {
		return ext
	}
	return "txt"
}

// IsBinary reports whether a formatter writes a binary document that should not
// be printed to a terminal.
func IsBinary(name string) bool {
	return name == "pdf" || name == "xlsx"
}

// WriteFormatted formats the report and writes it to report_<timestamp>.<ext>
// in the working directory. It returns the filename.
func WriteFormatted(f Formatter, r *Report, ext string) (string, error) {
	filename := fmt.Sprintf("report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := WriteFile(f, r, filename); err != nil {
		return "", err
	}
	return filename, nil
}

// WriteFile formats the report and writes it to path.
func WriteFile(f Formatter, r *Report, path string) error {
	data, err := f.Format(r)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	return os.WriteFile(path, data, 0644)
}
