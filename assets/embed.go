// assets/embed.go
//
// Embedded resources shipped inside the binary:
//   - words.txt: default dictionary, used when WORDS_FILE is not set.
//   - sql/*.sql: SQLite migrations, applied in lexical order.
package assets

import (
	"embed"
	"io"
	"io/fs"
	"sort"
)

//go:embed words.txt sql/*.sql
var FS embed.FS

// Words opens the embedded default dictionary.
func Words() (io.ReadCloser, error) {
	return FS.Open("words.txt")
}

// Migration is a single embedded SQL script.
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns the embedded SQL scripts sorted by file name.
func Migrations() ([]Migration, error) {
	names, err := fs.Glob(FS, "sql/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		b, err := FS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: name, SQL: string(b)})
	}
	return out, nil
}
