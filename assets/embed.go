// Package assets embeds the fallback word list and the SQL migrations.
package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed words.txt
var wordsFS embed.FS

//go:embed sql/*.sql
var sqlFS embed.FS

// WordList returns the embedded default dictionary, one upper-case word per
// entry in file order. Blank lines and # comments are skipped.
func WordList() ([]string, error) {
	f, err := wordsFS.Open("words.txt")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToUpper(s))
	}
	return out, sc.Err()
}

// Migrations returns the SQL migration files, rooted so that names are
// plain file names like "001_init.sql".
func Migrations() fs.FS {
	sub, err := fs.Sub(sqlFS, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}
