package lazydir

import (
	"path/filepath"
	"strconv"
	"strings"
)

// FormatPath replaces placeholders in template with parts of path:
//
//	{}      the absolute path
//	{base}  the file name
//	{dir}   the containing directory
//	{rel}   the path relative to root
//	{ext}   the file extension, including the dot
//
// A quoted form such as {"base"} inserts the value as a Go string literal,
// and {""} does so for the absolute path.
func FormatPath(template, root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	values := []struct{ name, value string }{
		{"", path},
		{"base", filepath.Base(path)},
		{"dir", filepath.Dir(path)},
		{"rel", rel},
		{"ext", filepath.Ext(path)},
	}

	pairs := make([]string, 0, len(values)*4)
	for _, v := range values {
		pairs = append(pairs,
			"{"+v.name+"}", v.value,
			`{"`+v.name+`"}`, strconv.Quote(v.value),
		)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
