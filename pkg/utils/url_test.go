package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveHref(t *testing.T) {
	tests := []struct {
		name string
		page string
		href string
		want string
	}{
		{"root relative", "https://e.com/a/b", "/x", "https://e.com/x"},
		{"relative", "https://e.com/a/b", "y", "https://e.com/a/b/y"},
		{"relative with trailing slash", "https://e.com/a/", "y", "https://e.com/a/y"},
		{"absolute", "https://e.com/a/b", "http://other.org/z", "http://other.org/z"},
		{"scheme relative", "https://e.com/a", "//cdn.e.com/img.png", "https://cdn.e.com/img.png"},
		{"mailto kept", "https://e.com/a", "mailto:me@e.com", "mailto:me@e.com"},
		{"root relative keeps port", "http://127.0.0.1:8080/list", "/next?page=2", "http://127.0.0.1:8080/next?page=2"},
		{"whitespace trimmed", "https://e.com/a/b", "  /x  ", "https://e.com/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveHref(tt.page, tt.href))
		})
	}
}

func TestIncrementPageParam(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"increments existing", "https://e.com/list?page=2", "https://e.com/list?page=3"},
		{"appends with question mark", "https://e.com/list", "https://e.com/list?page=2"},
		{"appends with ampersand", "https://e.com/list?sort=new", "https://e.com/list?sort=new&page=2"},
		{"keeps other params", "https://e.com/list?page=9&sort=new", "https://e.com/list?page=10&sort=new"},
		{"ampersand page param", "https://e.com/list?sort=new&page=4", "https://e.com/list?sort=new&page=5"},
		{"ignores per_page", "https://e.com/list?per_page=20", "https://e.com/list?per_page=20&page=2"},
		{"page after per_page", "https://e.com/list?per_page=20&page=3", "https://e.com/list?per_page=20&page=4"},
		{"ignores path segment", "https://e.com/subpage=3/x", "https://e.com/subpage=3/x?page=2"},
		{"beyond int64", "https://e.com/list?page=99999999999999999999", "https://e.com/list?page=100000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IncrementPageParam(tt.url))
		})
	}
}
