package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Pages — статические страницы витрины с "чистыми" URL:
// "/" -> index.html, "/login" -> login.html, файлы с расширением — как есть.
// Отдаётся из каталога dir; выход за его пределы отрезает path.Clean.
func Pages(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean(r.URL.Path)
		if p == "/" {
			p = "/index.html"
		} else if path.Ext(p) == "" {
			candidate := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(p, "/"))+".html")
			if _, err := os.Stat(candidate); err == nil {
				p += ".html"
			}
		}
		r.URL.Path = p
		fs.ServeHTTP(w, r)
	})
}
