package handlers

import (
	"context"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/julienschmidt/httprouter"
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
)

var webBuild = flag.String("web_build", "", "`build` folder for web app")

// createWebApp serves every file of the web build under r. The index is
// also served for client side routes.
func createWebApp(ctx context.Context, r Router) {
	if *webBuild == "" {
		return
	}
	var files int
	err := fs.WalkDir(os.DirFS(*webBuild), ".",
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			filePath := filepath.Join(*webBuild, path)
			r.GET("/"+path, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
				http.ServeFile(w, r, filePath)
			})
			files++
			return nil
		},
	)
	if err != nil {
		panic(errors.Wrap(err, "walk web build", j.KV("dir", *webBuild)))
	}
	r.GET("/", serveIndex)
	log.Info(ctx, "serving web app", j.MKV{"dir": *webBuild, "files": files})
}

func serveIndex(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if *webBuild == "" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(*webBuild, "index.html"))
}
