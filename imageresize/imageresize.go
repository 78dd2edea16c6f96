package imageresize

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/altavoz/altavoz-server/idhash"
)

type Options struct {
	// Artdir is the directory holding the cover art files.
	Artdir string
	// Cachedir holds resized variants; empty disables caching.
	Cachedir string
	// Quality is the JPEG quality for resized covers, 0 means encoder default.
	Quality int
}

// Resizer serves cover art files, scaled on demand and cached on disk.
type Resizer struct {
	artdir   string
	cachedir string
	quality  int
	// one resize at a time per source file
	resizeMutexMap     map[string]*sync.Mutex
	resizeMutexMapLock sync.Mutex
}

func New(o Options) *Resizer {
	return &Resizer{
		artdir:         o.Artdir,
		cachedir:       o.Cachedir,
		quality:        o.Quality,
		resizeMutexMap: make(map[string]*sync.Mutex),
	}
}

var isImg = regexp.MustCompile(`\.(png|jpg|jpeg)$`)

// ServeHTTP serves /art/{path}, resized to the w and h query parameters
// when present. Non-image files and directories are refused.
func (r *Resizer) ServeHTTP(w http.ResponseWriter, rq *http.Request) {
	if rq.Method != "GET" && rq.Method != "HEAD" {
		http.Error(w, "405 Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(path.Clean(rq.URL.Path), "/art/")
	if name == "" || strings.HasPrefix(name, ".") || strings.Contains(name, "..") {
		http.Error(w, "404 Not Found", http.StatusNotFound)
		return
	}
	s := isImg.FindStringSubmatch(name)
	if len(s) == 0 {
		http.Error(w, "404 Not Found", http.StatusNotFound)
		return
	}
	ctype := s[1]
	if ctype == "jpeg" {
		ctype = "jpg"
	}

	width := paramUint(rq, "w")
	height := paramUint(rq, "h")

	fsPath := filepath.Join(r.artdir, filepath.FromSlash(name))
	if width == 0 && height == 0 {
		http.ServeFile(w, rq, fsPath)
		return
	}

	blob, err := r.scaled(fsPath, ctype, width, height)
	if err != nil {
		http.Error(w, "404 Not Found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/"+ctype)
	w.Write(blob)
}

// scaled returns the resized image bytes, from cache when possible.
func (r *Resizer) scaled(fsPath, ctype string, width, height int) ([]byte, error) {
	cacheFile := r.cachePath(fsPath, width, height)
	if cacheFile != "" {
		if blob, err := os.ReadFile(cacheFile); err == nil {
			return blob, nil
		}
	}

	r.resizeMutexMapLock.Lock()
	m, ok := r.resizeMutexMap[fsPath]
	if !ok {
		m = &sync.Mutex{}
		r.resizeMutexMap[fsPath] = m
	}
	r.resizeMutexMapLock.Unlock()
	m.Lock()
	defer m.Unlock()

	// another request may have resized while we waited
	if cacheFile != "" {
		if blob, err := os.ReadFile(cacheFile); err == nil {
			return blob, nil
		}
	}

	fh, err := os.Open(fsPath)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	img, _, err := image.Decode(fh)
	if err != nil {
		return nil, err
	}

	// Resize with a zero dimension preserves the aspect ratio.
	img = imaging.Resize(img, width, height, imaging.Lanczos)

	var buf bytes.Buffer
	switch ctype {
	case "jpg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: r.jpegQuality()})
	case "png":
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, err
	}
	blob := buf.Bytes()

	if cacheFile != "" {
		r.cacheWrite(cacheFile, blob)
	}
	return blob, nil
}

func (r *Resizer) jpegQuality() int {
	if r.quality > 0 {
		return r.quality
	}
	return jpeg.DefaultQuality
}

// cachePath keys a resized variant on the source path and dimensions.
func (r *Resizer) cachePath(fsPath string, width, height int) string {
	if r.cachedir == "" {
		return ""
	}
	key := idhash.Hash(fsPath + ":" + strconv.Itoa(width) + "x" + strconv.Itoa(height))
	return filepath.Join(r.cachedir, key)
}

// cacheWrite stores a resized variant, writing via a temp file so readers
// never observe a partial image.
func (r *Resizer) cacheWrite(cacheFile string, blob []byte) {
	tmp := cacheFile + "." + strconv.Itoa(os.Getpid())
	if err := os.WriteFile(tmp, blob, 0666); err != nil {
		return
	}
	if err := os.Rename(tmp, cacheFile); err != nil {
		os.Remove(tmp)
	}
}

func paramUint(rq *http.Request, name string) int {
	val := rq.URL.Query().Get(name)
	if val == "" {
		return 0
	}
	n, err := strconv.ParseUint(val, 10, 16)
	if err != nil {
		return 0
	}
	return int(n)
}
