package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/syslog"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/altavoz/altavoz-server/contentsearch"
	"github.com/altavoz/altavoz-server/database"
	"github.com/altavoz/altavoz-server/imageresize"
	"github.com/altavoz/altavoz-server/profiles"
)

type config struct {
	Listen struct {
		Port    int
		Tls     bool
		TlsCert string
		TlsKey  string
	}
	Dbfile   string
	Artdir   string
	Cachedir string
	Logfile  string
	Art      struct {
		// JPEG quality for resized covers
		Quality int
	}
}

func loadConfig() (*config, error) {
	configFile := pflag.String("config", "altavoz-server.yaml", "Path of configuration file")
	logfile := pflag.String("logfile", "",
		"Path of logfile. Use 'syslog' for syslog, 'stdout' "+
			"for standard output, or 'none' to disable logging.")
	createUser := pflag.String("createuser", "",
		"Create a user account at startup, format username:password")
	pflag.Parse()

	v := viper.New()
	v.SetConfigFile(*configFile)
	v.SetDefault("listen.port", 8080)
	v.SetDefault("dbfile", "altavoz.db")
	v.SetDefault("art.quality", 85)

	// a missing config file is fine, defaults apply
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if *logfile != "" {
		cfg.Logfile = *logfile
	}
	createUserSpec = *createUser
	return &cfg, nil
}

// set by loadConfig from the --createuser flag
var createUserSpec string

func setLogOutput(logfile string) {
	switch logfile {
	case "syslog":
		logw, err := syslog.New(syslog.LOG_NOTICE, "altavoz")
		if err != nil {
			log.Fatalf("error opening syslog: %v", err)
		}
		log.SetOutput(logw)
	case "none":
		log.SetOutput(io.Discard)
	case "", "stdout":
	default:
		f, err := os.OpenFile(logfile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("error opening file: %v", err)
		}
		log.SetOutput(f)
	}
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	setLogOutput(cfg.Logfile)

	repo, err := database.New(&database.Options{
		Filename: cfg.Dbfile,
	})
	if err != nil {
		log.Fatalf("database.New: %s", err)
	}

	ctx := context.Background()

	if createUserSpec != "" {
		username, password, ok := strings.Cut(createUserSpec, ":")
		if !ok || username == "" || password == "" {
			log.Fatalf("createuser: expected username:password")
		}
		user, err := repo.InsertUser(ctx, username, password)
		if err != nil {
			log.Fatalf("createuser: %s", err)
		}
		log.Printf("created user %q (id %d)", user.Username, user.ID)
	}

	search, err := contentsearch.New()
	if err != nil {
		log.Fatalf("contentsearch.New: %s", err)
	}
	catalog, err := repo.AllContent(ctx)
	if err != nil {
		log.Fatalf("loading catalog: %s", err)
	}
	if err := search.IndexContent(ctx, catalog); err != nil {
		log.Fatalf("indexing catalog: %s", err)
	}
	log.Printf("indexed %d catalog items", len(catalog))

	r := mux.NewRouter()

	p := profiles.New(&profiles.Options{
		Repo:   repo,
		Search: search,
	})
	p.RegisterHandlers(r)

	if cfg.Artdir != "" {
		resizer := imageresize.New(imageresize.Options{
			Artdir:   cfg.Artdir,
			Cachedir: cfg.Cachedir,
			Quality:  cfg.Art.Quality,
		})
		r.PathPrefix("/art/").Handler(resizer)
	}

	server := HttpLog(r)
	addr := fmt.Sprintf(":%d", cfg.Listen.Port)

	if cfg.Listen.Tls && cfg.Listen.TlsCert != "" && cfg.Listen.TlsKey != "" {
		log.Printf("Serving HTTPS on %s", addr)
		log.Fatal(http.ListenAndServeTLS(addr, cfg.Listen.TlsCert, cfg.Listen.TlsKey, server))
	} else {
		log.Printf("Serving HTTP on %s", addr)
		log.Fatal(http.ListenAndServe(addr, server))
	}
}
